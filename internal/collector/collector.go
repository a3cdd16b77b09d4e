package collector

import (
	"github.com/prometheus/client_golang/prometheus"
)

// AuditCollector counts pipeline activity while following the live log.
type AuditCollector struct {
	LinesSeen  prometheus.Counter
	Matches    *prometheus.CounterVec
	ParseDrops prometheus.Counter
}

func NewAuditCollector() *AuditCollector {
	return &AuditCollector{
		LinesSeen: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "logaudit_lines_total",
			Help: "Total log lines seen by the follower.",
		}),
		Matches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "logaudit_matches_total",
				Help: "Total definition matches, by section and key.",
			},
			[]string{"section", "key"},
		),
		ParseDrops: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "logaudit_parse_drops_total",
			Help: "Lines dropped for not following the fixed-field grammar.",
		}),
	}
}

// Register wires the collectors into a Prometheus registry.
func (c *AuditCollector) Register(reg prometheus.Registerer) {
	reg.MustRegister(c.LinesSeen, c.Matches, c.ParseDrops)
}

func (c *AuditCollector) CountLine() {
	c.LinesSeen.Inc()
}

func (c *AuditCollector) CountMatch(section, key string) {
	c.Matches.WithLabelValues(section, key).Inc()
}

func (c *AuditCollector) CountDrop() {
	c.ParseDrops.Inc()
}
