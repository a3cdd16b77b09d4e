package cmd

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"log-audit/internal/alerts"
	"log-audit/internal/classify"
	"log-audit/internal/collector"
	"log-audit/internal/logfile"
	"log-audit/internal/render"
	"log-audit/internal/tailer"
)

var metricsAddr string

var followCmd = &cobra.Command{
	Use:   "follow",
	Short: "Follow the live access log and render matches as they arrive",
	Long: `Tail the configured access log and render classified lines as they are
written. Output is in arrival order (the chronological sort only applies to
batch searches). With --metrics-addr set, match counters are exposed for
Prometheus; with a webhook configured, each rendered record is forwarded.`,
	Args: cobra.NoArgs,
	RunE: runFollow,
}

func init() {
	followCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "expose Prometheus metrics on this address (e.g. :9102)")
	rootCmd.AddCommand(followCmd)
}

func runFollow(cmd *cobra.Command, args []string) error {
	cfg, table, err := setup()
	if err != nil {
		return err
	}
	if err := checkPrivilege(cfg.LogPath); err != nil {
		return err
	}

	coll := collector.NewAuditCollector()
	if metricsAddr != "" {
		coll.Register(prometheus.DefaultRegisterer)
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			log.Printf("metrics listening on %s", metricsAddr)
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				log.Printf("metrics server: %v", err)
			}
		}()
	}

	dispatcher := alerts.NewDispatcher(cfg.WebhookURL)
	renderer := render.New(table, rawFlag)
	expr := logfile.Any()
	printer := newPrinter()

	lines := make(chan string)
	if err := tailer.Follow(cfg.LogPath, lines); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sigCh:
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			coll.CountLine()
			if !expr.Match(line) {
				continue
			}

			if rawFlag {
				if sectionFlag != "" && len(classify.FilterSection(table, sectionFlag, []string{line})) == 0 {
					continue
				}
				rec, ok := renderer.Render("", line)
				if !ok {
					coll.CountDrop()
					continue
				}
				if err := printer.PrintOne(rec); err != nil {
					return err
				}
				continue
			}

			for _, m := range classify.MatchLine(table, line) {
				rec, ok := renderer.Render(m.Key, m.Line)
				if !ok {
					coll.CountDrop()
					break
				}
				section := ""
				if d, found := table.Lookup(m.Key); found {
					section = d.Section
				}
				if sectionFlag != "" && section != sectionFlag {
					continue
				}
				coll.CountMatch(section, m.Key)
				if err := printer.PrintOne(rec); err != nil {
					return err
				}
				dispatcher.Send(rec, m.Key, section)
			}
		}
	}
}
