// Package render turns classified (key, line) pairs into audit records:
// fixed-field line parsing, field capture, positional template
// substitution, and percent-decoding.
package render

import (
	"net/url"
	"regexp"
	"strconv"
	"time"

	"log-audit/internal/defs"
)

// Record is one rendered audit entry, ready for sorting and printing.
type Record struct {
	Epoch   time.Time
	IP      string
	User    string
	Message string
}

// Access log line grammar. The timestamp is day-first (DD/MM/YYYY) and the
// offset is always -0000; fields are interpreted as UTC. This is a fixed
// property of the log format, not something inferred per line.
var lineRegex = regexp.MustCompile(
	`^(\S{7,15}) (?:-|proxy) (\S+) \[(\d{2})/(\d{2})/(\d{4}):(\d{2}):(\d{2}):(\d{2}) -0000\] "([^"]*)"`)

// Fields are the parsed fixed leading fields plus the quoted payload.
type Fields struct {
	IP      string
	User    string
	Epoch   time.Time
	Payload string
}

// ParseLine splits a raw line into its fixed fields. ok is false for lines
// that do not follow the grammar; such lines are silently dropped from
// output rather than reported, since upstream selection already gave them a
// coarse match.
func ParseLine(line string) (Fields, bool) {
	m := lineRegex.FindStringSubmatch(line)
	if m == nil {
		return Fields{}, false
	}

	day, _ := strconv.Atoi(m[3])
	month, _ := strconv.Atoi(m[4])
	year, _ := strconv.Atoi(m[5])
	hour, _ := strconv.Atoi(m[6])
	min, _ := strconv.Atoi(m[7])
	sec, _ := strconv.Atoi(m[8])

	// time.Date normalizes out-of-range fields (99/99 rolls into a later
	// year) instead of failing. A timestamp that does not round-trip is a
	// malformed line and takes the same silent-drop path as any other
	// grammar failure.
	epoch := time.Date(year, time.Month(month), day, hour, min, sec, 0, time.UTC)
	if epoch.Year() != year || epoch.Month() != time.Month(month) || epoch.Day() != day ||
		epoch.Hour() != hour || epoch.Minute() != min || epoch.Second() != sec {
		return Fields{}, false
	}

	return Fields{
		IP:      m[1],
		User:    m[2],
		Epoch:   epoch,
		Payload: m[9],
	}, true
}

// Renderer renders lines against a definition table. Templates are parsed
// once, at construction. table may be nil for raw-only runs.
type Renderer struct {
	table     *defs.Table
	templates map[string]Template
	raw       bool
}

// New builds a Renderer. In raw mode the payload is passed through
// verbatim and the table is never consulted.
func New(table *defs.Table, raw bool) *Renderer {
	r := &Renderer{table: table, raw: raw, templates: map[string]Template{}}
	if table != nil {
		for _, d := range table.All() {
			r.templates[d.Key] = ParseTemplate(d.Trans)
		}
	}
	return r
}

// Render produces the record for one (key, line) pair. ok is false when the
// line fails the fixed-field grammar.
func (r *Renderer) Render(key, line string) (Record, bool) {
	f, ok := ParseLine(line)
	if !ok {
		return Record{}, false
	}

	// Raw mode passes the payload through untouched; only rendered
	// messages are percent-decoded, since the escaping comes from the
	// definition templates, not the log itself.
	msg := f.Payload
	if !r.raw {
		msg = unescape(r.message(key, f.Payload))
	}

	return Record{
		Epoch:   f.Epoch,
		IP:      f.IP,
		User:    f.User,
		Message: msg,
	}, true
}

// message resolves the definition for key and applies its format/template.
// A format pattern that fails against a payload its regex already matched
// falls back to the literal template text, placeholders and all.
func (r *Renderer) message(key, payload string) string {
	d, ok := r.table.Lookup(key)
	if !ok {
		return payload
	}

	tpl := r.templates[key]
	if d.Format == nil {
		return tpl.Expand(nil)
	}
	caps := d.Format.FindStringSubmatch(payload)
	if caps == nil {
		return tpl.Expand(nil)
	}
	return tpl.Expand(caps[1:])
}

// unescape percent-decodes the rendered message. Definition templates may
// carry escaped characters that must come out literal; text that is not
// valid escaping stays as-is.
func unescape(s string) string {
	if u, err := url.PathUnescape(s); err == nil {
		return u
	}
	return s
}
