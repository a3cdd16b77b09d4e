// Package report orders rendered records chronologically and prints the
// final human-readable listing.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss"

	"log-audit/internal/render"
)

var (
	styleTime = lipgloss.NewStyle().Foreground(lipgloss.Color("245")) // gray
	styleAddr = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))  // cyan
	styleUser = lipgloss.NewStyle().Foreground(lipgloss.Color("220")) // yellow
	styleNote = lipgloss.NewStyle().Faint(true)
)

// Printer writes the audit listing to one output stream.
type Printer struct {
	w     io.Writer
	color bool
}

// NewPrinter returns a Printer writing plain text. Coloring is opt-in so
// piped output stays clean.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// NewColorPrinter returns a Printer with lipgloss styling enabled.
func NewColorPrinter(w io.Writer) *Printer {
	return &Printer{w: w, color: true}
}

// Print sorts records ascending by epoch and writes one line per record.
// The sort is stable: records with equal timestamps keep their production
// order. Zero records produce a single notice instead of an empty listing.
func (p *Printer) Print(records []render.Record) error {
	if len(records) == 0 {
		return p.Notice("no results found")
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Epoch.Before(records[j].Epoch)
	})

	for _, rec := range records {
		if _, err := fmt.Fprintln(p.w, p.line(rec)); err != nil {
			return err
		}
	}
	return nil
}

// PrintOne writes a single record immediately. Used by follow mode, where
// output is live and ordering is arrival order.
func (p *Printer) PrintOne(rec render.Record) error {
	_, err := fmt.Fprintln(p.w, p.line(rec))
	return err
}

// Notice writes a single status line ("no results found",
// "no definitions available", ...). A notice is a normal outcome, not an
// error.
func (p *Printer) Notice(msg string) error {
	if p.color {
		msg = styleNote.Render(msg)
	}
	_, err := fmt.Fprintln(p.w, msg)
	return err
}

func (p *Printer) line(rec render.Record) string {
	ts := rec.Epoch.Local().Format("Mon Jan _2 15:04:05 2006")
	if !p.color {
		return fmt.Sprintf("%s - %s - %s - %s", ts, rec.IP, rec.User, rec.Message)
	}
	return fmt.Sprintf("%s - %s - %s - %s",
		styleTime.Render(ts),
		styleAddr.Render(rec.IP),
		styleUser.Render(rec.User),
		rec.Message)
}
