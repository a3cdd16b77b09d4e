// Package audit wires the batch pipeline: select, filter, classify,
// render, report. Single-threaded and synchronous; input sizes do not
// reward anything fancier, and output ordering must be deterministic.
package audit

import (
	"errors"

	"log-audit/internal/classify"
	"log-audit/internal/defs"
	"log-audit/internal/logfile"
	"log-audit/internal/render"
	"log-audit/internal/report"
)

// ErrNoDefinitions means a classification-dependent operation was asked to
// run without a definition table.
var ErrNoDefinitions = errors.New("no definitions available")

// Options select the behavior of one pipeline run.
type Options struct {
	Expr    logfile.Expr
	Section string      // optional section filter
	Raw     bool        // print payloads verbatim
	Table   *defs.Table // may be nil for raw runs without a section filter
}

// Load reads the log source: the live file, or the archive set when
// archives is set. Unreadable sources are fatal; an empty source is not.
func Load(logPath, archiveGlob string, archives bool) ([]string, error) {
	if archives {
		return logfile.ReadArchives(archiveGlob)
	}
	return logfile.ReadLines(logPath)
}

// Run executes the pipeline over lines and prints the ordered listing.
// All records are collected before anything is printed, so a fatal error
// cannot leave partial output behind.
func Run(lines []string, opts Options, p *report.Printer) error {
	if opts.Table == nil && (!opts.Raw || opts.Section != "") {
		return ErrNoDefinitions
	}

	selected := opts.Expr.Select(lines)
	if opts.Section != "" {
		selected = classify.FilterSection(opts.Table, opts.Section, selected)
	}

	records := Render(selected, opts)
	return p.Print(records)
}

// Render turns the already-selected lines into records. In raw mode every
// line renders its payload once; otherwise every (definition, line) match
// renders separately, so a line matching several definitions appears
// several times. Lines failing the fixed-field grammar drop out silently.
func Render(selected []string, opts Options) []render.Record {
	r := render.New(opts.Table, opts.Raw)

	var records []render.Record
	if opts.Raw {
		for _, line := range selected {
			if rec, ok := r.Render("", line); ok {
				records = append(records, rec)
			}
		}
		return records
	}

	for _, m := range classify.Classify(opts.Table, selected) {
		if rec, ok := r.Render(m.Key, m.Line); ok {
			records = append(records, rec)
		}
	}
	return records
}
