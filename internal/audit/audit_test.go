package audit

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"log-audit/internal/defs"
	"log-audit/internal/logfile"
	"log-audit/internal/report"
)

const testTable = `
k1:
  section: mail
  regex: 'POST /somepath'
  format: 'POST (\S+)'
  trans: 'Accessed {0}'
posts:
  section: web
  regex: 'POST '
  trans: 'Sent a request'
`

var testLines = []string{
	`10.0.0.1 - bob [01/02/2023:03:04:05 -0000] "POST /somepath HTTP/1.1"`,
	`10.0.0.2 - alice [01/02/2023:03:04:04 -0000] "GET /nothing HTTP/1.1"`,
	`10.0.0.3 - bob [01/02/2023:02:00:00 -0000] "POST /earlier HTTP/1.1"`,
}

func mustTable(t *testing.T) *defs.Table {
	t.Helper()
	table, err := defs.Parse([]byte(testTable))
	if err != nil {
		t.Fatal(err)
	}
	return table
}

func mustExpr(t *testing.T, user string) logfile.Expr {
	t.Helper()
	expr, err := logfile.ByUser(user)
	if err != nil {
		t.Fatal(err)
	}
	return expr
}

func run(t *testing.T, lines []string, opts Options) string {
	t.Helper()
	var buf bytes.Buffer
	if err := Run(lines, opts, report.NewPrinter(&buf)); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestRunRendersAndSorts(t *testing.T) {
	out := run(t, testLines, Options{
		Expr:  mustExpr(t, "bob"),
		Table: mustTable(t),
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// Line 3 is earlier than line 1 and must come out first even though it
	// was read later. Line 1 matches both definitions, so it appears twice.
	if len(lines) != 3 {
		t.Fatalf("got %d output lines, want 3:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "10.0.0.3") {
		t.Errorf("earliest record not first: %q", lines[0])
	}
	if !strings.Contains(out, "Accessed /somepath") {
		t.Errorf("missing rendered message:\n%s", out)
	}
	if !strings.Contains(out, "Sent a request") {
		t.Errorf("missing second definition's record:\n%s", out)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	opts := Options{Expr: mustExpr(t, "bob"), Table: mustTable(t)}

	first := run(t, testLines, opts)
	second := run(t, testLines, opts)
	if first != second {
		t.Errorf("same input produced different output:\n%q\n%q", first, second)
	}
}

func TestRunNoResultsNotice(t *testing.T) {
	out := run(t, testLines, Options{
		Expr:  mustExpr(t, "mallory"),
		Table: mustTable(t),
	})
	if out != "no results found\n" {
		t.Errorf("output = %q", out)
	}
}

func TestRunRawModeWithoutTable(t *testing.T) {
	out := run(t, testLines, Options{
		Expr: mustExpr(t, "alice"),
		Raw:  true,
	})
	if !strings.Contains(out, "GET /nothing HTTP/1.1") {
		t.Errorf("raw payload missing:\n%s", out)
	}
}

func TestRunRawModeOneRecordPerLine(t *testing.T) {
	// In raw mode a line matching several definitions still prints once.
	out := run(t, testLines, Options{
		Expr:  mustExpr(t, "bob"),
		Raw:   true,
		Table: mustTable(t),
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Errorf("got %d output lines, want 2:\n%s", len(lines), out)
	}
}

func TestRunSectionFilter(t *testing.T) {
	out := run(t, testLines, Options{
		Expr:    mustExpr(t, "bob"),
		Section: "mail",
		Table:   mustTable(t),
	})

	// Only the /somepath line matches a mail-section definition, but once
	// kept it still renders against every matching definition.
	if strings.Contains(out, "/earlier") {
		t.Errorf("section filter kept a non-mail line:\n%s", out)
	}
	if !strings.Contains(out, "Accessed /somepath") {
		t.Errorf("mail line lost:\n%s", out)
	}
}

func TestRunRequiresTable(t *testing.T) {
	var buf bytes.Buffer
	err := Run(testLines, Options{Expr: mustExpr(t, "bob")}, report.NewPrinter(&buf))
	if !errors.Is(err, ErrNoDefinitions) {
		t.Errorf("expected ErrNoDefinitions, got %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("fatal precondition still produced output: %q", buf.String())
	}

	// Raw mode with a section filter also needs the table.
	err = Run(testLines, Options{Expr: mustExpr(t, "bob"), Raw: true, Section: "mail"}, report.NewPrinter(&buf))
	if !errors.Is(err, ErrNoDefinitions) {
		t.Errorf("expected ErrNoDefinitions, got %v", err)
	}
}

func TestRunDropsMalformedSelectedLines(t *testing.T) {
	lines := append([]string{}, testLines...)
	// Passes the coarse selector shape but fails the strict grammar.
	lines = append(lines, `10.0.0.9 - bob [99/99/2023:xx:04:05 -0000] "POST /somepath HTTP/1.1"`)

	out := run(t, lines, Options{Expr: mustExpr(t, "bob"), Table: mustTable(t)})
	if strings.Contains(out, "10.0.0.9") {
		t.Errorf("malformed line rendered:\n%s", out)
	}
}
