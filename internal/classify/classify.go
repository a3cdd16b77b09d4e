// Package classify decides which definitions a log line belongs to.
// Definitions are independent detectors, not mutually exclusive categories:
// every definition is tested against every line's payload and every hit is
// kept, even when that reports the same line more than once.
package classify

import (
	"regexp"

	"log-audit/internal/defs"
)

// Match pairs a definition key with the raw line it matched.
type Match struct {
	Key  string
	Line string
}

// Definition regexes describe the free-text payload, not the fixed leading
// fields, so a pattern that happens to match a user name or source address
// must not classify the line. payloadRegex lifts the quoted payload out of
// the coarse line grammar; lines without one classify as nothing.
var payloadRegex = regexp.MustCompile(`^\S{7,15} (?:-|proxy) \S+ .{27} "([^"]*)"`)

func payload(line string) (string, bool) {
	m := payloadRegex.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Classify tests every definition against every line's payload. A line may
// yield zero, one, or many matches; matches for one line come out in table
// order.
func Classify(table *defs.Table, lines []string) []Match {
	var out []Match
	for _, line := range lines {
		p, ok := payload(line)
		if !ok {
			continue
		}
		for _, d := range table.All() {
			if d.Regex.MatchString(p) {
				out = append(out, Match{Key: d.Key, Line: line})
			}
		}
	}
	return out
}

// MatchLine classifies a single line. Used by follow mode.
func MatchLine(table *defs.Table, line string) []Match {
	return Classify(table, []string{line})
}

// FilterSection keeps a line iff at least one definition tagged with the
// requested section matches its payload. O(lines x definitions), fine at
// the sizes involved (tens to low hundreds of each).
func FilterSection(table *defs.Table, section string, lines []string) []string {
	var out []string
	for _, line := range lines {
		p, ok := payload(line)
		if !ok {
			continue
		}
		for _, d := range table.All() {
			if d.Section != section {
				continue
			}
			if d.Regex.MatchString(p) {
				out = append(out, line)
				break
			}
		}
	}
	return out
}
