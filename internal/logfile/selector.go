package logfile

import (
	"fmt"
	"regexp"
)

// Fixed leading fields of an access log line:
//
//	10.0.0.1 - bob [01/02/2023:03:04:05 -0000] "POST /somepath HTTP/1.1"
//
// The source address is 7-15 non-space characters, the second token is a
// literal dash or the literal "proxy", the bracketed timestamp is 27
// characters, and a space plus double quote introduces the payload.
const (
	addrField  = `\S{7,15}`
	relayField = `(?:-|proxy)`
	stampField = `.{27}`
)

// Expr is a compiled primary search expression, anchored at line start.
type Expr struct {
	re *regexp.Regexp
}

// ByUser matches lines recorded for the given user name.
func ByUser(user string) (Expr, error) {
	return compile(`^` + addrField + ` ` + relayField + ` ` + regexp.QuoteMeta(user) + ` ` + stampField + ` "`)
}

// ByAddr matches lines originating from the given source address.
func ByAddr(addr string) (Expr, error) {
	return compile(`^` + regexp.QuoteMeta(addr) + ` ` + relayField + ` `)
}

// ByAccessed matches lines whose payload mentions the given address,
// i.e. the reverse question: who touched this host.
func ByAccessed(addr string) (Expr, error) {
	return compile(`^` + addrField + ` ` + relayField + ` \S+ ` + stampField + ` "[^"]*` + regexp.QuoteMeta(addr))
}

// Any matches every well-formed line. Used by follow mode.
func Any() Expr {
	e, _ := compile(`^` + addrField + ` ` + relayField + ` `)
	return e
}

func compile(pattern string) (Expr, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Expr{}, fmt.Errorf("build search expression: %w", err)
	}
	return Expr{re: re}, nil
}

// Match reports whether one line satisfies the expression.
func (e Expr) Match(line string) bool {
	return e.re.MatchString(line)
}

// Select keeps the lines satisfying the expression. An empty result is
// normal, not an error.
func (e Expr) Select(lines []string) []string {
	var out []string
	for _, line := range lines {
		if e.re.MatchString(line) {
			out = append(out, line)
		}
	}
	return out
}

var addrCapture = `^(` + addrField + `) ` + relayField + ` `

// ListAddrs returns the distinct source addresses seen for user, in
// first-seen order.
func ListAddrs(lines []string, user string) ([]string, error) {
	expr, err := ByUser(user)
	if err != nil {
		return nil, err
	}
	capture := regexp.MustCompile(addrCapture)

	seen := map[string]bool{}
	var out []string
	for _, line := range lines {
		if !expr.Match(line) {
			continue
		}
		m := capture.FindStringSubmatch(line)
		if m == nil || seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		out = append(out, m[1])
	}
	return out, nil
}
