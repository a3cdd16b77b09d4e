package defs

import (
	"fmt"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"
)

// Definition is one entry of the pattern table. Regex identifies a log line
// as belonging to this definition; Format optionally captures fields out of
// the line's payload; Trans is the output template those fields are
// substituted into ({0}, {1}, ...).
type Definition struct {
	Key     string
	Section string
	Regex   *regexp.Regexp
	Format  *regexp.Regexp // may be nil
	Trans   string
}

// rawDefinition is the serialized (YAML) form of a Definition.
type rawDefinition struct {
	Section string `yaml:"section"`
	Regex   string `yaml:"regex"`
	Format  string `yaml:"format,omitempty"`
	Trans   string `yaml:"trans,omitempty"`
}

// Table holds the full definition set. It is built once and read-only
// afterwards; every pipeline stage shares the same instance.
type Table struct {
	defs  []Definition
	byKey map[string]int
}

// Parse decodes a serialized definition table and compiles its patterns.
// Definitions are ordered by key so classification order is stable across
// runs regardless of serialization order.
func Parse(data []byte) (*Table, error) {
	raw := map[string]rawDefinition{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode definition table: %w", err)
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	t := &Table{byKey: make(map[string]int, len(raw))}
	for _, k := range keys {
		r := raw[k]
		if r.Regex == "" {
			return nil, fmt.Errorf("definition %q has no regex", k)
		}
		re, err := regexp.Compile(r.Regex)
		if err != nil {
			return nil, fmt.Errorf("definition %q: bad regex: %w", k, err)
		}
		d := Definition{Key: k, Section: r.Section, Regex: re, Trans: r.Trans}
		if r.Format != "" {
			f, err := regexp.Compile(r.Format)
			if err != nil {
				return nil, fmt.Errorf("definition %q: bad format: %w", k, err)
			}
			d.Format = f
		}
		t.byKey[k] = len(t.defs)
		t.defs = append(t.defs, d)
	}
	return t, nil
}

// All returns the definitions in table order.
func (t *Table) All() []Definition {
	return t.defs
}

// Lookup returns the definition for key.
func (t *Table) Lookup(key string) (Definition, bool) {
	i, ok := t.byKey[key]
	if !ok {
		return Definition{}, false
	}
	return t.defs[i], true
}

// Len reports the number of definitions.
func (t *Table) Len() int {
	return len(t.defs)
}

// Sections returns the distinct section tags, sorted.
func (t *Table) Sections() []string {
	seen := map[string]bool{}
	var out []string
	for _, d := range t.defs {
		if d.Section == "" || seen[d.Section] {
			continue
		}
		seen[d.Section] = true
		out = append(out, d.Section)
	}
	sort.Strings(out)
	return out
}
