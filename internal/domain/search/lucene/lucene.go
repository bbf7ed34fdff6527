// Package lucene builds the query strings understood by the catalog search backend.
package lucene

import (
	"fmt"
	"strings"
)

// Combinator joins terms in a query.
type Combinator string

// Supported combinators.
const (
	And Combinator = "AND"
	Or  Combinator = "OR"
)

// IsValid checks if the combinator is one of the supported values.
func (c Combinator) IsValid() bool {
	return c == And || c == Or
}

// Label is the word shown next to the combinator selector ("all"/"any").
func (c Combinator) Label() string {
	if c == Or {
		return "any"
	}
	return "all"
}

// ParseCombinator accepts AND/OR as well as the all/any labels.
func ParseCombinator(s string) (Combinator, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "and", "all", "":
		return And, nil
	case "or", "any":
		return Or, nil
	}
	return "", fmt.Errorf("invalid combinator %q", s)
}

const special = `+-&|!(){}[]^"~*?:\/`

// Escape backslash-escapes Lucene special characters.
func Escape(v string) string {
	var b strings.Builder
	b.Grow(len(v))
	for _, r := range v {
		if strings.ContainsRune(special, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Quote escapes v and wraps it in double quotes for an exact-match token.
func Quote(v string) string {
	return `"` + Escape(v) + `"`
}

// Range renders an inclusive range. Use "*" or "null" for an open side.
func Range(lo, hi string) string {
	return "[" + lo + " TO " + hi + "]"
}

// Term is a single field:value clause.
type Term struct {
	Field   string
	Negated bool
	Value   string
}

func (t Term) String() string {
	if t.Negated {
		return "-" + t.Field + ":" + t.Value
	}
	return t.Field + ":" + t.Value
}

// Join renders terms separated by the combinator. No terms yield "".
func Join(terms []Term, c Combinator) string {
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, " "+string(c)+" ")
}
