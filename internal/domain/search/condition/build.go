package condition

import (
	"fmt"

	"github.com/kailas-cloud/entitysearch/internal/domain"
	"github.com/kailas-cloud/entitysearch/internal/domain/entity/kind"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/field"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/lucene"
)

// Pair is a field with its raw input, in the SetValue format.
type Pair struct {
	Field string
	Value string
}

// Build composes a state without a user in the loop: each pair adds a
// condition and sets its value, then the first non-negated condition on each
// negated field is negated, then the combinator is set.
//
// Input the reducer marks invalid fails with domain.ErrInvalidQuery and the
// condition's message.
func Build(catalog *field.Catalog, k kind.Kind, pairs []Pair, negated []string, c lucene.Combinator) (State, error) {
	s := New(k)
	for _, p := range pairs {
		next, err := Reduce(catalog, s, AddCondition{Field: p.Field})
		if err != nil {
			return s, err
		}
		next, err = Reduce(catalog, next, SetValue{ID: next.LastID, Raw: p.Value})
		if err != nil {
			return s, err
		}
		if added, _ := next.Find(next.LastID); added.Invalid {
			return s, fmt.Errorf("%s=%q: %s: %w", added.Field, p.Value, added.Message, domain.ErrInvalidQuery)
		}
		s = next
	}

	for _, name := range negated {
		id := firstPositive(s, name)
		if id == 0 {
			return s, fmt.Errorf("negate %s: no condition on that field: %w", name, domain.ErrInvalidQuery)
		}
		next, err := Reduce(catalog, s, SetNegation{ID: id, Negated: true})
		if err != nil {
			return s, err
		}
		s = next
	}

	if c == "" {
		return s, nil
	}
	return Reduce(catalog, s, SetCombinator{Combinator: c})
}

func firstPositive(s State, name string) int {
	for _, c := range s.Live() {
		if c.Field == name && !c.Negated {
			return c.ID
		}
	}
	return 0
}
