// Package condition holds the advanced search condition set and the pure
// reducer that applies user events to it.
package condition

import (
	"github.com/kailas-cloud/entitysearch/internal/domain/entity/kind"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/date"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/field"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/lucene"
)

// PlaceholderID is the id of the "choose a condition" slot.
const PlaceholderID = 0

// Inline validation messages.
const (
	MsgInvalidNumber = "Please enter a valid number or range."
	MsgInvalidDate   = "Please enter a valid date."
	MsgInvalidOption = "Please choose one of the listed options."
)

// Condition is one slot of the condition list. The placeholder has no field.
type Condition struct {
	ID        int             `json:"id"`
	Field     string          `json:"field,omitempty"`
	ValueKind field.ValueKind `json:"value_kind,omitempty"`
	Negated   bool            `json:"negated"`
	// Input is the text as entered; kept when the value is rejected.
	Input string     `json:"input,omitempty"`
	From  date.Parts `json:"from"`
	To    date.Parts `json:"to"`
	// Value is the serialized query value; empty means the condition is
	// left out of the query.
	Value   string `json:"value,omitempty"`
	Invalid bool   `json:"invalid"`
	Message string `json:"message,omitempty"`
}

// IsPlaceholder reports whether c is the tail "choose a condition" slot.
func (c Condition) IsPlaceholder() bool { return c.Field == "" }

// State is an immutable snapshot of a condition set. Use Reduce to derive
// the next state; never modify Conditions in place.
type State struct {
	Kind       kind.Kind         `json:"entity"`
	Conditions []Condition       `json:"conditions"`
	Combinator lucene.Combinator `json:"combinator"`
	// LastID is the highest id ever assigned; ids are never reused.
	LastID int `json:"last_id"`
}

// New returns the initial state of k: only the placeholder, AND combinator.
func New(k kind.Kind) State {
	return State{
		Kind:       k,
		Conditions: []Condition{{ID: PlaceholderID}},
		Combinator: lucene.And,
	}
}

// Live returns the conditions without the placeholder.
func (s State) Live() []Condition {
	out := make([]Condition, 0, len(s.Conditions))
	for _, c := range s.Conditions {
		if !c.IsPlaceholder() {
			out = append(out, c)
		}
	}
	return out
}

// NegationEnabled reports whether conditions may be negated. A lone term
// cannot be negated by the backend.
func (s State) NegationEnabled() bool { return len(s.Live()) >= 2 }

// Find returns the condition with id.
func (s State) Find(id int) (Condition, bool) {
	i := s.index(id)
	if i < 0 {
		return Condition{}, false
	}
	return s.Conditions[i], true
}

// Valid reports whether no condition carries an inline validation error.
func (s State) Valid() bool {
	for _, c := range s.Conditions {
		if c.Invalid {
			return false
		}
	}
	return true
}

// Terms returns the query terms in condition order. Conditions without a
// value are skipped.
func (s State) Terms() []lucene.Term {
	neg := s.NegationEnabled()
	var terms []lucene.Term
	for _, c := range s.Conditions {
		if c.IsPlaceholder() || c.Value == "" {
			continue
		}
		terms = append(terms, lucene.Term{Field: c.Field, Negated: neg && c.Negated, Value: c.Value})
	}
	return terms
}

// Serialize joins the terms with the combinator. No terms yields "".
func (s State) Serialize() string {
	c := s.Combinator
	if !c.IsValid() {
		c = lucene.And
	}
	return lucene.Join(s.Terms(), c)
}

func (s State) index(id int) int {
	for i, c := range s.Conditions {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (s State) clone() State {
	out := s
	out.Conditions = make([]Condition, len(s.Conditions))
	copy(out.Conditions, s.Conditions)
	return out
}
