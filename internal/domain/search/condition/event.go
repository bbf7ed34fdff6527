package condition

import (
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/entitysearch/internal/domain"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/date"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/lucene"
)

// Event is a user action on the condition set. The set of events is closed.
type Event interface {
	eventType() string
}

// AddCondition binds the placeholder to Field and appends a new placeholder.
type AddCondition struct {
	Field string `json:"field"`
}

// ChangeField rebinds an existing condition; its value is discarded.
type ChangeField struct {
	ID    int    `json:"id"`
	Field string `json:"field"`
}

// SetValue sets the raw input of a text, number or option condition.
// For date range conditions Raw is "from..to" with YYYY[-MM[-DD]] sides.
type SetValue struct {
	ID  int    `json:"id"`
	Raw string `json:"value"`
}

// SetDateRange sets both sides of a date range condition.
type SetDateRange struct {
	ID   int        `json:"id"`
	From date.Parts `json:"from"`
	To   date.Parts `json:"to"`
}

// SetNegation toggles the negation of a condition.
type SetNegation struct {
	ID      int  `json:"id"`
	Negated bool `json:"negated"`
}

// RemoveCondition drops a condition. The placeholder cannot be removed.
type RemoveCondition struct {
	ID int `json:"id"`
}

// SetCombinator switches between matching all and any condition.
type SetCombinator struct {
	Combinator lucene.Combinator `json:"combinator"`
}

// SelectEntity switches the entity kind and resets the whole set.
type SelectEntity struct {
	Entity string `json:"entity"`
}

func (AddCondition) eventType() string    { return "add_condition" }
func (ChangeField) eventType() string     { return "change_field" }
func (SetValue) eventType() string        { return "set_value" }
func (SetDateRange) eventType() string    { return "set_date_range" }
func (SetNegation) eventType() string     { return "set_negation" }
func (RemoveCondition) eventType() string { return "remove_condition" }
func (SetCombinator) eventType() string   { return "set_combinator" }
func (SelectEntity) eventType() string    { return "select_entity" }

// TypeOf returns the wire discriminator of e, or "unknown" for a nil event.
func TypeOf(e Event) string {
	if e = deref(e); e == nil {
		return "unknown"
	}
	return e.eventType()
}

// DecodeEvent decodes a JSON event carrying a "type" discriminator.
func DecodeEvent(data []byte) (Event, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode event: %w", domain.ErrInvalidEvent)
	}

	var e Event
	switch head.Type {
	case "add_condition":
		e = &AddCondition{}
	case "change_field":
		e = &ChangeField{}
	case "set_value":
		e = &SetValue{}
	case "set_date_range":
		e = &SetDateRange{}
	case "set_negation":
		e = &SetNegation{}
	case "remove_condition":
		e = &RemoveCondition{}
	case "set_combinator":
		var raw struct {
			Combinator string `json:"combinator"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode %s: %w", head.Type, domain.ErrInvalidEvent)
		}
		c, err := lucene.ParseCombinator(raw.Combinator)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidEvent, err)
		}
		return SetCombinator{Combinator: c}, nil
	case "select_entity":
		e = &SelectEntity{}
	default:
		return nil, fmt.Errorf("unknown event type %q: %w", head.Type, domain.ErrInvalidEvent)
	}
	if err := json.Unmarshal(data, e); err != nil {
		return nil, fmt.Errorf("decode %s: %w", head.Type, domain.ErrInvalidEvent)
	}
	return deref(e), nil
}

// deref unwraps pointer events to their value form. A nil pointer yields nil.
func deref(e Event) Event {
	switch v := e.(type) {
	case *AddCondition:
		if v != nil {
			return *v
		}
	case *ChangeField:
		if v != nil {
			return *v
		}
	case *SetValue:
		if v != nil {
			return *v
		}
	case *SetDateRange:
		if v != nil {
			return *v
		}
	case *SetNegation:
		if v != nil {
			return *v
		}
	case *RemoveCondition:
		if v != nil {
			return *v
		}
	case *SetCombinator:
		if v != nil {
			return *v
		}
	case *SelectEntity:
		if v != nil {
			return *v
		}
	default:
		return e
	}
	return nil
}
