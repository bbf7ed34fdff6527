package condition

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/kailas-cloud/entitysearch/internal/domain"
	"github.com/kailas-cloud/entitysearch/internal/domain/entity/kind"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/date"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/field"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/lucene"
)

var (
	singleNumber = regexp.MustCompile(`^\d+$`)
	numberRange  = regexp.MustCompile(`^(\d+)-(\d+)$`)
)

// Reduce applies e to s and returns the next state. s is not modified.
//
// Errors are returned only for events that cannot apply to s (unknown id or
// field, removing the placeholder, negating a lone condition). Bad user input
// is reported on the condition through Invalid and Message instead.
// Pointer events are accepted; a nil pointer is an invalid event.
func Reduce(catalog *field.Catalog, s State, e Event) (State, error) {
	switch ev := deref(e).(type) {
	case AddCondition:
		return addCondition(catalog, s, ev)
	case ChangeField:
		return changeField(catalog, s, ev)
	case SetValue:
		return setValue(catalog, s, ev)
	case SetDateRange:
		return setDateRange(s, ev)
	case SetNegation:
		return setNegation(s, ev)
	case RemoveCondition:
		return removeCondition(s, ev)
	case SetCombinator:
		if !ev.Combinator.IsValid() {
			return s, fmt.Errorf("combinator %q: %w", ev.Combinator, domain.ErrInvalidEvent)
		}
		next := s.clone()
		next.Combinator = ev.Combinator
		return next, nil
	case SelectEntity:
		k, ok := kind.Parse(ev.Entity)
		if !ok {
			return s, fmt.Errorf("%q: %w", ev.Entity, domain.ErrUnknownKind)
		}
		return New(k), nil
	case nil:
		return s, fmt.Errorf("nil event: %w", domain.ErrInvalidEvent)
	}
	return s, fmt.Errorf("unsupported event %T: %w", e, domain.ErrInvalidEvent)
}

// ReduceAll applies events in order and stops at the first error.
func ReduceAll(catalog *field.Catalog, s State, events ...Event) (State, error) {
	for _, e := range events {
		next, err := Reduce(catalog, s, e)
		if err != nil {
			return s, err
		}
		s = next
	}
	return s, nil
}

func addCondition(catalog *field.Catalog, s State, ev AddCondition) (State, error) {
	d, ok := catalog.Lookup(s.Kind, ev.Field)
	if !ok {
		return s, fmt.Errorf("%s.%s: %w", s.Kind, ev.Field, domain.ErrUnknownField)
	}
	next := s.clone()
	next.LastID++
	c := bind(Condition{ID: next.LastID}, d)

	// the placeholder is always the tail slot
	last := len(next.Conditions) - 1
	placeholder := next.Conditions[last]
	next.Conditions = append(next.Conditions[:last], c, placeholder)
	return next, nil
}

func changeField(catalog *field.Catalog, s State, ev ChangeField) (State, error) {
	i := s.index(ev.ID)
	if i < 0 {
		return s, fmt.Errorf("condition %d: %w", ev.ID, domain.ErrNotFound)
	}
	if s.Conditions[i].IsPlaceholder() {
		return s, fmt.Errorf("condition %d is the placeholder: %w", ev.ID, domain.ErrInvalidEvent)
	}
	d, ok := catalog.Lookup(s.Kind, ev.Field)
	if !ok {
		return s, fmt.Errorf("%s.%s: %w", s.Kind, ev.Field, domain.ErrUnknownField)
	}
	next := s.clone()
	next.Conditions[i] = bind(Condition{ID: ev.ID}, d)
	return next, nil
}

// bind attaches d to a fresh condition. Option fields start on their first
// option, which is immediately part of the query.
func bind(c Condition, d field.Descriptor) Condition {
	c.Field = d.Type()
	c.ValueKind = d.ValueKind()
	if d.ValueKind() == field.OptionKind {
		first := d.FirstOption()
		c.Input = first
		c.Value = lucene.Quote(first)
	}
	return c
}

func setValue(catalog *field.Catalog, s State, ev SetValue) (State, error) {
	i, err := s.live(ev.ID)
	if err != nil {
		return s, err
	}
	next := s.clone()
	c := next.Conditions[i]

	switch c.ValueKind {
	case field.Text:
		c = withValue(c, ev.Raw, "")
		if strings.TrimSpace(ev.Raw) != "" {
			c.Value = lucene.Escape(ev.Raw)
		}
	case field.Number:
		c = applyNumber(c, ev.Raw)
	case field.OptionKind:
		c = withValue(c, ev.Raw, "")
		if ev.Raw != "" {
			d, _ := catalog.Lookup(s.Kind, c.Field)
			if d.HasOption(ev.Raw) {
				c.Value = lucene.Quote(ev.Raw)
			} else {
				c = invalid(c, MsgInvalidOption)
			}
		}
	case field.DateRange:
		from, to, ok := splitRange(ev.Raw)
		if !ok {
			c = invalid(withValue(c, ev.Raw, ""), MsgInvalidDate)
			break
		}
		c = applyDateRange(c, from, to)
		c.Input = ev.Raw
	default:
		return s, fmt.Errorf("condition %d has no value kind: %w", ev.ID, domain.ErrInvalidEvent)
	}
	next.Conditions[i] = c
	return next, nil
}

// applyNumber accepts a single number or a "lo-hi" range; spaces are ignored.
// Rejected input keeps the typed text but drops the term from the query.
func applyNumber(c Condition, raw string) Condition {
	input := strings.ReplaceAll(raw, " ", "")
	c = withValue(c, raw, "")
	switch {
	case input == "":
	case singleNumber.MatchString(input):
		c.Value = input
	case numberRange.MatchString(input):
		m := numberRange.FindStringSubmatch(input)
		c.Value = lucene.Range(m[1], m[2])
	default:
		c = invalid(c, MsgInvalidNumber)
	}
	return c
}

func setDateRange(s State, ev SetDateRange) (State, error) {
	i, err := s.live(ev.ID)
	if err != nil {
		return s, err
	}
	if s.Conditions[i].ValueKind != field.DateRange {
		return s, fmt.Errorf("condition %d is not a date range: %w", ev.ID, domain.ErrInvalidEvent)
	}
	next := s.clone()
	next.Conditions[i] = applyDateRange(next.Conditions[i], ev.From, ev.To)
	return next, nil
}

func applyDateRange(c Condition, from, to date.Parts) Condition {
	c = withValue(c, "", "")
	c.From, c.To = from, to
	lo, okFrom := from.Bound(date.From)
	hi, okTo := to.Bound(date.To)
	if !okFrom || !okTo {
		return invalid(c, MsgInvalidDate)
	}
	c.Value = date.RangeValue(lo, hi)
	return c
}

// splitRange parses "from..to" where each side is YYYY[-MM[-DD]] or empty.
// A value without ".." is a from-date.
func splitRange(raw string) (date.Parts, date.Parts, bool) {
	lo, hi, _ := strings.Cut(strings.TrimSpace(raw), "..")
	from, ok := splitDate(lo)
	if !ok {
		return date.Parts{}, date.Parts{}, false
	}
	to, ok := splitDate(hi)
	if !ok {
		return date.Parts{}, date.Parts{}, false
	}
	return from, to, true
}

func splitDate(s string) (date.Parts, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return date.Parts{}, true
	}
	parts := strings.Split(s, "-")
	if len(parts) > 3 {
		return date.Parts{}, false
	}
	for _, p := range parts {
		if _, err := strconv.Atoi(p); err != nil {
			return date.Parts{}, false
		}
	}
	var d date.Parts
	d.Year = parts[0]
	if len(parts) > 1 {
		d.Month = parts[1]
	}
	if len(parts) > 2 {
		d.Day = parts[2]
	}
	return d, true
}

func setNegation(s State, ev SetNegation) (State, error) {
	i, err := s.live(ev.ID)
	if err != nil {
		return s, err
	}
	if ev.Negated && !s.NegationEnabled() {
		return s, fmt.Errorf("negation needs at least two conditions: %w", domain.ErrInvalidEvent)
	}
	next := s.clone()
	next.Conditions[i].Negated = ev.Negated
	return next, nil
}

func removeCondition(s State, ev RemoveCondition) (State, error) {
	i, err := s.live(ev.ID)
	if err != nil {
		return s, err
	}
	next := s.clone()
	next.Conditions = append(next.Conditions[:i], next.Conditions[i+1:]...)

	// a lone term cannot be negated
	if !next.NegationEnabled() {
		for j := range next.Conditions {
			next.Conditions[j].Negated = false
		}
	}
	return next, nil
}

// live returns the index of the non-placeholder condition id.
func (s State) live(id int) (int, error) {
	i := s.index(id)
	if i < 0 {
		return -1, fmt.Errorf("condition %d: %w", id, domain.ErrNotFound)
	}
	if s.Conditions[i].IsPlaceholder() {
		return -1, fmt.Errorf("condition %d is the placeholder: %w", id, domain.ErrInvalidEvent)
	}
	return i, nil
}

func withValue(c Condition, input, value string) Condition {
	c.Input = input
	c.Value = value
	c.Invalid = false
	c.Message = ""
	return c
}

func invalid(c Condition, msg string) Condition {
	c.Value = ""
	c.Invalid = true
	c.Message = msg
	return c
}
