package condition

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/kailas-cloud/entitysearch/internal/domain"
	"github.com/kailas-cloud/entitysearch/internal/domain/entity/kind"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/date"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/lucene"
)

func TestNew_OnlyPlaceholder(t *testing.T) {
	s := New(kind.Artist)
	assertPlaceholderLast(t, s)
	if len(s.Live()) != 0 || s.Serialize() != "" {
		t.Errorf("new state should be empty, got %q", s.Serialize())
	}
	if s.NegationEnabled() {
		t.Error("negation enabled on empty state")
	}
}

func TestAddCondition_AssignsIncreasingIDs(t *testing.T) {
	c := testCatalog(t)
	s := artistState(t, c, "artist", "begin", "type")
	assertPlaceholderLast(t, s)
	live := s.Live()
	for i, want := range []int{1, 2, 3} {
		if live[i].ID != want {
			t.Errorf("live[%d].ID = %d, want %d", i, live[i].ID, want)
		}
	}

	s = mustReduce(t, c, s, RemoveCondition{ID: 3}, AddCondition{Field: "gender"})
	if got := s.Live()[2].ID; got != 4 {
		t.Errorf("id after removal = %d, want 4 (ids never reused)", got)
	}
}

func TestAddCondition_UnknownField(t *testing.T) {
	c := testCatalog(t)
	_, err := Reduce(c, New(kind.Artist), AddCondition{Field: "duration"})
	if !errors.Is(err, domain.ErrUnknownField) {
		t.Errorf("err = %v, want ErrUnknownField", err)
	}
}

func TestReduce_PointerEvents(t *testing.T) {
	c := testCatalog(t)
	s, err := Reduce(c, New(kind.Artist), &AddCondition{Field: "artist"})
	if err != nil {
		t.Fatalf("Reduce(&AddCondition) error: %v", err)
	}
	s, err = Reduce(c, s, &SetValue{ID: 1, Raw: "Beatles"})
	if err != nil {
		t.Fatalf("Reduce(&SetValue) error: %v", err)
	}
	if got := s.Live()[0].Input; got != "Beatles" {
		t.Errorf("input = %q, want Beatles", got)
	}

	var nilEvent *RemoveCondition
	if _, err := Reduce(c, s, nilEvent); !errors.Is(err, domain.ErrInvalidEvent) {
		t.Errorf("nil pointer err = %v, want ErrInvalidEvent", err)
	}
	if _, err := Reduce(c, s, nil); !errors.Is(err, domain.ErrInvalidEvent) {
		t.Errorf("nil err = %v, want ErrInvalidEvent", err)
	}
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	c := testCatalog(t)
	s := artistState(t, c, "artist")
	before := s.Conditions[0]
	_ = mustReduce(t, c, s, SetValue{ID: 1, Raw: "Beatles"}, AddCondition{Field: "type"})
	if s.Conditions[0] != before || len(s.Conditions) != 2 {
		t.Errorf("input state modified: %+v", s.Conditions)
	}
}

func TestPlaceholderInvariant_RandomSequences(t *testing.T) {
	c := testCatalog(t)
	fields := []string{"artist", "begin", "country", "end", "gender", "type"}
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 50; run++ {
		s := New(kind.Artist)
		for step := 0; step < 40; step++ {
			live := s.Live()
			var e Event
			if len(live) == 0 || rng.Intn(2) == 0 {
				e = AddCondition{Field: fields[rng.Intn(len(fields))]}
			} else {
				e = RemoveCondition{ID: live[rng.Intn(len(live))].ID}
			}
			s = mustReduce(t, c, s, e)
			assertPlaceholderLast(t, s)
			if s.NegationEnabled() != (len(s.Live()) >= 2) {
				t.Fatalf("negation enabled = %v with %d live", s.NegationEnabled(), len(s.Live()))
			}
			for _, term := range s.Terms() {
				if term.Field == "" {
					t.Fatalf("placeholder serialized: %q", s.Serialize())
				}
			}
		}
	}
}

func TestNegation(t *testing.T) {
	c := testCatalog(t)
	s := artistState(t, c, "artist")
	s = mustReduce(t, c, s, SetValue{ID: 1, Raw: "Beatles"})

	if _, err := Reduce(c, s, SetNegation{ID: 1, Negated: true}); !errors.Is(err, domain.ErrInvalidEvent) {
		t.Errorf("negating lone term: err = %v", err)
	}

	s = mustReduce(t, c, s,
		AddCondition{Field: "gender"},
		SetNegation{ID: 1, Negated: true},
	)
	if got, want := s.Serialize(), `-artist:Beatles AND gender:"male"`; got != want {
		t.Errorf("Serialize() = %q, want %q", got, want)
	}

	s = mustReduce(t, c, s, RemoveCondition{ID: 2})
	if got := s.Serialize(); got != "artist:Beatles" {
		t.Errorf("after removal Serialize() = %q, want negation stripped", got)
	}
	if cond, _ := s.Find(1); cond.Negated {
		t.Error("Negated still set on lone condition")
	}
}

func TestRemoveCondition_Placeholder(t *testing.T) {
	c := testCatalog(t)
	s := artistState(t, c, "artist")
	if _, err := Reduce(c, s, RemoveCondition{ID: PlaceholderID}); !errors.Is(err, domain.ErrInvalidEvent) {
		t.Errorf("err = %v, want ErrInvalidEvent", err)
	}
	if _, err := Reduce(c, s, RemoveCondition{ID: 99}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRemoveCondition_DropsTerm(t *testing.T) {
	c := testCatalog(t)
	s := artistState(t, c, "artist", "artist")
	s = mustReduce(t, c, s,
		SetValue{ID: 1, Raw: "a"},
		SetValue{ID: 2, Raw: "b"},
		RemoveCondition{ID: 1},
	)
	if got := s.Serialize(); got != "artist:b" {
		t.Errorf("Serialize() = %q", got)
	}
	if len(s.Conditions) != 2 {
		t.Errorf("len(Conditions) = %d, want 2", len(s.Conditions))
	}
}

func TestSetValue_Number(t *testing.T) {
	c := testCatalog(t)
	s := New(kind.Recording)
	s = mustReduce(t, c, s, AddCondition{Field: "duration"})

	tests := []struct {
		raw     string
		want    string
		invalid bool
	}{
		{"5", "duration:5", false},
		{"5-10", "duration:[5 TO 10]", false},
		{" 5 - 10 ", "duration:[5 TO 10]", false},
		{"", "", false},
		{"abc", "", true},
		{"5-", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			prev := mustReduce(t, c, s, SetValue{ID: 1, Raw: "7"})
			next := mustReduce(t, c, prev, SetValue{ID: 1, Raw: tt.raw})
			if got := next.Serialize(); got != tt.want {
				t.Errorf("Serialize() = %q, want %q", got, tt.want)
			}
			cond, _ := next.Find(1)
			if cond.Invalid != tt.invalid {
				t.Errorf("Invalid = %v, want %v", cond.Invalid, tt.invalid)
			}
			if cond.Input != tt.raw {
				t.Errorf("Input = %q, display input must be kept", cond.Input)
			}
			if tt.invalid && cond.Message != MsgInvalidNumber {
				t.Errorf("Message = %q", cond.Message)
			}
		})
	}
}

func TestSetValue_TextEscaped(t *testing.T) {
	c := testCatalog(t)
	s := artistState(t, c, "artist")
	s = mustReduce(t, c, s, SetValue{ID: 1, Raw: "AC/DC (live)"})
	if got, want := s.Serialize(), `artist:AC\/DC \(live\)`; got != want {
		t.Errorf("Serialize() = %q, want %q", got, want)
	}
	s = mustReduce(t, c, s, SetValue{ID: 1, Raw: "   "})
	if s.Serialize() != "" {
		t.Errorf("blank text should drop the term, got %q", s.Serialize())
	}
}

func TestSetValue_Option(t *testing.T) {
	c := testCatalog(t)
	s := New(kind.Release)
	s = mustReduce(t, c, s, AddCondition{Field: "format"})
	if got := s.Serialize(); got != `format:"CD"` {
		t.Errorf("preselected Serialize() = %q", got)
	}
	s = mustReduce(t, c, s, SetValue{ID: 1, Raw: `12" Vinyl`})
	if got, want := s.Serialize(), `format:"12\" Vinyl"`; got != want {
		t.Errorf("Serialize() = %q, want %q", got, want)
	}
	s = mustReduce(t, c, s, SetValue{ID: 1, Raw: "Wax cylinder"})
	cond, _ := s.Find(1)
	if !cond.Invalid || s.Serialize() != "" {
		t.Errorf("unknown option: invalid=%v query=%q", cond.Invalid, s.Serialize())
	}
}

func TestSetDateRange(t *testing.T) {
	c := testCatalog(t)
	s := artistState(t, c, "begin")

	tests := []struct {
		name     string
		from, to date.Parts
		want     string
		invalid  bool
	}{
		{"month bounds", date.Parts{Year: "1980", Month: "1"}, date.Parts{Year: "1980", Month: "1"}, "begin:[1980-01-01 TO 1980-01-31]", false},
		{"leap february", date.Parts{}, date.Parts{Year: "2000", Month: "2"}, "begin:[* TO 2000-02-29]", false},
		{"century february", date.Parts{}, date.Parts{Year: "1900", Month: "2"}, "begin:[* TO 1900-02-28]", false},
		{"open upper", date.Parts{Year: "1960"}, date.Parts{}, "begin:[1960 TO null]", false},
		{"to year only", date.Parts{}, date.Parts{Year: "1960"}, "begin:[* TO 1960-12-31]", false},
		{"both empty", date.Parts{}, date.Parts{}, "", false},
		{"invalid day", date.Parts{Year: "1900", Month: "2", Day: "29"}, date.Parts{}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := mustReduce(t, c, s, SetDateRange{ID: 1, From: tt.from, To: tt.to})
			if got := next.Serialize(); got != tt.want {
				t.Errorf("Serialize() = %q, want %q", got, tt.want)
			}
			cond, _ := next.Find(1)
			if cond.Invalid != tt.invalid {
				t.Errorf("Invalid = %v", cond.Invalid)
			}
		})
	}
}

func TestSetValue_DateRangeShorthand(t *testing.T) {
	c := testCatalog(t)
	s := artistState(t, c, "begin")
	s = mustReduce(t, c, s, SetValue{ID: 1, Raw: "1960..1970-06"})
	if got, want := s.Serialize(), "begin:[1960 TO 1970-06-30]"; got != want {
		t.Errorf("Serialize() = %q, want %q", got, want)
	}
	s = mustReduce(t, c, s, SetValue{ID: 1, Raw: "sixties"})
	if cond, _ := s.Find(1); !cond.Invalid || cond.Message != MsgInvalidDate {
		t.Errorf("cond = %+v", cond)
	}
}

func TestSetDateRange_WrongKind(t *testing.T) {
	c := testCatalog(t)
	s := artistState(t, c, "artist")
	if _, err := Reduce(c, s, SetDateRange{ID: 1}); !errors.Is(err, domain.ErrInvalidEvent) {
		t.Errorf("err = %v", err)
	}
}

func TestChangeField_ResetsValue(t *testing.T) {
	c := testCatalog(t)
	s := artistState(t, c, "artist", "artist")
	s = mustReduce(t, c, s,
		SetValue{ID: 1, Raw: "Beatles"},
		SetNegation{ID: 1, Negated: true},
		ChangeField{ID: 1, Field: "type"},
	)
	cond, _ := s.Find(1)
	if cond.Field != "type" || cond.Negated || cond.Input != "person" {
		t.Errorf("cond = %+v", cond)
	}
	if got := s.Serialize(); got != `type:"person"` {
		t.Errorf("Serialize() = %q", got)
	}
	if _, err := Reduce(c, s, ChangeField{ID: PlaceholderID, Field: "type"}); !errors.Is(err, domain.ErrInvalidEvent) {
		t.Errorf("changing placeholder: err = %v", err)
	}
}

func TestSetCombinator(t *testing.T) {
	c := testCatalog(t)
	s := artistState(t, c, "artist", "country")
	s = mustReduce(t, c, s,
		SetValue{ID: 1, Raw: "Beatles"},
		SetValue{ID: 2, Raw: "GB"},
		SetCombinator{Combinator: lucene.Or},
	)
	if got, want := s.Serialize(), `artist:Beatles OR country:"GB"`; got != want {
		t.Errorf("Serialize() = %q, want %q", got, want)
	}
	if _, err := Reduce(c, s, SetCombinator{Combinator: "XOR"}); !errors.Is(err, domain.ErrInvalidEvent) {
		t.Errorf("err = %v", err)
	}
}

func TestSelectEntity_Resets(t *testing.T) {
	c := testCatalog(t)
	s := artistState(t, c, "artist", "type")
	s = mustReduce(t, c, s, SelectEntity{Entity: "release-group"})
	if s.Kind != kind.ReleaseGroup || len(s.Conditions) != 1 || s.LastID != 0 {
		t.Errorf("state not reset: %+v", s)
	}
	if _, err := Reduce(c, s, SelectEntity{Entity: "url"}); !errors.Is(err, domain.ErrUnknownKind) {
		t.Errorf("err = %v", err)
	}
}

func TestEndToEnd_BeatlesQuery(t *testing.T) {
	c := testCatalog(t)
	s := artistState(t, c, "artist")
	s = mustReduce(t, c, s, SetValue{ID: 1, Raw: "Beatles"})
	if got := s.Serialize(); got != "artist:Beatles" {
		t.Errorf("Serialize() = %q", got)
	}
}
