package condition

import (
	"testing"

	"github.com/kailas-cloud/entitysearch/internal/domain/entity/kind"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/field"
)

func testCatalog(t *testing.T) *field.Catalog {
	t.Helper()
	c, err := field.Default()
	if err != nil {
		t.Fatalf("field.Default() error: %v", err)
	}
	return c
}

func mustReduce(t *testing.T, c *field.Catalog, s State, events ...Event) State {
	t.Helper()
	next, err := ReduceAll(c, s, events...)
	if err != nil {
		t.Fatalf("ReduceAll() error: %v", err)
	}
	return next
}

func artistState(t *testing.T, c *field.Catalog, fields ...string) State {
	t.Helper()
	s := New(kind.Artist)
	for _, f := range fields {
		s = mustReduce(t, c, s, AddCondition{Field: f})
	}
	return s
}

func assertPlaceholderLast(t *testing.T, s State) {
	t.Helper()
	if len(s.Conditions) == 0 {
		t.Fatal("no conditions")
	}
	last := s.Conditions[len(s.Conditions)-1]
	if !last.IsPlaceholder() || last.ID != PlaceholderID {
		t.Fatalf("last slot = %+v, want placeholder", last)
	}
	for _, c := range s.Conditions[:len(s.Conditions)-1] {
		if c.IsPlaceholder() {
			t.Fatalf("placeholder found before tail: %+v", s.Conditions)
		}
	}
}
