package session

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/kailas-cloud/entitysearch/internal/domain/entity/kind"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/field"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/page"
	"github.com/kailas-cloud/entitysearch/internal/normalize"
)

// mockSearcher answers with a canned page or error. When gate is set, each
// call waits for a value on its own channel before answering.
type mockSearcher struct {
	page    page.Page
	err     error
	queries []string
	gates   chan chan page.Page
}

func (m *mockSearcher) Search(ctx context.Context, _ kind.Kind, query string, pageNum int) (page.Page, error) {
	m.queries = append(m.queries, query)
	if m.gates != nil {
		gate := make(chan page.Page)
		m.gates <- gate
		select {
		case p := <-gate:
			return p, nil
		case <-ctx.Done():
			return page.Page{}, ctx.Err()
		}
	}
	if m.err != nil {
		return page.Page{}, m.err
	}
	p := m.page
	p.Query = query
	p.Pager = page.NewPager(pageNum, p.Pager.TotalEntries)
	return p, nil
}

func testCatalog(t *testing.T) *field.Catalog {
	t.Helper()
	c, err := field.Default()
	if err != nil {
		t.Fatalf("field.Default() error: %v", err)
	}
	return c
}

func beatlesPage(t *testing.T) page.Page {
	t.Helper()
	results, err := normalize.NormalizeResults(kind.Artist, []json.RawMessage{
		json.RawMessage(`{"id":"b10b","name":"The Beatles","score":100,"life-span":{"begin":"1960"}}`),
	})
	if err != nil {
		t.Fatalf("NormalizeResults() error: %v", err)
	}
	return page.Page{Results: results, Pager: page.NewPager(1, 1)}
}

func newTestService(t *testing.T, s Searcher) (*Service, *Manager) {
	t.Helper()
	m := NewManager(0, 0)
	return NewService(m, testCatalog(t), s), m
}
