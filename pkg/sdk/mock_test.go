package entitysearch

import (
	"context"
	"testing"

	"github.com/kailas-cloud/entitysearch/internal/domain/entity/kind"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/field"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/page"
	healthuc "github.com/kailas-cloud/entitysearch/internal/usecase/health"
)

type searchCall struct {
	kind  kind.Kind
	query string
	page  int
}

type mockSearchUC struct {
	calls []searchCall
	fn    func(ctx context.Context, k kind.Kind, query string, pageNum int) (page.Page, error)
}

func (m *mockSearchUC) Search(ctx context.Context, k kind.Kind, query string, pageNum int) (page.Page, error) {
	m.calls = append(m.calls, searchCall{k, query, pageNum})
	if m.fn != nil {
		return m.fn(ctx, k, query, pageNum)
	}
	return page.Page{Query: query, Pager: page.NewPager(pageNum, 0)}, nil
}

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }

// newMockClient wires a Client around the given use cases.
func newMockClient(t *testing.T, search searchUseCase, health healthUseCase) *Client {
	t.Helper()
	catalog, err := field.Default()
	if err != nil {
		t.Fatalf("field.Default() error: %v", err)
	}
	return &Client{catalog: catalog, searchSvc: search, healthSvc: health}
}
