package session

import (
	"context"

	"github.com/kailas-cloud/entitysearch/internal/domain/entity/kind"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/page"
)

// Searcher runs one page of an entity search.
type Searcher interface {
	Search(ctx context.Context, k kind.Kind, query string, pageNum int) (page.Page, error)
}
