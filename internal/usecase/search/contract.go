package search

import (
	"context"

	"github.com/kailas-cloud/entitysearch/internal/domain/search/request"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/result"
)

// Backend runs a Lucene query against the catalog search index.
type Backend interface {
	Search(ctx context.Context, req request.Request) (result.Response, error)
}
