package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/entitysearch/internal/domain"
	"github.com/kailas-cloud/entitysearch/internal/domain/entity/kind"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/page"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/request"
	"github.com/kailas-cloud/entitysearch/internal/normalize"
)

// Service runs entity searches and normalizes the hits for display.
type Service struct {
	backend Backend
	norm    *normalize.Normalizer
}

// New creates a search service.
func New(backend Backend, norm *normalize.Normalizer) *Service {
	if norm == nil {
		norm = normalize.New()
	}
	return &Service{backend: backend, norm: norm}
}

// Search fetches one page of hits for query. Backend and decoding failures
// are wrapped in domain.ErrBackend; the caller decides how to present them.
func (s *Service) Search(ctx context.Context, k kind.Kind, query string, pageNum int) (page.Page, error) {
	req, err := request.New(k, query, pageNum)
	if err != nil {
		return page.Page{}, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
	}

	resp, err := s.backend.Search(ctx, req)
	if err != nil {
		if errors.Is(err, domain.ErrBackend) || errors.Is(err, context.Canceled) {
			return page.Page{}, err
		}
		return page.Page{}, fmt.Errorf("%w: %w", domain.ErrBackend, err)
	}

	results, err := s.norm.NormalizeResults(k, resp.Items)
	if err != nil {
		return page.Page{}, fmt.Errorf("%w: %w", domain.ErrBackend, err)
	}

	return page.Page{
		Results: results,
		Pager:   page.NewPager(req.Page(), resp.Count),
		Query:   query,
	}, nil
}
