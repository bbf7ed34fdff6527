package session

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/entitysearch/internal/domain"
	"github.com/kailas-cloud/entitysearch/internal/domain/entity/kind"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/condition"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/field"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/page"
	"github.com/kailas-cloud/entitysearch/internal/logger"
	"github.com/kailas-cloud/entitysearch/internal/metrics"
	"github.com/kailas-cloud/entitysearch/internal/normalize"
)

// Service drives search sessions: condition events, searches and the
// session entity cache.
type Service struct {
	sessions *Manager
	catalog  *field.Catalog
	search   Searcher
}

// NewService creates a session service.
func NewService(sessions *Manager, catalog *field.Catalog, search Searcher) *Service {
	return &Service{sessions: sessions, catalog: catalog, search: search}
}

// Create opens a session for the entity kind named entity.
func (s *Service) Create(entity string) (View, error) {
	k, ok := kind.Parse(entity)
	if !ok {
		return View{}, fmt.Errorf("%q: %w", entity, domain.ErrUnknownKind)
	}
	return s.sessions.Create(k).View(), nil
}

// Get returns a snapshot of session id.
func (s *Service) Get(id string) (View, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return View{}, err
	}
	sess.Touch()
	return sess.View(), nil
}

// Remove closes session id.
func (s *Service) Remove(id string) error {
	if !s.sessions.Remove(id) {
		return fmt.Errorf("session %s: %w", id, domain.ErrSessionNotFound)
	}
	return nil
}

// Apply reduces e into the session's condition set.
func (s *Service) Apply(ctx context.Context, id string, e condition.Event) (View, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return View{}, err
	}
	ctx = logger.WithSession(ctx, id)
	eventType := condition.TypeOf(e)
	v, err := sess.apply(s.catalog, e)
	if err != nil {
		metrics.ConditionEventsTotal.WithLabelValues(eventType, "rejected").Inc()
		return View{}, err
	}
	metrics.ConditionEventsTotal.WithLabelValues(eventType, "applied").Inc()
	logger.FromContext(ctx).Debug("condition event applied",
		zap.String("event", eventType),
		zap.String("query", v.Query),
	)
	return v, nil
}

// Search submits the current query for pageNum. A backend failure is not an
// error: the session shows an empty page flagged as failed until the next
// search. When a later search already finished, its page is returned and
// this response is dropped.
func (s *Service) Search(ctx context.Context, id string, pageNum int) (page.Page, error) {
	if pageNum > page.MaxPage {
		return page.Page{}, fmt.Errorf("page %d out of range: %w", pageNum, domain.ErrInvalidQuery)
	}
	sess, err := s.lookup(id)
	if err != nil {
		return page.Page{}, err
	}
	ctx = logger.WithSession(ctx, id)
	seq, state := sess.begin()
	query := state.Serialize()

	p, err := s.search.Search(ctx, state.Kind, query, pageNum)
	if err != nil {
		if ctx.Err() != nil {
			return page.Page{}, ctx.Err()
		}
		logger.FromContext(ctx).Warn("session search failed",
			zap.String("query", query),
			zap.Error(err),
		)
		p = page.Failed(query, pageNum)
	}

	shown, applied := sess.finish(seq, state.Kind, p)
	if !applied {
		logger.FromContext(ctx).Debug("stale search response dropped",
			zap.Uint64("seq", seq),
		)
	}
	return shown, nil
}

// Results returns the page currently shown by session id.
func (s *Service) Results(id string) (page.Page, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return page.Page{}, err
	}
	p, ok := sess.Results()
	if !ok {
		return page.Page{}, fmt.Errorf("session %s has no results: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

// Entity returns an entity from the session's result pages.
func (s *Service) Entity(id, gid string) (normalize.Entity, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return normalize.Entity{}, err
	}
	e, ok := sess.Entity(gid)
	if !ok {
		return normalize.Entity{}, fmt.Errorf("entity %s: %w", gid, domain.ErrEntityNotFound)
	}
	return e, nil
}

// Fields returns the search fields of the entity kind named entity.
func (s *Service) Fields(entity string) (kind.Kind, []field.Descriptor, error) {
	k, ok := kind.Parse(entity)
	if !ok {
		return "", nil, fmt.Errorf("%q: %w", entity, domain.ErrUnknownKind)
	}
	return k, s.catalog.Fields(k), nil
}

func (s *Service) lookup(id string) (*Session, error) {
	sess := s.sessions.Get(id)
	if sess == nil {
		return nil, fmt.Errorf("session %s: %w", id, domain.ErrSessionNotFound)
	}
	return sess, nil
}
