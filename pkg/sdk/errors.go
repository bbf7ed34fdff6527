package entitysearch

import "github.com/kailas-cloud/entitysearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrUnknownKind  = domain.ErrUnknownKind
	ErrUnknownField = domain.ErrUnknownField
	ErrInvalidQuery = domain.ErrInvalidQuery
	ErrInvalidEvent = domain.ErrInvalidEvent
	ErrBackend      = domain.ErrBackend
	ErrRateLimited  = domain.ErrRateLimited
)
