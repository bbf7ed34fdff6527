package chi

import (
	"github.com/kailas-cloud/entitysearch/internal/domain/entity/kind"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/field"
	healthuc "github.com/kailas-cloud/entitysearch/internal/usecase/health"
)

// ErrorCode is the machine readable error code of an ErrorResponse.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest      ErrorCode = "bad_request"
	CodeUnauthorized    ErrorCode = "unauthorized"
	CodeNotFound        ErrorCode = "not_found"
	CodeSessionNotFound ErrorCode = "session_not_found"
	CodeEntityNotFound  ErrorCode = "entity_not_found"
	CodeUnknownEntity   ErrorCode = "unknown_entity"
	CodeUnknownField    ErrorCode = "unknown_field"
	CodeInvalidEvent    ErrorCode = "invalid_event"
	CodeInvalidQuery    ErrorCode = "invalid_query"
	CodeRateLimited     ErrorCode = "rate_limited"
	CodeBackendError    ErrorCode = "backend_error"
	CodeInternalError   ErrorCode = "internal_error"
)

// ErrorResponse is the body of every error answer.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status healthuc.Status                  `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}

// CreateSessionRequest is the body of POST /api/v1/sessions.
type CreateSessionRequest struct {
	Entity string `json:"entity"`
}

// CatalogResponse lists the search fields of one entity kind.
type CatalogResponse struct {
	Entity kind.Kind   `json:"entity"`
	Label  string      `json:"label"`
	Fields []FieldJSON `json:"fields"`
}

// FieldJSON is one search field descriptor.
type FieldJSON struct {
	Type      string           `json:"type"`
	Label     string           `json:"label"`
	ValueKind field.ValueKind  `json:"value_kind"`
	Options   *field.OptionSet `json:"options,omitempty"`
}

func catalogToJSON(k kind.Kind, descs []field.Descriptor) CatalogResponse {
	fields := make([]FieldJSON, len(descs))
	for i, d := range descs {
		fields[i] = FieldJSON{
			Type:      d.Type(),
			Label:     d.Label(),
			ValueKind: d.ValueKind(),
		}
		if d.ValueKind() == field.OptionKind {
			opts := d.Options()
			fields[i].Options = &opts
		}
	}
	return CatalogResponse{Entity: k, Label: k.Label(), Fields: fields}
}
