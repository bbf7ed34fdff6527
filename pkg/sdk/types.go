package entitysearch

import (
	"github.com/kailas-cloud/entitysearch/internal/domain/search/field"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/page"
	"github.com/kailas-cloud/entitysearch/internal/normalize"
)

// Page is one page of normalized hits with its pagination metadata.
type Page = page.Page

// Pager is the pagination metadata of a Page.
type Pager = page.Pager

// Result is one hit: the normalized entity and its relevance score.
type Result = normalize.Result

// Entity is the normalized display shape of a catalog entity.
type Entity = normalize.Entity

// Field describes a searchable field of an entity kind.
type Field struct {
	Type      string
	Label     string
	ValueKind string
	// Options lists the accepted values of option fields, in display order.
	Options []FieldOption
}

// FieldOption is one accepted value of an option field.
type FieldOption = field.Option

func toField(d field.Descriptor) Field {
	return Field{
		Type:      d.Type(),
		Label:     d.Label(),
		ValueKind: string(d.ValueKind()),
		Options:   d.Options().All(),
	}
}
