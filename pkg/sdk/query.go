package entitysearch

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/entitysearch/internal/domain"
	"github.com/kailas-cloud/entitysearch/internal/domain/entity/kind"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/condition"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/lucene"
)

// QueryBuilder is a fluent builder for condition based searches. Values are
// given the way a user types them: free text, a number or "lo-hi" range, an
// option value, or a "from..to" date range with YYYY[-MM[-DD]] sides.
type QueryBuilder struct {
	client  *Client
	entity  string
	pairs   []condition.Pair
	negated []string
	any     bool
	page    int
}

// Query starts a search on entity (artist, release-group, ...).
func (c *Client) Query(entity string) *QueryBuilder {
	return &QueryBuilder{client: c, entity: entity, page: 1}
}

// Where adds a condition on field.
func (b *QueryBuilder) Where(field, value string) *QueryBuilder {
	b.pairs = append(b.pairs, condition.Pair{Field: field, Value: value})
	return b
}

// Between adds a date range condition. Either side may be empty.
func (b *QueryBuilder) Between(field, from, to string) *QueryBuilder {
	return b.Where(field, from+".."+to)
}

// Not negates the next non-negated condition on field. Negation needs at
// least two conditions.
func (b *QueryBuilder) Not(field string) *QueryBuilder {
	b.negated = append(b.negated, field)
	return b
}

// Any matches hits satisfying any condition instead of all of them.
func (b *QueryBuilder) Any() *QueryBuilder {
	b.any = true
	return b
}

// Page selects the 1-based result page.
func (b *QueryBuilder) Page(n int) *QueryBuilder {
	b.page = n
	return b
}

// String returns the Lucene query the builder would send.
func (b *QueryBuilder) String() (string, error) {
	_, q, err := b.build()
	return q, err
}

// Do runs the search.
func (b *QueryBuilder) Do(ctx context.Context) (Page, error) {
	k, q, err := b.build()
	if err != nil {
		return Page{}, err
	}
	return b.client.Search(ctx, k.Resource(), q, b.page)
}

func (b *QueryBuilder) build() (kind.Kind, string, error) {
	k, ok := kind.Parse(b.entity)
	if !ok {
		return "", "", fmt.Errorf("%q: %w", b.entity, domain.ErrUnknownKind)
	}
	combinator := lucene.And
	if b.any {
		combinator = lucene.Or
	}
	s, err := condition.Build(b.client.catalog, k, b.pairs, b.negated, combinator)
	if err != nil {
		return "", "", fmt.Errorf("build %s query: %w", k.Resource(), err)
	}
	return k, s.Serialize(), nil
}
