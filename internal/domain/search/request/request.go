package request

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"

	"github.com/kailas-cloud/entitysearch/internal/domain/entity/kind"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/page"
)

// MaxQueryLength is the maximum allowed search query length.
const MaxQueryLength = 4096

var resourcePattern = regexp.MustCompile(`^[a-z][a-z_-]*$`)

// Request is a validated backend search for one result page.
type Request struct {
	kind  kind.Kind
	query string
	page  int
}

// New validates search parameters. Page numbers below 1 select the first
// page; numbers above page.MaxPage are rejected. An empty query is allowed
// and sent as is.
func New(k kind.Kind, query string, pageNum int) (Request, error) {
	if !resourcePattern.MatchString(string(k)) {
		return Request{}, fmt.Errorf("invalid entity kind %q", k)
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if pageNum > page.MaxPage {
		return Request{}, fmt.Errorf("page %d out of range (max %d)", pageNum, page.MaxPage)
	}
	if pageNum < 1 {
		pageNum = 1
	}
	return Request{kind: k, query: query, page: pageNum}, nil
}

// Kind returns the searched entity kind.
func (r Request) Kind() kind.Kind { return r.kind }

// Query returns the Lucene query.
func (r Request) Query() string { return r.query }

// Page returns the 1-based page number.
func (r Request) Page() int { return r.page }

// Offset returns the index of the first requested hit.
func (r Request) Offset() int { return page.Offset(r.page) }

// Limit returns the page size.
func (r Request) Limit() int { return page.EntriesPerPage }

// Key identifies the request for response caching.
func (r Request) Key() string {
	h := sha256.New()
	h.Write([]byte(r.kind))
	h.Write([]byte{0})
	h.Write([]byte(r.query))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(r.Offset())))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(r.Limit())))
	return hex.EncodeToString(h.Sum(nil))
}
