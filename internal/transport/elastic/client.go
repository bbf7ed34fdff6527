// Package elastic serves searches from an Elasticsearch cluster holding the
// MusicBrainz search indexes, one index per entity kind.
package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/kailas-cloud/entitysearch/internal/domain"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/request"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/result"
	"github.com/kailas-cloud/entitysearch/internal/metrics"
)

const backendLabel = "elastic"

// Config holds cluster settings.
type Config struct {
	Addresses   []string
	Username    string
	Password    string
	IndexPrefix string
}

// Client is an Elasticsearch search backend.
type Client struct {
	es     *elasticsearch.Client
	prefix string
}

// New creates a client for the configured cluster.
func New(cfg Config) (*Client, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	return &Client{es: es, prefix: cfg.IndexPrefix}, nil
}

// Index returns the index name searched for req.
func (c *Client) Index(req request.Request) string {
	return c.prefix + req.Kind().Plural()
}

// Body builds the search request body. An empty query matches everything.
func Body(req request.Request) ([]byte, error) {
	query := map[string]any{"match_all": map[string]any{}}
	if req.Query() != "" {
		query = map[string]any{
			"query_string": map[string]any{
				"query":            req.Query(),
				"default_operator": "AND",
			},
		}
	}
	return json.Marshal(map[string]any{
		"query":            query,
		"from":             req.Offset(),
		"size":             req.Limit(),
		"track_total_hits": true,
	})
}

// Search runs req against the kind's index.
func (c *Client) Search(ctx context.Context, req request.Request) (result.Response, error) {
	start := time.Now()
	entity := string(req.Kind())
	resp, err := c.search(ctx, req)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.BackendRequestDuration.WithLabelValues(backendLabel, entity).Observe(time.Since(start).Seconds())
	metrics.BackendRequestsTotal.WithLabelValues(backendLabel, entity, status).Inc()
	return resp, err
}

func (c *Client) search(ctx context.Context, req request.Request) (result.Response, error) {
	body, err := Body(req)
	if err != nil {
		return result.Response{}, fmt.Errorf("%w: encode query: %w", domain.ErrBackend, err)
	}

	res, err := esapi.SearchRequest{
		Index: []string{c.Index(req)},
		Body:  bytes.NewReader(body),
	}.Do(ctx, c.es)
	if err != nil {
		return result.Response{}, fmt.Errorf("%w: %w", domain.ErrBackend, err)
	}
	defer func() { _ = res.Body.Close() }()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return result.Response{}, fmt.Errorf("%w: read body: %w", domain.ErrBackend, err)
	}
	if res.IsError() {
		return result.Response{}, domain.NewBackendStatus(res.StatusCode, string(data))
	}
	return Decode(data)
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		MaxScore *float64 `json:"max_score"`
		Hits     []hit    `json:"hits"`
	} `json:"hits"`
}

type hit struct {
	ID     string          `json:"_id"`
	Score  *float64        `json:"_score"`
	Source json.RawMessage `json:"_source"`
}

// Decode turns a search response into web service shaped items. Each source
// gets an "id" (from _id when missing) and a "score" scaled to 0-100
// against the best hit.
func Decode(data []byte) (result.Response, error) {
	var sr searchResponse
	if err := json.Unmarshal(data, &sr); err != nil {
		return result.Response{}, fmt.Errorf("%w: decode response: %w", domain.ErrBackend, err)
	}

	out := result.Response{
		Items: make([]json.RawMessage, 0, len(sr.Hits.Hits)),
		Count: sr.Hits.Total.Value,
	}
	for _, h := range sr.Hits.Hits {
		var src map[string]json.RawMessage
		if err := json.Unmarshal(h.Source, &src); err != nil || src == nil {
			continue
		}
		if _, ok := src["id"]; !ok && h.ID != "" {
			src["id"], _ = json.Marshal(h.ID)
		}
		src["score"], _ = json.Marshal(scale(h.Score, sr.Hits.MaxScore))
		item, err := json.Marshal(src)
		if err != nil {
			return result.Response{}, fmt.Errorf("%w: encode hit: %w", domain.ErrBackend, err)
		}
		out.Items = append(out.Items, item)
	}
	return out, nil
}

func scale(score, maxScore *float64) int {
	if score == nil || maxScore == nil || *maxScore <= 0 {
		return 100
	}
	return int(math.Round(*score / *maxScore * 100))
}

// Ping checks that the cluster answers.
func (c *Client) Ping(ctx context.Context) error {
	res, err := esapi.PingRequest{}.Do(ctx, c.es)
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("ping: %s", res.Status())
	}
	return nil
}
