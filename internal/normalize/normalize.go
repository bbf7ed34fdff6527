// Package normalize maps WS/2 entity JSON onto the flat display shape read by
// the result renderers.
package normalize

import (
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/entitysearch/internal/domain/entity/kind"
)

// Localizer translates display labels (types, roles, statuses).
type Localizer interface {
	L(s string) string
}

// LocalizerFunc adapts a function to Localizer.
type LocalizerFunc func(string) string

// L calls f.
func (f LocalizerFunc) L(s string) string { return f(s) }

type identity struct{}

func (identity) L(s string) string { return s }

// Normalizer converts web service entities. The zero value is not usable;
// call New.
type Normalizer struct {
	loc Localizer
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithLocalizer sets the label translator. The default returns labels as is.
func WithLocalizer(l Localizer) Option {
	return func(n *Normalizer) {
		if l != nil {
			n.loc = l
		}
	}
}

// New creates a Normalizer.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{loc: identity{}}
	for _, o := range opts {
		o(n)
	}
	return n
}

var std = New()

// Normalize converts raw with the default Normalizer.
func Normalize(k kind.Kind, raw json.RawMessage) (Output, error) {
	return std.Normalize(k, raw)
}

// NormalizeResults converts a page of search hits with the default Normalizer.
func NormalizeResults(k kind.Kind, items []json.RawMessage) ([]Result, error) {
	return std.NormalizeResults(k, items)
}

// Normalize converts one entity of kind k. Kinds without a cleaner are
// returned unchanged in Output.Raw. raw is never modified.
func (n *Normalizer) Normalize(k kind.Kind, raw json.RawMessage) (Output, error) {
	if !k.Known() {
		return Output{Raw: passthrough(raw)}, nil
	}
	var data wsEntity
	if err := json.Unmarshal(raw, &data); err != nil {
		return Output{}, fmt.Errorf("decode %s: %w", k, err)
	}
	e := n.clean(k, &data)
	return Output{Entity: &e}, nil
}

// NormalizeResults converts search hits into {entity, score} results.
func (n *Normalizer) NormalizeResults(k kind.Kind, items []json.RawMessage) ([]Result, error) {
	out := make([]Result, 0, len(items))
	for i, raw := range items {
		var hit struct {
			Score int `json:"score"`
		}
		if err := json.Unmarshal(raw, &hit); err != nil {
			return nil, fmt.Errorf("decode %s result %d: %w", k, i, err)
		}
		o, err := n.Normalize(k, raw)
		if err != nil {
			return nil, fmt.Errorf("result %d: %w", i, err)
		}
		out = append(out, Result{Entity: o, Score: hit.Score})
	}
	return out, nil
}

func (n *Normalizer) clean(k kind.Kind, data *wsEntity) Entity {
	switch k {
	case kind.Area:
		return n.area(data)
	case kind.Artist:
		return n.artist(data)
	case kind.Event:
		return n.event(data)
	case kind.Instrument:
		return n.instrument(data)
	case kind.Label:
		return n.label(data)
	case kind.Place:
		return n.place(data)
	case kind.Recording:
		return n.recording(data)
	case kind.Release:
		return n.release(data)
	case kind.ReleaseGroup:
		return n.releaseGroup(data)
	case kind.Series:
		return n.series(data)
	case kind.Work:
		return n.work(data)
	}
	panic(fmt.Sprintf("normalize: no cleaner for known kind %q", k))
}

func passthrough(raw json.RawMessage) json.RawMessage {
	if raw == nil {
		return nil
	}
	out := make(json.RawMessage, len(raw))
	copy(out, raw)
	return out
}
