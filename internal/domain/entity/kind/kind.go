package kind

import "strings"

// Kind is a catalog entity type.
type Kind string

// Entity kinds with a dedicated normalizer and field catalog.
const (
	Area         Kind = "area"
	Artist       Kind = "artist"
	Event        Kind = "event"
	Instrument   Kind = "instrument"
	Label        Kind = "label"
	Place        Kind = "place"
	Recording    Kind = "recording"
	Release      Kind = "release"
	ReleaseGroup Kind = "release_group"
	Series       Kind = "series"
	Work         Kind = "work"
)

// All lists the known kinds in alphabetical order.
var All = []Kind{
	Area, Artist, Event, Instrument, Label, Place,
	Recording, Release, ReleaseGroup, Series, Work,
}

// Parse maps a user or web service spelling onto a Kind.
// The second value is false for kinds outside All; the returned Kind still
// carries the cleaned name so it can flow through as an identity variant.
func Parse(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "release-group", "releasegroup":
		s = string(ReleaseGroup)
	}
	k := Kind(s)
	return k, k.Known()
}

// Known reports whether k is one of the eleven supported kinds.
func (k Kind) Known() bool {
	for _, v := range All {
		if v == k {
			return true
		}
	}
	return false
}

// Resource returns the web service path segment (release-group).
func (k Kind) Resource() string {
	return strings.ReplaceAll(string(k), "_", "-")
}

// Plural returns the key under which search responses list the entities.
func (k Kind) Plural() string {
	r := k.Resource()
	if strings.HasSuffix(r, "s") {
		return r
	}
	return r + "s"
}

// Label is the human readable plural used by entity selectors ("Release Groups").
func (k Kind) Label() string {
	words := strings.Split(k.Plural(), "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func (k Kind) String() string { return string(k) }
