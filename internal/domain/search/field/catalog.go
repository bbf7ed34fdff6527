package field

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/entitysearch/internal/domain/entity/kind"
)

//go:embed catalog.yaml
var defaultOptionSets []byte

type layoutEntry struct {
	fieldType string
	label     string
	valueKind ValueKind
	optionSet string
}

// layout lists the searchable fields of every kind, in display order.
var layout = map[kind.Kind][]layoutEntry{
	kind.Area: {
		{"area", "Name", Text, ""},
		{"begin", "Begin Date", DateRange, ""},
		{"end", "End Date", DateRange, ""},
	},
	kind.Artist: {
		{"artist", "Name", Text, ""},
		{"begin", "Born/Founded", DateRange, ""},
		{"country", "Country", OptionKind, "country"},
		{"end", "Died/Dissolved", DateRange, ""},
		{"gender", "Gender", OptionKind, "gender"},
		{"type", "Type", OptionKind, "artist_type"},
	},
	kind.Event: {
		{"begin", "Begin Date", DateRange, ""},
		{"end", "End Date", DateRange, ""},
		{"event", "Name", Text, ""},
		{"type", "Type", OptionKind, "event_type"},
	},
	kind.Instrument: {
		{"instrument", "Name", Text, ""},
		{"type", "Type", OptionKind, "instrument_type"},
	},
	kind.Label: {
		{"begin", "Begin Date", DateRange, ""},
		{"end", "End Date", DateRange, ""},
		{"label", "Name", Text, ""},
		{"type", "Type", OptionKind, "label_type"},
	},
	kind.Place: {
		{"begin", "Begin Date", DateRange, ""},
		{"end", "End Date", DateRange, ""},
		{"place", "Name", Text, ""},
		{"type", "Type", OptionKind, "place_type"},
	},
	kind.Recording: {
		{"country", "Country", OptionKind, "country"},
		{"date", "Release Date", DateRange, ""},
		{"duration", "Duration", Number, ""},
		{"format", "Medium Format", OptionKind, "medium_format"},
		{"primarytype", "Primary Type", OptionKind, "release_group_type"},
		{"recording", "Name", Text, ""},
		{"secondarytype", "Secondary Type", OptionKind, "release_group_secondary_type"},
		{"status", "Status", OptionKind, "release_status"},
		{"tracks", "Medium Track Count", Number, ""},
		{"tracksrelease", "Release Track Count", Number, ""},
	},
	kind.Release: {
		{"country", "Country", OptionKind, "country"},
		{"date", "Release Date", DateRange, ""},
		{"format", "Medium Format", OptionKind, "medium_format"},
		{"lang", "Language", OptionKind, "language"},
		{"mediums", "Medium Count", Number, ""},
		{"quality", "Quality", OptionKind, "release_quality"},
		{"release", "Name", Text, ""},
		{"script", "Script", OptionKind, "script"},
		{"status", "Status", OptionKind, "release_status"},
		{"tracksrelease", "Track Count", Number, ""},
	},
	kind.ReleaseGroup: {
		{"primarytype", "Primary Type", OptionKind, "release_group_type"},
		{"releases", "Number of Releases", Number, ""},
		{"releasegroup", "Name", Text, ""},
		{"secondarytype", "Secondary Type", OptionKind, "release_group_secondary_type"},
		{"status", "Status", OptionKind, "release_status"},
	},
	kind.Series: {
		{"series", "Name", Text, ""},
		{"type", "Type", OptionKind, "series_type"},
	},
	kind.Work: {
		{"type", "Type", OptionKind, "work_type"},
		{"lang", "Lyrics Language", OptionKind, "language"},
		{"work", "Name", Text, ""},
	},
}

// Catalog maps each entity kind to its ordered search fields.
// It is immutable once built and safe for concurrent use.
type Catalog struct {
	fields map[kind.Kind][]Descriptor
}

// ParseOptionSets decodes a YAML document of named option sets.
func ParseOptionSets(data []byte) (map[string]OptionSet, error) {
	sets := make(map[string]OptionSet)
	if err := yaml.Unmarshal(data, &sets); err != nil {
		return nil, fmt.Errorf("parse option sets: %w", err)
	}
	return sets, nil
}

// NewCatalog builds the catalog from named option sets.
func NewCatalog(sets map[string]OptionSet) (*Catalog, error) {
	c := &Catalog{fields: make(map[kind.Kind][]Descriptor, len(layout))}
	for k, entries := range layout {
		descs := make([]Descriptor, 0, len(entries))
		for _, e := range entries {
			var opts OptionSet
			if e.optionSet != "" {
				opts = sets[e.optionSet]
			}
			d, err := New(e.fieldType, e.label, e.valueKind, opts)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			descs = append(descs, d)
		}
		c.fields[k] = descs
	}
	return c, nil
}

// Default builds the catalog from the embedded option sets.
func Default() (*Catalog, error) {
	sets, err := ParseOptionSets(defaultOptionSets)
	if err != nil {
		return nil, err
	}
	return NewCatalog(sets)
}

// Load builds the catalog from the embedded option sets overridden by the
// sets found in the YAML file at path. An empty path means defaults only.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	sets, err := ParseOptionSets(defaultOptionSets)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read option catalog %s: %w", path, err)
	}
	overrides, err := ParseOptionSets(data)
	if err != nil {
		return nil, err
	}
	for name, set := range overrides {
		sets[name] = set
	}
	return NewCatalog(sets)
}

// Fields returns the fields of k in display order (nil for unknown kinds).
func (c *Catalog) Fields(k kind.Kind) []Descriptor {
	fields := c.fields[k]
	out := make([]Descriptor, len(fields))
	copy(out, fields)
	return out
}

// Lookup finds the descriptor of fieldType for kind k.
func (c *Catalog) Lookup(k kind.Kind, fieldType string) (Descriptor, bool) {
	for _, d := range c.fields[k] {
		if d.fieldType == fieldType {
			return d, true
		}
	}
	return Descriptor{}, false
}
