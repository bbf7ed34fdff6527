package field

import "fmt"

// ValueKind selects the value editor and value domain of a search field.
type ValueKind string

// Value kinds.
const (
	// Text is free text, escaped and sent unquoted.
	Text       ValueKind = "text"
	Number     ValueKind = "number"
	OptionKind ValueKind = "option"
	DateRange  ValueKind = "date_range"
)

// IsValid checks if the value kind is one of the supported values.
func (v ValueKind) IsValid() bool {
	return v == Text || v == Number || v == OptionKind || v == DateRange
}

// Option is one selectable value of an option field.
type Option struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

// OptionGroup is a labelled group of options (frequently used languages, ...).
type OptionGroup struct {
	Label   string   `yaml:"label" json:"label"`
	Options []Option `yaml:"options" json:"options"`
}

// OptionSet is either a flat option list or a list of groups.
type OptionSet struct {
	Options []Option      `yaml:"options" json:"options,omitempty"`
	Groups  []OptionGroup `yaml:"groups" json:"groups,omitempty"`
}

// All flattens the set in display order.
func (s OptionSet) All() []Option {
	if len(s.Groups) == 0 {
		return s.Options
	}
	var out []Option
	for _, g := range s.Groups {
		out = append(out, g.Options...)
	}
	return out
}

// IsEmpty reports whether the set offers no option.
func (s OptionSet) IsEmpty() bool { return len(s.All()) == 0 }

// Descriptor describes one search field of an entity kind.
type Descriptor struct {
	fieldType string
	label     string
	valueKind ValueKind
	options   OptionSet
}

// New validates and creates a Descriptor.
// Option fields must carry at least one option.
func New(fieldType, label string, vk ValueKind, options OptionSet) (Descriptor, error) {
	if fieldType == "" {
		return Descriptor{}, fmt.Errorf("field type is required")
	}
	if !vk.IsValid() {
		return Descriptor{}, fmt.Errorf("invalid value kind %q for %q", vk, fieldType)
	}
	if vk == OptionKind && options.IsEmpty() {
		return Descriptor{}, fmt.Errorf("option field %q has no options", fieldType)
	}
	return Descriptor{fieldType: fieldType, label: label, valueKind: vk, options: options}, nil
}

// Type returns the backend field name (artist, begin, country, ...).
func (d Descriptor) Type() string { return d.fieldType }

// Label returns the display label.
func (d Descriptor) Label() string { return d.label }

// ValueKind returns the value domain.
func (d Descriptor) ValueKind() ValueKind { return d.valueKind }

// Options returns the option set of an option field.
func (d Descriptor) Options() OptionSet { return d.options }

// HasOption reports whether v is one of the field's option values.
func (d Descriptor) HasOption(v string) bool {
	for _, o := range d.options.All() {
		if o.Value == v {
			return true
		}
	}
	return false
}

// FirstOption is the value preselected when an option field is bound.
func (d Descriptor) FirstOption() string {
	all := d.options.All()
	if len(all) == 0 {
		return ""
	}
	return all[0].Value
}
