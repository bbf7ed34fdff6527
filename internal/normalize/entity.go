package normalize

import (
	"encoding/json"

	"github.com/kailas-cloud/entitysearch/internal/domain/search/date"
)

// Entity is the display shape of a catalog entity. Members that do not apply
// to a kind, or whose source data is absent, are left zero and omitted.
//
// Several members are written under both a camel and a snake key; renderers
// read either spelling.
type Entity struct {
	GID             string `json:"gid"`
	Name            string `json:"name"`
	Comment         string `json:"comment"`
	EntityType      string `json:"entity_type"`
	EntityTypeCamel string `json:"entityType"`

	SortName          string         `json:"sortName,omitempty"`
	SortNameSnake     string         `json:"sort_name,omitempty"`
	ArtistCredit      []CreditName   `json:"artistCredit,omitempty"`
	ArtistCreditSnake []CreditName   `json:"artist_credit,omitempty"`
	BeginDate         *date.Partial  `json:"begin_date,omitempty"`
	EndDate           *date.Partial  `json:"end_date,omitempty"`
	Ended             *bool          `json:"ended,omitempty"`
	Type              *LocalizedName `json:"type,omitempty"`
	LTypeName         string         `json:"l_type_name,omitempty"`

	// artist, label, place
	Gender    *LocalizedName `json:"gender,omitempty"`
	Area      *Entity        `json:"area,omitempty"`
	BeginArea *Entity        `json:"begin_area,omitempty"`
	EndArea   *Entity        `json:"end_area,omitempty"`

	*AreaCodes

	FormatLabelCode string `json:"format_label_code,omitempty"`
	LDescription    string `json:"l_description,omitempty"`
	Address         string `json:"address,omitempty"`

	// event
	Places        []Entity    `json:"places,omitempty"`
	Areas         []Entity    `json:"areas,omitempty"`
	Performers    []RoleGroup `json:"performers,omitempty"`
	FormattedTime string      `json:"formatted_time,omitempty"`
	FormattedDate string      `json:"formatted_date,omitempty"`

	// work
	Writers   []RoleGroup `json:"writers,omitempty"`
	Languages string      `json:"languages,omitempty"`

	// recording
	Video    bool     `json:"video,omitempty"`
	Length   string   `json:"length,omitempty"`
	Releases []Entity `json:"releases,omitempty"`

	// release, also set on the releases of a recording
	CombinedFormatName string   `json:"combined_format_name,omitempty"`
	CombinedTrackCount string   `json:"combined_track_count,omitempty"`
	Dates              []string `json:"dates,omitempty"`
	Countries          []Entity `json:"countries,omitempty"`
	Labels             []Entity `json:"labels,omitempty"`
	CatNos             string   `json:"catNos,omitempty"`
	Barcode            string   `json:"barcode,omitempty"`
	Language           string   `json:"language,omitempty"`
	Script             string   `json:"script,omitempty"`
	GroupType          string   `json:"groupType,omitempty"`
	LStatusName        string   `json:"l_status_name,omitempty"`
	Medium             *int     `json:"medium,omitempty"`
	TrackCount         *int     `json:"trackCount,omitempty"`
	Position           *int     `json:"position,omitempty"`
}

// AreaCodes carries the area-only members. They are always present on areas,
// as empty lists when the web service sends none.
type AreaCodes struct {
	Containment []Entity `json:"containment"`
	ISO1        []string `json:"iso_3166_1_codes"`
	ISO2        []string `json:"iso_3166_2_codes"`
	ISO3        []string `json:"iso_3166_3_codes"`
}

// LocalizedName pairs a name with its translated label.
type LocalizedName struct {
	Name  string `json:"name"`
	LName string `json:"l_name"`
}

// CreditedArtist is the artist of one artist credit name.
type CreditedArtist struct {
	GID        string `json:"gid"`
	Name       string `json:"name"`
	SortName   string `json:"sortName"`
	EntityType string `json:"entityType"`
}

// CreditName is one name of an artist credit.
type CreditName struct {
	Artist     CreditedArtist `json:"artist"`
	Name       string         `json:"name"`
	JoinPhrase string         `json:"joinPhrase"`
}

// RoleGroup is one related artist with all the roles it holds, in order of
// appearance.
type RoleGroup struct {
	Entity Entity   `json:"entity"`
	Roles  []string `json:"roles"`
}

// Output is the result of normalizing one entity. Exactly one member is set:
// Entity for the supported kinds, Raw for any other kind, which is passed
// through unchanged.
type Output struct {
	Entity *Entity
	Raw    json.RawMessage
}

// IsPassthrough reports whether the input was not normalized.
func (o Output) IsPassthrough() bool { return o.Entity == nil }

// MarshalJSON emits the normalized entity or the untouched input.
func (o Output) MarshalJSON() ([]byte, error) {
	if o.Entity != nil {
		return json.Marshal(o.Entity)
	}
	if o.Raw == nil {
		return []byte("null"), nil
	}
	return o.Raw, nil
}

// Result is one search hit: the normalized entity and its relevance score.
type Result struct {
	Entity Output `json:"entity"`
	Score  int    `json:"score"`
}
