package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/entitysearch/internal/domain/entity/kind"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/date"
)

// Relationship types grouped into writers and performers.
var (
	writerRoles = []string{
		"composer", "revised by", "previous attribution", "orchestrator", "writer",
		"arranger", "lyricist", "librettist", "translator",
	}
	performerRoles = []string{
		"main performer", "conductor", "orchestra", "support act", "guest performer",
		"host", "teacher",
	}
)

const (
	relHeldAt = "held at"
	relHeldIn = "held in"

	unknownFormat = "(unknown)"
)

// base fills the members shared by every kind.
func base(data *wsEntity, k kind.Kind) Entity {
	e := Entity{
		GID:             data.ID,
		Name:            data.Name,
		Comment:         data.Disambiguation,
		EntityType:      string(k),
		EntityTypeCamel: string(k),
	}
	if e.Name == "" {
		e.Name = data.Title
	}
	if data.SortName != "" {
		e.SortName = data.SortName
		e.SortNameSnake = data.SortName
	}
	if len(data.ArtistCredit) > 0 {
		credit := cleanArtistCredit(data.ArtistCredit)
		e.ArtistCredit = credit
		e.ArtistCreditSnake = credit
	}
	return e
}

func cleanArtistCredit(names []wsCredit) []CreditName {
	out := make([]CreditName, 0, len(names))
	for _, c := range names {
		var a CreditedArtist
		if c.Artist != nil {
			a = CreditedArtist{
				GID:        c.Artist.ID,
				Name:       c.Artist.Name,
				SortName:   c.Artist.SortName,
				EntityType: string(kind.Artist),
			}
		}
		name := c.Name
		if name == "" {
			name = a.Name
		}
		out = append(out, CreditName{Artist: a, Name: name, JoinPhrase: c.JoinPhrase})
	}
	return out
}

func lifeSpan(data *wsEntity, e *Entity) {
	ls := data.LifeSpan
	if ls == nil {
		return
	}
	begin := date.Parse(ls.Begin)
	end := date.Parse(ls.End)
	ended := ls.Ended
	e.BeginDate = &begin
	e.EndDate = &end
	e.Ended = &ended
}

func (n *Normalizer) typeName(data *wsEntity, e *Entity) {
	if data.Type == "" {
		return
	}
	l := n.loc.L(data.Type)
	e.Type = &LocalizedName{Name: data.Type, LName: l}
	e.LTypeName = l
}

// groupRoles keeps relations whose type is in roles and merges the roles of
// the same artist into one entry, in order of first appearance.
func (n *Normalizer) groupRoles(rels []wsRelation, roles []string) []RoleGroup {
	var groups []RoleGroup
	index := make(map[string]int)
	for _, r := range rels {
		if r.Artist == nil || !contains(roles, r.Type) {
			continue
		}
		role := n.loc.L(capitalize(r.Type))
		if i, ok := index[r.Artist.ID]; ok {
			groups[i].Roles = append(groups[i].Roles, role)
			continue
		}
		index[r.Artist.ID] = len(groups)
		groups = append(groups, RoleGroup{Entity: n.artist(r.Artist), Roles: []string{role}})
	}
	return groups
}

// locations splits "held at" places from "held in" areas.
func (n *Normalizer) locations(rels []wsRelation) (places, areas []Entity) {
	for _, r := range rels {
		switch {
		case r.Type == relHeldAt && r.Place != nil:
			places = append(places, n.place(r.Place))
		case r.Type == relHeldIn && r.Area != nil:
			areas = append(areas, n.area(r.Area))
		}
	}
	return places, areas
}

// groupTypeName joins the primary type and the translated secondary types
// with " + ".
func (n *Normalizer) groupTypeName(primary string, secondary []string) string {
	parts := make([]string, 0, 1+len(secondary))
	if primary != "" {
		parts = append(parts, primary)
	}
	for _, s := range secondary {
		parts = append(parts, n.loc.L(s))
	}
	return strings.Join(parts, " + ")
}

// combinedFormat renders medium formats as "2×CD, DVD" in order of first
// appearance. Mediums without a format count as "(unknown)".
func (n *Normalizer) combinedFormat(media []wsMedium) string {
	var order []string
	counts := make(map[string]int)
	for _, m := range media {
		f := m.Format
		if f == "" {
			f = unknownFormat
		}
		if counts[f] == 0 {
			order = append(order, f)
		}
		counts[f]++
	}
	parts := make([]string, 0, len(order))
	for _, f := range order {
		label := n.loc.L(f)
		if counts[f] > 1 {
			label = strconv.Itoa(counts[f]) + "×" + label
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, ", ")
}

func combinedTrackCount(media []wsMedium) string {
	parts := make([]string, len(media))
	for i, m := range media {
		parts[i] = strconv.Itoa(m.TrackCount)
	}
	return strings.Join(parts, " + ")
}

// eventDate combines the formatted begin and end dates.
func eventDate(begin, end *date.Partial) string {
	var b, e string
	if begin != nil {
		b = begin.String()
	}
	if end != nil {
		e = end.String()
	}
	switch {
	case b != "" && e != "" && b != e:
		return b + " - " + e
	case b != "":
		return b
	}
	return e
}

// FormatTrackLength renders milliseconds as m:ss or h:mm:ss, or "N ms"
// below one second. Zero gives "".
func FormatTrackLength(ms int64) string {
	if ms <= 0 {
		return ""
	}
	if ms < 1000 {
		return fmt.Sprintf("%d ms", ms)
	}
	seconds := (ms + 500) / 1000
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	seconds %= 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func intPtr(i int) *int { return &i }
