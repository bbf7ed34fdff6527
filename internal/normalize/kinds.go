package normalize

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/entitysearch/internal/domain/entity/kind"
)

func (n *Normalizer) area(data *wsEntity) Entity {
	e := base(data, kind.Area)
	e.AreaCodes = &AreaCodes{
		Containment: []Entity{},
		ISO1:        nonNil(data.ISO1),
		ISO2:        nonNil(data.ISO2),
		ISO3:        nonNil(data.ISO3),
	}
	lifeSpan(data, &e)
	n.typeName(data, &e)
	return e
}

func (n *Normalizer) artist(data *wsEntity) Entity {
	e := base(data, kind.Artist)
	lifeSpan(data, &e)
	n.typeName(data, &e)

	// the search server sends gender names in lower case
	if data.Gender != "" {
		g := capitalize(data.Gender)
		e.Gender = &LocalizedName{Name: g, LName: n.loc.L(g)}
	}
	e.Area = n.optionalArea(data.Area)
	e.BeginArea = n.optionalArea(data.BeginArea)
	e.EndArea = n.optionalArea(data.EndArea)
	return e
}

func (n *Normalizer) event(data *wsEntity) Entity {
	e := base(data, kind.Event)
	n.typeName(data, &e)
	e.Places, e.Areas = n.locations(data.Relations)
	lifeSpan(data, &e)
	e.Performers = n.groupRoles(data.Relations, performerRoles)

	// HH:MM:SS, shown without seconds
	if len(data.Time) > 3 {
		e.FormattedTime = data.Time[:len(data.Time)-3]
	}
	e.FormattedDate = eventDate(e.BeginDate, e.EndDate)
	return e
}

func (n *Normalizer) instrument(data *wsEntity) Entity {
	e := base(data, kind.Instrument)
	n.typeName(data, &e)
	if data.Description != "" {
		e.LDescription = n.loc.L(data.Description)
	}
	return e
}

func (n *Normalizer) label(data *wsEntity) Entity {
	e := base(data, kind.Label)
	n.typeName(data, &e)
	lifeSpan(data, &e)
	e.Area = n.optionalArea(data.Area)
	if data.LabelCode != nil {
		e.FormatLabelCode = fmt.Sprintf("LC %d", *data.LabelCode)
	}
	return e
}

func (n *Normalizer) place(data *wsEntity) Entity {
	e := base(data, kind.Place)
	n.typeName(data, &e)
	lifeSpan(data, &e)
	e.Area = n.optionalArea(data.Area)
	e.Address = data.Address
	return e
}

func (n *Normalizer) recording(data *wsEntity) Entity {
	e := base(data, kind.Recording)
	e.Video = data.Video

	if len(data.Releases) > 0 {
		e.Releases = make([]Entity, 0, len(data.Releases))
		for i := range data.Releases {
			r := &data.Releases[i]
			rel := n.release(r)
			if len(r.Media) > 0 {
				m := r.Media[0]
				rel.Medium = intPtr(m.Position)
				rel.TrackCount = intPtr(m.TrackCount)
				if m.TrackOffset != nil {
					rel.Position = intPtr(*m.TrackOffset + 1)
				}
			}
			e.Releases = append(e.Releases, rel)
		}
	}

	if data.Length != nil {
		e.Length = FormatTrackLength(*data.Length)
	}
	return e
}

func (n *Normalizer) release(data *wsEntity) Entity {
	e := base(data, kind.Release)
	n.typeName(data, &e)

	if len(data.Media) > 0 {
		e.CombinedFormatName = n.combinedFormat(data.Media)
		e.CombinedTrackCount = combinedTrackCount(data.Media)
	}

	for _, ev := range data.ReleaseEvents {
		if ev.Date != "" {
			e.Dates = append(e.Dates, ev.Date)
		}
		if ev.Area != nil {
			e.Countries = append(e.Countries, n.area(ev.Area))
		}
	}

	var catNos []string
	for _, info := range data.LabelInfo {
		if info.CatalogNumber != "" {
			catNos = append(catNos, info.CatalogNumber)
		}
		if info.Label != nil {
			e.Labels = append(e.Labels, n.label(info.Label))
		}
	}
	e.CatNos = strings.Join(catNos, ", ")

	e.Barcode = data.Barcode
	if tr := data.TextRepresentation; tr != nil {
		e.Language = tr.Language
		e.Script = tr.Script
	}
	if rg := data.ReleaseGroup; rg != nil {
		e.GroupType = n.groupTypeName(rg.PrimaryType, rg.SecondaryTypes)
	}
	if data.Status != "" {
		e.LStatusName = n.loc.L(data.Status)
	}
	return e
}

func (n *Normalizer) releaseGroup(data *wsEntity) Entity {
	e := base(data, kind.ReleaseGroup)
	e.LTypeName = n.groupTypeName(data.PrimaryType, data.SecondaryTypes)
	return e
}

func (n *Normalizer) series(data *wsEntity) Entity {
	e := base(data, kind.Series)
	n.typeName(data, &e)
	return e
}

func (n *Normalizer) work(data *wsEntity) Entity {
	e := base(data, kind.Work)
	n.typeName(data, &e)
	e.Writers = n.groupRoles(data.Relations, writerRoles)
	e.Languages = strings.Join(data.Languages, ", ")
	return e
}

func (n *Normalizer) optionalArea(data *wsEntity) *Entity {
	if data == nil {
		return nil
	}
	a := n.area(data)
	return &a
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
