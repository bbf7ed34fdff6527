package date

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/kailas-cloud/entitysearch/internal/domain/search/lucene"
)

var (
	yearDigits = regexp.MustCompile(`^\d{1,4}$`)
	partDigits = regexp.MustCompile(`^\d{1,2}$`)
)

// Side tells which end of a range a bound belongs to.
type Side int

// Range sides.
const (
	From Side = iota
	To
)

// Parts is a date as typed into the three year/month/day inputs.
type Parts struct {
	Year  string `json:"year"`
	Month string `json:"month"`
	Day   string `json:"day"`
}

// Clean trims the parts and clears subordinate parts: a month without a year
// and a day without a month are dropped, as those inputs are disabled.
// ok is false when a present part is not plain digits: up to four for the
// year and two for month and day. Signs are rejected.
func (p Parts) Clean() (Parts, bool) {
	c := Parts{
		Year:  strings.TrimSpace(p.Year),
		Month: strings.TrimSpace(p.Month),
		Day:   strings.TrimSpace(p.Day),
	}
	if c.Year == "" {
		c.Month, c.Day = "", ""
	}
	if c.Month == "" {
		c.Day = ""
	}
	if c.Year != "" && !yearDigits.MatchString(c.Year) {
		return c, false
	}
	for _, s := range []string{c.Month, c.Day} {
		if s != "" && !partDigits.MatchString(s) {
			return c, false
		}
	}
	return c, true
}

// IsEmpty reports whether no part was entered.
func (p Parts) IsEmpty() bool {
	return p.Year == "" && p.Month == "" && p.Day == ""
}

// Bound converts the parts into a range bound.
//
// A from-bound with year and month starts on the first of the month, a
// to-bound ends on the last day of the month; a to-bound with only a year
// ends on December 31st. Empty parts give "" with ok=true (open side).
func (p Parts) Bound(side Side) (string, bool) {
	c, ok := p.Clean()
	if !ok {
		return "", false
	}
	if c.IsEmpty() {
		return "", true
	}

	year, _ := strconv.Atoi(c.Year)
	month := atoiPtr(c.Month)
	day := atoiPtr(c.Day)
	if !IsValid(&year, month, day) {
		return "", false
	}

	switch {
	case month == nil && side == To:
		return fmt.Sprintf("%04d-12-31", year), true
	case month == nil:
		return fmt.Sprintf("%04d", year), true
	case day == nil && side == To:
		return fmt.Sprintf("%04d-%02d-%02d", year, *month, LastDayOfMonth(year, *month)), true
	case day == nil:
		return fmt.Sprintf("%04d-%02d-01", year, *month), true
	default:
		return fmt.Sprintf("%04d-%02d-%02d", year, *month, *day), true
	}
}

// RangeValue renders the bounds as a Lucene range. A missing upper bound is
// written as null and a missing lower bound as *. Both missing yields "".
func RangeValue(from, to string) string {
	switch {
	case from != "" && to != "":
		return lucene.Range(from, to)
	case from != "":
		return lucene.Range(from, "null")
	case to != "":
		return lucene.Range("*", to)
	}
	return ""
}
