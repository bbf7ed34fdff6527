// Package date handles the partial dates used by the catalog (year, year-month
// or full dates) both as display values and as search range bounds.
package date

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Partial is a date where any component may be unknown.
type Partial struct {
	Year  *int
	Month *int
	Day   *int
}

var partialRe = regexp.MustCompile(`^(\d{1,4}|\?{4})?(?:-(\d{1,2}|\?{2}))?(?:-(\d{1,2}|\?{2}))?$`)

// Parse reads a web service date string ("1960", "1960-05", "1960-05-04").
// Unparseable input yields an empty Partial.
func Parse(s string) Partial {
	m := partialRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Partial{}
	}
	return Partial{Year: atoiPtr(m[1]), Month: atoiPtr(m[2]), Day: atoiPtr(m[3])}
}

func atoiPtr(s string) *int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// IsEmpty reports whether no component is known.
func (p Partial) IsEmpty() bool {
	return p.Year == nil && p.Month == nil && p.Day == nil
}

// String formats the date for display: YYYY, YYYY-MM or YYYY-MM-DD.
// Unknown leading parts are shown as question marks.
func (p Partial) String() string {
	var b strings.Builder
	switch {
	case p.Year != nil:
		y := *p.Year
		if y < 0 {
			b.WriteByte('-')
			y = -y
		}
		fmt.Fprintf(&b, "%04d", y)
	case p.Month != nil || p.Day != nil:
		b.WriteString("????")
	}
	switch {
	case p.Month != nil:
		fmt.Fprintf(&b, "-%02d", *p.Month)
	case p.Day != nil:
		b.WriteString("-??")
	}
	if p.Day != nil {
		fmt.Fprintf(&b, "-%02d", *p.Day)
	}
	return b.String()
}

type partialJSON struct {
	Year      *int   `json:"year"`
	Month     *int   `json:"month"`
	Day       *int   `json:"day"`
	Formatted string `json:"formatted"`
}

// MarshalJSON emits the components together with their display string.
func (p Partial) MarshalJSON() ([]byte, error) {
	return json.Marshal(partialJSON{Year: p.Year, Month: p.Month, Day: p.Day, Formatted: p.String()})
}

// UnmarshalJSON accepts the shape produced by MarshalJSON.
func (p *Partial) UnmarshalJSON(data []byte) error {
	var v partialJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Partial{Year: v.Year, Month: v.Month, Day: v.Day}
	return nil
}

// IsLeapYear applies the Gregorian rule.
func IsLeapYear(year int) bool {
	switch {
	case year%400 == 0:
		return true
	case year%100 == 0:
		return false
	default:
		return year%4 == 0
	}
}

var daysInMonth = [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// LastDayOfMonth returns the number of days in month (1-12) of year.
func LastDayOfMonth(year, month int) int {
	if month < 1 || month > 12 {
		return 0
	}
	if month == 2 && IsLeapYear(year) {
		return 29
	}
	return daysInMonth[month]
}

// IsValid checks month and day ranges. Missing parts are always valid.
func IsValid(year, month, day *int) bool {
	if month != nil && (*month < 1 || *month > 12) {
		return false
	}
	if day == nil {
		return true
	}
	if *day < 1 {
		return false
	}
	if month == nil {
		return *day <= 31
	}
	y := 2000 // leap when unknown
	if year != nil {
		y = *year
	}
	return *day <= LastDayOfMonth(y, *month)
}
