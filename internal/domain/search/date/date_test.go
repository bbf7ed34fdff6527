package date

import (
	"encoding/json"
	"testing"
)

func intPtr(i int) *int { return &i }

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want string
		zero bool
	}{
		{"1960", "1960", false},
		{"1960-05", "1960-05", false},
		{"1960-05-04", "1960-05-04", false},
		{"????-05-04", "????-05-04", false},
		{"", "", true},
		{"not a date", "", true},
	}
	for _, tt := range tests {
		p := Parse(tt.in)
		if p.IsEmpty() != tt.zero {
			t.Errorf("Parse(%q).IsEmpty() = %v", tt.in, p.IsEmpty())
		}
		if got := p.String(); got != tt.want {
			t.Errorf("Parse(%q).String() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		name string
		p    Partial
		want string
	}{
		{"year padded", Partial{Year: intPtr(960)}, "0960"},
		{"negative year", Partial{Year: intPtr(-50)}, "-0050"},
		{"missing month", Partial{Year: intPtr(1999), Day: intPtr(3)}, "1999-??-03"},
		{"only month", Partial{Month: intPtr(7)}, "????-07"},
		{"empty", Partial{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMarshalJSON(t *testing.T) {
	data, err := json.Marshal(Parse("1960"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"year":1960,"month":null,"day":null,"formatted":"1960"}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}

	var back Partial
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back.String() != "1960" {
		t.Errorf("round trip = %q", back.String())
	}
}

func TestIsLeapYear(t *testing.T) {
	tests := map[int]bool{2000: true, 1900: false, 1996: true, 1999: false, 2400: true, 2100: false}
	for y, want := range tests {
		if got := IsLeapYear(y); got != want {
			t.Errorf("IsLeapYear(%d) = %v", y, got)
		}
	}
}

func TestLastDayOfMonth(t *testing.T) {
	tests := []struct {
		year, month, want int
	}{
		{1980, 1, 31},
		{2000, 2, 29},
		{1900, 2, 28},
		{2023, 4, 30},
		{2023, 13, 0},
	}
	for _, tt := range tests {
		if got := LastDayOfMonth(tt.year, tt.month); got != tt.want {
			t.Errorf("LastDayOfMonth(%d, %d) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestIsValid(t *testing.T) {
	if !IsValid(intPtr(2000), intPtr(2), intPtr(29)) {
		t.Error("2000-02-29 should be valid")
	}
	if IsValid(intPtr(1900), intPtr(2), intPtr(29)) {
		t.Error("1900-02-29 should be invalid")
	}
	if IsValid(intPtr(1980), intPtr(13), nil) {
		t.Error("month 13 should be invalid")
	}
	if !IsValid(intPtr(1980), nil, nil) {
		t.Error("year only should be valid")
	}
}
