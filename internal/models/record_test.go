package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want decimal.Decimal
	}{
		{"plain integer", "1500", decimal.NewFromInt(1500)},
		{"fractional", "99.50", decimal.RequireFromString("99.50")},
		{"surrounding whitespace", "  250 ", decimal.NewFromInt(250)},
		{"thousands separator", "1,50,000", decimal.NewFromInt(150000)},
		{"empty cell", "", decimal.Zero},
		{"whitespace only", "   ", decimal.Zero},
		{"malformed", "abc", decimal.Zero},
		{"negative", "-300", decimal.NewFromInt(-300)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseAmount(tc.in)
			if !got.Equal(tc.want) {
				t.Errorf("ParseAmount(%q) = %s, want %s", tc.in, got, tc.want)
			}
		})
	}
}

func TestValidDate(t *testing.T) {
	valid := []string{"2024-01-01", "2023-12-31", "2024-02-29"}
	for _, d := range valid {
		if !ValidDate(d) {
			t.Errorf("ValidDate(%q) = false, want true", d)
		}
	}
	invalid := []string{"", "2024-1-1", "01-01-2024", "2023-02-29", "2024-01-01T00:00:00Z", "yesterday"}
	for _, d := range invalid {
		if ValidDate(d) {
			t.Errorf("ValidDate(%q) = true, want false", d)
		}
	}
}

func TestAdvanceAmount_NilAdvance(t *testing.T) {
	rec := &DailyRecord{Date: "2024-01-01"}
	if !rec.AdvanceAmount().IsZero() {
		t.Errorf("AdvanceAmount() = %s, want 0", rec.AdvanceAmount())
	}

	rec.Advance = &AdvanceRecord{Amount: decimal.NewFromInt(50)}
	if !rec.AdvanceAmount().Equal(decimal.NewFromInt(50)) {
		t.Errorf("AdvanceAmount() = %s, want 50", rec.AdvanceAmount())
	}
}
