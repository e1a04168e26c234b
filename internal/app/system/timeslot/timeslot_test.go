package timeslot

import (
	"fmt"
	"regexp"
	"testing"
)

func TestDeriveEndTime(t *testing.T) {
	tests := []struct {
		start    string
		sessions int
		want     string
	}{
		{"07.20", 2, "09.00"},
		{"07:20", 2, "09.00"},
		{"7.20", 1, "08.10"},
		{"7:05", 6, "12.05"},
		{"13.00", 3, "15.30"},
		{"23.30", 2, "01.10"}, // wraps past midnight, no date rollover
		{"", 2, ""},
		{"abc", 2, ""},
		{"25.00", 1, ""},
		{"07.75", 1, ""},
		{"08.00", InvalidSessions, ""},
	}

	for _, tt := range tests {
		t.Run(tt.start, func(t *testing.T) {
			got := DeriveEndTime(tt.start, tt.sessions)
			if got != tt.want {
				t.Errorf("DeriveEndTime(%q, %d) = %q, want %q", tt.start, tt.sessions, got, tt.want)
			}
		})
	}
}

func TestDeriveEndTime_TotalForValidInput(t *testing.T) {
	shape := regexp.MustCompile(`^\d{2}\.\d{2}$`)
	for h := 0; h < 24; h++ {
		for m := 0; m < 60; m += 5 {
			for s := MinSessions; s <= MaxSessions; s++ {
				for _, sep := range []string{".", ":"} {
					start := pad(h) + sep + pad(m)
					got := DeriveEndTime(start, s)
					if !shape.MatchString(got) {
						t.Fatalf("DeriveEndTime(%q, %d) = %q, not HH.MM", start, s, got)
					}
				}
			}
		}
	}
}

func pad(n int) string {
	return fmt.Sprintf("%02d", n)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"07.20", "07:20"},
		{"7.20", "07:20"},
		{"7:20", "07:20"},
		{" 13:00 ", "13:00"},
		{"1320", "1320"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.input); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestInSlots(t *testing.T) {
	slots := []string{"07.20", "08.10", "09.00"}

	got, ok := InSlots("7:20", slots)
	if !ok || got != "07.20" {
		t.Errorf("InSlots(7:20) = %q, %v; want 07.20, true", got, ok)
	}
	if _, ok := InSlots("07.30", slots); ok {
		t.Error("07.30 should not be in slots")
	}
	if _, ok := InSlots("bad", slots); ok {
		t.Error("unparseable time should not be in slots")
	}
}

func TestFromDayFraction(t *testing.T) {
	got, ok := FromDayFraction(440.0 / 1440.0)
	if !ok || got != "07:20" {
		t.Errorf("FromDayFraction(07:20) = %q, %v", got, ok)
	}
	if _, ok := FromDayFraction(1.5); ok {
		t.Error("expected fractions >= 1 to be rejected")
	}
}
