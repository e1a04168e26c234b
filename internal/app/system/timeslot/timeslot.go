// Package timeslot holds the clock arithmetic for schedule rows.
//
// One session (sesi) is 50 minutes. End times are never typed by users;
// every jam_selesai in the system comes from DeriveEndTime so the
// 50-minutes-per-session rule holds for every persisted row.
package timeslot

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// SessionMinutes is the length of one sesi.
const SessionMinutes = 50

// MinSessions and MaxSessions bound jumlah_sesi.
const (
	MinSessions = 1
	MaxSessions = 6
)

// InvalidSessions marks a jumlah_sesi cell that was filled with something
// other than a whole number. Zero stays reserved for an empty cell.
const InvalidSessions = -1

var clockRe = regexp.MustCompile(`^(\d{1,2})[.:](\d{2})$`)

// ParseClock reads "H:MM", "HH:MM", "H.MM" or "HH.MM".
func ParseClock(s string) (hour, minute int, ok bool) {
	m := clockRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0, false
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

// IsClock reports whether s has the accepted clock shape.
func IsClock(s string) bool {
	_, _, ok := ParseClock(s)
	return ok
}

// Normalize converts an accepted clock string to "HH:MM". Input that does
// not parse is returned trimmed and unchanged so the validator can report it.
func Normalize(s string) string {
	h, m, ok := ParseClock(s)
	if !ok {
		return strings.TrimSpace(s)
	}
	return fmt.Sprintf("%02d:%02d", h, m)
}

// Key is the separator-independent form used to compare a start time with
// the backend's slot list ("07.20" and "7:20" share a key).
func Key(s string) string {
	h, m, ok := ParseClock(s)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%02d.%02d", h, m)
}

// FromDayFraction converts a spreadsheet time value (fraction of a day,
// e.g. 0.3055… for 07:20) to "HH:MM".
func FromDayFraction(f float64) (string, bool) {
	if f < 0 || f >= 1 {
		return "", false
	}
	total := int(f*24*60 + 0.5)
	if total >= 24*60 {
		total -= 24 * 60
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60), true
}

// DeriveEndTime returns start + sessions*50 minutes as "HH.MM". The result
// wraps past midnight without tracking a date change. Unparseable input
// yields "", as does a negative session count.
func DeriveEndTime(start string, sessions int) string {
	h, m, ok := ParseClock(start)
	if !ok || sessions < 0 {
		return ""
	}
	total := h*60 + m + sessions*SessionMinutes
	total = ((total % (24 * 60)) + 24*60) % (24 * 60)
	return fmt.Sprintf("%02d.%02d", total/60, total%60)
}

// InSlots reports whether start matches one of the backend slots, ignoring
// the separator. It returns the slot spelled the way the backend sent it.
func InSlots(start string, slots []string) (string, bool) {
	k := Key(start)
	if k == "" {
		return "", false
	}
	for _, s := range slots {
		if Key(s) == k {
			return s, true
		}
	}
	return "", false
}
