package schedimport

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/jadwalhub/internal/app/system/timeslot"
	"github.com/xuri/excelize/v2"
)

// Date serials outside this range are treated as text; it spans 1954 to
// 2119 and keeps plain numbers like years from being read as dates.
const (
	minDateSerial = 20000
	maxDateSerial = 80000
)

// Day-first layouts; Indonesian spreadsheets write 15/01/2024.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2/1/2006",
	"02/01/2006",
	"2-1-2006",
	"02-01-2006",
	"2.1.2006",
	"2 January 2006",
	"2 Jan 2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

var monthNames = strings.NewReplacer(
	"Januari", "January",
	"Februari", "February",
	"Maret", "March",
	"Mei", "May",
	"Juni", "June",
	"Juli", "July",
	"Agustus", "August",
	"Oktober", "October",
	"Desember", "December",
	"Agu", "Aug",
	"Okt", "Oct",
	"Des", "Dec",
)

// NormalizeDate converts a date cell to YYYY-MM-DD. Values that cannot be
// read are returned as typed so the validator reports them.
func NormalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		if serial >= minDateSerial && serial <= maxDateSerial {
			if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
				return t.Format("2006-01-02")
			}
		}
		return raw
	}
	text := monthNames.Replace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return raw
}

// NormalizeTime converts a time cell to HH:MM. Raw spreadsheet values come
// in three numeric shapes: a fraction of a day (0.3055… for 07:20), a
// decimal the author typed as H.MM and the sheet stored as a number (7.2),
// and a full date-time serial whose fractional part is the time. Text in
// H.MM or H:MM form is zero-padded.
func NormalizeTime(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || timeslot.IsClock(raw) {
		return timeslot.Normalize(raw)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && f >= 0 {
		whole, frac := math.Modf(f)
		switch {
		case f < 1:
			if hhmm, ok := timeslot.FromDayFraction(f); ok {
				return hhmm
			}
		case f < 24:
			m := int(math.Round(frac * 100))
			if m < 60 {
				return fmt.Sprintf("%02d:%02d", int(whole), m)
			}
		case f >= minDateSerial:
			if hhmm, ok := timeslot.FromDayFraction(frac); ok {
				return hhmm
			}
		}
		return raw
	}
	// "07:20:00" as written by some exporters.
	if len(raw) == 8 && raw[2] == ':' && raw[5] == ':' {
		return timeslot.Normalize(raw[:5])
	}
	return raw
}

// ParseSessions reads the Sesi cell. An empty cell yields 0; text that is
// not a whole number yields timeslot.InvalidSessions.
func ParseSessions(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && f == math.Trunc(f) {
		return int(f)
	}
	return timeslot.InvalidSessions
}
