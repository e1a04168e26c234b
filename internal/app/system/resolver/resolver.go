// Package resolver maps free-text references typed into a spreadsheet or a
// form (a dosen name, a room, a student NIM) to an entry of a reference list.
//
// Matching is case-insensitive and tried in a fixed order; the first
// strategy that finds an entry wins:
//
//  1. exact primary name
//  2. exact "name (code)"
//  3. exact code (NID, NIM, group id)
//  4. query contained in the primary name (relaxed mode only)
//
// There is no typo tolerance. A miss is reported as ok=false and callers
// must surface it as a validation error rather than pick a default.
//
// The resolver only resolves single names. Splitting a cell that lists
// several people happens in Split before resolution.
package resolver

import "strings"

// Entry is anything with a display name and an optional secondary code.
type Entry interface {
	PrimaryName() string
	Code() string
}

// Resolve runs all four strategies, including the substring fallback used
// for materi/agenda rooms and dosen where titles are often abbreviated.
func Resolve[T Entry](query string, list []T) (T, bool) {
	return resolve(query, list, true)
}

// ResolveExact runs strategies 1–3 only.
func ResolveExact[T Entry](query string, list []T) (T, bool) {
	return resolve(query, list, false)
}

func resolve[T Entry](query string, list []T, relaxed bool) (T, bool) {
	var zero T
	q := fold(query)
	if q == "" {
		return zero, false
	}

	for _, e := range list {
		if fold(e.PrimaryName()) == q {
			return e, true
		}
	}
	for _, e := range list {
		if e.Code() == "" {
			continue
		}
		if fold(e.PrimaryName()+" ("+e.Code()+")") == q {
			return e, true
		}
	}
	for _, e := range list {
		if c := fold(e.Code()); c != "" && c == q {
			return e, true
		}
	}
	if relaxed {
		for _, e := range list {
			if strings.Contains(fold(e.PrimaryName()), q) {
				return e, true
			}
		}
	}
	return zero, false
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Delimiters used inside one spreadsheet cell. Reviewer lists use a
// backslash because academic titles contain commas ("Dr. A, M.Kes").
const (
	ReviewerSep = `\`
	StudentSep  = ","
	AdvisorSep  = ","
)

// Split cuts raw on sep, trims every token and drops empty ones.
func Split(raw, sep string) []string {
	var out []string
	for _, part := range strings.Split(raw, sep) {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
