// internal/app/system/normalize/normalize.go
package normalize

import (
	"strconv"
	"strings"
)

// Name trims s and collapses inner runs of whitespace to one space.
// Case is preserved.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// QueryParam trims a query or form value.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// IDs parses positive schedule ids from form values. Values may hold
// several ids separated by commas. Duplicates are dropped with the first
// occurrence kept; values that are not positive integers are returned in
// bad.
func IDs(vals []string) (ids []int64, bad []string) {
	seen := make(map[int64]bool, len(vals))
	for _, v := range vals {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil || id <= 0 {
				bad = append(bad, part)
				continue
			}
			if seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, bad
}
