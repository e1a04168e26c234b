// internal/domain/models/cellerror.go
package models

// CellError is one problem on one field of one row. Row is the 1-based row
// number used in the "Baris N: " message prefix; 0 means the message could
// not be attributed to a row.
type CellError struct {
	Row     int    `bson:"row" json:"row"`
	Field   string `bson:"field" json:"field"`
	Message string `bson:"message" json:"message"`
}

// CellErrors keeps at most one error per (row, field) pair in insertion order.
type CellErrors []CellError

// Set adds e, replacing an existing entry for the same (row, field) in place.
func (ce *CellErrors) Set(e CellError) {
	for i := range *ce {
		if (*ce)[i].Row == e.Row && (*ce)[i].Field == e.Field {
			(*ce)[i] = e
			return
		}
	}
	*ce = append(*ce, e)
}

// Clear removes the entries for row on any of the given fields.
func (ce *CellErrors) Clear(row int, fields ...string) {
	out := (*ce)[:0]
	for _, e := range *ce {
		if e.Row == row && containsString(fields, e.Field) {
			continue
		}
		out = append(out, e)
	}
	*ce = out
}

// Get returns the error for (row, field), if any.
func (ce CellErrors) Get(row int, field string) (CellError, bool) {
	for _, e := range ce {
		if e.Row == row && e.Field == field {
			return e, true
		}
	}
	return CellError{}, false
}

// ForRow returns the errors of one row.
func (ce CellErrors) ForRow(row int) []CellError {
	var out []CellError
	for _, e := range ce {
		if e.Row == row {
			out = append(out, e)
		}
	}
	return out
}

// Messages flattens the errors to their messages.
func (ce CellErrors) Messages() []string {
	out := make([]string, len(ce))
	for i, e := range ce {
		out[i] = e.Message
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
