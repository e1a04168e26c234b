// internal/domain/models/importdraft.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CellRef points at one editable cell of an import draft. Row is 0-based.
type CellRef struct {
	Row   int    `bson:"row" json:"row"`
	Field string `bson:"field" json:"field"`
}

// ImportDraft is the whole import state of one category tab for one
// browser session: the uploaded file name, the parsed rows, their errors
// and the edit cursor. Clearing the draft resets all of it at once.
//
// A draft is keyed by (session_id, course_code, category).
type ImportDraft struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID  string             `bson:"session_id" json:"-"`
	CourseCode string             `bson:"course_code" json:"course_code"`
	Category   ScheduleCategory   `bson:"category" json:"category"`

	FileName   string        `bson:"file_name,omitempty" json:"file_name,omitempty"`
	Rows       []ScheduleRow `bson:"rows" json:"rows"`
	CellErrors CellErrors    `bson:"cell_errors" json:"cell_errors"`
	FileErrors []string      `bson:"file_errors,omitempty" json:"file_errors,omitempty"`
	Editing    *CellRef      `bson:"editing,omitempty" json:"editing,omitempty"`
	Page       int           `bson:"page" json:"page"`

	// LastImported is the count reported by the backend after the last
	// successful submission; the rest of the draft is empty at that point.
	LastImported int `bson:"last_imported,omitempty" json:"last_imported,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasFile reports whether a file has been parsed into the draft.
func (d *ImportDraft) HasFile() bool {
	return d.FileName != ""
}

// Reset discards the file, rows, errors, cursor and page.
func (d *ImportDraft) Reset() {
	d.FileName = ""
	d.Rows = nil
	d.CellErrors = nil
	d.FileErrors = nil
	d.Editing = nil
	d.Page = 0
}

// CanSubmit reports whether the draft holds rows and no outstanding errors.
func (d *ImportDraft) CanSubmit() bool {
	return len(d.Rows) > 0 && len(d.CellErrors) == 0 && len(d.FileErrors) == 0
}
