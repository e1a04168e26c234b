// internal/app/features/jadwal/pagetypes.go
package jadwal

import (
	"github.com/dalemusser/jadwalhub/internal/app/system/paging"
	"github.com/dalemusser/jadwalhub/internal/domain/models"
)

// tabItem is one category tab.
type tabItem struct {
	Category models.ScheduleCategory
	Title    string
	URL      string
	Count    int
	Active   bool
}

// scheduleItem is one persisted schedule as the table shows it.
type scheduleItem struct {
	ID    int64
	Row   models.ScheduleRow
	Cells []string // in column order
}

// formField is one input of the single record form. Key is the form
// field name, which is also the spreadsheet column key.
type formField struct {
	Key   string
	Label string
	List  string // datalist id offering reference values, "" for none
}

// optionLists are the reference values offered as input suggestions.
type optionLists struct {
	Instructors []models.Instructor
	Rooms       []models.Room
	Groups      []models.LargeGroup
	Students    []models.Student
	Slots       []string
}

// pageData is the view model of the schedule page.
type pageData struct {
	Title    string
	Course   models.Course
	Kode     string
	Category models.ScheduleCategory
	Tabs     []tabItem
	TabURL   string

	Query     string
	Schedules []scheduleItem
	Paging    paging.Info
	Columns   []string

	Form    []formField
	Options optionLists

	Draft draftView
}

// rowView is one import preview row with its errors keyed by field.
type rowView struct {
	Index  int                `json:"index"`  // 0-based, the value edit requests carry
	Number int                `json:"number"` // 1-based, as in "Baris N"
	Row    models.ScheduleRow `json:"row"`
	Cells  []cellView         `json:"cells"`
	Errors map[string]string  `json:"errors,omitempty"`
}

// cellView is one preview cell in column order. Field is the key edit
// requests and errors use.
type cellView struct {
	Field string `json:"field"`
	Value string `json:"value"`
	Error string `json:"error,omitempty"`
}

// draftView is the import state of one tab as the preview shows it. Rows
// holds the current page only; CellErrors holds every error.
type draftView struct {
	Category      models.ScheduleCategory `json:"category"`
	FileName      string                  `json:"file_name,omitempty"`
	HasFile       bool                    `json:"has_file"`
	Fields        []string                `json:"fields"`
	Columns       []string                `json:"columns"`
	Rows          []rowView               `json:"rows"`
	Paging        paging.Info             `json:"paging"`
	CellErrors    models.CellErrors       `json:"cell_errors"`
	FileErrors    []string                `json:"file_errors,omitempty"`
	GeneralErrors []string                `json:"general_errors,omitempty"`
	Editing       *models.CellRef         `json:"editing,omitempty"`
	CanSubmit     bool                    `json:"can_submit"`
	LastImported  int                     `json:"last_imported,omitempty"`
}

// draftResponse is the body of every import endpoint.
type draftResponse struct {
	Message string    `json:"message,omitempty"`
	Error   string    `json:"error,omitempty"`
	Draft   draftView `json:"draft"`
}

// formErrorResponse is the body of a rejected create or update.
type formErrorResponse struct {
	Error   string            `json:"error"`
	Details []string          `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// bulkFailure is one id a bulk delete could not remove.
type bulkFailure struct {
	ID    int64  `json:"id"`
	Error string `json:"error"`
}

// bulkDeleteResponse reports every id of a bulk delete.
type bulkDeleteResponse struct {
	Message string        `json:"message"`
	Deleted []int64       `json:"deleted"`
	Failed  []bulkFailure `json:"failed,omitempty"`
}
