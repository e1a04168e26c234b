// internal/app/system/limits/limits.go
package limits

// Request body size and row limits of the schedule page.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxUploadSize is the maximum size of an uploaded workbook.
	MaxUploadSize = 10 << 20 // 10 MB

	// MaxImportRows is the maximum number of data rows one upload may
	// carry. Every row is validated against every other for clashes.
	MaxImportRows = 2000

	// MaxFormSize is the maximum size of the single record and bulk
	// delete form submissions.
	MaxFormSize = 1 << 20 // 1 MB

	// MaxEditBody is the maximum size of one inline cell edit.
	MaxEditBody = 64 << 10 // 64 KB
)
