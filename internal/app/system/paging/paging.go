// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// PageSize is the number of rows shown per page of the import preview and
// of the schedule tables.
const PageSize = 10

// ParsePage extracts the 1-based "page" query parameter.
// Returns 1 if not present or invalid.
func ParsePage(r *http.Request) int {
	s := query.Get(r, "page")
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Info describes one page of a list for rendering.
type Info struct {
	Page    int  `json:"page"`  // 1-based, clamped to [1, Pages]
	Pages   int  `json:"pages"` // at least 1
	Total   int  `json:"total"`
	Start   int  `json:"start"` // 1-based index of the first row shown, 0 if none
	End     int  `json:"end"`   // 1-based index of the last row shown, 0 if none
	HasPrev bool `json:"has_prev"`
	HasNext bool `json:"has_next"`
}

// Offset is the 0-based index of the first row on the page.
func (i Info) Offset() int {
	if i.Start == 0 {
		return 0
	}
	return i.Start - 1
}

// Prev and Next are the neighbouring page numbers for pager links.
func (i Info) Prev() int { return i.Page - 1 }
func (i Info) Next() int { return i.Page + 1 }

// Slice returns the window of items for page (1-based) and the page info.
// Out-of-range pages are clamped, so a page left over from a longer list
// shows the last page instead of nothing.
func Slice[T any](items []T, page int) ([]T, Info) {
	return sliceWithSize(items, page, PageSize)
}

func sliceWithSize[T any](items []T, page, size int) ([]T, Info) {
	total := len(items)
	pages := (total + size - 1) / size
	if pages < 1 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	info := Info{Page: page, Pages: pages, Total: total, HasPrev: page > 1, HasNext: page < pages}
	if total == 0 {
		return nil, info
	}
	lo := (page - 1) * size
	hi := lo + size
	if hi > total {
		hi = total
	}
	info.Start, info.End = lo+1, hi
	return items[lo:hi], info
}

// PageOf returns the 1-based page that contains the 0-based index idx.
func PageOf(idx int) int {
	if idx < 0 {
		return 1
	}
	return idx/PageSize + 1
}
