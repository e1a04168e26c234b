// internal/app/features/jadwal/templates.go
package jadwal

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "jadwal",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
