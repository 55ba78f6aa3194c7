// Package templates holds the HTML pages rendered by the social login
// handlers.
package templates

import (
	"embed"
	"html/template"

	"github.com/Masterminds/sprig/v3"
)

const (
	Error    = "error.html"
	Setup    = "setup.html"
	Inactive = "inactive.html"
)

//go:embed html/*.html
var files embed.FS

// Load parses the embedded pages with the sprig function set.
func Load() (*template.Template, error) {
	return template.New("").
		Funcs(sprig.HtmlFuncMap()).
		ParseFS(files, "html/*.html")
}

// ErrorView is the data for Error.
type ErrorView struct {
	Status  int
	Message string
}

// SetupView is the data for Setup.
type SetupView struct {
	Action  string
	Fields  []string
	Values  map[string]string
	Errors  map[string]string
	Message string
	Context map[string]any
}

// InactiveView is the data for Inactive.
type InactiveView struct {
	Username string
}
