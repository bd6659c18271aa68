package server

import (
	"embed"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

// parseTemplates loads the embedded HTML templates.
//
// Design decision: Templates are embedded in the binary so the server has
// no runtime file dependencies and can be deployed as a single executable.
func parseTemplates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"formatTime": formatTime,
	}).ParseFS(templateFS, "templates/*.html")
}

// formatTime renders timestamps without sub-minute noise.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}
