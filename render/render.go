// Package render turns panel snapshots into HTML. Every entity field goes
// through html/template, so names and emails are always escaped.
package render

import (
	"bytes"
	"embed"
	"html/template"

	"gestao-alunos-go/panel"
)

//go:embed templates/*.html
var files embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"formatDate":  panel.FormatDate,
	"courseLabel": panel.CourseLabel,
	"options":     newOptionsView,
}).ParseFS(files, "templates/*.html"))

// Templates returns the parsed template set, ready for gin's SetHTMLTemplate
func Templates() *template.Template {
	return templates
}

// Page is the data of the full page
type Page struct {
	panel.Snapshot
	Confirm *Confirm // delete confirmation dialog, nil when hidden
}

// Confirm is the data of the delete confirmation dialog
type Confirm struct {
	StudentID int64
	Prompt    string
}

// OptionsView is a course select: its options and the selected value
type OptionsView struct {
	Options  []panel.SelectOption
	Selected string
}

func newOptionsView(opts []panel.SelectOption, selected string) OptionsView {
	return OptionsView{Options: opts, Selected: selected}
}

// Render executes one named template into a string
func Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
