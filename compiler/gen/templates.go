package gen

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"
)

var funcMap = template.FuncMap{
	"quote": strconv.Quote,
	"join":  strings.Join,
	"widgets": func() []Widget {
		return []Widget{
			WidgetText, WidgetTextarea, WidgetCheckbox, WidgetNumber,
			WidgetDateTime, WidgetSelect, WidgetHidden, WidgetFile,
		}
	},
}

// loadTemplates parses the builtin form-layer templates and applies any
// overrides found in dir. An override file <name>.tmpl replaces the builtin
// template of the same name.
func loadTemplates(dir string) (*template.Template, error) {
	root := template.New("garden").Funcs(funcMap)
	template.Must(root.New("form").Parse(formTmpl))
	template.Must(root.New("support").Parse(supportTmpl))
	if dir == "" {
		return root, nil
	}
	matches, err := filepath.Glob(filepath.Join(dir, "*.tmpl"))
	if err != nil {
		return nil, NewConfigError("TemplateDir", dir, "invalid template directory")
	}
	for _, match := range matches {
		body, err := os.ReadFile(match)
		if err != nil {
			return nil, fmt.Errorf("garden: read template override %s: %w", match, err)
		}
		name := strings.TrimSuffix(filepath.Base(match), ".tmpl")
		if _, err := root.New(name).Parse(string(body)); err != nil {
			return nil, fmt.Errorf("garden: parse template override %s: %w", match, err)
		}
	}
	return root, nil
}

const formTmpl = `{{- with .Header }}// {{ . }}
{{ end -}}
// Generated by garden. This file is yours to edit; garden will not overwrite it.

package {{ .FormPackageName }}

// {{ .FormName }} edits one {{ .Name }} ({{ .Table.Name }}) row.
var {{ .FormName }} = Form{
	Model:  {{ quote .Name }},
	Table:  {{ quote .Table.Name }},
	Action: {{ quote .Action }},
	Fields: []Field{
{{- range .FormFields }}
		{
			Name:   {{ quote .Column }},
			Label:  {{ quote .Label }},
			Widget: {{ .Widget.Ident }},
{{- if .Required }}
			Required: true,
{{- end }}
{{- if .MaxLength }}
			MaxLength: {{ .MaxLength }},
{{- end }}
{{- if .Options }}
			Options: []string{{ "{" }}{{ range $i, $o := .Options }}{{ if $i }}, {{ end }}{{ quote $o }}{{ end }}{{ "}" }},
{{- end }}
		},
{{- end }}
	},
}
`

const supportTmpl = `{{- with .Header }}// {{ . }}
{{ end -}}
// Generated by garden. This file is yours to edit; garden will not overwrite it.

// Package {{ .FormPackageName }} holds the form definitions generated from
// the database schema, one per non-join table, named after the model types
// they edit.
package {{ .FormPackageName }}

// Widget is the input control a field renders with.
type Widget string

// Widgets the generator maps column types onto.
const (
{{- range widgets }}
	{{ .Ident }} Widget = {{ quote (printf "%s" .) }}
{{- end }}
)

// Field is one form input bound to a database column.
type Field struct {
	Name      string
	Label     string
	Widget    Widget
	Required  bool
	MaxLength int
	Options   []string
}

// Form describes an editable view over one model type.
type Form struct {
	Model  string
	Table  string
	Action string
	Fields []Field
}

// Field returns the field with the given name.
func (f Form) Field(name string) (Field, bool) {
	for _, fld := range f.Fields {
		if fld.Name == name {
			return fld, true
		}
	}
	return Field{}, false
}
`
