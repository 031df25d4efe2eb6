package gen

import (
	"github.com/syssam/garden/schema"
)

// Widget is the form control kind a column maps to.
type Widget string

// The fixed form field map. Every column kind resolves to exactly one
// widget; unknown kinds degrade to a plain text input.
const (
	WidgetText     Widget = "text"
	WidgetTextarea Widget = "textarea"
	WidgetCheckbox Widget = "checkbox"
	WidgetNumber   Widget = "number"
	WidgetDateTime Widget = "datetime"
	WidgetSelect   Widget = "select"
	WidgetHidden   Widget = "hidden"
	WidgetFile     Widget = "file"
)

var widgetByKind = map[schema.Kind]Widget{
	schema.KindBool:    WidgetCheckbox,
	schema.KindInt:     WidgetNumber,
	schema.KindInt64:   WidgetNumber,
	schema.KindFloat:   WidgetNumber,
	schema.KindDecimal: WidgetNumber,
	schema.KindString:  WidgetText,
	schema.KindText:    WidgetTextarea,
	schema.KindTime:    WidgetDateTime,
	schema.KindUUID:    WidgetHidden,
	schema.KindBytes:   WidgetFile,
	schema.KindEnum:    WidgetSelect,
	schema.KindJSON:    WidgetTextarea,
}

// WidgetFor resolves a column kind through the form field map.
func WidgetFor(kind schema.Kind) Widget {
	if w, ok := widgetByKind[kind]; ok {
		return w
	}
	return WidgetText
}

// Ident is the constant name the generated forms package declares for the
// widget (text -> WidgetText).
func (w Widget) Ident() string {
	return "Widget" + pascal(string(w))
}

// FormField is one entry of a generated form definition.
type FormField struct {
	// Column is the database column name, used as the input name.
	Column string
	// Label is the human-readable label derived from the column name.
	Label string
	// Widget is the control kind resolved through the form field map.
	Widget Widget
	// Required mirrors NOT NULL columns without a default.
	Required bool
	// Options holds the choices of select widgets.
	Options []string
	// MaxLength carries the declared size of bounded string columns.
	MaxLength int
}

// FormFields derives the form definition of the type from its columns.
// Auto-increment and single-column primary keys are skipped: the form edits
// row data, the key identifies the row.
func (t *Type) FormFields() []*FormField {
	fields := make([]*FormField, 0, len(t.Fields))
	for _, f := range t.Fields {
		col := f.Column
		if col.AutoIncrement || (col.PrimaryKey && len(t.Table.PrimaryKey) == 1) {
			continue
		}
		ff := &FormField{
			Column:    col.Name,
			Label:     label(col.Name),
			Widget:    WidgetFor(col.Type.Kind),
			Required:  !col.Nullable && col.Default == nil,
			Options:   col.Type.Enums,
			MaxLength: col.Type.Size,
		}
		fields = append(fields, ff)
	}
	return fields
}
