package gen

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/garden/schema"
)

// editNotice is placed at the top of every generated file. Output is a
// starting point, not a build artifact: files are written once and never
// overwritten, so hand edits are expected.
const editNotice = "Generated by garden. This file is yours to edit; garden will not overwrite it."

// ModelFile renders the model source file for the type: the table constant,
// the column list, the struct, and the TableName method that wires the
// struct back to its table by convention.
func (t *Type) ModelFile() *jen.File {
	f := jen.NewFilePathName(t.Package, t.PackageName())
	if t.Header != "" {
		f.HeaderComment(t.Header)
	}
	f.HeaderComment(editNotice)

	f.Commentf("%sTable is the table %s was generated from.", t.Name, t.Name)
	f.Const().Id(t.Name + "Table").Op("=").Lit(t.Table.Name)
	f.Line()

	f.Commentf("Column names of %s, as declared in the database.", t.Table.Name)
	f.Const().DefsFunc(func(g *jen.Group) {
		for _, field := range t.Fields {
			g.Id(t.Name + "Column" + field.Name).Op("=").Lit(field.Column.Name)
		}
	})
	f.Line()

	f.Commentf("%sColumns holds the column names of %s in declaration order.", t.Name, t.Name)
	f.Var().Id(t.Name + "Columns").Op("=").Index().String().ValuesFunc(func(g *jen.Group) {
		for _, field := range t.Fields {
			g.Line().Lit(field.Column.Name)
		}
		g.Line()
	})
	f.Line()

	t.structDecl(f)

	f.Commentf("TableName returns the database table backing %s.", t.Name)
	f.Func().Params(jen.Id(t.Name)).Id("TableName").Params().String().Block(
		jen.Return(jen.Id(t.Name + "Table")),
	)
	return f
}

func (t *Type) structDecl(f *jen.File) {
	comment := t.Table.Comment
	if comment == "" {
		comment = "one row of " + t.Table.Name + "."
	}
	f.Commentf("%s is %s", t.Name, comment)
	f.Type().Id(t.Name).StructFunc(func(g *jen.Group) {
		for _, field := range t.Fields {
			stmt := g.Id(field.Name).Add(field.goType())
			tags := map[string]string{
				"db":   field.Column.Name,
				"json": field.jsonTag(),
			}
			stmt.Tag(tags)
			if field.Column.Comment != "" {
				stmt.Comment(field.Column.Comment)
			}
		}
	})
	f.Line()
}

// goType maps the column kind to the Go type of the struct field. Nullable
// columns become pointers, except kinds that are already nil-able slices.
func (f *Field) goType() jen.Code {
	var base *jen.Statement
	kind := f.Column.Type.Kind
	switch kind {
	case schema.KindBool:
		base = jen.Bool()
	case schema.KindInt:
		if f.Column.Type.Unsigned {
			base = jen.Uint()
		} else {
			base = jen.Int()
		}
	case schema.KindInt64:
		if f.Column.Type.Unsigned {
			base = jen.Uint64()
		} else {
			base = jen.Int64()
		}
	case schema.KindFloat, schema.KindDecimal:
		base = jen.Float64()
	case schema.KindTime:
		base = jen.Qual("time", "Time")
	case schema.KindUUID:
		base = jen.Qual("github.com/google/uuid", "UUID")
	case schema.KindBytes:
		return jen.Index().Byte()
	case schema.KindJSON:
		return jen.Qual("encoding/json", "RawMessage")
	default:
		// string, text, enum, and anything unrecognized.
		base = jen.String()
	}
	if f.Column.Nullable {
		return jen.Op("*").Add(base)
	}
	return base
}

// jsonTag is the snake_case column name, with omitempty for nullables.
func (f *Field) jsonTag() string {
	if f.Column.Nullable {
		return f.Column.Name + ",omitempty"
	}
	return f.Column.Name
}
