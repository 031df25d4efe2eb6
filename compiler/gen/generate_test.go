package gen

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/garden/schema"
)

func TestGenerate(t *testing.T) {
	c := testConfig(t)
	report, err := Generate(context.Background(), c, sampleDatabase())
	require.NoError(t, err)

	assert.Equal(t, 3, report.Models)
	assert.Equal(t, 2, report.Forms, "join table gets no form")
	// 3 models + forms.go + 2 forms.
	assert.Equal(t, 6, report.Written)
	assert.Equal(t, 0, report.Skipped)
	assert.NotEmpty(t, report.RunID)
	assert.Nil(t, report.SchemaDiff, "first run has nothing to diff against")

	for _, name := range []string{
		"user.go", "post.go", "group_user.go",
		filepath.Join("forms", "forms.go"),
		filepath.Join("forms", "user_form.go"),
		filepath.Join("forms", "post_form.go"),
	} {
		_, err := os.Stat(filepath.Join(c.Target, name))
		assert.NoError(t, err, name)
	}
	_, err = os.Stat(filepath.Join(c.Target, "forms", "group_user_form.go"))
	assert.True(t, os.IsNotExist(err), "no form for join tables")

	snap, err := LoadSnapshot(c.Target)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, report.RunID, snap.RunID)
}

func TestGenerateFormContent(t *testing.T) {
	c := testConfig(t)
	_, err := Generate(context.Background(), c, sampleDatabase())
	require.NoError(t, err)

	form, err := os.ReadFile(filepath.Join(c.Target, "forms", "user_form.go"))
	require.NoError(t, err)
	src := string(form)
	assert.Contains(t, src, "package forms")
	assert.Contains(t, src, "var UserForm = Form{")
	assert.Contains(t, src, `Model:  "User"`)
	assert.Contains(t, src, `Table:  "users"`)
	assert.Contains(t, src, `Action: "/users"`)
	assert.Contains(t, src, "WidgetTextarea")
	assert.NotContains(t, src, `"id"`, "primary key stays out of the form")

	support, err := os.ReadFile(filepath.Join(c.Target, "forms", "forms.go"))
	require.NoError(t, err)
	assert.Contains(t, string(support), "type Form struct")
	assert.Contains(t, string(support), `WidgetCheckbox Widget = "checkbox"`)

	post, err := os.ReadFile(filepath.Join(c.Target, "forms", "post_form.go"))
	require.NoError(t, err)
	assert.Contains(t, string(post), `Options:  []string{"draft", "published"}`)
}

func TestGenerateSkipsExistingFiles(t *testing.T) {
	c := testConfig(t)
	_, err := Generate(context.Background(), c, sampleDatabase())
	require.NoError(t, err)

	// Hand-edit a generated file, then regenerate.
	edited := filepath.Join(c.Target, "user.go")
	require.NoError(t, os.WriteFile(edited, []byte("package garden // custom\n"), 0o644))

	report, err := Generate(context.Background(), c, sampleDatabase())
	require.NoError(t, err)
	assert.Equal(t, 6, report.Skipped)
	assert.Equal(t, 0, report.Written)

	out, err := os.ReadFile(edited)
	require.NoError(t, err)
	assert.Contains(t, string(out), "custom", "hand edits survive regeneration")
}

func TestGenerateOverwrite(t *testing.T) {
	c := testConfig(t)
	require.NoError(t, c.Apply(WithOverwrite(true)))
	_, err := Generate(context.Background(), c, sampleDatabase())
	require.NoError(t, err)

	edited := filepath.Join(c.Target, "user.go")
	require.NoError(t, os.WriteFile(edited, []byte("package garden // custom\n"), 0o644))

	report, err := Generate(context.Background(), c, sampleDatabase())
	require.NoError(t, err)
	assert.Equal(t, 6, report.Written)

	out, err := os.ReadFile(edited)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "custom")
}

func TestGenerateReportsSchemaDrift(t *testing.T) {
	c := testConfig(t)
	_, err := Generate(context.Background(), c, sampleDatabase())
	require.NoError(t, err)

	db := sampleDatabase()
	users, _ := db.Table("users")
	users.AddColumn(&schema.Column{Name: "nickname", Type: &schema.ColumnType{Kind: schema.KindString, Raw: "varchar(40)"}})

	report, err := Generate(context.Background(), c, db)
	require.NoError(t, err)
	require.NotNil(t, report.SchemaDiff)
	assert.Equal(t, []string{"users.nickname"}, report.SchemaDiff.AddedColumns)
}

func TestGenerateEmptyDatabase(t *testing.T) {
	c := testConfig(t)
	report, err := Generate(context.Background(), c, &schema.Database{})
	require.NoError(t, err)
	assert.Zero(t, report.Models)
	assert.Zero(t, report.Written)

	// The snapshot is still taken so the next run can diff.
	snap, err := LoadSnapshot(c.Target)
	require.NoError(t, err)
	require.NotNil(t, snap)
}

func TestGenerateHooks(t *testing.T) {
	t.Run("hook can rename a type", func(t *testing.T) {
		c := testConfig(t)
		require.NoError(t, c.Apply(WithHooks(func(g *Graph) error {
			node, ok := g.Node("users")
			if ok {
				node.Name = "Account"
			}
			return nil
		})))
		_, err := Generate(context.Background(), c, sampleDatabase())
		require.NoError(t, err)

		_, statErr := os.Stat(filepath.Join(c.Target, "account.go"))
		assert.NoError(t, statErr)
	})

	t.Run("hook failure aborts the run", func(t *testing.T) {
		c := testConfig(t)
		require.NoError(t, c.Apply(WithHooks(func(*Graph) error {
			return assert.AnError
		})))
		_, err := Generate(context.Background(), c, sampleDatabase())
		require.Error(t, err)
		assert.True(t, IsGenerationError(err))
	})
}

func TestGenerateTemplateOverride(t *testing.T) {
	c := testConfig(t)
	tmplDir := t.TempDir()
	override := `package {{ .FormPackageName }}

// {{ .FormName }} was rendered by a custom template.
var {{ .FormName }} = Form{Model: {{ quote .Name }}}
`
	require.NoError(t, os.WriteFile(filepath.Join(tmplDir, "form.tmpl"), []byte(override), 0o644))
	require.NoError(t, c.Apply(WithTemplateDir(tmplDir)))

	_, err := Generate(context.Background(), c, sampleDatabase())
	require.NoError(t, err)

	out, err := os.ReadFile(filepath.Join(c.Target, "forms", "user_form.go"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "custom template")
}

func TestGenerateModelCompilesThroughFormatter(t *testing.T) {
	// The writer runs goimports over everything it writes; a run that
	// completes proves the rendered sources parse.
	c := testConfig(t)
	db := sampleDatabase()
	users, _ := db.Table("users")
	users.AddColumn(&schema.Column{Name: "avatar", Type: &schema.ColumnType{Kind: schema.KindBytes, Raw: "bytea"}, Nullable: true})
	users.AddColumn(&schema.Column{Name: "settings", Type: &schema.ColumnType{Kind: schema.KindJSON, Raw: "jsonb"}, Nullable: true})
	users.AddColumn(&schema.Column{Name: "token", Type: &schema.ColumnType{Kind: schema.KindUUID, Raw: "uuid"}})

	_, err := Generate(context.Background(), c, db)
	require.NoError(t, err)

	src, err := os.ReadFile(filepath.Join(c.Target, "user.go"))
	require.NoError(t, err)
	assert.Contains(t, string(src), "github.com/google/uuid")
}
