// Package load reads the garden.yaml project file that tells the CLI where
// the database is and where generated code goes.
package load

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/syssam/garden/compiler/gen"
	"github.com/syssam/garden/dialect"
)

// DefaultFile is the project file name looked up in the working directory.
const DefaultFile = "garden.yaml"

// EnvDSN overrides the configured connection string, keeping credentials
// out of the checked-in project file.
const EnvDSN = "GARDEN_DSN"

// Config is the parsed project file.
type Config struct {
	// DSN is the connection string of the database to introspect.
	DSN string `yaml:"dsn"`
	// Dialect is postgres, mysql, or sqlite. Empty means detect from DSN.
	Dialect string `yaml:"dialect,omitempty"`
	// Schema restricts introspection to one schema/namespace.
	Schema string `yaml:"schema,omitempty"`
	// Target is the output directory. Defaults to ./garden.
	Target string `yaml:"target,omitempty"`
	// Package is the import path of the garden root package.
	Package string `yaml:"package"`
	// FormPackage names the forms subpackage. Defaults to forms.
	FormPackage string `yaml:"form_package,omitempty"`
	// Header is an extra comment line for every generated file.
	Header string `yaml:"header,omitempty"`
	// Overwrite replaces existing generated files.
	Overwrite bool `yaml:"overwrite,omitempty"`
	// Workers caps parallel file generation.
	Workers int `yaml:"workers,omitempty"`
	// Exclude lists table-name globs to skip.
	Exclude []string `yaml:"exclude,omitempty"`
	// TemplateDir points at form template overrides.
	TemplateDir string `yaml:"template_dir,omitempty"`
}

// FromFile reads and resolves a project file.
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: read %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load: parse %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a project file and applies environment overrides and
// defaults. Unknown keys are rejected: a typo in garden.yaml should fail
// loudly, not silently fall back to a default.
func Parse(data []byte) (*Config, error) {
	c := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := c.resolve(); err != nil {
		return nil, err
	}
	return c, nil
}

// resolve fills defaults and validates the result.
func (c *Config) resolve() error {
	if dsn := os.Getenv(EnvDSN); dsn != "" {
		c.DSN = dsn
	}
	if c.DSN == "" {
		return gen.NewConfigError("DSN", nil,
			fmt.Sprintf("dsn is required (set it in garden.yaml or %s)", EnvDSN))
	}
	if c.Dialect == "" {
		d, err := dialect.Detect(c.DSN)
		if err != nil {
			return err
		}
		c.Dialect = d
	}
	if err := dialect.Validate(c.Dialect); err != nil {
		return err
	}
	if c.Target == "" {
		c.Target = "./garden"
	}
	if c.Package == "" {
		return gen.NewConfigError("Package", nil,
			"package is required (the import path generated code lives under)")
	}
	return nil
}

// GenOptions translates the project file into generator options.
func (c *Config) GenOptions() []gen.Option {
	opts := []gen.Option{
		gen.WithTarget(c.Target),
		gen.WithPackage(c.Package),
		gen.WithOverwrite(c.Overwrite),
	}
	if c.FormPackage != "" {
		opts = append(opts, gen.WithFormPackage(c.FormPackage))
	}
	if c.Header != "" {
		opts = append(opts, gen.WithHeader(c.Header))
	}
	if c.Workers > 0 {
		opts = append(opts, gen.WithWorkers(c.Workers))
	}
	if len(c.Exclude) > 0 {
		opts = append(opts, gen.WithExclude(c.Exclude...))
	}
	if c.TemplateDir != "" {
		opts = append(opts, gen.WithTemplateDir(c.TemplateDir))
	}
	return opts
}

// Starter is the garden.yaml written by the init command.
const Starter = `# garden project file. See https://github.com/syssam/garden.

# Connection string of the database to introspect. The GARDEN_DSN
# environment variable overrides this value.
dsn: postgres://localhost:5432/app?sslmode=disable

# Import path the generated model package lives under.
package: example.com/app/garden

# Output directory. Files that already exist are never overwritten.
target: ./garden

# Tables to skip, as glob patterns.
exclude:
  - schema_migrations
`
