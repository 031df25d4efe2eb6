package gen

import (
	"path"
	"runtime"
)

// DefaultFormPackage is the name of the generated forms subpackage.
const DefaultFormPackage = "forms"

// Config holds global code generation settings.
type Config struct {
	// Target is the directory generated code is written to.
	Target string
	// Package is the Go import path of the garden root package. Generated
	// model files live directly in it, form files in the forms subpackage.
	Package string
	// Header is a comment block added at the top of every generated file.
	Header string
	// FormPackage is the package name of the form layer. Defaults to "forms".
	FormPackage string
	// Overwrite replaces existing files. When false (the default) files
	// that already exist on disk are left untouched so hand edits survive
	// regeneration.
	Overwrite bool
	// Workers caps the number of files rendered in parallel.
	Workers int
	// Exclude holds table-name glob patterns skipped during generation.
	Exclude []string
	// TemplateDir points to a directory of template overrides for the
	// form layer. Empty means builtin templates only.
	TemplateDir string
	// Hooks run on the graph after it is built and before files are written.
	Hooks []Hook
}

// Hook is called with the built graph before generation. Hooks may rename
// types, drop fields, or veto the run by returning an error.
type Hook func(*Graph) error

// PackageName returns the local package name of the garden root package.
func (c *Config) PackageName() string {
	return path.Base(c.Package)
}

// FormPackageName returns the form package name, applying the default.
func (c *Config) FormPackageName() string {
	if c.FormPackage != "" {
		return c.FormPackage
	}
	return DefaultFormPackage
}

// workers returns the effective parallelism for file generation.
func (c *Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// validate checks the settings generation cannot run without.
func (c *Config) validate() error {
	if c.Target == "" {
		return NewConfigError("Target", nil, "target directory cannot be empty")
	}
	if c.Package == "" {
		return NewConfigError("Package", nil, "package import path cannot be empty")
	}
	return nil
}
