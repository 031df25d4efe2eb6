package gen

import "errors"

// Option configures code generation.
type Option func(*Config) error

// WithTarget sets the output directory.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithPackage sets the import path of the garden root package.
// For example: "github.com/org/project/garden".
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("Package", nil, "package cannot be empty")
		}
		c.Package = pkg
		return nil
	}
}

// WithHeader sets the file header comment.
// The header is added at the top of each generated file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithFormPackage sets the name of the generated forms subpackage.
func WithFormPackage(name string) Option {
	return func(c *Config) error {
		if name == "" {
			return NewConfigError("FormPackage", nil, "form package cannot be empty")
		}
		c.FormPackage = name
		return nil
	}
}

// WithOverwrite allows generation to replace files that already exist.
// By default existing files are skipped so hand edits survive.
func WithOverwrite(overwrite bool) Option {
	return func(c *Config) error {
		c.Overwrite = overwrite
		return nil
	}
}

// WithWorkers sets the number of parallel file-generation workers.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 0 {
			return NewConfigError("Workers", n, "workers cannot be negative")
		}
		c.Workers = n
		return nil
	}
}

// WithExclude adds table-name glob patterns to skip during generation.
func WithExclude(patterns ...string) Option {
	return func(c *Config) error {
		c.Exclude = append(c.Exclude, patterns...)
		return nil
	}
}

// WithTemplateDir points generation at a directory of template overrides
// for the form layer.
func WithTemplateDir(dir string) Option {
	return func(c *Config) error {
		c.TemplateDir = dir
		return nil
	}
}

// WithHooks adds generation hooks.
// Hooks run on the graph before any file is written.
func WithHooks(hooks ...Hook) Option {
	return func(c *Config) error {
		c.Hooks = append(c.Hooks, hooks...)
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
