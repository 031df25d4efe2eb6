// Package gen is garden's code generation engine.
//
// # Pipeline
//
// Generation runs in two passes over one graph:
//
//  1. Model pass: every base table becomes a node and renders a model file
//     (struct, table constant, column list) with jennifer.
//  2. Form pass: every non-join node renders a form definition file whose
//     field list is derived by mapping each column kind through the fixed
//     form field map (varchar -> text, boolean -> checkbox, ...).
//
// The two layers are wired by naming convention: table user_profiles yields
// model UserProfile in user_profile.go and form UserProfileForm in
// forms/user_profile_form.go.
//
// # Configuration
//
// Config is built with functional options:
//
//	cfg, err := gen.NewConfig(
//	    gen.WithTarget("./garden"),
//	    gen.WithPackage("github.com/org/app/garden"),
//	    gen.WithExclude("schema_migrations"),
//	)
//
// # Output discipline
//
// Generated files are a scaffold for hand editing. The writer never
// replaces an existing file unless overwrite is enabled, and a msgpack
// snapshot of the schema is kept under the target directory so later runs
// can report how the database drifted from the generated code.
//
// # Error Handling
//
// The package uses structured error types for better error handling:
//
//   - SchemaError: introspected schema problems
//   - ConfigError: configuration errors
//   - GenerationError: rendering and writing failures
//   - ValidationError: naming convention violations
package gen
