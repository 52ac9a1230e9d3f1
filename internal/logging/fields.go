// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldReason     = "reason"
	FieldInput      = "input"

	// Builder fields.
	FieldLanguage    = "language"
	FieldOffset      = "offset"
	FieldDepth       = "depth"
	FieldEdits       = "edits"
	FieldTokens      = "tokens"
	FieldIncremental = "incremental"
	FieldVersion     = "version"
	FieldExtensions  = "extensions"
	FieldLinguist    = "linguist"

	// Configuration fields.
	FieldFormat = "format"
	FieldJobs   = "jobs"
	FieldDebug  = "debug"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesParsed     = "files_parsed"
	FieldFilesWithErrors = "files_with_errors"
	FieldErrorNodes      = "error_nodes"

	// Build fields.
	FieldCommit = "commit"
	FieldBuilt  = "built"
)
