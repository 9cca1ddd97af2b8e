// Package logging wraps charmbracelet/log with the level, colour and
// context helpers shared by the library and the CLI.
package logging

// Field names for structured log entries.
const (
	FieldError  = "error"
	FieldPath   = "path"
	FieldInput  = "input"
	FieldOutput = "output"
	FieldFiles  = "files"
	FieldJobs   = "jobs"

	// Pipeline fields.
	FieldStage    = "stage"
	FieldMacro    = "macro"
	FieldArgs     = "args"
	FieldLang     = "lang"
	FieldLinkID   = "link_id"
	FieldFootnote = "footnote"
	FieldHeadings = "headings"
	FieldRange    = "range"
	FieldPos      = "pos"
	FieldWarnings = "warnings"

	FieldVersion = "version"
)
