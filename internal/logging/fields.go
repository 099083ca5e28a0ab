// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"

	// Configuration fields.
	FieldFlavor    = "flavor"
	FieldLinksOnly = "links_only"
	FieldWidth     = "width"
	FieldTheme     = "theme"

	// Document fields.
	FieldRange      = "range"
	FieldEvent      = "event"
	FieldTag        = "tag"
	FieldNode       = "node"
	FieldBytes      = "bytes"
	FieldEvents     = "events"
	FieldGeneration = "generation"
	FieldOffset     = "offset"
	FieldURL        = "url"
	FieldDocument   = "document"

	// Highlighting fields.
	FieldLanguage = "language"
	FieldFallback = "fallback"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
