// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Library operations
	OpLibraryOpen  Op = "open library"
	OpLibraryLoad  Op = "load library"
	OpLibraryWatch Op = "watch library"

	// Browsing
	OpBrowse     Op = "browse"
	OpItemLoad   Op = "load item"
	OpSearch     Op = "search library"
	OpParseMedia Op = "parse media id"

	// Playback session
	OpSessionPrepare Op = "prepare playback"
	OpSessionRestore Op = "restore last session"
	OpPlaybackMode   Op = "set playback mode"

	// State
	OpStateOpen Op = "open state"
	OpStateSave Op = "save state"

	// Initialization
	OpConfigLoad Op = "load configuration"
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}

// Error wraps err with the operation, keeping it matchable with errors.Is.
func Error(op Op, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
