package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Log attribute keys carried by every classified error that has them.
const (
	ContextFile  = "file"
	ContextStage = "stage"
)

// ClassifiedError is an error tagged with a category, a severity and the
// post and stage it happened in.
type ClassifiedError struct {
	category   ErrorCategory
	severity   ErrorSeverity
	message    string
	cause      error
	file       string
	stage      string
	userAction bool
	extra      []slog.Attr
}

// Error implements the standard error interface.
func (e *ClassifiedError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s:%s] ", e.category, e.severity)
	if e.file != "" {
		b.WriteString(e.file)
		b.WriteString(": ")
	}
	b.WriteString(e.message)
	if e.cause != nil {
		fmt.Fprintf(&b, ": %v", e.cause)
	}
	return b.String()
}

func (e *ClassifiedError) Unwrap() error { return e.cause }

func (e *ClassifiedError) Category() ErrorCategory { return e.category }

func (e *ClassifiedError) Severity() ErrorSeverity { return e.severity }

func (e *ClassifiedError) Message() string { return e.message }

func (e *ClassifiedError) Cause() error { return e.cause }

// File returns the post file the error is attached to, if any.
func (e *ClassifiedError) File() string { return e.file }

// Stage returns the pipeline stage the error is attached to, if any.
func (e *ClassifiedError) Stage() string { return e.stage }

// NeedsUserAction reports whether rerunning without editing an input is pointless.
func (e *ClassifiedError) NeedsUserAction() bool { return e.userAction }

// IsFatal checks if the error stops the run.
func (e *ClassifiedError) IsFatal() bool { return e.severity == SeverityFatal }

// LogAttrs returns the error's structured context for slog.
func (e *ClassifiedError) LogAttrs() []slog.Attr {
	attrs := make([]slog.Attr, 0, 3+len(e.extra))
	attrs = append(attrs, slog.String("category", string(e.category)))
	if e.file != "" {
		attrs = append(attrs, slog.String(ContextFile, e.file))
	}
	if e.stage != "" {
		attrs = append(attrs, slog.String(ContextStage, e.stage))
	}
	return append(attrs, e.extra...)
}

// AsClassified extracts the first ClassifiedError from an error chain.
func AsClassified(err error) (*ClassifiedError, bool) {
	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified, true
	}
	return nil, false
}

// HasCategory checks if the error chain carries a classified error of the category.
func HasCategory(err error, category ErrorCategory) bool {
	classified, ok := AsClassified(err)
	return ok && classified.category == category
}
