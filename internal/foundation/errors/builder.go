package errors

import "log/slog"

// ErrorBuilder provides a fluent API for creating ClassifiedError instances.
type ErrorBuilder struct {
	err ClassifiedError
}

// NewError creates a new ErrorBuilder with the specified category and message.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{err: ClassifiedError{
		category: category,
		severity: SeverityFatal,
		message:  message,
	}}
}

// WrapError creates a new ErrorBuilder that wraps an existing error.
func WrapError(err error, category ErrorCategory, message string) *ErrorBuilder {
	b := NewError(category, message)
	b.err.cause = err
	return b
}

// ValidationError creates an error for a bad flag or option value.
func ValidationError(message string) *ErrorBuilder {
	return NewError(CategoryValidation, message).UserAction()
}

// WithFile attaches the post file path.
func (b *ErrorBuilder) WithFile(path string) *ErrorBuilder {
	b.err.file = path
	return b
}

// WithStage attaches the pipeline stage name.
func (b *ErrorBuilder) WithStage(stage string) *ErrorBuilder {
	b.err.stage = stage
	return b
}

// WithContext attaches an extra key-value pair that is logged with the error.
func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.err.extra = append(b.err.extra, slog.Any(key, value))
	return b
}

// Fatal marks the error as stopping the run. This is the default.
func (b *ErrorBuilder) Fatal() *ErrorBuilder {
	b.err.severity = SeverityFatal
	return b
}

// Warning marks the error as one the run survives.
func (b *ErrorBuilder) Warning() *ErrorBuilder {
	b.err.severity = SeverityWarning
	return b
}

// UserAction marks the error as fixable only by editing an input.
func (b *ErrorBuilder) UserAction() *ErrorBuilder {
	b.err.userAction = true
	return b
}

// Build creates the final ClassifiedError.
func (b *ErrorBuilder) Build() *ClassifiedError {
	out := b.err
	out.extra = append([]slog.Attr(nil), b.err.extra...)
	return &out
}
