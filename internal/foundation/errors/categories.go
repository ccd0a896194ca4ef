package errors

// ErrorCategory represents the broad category of an error for classification and routing.
type ErrorCategory string

const (
	// CategoryConfig covers a configuration file that cannot be loaded or written.
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// CategoryFileSystem covers reading posts and writing the index.
	CategoryFileSystem  ErrorCategory = "filesystem"
	CategoryFrontMatter ErrorCategory = "frontmatter"
	CategoryRender      ErrorCategory = "render"

	CategoryRuntime  ErrorCategory = "runtime"
	CategoryWatch    ErrorCategory = "watch"
	CategoryInternal ErrorCategory = "internal"
)

// exitCodes maps a category to the process exit status. Content errors in a
// post share a code so scripts can tell them apart from broken setups.
var exitCodes = map[ErrorCategory]int{
	CategoryValidation:  2,
	CategoryFrontMatter: 4,
	CategoryRender:      4,
	CategoryConfig:      7,
	CategoryInternal:    10,
	CategoryFileSystem:  11,
	CategoryRuntime:     12,
	CategoryWatch:       12,
}

// ExitCode returns the process exit status for the category, 1 when unknown.
func (c ErrorCategory) ExitCode() int {
	if code, ok := exitCodes[c]; ok {
		return code
	}
	return 1
}

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops the run
	SeverityWarning ErrorSeverity = "warning" // The run continues without the failing input
)
