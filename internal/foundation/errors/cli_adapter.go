package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// CLIErrorAdapter handles error presentation and exit code determination for CLI applications.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
	exit    func(int)
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
		out:     os.Stderr,
		exit:    os.Exit,
	}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	if classified, ok := AsClassified(err); ok {
		return classified.category.ExitCode()
	}
	return 1
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	classified, ok := AsClassified(err)
	if !ok {
		return fmt.Sprintf("Error: %v", err)
	}
	if a.verbose {
		return classified.Error()
	}

	var b strings.Builder
	b.WriteString("Error: ")
	b.WriteString(classified.message)
	if classified.file != "" {
		fmt.Fprintf(&b, "\n  file:  %s", classified.file)
	}
	if classified.stage != "" {
		fmt.Fprintf(&b, "\n  stage: %s", classified.stage)
	}
	if classified.cause != nil {
		fmt.Fprintf(&b, "\n  cause: %v", classified.cause)
	}
	if classified.NeedsUserAction() {
		b.WriteString("\n  fix the input above and run again")
	}
	return b.String()
}

// HandleError prints err, logs it when fatal or verbose, and exits with its code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}

	classified, ok := AsClassified(err)
	switch {
	case !ok:
		a.logger.Error("Unclassified error", "error", err)
	case a.verbose || classified.IsFatal():
		level := slog.LevelError
		if !classified.IsFatal() {
			level = slog.LevelWarn
		}
		a.logger.LogAttrs(context.Background(), level, classified.message, classified.LogAttrs()...)
	}

	_, _ = fmt.Fprintf(a.out, "%s\n", a.FormatError(err))
	a.exit(a.ExitCodeFor(err))
}
