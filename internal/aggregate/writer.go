package aggregate

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/inful/mdfp"
)

// Fingerprint returns the content fingerprint of a generated page. Every
// byte counts, whitespace included.
func Fingerprint(content []byte) string {
	return mdfp.CalculateFingerprint(string(content))
}

// WriteOutput atomically replaces path with content. It returns false
// without touching the file when the existing content has the same
// fingerprint.
func WriteOutput(path string, content []byte) (bool, error) {
	if existing, err := os.ReadFile(path); err == nil && Fingerprint(existing) == Fingerprint(content) {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return false, fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp := path + ".tmp"
	// #nosec G306 -- the index page is a public site source file
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return false, fmt.Errorf("failed to write temp output: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return false, fmt.Errorf("atomic rename: %w", err)
	}
	return true, nil
}
