// Package frontmatter splits blog post documents into their YAML metadata
// block and markdown body, and removes metadata residue left in a body.
package frontmatter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	delimiter = "---"
	bom       = "\ufeff"
)

// ErrMalformedFrontMatter indicates a delimited metadata block is present but
// cannot be read as a YAML mapping.
var ErrMalformedFrontMatter = errors.New("malformed front matter")

// ErrMissingClosingDelimiter indicates the document started with a YAML
// front matter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml front matter start delimiter found but closing delimiter is missing")

// FrontMatter is the parsed metadata block of a post. A nil FrontMatter is
// valid and behaves like an empty one.
type FrontMatter map[string]any

// Value returns the raw value stored under key.
func (fm FrontMatter) Value(key string) (any, bool) {
	v, ok := fm[key]
	return v, ok
}

// String returns the value under key when it is a YAML string.
func (fm FrontMatter) String(key string) (string, bool) {
	s, ok := fm[key].(string)
	return s, ok
}

// Sequence returns the scalar elements of a YAML sequence stored under key.
// Non-scalar elements are skipped.
func (fm FrontMatter) Sequence(key string) []string {
	items, ok := fm[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			out = append(out, v)
		case int, int64, uint64, float64, bool:
			out = append(out, fmt.Sprint(v))
		}
	}
	return out
}

// Int returns the value under key as an integer. Integral floats and numeric
// strings are accepted.
func (fm FrontMatter) Int(key string) (int, bool) {
	switch v := fm[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case uint64:
		return int(v), true
	case float64:
		if v == float64(int(v)) {
			return int(v), true
		}
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err == nil {
			return n, true
		}
	}
	return 0, false
}

// Time returns the value under key when YAML decoded it as a timestamp.
func (fm FrontMatter) Time(key string) (time.Time, bool) {
	t, ok := fm[key].(time.Time)
	return t, ok
}

// Parse splits raw into its front matter and trimmed body.
//
// The metadata block must open on the first line of the document (after a
// byte-order mark and leading whitespace) and ends at the next line that
// consists solely of "---". Documents without an opening delimiter yield an
// empty FrontMatter and the trimmed input as body.
func Parse(raw []byte) (FrontMatter, string, error) {
	block, body, had, err := Split(string(raw))
	if err != nil {
		return nil, "", err
	}
	if !had {
		return FrontMatter{}, body, nil
	}

	fields, err := ParseYAML([]byte(block))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrMalformedFrontMatter, err)
	}
	return fields, strings.TrimSpace(body), nil
}

// ParseYAML parses raw YAML front matter (without --- delimiters) into a map.
func ParseYAML(frontmatter []byte) (FrontMatter, error) {
	if len(strings.TrimSpace(string(frontmatter))) == 0 {
		return FrontMatter{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// Split separates a document into the raw block between the anchored
// delimiters and the untrimmed remainder. Without an opening delimiter, had
// is false and body is the trimmed document.
func Split(text string) (block, body string, had bool, err error) {
	text = trimDocument(text)
	lines := strings.Split(text, "\n")
	if !isDelimiter(lines[0]) {
		return "", text, false, nil
	}

	end := closingDelimiter(lines)
	if end < 0 {
		return "", "", false, fmt.Errorf("%w: %w", ErrMalformedFrontMatter, ErrMissingClosingDelimiter)
	}
	return strings.Join(lines[1:end], "\n"), strings.Join(lines[end+1:], "\n"), true, nil
}

// closingDelimiter returns the index of the first delimiter line after the
// opening one, or -1.
func closingDelimiter(lines []string) int {
	for i := 1; i < len(lines); i++ {
		if isDelimiter(lines[i]) {
			return i
		}
	}
	return -1
}

func isDelimiter(line string) bool {
	return strings.TrimRight(line, " \t\r") == delimiter
}

func trimDocument(text string) string {
	text = strings.TrimLeft(text, " \t\r\n")
	text = strings.TrimPrefix(text, bom)
	return strings.TrimSpace(text)
}
