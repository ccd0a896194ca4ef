package frontmatter

import (
	"regexp"
	"strings"
)

var (
	leadingFieldPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+\s*:\s*.+$`)
	readtimeLinePattern = regexp.MustCompile(`^\s*readtime\s*:\s*\d+\s*$`)
)

// StripResidue removes metadata left at the top of a body: a delimited block
// anchored at the start of the text and any leading "key: value" lines.
// An opening delimiter without a closing one is dropped on its own.
//
// Removal is repeated until nothing changes, so StripResidue(StripResidue(s))
// equals StripResidue(s).
func StripResidue(text string) string {
	text = trimDocument(text)
	for {
		next := stripResidueOnce(text)
		if next == text {
			return next
		}
		text = next
	}
}

func stripResidueOnce(text string) string {
	lines := strings.Split(text, "\n")
	if isDelimiter(lines[0]) {
		if end := closingDelimiter(lines); end >= 0 {
			lines = lines[end+1:]
		} else {
			lines = lines[1:]
		}
	}
	for len(lines) > 0 && leadingFieldPattern.MatchString(strings.TrimRight(lines[0], "\r")) {
		lines = lines[1:]
	}
	return trimDocument(strings.Join(lines, "\n"))
}

// StripReadtimeLines blanks every line that only holds a "readtime: N" field,
// wherever it appears in text.
func StripReadtimeLines(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if readtimeLinePattern.MatchString(line) {
			lines[i] = ""
		}
	}
	return strings.Join(lines, "\n")
}

// Clean applies the full body cleaning pipeline to a body returned by Parse.
func Clean(body string) string {
	return StripReadtimeLines(StripResidue(StripResidue(body)))
}
