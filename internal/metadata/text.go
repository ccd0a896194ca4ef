package metadata

import (
	"math"
	"regexp"
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/blogindex/internal/frontmatter"
)

var (
	h1Pattern       = regexp.MustCompile(`(?m)^#[ \t]+(.+)$`)
	readtimePattern = regexp.MustCompile(`(?m)^\s*readtime\s*:\s*(\d+)`)
	wordPattern     = regexp.MustCompile(`[\p{L}\p{N}_]+`)
)

// Capitalize upper-cases the first rune of s and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeRuneInString(s)
	return cases.Upper(language.BrazilianPortuguese).String(s[:size]) +
		cases.Lower(language.BrazilianPortuguese).String(s[size:])
}

// WordCount counts maximal runs of letters, digits and underscores.
func WordCount(text string) int {
	return len(wordPattern.FindAllStringIndex(text, -1))
}

// ComputeReadtime converts a word count into whole minutes, at least one.
// Halves round to even.
func ComputeReadtime(words, wordsPerMinute int) int {
	if wordsPerMinute <= 0 {
		wordsPerMinute = DefaultWordsPerMinute
	}
	minutes := int(math.RoundToEven(float64(words) / float64(wordsPerMinute)))
	return max(1, minutes)
}

// Readtime returns the post's reading time in minutes. An explicit positive
// "readtime" field wins, then the first "readtime: N" line found in raw,
// then the estimate from the words in cleaned.
func (r *Resolver) Readtime(fm frontmatter.FrontMatter, raw, cleaned string) int {
	if n, ok := fm.Int("readtime"); ok && n > 0 {
		return n
	}
	if m := readtimePattern.FindStringSubmatch(raw); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}
	return ComputeReadtime(WordCount(cleaned), r.opts.WordsPerMinute)
}
