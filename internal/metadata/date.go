package metadata

import (
	"fmt"
	"strings"
	"time"

	"git.home.luguber.info/inful/blogindex/internal/frontmatter"
)

const dateLayout = "2006-01-02"

var monthNames = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// LongDate formats t as "05 de março de 2024".
func LongDate(t time.Time) string {
	return fmt.Sprintf("%02d de %s de %d", t.Day(), monthNames[t.Month()-1], t.Year())
}

// FormatDate renders the "date" field. Unparseable values are returned as
// written; a missing or empty field yields the unknown-date text.
func (r *Resolver) FormatDate(fm frontmatter.FrontMatter) string {
	if t, ok := fm.Time("date"); ok {
		return LongDate(t)
	}
	value, ok := fm.Value("date")
	if !ok || value == nil {
		return r.opts.UnknownDate
	}
	raw := fmt.Sprint(value)
	if strings.TrimSpace(raw) == "" {
		return r.opts.UnknownDate
	}
	t, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return raw
	}
	return LongDate(t)
}
