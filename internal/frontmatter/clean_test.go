package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripResidue(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain body", "# Title\n\nText", "# Title\n\nText"},
		{"leftover block", "---\ntitle: A\n---\n# Title", "# Title"},
		{"leading field", "title: A\n\n# Title", "# Title"},
		{"several leading fields", "title: A\ndate: 2024-01-01\n# Title", "# Title"},
		{"block then field", "---\nx: 1\n---\nreadtime: 3\nText", "Text"},
		{"unclosed opening line", "---\nText body", "Text body"},
		{"horizontal rule later", "Intro\n\n---\n\nMore", "Intro\n\n---\n\nMore"},
		{"field later in body", "Intro\n\nNota: importante", "Intro\n\nNota: importante"},
		{"bom and whitespace", "\ufeff\n\n  Text  \n", "Text"},
		{"only residue", "---\na: 1\n---\nb: 2", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripResidue(tt.input))
		})
	}
}

func TestStripResidue_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"# Title",
		"---\na: 1\n---\n---\nb: 2\n---\nText",
		"a: 1\n---\nb: 2\n---\nc: 3\nText",
		"---\n---\n---\nkey: v",
		"---\r\nk: v\r\n---\r\nText\r\n",
		"readtime: 4\n\n---\nx: y\n---\n\n# T\n\nreadtime: 4\n",
		"Intro\n---\nk: v\n---\nbody",
	}
	for _, input := range inputs {
		once := StripResidue(input)
		assert.Equal(t, once, StripResidue(once), "input %q", input)
	}
}

func TestStripReadtimeLines(t *testing.T) {
	input := "Intro\nreadtime: 5\n  readtime :12  \nreadtime: five\nnot readtime: 3\nEnd"
	want := "Intro\n\n\nreadtime: five\nnot readtime: 3\nEnd"
	assert.Equal(t, want, StripReadtimeLines(input))
}

func TestClean(t *testing.T) {
	body := "---\ntitle: A\n---\nauthor: ana\n\n# Title\n\nText\n\nreadtime: 3\n\nMore"
	assert.Equal(t, "# Title\n\nText\n\n\n\nMore", Clean(body))
	assert.Equal(t, Clean(body), Clean(Clean(body)))
}
