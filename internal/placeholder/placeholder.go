// Package placeholder masks markup that a translation model would otherwise
// mangle. Fenced code blocks, inline code spans, and HTML tags are swapped for
// numbered markers ([[0]], [[1]], ...) before inference and put back after.
package placeholder

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reFencedCode = regexp.MustCompile("(?s)```.*?```")
	reInlineCode = regexp.MustCompile("`[^`\n]+`")
	reHTMLTag    = regexp.MustCompile(`</?[A-Za-z][^<>]*>`)

	// Models sometimes insert spaces inside the brackets.
	reMarker = regexp.MustCompile(`\[\[\s*(\d+)\s*\]\]`)
)

// Masked is text with its markup replaced by markers.
type Masked struct {
	Text  string
	spans []string
}

// Mask replaces markup in text with markers, numbered in the order the spans
// are found. Fenced blocks are taken first so their contents are never split.
func Mask(text string) *Masked {
	m := &Masked{}
	replace := func(span string) string {
		id := marker(len(m.spans))
		m.spans = append(m.spans, span)
		return id
	}

	text = reFencedCode.ReplaceAllStringFunc(text, replace)
	text = reInlineCode.ReplaceAllStringFunc(text, replace)
	text = reHTMLTag.ReplaceAllStringFunc(text, replace)
	m.Text = text
	return m
}

// Len reports how many spans were masked.
func (m *Masked) Len() int {
	return len(m.spans)
}

// Unmask puts the masked spans back into translated. Markers with an index
// that was never issued are left as they are.
func (m *Masked) Unmask(translated string) string {
	if len(m.spans) == 0 {
		return translated
	}
	return reMarker.ReplaceAllStringFunc(translated, func(s string) string {
		sub := reMarker.FindStringSubmatch(s)
		idx, err := strconv.Atoi(sub[1])
		if err != nil || idx < 0 || idx >= len(m.spans) {
			return s
		}
		return m.spans[idx]
	})
}

// Missing returns the indices of spans whose marker does not appear in
// translated.
func (m *Masked) Missing(translated string) []int {
	seen := make(map[int]bool, len(m.spans))
	for _, sub := range reMarker.FindAllStringSubmatch(translated, -1) {
		if idx, err := strconv.Atoi(sub[1]); err == nil {
			seen[idx] = true
		}
	}
	var missing []int
	for i := range m.spans {
		if !seen[i] {
			missing = append(missing, i)
		}
	}
	return missing
}

func marker(i int) string {
	var b strings.Builder
	b.WriteString("[[")
	b.WriteString(strconv.Itoa(i))
	b.WriteString("]]")
	return b.String()
}
