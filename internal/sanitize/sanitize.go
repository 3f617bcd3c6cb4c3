// Package sanitize normalizes submitted free text before validation.
// Contribution forms accept plain text, but pasted content routinely arrives
// with markup; the stored corpus must hold only the visible text.
package sanitize

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Text strips HTML tags, scripts and styles from the input and tidies
// whitespace. Paragraph breaks survive; input without markup passes through
// unchanged apart from whitespace normalization.
func Text(input string) string {
	if !strings.ContainsAny(input, "<>") {
		return tidyWhitespace(input)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(input))
	if err != nil {
		return tidyWhitespace(input)
	}

	doc.Find("script, style").Remove()
	return tidyWhitespace(doc.Text())
}

// tidyWhitespace collapses spaces within lines and runs of blank lines,
// keeping single newlines intact.
func tidyWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := true

	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}

	return strings.TrimSpace(strings.Join(out, "\n"))
}
