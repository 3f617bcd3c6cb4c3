package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextStripsMarkup(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text passes through",
			input: "A story about the harvest festival.",
			want:  "A story about the harvest festival.",
		},
		{
			name:  "inline tags are removed",
			input: "A <b>bold</b> claim about <i>tradition</i>.",
			want:  "A bold claim about tradition.",
		},
		{
			name:  "script bodies are dropped entirely",
			input: "<script>alert('x')</script>Safe text.",
			want:  "Safe text.",
		},
		{
			name:  "style bodies are dropped entirely",
			input: "<style>body { color: red }</style>Visible text.",
			want:  "Visible text.",
		},
		{
			name:  "non-ascii text is untouched",
			input: "दीपावली की <b>कथा</b>",
			want:  "दीपावली की कथा",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.input))
		})
	}
}

func TestTextTidiesWhitespace(t *testing.T) {
	assert.Equal(t, "several words here", Text("several    words\t here"))
	assert.Equal(t, "leading and trailing", Text("   leading and trailing   "))
}

func TestTextPreservesParagraphBreaks(t *testing.T) {
	input := "First paragraph.\n\n\n\nSecond paragraph.\nStill second."
	want := "First paragraph.\n\nSecond paragraph.\nStill second."

	assert.Equal(t, want, Text(input))
}
