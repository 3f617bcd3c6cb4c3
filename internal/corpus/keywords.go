package corpus

import (
	"strings"

	"github.com/jdkato/prose/v2"
)

var culturalKeywords = []string{
	// Historical
	"vedic", "mauryan", "gupta", "mughal", "british", "independence",
	"harappa", "indus", "ashoka", "akbar", "shivaji", "gandhi",

	// Religious
	"hindu", "buddhist", "jain", "sikh", "islamic", "christian",
	"dharma", "karma", "moksha", "bhakti", "yoga", "meditation",

	// Languages
	"sanskrit", "hindi", "tamil", "bengali", "telugu", "marathi",
	"gujarati", "kannada", "malayalam", "punjabi", "urdu", "odia",

	// Cultural elements
	"festival", "tradition", "custom", "ritual", "ceremony",
	"art", "music", "dance", "literature", "philosophy",

	// Geography
	"himalaya", "ganga", "deccan", "rajasthan", "kerala", "punjab",
	"bengal", "maharashtra", "gujarat", "tamil nadu",
}

var categoryKeywords = []struct {
	category string
	words    []string
}{
	{"History", []string{"history", "ancient", "empire", "king", "queen", "battle", "dynasty"}},
	{"Religion & Spirituality", []string{"god", "goddess", "temple", "prayer", "ritual", "spiritual", "religion"}},
	{"Language", []string{"language", "word", "meaning", "pronunciation", "script", "grammar"}},
	{"Arts & Culture", []string{"art", "music", "dance", "painting", "sculpture", "performance"}},
	{"Festivals", []string{"festival", "celebration", "ceremony", "diwali", "holi", "navratri"}},
	{"Food & Cuisine", []string{"food", "recipe", "cuisine", "spice", "cooking", "dish"}},
}

// Categorize assigns content to a fixed category by keyword, the fallback
// used when no category came with the submission.
func Categorize(content string) string {
	tokens := tokenize(content)
	for _, entry := range categoryKeywords {
		for _, word := range entry.words {
			if tokens[word] {
				return entry.category
			}
		}
	}
	return "General Culture"
}

// ExtractCulturalKeywords returns the culturally relevant keywords found in
// the content, used for corpus analysis and organization.
func ExtractCulturalKeywords(content string) []string {
	tokens := tokenize(content)
	lower := strings.ToLower(content)

	var found []string
	for _, keyword := range culturalKeywords {
		if strings.Contains(keyword, " ") {
			if strings.Contains(lower, keyword) {
				found = append(found, keyword)
			}
		} else if tokens[keyword] {
			found = append(found, keyword)
		}
	}
	return found
}

// tokenize lowercases the prose token stream into a set. Tagging and entity
// extraction are disabled; only segmentation is needed here.
func tokenize(content string) map[string]bool {
	set := make(map[string]bool)

	doc, err := prose.NewDocument(content,
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		for _, w := range strings.Fields(strings.ToLower(content)) {
			set[strings.Trim(w, ".,;:!?'\"()")] = true
		}
		return set
	}

	for _, tok := range doc.Tokens() {
		set[strings.ToLower(tok.Text)] = true
	}
	return set
}
