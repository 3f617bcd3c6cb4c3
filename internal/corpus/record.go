package corpus

import (
	"fmt"
	"strings"
	"time"
)

// Record is one persisted contribution. Every record carries the shared
// required subset (id, type, timestamp); the remaining fields form the
// per-type optional payload. The store assigns id and timestamp, callers
// never do.
type Record struct {
	ID                 string   `json:"id"`
	Type               string   `json:"type"`
	Timestamp          string   `json:"timestamp"`
	Title              string   `json:"title,omitempty"`
	Content            string   `json:"content,omitempty"`
	Category           string   `json:"category,omitempty"`
	Language           string   `json:"language,omitempty"`
	UserLanguage       string   `json:"user_language,omitempty"`
	Region             string   `json:"region,omitempty"`
	QualityScore       int      `json:"quality_score,omitempty"`
	ContributedBy      string   `json:"contributed_by,omitempty"`
	FestivalEvent      string   `json:"festival_event,omitempty"`
	MediaFilename      string   `json:"media_filename,omitempty"`
	MediaSizeBytes     int64    `json:"media_size_bytes,omitempty"`
	Question           string   `json:"question,omitempty"`
	Answer             string   `json:"answer,omitempty"`
	Options            []string `json:"options,omitempty"`
	OriginalWord       string   `json:"original_word,omitempty"`
	EnglishTranslation string   `json:"english_translation,omitempty"`
	Pronunciation      string   `json:"pronunciation,omitempty"`
	MoralLesson        string   `json:"moral_lesson,omitempty"`
	Explanation        string   `json:"explanation,omitempty"`
}

const (
	TypeVoiceStory             = "voice_story"
	TypeVideoTradition         = "video_tradition"
	TypeCulturalStory          = "cultural_story"
	TypeCulturalFact           = "cultural_fact"
	TypeFestivalEvent          = "festival_event"
	TypeHistoricalContribution = "historical_contribution"
	TypeVocabulary             = "vocabulary"
	TypePhrase                 = "phrase"
	TypeSongPoetry             = "song_poetry"
	TypeProverb                = "proverb"
	TypeDialect                = "dialect"
	TypeQuizAttempt            = "quiz_attempt"
	TypeQuizQuestion           = "quiz_question_contribution"
	TypeFestivalImage          = "festival_image"
)

// requiredPayload lists the per-type fields a record must carry to be
// accepted at write time. The shared subset (id, type, timestamp) is
// store-assigned and checked separately.
var requiredPayload = map[string][]string{
	TypeVoiceStory:             {"title", "content"},
	TypeVideoTradition:         {"title", "content"},
	TypeCulturalStory:          {"title", "content"},
	TypeCulturalFact:           {"content"},
	TypeFestivalEvent:          {"title", "content"},
	TypeHistoricalContribution: {"content"},
	TypeVocabulary:             {"original_word", "english_translation"},
	TypePhrase:                 {"original_word", "english_translation"},
	TypeSongPoetry:             {"title", "content"},
	TypeProverb:                {"content"},
	TypeDialect:                {"content"},
	TypeQuizAttempt:            {"question"},
	TypeQuizQuestion:           {"question", "answer"},
	TypeFestivalImage:          {"media_filename"},
}

// KnownType reports whether t is one of the fixed record kinds.
func KnownType(t string) bool {
	_, ok := requiredPayload[t]
	return ok
}

func (r *Record) fieldValue(name string) string {
	switch name {
	case "title":
		return r.Title
	case "content":
		return r.Content
	case "question":
		return r.Question
	case "answer":
		return r.Answer
	case "original_word":
		return r.OriginalWord
	case "english_translation":
		return r.EnglishTranslation
	case "media_filename":
		return r.MediaFilename
	default:
		return ""
	}
}

// ValidateShape checks the record against its variant's expected payload.
func (r *Record) ValidateShape() error {
	required, ok := requiredPayload[r.Type]
	if !ok {
		return fmt.Errorf("unknown record type %q", r.Type)
	}

	var missing []string
	for _, field := range required {
		if strings.TrimSpace(r.fieldValue(field)) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("record type %q is missing required fields: %s", r.Type, strings.Join(missing, ", "))
	}
	return nil
}

// Clone returns a deep copy so callers never alias the store's records.
func (r Record) Clone() Record {
	out := r
	if r.Options != nil {
		out.Options = append([]string(nil), r.Options...)
	}
	return out
}

// searchableText returns the text fields scanned by Search.
func (r *Record) searchableText() []string {
	return []string{
		r.Content,
		r.Title,
		r.Question,
		r.OriginalWord,
		r.EnglishTranslation,
		r.MoralLesson,
		r.Explanation,
	}
}

// effectiveLanguage prefers the record's declared language, falling back to
// the contributor's UI language the way older entries stored it.
func (r *Record) effectiveLanguage() string {
	if r.Language != "" {
		return r.Language
	}
	return r.UserLanguage
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

func parseTimestamp(value string) (time.Time, error) {
	v := strings.Replace(value, "Z", "+00:00", 1)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}
