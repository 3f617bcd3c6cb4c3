package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededStore(t *testing.T) *Store {
	t.Helper()
	store := newTestStore(t)

	require.NoError(t, store.Save([]Record{
		{
			ID: "entry_1", Type: TypeCulturalStory, Timestamp: "2026-01-10T09:00:00Z",
			Title: "The lamps of Diwali", Content: "Why lamps are lit during Diwali",
			Language: "Hindi", Region: "North India", QualityScore: 5, FestivalEvent: "Diwali",
		},
		{
			ID: "entry_2", Type: TypeProverb, Timestamp: "2026-02-15T09:00:00Z",
			Content: "A proverb about patience", UserLanguage: "Tamil", Region: "South India", QualityScore: 3,
		},
		{
			ID: "entry_3", Type: TypeVocabulary, Timestamp: "2026-03-20T09:00:00Z",
			OriginalWord: "நன்றி", EnglishTranslation: "thank you",
			Language: "Tamil", Region: "South India", QualityScore: 4,
		},
		{
			ID: "entry_4", Type: TypeVoiceStory, Timestamp: "2026-04-25T09:00:00Z",
			Title: "Holi memories", Content: "A grandmother's story about Holi colours",
			Language: "Hindi", Region: "North India", QualityScore: 2, FestivalEvent: "Holi",
		},
	}))

	return store
}

func TestByType(t *testing.T) {
	store := seededStore(t)

	proverbs := store.ByType(TypeProverb)
	require.Len(t, proverbs, 1)
	assert.Equal(t, "entry_2", proverbs[0].ID)

	assert.Empty(t, store.ByType(TypeDialect))
}

func TestByLanguageMatchesDeclaredAndUserLanguage(t *testing.T) {
	store := seededStore(t)

	tamil := store.ByLanguage("Tamil")
	require.Len(t, tamil, 2)
	assert.Equal(t, "entry_2", tamil[0].ID)
	assert.Equal(t, "entry_3", tamil[1].ID)
}

func TestByRegionAndFestival(t *testing.T) {
	store := seededStore(t)

	assert.Len(t, store.ByRegion("South India"), 2)

	diwali := store.ByFestival("Diwali")
	require.Len(t, diwali, 1)
	assert.Equal(t, "entry_1", diwali[0].ID)
}

func TestRecentOrdersNewestFirst(t *testing.T) {
	store := seededStore(t)

	recent := store.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "entry_4", recent[0].ID)
	assert.Equal(t, "entry_3", recent[1].ID)

	all := store.Recent(0)
	assert.Len(t, all, 4)
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	store := seededStore(t)

	hits := store.Search("DIWALI")
	require.Len(t, hits, 1)
	assert.Equal(t, "entry_1", hits[0].ID)

	// Vocabulary entries are found through their word fields.
	hits = store.Search("thank")
	require.Len(t, hits, 1)
	assert.Equal(t, "entry_3", hits[0].ID)

	assert.Empty(t, store.Search(""))
	assert.Empty(t, store.Search("no such text anywhere"))
}

func TestExportSubsetFilters(t *testing.T) {
	store := seededStore(t)

	tests := []struct {
		name    string
		filters ExportFilters
		wantIDs []string
	}{
		{
			name:    "no filters returns everything",
			filters: ExportFilters{},
			wantIDs: []string{"entry_1", "entry_2", "entry_3", "entry_4"},
		},
		{
			name:    "by type",
			filters: ExportFilters{Types: []string{TypeProverb, TypeVocabulary}},
			wantIDs: []string{"entry_2", "entry_3"},
		},
		{
			name:    "by language includes user language fallback",
			filters: ExportFilters{Languages: []string{"Tamil"}},
			wantIDs: []string{"entry_2", "entry_3"},
		},
		{
			name:    "minimum quality",
			filters: ExportFilters{MinQuality: 4},
			wantIDs: []string{"entry_1", "entry_3"},
		},
		{
			name:    "date range",
			filters: ExportFilters{DateFrom: "2026-02-01", DateTo: "2026-03-31"},
			wantIDs: []string{"entry_2", "entry_3"},
		},
		{
			name:    "by festival",
			filters: ExportFilters{Festivals: []string{"Holi"}},
			wantIDs: []string{"entry_4"},
		},
		{
			name:    "combined filters",
			filters: ExportFilters{Regions: []string{"North India"}, MinQuality: 3},
			wantIDs: []string{"entry_1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := store.ExportSubset(tt.filters)
			ids := make([]string, 0, len(records))
			for _, rec := range records {
				ids = append(ids, rec.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestFestivalList(t *testing.T) {
	festivals := FestivalList()
	assert.Len(t, festivals, 35)
	assert.Equal(t, "Diwali", festivals[0])
	assert.Equal(t, "Other", festivals[len(festivals)-1])
}

func TestFestivalContentSummary(t *testing.T) {
	store := seededStore(t)

	summary := store.FestivalContentSummary()
	require.Len(t, summary, 2)

	assert.Equal(t, 1, summary["Diwali"].CulturalStories)
	assert.Equal(t, 1, summary["Diwali"].Total)
	assert.Equal(t, 1, summary["Holi"].VoiceStories)
}

func TestStatistics(t *testing.T) {
	store := seededStore(t)

	stats := store.Statistics()

	assert.Equal(t, 4, stats.TotalEntries)
	assert.Equal(t, 1, stats.DataTypes[TypeProverb])
	assert.Equal(t, 2, stats.Languages["Tamil"])
	assert.Equal(t, 2, stats.Regions["North India"])
	assert.Equal(t, 1, stats.Festivals["Diwali"])

	require.NotNil(t, stats.Quality)
	assert.Equal(t, 5, stats.Quality.Highest)
	assert.Equal(t, 2, stats.Quality.Lowest)
	assert.Equal(t, 2, stats.Quality.HighQualityCount)
	assert.Equal(t, 1, stats.Quality.LowQualityCount)
	assert.InDelta(t, 3.5, stats.Quality.Average, 0.001)

	require.NotNil(t, stats.Temporal)
	assert.Equal(t, "2026-01-10T09:00:00Z", stats.Temporal.FirstEntry)
	assert.Equal(t, "2026-04-25T09:00:00Z", stats.Temporal.LatestEntry)

	assert.Equal(t, 80, stats.Progress.TargetAudioVideo)
	assert.Equal(t, 800, stats.Progress.TargetImageText)
	assert.Equal(t, 1, stats.Progress.ImageTextRecords)
	// One voice story of under 100 characters counts as one minute, reported
	// rounded to two decimals.
	assert.InDelta(t, 0.02, stats.Progress.AudioVideoHours, 1e-9)
}

func TestStatisticsEmptyCorpus(t *testing.T) {
	store := newTestStore(t)

	stats := store.Statistics()
	assert.Equal(t, 0, stats.TotalEntries)
	assert.Nil(t, stats.Quality)
	assert.Nil(t, stats.Temporal)
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		content string
		want    string
	}{
		{"The grand festival of lights is celebrated everywhere", "Festivals"},
		{"An ancient empire ruled by a famous king", "History"},
		{"Villagers visit the temple for morning prayer", "Religion & Spirituality"},
		{"This word has a deep meaning in the local script", "Language"},
		{"Classical dance and music performances", "Arts & Culture"},
		{"A traditional recipe with many a spice", "Food & Cuisine"},
		{"Something entirely unrelated to any theme", "General Culture"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Categorize(tt.content), "content: %s", tt.content)
	}
}

func TestExtractCulturalKeywords(t *testing.T) {
	found := ExtractCulturalKeywords("Sanskrit texts describe yoga and meditation traditions from the Gupta era in Tamil Nadu")

	assert.Contains(t, found, "sanskrit")
	assert.Contains(t, found, "yoga")
	assert.Contains(t, found, "meditation")
	assert.Contains(t, found, "gupta")
	assert.Contains(t, found, "tamil nadu")

	assert.Empty(t, ExtractCulturalKeywords("nothing relevant here"))
}

func TestValidateShape(t *testing.T) {
	tests := []struct {
		name    string
		rec     Record
		wantErr bool
	}{
		{
			name: "complete story",
			rec:  Record{Type: TypeCulturalStory, Title: "A title", Content: "Some content"},
		},
		{
			name:    "story without title",
			rec:     Record{Type: TypeCulturalStory, Content: "Some content"},
			wantErr: true,
		},
		{
			name: "vocabulary needs word and translation",
			rec:  Record{Type: TypeVocabulary, OriginalWord: "शब्द", EnglishTranslation: "word"},
		},
		{
			name:    "vocabulary missing translation",
			rec:     Record{Type: TypeVocabulary, OriginalWord: "शब्द"},
			wantErr: true,
		},
		{
			name:    "whitespace-only field counts as missing",
			rec:     Record{Type: TypeProverb, Content: "   "},
			wantErr: true,
		},
		{
			name:    "unknown type",
			rec:     Record{Type: "mystery", Content: "anything"},
			wantErr: true,
		},
		{
			name: "festival image needs media",
			rec:  Record{Type: TypeFestivalImage, MediaFilename: "diwali.jpg"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rec.ValidateShape()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestKnownType(t *testing.T) {
	assert.True(t, KnownType(TypeProverb))
	assert.True(t, KnownType(TypeQuizAttempt))
	assert.False(t, KnownType("unheard_of"))
}
