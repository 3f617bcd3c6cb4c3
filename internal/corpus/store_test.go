package corpus

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	store, err := NewStore(filepath.Join(dir, "corpus_data.json"), dir)
	require.NoError(t, err)
	return store
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	store := newTestStore(t)
	assert.Empty(t, store.Load())
}

func TestLoadCorruptFileIsEmpty(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"garbage bytes", "{{{not json at all"},
		{"valid JSON but not an array", `"not a list"`},
		{"object instead of array", `{"id": "entry_1"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			require.NoError(t, os.WriteFile(store.dataFile, []byte(tt.payload), 0644))

			assert.Empty(t, store.Load())
		})
	}
}

func TestAppendAssignsIdentity(t *testing.T) {
	store := newTestStore(t)

	stored, err := store.Append(Record{
		ID:      "client-supplied-id",
		Type:    TypeProverb,
		Content: "A stitch in time saves nine.",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(stored.ID, "entry_"))
	assert.NotEqual(t, "client-supplied-id", stored.ID)

	_, err = time.Parse(time.RFC3339Nano, stored.Timestamp)
	assert.NoError(t, err)

	records := store.Load()
	require.Len(t, records, 1)
	assert.Equal(t, stored.ID, records[0].ID)
	assert.Equal(t, "A stitch in time saves nine.", records[0].Content)
}

func TestAppendPreservesExistingRecords(t *testing.T) {
	store := newTestStore(t)

	first, err := store.Append(Record{Type: TypeProverb, Content: "first"})
	require.NoError(t, err)
	second, err := store.Append(Record{Type: TypeProverb, Content: "second"})
	require.NoError(t, err)

	records := store.Load()
	require.Len(t, records, 2)
	assert.Equal(t, first.ID, records[0].ID)
	assert.Equal(t, second.ID, records[1].ID)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestConcurrentAppendsLoseNothing(t *testing.T) {
	store := newTestStore(t)

	const appenders = 8
	var wg sync.WaitGroup
	wg.Add(appenders)

	for i := 0; i < appenders; i++ {
		go func() {
			defer wg.Done()
			_, err := store.Append(Record{Type: TypeCulturalFact, Content: "concurrent entry"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	records := store.Load()
	assert.Len(t, records, appenders)

	ids := make(map[string]bool)
	for _, rec := range records {
		ids[rec.ID] = true
	}
	assert.Len(t, ids, appenders)
}

func TestSaveWritesRollingBackup(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save([]Record{{ID: "entry_a", Type: TypeProverb, Content: "original"}}))
	require.NoError(t, store.Save([]Record{{ID: "entry_b", Type: TypeProverb, Content: "replacement"}}))

	raw, err := os.ReadFile(store.dataFile + ".backup")
	require.NoError(t, err)

	var backup []Record
	require.NoError(t, json.Unmarshal(raw, &backup))
	require.Len(t, backup, 1)
	assert.Equal(t, "entry_a", backup[0].ID)

	records := store.Load()
	require.Len(t, records, 1)
	assert.Equal(t, "entry_b", records[0].ID)
}

func TestFirstSaveHasNoBackup(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save([]Record{{ID: "entry_a", Type: TypeProverb, Content: "first"}}))

	_, err := os.Stat(store.dataFile + ".backup")
	assert.True(t, os.IsNotExist(err))
}

func TestNonASCIIContentSurvivesRoundTrip(t *testing.T) {
	store := newTestStore(t)
	content := "दीपावली को दीपों का त्योहार कहा जाता है।"

	_, err := store.Append(Record{Type: TypeCulturalFact, Content: content, Language: "Hindi"})
	require.NoError(t, err)

	records := store.Load()
	require.Len(t, records, 1)
	assert.Equal(t, content, records[0].Content)

	raw, err := os.ReadFile(store.dataFile)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "दीपावली")
	assert.NotContains(t, string(raw), `\u0926`)
}

func TestDeduplicate(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save([]Record{
		{ID: "entry_1", Type: TypeProverb, Content: "same words"},
		{ID: "entry_2", Type: TypeProverb, Content: "same words"},
		{ID: "entry_3", Type: TypeCulturalFact, Content: "same words"},
		{ID: "entry_4", Type: TypeProverb, Content: "different words"},
	}))

	removed, err := store.Deduplicate()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	records := store.Load()
	require.Len(t, records, 3)
	assert.Equal(t, "entry_1", records[0].ID)

	// Already pruned, a second pass removes nothing.
	removed, err = store.Deduplicate()
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}

func TestSnapshot(t *testing.T) {
	store := newTestStore(t)

	path, err := store.Snapshot()
	require.NoError(t, err)
	assert.Empty(t, path, "empty corpus has nothing to snapshot")

	_, err = store.Append(Record{Type: TypeProverb, Content: "worth keeping"})
	require.NoError(t, err)

	path, err = store.Snapshot()
	require.NoError(t, err)
	require.NotEmpty(t, path)
	assert.Contains(t, filepath.Base(path), "corpus_backup_")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var records []Record
	require.NoError(t, json.Unmarshal(raw, &records))
	assert.Len(t, records, 1)
}

func TestAudit(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save([]Record{
		{ID: "entry_1", Type: TypeProverb, Timestamp: "2026-08-01T10:00:00Z", Content: "a complete and valid record", Language: "Hindi"},
		{ID: "entry_2", Timestamp: "2026-08-01T11:00:00Z", Content: "missing its type"},
		{ID: "entry_3", Type: TypeProverb, Timestamp: "yesterday", Content: "bad timestamp here"},
		{ID: "entry_4", Type: TypeProverb, Timestamp: "2026-08-01T12:00:00Z", Content: "ok"},
	}))

	report := store.Audit()

	assert.Equal(t, 4, report.TotalEntries)
	assert.Equal(t, 1, report.ValidEntries)
	require.Len(t, report.Issues, 3)

	assert.Contains(t, report.Issues[0].Problems, "missing required field: type")
	assert.Contains(t, report.Issues[1].Problems, "invalid timestamp format")
	assert.Contains(t, report.Issues[2].Problems, "content too short")

	require.NotEmpty(t, report.Warnings)
	assert.Contains(t, report.Warnings[0], "Low data quality")
}

func TestAuditShortContentCountsCharacters(t *testing.T) {
	store := newTestStore(t)

	// 3 characters of Devanagari are 9 bytes; the short-content check must
	// still flag them.
	require.NoError(t, store.Save([]Record{
		{ID: "entry_1", Type: TypeProverb, Timestamp: "2026-08-01T10:00:00Z", Content: "दीप", Language: "Hindi"},
		{ID: "entry_2", Type: TypeProverb, Timestamp: "2026-08-01T11:00:00Z", Content: "दीपावली की कथा", Language: "Hindi"},
	}))

	report := store.Audit()

	assert.Equal(t, 1, report.ValidEntries)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, "entry_1", report.Issues[0].EntryID)
	assert.Contains(t, report.Issues[0].Problems, "content too short")
}

func TestAuditMissingTimestamp(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save([]Record{
		{ID: "entry_1", Type: TypeProverb, Content: "no timestamp at all"},
	}))

	report := store.Audit()
	require.Len(t, report.Issues, 1)
	assert.Contains(t, report.Issues[0].Problems, "missing required field: timestamp")
	assert.Contains(t, report.Warnings, "No language information available")
}

func TestAuditEmptyCorpus(t *testing.T) {
	store := newTestStore(t)

	report := store.Audit()
	assert.Equal(t, 0, report.TotalEntries)
	assert.Empty(t, report.Issues)
	assert.Empty(t, report.Warnings)
}

func TestLoadReturnsCopies(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save([]Record{
		{ID: "entry_1", Type: TypeQuizQuestion, Question: "q", Answer: "a", Options: []string{"a", "b"}},
	}))

	first := store.Load()
	first[0].Options[0] = "mutated"

	second := store.Load()
	assert.Equal(t, "a", second[0].Options[0])
}
