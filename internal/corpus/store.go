package corpus

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/culture-explorer/backend/pkg/logger"
)

// Store owns the corpus file: a single JSON array of Records, UTF-8 with
// non-ASCII preserved, plus a rolling <file>.backup written before every
// overwrite and optional timestamped snapshots.
//
// All operations that touch the file run under one mutex. In particular
// Append holds the lock across its whole load-modify-save sequence, so two
// concurrent appends cannot load the same prior state and silently drop
// each other's record.
type Store struct {
	dataFile    string
	snapshotDir string
	mu          sync.Mutex
}

func NewStore(dataFile, snapshotDir string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dataFile), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if snapshotDir == "" {
		snapshotDir = filepath.Dir(dataFile)
	}
	if err := os.MkdirAll(snapshotDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	logger.Info("Corpus store initialized", zap.String("path", dataFile))

	return &Store{dataFile: dataFile, snapshotDir: snapshotDir}, nil
}

// Load returns the full persisted collection. A missing file is an empty
// corpus, and a corrupt or wrong-shaped file is logged and treated as empty
// rather than failing the caller.
func (s *Store) Load() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Store) loadLocked() []Record {
	raw, err := os.ReadFile(s.dataFile)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("Failed to read corpus file, treating as empty",
				zap.String("path", s.dataFile),
				zap.Error(err),
			)
		}
		return []Record{}
	}

	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		var probe interface{}
		if jsonErr := json.Unmarshal(raw, &probe); jsonErr != nil {
			logger.Warn("Corpus file is not valid JSON, treating as empty",
				zap.String("path", s.dataFile),
				zap.Error(jsonErr),
			)
		} else {
			logger.Warn("Corpus file does not hold an array, treating as empty",
				zap.String("path", s.dataFile),
			)
		}
		return []Record{}
	}

	out := make([]Record, 0, len(records))
	for _, r := range records {
		out = append(out, r.Clone())
	}
	return out
}

// Save persists the full collection, first copying the current file to the
// rolling backup path. Last backup wins: the backup is overwritten on every
// save and protects only against a single bad write.
func (s *Store) Save(records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(records)
}

func (s *Store) saveLocked(records []Record) error {
	if current, err := os.ReadFile(s.dataFile); err == nil {
		if err := os.WriteFile(s.dataFile+".backup", current, 0644); err != nil {
			return fmt.Errorf("failed to write backup: %w", err)
		}
	}

	encoded, err := encodeRecords(records)
	if err != nil {
		return fmt.Errorf("failed to encode corpus: %w", err)
	}

	if err := os.WriteFile(s.dataFile, encoded, 0644); err != nil {
		return fmt.Errorf("failed to write corpus file: %w", err)
	}

	return nil
}

// Append assigns a fresh id and creation timestamp to the record, discarding
// any caller-supplied values for both, and persists it at the end of the
// collection. On error the prior persisted state is left intact.
func (s *Store) Append(rec Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.ID = "entry_" + uuid.NewString()
	rec.Timestamp = time.Now().Format(time.RFC3339Nano)

	records := s.loadLocked()
	records = append(records, rec.Clone())

	if err := s.saveLocked(records); err != nil {
		return Record{}, err
	}

	logger.Info("Corpus entry appended",
		zap.String("id", rec.ID),
		zap.String("type", rec.Type),
	)

	return rec, nil
}

// Snapshot writes a timestamped, never-overwritten copy of the corpus for
// retention separate from the rolling backup. Returns the snapshot path,
// or empty when the corpus has nothing to copy.
func (s *Store) Snapshot() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.loadLocked()
	if len(records) == 0 {
		return "", nil
	}

	encoded, err := encodeRecords(records)
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	name := fmt.Sprintf("corpus_backup_%s.json", time.Now().Format("20060102_150405"))
	path := filepath.Join(s.snapshotDir, name)

	if err := os.WriteFile(path, encoded, 0644); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}

	logger.Info("Corpus snapshot created", zap.String("path", path))
	return path, nil
}

// Deduplicate removes every record whose type and content exactly match an
// earlier record, persisting the pruned collection when anything was
// removed. All other fields are ignored for the comparison.
func (s *Store) Deduplicate() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.loadLocked()
	if len(records) <= 1 {
		return 0, nil
	}

	seen := make(map[string]bool, len(records))
	unique := make([]Record, 0, len(records))
	removed := 0

	for _, rec := range records {
		key := rec.Type + "\x00" + rec.Content
		if seen[key] {
			removed++
			continue
		}
		seen[key] = true
		unique = append(unique, rec)
	}

	if removed > 0 {
		if err := s.saveLocked(unique); err != nil {
			return 0, err
		}
		logger.Info("Duplicate corpus entries removed", zap.Int("count", removed))
	}

	return removed, nil
}

type AuditIssue struct {
	EntryIndex int      `json:"entry_index"`
	EntryID    string   `json:"entry_id"`
	Problems   []string `json:"problems"`
}

type AuditReport struct {
	TotalEntries int          `json:"total_entries"`
	ValidEntries int          `json:"valid_entries"`
	Issues       []AuditIssue `json:"issues"`
	Warnings     []string     `json:"warnings"`
}

// Audit scans every record for missing required fields, unparsable
// timestamps and too-short content, and aggregates corpus-level warnings.
func (s *Store) Audit() AuditReport {
	records := s.Load()

	report := AuditReport{
		TotalEntries: len(records),
		Issues:       []AuditIssue{},
		Warnings:     []string{},
	}

	withLanguage := 0

	for i, rec := range records {
		var problems []string

		if rec.Type == "" {
			problems = append(problems, "missing required field: type")
		}
		if rec.Timestamp == "" {
			problems = append(problems, "missing required field: timestamp")
		} else if _, err := parseTimestamp(rec.Timestamp); err != nil {
			problems = append(problems, "invalid timestamp format")
		}
		if rec.Content != "" && utf8.RuneCountInString(strings.TrimSpace(rec.Content)) < 5 {
			problems = append(problems, "content too short")
		}

		if rec.effectiveLanguage() != "" {
			withLanguage++
		}

		if len(problems) > 0 {
			id := rec.ID
			if id == "" {
				id = "unknown"
			}
			report.Issues = append(report.Issues, AuditIssue{
				EntryIndex: i,
				EntryID:    id,
				Problems:   problems,
			})
		} else {
			report.ValidEntries++
		}
	}

	if report.TotalEntries > 0 {
		validPct := float64(report.ValidEntries) / float64(report.TotalEntries) * 100
		if validPct < 90 {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("Low data quality: only %.1f%% of entries are valid", validPct))
		}
		if withLanguage == 0 {
			report.Warnings = append(report.Warnings, "No language information available")
		}
	}

	return report
}

// encodeRecords marshals with two-space indentation and without HTML
// escaping so Devanagari, Tamil and other non-ASCII text stays readable on
// disk.
func encodeRecords(records []Record) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
