package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/culture-explorer/backend/pkg/logger"
)

// SubmissionLog is one recorded submission attempt, accepted or not. The
// log is analytics and reconciliation data; the corpus file stays the only
// source of truth for accepted content.
type SubmissionLog struct {
	ID               string    `json:"id"`
	Username         string    `json:"username"`
	EntryID          string    `json:"entry_id,omitempty"`
	EntryType        string    `json:"entry_type"`
	Accepted         bool      `json:"accepted"`
	QualityScore     int       `json:"quality_score"`
	ValidationMethod string    `json:"validation_method"`
	Outcome          string    `json:"outcome"`
	LatencyMS        int       `json:"latency_ms"`
	CreatedAt        time.Time `json:"created_at"`
}

type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	logger.Info("SQLite submission log initialized", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS submission_log (
		id TEXT PRIMARY KEY,
		username TEXT,
		entry_id TEXT,
		entry_type TEXT NOT NULL,
		accepted INTEGER NOT NULL,
		quality_score INTEGER,
		validation_method TEXT,
		outcome TEXT NOT NULL,
		latency_ms INTEGER,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_submissions_user ON submission_log(username);
	CREATE INDEX IF NOT EXISTS idx_submissions_created ON submission_log(created_at);
	CREATE INDEX IF NOT EXISTS idx_submissions_entry ON submission_log(entry_id);
	`

	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}

func (c *Client) InsertSubmission(entry *SubmissionLog) error {
	query := `
	INSERT INTO submission_log (id, username, entry_id, entry_type, accepted, quality_score, validation_method, outcome, latency_ms, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	accepted := 0
	if entry.Accepted {
		accepted = 1
	}

	_, err := c.db.Exec(query,
		entry.ID,
		entry.Username,
		entry.EntryID,
		entry.EntryType,
		accepted,
		entry.QualityScore,
		entry.ValidationMethod,
		entry.Outcome,
		entry.LatencyMS,
		entry.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert submission log: %w", err)
	}

	return nil
}

func (c *Client) GetRecentSubmissions(limit int) ([]SubmissionLog, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
	SELECT id, username, entry_id, entry_type, accepted, quality_score, validation_method, outcome, latency_ms, created_at
	FROM submission_log
	ORDER BY created_at DESC
	LIMIT ?
	`

	rows, err := c.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query submission log: %w", err)
	}
	defer rows.Close()

	var entries []SubmissionLog
	for rows.Next() {
		var entry SubmissionLog
		var accepted int
		var createdAt int64

		err := rows.Scan(
			&entry.ID,
			&entry.Username,
			&entry.EntryID,
			&entry.EntryType,
			&accepted,
			&entry.QualityScore,
			&entry.ValidationMethod,
			&entry.Outcome,
			&entry.LatencyMS,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission log row: %w", err)
		}

		entry.Accepted = accepted == 1
		entry.CreatedAt = time.Unix(createdAt, 0)
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// AcceptancesSince returns accepted submissions with their entry ids, the
// input for reconciling contribution counters after a crash between append
// and credit.
func (c *Client) AcceptancesSince(since time.Time) ([]SubmissionLog, error) {
	query := `
	SELECT id, username, entry_id, entry_type, accepted, quality_score, validation_method, outcome, latency_ms, created_at
	FROM submission_log
	WHERE accepted = 1 AND entry_id != '' AND created_at >= ?
	ORDER BY created_at ASC
	`

	rows, err := c.db.Query(query, since.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to query acceptances: %w", err)
	}
	defer rows.Close()

	var entries []SubmissionLog
	for rows.Next() {
		var entry SubmissionLog
		var accepted int
		var createdAt int64

		err := rows.Scan(
			&entry.ID,
			&entry.Username,
			&entry.EntryID,
			&entry.EntryType,
			&accepted,
			&entry.QualityScore,
			&entry.ValidationMethod,
			&entry.Outcome,
			&entry.LatencyMS,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan acceptance row: %w", err)
		}

		entry.Accepted = accepted == 1
		entry.CreatedAt = time.Unix(createdAt, 0)
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
