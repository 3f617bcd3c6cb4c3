package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/culture-explorer/backend/internal/corpus"
	"github.com/culture-explorer/backend/internal/metrics"
	"github.com/culture-explorer/backend/internal/storage/sqlite"
	"github.com/culture-explorer/backend/pkg/logger"
)

// MaintenanceHandler exposes the corpus housekeeping operations: integrity
// audit, duplicate pruning, snapshots, and the submission attempt log.
type MaintenanceHandler struct {
	store      *corpus.Store
	attemptLog *sqlite.Client
}

func NewMaintenanceHandler(store *corpus.Store, attemptLog *sqlite.Client) *MaintenanceHandler {
	return &MaintenanceHandler{
		store:      store,
		attemptLog: attemptLog,
	}
}

func (h *MaintenanceHandler) Audit(c *fiber.Ctx) error {
	return c.JSON(h.store.Audit())
}

func (h *MaintenanceHandler) Deduplicate(c *fiber.Ctx) error {
	removed, err := h.store.Deduplicate()
	if err != nil {
		logger.Error("Deduplication failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Deduplication failed - please try again",
		})
	}

	if removed > 0 {
		metrics.CorpusEntries.Set(float64(len(h.store.Load())))
	}

	return c.JSON(fiber.Map{
		"removed": removed,
	})
}

func (h *MaintenanceHandler) Snapshot(c *fiber.Ctx) error {
	path, err := h.store.Snapshot()
	if err != nil {
		logger.Error("Snapshot failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Snapshot failed - please try again",
		})
	}

	if path == "" {
		return c.JSON(fiber.Map{
			"message": "Corpus is empty, nothing to snapshot",
		})
	}
	return c.JSON(fiber.Map{
		"snapshot": path,
	})
}

func (h *MaintenanceHandler) Submissions(c *fiber.Ctx) error {
	if h.attemptLog == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Submission log is not configured",
		})
	}

	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	entries, err := h.attemptLog.GetRecentSubmissions(limit)
	if err != nil {
		logger.Error("Failed to read submission log", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read submission log",
		})
	}
	if entries == nil {
		entries = []sqlite.SubmissionLog{}
	}

	return c.JSON(fiber.Map{
		"submissions": entries,
	})
}

// Acceptances lists accepted submissions with their corpus entry ids, for
// reconciling contribution counters after a crash between append and
// credit.
func (h *MaintenanceHandler) Acceptances(c *fiber.Ctx) error {
	if h.attemptLog == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Submission log is not configured",
		})
	}

	hours, _ := strconv.Atoi(c.Query("hours", "24"))
	since := time.Now().Add(-time.Duration(hours) * time.Hour)

	entries, err := h.attemptLog.AcceptancesSince(since)
	if err != nil {
		logger.Error("Failed to read acceptances", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read acceptances",
		})
	}
	if entries == nil {
		entries = []sqlite.SubmissionLog{}
	}

	return c.JSON(fiber.Map{
		"since":       since.Format(time.RFC3339),
		"acceptances": entries,
	})
}
