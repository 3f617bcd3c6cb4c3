package handlers

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/culture-explorer/backend/internal/corpus"
)

type CorpusHandler struct {
	store *corpus.Store
}

func NewCorpusHandler(store *corpus.Store) *CorpusHandler {
	return &CorpusHandler{store: store}
}

func (h *CorpusHandler) List(c *fiber.Ctx) error {
	filters := filtersFromQuery(c)
	records := h.store.ExportSubset(filters)
	if records == nil {
		records = []corpus.Record{}
	}

	return c.JSON(fiber.Map{
		"total":   len(records),
		"entries": records,
	})
}

func (h *CorpusHandler) Recent(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	records := h.store.Recent(limit)
	if records == nil {
		records = []corpus.Record{}
	}

	return c.JSON(fiber.Map{
		"entries": records,
	})
}

func (h *CorpusHandler) Search(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Query parameter q is required",
		})
	}

	records := h.store.Search(query)
	if records == nil {
		records = []corpus.Record{}
	}

	return c.JSON(fiber.Map{
		"total":   len(records),
		"entries": records,
	})
}

func (h *CorpusHandler) Statistics(c *fiber.Ctx) error {
	return c.JSON(h.store.Statistics())
}

func (h *CorpusHandler) Festivals(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"festivals": corpus.FestivalList(),
		"summary":   h.store.FestivalContentSummary(),
	})
}

// Export streams the filtered corpus subset as JSON or CSV. The subset
// always comes from a full load, so it reflects every currently durable
// record.
func (h *CorpusHandler) Export(c *fiber.Ctx) error {
	filters := filtersFromQuery(c)
	records := h.store.ExportSubset(filters)
	if records == nil {
		records = []corpus.Record{}
	}

	format := c.Query("format", "json")
	switch format {
	case "json":
		c.Set("Content-Disposition", `attachment; filename="corpus_export.json"`)
		return c.JSON(records)
	case "csv":
		payload, err := recordsToCSV(records)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to build CSV export",
			})
		}
		c.Set("Content-Type", "text/csv; charset=utf-8")
		c.Set("Content-Disposition", `attachment; filename="corpus_export.csv"`)
		return c.Send(payload)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unsupported export format",
		})
	}
}

func filtersFromQuery(c *fiber.Ctx) corpus.ExportFilters {
	minQuality, _ := strconv.Atoi(c.Query("min_quality", "0"))

	return corpus.ExportFilters{
		Types:      splitParam(c.Query("type")),
		Languages:  splitParam(c.Query("language")),
		Regions:    splitParam(c.Query("region")),
		Festivals:  splitParam(c.Query("festival")),
		MinQuality: minQuality,
		DateFrom:   c.Query("date_from"),
		DateTo:     c.Query("date_to"),
	}
}

func splitParam(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var csvHeader = []string{
	"id", "type", "timestamp", "title", "content", "category",
	"language", "region", "quality_score", "contributed_by", "festival_event",
}

func recordsToCSV(records []corpus.Record) ([]byte, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}

	for _, rec := range records {
		language := rec.Language
		if language == "" {
			language = rec.UserLanguage
		}
		row := []string{
			rec.ID,
			rec.Type,
			rec.Timestamp,
			rec.Title,
			rec.Content,
			rec.Category,
			language,
			rec.Region,
			fmt.Sprintf("%d", rec.QualityScore),
			rec.ContributedBy,
			rec.FestivalEvent,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}
