package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/culture-explorer/backend/internal/corpus"
	"github.com/culture-explorer/backend/internal/orchestrator"
	"github.com/culture-explorer/backend/pkg/logger"
)

type SubmissionHandler struct {
	orchestrator *orchestrator.Orchestrator
}

func NewSubmissionHandler(orch *orchestrator.Orchestrator) *SubmissionHandler {
	return &SubmissionHandler{orchestrator: orch}
}

// Submit accepts one contribution. The record's id and timestamp are
// store-assigned; anything the client sends for them is ignored.
func (h *SubmissionHandler) Submit(c *fiber.Ctx) error {
	var rec corpus.Record
	if err := c.BodyParser(&rec); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if rec.Type == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Record type is required",
		})
	}

	username, _ := c.Locals("username").(string)
	session := &orchestrator.Session{
		Username: username,
		Language: c.Get("Accept-Language"),
	}

	result := h.orchestrator.Submit(c.Context(), session, rec)

	switch result.Status {
	case orchestrator.StatusAccepted:
		return c.Status(fiber.StatusCreated).JSON(result)
	case orchestrator.StatusUnauthenticated:
		return c.Status(fiber.StatusUnauthorized).JSON(result)
	case orchestrator.StatusStorageError:
		return c.Status(fiber.StatusServiceUnavailable).JSON(result)
	default:
		return c.Status(fiber.StatusUnprocessableEntity).JSON(result)
	}
}
