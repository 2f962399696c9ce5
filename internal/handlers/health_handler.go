package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Pinger is satisfied by *database.Store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports process liveness and database reachability.
type HealthHandler struct {
	db  Pinger
	log *zap.Logger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db Pinger, log *zap.Logger) *HealthHandler {
	return &HealthHandler{db: db, log: log}
}

// HandleHealth always answers 200 while the process is up; "database" is
// "down" when the store cannot be reached.
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	dbStatus := "up"
	if err := h.db.Ping(c.UserContext()); err != nil {
		h.log.Warn("database ping failed", zap.Error(err))
		dbStatus = "down"
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"database":  dbStatus,
	})
}
