package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/qlture/engagement/internal/dto"
)

// Pinger is a store the health check can probe.
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	db    Pinger
	mongo Pinger
	cache Pinger
}

// NewHealthHandler takes the store probes; cache may be nil.
func NewHealthHandler(db, mongo, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, mongo: mongo, cache: cache}
}

func probe(ctx context.Context, p Pinger) string {
	if err := p(ctx); err != nil {
		return "unhealthy: " + err.Error()
	}
	return "ok"
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	resp := dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        probe(ctx, h.db),
		Mongo:     probe(ctx, h.mongo),
	}
	if h.cache != nil {
		resp.Cache = probe(ctx, h.cache)
	}
	if resp.DB != "ok" || resp.Mongo != "ok" {
		resp.Status = "degraded"
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}
