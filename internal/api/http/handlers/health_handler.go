package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auth-gateway/internal/persistence"
)

const readinessTimeout = 2 * time.Second

// HealthHandler responds to liveness and readiness probes. Liveness is
// unconditional; readiness pings Postgres and, when configured, Redis.
type HealthHandler struct {
	serviceName string
	version     string
	postgres    *persistence.Postgres
	redis       *persistence.Redis
}

func NewHealthHandler(serviceName, version string, postgres *persistence.Postgres, redis *persistence.Redis) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, postgres: postgres, redis: redis}
}

// Live reports process liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports readiness. Postgres is required; Redis is optional because
// the rate limiter degrades to its in-memory implementation without it.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), readinessTimeout)
	defer cancel()

	pgErr := h.postgres.Ping(ctx)
	deps := fiber.Map{"postgres": dependencyStatus(pgErr)}
	ready := pgErr == nil

	if h.redis.Enabled() {
		err := h.redis.Ping(ctx)
		deps["redis"] = dependencyStatus(err)
		ready = ready && err == nil
	} else {
		deps["redis"] = "disabled"
	}

	if !ready {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "DEPENDENCY_UNAVAILABLE",
				"message": "one or more dependencies unavailable",
				"details": deps,
			},
		})
	}
	return c.JSON(fiber.Map{"status": "ready", "dependencies": deps})
}

func dependencyStatus(err error) string {
	if err != nil {
		return err.Error()
	}
	return "ok"
}
