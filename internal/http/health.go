package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/librarian/internal/database"
)

// HealthStore is implemented by *database.Database.
type HealthStore interface {
	Ping(ctx context.Context) error
	Stats(ctx context.Context) (database.Stats, error)
}

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
	Authors int64             `json:"authors"`
	Books   int64             `json:"books"`
}

type HealthController struct {
	store   HealthStore
	version string
}

func NewHealthController(store HealthStore, version string) *HealthController {
	return &HealthController{
		store:   store,
		version: version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	health := HealthResponse{
		Status:  "healthy",
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  make(map[string]string),
	}

	ctx := c.Request.Context()
	switch {
	case h.store == nil:
		health.Checks["database"] = "not configured"
	default:
		if err := h.store.Ping(ctx); err != nil {
			health.Checks["database"] = "error: " + err.Error()
			health.Status = "unhealthy"
			break
		}
		health.Checks["database"] = "ok"

		if stats, err := h.store.Stats(ctx); err == nil {
			health.Authors = stats.Authors
			health.Books = stats.Books
		}
	}

	statusCode := http.StatusOK
	if health.Status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
