package handlers

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/yarrow/pkg/logging"
	"github.com/Ramsey-B/yarrow/pkg/models"
	"github.com/Ramsey-B/yarrow/pkg/risk"
)

// DealerEventRepo is the store surface the dealer handlers need.
type DealerEventRepo interface {
	ListDealerEvents(ctx context.Context) ([]models.UnifiedEvent, error)
}

// DealerHandler serves on-demand dealer risk rankings
type DealerHandler struct {
	repo   DealerEventRepo
	scorer *risk.Scorer
	logger logging.Logger
}

// NewDealerHandler creates a new dealer handler
func NewDealerHandler(repo DealerEventRepo, scorer *risk.Scorer, logger logging.Logger) *DealerHandler {
	return &DealerHandler{
		repo:   repo,
		scorer: scorer,
		logger: logger,
	}
}

// RegisterRoutes registers dealer routes
func (h *DealerHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/dealers/risk", h.Risk)
}

// Risk scores every dealer's events and returns the ranking. Scores are
// derived from stored events on each request, never persisted.
func (h *DealerHandler) Risk(c echo.Context) error {
	ctx := c.Request().Context()

	limit, err := ParseLimit(c)
	if err != nil {
		return err
	}

	events, err := h.repo.ListDealerEvents(ctx)
	if err != nil {
		return err
	}

	batch := make([]*models.UnifiedEvent, len(events))
	for i := range events {
		batch[i] = &events[i]
	}

	records := h.scorer.Score(batch)
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	return SuccessResponse(c, map[string]any{
		"dealers": records,
		"count":   len(records),
	})
}
