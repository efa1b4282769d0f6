package handlers

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/yarrow/internal/repositories/event"
	"github.com/Ramsey-B/yarrow/pkg/logging"
	"github.com/Ramsey-B/yarrow/pkg/models"
)

var validate = validator.New()

// EventRepo is the store surface the event handlers need.
type EventRepo interface {
	List(ctx context.Context, filter event.Filter) ([]models.UnifiedEvent, error)
	ListMissingCrimeLocation(ctx context.Context, limit int) ([]models.UnifiedEvent, error)
	UpdateCrimeLocation(ctx context.Context, id int64, update models.CrimeLocationUpdate) error
}

// EventHandler handles event read and classifier write operations
type EventHandler struct {
	repo   EventRepo
	logger logging.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler(repo EventRepo, logger logging.Logger) *EventHandler {
	return &EventHandler{
		repo:   repo,
		logger: logger,
	}
}

// RegisterRoutes registers event routes
func (h *EventHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/events", h.List)
	g.GET("/events/unclassified", h.ListUnclassified)
	g.PUT("/events/:id/crime-location", h.UpdateCrimeLocation)
}

// List returns events filtered by state and dataset query parameters
func (h *EventHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	limit, err := ParseLimit(c)
	if err != nil {
		return err
	}

	events, err := h.repo.List(ctx, event.Filter{
		State:   c.QueryParam("state"),
		Dataset: c.QueryParam("dataset"),
		Limit:   limit,
	})
	if err != nil {
		return err
	}

	return SuccessResponse(c, map[string]any{
		"events": events,
		"count":  len(events),
	})
}

// ListUnclassified returns the crime location work queue for classifiers
func (h *EventHandler) ListUnclassified(c echo.Context) error {
	ctx := c.Request().Context()

	limit, err := ParseLimit(c)
	if err != nil {
		return err
	}

	events, err := h.repo.ListMissingCrimeLocation(ctx, limit)
	if err != nil {
		return err
	}

	return SuccessResponse(c, map[string]any{
		"events": events,
		"count":  len(events),
	})
}

// UpdateCrimeLocation applies a classifier's crime location to one event
func (h *EventHandler) UpdateCrimeLocation(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := ParseID(c, "id")
	if err != nil {
		return err
	}

	var update models.CrimeLocationUpdate
	if err := c.Bind(&update); err != nil {
		return BadRequest("invalid request body")
	}
	if err := validate.Struct(&update); err != nil {
		return httperror.NewHTTPErrorf(http.StatusBadRequest, "invalid crime location: %v", err)
	}

	if err := h.repo.UpdateCrimeLocation(ctx, id, update); err != nil {
		return err
	}

	h.logger.WithContext(ctx).WithFields(map[string]any{
		"event_id": id,
		"state":    update.State,
	}).Info("Crime location updated")

	return SuccessResponse(c, map[string]any{"updated": id})
}
