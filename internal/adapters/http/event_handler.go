package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/daybook/core/internal/adapters/icsfeed"
	"github.com/daybook/core/internal/application/services"
	"github.com/daybook/core/internal/domain/entities"
	"github.com/daybook/core/internal/infrastructure/logger"
	"github.com/daybook/core/internal/ports"
)

// EventHandler handles event-related requests. Saves and deletes drive the
// reminder scheduler per the save flow: persist first, then arrange (or
// cancel) the reminder, and report the scheduling outcome alongside the
// event.
type EventHandler struct {
	events    *services.EventService
	reminders *services.ReminderService
	logger    *logger.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler(events *services.EventService, reminders *services.ReminderService, logger *logger.Logger) *EventHandler {
	return &EventHandler{
		events:    events,
		reminders: reminders,
		logger:    logger,
	}
}

// EventResponse pairs a saved event with the outcome of its reminder
// scheduling attempt.
type EventResponse struct {
	Event    *entities.Event       `json:"event"`
	Reminder *ports.ScheduleResult `json:"reminder,omitempty"`
}

// ListEvents godoc
// @Summary List events
// @Description List all events, optionally filtered to a single date
// @Tags events
// @Produce json
// @Param date query string false "Only events on this date (YYYY-MM-DD)"
// @Success 200 {array} entities.Event
// @Failure 400 {object} echo.HTTPError
// @Router /events [get]
func (h *EventHandler) ListEvents(c echo.Context) error {
	ctx := c.Request().Context()

	if date := c.QueryParam("date"); date != "" {
		events, err := h.events.ListByDate(ctx, date)
		if err != nil {
			return h.mapError(c, err, "List events by date failed")
		}
		return c.JSON(http.StatusOK, events)
	}

	events, err := h.events.ListAll(ctx)
	if err != nil {
		return h.mapError(c, err, "List events failed")
	}
	return c.JSON(http.StatusOK, events)
}

// GetEvent godoc
// @Summary Get event by ID
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} entities.Event
// @Failure 404 {object} echo.HTTPError
// @Router /events/{id} [get]
func (h *EventHandler) GetEvent(c echo.Context) error {
	event, err := h.events.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.mapError(c, err, "Get event failed")
	}
	return c.JSON(http.StatusOK, event)
}

// CreateEvent godoc
// @Summary Create a new event
// @Description Create an event and schedule its reminder; the response carries the scheduling outcome
// @Tags events
// @Accept json
// @Produce json
// @Param request body ports.CreateEventRequest true "Event data"
// @Success 201 {object} EventResponse
// @Failure 400 {object} echo.HTTPError
// @Router /events [post]
func (h *EventHandler) CreateEvent(c echo.Context) error {
	var req ports.CreateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	event, err := h.events.Create(ctx, req)
	if err != nil {
		return h.mapError(c, err, "Create event failed")
	}

	result := h.reminders.Schedule(ctx, event)
	return c.JSON(http.StatusCreated, EventResponse{Event: event, Reminder: &result})
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Partial update; only supplied fields change and the reminder is re-scheduled
// @Tags events
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body ports.UpdateEventRequest true "Fields to change"
// @Success 200 {object} EventResponse
// @Failure 400 {object} echo.HTTPError
// @Failure 404 {object} echo.HTTPError
// @Router /events/{id} [put]
func (h *EventHandler) UpdateEvent(c echo.Context) error {
	var req ports.UpdateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	id := c.Param("id")

	event, err := h.events.Update(ctx, id, req)
	if err != nil {
		return h.mapError(c, err, "Update event failed")
	}

	h.reminders.CancelForEvent(ctx, id)
	result := h.reminders.Schedule(ctx, event)
	return c.JSON(http.StatusOK, EventResponse{Event: event, Reminder: &result})
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Delete the event and cancel its armed reminder
// @Tags events
// @Param id path string true "Event ID"
// @Success 204
// @Failure 404 {object} echo.HTTPError
// @Router /events/{id} [delete]
func (h *EventHandler) DeleteEvent(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	removed, err := h.events.Delete(ctx, id)
	if err != nil {
		return h.mapError(c, err, "Delete event failed")
	}
	if !removed {
		return echo.NewHTTPError(http.StatusNotFound, "Event not found")
	}

	h.reminders.CancelForEvent(ctx, id)
	return c.NoContent(http.StatusNoContent)
}

// UpcomingEvents godoc
// @Summary List upcoming events
// @Description Events on or after today, ascending by start, capped at limit
// @Tags events
// @Produce json
// @Param limit query int false "Maximum number of events (default 10)"
// @Success 200 {array} entities.Event
// @Failure 400 {object} echo.HTTPError
// @Router /events/upcoming [get]
func (h *EventHandler) UpcomingEvents(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid limit")
		}
		limit = n
	}

	events, err := h.events.Upcoming(c.Request().Context(), limit)
	if err != nil {
		return h.mapError(c, err, "List upcoming events failed")
	}
	return c.JSON(http.StatusOK, events)
}

// RequestPermission godoc
// @Summary Request notification permission
// @Tags notifications
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /notifications/permission [post]
func (h *EventHandler) RequestPermission(c echo.Context) error {
	granted, err := h.reminders.RequestPermission(c.Request().Context())
	if err != nil {
		h.logger.Errorw("Permission request failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Permission request failed")
	}
	return c.JSON(http.StatusOK, map[string]bool{"granted": granted})
}

// ExportCalendar godoc
// @Summary Export calendar
// @Description All stored events as an iCalendar feed
// @Tags calendar
// @Produce text/calendar
// @Success 200 {string} string "iCalendar document"
// @Router /calendar.ics [get]
func (h *EventHandler) ExportCalendar(c echo.Context) error {
	events, err := h.events.ListAll(c.Request().Context())
	if err != nil {
		return h.mapError(c, err, "Calendar export failed")
	}

	payload, err := icsfeed.BuildCalendar(events)
	if err != nil {
		h.logger.Errorw("Calendar export failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Calendar export failed")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="daybook.ics"`)
	return c.Blob(http.StatusOK, "text/calendar; charset=utf-8", payload)
}

func (h *EventHandler) mapError(c echo.Context, err error, msg string) error {
	switch {
	case errors.Is(err, entities.ErrEventNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Event not found")
	case errors.Is(err, entities.ErrInvalidTitle),
		errors.Is(err, entities.ErrInvalidDate),
		errors.Is(err, entities.ErrInvalidTime),
		errors.Is(err, entities.ErrInvalidReminder):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, entities.ErrStorageFailure):
		h.logger.Errorw(msg, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to save changes")
	default:
		h.logger.Errorw(msg, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal error")
	}
}
