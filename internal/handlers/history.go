package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tank_control/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid   = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

func parseQueryTime(s string) (time.Time, error) {
	// Try multiple accepted formats, normalizing to UTC.
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time format %q", s)
}

// parseRange reads optional from/to query params. A date-only 'to' is
// treated as end-of-day inclusive. Returns false if the request was
// already answered with a 400.
func (h *Handler) parseRange(c *gin.Context) (service.RangeFilter, bool) {
	var f service.RangeFilter
	var err error

	if qs := c.Query("from"); qs != "" {
		f.From, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return f, false
		}
	}
	if qs := c.Query("to"); qs != "" {
		f.To, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return f, false
		}
		if isDateOnly(qs) {
			f.To = f.To.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'from' must be <= 'to'"})
		return f, false
	}
	return f, true
}

// @Summary      Temperature history
// @Description  Per-tank readings in a time range (default: last 24h). Filter by tank with ?tank=1..3.
// @Tags         history
// @Produce      json
// @Param        from  query  string  false  "Start of range (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD')"  example(2026-03-01)
// @Param        to    query  string  false  "End of range; date-only treated as end of day"  example(2026-03-02)
// @Param        tank  query  int     false  "Tank number"  example(1)
// @Success      200  {object}  map[string]interface{}  "count, readings"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/history/temperature [get]
// @Security     BearerAuth
func (h *Handler) getTemperatureHistory(c *gin.Context) {
	rng, ok := h.parseRange(c)
	if !ok {
		return
	}

	tank := 0
	if qs := c.Query("tank"); qs != "" {
		v, err := strconv.Atoi(qs)
		if err != nil || v < 1 || v > 3 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'tank': expected 1..3"})
			return
		}
		tank = v
	}

	readings, err := h.services.History.Temperatures(c.Request.Context(), service.TempFilter{
		RangeFilter: rng,
		Tank:        tank,
	})
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load temperature history", "temperature_history_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":    len(readings),
		"readings": readings,
	})
}

// @Summary      Event history
// @Description  Discrete control events in a time range (default: last 24h).
// @Tags         history
// @Produce      json
// @Param        from  query  string  false  "Start of range"  example(2026-03-01)
// @Param        to    query  string  false  "End of range; date-only treated as end of day"  example(2026-03-02)
// @Param        type  query  string  false  "Event type"  Enums(STARTUP,SHUTDOWN,SENSOR_FAILURE,SAFETY_TRIP,MODE_CHANGE,ACTUATOR_ERROR)
// @Success      200  {object}  map[string]interface{}  "count, events"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/history/events [get]
// @Security     BearerAuth
func (h *Handler) getEventHistory(c *gin.Context) {
	rng, ok := h.parseRange(c)
	if !ok {
		return
	}

	events, err := h.services.History.Events(c.Request.Context(), service.LogFilter{
		RangeFilter: rng,
		Type:        strings.ToUpper(strings.TrimSpace(c.Query("type"))),
	})
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load events", "event_history_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}

// @Summary      Control action history
// @Description  Relay commands (heating_on/heating_off/pump_off) in a time range (default: last 24h).
// @Tags         history
// @Produce      json
// @Param        from  query  string  false  "Start of range"  example(2026-03-01)
// @Param        to    query  string  false  "End of range; date-only treated as end of day"  example(2026-03-02)
// @Success      200  {object}  map[string]interface{}  "count, actions"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/history/control [get]
// @Security     BearerAuth
func (h *Handler) getControlHistory(c *gin.Context) {
	rng, ok := h.parseRange(c)
	if !ok {
		return
	}

	actions, err := h.services.History.Actions(c.Request.Context(), rng)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load control actions", "control_history_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   len(actions),
		"actions": actions,
	})
}
