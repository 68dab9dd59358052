package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	statusOK = "ok"

	errGetState      = "failed to load state"
	errGetStatistics = "failed to load statistics"

	maxStatisticsHours = 24 * 365
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Current system state
// @Description  Full snapshot of the last completed control cycle.
// @Tags         status
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/status [get]
// @Security     BearerAuth
func (h *Handler) getStatus(c *gin.Context) {
	st, err := h.services.Monitoring.GetState(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetState, "get_status_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Current temperatures
// @Description  Per-tank readings and average of the last control cycle.
// @Tags         status
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/temperature [get]
// @Security     BearerAuth
func (h *Handler) getTemperature(c *gin.Context) {
	st, err := h.services.Monitoring.GetState(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetState, "get_temperature_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"readings":       st.Readings,
		"average_temp_c": st.AverageTempC,
		"updated_at":     st.UpdatedAt,
	})
}

// @Summary      Temperature statistics
// @Description  Min/max/avg over the trailing window (default 24h).
// @Tags         status
// @Produce      json
// @Param        hours  query  int  false  "Window size in hours"  example(24)
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/statistics [get]
// @Security     BearerAuth
func (h *Handler) getStatistics(c *gin.Context) {
	var window time.Duration
	if qs := c.Query("hours"); qs != "" {
		hours, err := strconv.Atoi(qs)
		if err != nil || hours <= 0 || hours > maxStatisticsHours {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'hours': positive integer expected"})
			return
		}
		window = time.Duration(hours) * time.Hour
	}

	stats, err := h.services.History.Statistics(c.Request.Context(), window)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetStatistics, "get_statistics_failed", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
