package handlers

import (
	"errors"
	"net/http"

	"tank_control/internal/config"

	"github.com/gin-gonic/gin"
)

const (
	statusSaved = "saved"

	errSaveSettings = "failed to save settings"
)

// Request DTO for temperature settings. Pointers distinguish "absent"
// from a legitimate zero value.
type temperatureSettingsRequest struct {
	SetpointC       *float64 `json:"setpoint_c" binding:"required"`
	HysteresisC     *float64 `json:"hysteresis_c" binding:"required"`
	MaxTemperatureC *float64 `json:"max_temperature_c" binding:"required"`
}

type pumpSettingsRequest struct {
	PumpDelaySec *int `json:"pump_delay_sec" binding:"required"`
}

type systemSettingsRequest struct {
	UpdateIntervalSec    *int  `json:"update_interval_sec" binding:"required"`
	SensorTimeoutSec     *int  `json:"sensor_timeout_sec" binding:"required"`
	DataRetentionDays    *int  `json:"data_retention_days" binding:"required"`
	HeatingSystemEnabled *bool `json:"heating_system_enabled" binding:"required"`
}

type manualOverrideRequest struct {
	ManualOverride *bool `json:"manual_override" binding:"required"`
	ManualHeating  bool  `json:"manual_heating"`
	ManualPump     bool  `json:"manual_pump"`
}

// respondSettingsError maps validation failures to 400 and everything
// else to 500.
func (h *Handler) respondSettingsError(c *gin.Context, err error, logKey string) {
	if errors.Is(err, config.ErrInvalidParameter) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.logAndJSONError(c, http.StatusInternalServerError, errSaveSettings, logKey, err)
}

// @Summary      Get control settings
// @Tags         settings
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/settings [get]
// @Security     BearerAuth
func (h *Handler) getSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Settings.Get(c.Request.Context()))
}

// @Summary      Save temperature settings
// @Description  Setpoint, hysteresis and safety ceiling are validated and applied together.
// @Tags         settings
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/settings/temperature [post]
// @Security     BearerAuth
func (h *Handler) saveTemperatureSettings(c *gin.Context) {
	var req temperatureSettingsRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	err := h.services.Settings.UpdateTemperature(c.Request.Context(), config.TemperatureSettings{
		SetpointC:       *req.SetpointC,
		HysteresisC:     *req.HysteresisC,
		MaxTemperatureC: *req.MaxTemperatureC,
	})
	if err != nil {
		h.respondSettingsError(c, err, "save_temperature_settings_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusSaved})
}

// @Summary      Save pump settings
// @Tags         settings
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/settings/pump [post]
// @Security     BearerAuth
func (h *Handler) savePumpSettings(c *gin.Context) {
	var req pumpSettingsRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	if err := h.services.Settings.UpdatePump(c.Request.Context(), *req.PumpDelaySec); err != nil {
		h.respondSettingsError(c, err, "save_pump_settings_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusSaved})
}

// @Summary      Save system settings
// @Tags         settings
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/settings/system [post]
// @Security     BearerAuth
func (h *Handler) saveSystemSettings(c *gin.Context) {
	var req systemSettingsRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	err := h.services.Settings.UpdateSystem(c.Request.Context(), config.SystemSettings{
		UpdateIntervalSec:    *req.UpdateIntervalSec,
		SensorTimeoutSec:     *req.SensorTimeoutSec,
		DataRetentionDays:    *req.DataRetentionDays,
		HeatingSystemEnabled: *req.HeatingSystemEnabled,
	})
	if err != nil {
		h.respondSettingsError(c, err, "save_system_settings_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusSaved})
}

// @Summary      Set manual override
// @Description  Applies override, heating and pump flags atomically. Manual mode bypasses automatic control and the pump run-on delay; the safety ceiling still applies.
// @Tags         settings
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/settings/manual [post]
// @Security     BearerAuth
func (h *Handler) saveManualOverride(c *gin.Context) {
	var req manualOverrideRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	err := h.services.Settings.SetManual(c.Request.Context(), *req.ManualOverride, req.ManualHeating, req.ManualPump)
	if err != nil {
		h.respondSettingsError(c, err, "save_manual_override_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":          statusSaved,
		"manual_override": *req.ManualOverride,
	})
}
