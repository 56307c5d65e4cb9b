package handlers

import (
	"net/http"
	"strconv"

	"curtaincall/internal/service"

	"github.com/gin-gonic/gin"
)

// Pointer fields so a present-but-zero reading still binds; only truly
// missing fields fail validation.
type sensorDataRequest struct {
	Temperature *float64 `json:"temperature" binding:"required"`
	Humidity    *float64 `json:"humidity" binding:"required"`
	LightLevel  *int     `json:"light_level" binding:"required"`
}

// @Summary      Ingest a sensor reading
// @Description  Stores the reading; when auto_mode=1 the thresholds are evaluated and any fired command is echoed back.
// @Tags         sensors
// @Accept       json
// @Produce      json
// @Param        body  body      sensorDataRequest  true  "Reading"
// @Success      200   {object}  map[string]interface{}  "success, id, auto_command"
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /sensor_data [post]
func (h *Handler) postSensorData(c *gin.Context) {
	var req sensorDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing required fields: temperature, humidity, light_level",
		})
		return
	}

	res, err := h.services.Sensors.Record(c.Request.Context(), service.RecordParams{
		Temperature: *req.Temperature,
		Humidity:    *req.Humidity,
		LightLevel:  *req.LightLevel,
	})
	if err != nil {
		h.serviceError(c, err, "sensor_record_failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"id":           res.ID,
		"auto_command": res.AutoCommand,
	})
}

// @Summary      Latest sensor readings
// @Description  limit=1 (default) returns a single object; larger limits return an array, newest first, capped at 100.
// @Tags         sensors
// @Produce      json
// @Param        limit  query     int  false  "Number of readings"  default(1)
// @Success      200    {object}  map[string]interface{}
// @Failure      500    {object}  map[string]string
// @Router       /sensor_data [get]
func (h *Handler) getSensorData(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "1"))
	if err != nil {
		limit = 1
	}

	readings, err := h.services.Sensors.Latest(c.Request.Context(), limit)
	if err != nil {
		h.serviceError(c, err, "sensor_list_failed")
		return
	}

	// Single-record requests get the object directly, per the dashboard
	// contract.
	if limit <= 1 && len(readings) > 0 {
		c.JSON(http.StatusOK, readings[0])
		return
	}
	c.JSON(http.StatusOK, readings)
}
