package handlers

import (
	"net/http"
	"strconv"

	"curtaincall/internal/service"

	"github.com/gin-gonic/gin"
)

// @Summary      Device action history
// @Tags         logs
// @Produce      json
// @Param        limit   query     int     false  "Number of entries (max 100)"  default(20)
// @Param        source  query     string  false  "Filter by origin"  Enums(MANUAL,AI,AUTO)
// @Success      200     {object}  map[string]interface{}  "count, logs"
// @Failure      500     {object}  map[string]string
// @Router       /logs [get]
func (h *Handler) getLogs(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		limit = 20
	}

	logs, err := h.services.DeviceLog.List(c.Request.Context(), service.LogFilter{
		Limit:  limit,
		Source: c.Query("source"),
	})
	if err != nil {
		h.serviceError(c, err, "logs_list_failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(logs),
		"logs":  logs,
	})
}
