package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type settingUpdateRequest struct {
	Key   string  `json:"key" binding:"required"`
	Value *string `json:"value" binding:"required"`
}

// @Summary      All settings
// @Tags         settings
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "key -> {value, description}"
// @Failure      500  {object}  map[string]string
// @Router       /settings [get]
func (h *Handler) getSettings(c *gin.Context) {
	settings, err := h.services.Settings.GetAll(c.Request.Context())
	if err != nil {
		h.serviceError(c, err, "settings_get_failed")
		return
	}

	out := gin.H{}
	for _, s := range settings {
		out[s.Key] = gin.H{
			"value":       s.Value,
			"description": s.Description,
		}
	}
	c.JSON(http.StatusOK, out)
}

// @Summary      Update a setting
// @Description  Mutates an existing key in place; unknown keys are rejected, never created.
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        body  body      settingUpdateRequest  true  "Key and new value"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /settings [post]
// @Security     BearerAuth
func (h *Handler) postSetting(c *gin.Context) {
	var req settingUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields: key, value"})
		return
	}

	if err := h.services.Settings.Set(c.Request.Context(), req.Key, *req.Value); err != nil {
		h.serviceError(c, err, "settings_update_failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"key":     req.Key,
		"value":   *req.Value,
	})
}
