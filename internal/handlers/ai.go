package handlers

import (
	"net/http"

	"curtaincall/internal/service"

	"github.com/gin-gonic/gin"
)

type aiProcessRequest struct {
	UserInput string `json:"user_input" binding:"required"`
}

// @Summary      AI-assisted command
// @Description  Sends the user's text plus current sensor context to the model and queues the resulting command. The response carries ai_decision (categorical deployments) or ai_response (positional deployments).
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        body  body      aiProcessRequest  true  "Free-text instruction"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /ai_process [post]
// @Security     BearerAuth
func (h *Handler) aiProcess(c *gin.Context) {
	var req aiProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field: user_input"})
		return
	}

	outcome, err := h.services.AIBridge.Decide(c.Request.Context(), req.UserInput)
	if err != nil {
		h.serviceError(c, err, "ai_process_failed")
		return
	}

	resp := gin.H{
		"success":        true,
		"command_id":     outcome.CommandID,
		"sensor_context": outcome.SensorContext,
	}
	if outcome.Format == service.FormatPosition {
		resp["ai_response"] = gin.H{
			"position": outcome.Position,
			"reason":   outcome.ModelReason,
		}
	} else {
		resp["ai_decision"] = gin.H{
			"action": outcome.Action,
			"speed":  outcome.Speed,
			"reason": outcome.Reason,
		}
	}
	c.JSON(http.StatusOK, resp)
}
