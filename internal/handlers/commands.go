package handlers

import (
	"fmt"
	"net/http"

	"curtaincall/internal/models"
	"curtaincall/internal/service"

	"github.com/gin-gonic/gin"
)

type commandRequest struct {
	Action         string `json:"action" binding:"required"`
	TargetPosition *int   `json:"target_position"`
	Source         string `json:"source"`
	Reason         string `json:"reason"`
}

// @Summary      Submit a curtain command
// @Description  Supersedes any still-pending command and queues this one for the next device poll.
// @Tags         commands
// @Accept       json
// @Produce      json
// @Param        body  body      commandRequest  true  "Command"
// @Success      200   {object}  map[string]interface{}  "success, command_id, action, target_position"
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /command [post]
func (h *Handler) postCommand(c *gin.Context) {
	var req commandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field: action (OPEN/CLOSE/STOP)"})
		return
	}

	target := models.PositionUnspecified
	if req.TargetPosition != nil {
		target = *req.TargetPosition
	}
	reason := req.Reason
	if reason == "" && req.TargetPosition != nil {
		reason = fmt.Sprintf("Move to %d%%", target)
	}

	cmd, err := h.services.Commands.Submit(c.Request.Context(), service.SubmitParams{
		Action:         req.Action,
		Speed:          service.ManualSpeed,
		TargetPosition: target,
		Source:         req.Source,
		Reason:         reason,
	})
	if err != nil {
		h.serviceError(c, err, "command_submit_failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"command_id":      cmd.ID,
		"action":          cmd.Action,
		"target_position": cmd.TargetPosition,
	})
}

// @Summary      Device poll for the next command
// @Description  One-shot delivery: the returned command is marked executed. Answers {"action":"NONE"} when nothing is pending.
// @Tags         commands
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "command_id, action, speed, target_position"
// @Failure      500  {object}  map[string]string
// @Router       /command [get]
func (h *Handler) pollCommand(c *gin.Context) {
	delivered, err := h.services.Commands.PollNext(c.Request.Context())
	if err != nil {
		h.serviceError(c, err, "command_poll_failed")
		return
	}
	if delivered == nil {
		c.JSON(http.StatusOK, gin.H{"action": models.ActionNone})
		return
	}
	c.JSON(http.StatusOK, delivered)
}
