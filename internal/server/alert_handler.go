package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type TestAlertRequest struct {
	Message string `json:"message" binding:"required,max=500"`
}

// handleTestAlert sends a test message through the alert channels
// @Summary Send a test alert
// @Description Dispatches a message through every configured notification channel to verify alert delivery
// @Tags alerts
// @Accept json
// @Produce json
// @Param req body TestAlertRequest true "test alert request"
// @Success 200 {object} map[string]string "dispatched"
// @Failure 400 {object} ErrorResponse "error"
// @Router /api/v1/alerts/test [post]
func (s *Server) handleTestAlert(c *gin.Context) {
	var req TestAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, http.StatusBadRequest, err)
		return
	}

	if s.notifier == nil || !s.notifier.Configured() {
		s.writeError(c, http.StatusBadRequest, fmt.Errorf("no notification channel configured"))
		return
	}

	s.notifier.Dispatch(c.Request.Context(), req.Message, nil)

	c.JSON(http.StatusOK, gin.H{"message": "dispatched"})
}
