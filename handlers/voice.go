package handlers

import (
	"net/http"

	"tablevoice/models"
	"tablevoice/services/dialogue"
	"tablevoice/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VoiceHandler exposes the dialogue engine to the telephony transport.
type VoiceHandler struct {
	Dialogue dialogue.Service
	Logger   *zap.Logger
}

func NewVoiceHandler(svc dialogue.Service, logger *zap.Logger) *VoiceHandler {
	return &VoiceHandler{Dialogue: svc, Logger: logger}
}

// HandleTurn processes one webhook turn. The response is always a usable
// turn result: engine-side failures surface to the caller as the apology
// terminal, not as an HTTP error the transport can't speak.
func (h *VoiceHandler) HandleTurn(c *gin.Context) {
	var in models.TurnInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid turn input", err.Error())
		return
	}
	if in.InputKind == "" {
		in.InputKind = models.InputSpeech
	}

	result, err := h.Dialogue.HandleTurn(c.Request.Context(), in)
	if err != nil {
		h.Logger.Error("turn ended in engine failure", zap.String("callId", in.CallID), zap.Error(err))
	}
	c.JSON(http.StatusOK, result)
}
