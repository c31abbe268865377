package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"tablevoice/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type mockDialogueService struct {
	mock.Mock
}

func (m *mockDialogueService) HandleTurn(ctx context.Context, in models.TurnInput) (models.TurnResult, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(models.TurnResult), args.Error(1)
}

func setupVoiceRouter(svc *mockDialogueService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewVoiceHandler(svc, zap.NewNop())
	r := gin.New()
	r.POST("/api/voice/turn", h.HandleTurn)
	return r
}

func postTurn(router *gin.Engine, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/voice/turn", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleTurn(t *testing.T) {
	svc := new(mockDialogueService)
	router := setupVoiceRouter(svc)

	svc.On("HandleTurn", mock.Anything, models.TurnInput{
		CallID:    "call-1",
		RawInput:  "book a table",
		InputKind: models.InputSpeech,
	}).Return(models.TurnResult{PromptText: "May I have your name?", ExpectInput: true}, nil).Once()

	w := postTurn(router, gin.H{"call_id": "call-1", "raw_input": "book a table"})

	assert.Equal(t, http.StatusOK, w.Code)
	var result models.TurnResult
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.ExpectInput)
	assert.False(t, result.Terminal)
	assert.Equal(t, "May I have your name?", result.PromptText)
	svc.AssertExpectations(t)
}

func TestHandleTurnRejectsMissingCallID(t *testing.T) {
	svc := new(mockDialogueService)
	router := setupVoiceRouter(svc)

	w := postTurn(router, gin.H{"raw_input": "hello"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "HandleTurn", mock.Anything, mock.Anything)
}

func TestHandleTurnEngineFailureStillSpeaks(t *testing.T) {
	svc := new(mockDialogueService)
	router := setupVoiceRouter(svc)

	apology := models.TurnResult{PromptText: "I'm sorry, we're having technical trouble right now.", Terminal: true}
	svc.On("HandleTurn", mock.Anything, mock.Anything).Return(apology, errors.New("redis down")).Once()

	w := postTurn(router, gin.H{"call_id": "call-2", "raw_input": "hello"})

	// The transport must always get something it can speak.
	assert.Equal(t, http.StatusOK, w.Code)
	var result models.TurnResult
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Terminal)
	svc.AssertExpectations(t)
}
