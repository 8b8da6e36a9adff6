package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"stylegraph/application/services"
	"stylegraph/pkg/common"
	"stylegraph/pkg/errors"
)

// ChatHandler serves the chat collaborator endpoint
type ChatHandler struct {
	recommender *services.Recommender
	logger      *zap.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(recommender *services.Recommender, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		recommender: recommender,
		logger:      logger,
	}
}

type chatRequest struct {
	Message string `json:"message"`
}

// Chat handles POST /chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var body chatRequest
	if err := common.ParseJSONBody(r, &body, 16*1024); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}
	if strings.TrimSpace(body.Message) == "" {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "message is required")
		return
	}

	result, err := h.recommender.Chat(r.Context(), body.Message)
	if err != nil {
		h.logger.Error("chat turn failed", zap.Error(err))
		common.RespondError(w, errors.HTTPStatusFor(err), "CHAT_FAILED", "chat request failed")
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}
