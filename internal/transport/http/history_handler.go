package http

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"movie-quiz-service/internal/app"
	"movie-quiz-service/internal/domain"
)

// HistoryHandler serves GET /history?sessionId=...&limit=...
type HistoryHandler struct {
	service *app.QuizService
}

func NewHistoryHandler(service *app.QuizService) *HistoryHandler {
	return &HistoryHandler{service: service}
}

type historyResponse struct {
	SessionID string               `json:"sessionId"`
	Rounds    []domain.RoundRecord `json:"rounds"`
}

func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		http.Error(w, "missing sessionId", http.StatusBadRequest)
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	rounds, err := h.service.History(r.Context(), sessionID, limit)
	if err != nil {
		log.Printf("history for %s: %v", sessionID, err)
		http.Error(w, "history unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(historyResponse{SessionID: sessionID, Rounds: rounds})
}
