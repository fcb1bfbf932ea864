package handlers

import (
	"net/http"

	"happyschools/internal/models"
	"happyschools/internal/service"
)

// GameHandler serves the riddle and word-chain game endpoints.
type GameHandler struct {
	riddleService *service.RiddleService
	wordService   *service.WordChainService
}

// NewGameHandler creates a new game handler.
func NewGameHandler(riddleService *service.RiddleService, wordService *service.WordChainService) *GameHandler {
	return &GameHandler{
		riddleService: riddleService,
		wordService:   wordService,
	}
}

type riddlePayload struct {
	ID       int64  `json:"id"`
	Question string `json:"question"`
	Hint     string `json:"hint"`
}

func toRiddlePayload(r *models.Riddle) *riddlePayload {
	if r == nil {
		return nil
	}
	return &riddlePayload{ID: r.ID, Question: r.Question, Hint: r.Hint}
}

// NextRiddle handles POST /api/ai/riddles/next. A null riddle in the
// response means the pool is exhausted.
func (h *GameHandler) NextRiddle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		History []int64 `json:"history"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	riddle, err := h.riddleService.Next(req.History)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to pick a riddle", "Failed to pick a riddle", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"riddle": toRiddlePayload(riddle),
	})
}

// CheckRiddle handles POST /api/ai/riddles/check.
func (h *GameHandler) CheckRiddle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RiddleID int64  `json:"riddle_id"`
		Answer   string `json:"answer"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	result, err := h.riddleService.Check(req.RiddleID, req.Answer)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Unknown riddle", "Failed to check riddle", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"result": map[string]interface{}{
			"correct":        result.Correct,
			"correct_answer": result.CorrectAnswer,
		},
	})
}

// RevealRiddle handles POST /api/ai/riddles/reveal.
func (h *GameHandler) RevealRiddle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RiddleID int64 `json:"riddle_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	answer, err := h.riddleService.Reveal(req.RiddleID)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Unknown riddle", "Failed to reveal riddle", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"result": map[string]interface{}{
			"correct_answer": answer,
		},
	})
}

// WordChain handles POST /api/ai/word-chain: the player's phrase goes
// in, the opponent's verdict and reply come out.
func (h *GameHandler) WordChain(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentWord string   `json:"current_word"`
		History     []string `json:"history"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}
	if req.CurrentWord == "" {
		respondWithError(w, http.StatusBadRequest, "current_word is required", "", nil)
		return
	}

	resp := h.wordService.Respond(req.CurrentWord, req.History)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"valid":     resp.Valid,
		"next_word": resp.NextWord,
		"message":   resp.Message,
	})
}

// WordChainStart handles POST /api/ai/word-chain/start: picks an
// opening phrase that avoids everything in the history.
func (h *GameHandler) WordChainStart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		History []string `json:"history"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	word, err := h.wordService.StartWord(req.History)
	if err != nil {
		respondWithError(w, http.StatusConflict, "No phrases left to play", "Failed to start word chain", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"word": word})
}

// WordChainReveal handles POST /api/ai/word-chain/reveal: shows one
// continuation the player could have used.
func (h *GameHandler) WordChainReveal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentWord string   `json:"current_word"`
		History     []string `json:"history"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"word": h.wordService.Continuation(req.CurrentWord, req.History),
	})
}
