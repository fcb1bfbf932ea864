package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"happyschools/internal/models"
	"happyschools/internal/service"
)

// QuizHandler serves quiz management and quiz taking endpoints.
type QuizHandler struct {
	quizService *service.QuizService
}

// NewQuizHandler creates a new quiz handler.
func NewQuizHandler(quizService *service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

type quizSummary struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	Subject        string     `json:"subject"`
	Topic          string     `json:"topic"`
	TotalQuestions int        `json:"total_questions"`
	Deadline       *time.Time `json:"deadline"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
}

type studentQuestion struct {
	ID         int64  `json:"id"`
	Text       string `json:"text"`
	Difficulty string `json:"difficulty"`
	OptionA    string `json:"option_a"`
	OptionB    string `json:"option_b"`
	OptionC    string `json:"option_c"`
	OptionD    string `json:"option_d"`
	OrderNum   int    `json:"order_num"`
}

type resultPayload struct {
	Attempted      bool      `json:"attempted"`
	Score          int       `json:"score,omitempty"`
	TotalQuestions int       `json:"total_questions,omitempty"`
	Percentage     float64   `json:"percentage,omitempty"`
	SubmittedAt    time.Time `json:"submitted_at,omitzero"`
}

func toQuizSummary(q *models.Quiz) quizSummary {
	return quizSummary{
		ID:             q.ID,
		Title:          q.Title,
		Subject:        q.Subject,
		Topic:          q.Topic,
		TotalQuestions: q.TotalQuestions,
		Deadline:       q.Deadline,
		Status:         q.Status,
		CreatedAt:      q.CreatedAt,
	}
}

func quizIDFromPath(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// CreateQuiz handles POST /api/quizzes (teachers only).
func (h *QuizHandler) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string     `json:"title"`
		Subject     string     `json:"subject"`
		Topic       string     `json:"topic"`
		EasyCount   int        `json:"easy_count"`
		MediumCount int        `json:"medium_count"`
		HardCount   int        `json:"hard_count"`
		Deadline    *time.Time `json:"deadline"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	quiz, err := h.quizService.CreateQuiz(UserFromContext(r).ID, service.CreateQuizInput{
		Title:       req.Title,
		Subject:     req.Subject,
		Topic:       req.Topic,
		EasyCount:   req.EasyCount,
		MediumCount: req.MediumCount,
		HardCount:   req.HardCount,
		Deadline:    req.Deadline,
	})
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), "Failed to create quiz", err)
		return
	}

	writeJSON(w, http.StatusCreated, toQuizSummary(quiz))
}

// ListQuizzes handles GET /api/quizzes (teachers only).
func (h *QuizHandler) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.quizService.ListQuizzesByTeacher(UserFromContext(r).ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list quizzes", "Failed to list quizzes", err)
		return
	}

	summaries := make([]quizSummary, 0, len(quizzes))
	for i := range quizzes {
		summaries = append(summaries, toQuizSummary(&quizzes[i]))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"quizzes": summaries})
}

// CloseQuiz handles POST /api/quizzes/{id}/close (teachers only).
func (h *QuizHandler) CloseQuiz(w http.ResponseWriter, r *http.Request) {
	quizID, err := quizIDFromPath(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quiz ID", "", nil)
		return
	}

	if err := h.quizService.CloseQuiz(quizID, UserFromContext(r).ID); err != nil {
		h.writeQuizError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": models.QuizStatusClosed})
}

// DeleteQuiz handles DELETE /api/quizzes/{id} (teachers only).
func (h *QuizHandler) DeleteQuiz(w http.ResponseWriter, r *http.Request) {
	quizID, err := quizIDFromPath(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quiz ID", "", nil)
		return
	}

	if err := h.quizService.DeleteQuiz(quizID, UserFromContext(r).ID); err != nil {
		h.writeQuizError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type teacherQuestion struct {
	ID            int64  `json:"id"`
	Text          string `json:"text"`
	Difficulty    string `json:"difficulty"`
	OptionA       string `json:"option_a"`
	OptionB       string `json:"option_b"`
	OptionC       string `json:"option_c"`
	OptionD       string `json:"option_d"`
	CorrectAnswer string `json:"correct_answer"`
	OrderNum      int    `json:"order_num"`
}

// GetQuizWithAnswers handles GET /api/quizzes/{id}/answers: the owning
// teacher's view, correct answers included.
func (h *QuizHandler) GetQuizWithAnswers(w http.ResponseWriter, r *http.Request) {
	quizID, err := quizIDFromPath(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quiz ID", "", nil)
		return
	}

	quiz, err := h.quizService.GetQuizForTeacher(quizID, UserFromContext(r).ID)
	if err != nil {
		h.writeQuizError(w, err)
		return
	}

	questions := make([]teacherQuestion, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		questions = append(questions, teacherQuestion{
			ID:            q.ID,
			Text:          q.Text,
			Difficulty:    q.Difficulty,
			OptionA:       q.OptionA,
			OptionB:       q.OptionB,
			OptionC:       q.OptionC,
			OptionD:       q.OptionD,
			CorrectAnswer: q.CorrectAnswer,
			OrderNum:      q.OrderNum,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"quiz":      toQuizSummary(quiz),
		"questions": questions,
	})
}

// GetQuiz handles GET /api/quizzes/{id}: the student-facing quiz
// definition, questions without correct answers.
func (h *QuizHandler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	quizID, err := quizIDFromPath(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quiz ID", "", nil)
		return
	}

	quiz, err := h.quizService.DefinitionForStudent(quizID)
	if err != nil {
		h.writeQuizError(w, err)
		return
	}

	questions := make([]studentQuestion, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		questions = append(questions, studentQuestion{
			ID:         q.ID,
			Text:       q.Text,
			Difficulty: q.Difficulty,
			OptionA:    q.OptionA,
			OptionB:    q.OptionB,
			OptionC:    q.OptionC,
			OptionD:    q.OptionD,
			OrderNum:   q.OrderNum,
		})
	}

	summary := toQuizSummary(quiz)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"quiz":      summary,
		"questions": questions,
	})
}

// MyResult handles GET /api/quizzes/{id}/my-result.
func (h *QuizHandler) MyResult(w http.ResponseWriter, r *http.Request) {
	quizID, err := quizIDFromPath(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quiz ID", "", nil)
		return
	}

	result, err := h.quizService.ResultFor(quizID, UserFromContext(r).ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to look up result", "Failed to look up result", err)
		return
	}
	if result == nil {
		writeJSON(w, http.StatusOK, resultPayload{Attempted: false})
		return
	}

	writeJSON(w, http.StatusOK, resultPayload{
		Attempted:      true,
		Score:          result.Score,
		TotalQuestions: result.TotalQuestions,
		Percentage:     result.Percentage,
		SubmittedAt:    result.SubmittedAt,
	})
}

// Submit handles POST /api/quizzes/{id}/submit. Answers map question
// IDs to option letters; re-submitting returns the stored result.
func (h *QuizHandler) Submit(w http.ResponseWriter, r *http.Request) {
	quizID, err := quizIDFromPath(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quiz ID", "", nil)
		return
	}

	var req struct {
		Answers map[string]string `json:"answers"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	answers := make(map[int64]string, len(req.Answers))
	for key, option := range req.Answers {
		questionID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Answer keys must be question IDs", "", nil)
			return
		}
		answers[questionID] = option
	}

	result, err := h.quizService.Submit(quizID, UserFromContext(r).ID, answers)
	if err != nil {
		h.writeQuizError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resultPayload{
		Attempted:      true,
		Score:          result.Score,
		TotalQuestions: result.TotalQuestions,
		Percentage:     result.Percentage,
		SubmittedAt:    result.SubmittedAt,
	})
}

func (h *QuizHandler) writeQuizError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrQuizNotFound):
		respondWithError(w, http.StatusNotFound, "Quiz not found", "", nil)
	case errors.Is(err, service.ErrQuizNotActive):
		respondWithError(w, http.StatusConflict, "Quiz is not open", "", nil)
	case errors.Is(err, service.ErrNotQuizOwner):
		respondWithError(w, http.StatusForbidden, "Not your quiz", "", nil)
	default:
		respondWithError(w, http.StatusInternalServerError, "Quiz operation failed", "Quiz operation failed", err)
	}
}
