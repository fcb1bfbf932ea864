package api

import (
	"context"
	"net/http"
	"time"

	"happyschools/internal/quiztake"
)

// QuizAccess adapts the quiz endpoints to the attempt engine.
type QuizAccess struct {
	client *Client
}

// Quizzes returns the quiz service backed by this client.
func (c *Client) Quizzes() *QuizAccess {
	return &QuizAccess{client: c}
}

func (q *QuizAccess) Definition(ctx context.Context, quizID int64) (*quiztake.Quiz, error) {
	var resp struct {
		Quiz struct {
			ID             int64      `json:"id"`
			Title          string     `json:"title"`
			Subject        string     `json:"subject"`
			Topic          string     `json:"topic"`
			TotalQuestions int        `json:"total_questions"`
			Deadline       *time.Time `json:"deadline"`
		} `json:"quiz"`
		Questions []struct {
			ID         int64  `json:"id"`
			Text       string `json:"text"`
			Difficulty string `json:"difficulty"`
			OptionA    string `json:"option_a"`
			OptionB    string `json:"option_b"`
			OptionC    string `json:"option_c"`
			OptionD    string `json:"option_d"`
			OrderNum   int    `json:"order_num"`
		} `json:"questions"`
	}
	if err := q.client.do(ctx, http.MethodGet, quizPath(quizID), nil, &resp); err != nil {
		return nil, err
	}

	quiz := &quiztake.Quiz{
		ID:             resp.Quiz.ID,
		Title:          resp.Quiz.Title,
		Subject:        resp.Quiz.Subject,
		Topic:          resp.Quiz.Topic,
		TotalQuestions: resp.Quiz.TotalQuestions,
		Deadline:       resp.Quiz.Deadline,
	}
	for _, question := range resp.Questions {
		quiz.Questions = append(quiz.Questions, quiztake.Question{
			ID:         question.ID,
			Text:       question.Text,
			Difficulty: question.Difficulty,
			OptionA:    question.OptionA,
			OptionB:    question.OptionB,
			OptionC:    question.OptionC,
			OptionD:    question.OptionD,
			OrderNum:   question.OrderNum,
		})
	}
	return quiz, nil
}

func (q *QuizAccess) ExistingResult(ctx context.Context, quizID int64) (*quiztake.Result, error) {
	var resp struct {
		Attempted      bool    `json:"attempted"`
		Score          int     `json:"score"`
		TotalQuestions int     `json:"total_questions"`
		Percentage     float64 `json:"percentage"`
	}
	if err := q.client.do(ctx, http.MethodGet, quizPath(quizID)+"/my-result", nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Attempted {
		return nil, nil
	}
	return &quiztake.Result{
		Score:          resp.Score,
		TotalQuestions: resp.TotalQuestions,
		Percentage:     resp.Percentage,
	}, nil
}

func (q *QuizAccess) Submit(ctx context.Context, quizID int64, answers map[int64]string) (*quiztake.Result, error) {
	payload := make(map[string]string, len(answers))
	for questionID, option := range answers {
		payload[formatID(questionID)] = option
	}

	var resp struct {
		Score          int     `json:"score"`
		TotalQuestions int     `json:"total_questions"`
		Percentage     float64 `json:"percentage"`
	}
	err := q.client.do(ctx, http.MethodPost, quizPath(quizID)+"/submit", map[string]interface{}{
		"answers": payload,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &quiztake.Result{
		Score:          resp.Score,
		TotalQuestions: resp.TotalQuestions,
		Percentage:     resp.Percentage,
	}, nil
}
