package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"happyschools/internal/gameplay"
)

type riddlePayload struct {
	ID       int64  `json:"id"`
	Question string `json:"question"`
	Hint     string `json:"hint"`
}

// RiddleSource adapts the riddle endpoints to the session engine.
// Prompt IDs are the server's riddle IDs.
type RiddleSource struct {
	client *Client
}

// RiddleSource returns a collaborator for riddle sessions.
func (c *Client) RiddleSource() *RiddleSource {
	return &RiddleSource{client: c}
}

func (s *RiddleSource) NextPrompt(ctx context.Context, history []string) (*gameplay.Prompt, error) {
	ids := make([]int64, 0, len(history))
	for _, h := range history {
		id, err := strconv.ParseInt(h, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	var resp struct {
		Riddle *riddlePayload `json:"riddle"`
	}
	err := s.client.do(ctx, http.MethodPost, "/api/ai/riddles/next", map[string]interface{}{
		"history": ids,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Riddle == nil {
		return nil, nil
	}
	return &gameplay.Prompt{
		ID:   strconv.FormatInt(resp.Riddle.ID, 10),
		Text: resp.Riddle.Question,
		Hint: resp.Riddle.Hint,
	}, nil
}

func (s *RiddleSource) Evaluate(ctx context.Context, promptID, guess string, history []string) (gameplay.Verdict, error) {
	riddleID, err := strconv.ParseInt(promptID, 10, 64)
	if err != nil {
		return gameplay.Verdict{}, err
	}

	var resp struct {
		Result struct {
			Correct       bool   `json:"correct"`
			CorrectAnswer string `json:"correct_answer"`
		} `json:"result"`
	}
	err = s.client.do(ctx, http.MethodPost, "/api/ai/riddles/check", map[string]interface{}{
		"riddle_id": riddleID,
		"answer":    guess,
	}, &resp)
	if err != nil {
		return gameplay.Verdict{}, err
	}
	return gameplay.Verdict{
		Correct: resp.Result.Correct,
		Answer:  resp.Result.CorrectAnswer,
	}, nil
}

func (s *RiddleSource) Reveal(ctx context.Context, promptID string) (string, error) {
	riddleID, err := strconv.ParseInt(promptID, 10, 64)
	if err != nil {
		return "", err
	}

	var resp struct {
		Result struct {
			CorrectAnswer string `json:"correct_answer"`
		} `json:"result"`
	}
	err = s.client.do(ctx, http.MethodPost, "/api/ai/riddles/reveal", map[string]interface{}{
		"riddle_id": riddleID,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Result.CorrectAnswer, nil
}

// WordChainSource adapts the word-chain endpoints to the session
// engine. Prompts are the opponent's phrases; the phrase doubles as the
// prompt ID.
type WordChainSource struct {
	client *Client
}

// WordChainSource returns a collaborator for word-chain sessions.
func (c *Client) WordChainSource() *WordChainSource {
	return &WordChainSource{client: c}
}

func (s *WordChainSource) NextPrompt(ctx context.Context, history []string) (*gameplay.Prompt, error) {
	var resp struct {
		Word string `json:"word"`
	}
	err := s.client.do(ctx, http.MethodPost, "/api/ai/word-chain/start", map[string]interface{}{
		"history": history,
	}, &resp)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict {
			// Nothing left to play.
			return nil, nil
		}
		return nil, err
	}
	return &gameplay.Prompt{ID: resp.Word, Text: resp.Word}, nil
}

func (s *WordChainSource) Evaluate(ctx context.Context, promptID, guess string, history []string) (gameplay.Verdict, error) {
	var resp struct {
		Valid    bool   `json:"valid"`
		NextWord string `json:"next_word"`
		Message  string `json:"message"`
	}
	err := s.client.do(ctx, http.MethodPost, "/api/ai/word-chain", map[string]interface{}{
		"current_word": guess,
		"history":      history,
	}, &resp)
	if err != nil {
		return gameplay.Verdict{}, err
	}

	verdict := gameplay.Verdict{Correct: resp.Valid, Message: resp.Message}
	if resp.Valid {
		if resp.NextWord == "" {
			verdict.OpponentOut = true
		} else {
			verdict.NextPrompt = &gameplay.Prompt{ID: resp.NextWord, Text: resp.NextWord}
		}
	}
	return verdict, nil
}

func (s *WordChainSource) Reveal(ctx context.Context, promptID string) (string, error) {
	var resp struct {
		Word string `json:"word"`
	}
	err := s.client.do(ctx, http.MethodPost, "/api/ai/word-chain/reveal", map[string]interface{}{
		"current_word": promptID,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Word, nil
}
