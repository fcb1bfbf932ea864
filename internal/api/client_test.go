package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func jsonHandler(t *testing.T, wantMethod, wantPath string, status int, body string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != wantMethod || r.URL.Path != wantPath {
			t.Errorf("got %s %s, want %s %s", r.Method, r.URL.Path, wantMethod, wantPath)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}
}

func TestLoginStoresToken(t *testing.T) {
	server := httptest.NewServer(jsonHandler(t, "POST", "/api/auth/login", http.StatusOK,
		`{"access_token":"tok-123","user":{"id":7,"email":"kid@school.test","name":"Kid","role":"student"}}`))
	defer server.Close()

	client := NewClient(server.URL)
	user, err := client.Login(context.Background(), "kid@school.test", "secretpass")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if user.ID != 7 || user.Role != "student" {
		t.Errorf("user = %+v", user)
	}
	if client.token != "tok-123" {
		t.Errorf("token = %q, want tok-123", client.token)
	}
}

func TestDoSendsBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"riddle":null}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, WithToken("tok-456"))
	if _, err := client.RiddleSource().NextPrompt(context.Background(), nil); err != nil {
		t.Fatalf("NextPrompt() error = %v", err)
	}
	if gotAuth != "Bearer tok-456" {
		t.Errorf("Authorization = %q", gotAuth)
	}
}

func TestDoSurfacesServerErrors(t *testing.T) {
	server := httptest.NewServer(jsonHandler(t, "POST", "/api/auth/login", http.StatusUnauthorized,
		`{"error":"Invalid email or password"}`))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Login(context.Background(), "kid@school.test", "wrong")
	if err == nil {
		t.Fatal("expected an error")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("error type = %T", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized || apiErr.Message != "Invalid email or password" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestRiddleSource(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/ai/riddles/next", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			History []int64 `json:"history"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if len(req.History) != 2 || req.History[0] != 3 || req.History[1] != 9 {
			t.Errorf("history = %v", req.History)
		}
		w.Write([]byte(`{"riddle":{"id":12,"question":"What has keys?","hint":"Music."}}`))
	})
	mux.HandleFunc("POST /api/ai/riddles/check", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			RiddleID int64  `json:"riddle_id"`
			Answer   string `json:"answer"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if req.RiddleID != 12 || req.Answer != "a piano" {
			t.Errorf("check request = %+v", req)
		}
		w.Write([]byte(`{"result":{"correct":true,"correct_answer":"a piano"}}`))
	})
	mux.HandleFunc("POST /api/ai/riddles/reveal", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":{"correct_answer":"a piano"}}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	source := NewClient(server.URL).RiddleSource()
	ctx := context.Background()

	prompt, err := source.NextPrompt(ctx, []string{"3", "9"})
	if err != nil {
		t.Fatalf("NextPrompt() error = %v", err)
	}
	if prompt.ID != "12" || prompt.Text != "What has keys?" || prompt.Hint != "Music." {
		t.Errorf("prompt = %+v", prompt)
	}

	verdict, err := source.Evaluate(ctx, "12", "a piano", nil)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if !verdict.Correct || verdict.Answer != "a piano" {
		t.Errorf("verdict = %+v", verdict)
	}

	answer, err := source.Reveal(ctx, "12")
	if err != nil {
		t.Fatalf("Reveal() error = %v", err)
	}
	if answer != "a piano" {
		t.Errorf("answer = %q", answer)
	}
}

func TestWordChainSourceVerdictMapping(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		correct  bool
		nextWord string
		out      bool
	}{
		{
			name:     "accepted with reply",
			body:     `{"valid":true,"next_word":"worm hole","message":""}`,
			correct:  true,
			nextWord: "worm hole",
		},
		{
			name:    "accepted and opponent out",
			body:    `{"valid":true,"next_word":"","message":"I'm out of phrases. You win!"}`,
			correct: true,
			out:     true,
		},
		{
			name: "rejected",
			body: `{"valid":false,"next_word":"","message":"not in the phrase book"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(jsonHandler(t, "POST", "/api/ai/word-chain", http.StatusOK, tt.body))
			defer server.Close()

			verdict, err := NewClient(server.URL).WordChainSource().Evaluate(context.Background(), "book worm", "worm hole", []string{"book worm"})
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}
			if verdict.Correct != tt.correct {
				t.Errorf("Correct = %v, want %v", verdict.Correct, tt.correct)
			}
			if verdict.OpponentOut != tt.out {
				t.Errorf("OpponentOut = %v, want %v", verdict.OpponentOut, tt.out)
			}
			if tt.nextWord == "" && verdict.NextPrompt != nil {
				t.Errorf("NextPrompt = %+v, want nil", verdict.NextPrompt)
			}
			if tt.nextWord != "" && (verdict.NextPrompt == nil || verdict.NextPrompt.ID != tt.nextWord) {
				t.Errorf("NextPrompt = %+v, want %q", verdict.NextPrompt, tt.nextWord)
			}
		})
	}
}

func TestWordChainStartExhaustion(t *testing.T) {
	server := httptest.NewServer(jsonHandler(t, "POST", "/api/ai/word-chain/start", http.StatusConflict,
		`{"error":"No phrases left to play"}`))
	defer server.Close()

	prompt, err := NewClient(server.URL).WordChainSource().NextPrompt(context.Background(), []string{"book worm"})
	if err != nil {
		t.Fatalf("NextPrompt() error = %v", err)
	}
	if prompt != nil {
		t.Errorf("prompt = %+v, want nil on exhaustion", prompt)
	}
}

func TestQuizAccess(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/quizzes/5", jsonHandler(t, "GET", "/api/quizzes/5", http.StatusOK,
		`{"quiz":{"id":5,"title":"Fractions","subject":"math","topic":"fractions","total_questions":1,"deadline":null},
		  "questions":[{"id":41,"text":"Pick A","difficulty":"easy","option_a":"a","option_b":"b","option_c":"c","option_d":"d","order_num":1}]}`))
	mux.HandleFunc("GET /api/quizzes/5/my-result", jsonHandler(t, "GET", "/api/quizzes/5/my-result", http.StatusOK,
		`{"attempted":false}`))
	mux.HandleFunc("POST /api/quizzes/5/submit", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Answers map[string]string `json:"answers"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if req.Answers["41"] != "A" {
			t.Errorf("answers = %v", req.Answers)
		}
		w.Write([]byte(`{"attempted":true,"score":1,"total_questions":1,"percentage":100}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	quizzes := NewClient(server.URL).Quizzes()
	ctx := context.Background()

	quiz, err := quizzes.Definition(ctx, 5)
	if err != nil {
		t.Fatalf("Definition() error = %v", err)
	}
	if quiz.Title != "Fractions" || len(quiz.Questions) != 1 || quiz.Questions[0].ID != 41 {
		t.Errorf("quiz = %+v", quiz)
	}

	existing, err := quizzes.ExistingResult(ctx, 5)
	if err != nil {
		t.Fatalf("ExistingResult() error = %v", err)
	}
	if existing != nil {
		t.Errorf("existing = %+v, want nil", existing)
	}

	result, err := quizzes.Submit(ctx, 5, map[int64]string{41: "A"})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if result.Score != 1 || result.Percentage != 100 {
		t.Errorf("result = %+v", result)
	}
}
