package service

import (
	"strings"
	"testing"

	"happyschools/internal/models"
)

func chainServiceWith(phrases ...string) *WordChainService {
	s := &WordChainService{
		byHead:  make(map[string][]models.WordEntry),
		phrases: make(map[string]models.WordEntry),
	}
	for i, phrase := range phrases {
		words := strings.Fields(phrase)
		e := models.WordEntry{ID: int64(i + 1), Phrase: phrase, Head: words[0], Tail: words[1]}
		s.byHead[e.Head] = append(s.byHead[e.Head], e)
		s.phrases[e.Phrase] = e
	}
	return s
}

func TestRespond(t *testing.T) {
	tests := []struct {
		name      string
		phrase    string
		history   []string
		wantValid bool
		wantNext  string
		wantOut   bool
	}{
		{
			name:      "accepted with continuation",
			phrase:    "worm hole",
			history:   []string{"book worm"},
			wantValid: true,
			wantNext:  "hole punch",
		},
		{
			name:      "accepted case and space insensitive",
			phrase:    "  Worm   HOLE ",
			history:   []string{"book worm"},
			wantValid: true,
			wantNext:  "hole punch",
		},
		{
			name:    "not two words",
			phrase:  "worm",
			history: []string{"book worm"},
		},
		{
			name:    "not in dictionary",
			phrase:  "worm food",
			history: []string{"book worm"},
		},
		{
			name:    "does not link",
			phrase:  "hole punch",
			history: []string{"book worm"},
		},
		{
			name:    "already played",
			phrase:  "book worm",
			history: []string{"worm hole", "book worm"},
		},
		{
			name:      "opponent concedes when out of continuations",
			phrase:    "hole punch",
			history:   []string{"book worm", "worm hole"},
			wantValid: true,
			wantOut:   true,
		},
		{
			name:      "empty history accepts any dictionary phrase",
			phrase:    "book worm",
			wantValid: true,
			wantNext:  "worm hole",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := chainServiceWith("book worm", "worm hole", "hole punch")
			resp := s.Respond(tt.phrase, tt.history)
			if resp.Valid != tt.wantValid {
				t.Fatalf("Valid = %v, want %v (message %q)", resp.Valid, tt.wantValid, resp.Message)
			}
			if resp.NextWord != tt.wantNext {
				t.Errorf("NextWord = %q, want %q", resp.NextWord, tt.wantNext)
			}
			if tt.wantOut && resp.Message == "" {
				t.Error("expected a concession message")
			}
			if !tt.wantValid && resp.Message == "" {
				t.Error("rejection should carry a message")
			}
		})
	}
}

func TestRespondNeverReusesItsOwnWords(t *testing.T) {
	s := chainServiceWith("book worm", "worm hole", "hole punch", "punch line", "line dance")

	history := []string{"book worm"}
	phrase := "worm hole"
	for i := 0; i < 2; i++ {
		resp := s.Respond(phrase, history)
		if !resp.Valid {
			t.Fatalf("turn %d: rejected %q: %s", i, phrase, resp.Message)
		}
		for _, h := range history {
			if resp.NextWord == h {
				t.Fatalf("reply %q already in history %v", resp.NextWord, history)
			}
		}
		if resp.NextWord == "" {
			return
		}
		history = append(history, phrase, resp.NextWord)
		phrase = ""
		// Find the player's forced continuation.
		tail := s.phrases[resp.NextWord].Tail
		for _, e := range s.byHead[tail] {
			phrase = e.Phrase
		}
		if phrase == "" {
			return
		}
	}
}

func TestStartWord(t *testing.T) {
	s := chainServiceWith("book worm", "worm hole")

	word, err := s.StartWord(nil)
	if err != nil {
		t.Fatalf("StartWord() error = %v", err)
	}
	if _, ok := s.phrases[word]; !ok {
		t.Errorf("StartWord() = %q, not in dictionary", word)
	}

	word, err = s.StartWord([]string{"book worm"})
	if err != nil {
		t.Fatalf("StartWord() with history error = %v", err)
	}
	if word != "worm hole" {
		t.Errorf("StartWord() = %q, want the only unused phrase", word)
	}

	if _, err := s.StartWord([]string{"book worm", "worm hole"}); err == nil {
		t.Error("StartWord() with everything used should fail")
	}
}

func TestContinuation(t *testing.T) {
	s := chainServiceWith("book worm", "worm hole", "hole punch")

	if got := s.Continuation("book worm", nil); got != "worm hole" {
		t.Errorf("Continuation() = %q, want %q", got, "worm hole")
	}
	if got := s.Continuation("book worm", []string{"worm hole"}); got != "" {
		t.Errorf("Continuation() with used reply = %q, want empty", got)
	}
	if got := s.Continuation("not a phrase", nil); got != "" {
		t.Errorf("Continuation() of unknown phrase = %q, want empty", got)
	}
}

func TestDefaultPhrasesAreWellFormed(t *testing.T) {
	seen := make(map[string]bool)
	for _, phrase := range defaultPhrases {
		if seen[phrase] {
			t.Errorf("duplicate phrase %q", phrase)
		}
		seen[phrase] = true
		if len(strings.Fields(phrase)) != 2 {
			t.Errorf("phrase %q is not two words", phrase)
		}
		if phrase != strings.ToLower(phrase) {
			t.Errorf("phrase %q is not lowercase", phrase)
		}
	}
}
