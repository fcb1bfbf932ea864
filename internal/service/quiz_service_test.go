package service

import (
	"testing"

	"happyschools/internal/models"
)

func TestGradeAnswers(t *testing.T) {
	questions := []models.QuizQuestion{
		{ID: 1, CorrectAnswer: "A"},
		{ID: 2, CorrectAnswer: "C"},
		{ID: 3, CorrectAnswer: "B"},
	}

	tests := []struct {
		name    string
		answers map[int64]string
		want    int
	}{
		{
			name:    "all correct",
			answers: map[int64]string{1: "A", 2: "C", 3: "B"},
			want:    3,
		},
		{
			name:    "some correct",
			answers: map[int64]string{1: "A", 2: "D", 3: "B"},
			want:    2,
		},
		{
			name:    "missing answers count as wrong",
			answers: map[int64]string{1: "A"},
			want:    1,
		},
		{
			name:    "no answers",
			answers: map[int64]string{},
			want:    0,
		},
		{
			name:    "answers for unknown questions ignored",
			answers: map[int64]string{99: "A"},
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GradeAnswers(questions, tt.answers); got != tt.want {
				t.Errorf("GradeAnswers() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		name  string
		score int
		total int
		want  float64
	}{
		{"full marks", 5, 5, 100},
		{"half", 2, 4, 50},
		{"zero score", 0, 10, 0},
		{"zero total", 0, 0, 0},
		{"one third", 1, 3, 100.0 / 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Percentage(tt.score, tt.total); got != tt.want {
				t.Errorf("Percentage(%d, %d) = %v, want %v", tt.score, tt.total, got, tt.want)
			}
		})
	}
}

func TestGenerateQuestions(t *testing.T) {
	questions := generateQuestions(CreateQuizInput{
		Subject:     "math",
		Topic:       "fractions",
		EasyCount:   2,
		MediumCount: 3,
		HardCount:   1,
	})

	if len(questions) != 6 {
		t.Fatalf("generated %d questions, want 6", len(questions))
	}

	counts := map[string]int{}
	for i, q := range questions {
		counts[q.Difficulty]++
		if q.OrderNum != i+1 {
			t.Errorf("question %d has order %d", i, q.OrderNum)
		}
		if q.CorrectAnswer < "A" || q.CorrectAnswer > "D" {
			t.Errorf("question %d has correct answer %q", i, q.CorrectAnswer)
		}
		if q.OptionA == "" || q.OptionB == "" || q.OptionC == "" || q.OptionD == "" {
			t.Errorf("question %d has empty options", i)
		}
	}
	if counts[models.DifficultyEasy] != 2 || counts[models.DifficultyMedium] != 3 || counts[models.DifficultyHard] != 1 {
		t.Errorf("difficulty mix = %v, want 2/3/1", counts)
	}
}
