package models

import "time"

// Quiz statuses.
const (
	QuizStatusDraft  = "draft"
	QuizStatusActive = "active"
	QuizStatusClosed = "closed"
)

// Question difficulties.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Quiz is a teacher-authored multiple-choice quiz. The question mix is
// described by the difficulty counts; Deadline is optional (nil means
// the quiz is untimed).
type Quiz struct {
	ID             int64
	Title          string
	Subject        string
	Topic          string
	TeacherID      int64
	EasyCount      int
	MediumCount    int
	HardCount      int
	TotalQuestions int
	Deadline       *time.Time
	Status         string
	CreatedAt      time.Time

	Questions []QuizQuestion
}

// QuizQuestion is one question of a quiz. CorrectAnswer holds the option
// letter (A-D) and must never be serialized to students.
type QuizQuestion struct {
	ID            int64
	QuizID        int64
	Text          string
	Difficulty    string
	OptionA       string
	OptionB       string
	OptionC       string
	OptionD       string
	CorrectAnswer string
	OrderNum      int
}

// QuizResult is one student's graded attempt. A student gets at most one
// row per quiz; re-submission returns the stored result.
type QuizResult struct {
	ID             int64
	QuizID         int64
	StudentID      int64
	Score          int
	TotalQuestions int
	Percentage     float64
	SubmittedAt    time.Time
}
