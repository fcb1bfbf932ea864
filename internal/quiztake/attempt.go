// Package quiztake implements the student side of a timed quiz: load the
// definition, buffer answers, count down to the deadline, and produce
// exactly one submission no matter how timer ticks and manual submits
// interleave.
package quiztake

import (
	"context"
	"errors"
	"sync"
	"time"

	"happyschools/internal/gameplay"
)

var (
	// ErrDeadlinePassed is returned by Load when the quiz deadline is
	// already in the past; no editable attempt is constructed.
	ErrDeadlinePassed = errors.New("quiz deadline has passed")

	// ErrNotLoaded is returned by actions invoked before a successful
	// Load.
	ErrNotLoaded = errors.New("quiz not loaded")
)

// Question is one multiple-choice question as served to a student. The
// correct answer never reaches the client.
type Question struct {
	ID         int64
	Text       string
	Difficulty string
	OptionA    string
	OptionB    string
	OptionC    string
	OptionD    string
	OrderNum   int
}

// Quiz is a quiz definition as served to a student.
type Quiz struct {
	ID             int64
	Title          string
	Subject        string
	Topic          string
	TotalQuestions int
	Deadline       *time.Time
	Questions      []Question
}

// Result is the graded outcome. Percentage is reported by the
// collaborator and never recomputed locally.
type Result struct {
	Score          int
	TotalQuestions int
	Percentage     float64
}

// QuizService is the remote collaborator the attempt depends on.
type QuizService interface {
	Definition(ctx context.Context, quizID int64) (*Quiz, error)
	// ExistingResult returns the stored result for this student, or nil
	// when the quiz has not been attempted yet.
	ExistingResult(ctx context.Context, quizID int64) (*Result, error)
	Submit(ctx context.Context, quizID int64, answers map[int64]string) (*Result, error)
}

// Attempt is one student's pass through one quiz.
type Attempt struct {
	svc    QuizService
	quizID int64

	mu         sync.Mutex
	quiz       *Quiz
	answers    map[int64]string
	submitted  bool
	submitting bool
	result     *Result
	countdown  *gameplay.Countdown
	// autoErr keeps the last auto-submit failure for display; the next
	// tick or manual submit retries.
	autoErr error
}

// NewAttempt creates an attempt for the given quiz. Load must succeed
// before answers can be recorded.
func NewAttempt(svc QuizService, quizID int64) *Attempt {
	return &Attempt{
		svc:     svc,
		quizID:  quizID,
		answers: make(map[int64]string),
	}
}

// Load prepares the attempt. A previously stored result short-circuits
// straight to the result view: the question set is not fetched and no
// editable state is constructed, which makes re-entry after submission
// idempotent. For timed quizzes the remaining seconds are derived once,
// here, from the deadline and the local clock.
func (a *Attempt) Load(ctx context.Context) error {
	existing, err := a.svc.ExistingResult(ctx, a.quizID)
	if err != nil {
		return err
	}
	if existing != nil {
		a.mu.Lock()
		a.result = existing
		a.submitted = true
		a.mu.Unlock()
		return nil
	}

	quiz, err := a.svc.Definition(ctx, a.quizID)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.quiz = quiz
	if quiz.Deadline != nil {
		remaining := int(time.Until(*quiz.Deadline).Seconds())
		if remaining <= 0 {
			a.quiz = nil
			return ErrDeadlinePassed
		}
		a.countdown = gameplay.NewCountdown(remaining, nil, a.expire)
		a.countdown.Start()
	}
	return nil
}

// expire is the countdown's zero callback: submit whatever is buffered,
// without confirmation. A failed auto-submit is retried by Tick calls
// from the caller (or a manual submit); the exactly-once guarantee only
// covers successful submission.
func (a *Attempt) expire() {
	_, err := a.Submit(context.Background())
	a.mu.Lock()
	a.autoErr = err
	a.mu.Unlock()
}

// Answer records a choice for a question, overwriting any earlier choice.
// No correctness check happens locally. A no-op once submitted.
func (a *Attempt) Answer(questionID int64, choice string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.submitted || a.quiz == nil {
		return
	}
	a.answers[questionID] = choice
}

// Submit sends the buffered answers. It is safe against double manual
// submission and against the timer firing while a manual submit is in
// flight: across any interleaving the transition to submitted happens
// exactly once, and later calls return the stored result. A failed
// submission leaves submitted false so it can be retried.
func (a *Attempt) Submit(ctx context.Context) (*Result, error) {
	a.mu.Lock()
	if a.submitted {
		res := a.result
		a.mu.Unlock()
		return res, nil
	}
	if a.submitting {
		a.mu.Unlock()
		return nil, nil
	}
	if a.quiz == nil {
		a.mu.Unlock()
		return nil, ErrNotLoaded
	}
	a.submitting = true
	answers := make(map[int64]string, len(a.answers))
	for id, choice := range a.answers {
		answers[id] = choice
	}
	a.mu.Unlock()

	result, err := a.svc.Submit(ctx, a.quizID, answers)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.submitting = false
	if err != nil {
		return nil, err
	}
	a.submitted = true
	a.result = result
	if a.countdown != nil {
		a.countdown.Stop()
	}
	return result, nil
}

// Tick advances the attempt clock by one second; reaching zero triggers
// the automatic submit. Untimed and submitted attempts ignore ticks. A
// tick after a failed auto-submit retries the submission.
func (a *Attempt) Tick() {
	a.mu.Lock()
	c := a.countdown
	submitted := a.submitted
	failed := a.autoErr != nil
	a.mu.Unlock()
	if c == nil || submitted {
		return
	}
	if c.Remaining() == 0 {
		if failed {
			a.expire()
		}
		return
	}
	c.Tick()
}

// SecondsRemaining returns the clock, ok=false for untimed quizzes. Never
// negative.
func (a *Attempt) SecondsRemaining() (int, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.countdown == nil {
		return 0, false
	}
	return a.countdown.Remaining(), true
}

// Quiz returns the loaded definition, nil when the attempt went straight
// to a stored result.
func (a *Attempt) Quiz() *Quiz {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.quiz
}

// Answers returns a copy of the buffered answers.
func (a *Attempt) Answers() map[int64]string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[int64]string, len(a.answers))
	for id, choice := range a.answers {
		out[id] = choice
	}
	return out
}

// Submitted reports whether the one allowed submission has happened.
func (a *Attempt) Submitted() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.submitted
}

// Result returns the graded result once submitted, nil before.
func (a *Attempt) Result() *Result {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.result
}

// AutoSubmitErr returns the last failure of the deadline auto-submit, if
// any. Cleared by a later successful submission.
func (a *Attempt) AutoSubmitErr() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.submitted {
		return nil
	}
	return a.autoErr
}

// Close stops the attempt clock.
func (a *Attempt) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.countdown != nil {
		a.countdown.Stop()
	}
}
