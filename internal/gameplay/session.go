package gameplay

import (
	"context"
	"strings"
	"sync"
)

// Status is the lifecycle state of a session.
type Status int

const (
	StatusActive Status = iota
	StatusWon
	StatusLost
)

// EndReason records why a session terminated.
type EndReason string

const (
	EndReasonNone   EndReason = ""
	EndReasonHearts EndReason = "hearts"
	EndReasonTime   EndReason = "time"
	EndReasonWin    EndReason = "win"
)

// Rules parameterizes the session engine per game: starting budgets, the
// optional time limit, and how a verdict translates into points.
type Rules struct {
	Hearts           int
	Skips            int
	TimeLimitSeconds int
	HintsEnabled     bool
	// RecordGuesses adds accepted guesses to the history alongside prompt
	// IDs. Chain games need both sides' words excluded from reuse.
	RecordGuesses bool
	// Points maps a correct (or conceding) verdict to a score increment.
	Points func(Verdict) int
}

// State is a read-only snapshot of a session for display.
type State struct {
	Score          int
	Hearts         int
	SkipsRemaining int
	Status         Status
	EndReason      EndReason
	TimeLeft       int
	AwaitingAnswer bool
	CurrentPrompt  *Prompt
	History        []string
	// FinalAnswer is the revealed answer for the last prompt when the
	// session ended on exhausted hearts.
	FinalAnswer string
}

// TurnResult describes the outcome of a submitted guess or a skip.
type TurnResult struct {
	Correct bool
	// Answer is the revealed answer, set on a correct riddle guess, a
	// skip, or the final heart loss.
	Answer  string
	Message string
	// NextPrompt is the prompt now awaiting an answer, nil when the turn
	// ended the session or left the same prompt in play.
	NextPrompt *Prompt
	Hearts     int
	Status     Status
	EndReason  EndReason
}

// Session drives one round-based guessing game to completion. All methods
// are safe for concurrent use; actions that are not currently legal
// (terminal session, no prompt awaiting an answer, blank guess, another
// call in flight) are no-ops returning (nil, nil) rather than errors, so
// replayed events cannot corrupt state. Collaborator failures are
// returned as errors with the session state untouched.
type Session struct {
	collab Collaborator
	rules  Rules

	mu        sync.Mutex
	score     int
	hearts    int
	skips     int
	history   []string
	current   *Prompt
	awaiting  bool
	busy      bool
	hintUsed  bool
	status    Status
	endReason EndReason
	finalAns  string
	countdown *Countdown
}

// NewSession creates a session with the given rules. Start must be called
// before the first guess.
func NewSession(collab Collaborator, rules Rules) *Session {
	s := &Session{collab: collab, rules: rules}
	s.resetLocked()
	return s
}

func (s *Session) resetLocked() {
	s.score = 0
	s.hearts = s.rules.Hearts
	s.skips = s.rules.Skips
	s.history = nil
	s.current = nil
	s.awaiting = false
	s.hintUsed = false
	s.status = StatusActive
	s.endReason = EndReasonNone
	s.finalAns = ""
	if s.countdown != nil {
		s.countdown.Stop()
		s.countdown = nil
	}
	if s.rules.TimeLimitSeconds > 0 {
		s.countdown = NewCountdown(s.rules.TimeLimitSeconds, nil, s.expireTime)
	}
}

// expireTime is the countdown's zero callback: time running out loses the
// session unless it already ended some other way.
func (s *Session) expireTime() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusActive {
		return
	}
	s.endLocked(StatusLost, EndReasonTime)
}

func (s *Session) endLocked(status Status, reason EndReason) {
	s.status = status
	s.endReason = reason
	s.awaiting = false
	if s.countdown != nil {
		s.countdown.Stop()
	}
}

// Start fetches the first prompt and, for timed games, starts the clock.
// It is a no-op if the session already holds a prompt or is terminal.
func (s *Session) Start(ctx context.Context) (*Prompt, error) {
	s.mu.Lock()
	if s.status != StatusActive || s.busy || s.current != nil {
		s.mu.Unlock()
		return nil, nil
	}
	s.busy = true
	s.mu.Unlock()

	prompt, err := s.collab.NextPrompt(ctx, nil)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if err != nil {
		return nil, err
	}
	if s.status != StatusActive {
		return nil, nil
	}
	if prompt == nil {
		s.endLocked(StatusWon, EndReasonWin)
		return nil, nil
	}
	s.acceptPromptLocked(prompt)
	if s.countdown != nil {
		s.countdown.Start()
	}
	return prompt, nil
}

func (s *Session) acceptPromptLocked(p *Prompt) {
	s.current = p
	s.history = append(s.history, p.ID)
	s.awaiting = true
	s.hintUsed = false
}

// Submit evaluates a guess for the current prompt.
func (s *Session) Submit(ctx context.Context, guess string) (*TurnResult, error) {
	guess = strings.TrimSpace(guess)

	s.mu.Lock()
	if s.status != StatusActive || !s.awaiting || s.busy || guess == "" {
		s.mu.Unlock()
		return nil, nil
	}
	s.busy = true
	promptID := s.current.ID
	history := append([]string(nil), s.history...)
	s.mu.Unlock()

	verdict, err := s.collab.Evaluate(ctx, promptID, guess, history)
	if err != nil {
		s.clearBusy()
		return nil, err
	}

	if verdict.Correct {
		return s.applyCorrect(ctx, guess, verdict, history)
	}
	return s.applyIncorrect(ctx, promptID, verdict)
}

// applyCorrect scores the verdict and advances to the next prompt. The
// follow-up fetch happens before any state is applied so a failed fetch
// leaves the session exactly as it was.
func (s *Session) applyCorrect(ctx context.Context, guess string, verdict Verdict, history []string) (*TurnResult, error) {
	if s.rules.RecordGuesses {
		history = append(history, guess)
	}
	next := verdict.NextPrompt
	if next == nil && !verdict.OpponentOut {
		fetched, err := s.collab.NextPrompt(ctx, history)
		if err != nil {
			s.clearBusy()
			return nil, err
		}
		next = fetched
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if s.status != StatusActive {
		// The clock ran out while the call was in flight; the terminal
		// transition won the race.
		return nil, nil
	}

	if s.rules.Points != nil {
		s.score += s.rules.Points(verdict)
	}
	if s.rules.RecordGuesses {
		s.history = append(s.history, guess)
	}
	s.awaiting = false

	res := &TurnResult{
		Correct: true,
		Answer:  verdict.Answer,
		Message: verdict.Message,
		Hearts:  s.hearts,
	}
	if next == nil {
		s.endLocked(StatusWon, EndReasonWin)
	} else {
		s.acceptPromptLocked(next)
		res.NextPrompt = next
	}
	res.Status = s.status
	res.EndReason = s.endReason
	return res, nil
}

// applyIncorrect costs a heart; the final heart also fetches the reveal.
func (s *Session) applyIncorrect(ctx context.Context, promptID string, verdict Verdict) (*TurnResult, error) {
	s.mu.Lock()
	if s.status != StatusActive {
		s.busy = false
		s.mu.Unlock()
		return nil, nil
	}
	last := s.hearts == 1
	s.mu.Unlock()

	var answer string
	if last {
		// Best effort: the game still ends if the reveal cannot be
		// fetched, the player just does not get to see the answer.
		if revealed, err := s.collab.Reveal(ctx, promptID); err == nil {
			answer = revealed
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if s.status != StatusActive {
		return nil, nil
	}
	if s.hearts > 0 {
		s.hearts--
	}
	res := &TurnResult{
		Correct: false,
		Message: verdict.Message,
	}
	if s.hearts == 0 {
		s.finalAns = answer
		res.Answer = answer
		s.endLocked(StatusLost, EndReasonHearts)
	}
	res.Hearts = s.hearts
	res.Status = s.status
	res.EndReason = s.endReason
	return res, nil
}

// Skip spends one unit of the skip budget: the answer is revealed and the
// session advances exactly as on a correct guess, with no score or heart
// change. A no-op when the budget is spent, nothing awaits an answer, or
// the session is terminal.
func (s *Session) Skip(ctx context.Context) (*TurnResult, error) {
	s.mu.Lock()
	if s.status != StatusActive || !s.awaiting || s.busy || s.skips == 0 {
		s.mu.Unlock()
		return nil, nil
	}
	s.busy = true
	promptID := s.current.ID
	history := append([]string(nil), s.history...)
	s.mu.Unlock()

	answer, revealErr := s.collab.Reveal(ctx, promptID)
	next, err := s.collab.NextPrompt(ctx, history)
	if err != nil {
		s.clearBusy()
		return nil, err
	}
	if revealErr != nil {
		answer = ""
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if s.status != StatusActive {
		return nil, nil
	}
	s.skips--
	s.awaiting = false

	res := &TurnResult{
		Answer: answer,
		Hearts: s.hearts,
	}
	if next == nil {
		s.endLocked(StatusWon, EndReasonWin)
	} else {
		s.acceptPromptLocked(next)
		res.NextPrompt = next
	}
	res.Status = s.status
	res.EndReason = s.endReason
	return res, nil
}

// Hint reveals the current prompt's hint, at most once per prompt.
// The second call for the same prompt, a prompt without a hint, and a
// terminal session all report ok=false.
func (s *Session) Hint() (hint string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.rules.HintsEnabled || s.status != StatusActive || !s.awaiting {
		return "", false
	}
	if s.hintUsed || s.current == nil || s.current.Hint == "" {
		return "", false
	}
	s.hintUsed = true
	return s.current.Hint, true
}

// Restart reinitializes every field to its starting value and fetches a
// fresh first prompt.
func (s *Session) Restart(ctx context.Context) (*Prompt, error) {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return nil, nil
	}
	s.resetLocked()
	s.mu.Unlock()
	return s.Start(ctx)
}

// Close stops the session clock. The session is unusable afterwards only
// in the sense that time no longer advances; state reads remain valid.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.countdown != nil {
		s.countdown.Stop()
	}
}

func (s *Session) clearBusy() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

// tickTimer advances the session clock by one second. Tests and callers
// that single-step time use this instead of the background ticker.
func (s *Session) tickTimer() {
	s.mu.Lock()
	c := s.countdown
	s.mu.Unlock()
	if c != nil {
		c.Tick()
	}
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := State{
		Score:          s.score,
		Hearts:         s.hearts,
		SkipsRemaining: s.skips,
		Status:         s.status,
		EndReason:      s.endReason,
		AwaitingAnswer: s.awaiting,
		CurrentPrompt:  s.current,
		History:        append([]string(nil), s.history...),
		FinalAnswer:    s.finalAns,
	}
	if s.countdown != nil {
		st.TimeLeft = s.countdown.Remaining()
	}
	return st
}
