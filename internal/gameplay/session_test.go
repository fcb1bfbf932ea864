package gameplay

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

// fakeCollaborator serves a fixed pool of prompts and judges guesses by
// exact match against the pool answers.
type fakeCollaborator struct {
	prompts []Prompt
	answers map[string]string

	evaluateCalls int
	nextCalls     int
	revealCalls   int
	failNext      bool
	failEvaluate  bool
	failReveal    bool
	// opponentOutOn makes Evaluate report a conceding opponent for the
	// given correct guess (word chain behaviour).
	opponentOutOn string
	// replies maps a correct guess to the opponent's next prompt.
	replies map[string]*Prompt
}

func (f *fakeCollaborator) NextPrompt(ctx context.Context, history []string) (*Prompt, error) {
	f.nextCalls++
	if f.failNext {
		return nil, errors.New("collaborator unavailable")
	}
	served := make(map[string]bool, len(history))
	for _, id := range history {
		served[id] = true
	}
	for i := range f.prompts {
		if !served[f.prompts[i].ID] {
			return &f.prompts[i], nil
		}
	}
	return nil, nil
}

func (f *fakeCollaborator) Evaluate(ctx context.Context, promptID, guess string, history []string) (Verdict, error) {
	f.evaluateCalls++
	if f.failEvaluate {
		return Verdict{}, errors.New("collaborator unavailable")
	}
	answer := f.answers[promptID]
	if guess != answer {
		return Verdict{Correct: false, Message: "not quite, try again"}, nil
	}
	v := Verdict{Correct: true, Answer: answer}
	if guess == f.opponentOutOn {
		v.OpponentOut = true
	}
	if reply, ok := f.replies[guess]; ok {
		v.NextPrompt = reply
	}
	return v, nil
}

func (f *fakeCollaborator) Reveal(ctx context.Context, promptID string) (string, error) {
	f.revealCalls++
	if f.failReveal {
		return "", errors.New("collaborator unavailable")
	}
	return f.answers[promptID], nil
}

func riddleBank(n int) *fakeCollaborator {
	f := &fakeCollaborator{answers: make(map[string]string)}
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("r%d", i)
		f.prompts = append(f.prompts, Prompt{ID: id, Text: "riddle " + id, Hint: "hint " + id})
		f.answers[id] = "answer " + id
	}
	return f
}

func startedSession(t *testing.T, collab Collaborator, rules Rules) *Session {
	t.Helper()
	s := NewSession(collab, rules)
	if _, err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	return s
}

func TestSessionStart(t *testing.T) {
	collab := riddleBank(3)
	s := startedSession(t, collab, RiddleRules())
	defer s.Close()

	st := s.State()
	if !st.AwaitingAnswer {
		t.Error("expected AwaitingAnswer after start")
	}
	if st.CurrentPrompt == nil || st.CurrentPrompt.ID != "r1" {
		t.Errorf("CurrentPrompt = %+v, want r1", st.CurrentPrompt)
	}
	if len(st.History) != 1 || st.History[0] != "r1" {
		t.Errorf("History = %v, want [r1]", st.History)
	}
	if st.Hearts != 3 || st.SkipsRemaining != 3 || st.Score != 0 {
		t.Errorf("fresh session state = %+v", st)
	}
}

func TestCorrectGuessScoresAndAdvances(t *testing.T) {
	collab := riddleBank(3)
	s := startedSession(t, collab, RiddleRules())
	defer s.Close()

	res, err := s.Submit(context.Background(), "answer r1")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if !res.Correct {
		t.Fatal("expected a correct verdict")
	}
	st := s.State()
	if st.Score != 10 {
		t.Errorf("Score = %d, want 10", st.Score)
	}
	if st.CurrentPrompt.ID != "r2" {
		t.Errorf("CurrentPrompt = %s, want r2", st.CurrentPrompt.ID)
	}
	// The next prompt must have been requested with the first prompt in
	// the history so the collaborator cannot repeat it.
	if got := st.History; len(got) != 2 || got[0] != "r1" || got[1] != "r2" {
		t.Errorf("History = %v, want [r1 r2]", got)
	}
}

func TestThreeWrongGuessesLoseOnHearts(t *testing.T) {
	collab := riddleBank(3)
	s := startedSession(t, collab, RiddleRules())
	defer s.Close()

	wantHearts := []int{2, 1, 0}
	for i, want := range wantHearts {
		res, err := s.Submit(context.Background(), "wrong")
		if err != nil {
			t.Fatalf("Submit() #%d error = %v", i+1, err)
		}
		if res.Hearts != want {
			t.Errorf("after wrong guess %d hearts = %d, want %d", i+1, res.Hearts, want)
		}
	}

	st := s.State()
	if st.Status != StatusLost || st.EndReason != EndReasonHearts {
		t.Errorf("status = %v reason = %q, want Lost/hearts", st.Status, st.EndReason)
	}
	if st.Hearts != 0 {
		t.Errorf("Hearts = %d, want 0", st.Hearts)
	}
	if st.AwaitingAnswer {
		t.Error("terminal session must not await an answer")
	}
	if st.FinalAnswer != "answer r1" {
		t.Errorf("FinalAnswer = %q, want the revealed answer", st.FinalAnswer)
	}
	if collab.revealCalls != 1 {
		t.Errorf("reveal fetched %d times, want exactly once", collab.revealCalls)
	}
}

func TestHeartsNeverGoNegative(t *testing.T) {
	collab := riddleBank(1)
	s := startedSession(t, collab, RiddleRules())
	defer s.Close()

	for i := 0; i < 5; i++ {
		s.Submit(context.Background(), "wrong")
	}
	if got := s.State().Hearts; got != 0 {
		t.Errorf("Hearts = %d, want 0", got)
	}
}

func TestTerminalStateIsFrozen(t *testing.T) {
	collab := riddleBank(2)
	s := startedSession(t, collab, RiddleRules())
	defer s.Close()

	for i := 0; i < 3; i++ {
		s.Submit(context.Background(), "wrong")
	}
	before := s.State()
	if before.Status != StatusLost {
		t.Fatalf("setup: status = %v, want Lost", before.Status)
	}

	if res, err := s.Submit(context.Background(), "answer r1"); res != nil || err != nil {
		t.Errorf("Submit after loss = (%v, %v), want no-op", res, err)
	}
	if res, err := s.Skip(context.Background()); res != nil || err != nil {
		t.Errorf("Skip after loss = (%v, %v), want no-op", res, err)
	}
	if _, ok := s.Hint(); ok {
		t.Error("Hint after loss should not be available")
	}

	after := s.State()
	if after.Score != before.Score || after.Hearts != before.Hearts ||
		after.SkipsRemaining != before.SkipsRemaining || after.Status != before.Status {
		t.Errorf("terminal state mutated: before %+v after %+v", before, after)
	}
}

func TestSkipBudget(t *testing.T) {
	collab := riddleBank(10)
	s := startedSession(t, collab, RiddleRules())
	defer s.Close()

	for i := 1; i <= 3; i++ {
		res, err := s.Skip(context.Background())
		if err != nil {
			t.Fatalf("Skip() #%d error = %v", i, err)
		}
		if res == nil {
			t.Fatalf("Skip() #%d was ignored", i)
		}
		if res.Answer == "" {
			t.Errorf("Skip() #%d did not reveal the answer", i)
		}
		st := s.State()
		if st.SkipsRemaining != 3-i {
			t.Errorf("SkipsRemaining = %d, want %d", st.SkipsRemaining, 3-i)
		}
		if st.Hearts != 3 || st.Score != 0 {
			t.Errorf("skip changed hearts/score: %+v", st)
		}
	}

	// Fourth skip: no state change and no collaborator traffic.
	nextBefore, revealBefore := collab.nextCalls, collab.revealCalls
	res, err := s.Skip(context.Background())
	if res != nil || err != nil {
		t.Errorf("Skip with empty budget = (%v, %v), want no-op", res, err)
	}
	if collab.nextCalls != nextBefore || collab.revealCalls != revealBefore {
		t.Error("exhausted skip still called the collaborator")
	}
	if got := s.State().SkipsRemaining; got != 0 {
		t.Errorf("SkipsRemaining = %d, want 0", got)
	}
}

func TestHintOncePerPrompt(t *testing.T) {
	collab := riddleBank(2)
	s := startedSession(t, collab, RiddleRules())
	defer s.Close()

	hint, ok := s.Hint()
	if !ok || hint != "hint r1" {
		t.Fatalf("Hint() = (%q, %v), want (hint r1, true)", hint, ok)
	}
	if _, ok := s.Hint(); ok {
		t.Error("second Hint() for the same prompt should be a no-op")
	}

	// A new prompt resets the hint.
	if _, err := s.Submit(context.Background(), "answer r1"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if hint, ok := s.Hint(); !ok || hint != "hint r2" {
		t.Errorf("Hint() after advance = (%q, %v), want (hint r2, true)", hint, ok)
	}
}

func TestHintDisabledForWordChain(t *testing.T) {
	collab := riddleBank(2)
	s := startedSession(t, collab, WordChainRules())
	defer s.Close()

	if _, ok := s.Hint(); ok {
		t.Error("word chain sessions have no hints")
	}
}

func TestPoolExhaustionWins(t *testing.T) {
	collab := riddleBank(2)
	s := startedSession(t, collab, RiddleRules())
	defer s.Close()

	if _, err := s.Submit(context.Background(), "answer r1"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	res, err := s.Submit(context.Background(), "answer r2")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if res.Status != StatusWon {
		t.Errorf("Status = %v, want Won", res.Status)
	}
	st := s.State()
	if st.Status != StatusWon || st.Score != 20 || st.AwaitingAnswer {
		t.Errorf("won state = %+v", st)
	}
}

func TestOpponentOutWinsWithBonus(t *testing.T) {
	collab := riddleBank(1)
	collab.answers["r1"] = "book worm"
	collab.opponentOutOn = "book worm"
	s := startedSession(t, collab, WordChainRules())
	defer s.Close()

	res, err := s.Submit(context.Background(), "book worm")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if res.Status != StatusWon || res.EndReason != EndReasonWin {
		t.Errorf("result = %+v, want a win", res)
	}
	if got := s.State().Score; got != 5 {
		t.Errorf("Score = %d, want the 5 point concession bonus", got)
	}
	if got := s.State().Hearts; got != 3 {
		t.Errorf("Hearts = %d, want untouched", got)
	}
}

func TestVerdictCarriesNextPrompt(t *testing.T) {
	collab := riddleBank(1)
	collab.answers["r1"] = "book worm"
	collab.replies = map[string]*Prompt{
		"book worm": {ID: "worm hole", Text: "worm hole"},
	}
	s := startedSession(t, collab, WordChainRules())
	defer s.Close()

	nextBefore := collab.nextCalls
	res, err := s.Submit(context.Background(), "book worm")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if res.NextPrompt == nil || res.NextPrompt.ID != "worm hole" {
		t.Errorf("NextPrompt = %+v, want the opponent's reply", res.NextPrompt)
	}
	if collab.nextCalls != nextBefore {
		t.Error("engine fetched a prompt although the verdict carried one")
	}
	if got := s.State().Score; got != 1 {
		t.Errorf("Score = %d, want 1 per accepted word", got)
	}
	// Chain games record both sides' words so neither can be reused.
	wantHistory := []string{"r1", "book worm", "worm hole"}
	gotHistory := s.State().History
	if len(gotHistory) != len(wantHistory) {
		t.Fatalf("History = %v, want %v", gotHistory, wantHistory)
	}
	for i := range wantHistory {
		if gotHistory[i] != wantHistory[i] {
			t.Errorf("History[%d] = %q, want %q", i, gotHistory[i], wantHistory[i])
		}
	}
}

func TestTimeExpiryLosesSession(t *testing.T) {
	collab := riddleBank(5)
	s := startedSession(t, collab, WordChainRules())
	defer s.Close()

	for i := 0; i < 90; i++ {
		s.tickTimer()
	}
	st := s.State()
	if st.Status != StatusLost || st.EndReason != EndReasonTime {
		t.Fatalf("status = %v reason = %q, want Lost/time", st.Status, st.EndReason)
	}
	if st.Hearts != 3 {
		t.Errorf("Hearts = %d, want 3 (time loss keeps hearts)", st.Hearts)
	}
	if st.TimeLeft != 0 {
		t.Errorf("TimeLeft = %d, want 0", st.TimeLeft)
	}

	// Further ticks and actions are no-ops.
	s.tickTimer()
	if res, _ := s.Submit(context.Background(), "answer r1"); res != nil {
		t.Error("Submit after time loss should be ignored")
	}
}

func TestHeartsLossBeatsLaterTimeExpiry(t *testing.T) {
	collab := riddleBank(2)
	s := startedSession(t, collab, WordChainRules())
	defer s.Close()

	for i := 0; i < 3; i++ {
		s.Submit(context.Background(), "wrong")
	}
	if st := s.State(); st.EndReason != EndReasonHearts {
		t.Fatalf("EndReason = %q, want hearts", st.EndReason)
	}

	for i := 0; i < 90; i++ {
		s.tickTimer()
	}
	if st := s.State(); st.EndReason != EndReasonHearts {
		t.Errorf("EndReason = %q after later ticks, want hearts to stick", st.EndReason)
	}
}

func TestCollaboratorFailureLeavesStateUntouched(t *testing.T) {
	collab := riddleBank(3)
	s := startedSession(t, collab, RiddleRules())
	defer s.Close()

	before := s.State()
	collab.failEvaluate = true
	if _, err := s.Submit(context.Background(), "answer r1"); err == nil {
		t.Fatal("expected an error from a failing collaborator")
	}
	collab.failEvaluate = false

	after := s.State()
	if after.Hearts != before.Hearts || after.Score != before.Score || after.Status != StatusActive {
		t.Errorf("failed call mutated state: before %+v after %+v", before, after)
	}
	if !after.AwaitingAnswer {
		t.Error("session should still await an answer so the player can retry")
	}

	// The retry goes through.
	res, err := s.Submit(context.Background(), "answer r1")
	if err != nil || res == nil || !res.Correct {
		t.Errorf("retry = (%+v, %v), want a correct verdict", res, err)
	}
}

func TestFailedNextPromptFetchRollsBackTurn(t *testing.T) {
	collab := riddleBank(3)
	s := startedSession(t, collab, RiddleRules())
	defer s.Close()

	collab.failNext = true
	if _, err := s.Submit(context.Background(), "answer r1"); err == nil {
		t.Fatal("expected an error when the next prompt cannot be fetched")
	}
	st := s.State()
	if st.Score != 0 {
		t.Errorf("Score = %d, want 0 (turn rolled back)", st.Score)
	}
	if st.CurrentPrompt.ID != "r1" || !st.AwaitingAnswer {
		t.Errorf("prompt state mutated: %+v", st)
	}
}

func TestBlankGuessIgnoredWithoutNetworkCall(t *testing.T) {
	collab := riddleBank(2)
	s := startedSession(t, collab, RiddleRules())
	defer s.Close()

	calls := collab.evaluateCalls
	for _, guess := range []string{"", "   ", "\t"} {
		if res, err := s.Submit(context.Background(), guess); res != nil || err != nil {
			t.Errorf("Submit(%q) = (%v, %v), want no-op", guess, res, err)
		}
	}
	if collab.evaluateCalls != calls {
		t.Error("blank guesses reached the collaborator")
	}
}

func TestRestartResetsEverything(t *testing.T) {
	collab := riddleBank(5)
	s := startedSession(t, collab, RiddleRules())
	defer s.Close()

	s.Submit(context.Background(), "answer r1")
	s.Skip(context.Background())
	s.Submit(context.Background(), "wrong")

	prompt, err := s.Restart(context.Background())
	if err != nil {
		t.Fatalf("Restart() error = %v", err)
	}
	if prompt == nil {
		t.Fatal("Restart() served no prompt")
	}
	st := s.State()
	if st.Score != 0 || st.Hearts != 3 || st.SkipsRemaining != 3 || st.Status != StatusActive {
		t.Errorf("restarted state = %+v, want starting values", st)
	}
	if len(st.History) != 1 {
		t.Errorf("History = %v, want only the fresh prompt", st.History)
	}
}

func TestRestartAfterTimeLossRestartsClock(t *testing.T) {
	collab := riddleBank(5)
	s := startedSession(t, collab, WordChainRules())
	defer s.Close()

	for i := 0; i < 90; i++ {
		s.tickTimer()
	}
	if _, err := s.Restart(context.Background()); err != nil {
		t.Fatalf("Restart() error = %v", err)
	}
	st := s.State()
	if st.Status != StatusActive || st.TimeLeft != 90 {
		t.Errorf("restarted timed state = %+v, want Active with a full clock", st)
	}
}

func TestCountdownNeverNegative(t *testing.T) {
	c := NewCountdown(2, nil, nil)
	for i := 0; i < 5; i++ {
		c.Tick()
	}
	if got := c.Remaining(); got != 0 {
		t.Errorf("Remaining() = %d, want 0", got)
	}
}

func TestCountdownExpireFiresOnce(t *testing.T) {
	fired := 0
	c := NewCountdown(1, nil, func() { fired++ })
	for i := 0; i < 3; i++ {
		c.Tick()
	}
	if fired != 1 {
		t.Errorf("expire fired %d times, want exactly once", fired)
	}
}

func TestCountdownStopPreventsExpiry(t *testing.T) {
	fired := false
	c := NewCountdown(1, nil, func() { fired = true })
	c.Stop()
	c.Tick()
	if fired {
		t.Error("stopped countdown still expired")
	}
}
