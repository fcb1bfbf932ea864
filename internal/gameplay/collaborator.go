package gameplay

import "context"

// Prompt is one challenge served to the player: a riddle to answer or a
// word to extend. The ID is opaque to the engine; it only collects IDs
// into the history sent back when asking for the next prompt.
type Prompt struct {
	ID   string
	Text string
	Hint string
}

// Verdict is the collaborator's judgement of a guess.
type Verdict struct {
	Correct bool
	// Answer is the expected answer, when the collaborator reveals it
	// alongside the verdict (riddles do on a correct guess).
	Answer string
	// NextPrompt carries the opponent's reply for games where the next
	// prompt is produced by the evaluation itself (word chain). Nil means
	// the engine should request the next prompt separately.
	NextPrompt *Prompt
	// OpponentOut reports that the opponent had no reply; the player wins
	// the session.
	OpponentOut bool
	// Message is an optional player-facing explanation (e.g. why a word
	// was rejected).
	Message string
}

// Collaborator is the remote service a session plays against. All methods
// may fail transiently; the session leaves its state untouched and stays
// playable when they do.
type Collaborator interface {
	// NextPrompt returns a prompt not present in history, or nil when the
	// pool is exhausted.
	NextPrompt(ctx context.Context, history []string) (*Prompt, error)

	// Evaluate judges a guess against the given prompt. For chain-style
	// games the history of played prompt IDs is included so the reply can
	// avoid repeats.
	Evaluate(ctx context.Context, promptID, guess string, history []string) (Verdict, error)

	// Reveal returns the answer for a prompt, used on skips and on the
	// final heart loss.
	Reveal(ctx context.Context, promptID string) (string, error)
}
