package gameplay

const (
	defaultHearts = 3
	defaultSkips  = 3

	riddlePoints       = 10
	wordChainPoints    = 1
	wordChainWinBonus  = 5
	wordChainTimeLimit = 90
)

// RiddleRules is the rule set for the riddle game: 10 points per solved
// riddle, hints available, no clock.
func RiddleRules() Rules {
	return Rules{
		Hearts:       defaultHearts,
		Skips:        defaultSkips,
		HintsEnabled: true,
		Points: func(Verdict) int {
			return riddlePoints
		},
	}
}

// WordChainRules is the rule set for the word chain game: one point per
// accepted word, a 5 point bonus when the opponent runs out of replies,
// and a 90 second clock racing the hearts.
func WordChainRules() Rules {
	return Rules{
		Hearts:           defaultHearts,
		Skips:            defaultSkips,
		TimeLimitSeconds: wordChainTimeLimit,
		RecordGuesses:    true,
		Points: func(v Verdict) int {
			if v.OpponentOut {
				return wordChainWinBonus
			}
			return wordChainPoints
		},
	}
}
