package models

// Riddle is one entry of the riddle bank served to the riddle mini-game.
type Riddle struct {
	ID       int64
	Question string
	Answer   string
	Hint     string
}

// WordEntry is one two-word phrase of the word chain dictionary. Head
// and Tail are the lowercase first and last words, indexed so the
// service can find phrases that continue a chain.
type WordEntry struct {
	ID     int64
	Phrase string
	Head   string
	Tail   string
}
