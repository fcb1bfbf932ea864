package service

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"happyschools/internal/models"
	"happyschools/internal/repository"
)

// WordChainService plays the opponent side of the word-chain game. The
// dictionary holds two-word phrases; a phrase continues the chain when
// its first word matches the last word of the previous phrase ("book
// worm" is followed by "worm hole").
type WordChainService struct {
	repo *repository.WordRepository

	mu      sync.RWMutex
	byHead  map[string][]models.WordEntry
	phrases map[string]models.WordEntry
}

// NewWordChainService creates a new word-chain service.
func NewWordChainService(repo *repository.WordRepository) *WordChainService {
	return &WordChainService{
		repo:    repo,
		byHead:  make(map[string][]models.WordEntry),
		phrases: make(map[string]models.WordEntry),
	}
}

// ChainResponse is the opponent's reaction to a submitted phrase. An
// accepted phrase with an empty NextWord means the opponent has no
// continuation and concedes.
type ChainResponse struct {
	Valid    bool
	NextWord string
	Message  string
}

// LoadDictionary reads the phrase table into the in-memory chain index.
// Call it once at startup and after seeding.
func (s *WordChainService) LoadDictionary() error {
	entries, err := s.repo.ListAll()
	if err != nil {
		return fmt.Errorf("failed to load word entries: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byHead = make(map[string][]models.WordEntry)
	s.phrases = make(map[string]models.WordEntry)
	for _, e := range entries {
		s.byHead[e.Head] = append(s.byHead[e.Head], e)
		s.phrases[e.Phrase] = e
	}
	return nil
}

// Respond checks the player's phrase against the chain so far and, when
// it is accepted, answers with the opponent's continuation. The history
// holds every phrase already played, the player's included, ending with
// the phrase the player had to continue.
func (s *WordChainService) Respond(phrase string, history []string) ChainResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	phrase = normalizePhrase(phrase)
	words := strings.Fields(phrase)
	if len(words) != 2 {
		return ChainResponse{Message: "Your answer must be a two-word phrase."}
	}

	entry, ok := s.phrases[phrase]
	if !ok {
		return ChainResponse{Message: fmt.Sprintf("%q is not in the phrase book.", phrase)}
	}

	used := usedSet(history)
	if used[phrase] {
		return ChainResponse{Message: fmt.Sprintf("%q has already been played.", phrase)}
	}

	if len(history) > 0 {
		prev := normalizePhrase(history[len(history)-1])
		if prevEntry, ok := s.phrases[prev]; ok && entry.Head != prevEntry.Tail {
			return ChainResponse{Message: fmt.Sprintf("Your phrase must start with %q.", prevEntry.Tail)}
		}
	}

	used[phrase] = true
	reply := s.pickContinuation(entry.Tail, used)
	if reply == "" {
		return ChainResponse{Valid: true, Message: "I'm out of phrases. You win!"}
	}
	return ChainResponse{Valid: true, NextWord: reply}
}

// StartWord picks a random opening phrase not yet in the history. Used
// for the first turn and to move the chain along after a skip.
func (s *WordChainService) StartWord(history []string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	used := usedSet(history)
	var candidates []string
	for phrase := range s.phrases {
		if !used[phrase] {
			candidates = append(candidates, phrase)
		}
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("no phrases left to start with")
	}
	return candidates[rand.Intn(len(candidates))], nil
}

// Continuation returns one valid continuation of the given phrase, for
// showing the player what they could have said. Empty when the chain
// has no continuation.
func (s *WordChainService) Continuation(phrase string, history []string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.phrases[normalizePhrase(phrase)]
	if !ok {
		return ""
	}
	return s.pickContinuation(entry.Tail, usedSet(history))
}

func (s *WordChainService) pickContinuation(tail string, used map[string]bool) string {
	var candidates []string
	for _, e := range s.byHead[tail] {
		if !used[e.Phrase] {
			candidates = append(candidates, e.Phrase)
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	return candidates[rand.Intn(len(candidates))]
}

func normalizePhrase(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func usedSet(history []string) map[string]bool {
	used := make(map[string]bool, len(history))
	for _, h := range history {
		used[normalizePhrase(h)] = true
	}
	return used
}

// SeedDefaultWords loads the starter phrase book when the table is
// empty, then refreshes the index.
func (s *WordChainService) SeedDefaultWords() error {
	count, err := s.repo.Count()
	if err != nil {
		return fmt.Errorf("failed to count word entries: %w", err)
	}
	if count == 0 {
		for _, phrase := range defaultPhrases {
			words := strings.Fields(phrase)
			if err := s.repo.Insert(phrase, words[0], words[1]); err != nil {
				return fmt.Errorf("failed to seed phrase: %w", err)
			}
		}
	}
	return s.LoadDictionary()
}

var defaultPhrases = []string{
	"book worm",
	"worm hole",
	"hole punch",
	"punch line",
	"line dance",
	"dance floor",
	"floor lamp",
	"lamp shade",
	"shade tree",
	"tree house",
	"house boat",
	"boat race",
	"race car",
	"car park",
	"park bench",
	"bench press",
	"press box",
	"box office",
	"office chair",
	"chair lift",
	"fire fly",
	"fly paper",
	"paper cut",
	"cut back",
	"back pack",
	"pack rat",
	"rat race",
	"sun flower",
	"flower pot",
	"pot hole",
	"snow ball",
	"ball park",
	"sea horse",
	"horse shoe",
	"shoe lace",
	"rain bow",
	"bow tie",
}
