package service

import (
	"fmt"
	"math/rand"
	"strings"

	"happyschools/internal/models"
	"happyschools/internal/repository"
)

// RiddleService serves riddles and checks answers.
type RiddleService struct {
	repo *repository.RiddleRepository
}

// NewRiddleService creates a new riddle service.
func NewRiddleService(repo *repository.RiddleRepository) *RiddleService {
	return &RiddleService{repo: repo}
}

// CheckResult is the outcome of checking an answer.
type CheckResult struct {
	Correct       bool
	CorrectAnswer string
}

// Next picks a random riddle not in the exclusion list; nil when the
// pool is exhausted.
func (s *RiddleService) Next(exclude []int64) (*models.Riddle, error) {
	riddles, err := s.repo.ListExcluding(exclude)
	if err != nil {
		return nil, fmt.Errorf("failed to list riddles: %w", err)
	}
	if len(riddles) == 0 {
		return nil, nil
	}
	riddle := riddles[rand.Intn(len(riddles))]
	return &riddle, nil
}

// Check compares a guess against a riddle's answer. The comparison is
// case-insensitive and ignores surrounding and repeated whitespace.
func (s *RiddleService) Check(riddleID int64, guess string) (*CheckResult, error) {
	riddle, err := s.repo.GetByID(riddleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get riddle: %w", err)
	}
	if riddle == nil {
		return nil, fmt.Errorf("riddle %d not found", riddleID)
	}
	return &CheckResult{
		Correct:       normalizeAnswer(guess) == normalizeAnswer(riddle.Answer),
		CorrectAnswer: riddle.Answer,
	}, nil
}

// Reveal returns the answer for a riddle.
func (s *RiddleService) Reveal(riddleID int64) (string, error) {
	riddle, err := s.repo.GetByID(riddleID)
	if err != nil {
		return "", fmt.Errorf("failed to get riddle: %w", err)
	}
	if riddle == nil {
		return "", fmt.Errorf("riddle %d not found", riddleID)
	}
	return riddle.Answer, nil
}

func normalizeAnswer(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// SeedDefaultRiddles loads the starter riddle set when the table is
// empty.
func (s *RiddleService) SeedDefaultRiddles() error {
	count, err := s.repo.Count()
	if err != nil {
		return fmt.Errorf("failed to count riddles: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, r := range defaultRiddles {
		if err := s.repo.Insert(r.Question, r.Answer, r.Hint); err != nil {
			return fmt.Errorf("failed to seed riddle: %w", err)
		}
	}
	return nil
}

var defaultRiddles = []models.Riddle{
	{Question: "What has keys but can't open locks?", Answer: "a piano", Hint: "You can play music on it."},
	{Question: "What has to be broken before you can use it?", Answer: "an egg", Hint: "You might eat it for breakfast."},
	{Question: "What gets wetter the more it dries?", Answer: "a towel", Hint: "You use it after a bath."},
	{Question: "What has a face and two hands but no arms or legs?", Answer: "a clock", Hint: "It helps you tell the time."},
	{Question: "What goes up but never comes down?", Answer: "your age", Hint: "It changes every birthday."},
	{Question: "What has one eye but can't see?", Answer: "a needle", Hint: "You use it for sewing."},
	{Question: "What has legs but doesn't walk?", Answer: "a table", Hint: "You eat your dinner on it."},
	{Question: "What can you catch but not throw?", Answer: "a cold", Hint: "It makes you sneeze."},
	{Question: "What has a neck but no head?", Answer: "a bottle", Hint: "You drink from it."},
	{Question: "What building has the most stories?", Answer: "a library", Hint: "It is full of books."},
	{Question: "What is full of holes but still holds water?", Answer: "a sponge", Hint: "You wash dishes with it."},
	{Question: "What month of the year has 28 days?", Answer: "all of them", Hint: "Think carefully, it is a trick."},
}
