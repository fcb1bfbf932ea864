package service

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"happyschools/internal/models"
	"happyschools/internal/repository"
)

var (
	ErrQuizNotFound  = errors.New("quiz not found")
	ErrQuizNotActive = errors.New("quiz is not open for attempts")
	ErrNotQuizOwner  = errors.New("quiz belongs to another teacher")
)

// QuizService handles quiz creation, delivery and grading.
type QuizService struct {
	repo *repository.QuizRepository
}

// NewQuizService creates a new quiz service.
func NewQuizService(repo *repository.QuizRepository) *QuizService {
	return &QuizService{repo: repo}
}

// CreateQuizInput describes a quiz a teacher wants generated.
type CreateQuizInput struct {
	Title       string
	Subject     string
	Topic       string
	EasyCount   int
	MediumCount int
	HardCount   int
	Deadline    *time.Time
}

// CreateQuiz generates a quiz with the requested difficulty mix and
// stores it as active.
func (s *QuizService) CreateQuiz(teacherID int64, in CreateQuizInput) (*models.Quiz, error) {
	if in.Title == "" {
		return nil, errors.New("title is required")
	}
	total := in.EasyCount + in.MediumCount + in.HardCount
	if total == 0 {
		return nil, errors.New("quiz needs at least one question")
	}
	if total > 50 {
		return nil, errors.New("quiz cannot have more than 50 questions")
	}
	if in.Deadline != nil && in.Deadline.Before(time.Now()) {
		return nil, errors.New("deadline must be in the future")
	}

	quiz := &models.Quiz{
		Title:          in.Title,
		Subject:        in.Subject,
		Topic:          in.Topic,
		TeacherID:      teacherID,
		EasyCount:      in.EasyCount,
		MediumCount:    in.MediumCount,
		HardCount:      in.HardCount,
		TotalQuestions: total,
		Deadline:       in.Deadline,
		Status:         models.QuizStatusActive,
		Questions:      generateQuestions(in),
	}
	return s.repo.CreateQuiz(quiz)
}

// generateQuestions builds the question set for the requested mix.
// Question content is generated locally; wiring a real question source
// behind this is a content change, not an API change.
func generateQuestions(in CreateQuizInput) []models.QuizQuestion {
	mix := []struct {
		difficulty string
		count      int
	}{
		{models.DifficultyEasy, in.EasyCount},
		{models.DifficultyMedium, in.MediumCount},
		{models.DifficultyHard, in.HardCount},
	}

	topic := in.Topic
	if topic == "" {
		topic = in.Subject
	}

	var questions []models.QuizQuestion
	order := 1
	for _, m := range mix {
		for i := 0; i < m.count; i++ {
			correct := string(rune('A' + rand.Intn(4)))
			questions = append(questions, models.QuizQuestion{
				Text:          fmt.Sprintf("(%s) Question %d about %s", m.difficulty, order, topic),
				Difficulty:    m.difficulty,
				OptionA:       fmt.Sprintf("Answer choice A for question %d", order),
				OptionB:       fmt.Sprintf("Answer choice B for question %d", order),
				OptionC:       fmt.Sprintf("Answer choice C for question %d", order),
				OptionD:       fmt.Sprintf("Answer choice D for question %d", order),
				CorrectAnswer: correct,
				OrderNum:      order,
			})
			order++
		}
	}
	return questions
}

// GetQuizForTeacher returns a quiz with correct answers, owner only.
func (s *QuizService) GetQuizForTeacher(quizID, teacherID int64) (*models.Quiz, error) {
	quiz, err := s.repo.GetQuizByID(quizID)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, ErrQuizNotFound
	}
	if quiz.TeacherID != teacherID {
		return nil, ErrNotQuizOwner
	}
	return quiz, nil
}

// ListQuizzesByTeacher returns a teacher's quizzes without questions.
func (s *QuizService) ListQuizzesByTeacher(teacherID int64) ([]models.Quiz, error) {
	return s.repo.ListQuizzesByTeacher(teacherID)
}

// CloseQuiz moves a quiz to closed, owner only.
func (s *QuizService) CloseQuiz(quizID, teacherID int64) error {
	quiz, err := s.repo.GetQuizByID(quizID)
	if err != nil {
		return err
	}
	if quiz == nil {
		return ErrQuizNotFound
	}
	if quiz.TeacherID != teacherID {
		return ErrNotQuizOwner
	}
	return s.repo.UpdateQuizStatus(quizID, models.QuizStatusClosed)
}

// DeleteQuiz removes a quiz and everything under it, owner only.
func (s *QuizService) DeleteQuiz(quizID, teacherID int64) error {
	quiz, err := s.repo.GetQuizByID(quizID)
	if err != nil {
		return err
	}
	if quiz == nil {
		return ErrQuizNotFound
	}
	if quiz.TeacherID != teacherID {
		return ErrNotQuizOwner
	}
	return s.repo.DeleteQuiz(quizID)
}

// DefinitionForStudent returns an active quiz for taking. Correct
// answers stay server-side; the handler serializes only the options.
func (s *QuizService) DefinitionForStudent(quizID int64) (*models.Quiz, error) {
	quiz, err := s.repo.GetQuizByID(quizID)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, ErrQuizNotFound
	}
	if quiz.Status != models.QuizStatusActive {
		return nil, ErrQuizNotActive
	}
	return quiz, nil
}

// ResultFor returns a student's stored result; nil when the quiz has
// not been attempted.
func (s *QuizService) ResultFor(quizID, studentID int64) (*models.QuizResult, error) {
	return s.repo.GetResult(s.repo.DB(), quizID, studentID)
}

// Submit grades a student's answers and stores the result. Submitting
// again returns the stored result unchanged, whatever the new answers
// say.
func (s *QuizService) Submit(quizID, studentID int64, answers map[int64]string) (*models.QuizResult, error) {
	quiz, err := s.repo.GetQuizByID(quizID)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, ErrQuizNotFound
	}
	if quiz.Status != models.QuizStatusActive {
		return nil, ErrQuizNotActive
	}

	tx, err := s.repo.DB().Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin grading: %w", err)
	}
	defer tx.Rollback()

	existing, err := s.repo.GetResult(tx, quizID, studentID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	result := &models.QuizResult{
		QuizID:         quizID,
		StudentID:      studentID,
		Score:          GradeAnswers(quiz.Questions, answers),
		TotalQuestions: len(quiz.Questions),
	}
	result.Percentage = Percentage(result.Score, result.TotalQuestions)

	if err := s.repo.InsertResult(tx, result); err != nil {
		// A concurrent submit can slip in between the read and the
		// insert; the unique index turns that into an error here, and
		// the stored row wins.
		if stored, readErr := s.repo.GetResult(s.repo.DB(), quizID, studentID); readErr == nil && stored != nil {
			return stored, nil
		}
		return nil, fmt.Errorf("failed to store result: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit result: %w", err)
	}
	return result, nil
}

// GradeAnswers counts how many answers match the question key. Missing
// answers count as wrong.
func GradeAnswers(questions []models.QuizQuestion, answers map[int64]string) int {
	score := 0
	for _, q := range questions {
		if answers[q.ID] == q.CorrectAnswer {
			score++
		}
	}
	return score
}

// Percentage converts a score to a 0-100 percentage.
func Percentage(score, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(score) / float64(total) * 100
}
