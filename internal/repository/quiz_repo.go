package repository

import (
	"database/sql"
	"errors"
	"time"

	"happyschools/internal/database"
	"happyschools/internal/models"
)

// QuizRepository handles quiz, question and result database operations.
type QuizRepository struct {
	db *database.DB
}

// NewQuizRepository creates a new quiz repository.
func NewQuizRepository(db *database.DB) *QuizRepository {
	return &QuizRepository{db: db}
}

// DB exposes the underlying handle so the service can run grading in a
// transaction.
func (r *QuizRepository) DB() *database.DB {
	return r.db
}

// CreateQuiz inserts a quiz and its generated questions in one
// transaction.
func (r *QuizRepository) CreateQuiz(quiz *models.Quiz) (*models.Quiz, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	id, err := tx.InsertReturningID(`
		INSERT INTO quizzes (title, subject, topic, teacher_id, easy_count,
			medium_count, hard_count, total_questions, deadline, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		quiz.Title, quiz.Subject, quiz.Topic, quiz.TeacherID,
		quiz.EasyCount, quiz.MediumCount, quiz.HardCount,
		quiz.TotalQuestions, quiz.Deadline, quiz.Status,
	)
	if err != nil {
		return nil, err
	}

	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		q.QuizID = id
		q.ID, err = tx.InsertReturningID(`
			INSERT INTO quiz_questions (quiz_id, question_text, difficulty,
				option_a, option_b, option_c, option_d, correct_answer, order_num)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, q.Text, q.Difficulty,
			q.OptionA, q.OptionB, q.OptionC, q.OptionD,
			q.CorrectAnswer, q.OrderNum,
		)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.GetQuizByID(id)
}

// GetQuizByID retrieves a quiz with its questions ordered by order_num;
// nil when not found.
func (r *QuizRepository) GetQuizByID(id int64) (*models.Quiz, error) {
	quiz := &models.Quiz{}
	var deadline sql.NullTime
	err := r.db.QueryRow(`
		SELECT id, title, subject, topic, teacher_id, easy_count, medium_count,
		       hard_count, total_questions, deadline, status, created_at
		FROM quizzes WHERE id = ?`, id).
		Scan(
			&quiz.ID, &quiz.Title, &quiz.Subject, &quiz.Topic, &quiz.TeacherID,
			&quiz.EasyCount, &quiz.MediumCount, &quiz.HardCount,
			&quiz.TotalQuestions, &deadline, &quiz.Status, &quiz.CreatedAt,
		)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if deadline.Valid {
		quiz.Deadline = &deadline.Time
	}

	quiz.Questions, err = r.getQuestions(id)
	if err != nil {
		return nil, err
	}
	return quiz, nil
}

func (r *QuizRepository) getQuestions(quizID int64) ([]models.QuizQuestion, error) {
	rows, err := r.db.Query(`
		SELECT id, quiz_id, question_text, difficulty, option_a, option_b,
		       option_c, option_d, correct_answer, order_num
		FROM quiz_questions WHERE quiz_id = ?
		ORDER BY order_num`, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []models.QuizQuestion
	for rows.Next() {
		var q models.QuizQuestion
		if err := rows.Scan(
			&q.ID, &q.QuizID, &q.Text, &q.Difficulty,
			&q.OptionA, &q.OptionB, &q.OptionC, &q.OptionD,
			&q.CorrectAnswer, &q.OrderNum,
		); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// ListQuizzesByTeacher returns a teacher's quizzes, newest first,
// without question bodies.
func (r *QuizRepository) ListQuizzesByTeacher(teacherID int64) ([]models.Quiz, error) {
	rows, err := r.db.Query(`
		SELECT id, title, subject, topic, teacher_id, easy_count, medium_count,
		       hard_count, total_questions, deadline, status, created_at
		FROM quizzes WHERE teacher_id = ?
		ORDER BY created_at DESC`, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quizzes []models.Quiz
	for rows.Next() {
		var quiz models.Quiz
		var deadline sql.NullTime
		if err := rows.Scan(
			&quiz.ID, &quiz.Title, &quiz.Subject, &quiz.Topic, &quiz.TeacherID,
			&quiz.EasyCount, &quiz.MediumCount, &quiz.HardCount,
			&quiz.TotalQuestions, &deadline, &quiz.Status, &quiz.CreatedAt,
		); err != nil {
			return nil, err
		}
		if deadline.Valid {
			quiz.Deadline = &deadline.Time
		}
		quizzes = append(quizzes, quiz)
	}
	return quizzes, rows.Err()
}

// UpdateQuizStatus moves a quiz between draft, active and closed.
func (r *QuizRepository) UpdateQuizStatus(id int64, status string) error {
	_, err := r.db.Exec("UPDATE quizzes SET status = ? WHERE id = ?", status, id)
	return err
}

// DeleteQuiz removes a quiz; questions and results cascade.
func (r *QuizRepository) DeleteQuiz(id int64) error {
	_, err := r.db.Exec("DELETE FROM quizzes WHERE id = ?", id)
	return err
}

// GetResult retrieves a student's result for a quiz; nil when the quiz
// has not been attempted. Runs against a transaction when q is one.
func (r *QuizRepository) GetResult(q database.Querier, quizID, studentID int64) (*models.QuizResult, error) {
	result := &models.QuizResult{}
	err := q.QueryRow(`
		SELECT id, quiz_id, student_id, score, total_questions, percentage, submitted_at
		FROM quiz_results WHERE quiz_id = ? AND student_id = ?`,
		quizID, studentID).
		Scan(
			&result.ID, &result.QuizID, &result.StudentID,
			&result.Score, &result.TotalQuestions, &result.Percentage,
			&result.SubmittedAt,
		)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// InsertResult stores a graded attempt. The unique (quiz_id, student_id)
// index makes a concurrent double submit fail instead of duplicating.
func (r *QuizRepository) InsertResult(q database.Querier, result *models.QuizResult) error {
	id, err := q.InsertReturningID(`
		INSERT INTO quiz_results (quiz_id, student_id, score, total_questions, percentage, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		result.QuizID, result.StudentID, result.Score,
		result.TotalQuestions, result.Percentage, time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	result.ID = id
	return nil
}
