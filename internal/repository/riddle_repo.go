package repository

import (
	"database/sql"
	"errors"
	"strings"

	"happyschools/internal/database"
	"happyschools/internal/models"
)

// RiddleRepository handles riddle bank database operations.
type RiddleRepository struct {
	db *database.DB
}

// NewRiddleRepository creates a new riddle repository.
func NewRiddleRepository(db *database.DB) *RiddleRepository {
	return &RiddleRepository{db: db}
}

// Count returns the number of riddles in the bank.
func (r *RiddleRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM riddles").Scan(&count)
	return count, err
}

// Insert adds a riddle to the bank.
func (r *RiddleRepository) Insert(question, answer, hint string) error {
	_, err := r.db.Exec(`
		INSERT INTO riddles (question, answer, hint)
		VALUES (?, ?, ?)`,
		question, answer, hint,
	)
	return err
}

// GetByID retrieves one riddle; nil when not found.
func (r *RiddleRepository) GetByID(id int64) (*models.Riddle, error) {
	riddle := &models.Riddle{}
	err := r.db.QueryRow(`
		SELECT id, question, answer, hint FROM riddles WHERE id = ?`, id).
		Scan(&riddle.ID, &riddle.Question, &riddle.Answer, &riddle.Hint)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return riddle, nil
}

// ListExcluding returns all riddles whose IDs are not in exclude.
func (r *RiddleRepository) ListExcluding(exclude []int64) ([]models.Riddle, error) {
	query := "SELECT id, question, answer, hint FROM riddles"
	args := make([]interface{}, 0, len(exclude))
	if len(exclude) > 0 {
		placeholders := make([]string, len(exclude))
		for i, id := range exclude {
			placeholders[i] = "?"
			args = append(args, id)
		}
		query += " WHERE id NOT IN (" + strings.Join(placeholders, ", ") + ")"
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var riddles []models.Riddle
	for rows.Next() {
		var riddle models.Riddle
		if err := rows.Scan(&riddle.ID, &riddle.Question, &riddle.Answer, &riddle.Hint); err != nil {
			return nil, err
		}
		riddles = append(riddles, riddle)
	}
	return riddles, rows.Err()
}
