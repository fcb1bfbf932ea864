package repository

import (
	"happyschools/internal/database"
	"happyschools/internal/models"
)

// WordRepository handles word chain dictionary database operations.
type WordRepository struct {
	db *database.DB
}

// NewWordRepository creates a new word repository.
func NewWordRepository(db *database.DB) *WordRepository {
	return &WordRepository{db: db}
}

// Count returns the dictionary size.
func (r *WordRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM word_entries").Scan(&count)
	return count, err
}

// Insert adds a phrase to the dictionary.
func (r *WordRepository) Insert(phrase, head, tail string) error {
	_, err := r.db.Exec(`
		INSERT INTO word_entries (phrase, head, tail)
		VALUES (?, ?, ?)`,
		phrase, head, tail,
	)
	return err
}

// ListAll returns the whole dictionary. The word service loads it once
// and keeps its chain index in memory.
func (r *WordRepository) ListAll() ([]models.WordEntry, error) {
	rows, err := r.db.Query("SELECT id, phrase, head, tail FROM word_entries")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.WordEntry
	for rows.Next() {
		var entry models.WordEntry
		if err := rows.Scan(&entry.ID, &entry.Phrase, &entry.Head, &entry.Tail); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
