package repository

import (
	"database/sql"
	"errors"

	"happyschools/internal/database"
	"happyschools/internal/models"
)

// UserRepository handles user account database operations.
type UserRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a new account and returns it.
func (r *UserRepository) CreateUser(email, passwordHash, name, role string) (*models.User, error) {
	id, err := r.db.InsertReturningID(`
		INSERT INTO users (email, password_hash, name, role)
		VALUES (?, ?, ?, ?)`,
		email, passwordHash, name, role,
	)
	if err != nil {
		return nil, err
	}
	return r.GetUserByID(id)
}

// CreateOAuthUser inserts an account created through an OAuth provider.
func (r *UserRepository) CreateOAuthUser(email, name, role, provider, subject string) (*models.User, error) {
	id, err := r.db.InsertReturningID(`
		INSERT INTO users (email, password_hash, name, role, oauth_provider, oauth_subject)
		VALUES (?, '', ?, ?, ?, ?)`,
		email, name, role, provider, subject,
	)
	if err != nil {
		return nil, err
	}
	return r.GetUserByID(id)
}

const userColumns = `id, email, password_hash, name, role,
	COALESCE(oauth_provider, ''), COALESCE(oauth_subject, ''), created_at, updated_at`

func (r *UserRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.Role,
		&user.OAuthProvider,
		&user.OAuthSubject,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByID retrieves a user by ID; nil when not found.
func (r *UserRepository) GetUserByID(id int64) (*models.User, error) {
	return r.scanUser(r.db.QueryRow(
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

// GetUserByEmail retrieves a user by email; nil when not found.
func (r *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	return r.scanUser(r.db.QueryRow(
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email))
}

// GetUserByOAuth retrieves a user by provider identity; nil when not
// found.
func (r *UserRepository) GetUserByOAuth(provider, subject string) (*models.User, error) {
	return r.scanUser(r.db.QueryRow(
		`SELECT `+userColumns+` FROM users WHERE oauth_provider = ? AND oauth_subject = ?`,
		provider, subject))
}
