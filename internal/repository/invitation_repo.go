package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"happyschools/internal/database"
	"happyschools/internal/models"
)

// InvitationRepository handles invitation database operations.
type InvitationRepository struct {
	db *database.DB
}

// NewInvitationRepository creates a new invitation repository.
func NewInvitationRepository(db *database.DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

// CreateInvitation stores a new invitation with a fresh UUID code.
func (r *InvitationRepository) CreateInvitation(email string, invitedBy int64, expiresAt time.Time) (*models.Invitation, error) {
	code := uuid.NewString()
	id, err := r.db.InsertReturningID(`
		INSERT INTO invitations (code, email, invited_by, expires_at)
		VALUES (?, ?, ?, ?)`,
		code, email, invitedBy, expiresAt,
	)
	if err != nil {
		return nil, err
	}

	return &models.Invitation{
		ID:        id,
		Code:      code,
		Email:     email,
		InvitedBy: invitedBy,
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	}, nil
}

// GetInvitationByCode retrieves an invitation by code; nil when not found.
func (r *InvitationRepository) GetInvitationByCode(code string) (*models.Invitation, error) {
	row := r.db.QueryRow(`
		SELECT i.id, i.code, i.email, i.invited_by, i.created_at,
		       i.used_at, i.used_by, i.expires_at, COALESCE(u.name, '')
		FROM invitations i
		LEFT JOIN users u ON i.invited_by = u.id
		WHERE i.code = ?`, code)
	return scanInvitation(row.Scan)
}

// ListInvitationsByTeacher returns the invitations a teacher has sent,
// newest first.
func (r *InvitationRepository) ListInvitationsByTeacher(teacherID int64) ([]models.Invitation, error) {
	rows, err := r.db.Query(`
		SELECT i.id, i.code, i.email, i.invited_by, i.created_at,
		       i.used_at, i.used_by, i.expires_at, COALESCE(u.name, '')
		FROM invitations i
		LEFT JOIN users u ON i.invited_by = u.id
		WHERE i.invited_by = ?
		ORDER BY i.created_at DESC`, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invitations []models.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows.Scan)
		if err != nil {
			return nil, err
		}
		invitations = append(invitations, *inv)
	}
	return invitations, rows.Err()
}

// MarkInvitationUsed records who redeemed an invitation and when.
func (r *InvitationRepository) MarkInvitationUsed(code string, userID int64) error {
	_, err := r.db.Exec(`
		UPDATE invitations SET used_at = ?, used_by = ? WHERE code = ?`,
		time.Now().UTC(), userID, code,
	)
	return err
}

// DeleteInvitation removes an invitation by ID.
func (r *InvitationRepository) DeleteInvitation(id int64) error {
	_, err := r.db.Exec("DELETE FROM invitations WHERE id = ?", id)
	return err
}

func scanInvitation(scan func(...any) error) (*models.Invitation, error) {
	var inv models.Invitation
	var usedAt sql.NullTime
	var usedBy sql.NullInt64

	err := scan(
		&inv.ID, &inv.Code, &inv.Email, &inv.InvitedBy, &inv.CreatedAt,
		&usedAt, &usedBy, &inv.ExpiresAt, &inv.InviterName,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if usedAt.Valid {
		inv.UsedAt = &usedAt.Time
	}
	if usedBy.Valid {
		inv.UsedBy = &usedBy.Int64
	}
	return &inv, nil
}
