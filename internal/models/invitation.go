package models

import "time"

// Invitation lets a teacher invite a student by email. The code is a
// UUID sent in the invitation mail and redeemed at registration.
type Invitation struct {
	ID          int64
	Code        string
	Email       string
	InvitedBy   int64
	CreatedAt   time.Time
	UsedAt      *time.Time
	UsedBy      *int64
	ExpiresAt   time.Time
	InviterName string // populated via JOIN
}

func (i *Invitation) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}

func (i *Invitation) IsUsed() bool {
	return i.UsedAt != nil
}

func (i *Invitation) IsValid() bool {
	return !i.IsExpired() && !i.IsUsed()
}
