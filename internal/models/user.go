package models

import "time"

// Roles a user account can hold.
const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// User represents an account in the system: a teacher who authors
// quizzes or a student who takes them and plays the mini-games.
type User struct {
	ID            int64
	Email         string
	PasswordHash  string
	Name          string
	Role          string
	OAuthProvider string
	OAuthSubject  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsTeacher reports whether the user may author quizzes and invite
// students.
func (u *User) IsTeacher() bool {
	return u.Role == RoleTeacher
}
