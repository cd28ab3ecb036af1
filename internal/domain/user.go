package domain

import "time"

// User is the single persisted entity. PasswordHash never holds plaintext
// above the registration/login call boundary.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         Role
	Status       ApprovalStatus
	CreatedAt    time.Time
	LastLoginAt  *time.Time
	Remark       string
}

func (u User) IsAdmin() bool    { return u.Role.IsAdmin() }
func (u User) IsApproved() bool { return u.Status == StatusApproved }
func (u User) IsPending() bool  { return u.Status == StatusPending }

// CanLogin is the approval gate. Admins bypass the status check entirely;
// that is the only exception.
func (u User) CanLogin() bool {
	return u.Role.IsAdmin() || u.Status == StatusApproved
}
