package domain

import "time"

// Role is the authorization claim resolved once at login and carried in the
// session token. Admin is the only role permitted to reassign statuses,
// manage announcements, and delete content.
type Role string

const (
	RoleAnalyst Role = "ANALYST"
	RoleAdmin   Role = "ADMIN"
)

// Account is the credential record backing an analyst login.
type Account struct {
	ID           string
	Email        string
	DisplayName  string
	AvatarURL    string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session describes an issued login token.
type Session struct {
	AccountID string
	Role      Role
	ExpiresAt time.Time
	IssuedAt  time.Time
}
