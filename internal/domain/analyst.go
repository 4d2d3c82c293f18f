package domain

import "time"

// AnalystStatus is the roster status shown on the board.
type AnalystStatus string

const (
	StatusActive  AnalystStatus = "active"
	StatusAbsent  AnalystStatus = "absent"
	StatusOffline AnalystStatus = "offline"
)

// ValidStatus reports whether s is one of the three board statuses.
func ValidStatus(s AnalystStatus) bool {
	switch s {
	case StatusActive, StatusAbsent, StatusOffline:
		return true
	}
	return false
}

// Analyst is the presence record for a team member. It is owned by the
// analyst's own session but mutable by an admin, which is why writes carry
// LastModifiedBy/LastModifiedAt.
type Analyst struct {
	ID                string
	DisplayName       string
	Email             string
	AvatarURL         string
	Position          string
	AssignedClients   []string
	InternalExtension string
	ShiftStart        string
	ShiftEnd          string
	CurrentTask       string
	Status            AnalystStatus
	LastHeartbeatAt   time.Time
	LastSeen          *time.Time
	LastModifiedBy    string
	LastModifiedAt    *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ProfileSnapshot carries the self-managed profile fields merged onto the
// analyst record on every heartbeat and on profile save.
type ProfileSnapshot struct {
	DisplayName       string
	Email             string
	AvatarURL         string
	Position          string
	AssignedClients   []string
	InternalExtension string
	ShiftStart        string
	ShiftEnd          string
	CurrentTask       string
}
