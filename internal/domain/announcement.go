package domain

import "time"

// Announcement is a board notice managed exclusively by admins.
// Title and Content are required; display order is CreatedAt descending.
type Announcement struct {
	ID        string
	Title     string
	Content   string
	CreatedBy string
	CreatedAt time.Time
	UpdatedBy string
	UpdatedAt time.Time
}
