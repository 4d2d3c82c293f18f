package domain

import "time"

// RetentionPolicy is the single shared cutoff used by the message purge.
// Messages with CreatedAt before PurgeBefore are eligible for deletion.
type RetentionPolicy struct {
	PurgeBefore time.Time
	UpdatedBy   string
	UpdatedAt   time.Time
}

// DefaultPurgeBefore is the fallback cutoff when no admin has set one:
// the start of the current calendar day in local time.
func DefaultPurgeBefore(now time.Time) time.Time {
	year, month, day := now.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, now.Location())
}
