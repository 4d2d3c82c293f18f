package events

import (
	"time"

	"github.com/gcgcontrol/panel-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAnalystChanged    EventType = "analyst_changed"
	EventAnalystDeleted    EventType = "analyst_deleted"
	EventMessageAppended   EventType = "message_appended"
	EventMessageRemoved    EventType = "message_removed"
	EventMessagesCleared   EventType = "messages_cleared"
	EventAnnouncementSaved EventType = "announcement_saved"
	EventRetentionChanged  EventType = "retention_changed"
)

// Actor encapsulates who triggered an event.
type Actor struct {
	AccountID string      `json:"account_id,omitempty"`
	Role      domain.Role `json:"role,omitempty"`
}

// Event represents a change emitted after a committed write. Subscribers use
// it as a change notice and reload the affected collection snapshot.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	SubjectID string    `json:"subject_id,omitempty"`
	Actor     Actor     `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
}

// AnalystEvents lists the event types that invalidate roster snapshots.
var AnalystEvents = []EventType{EventAnalystChanged, EventAnalystDeleted}

// MessageEvents lists the event types that invalidate chat snapshots.
var MessageEvents = []EventType{EventMessageAppended, EventMessageRemoved, EventMessagesCleared}
