package dto

import (
	"time"

	"github.com/gcgcontrol/panel-service/internal/domain"
)

// HeartbeatRequest carries the profile snapshot merged on every heartbeat.
type HeartbeatRequest struct {
	DisplayName       string   `json:"display_name"`
	Position          string   `json:"position"`
	AssignedClients   []string `json:"assigned_clients"`
	InternalExtension string   `json:"internal_extension"`
	ShiftStart        string   `json:"shift_start"`
	ShiftEnd          string   `json:"shift_end"`
	CurrentTask       string   `json:"current_task"`
}

// ProfileSaveRequest is the first-login/edit-profile form. Extension, shift
// times, and at least one client are required.
type ProfileSaveRequest struct {
	DisplayName       string   `json:"display_name"`
	Position          string   `json:"position"`
	AssignedClients   []string `json:"assigned_clients"`
	InternalExtension string   `json:"internal_extension"`
	ShiftStart        string   `json:"shift_start"`
	ShiftEnd          string   `json:"shift_end"`
	CurrentTask       string   `json:"current_task"`
}

// SetStatusRequest is the drag-and-drop transition payload.
type SetStatusRequest struct {
	Status string `json:"status"`
}

// AnalystView is the roster card, with display status already derived.
type AnalystView struct {
	ID                string     `json:"id"`
	DisplayName       string     `json:"display_name"`
	Position          string     `json:"position"`
	AssignedClients   []string   `json:"assigned_clients"`
	InternalExtension string     `json:"internal_extension"`
	ShiftStart        string     `json:"shift_start"`
	ShiftEnd          string     `json:"shift_end"`
	CurrentTask       string     `json:"current_task"`
	AvatarURL         string     `json:"avatar_url"`
	Status            string     `json:"status"`
	LastHeartbeatAt   time.Time  `json:"last_heartbeat_at"`
	LastSeen          *time.Time `json:"last_seen,omitempty"`
}

// NewAnalystView maps a derived record into its wire form.
func NewAnalystView(a domain.Analyst) AnalystView {
	return AnalystView{
		ID:                a.ID,
		DisplayName:       a.DisplayName,
		Position:          a.Position,
		AssignedClients:   a.AssignedClients,
		InternalExtension: a.InternalExtension,
		ShiftStart:        a.ShiftStart,
		ShiftEnd:          a.ShiftEnd,
		CurrentTask:       a.CurrentTask,
		AvatarURL:         a.AvatarURL,
		Status:            string(a.Status),
		LastHeartbeatAt:   a.LastHeartbeatAt,
		LastSeen:          a.LastSeen,
	}
}

// SendMessageRequest is the chat send payload; tags are structured fields.
type SendMessageRequest struct {
	Body         string `json:"body"`
	TaggedClient string `json:"tagged_client,omitempty"`
	TaggedType   string `json:"tagged_type,omitempty"`
}

// MessageView is one chat entry.
type MessageView struct {
	ID                string    `json:"id"`
	SenderID          string    `json:"sender_id"`
	SenderDisplayName string    `json:"sender_display_name"`
	Body              string    `json:"body"`
	TaggedClient      string    `json:"tagged_client,omitempty"`
	TaggedType        string    `json:"tagged_type,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// NewMessageView maps a message into its wire form.
func NewMessageView(m domain.ChatMessage) MessageView {
	return MessageView{
		ID:                m.ID,
		SenderID:          m.SenderID,
		SenderDisplayName: m.SenderDisplayName,
		Body:              m.Body,
		TaggedClient:      m.TaggedClient,
		TaggedType:        m.TaggedType,
		CreatedAt:         m.CreatedAt,
	}
}

// AnnouncementRequest is the create/edit payload.
type AnnouncementRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// AnnouncementView is one board notice.
type AnnouncementView struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedBy string    `json:"updated_by"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewAnnouncementView maps an announcement into its wire form.
func NewAnnouncementView(a domain.Announcement) AnnouncementView {
	return AnnouncementView{
		ID:        a.ID,
		Title:     a.Title,
		Content:   a.Content,
		CreatedBy: a.CreatedBy,
		CreatedAt: a.CreatedAt,
		UpdatedBy: a.UpdatedBy,
		UpdatedAt: a.UpdatedAt,
	}
}

// RetentionRequest updates the shared purge cutoff.
type RetentionRequest struct {
	PurgeBefore time.Time `json:"purge_before"`
}
