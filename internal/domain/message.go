package domain

import "time"

// ChatMessage is one entry in the team chat. Messages are immutable after
// creation; TaggedClient and TaggedType are structured fields, not substrings
// of Body.
type ChatMessage struct {
	ID                string
	SenderID          string
	SenderDisplayName string
	Body              string
	TaggedClient      string
	TaggedType        string
	CreatedAt         time.Time
}

// Empty reports whether the message carries neither text nor a tag.
// An empty message is rejected at append time.
func (m ChatMessage) Empty() bool {
	return m.Body == "" && m.TaggedClient == "" && m.TaggedType == ""
}

// MessageTypes is the fixed enumeration selectable through the # trigger.
var MessageTypes = []string{
	"Auditar Solicitud",
	"Comunicarse",
	"Mail",
	"Pasar llamado",
}

// ValidMessageType reports whether t is one of the fixed message types.
func ValidMessageType(t string) bool {
	for _, known := range MessageTypes {
		if known == t {
			return true
		}
	}
	return false
}
