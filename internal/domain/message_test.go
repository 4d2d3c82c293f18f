package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMessageEmpty(t *testing.T) {
	assert.True(t, ChatMessage{}.Empty())
	assert.False(t, ChatMessage{Body: "hola"}.Empty())
	assert.False(t, ChatMessage{TaggedClient: "Acme"}.Empty())
	assert.False(t, ChatMessage{TaggedType: "Mail"}.Empty())
}

func TestValidMessageType(t *testing.T) {
	for _, known := range MessageTypes {
		assert.True(t, ValidMessageType(known))
	}
	assert.False(t, ValidMessageType("Fax"))
	assert.False(t, ValidMessageType("mail"))
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusActive))
	assert.True(t, ValidStatus(StatusAbsent))
	assert.True(t, ValidStatus(StatusOffline))
	assert.False(t, ValidStatus(AnalystStatus("away")))
}

func TestDefaultPurgeBefore(t *testing.T) {
	loc := time.FixedZone("ART", -3*60*60)
	now := time.Date(2025, 6, 2, 18, 45, 12, 0, loc)

	cutoff := DefaultPurgeBefore(now)
	assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, loc), cutoff)
}
