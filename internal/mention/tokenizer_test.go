package mention

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActiveClientTrigger(t *testing.T) {
	input := "Call @Ban"

	active, ok := Active(input, len(input))
	require.True(t, ok)
	assert.Equal(t, TriggerClient, active.Kind)
	assert.Equal(t, "Ban", active.Filter)
	assert.Equal(t, 5, active.Start)
}

func TestActiveTerminatedBySpace(t *testing.T) {
	input := "Call @Ban "

	_, ok := Active(input, len(input))
	assert.False(t, ok)
}

func TestActiveTypeTrigger(t *testing.T) {
	active, ok := Active("#Ma", 3)
	require.True(t, ok)
	assert.Equal(t, TriggerType, active.Kind)
	assert.Equal(t, "Ma", active.Filter)
}

func TestActiveCursorMidInput(t *testing.T) {
	// Text after the cursor does not terminate the trigger.
	active, ok := Active("#Mail please", 5)
	require.True(t, ok)
	assert.Equal(t, TriggerType, active.Kind)
	assert.Equal(t, "Mail", active.Filter)
}

func TestActiveNearestTriggerWins(t *testing.T) {
	input := "@acme #Ma"

	active, ok := Active(input, len(input))
	require.True(t, ok)
	assert.Equal(t, TriggerType, active.Kind)
	assert.Equal(t, "Ma", active.Filter)
}

func TestActiveNoTrigger(t *testing.T) {
	_, ok := Active("plain text", 10)
	assert.False(t, ok)
}

func TestActiveCursorClamped(t *testing.T) {
	active, ok := Active("@a", 99)
	require.True(t, ok)
	assert.Equal(t, "a", active.Filter)

	_, ok = Active("@a", -1)
	assert.False(t, ok)
}

func TestActiveBareTrigger(t *testing.T) {
	// A lone trigger character is live with an empty filter.
	active, ok := Active("@", 1)
	require.True(t, ok)
	assert.Equal(t, "", active.Filter)
}

func TestSuggestClients(t *testing.T) {
	clients := []string{"Banco Uno", "Acme", "Urbano"}

	got := Suggest("say @ban", 8, clients)
	assert.Equal(t, []string{"Banco Uno", "Urbano"}, got)
}

func TestSuggestTypes(t *testing.T) {
	got := Suggest("#mail", 5, nil)
	assert.Equal(t, []string{"Mail"}, got)
}

func TestSuggestEmptyFilterReturnsAll(t *testing.T) {
	got := Suggest("#", 1, nil)
	assert.Len(t, got, 4)
}

func TestSuggestInactive(t *testing.T) {
	assert.Nil(t, Suggest("no trigger here", 5, []string{"Acme"}))
}

func TestChoose(t *testing.T) {
	assert.Equal(t, Selection{TaggedClient: "Acme"}, Choose(TriggerClient, "Acme"))
	assert.Equal(t, Selection{TaggedType: "Mail"}, Choose(TriggerType, "Mail"))
}
