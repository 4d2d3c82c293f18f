// Package mention parses @client and #type triggers out of chat input.
// Everything here is pure and synchronous; the UI re-evaluates on every
// keystroke against the current input string and cursor offset.
package mention

import (
	"strings"

	"github.com/gcgcontrol/panel-service/internal/domain"
)

// TriggerKind distinguishes the two mention triggers.
type TriggerKind string

const (
	TriggerClient TriggerKind = "client"
	TriggerType   TriggerKind = "type"
)

// ActiveFilter describes an unterminated trigger at the cursor.
type ActiveFilter struct {
	Kind   TriggerKind
	Filter string
	// Start is the offset of the trigger character in the input.
	Start int
}

// Active scans backward from the cursor to the nearest preceding '@' or '#'.
// The trigger is live only while no space separates it from the cursor; the
// nearer of the two triggers wins. Returns false when no unterminated
// trigger exists.
func Active(input string, cursor int) (ActiveFilter, bool) {
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(input) {
		cursor = len(input)
	}
	before := input[:cursor]

	atIndex := strings.LastIndex(before, "@")
	hashIndex := strings.LastIndex(before, "#")

	kind := TriggerClient
	start := atIndex
	if hashIndex > atIndex {
		kind = TriggerType
		start = hashIndex
	}
	if start == -1 {
		return ActiveFilter{}, false
	}

	filter := before[start+1:]
	if strings.Contains(filter, " ") {
		return ActiveFilter{}, false
	}
	return ActiveFilter{Kind: kind, Filter: filter, Start: start}, true
}

// Suggest returns the suggestion list for the live trigger: the client list
// for '@', the fixed message-type enumeration for '#', filtered by
// case-insensitive substring match. Nil when no trigger is active.
func Suggest(input string, cursor int, clients []string) []string {
	active, ok := Active(input, cursor)
	if !ok {
		return nil
	}

	source := clients
	if active.Kind == TriggerType {
		source = domain.MessageTypes
	}

	needle := strings.ToLower(active.Filter)
	var result []string
	for _, item := range source {
		if strings.Contains(strings.ToLower(item), needle) {
			result = append(result, item)
		}
	}
	return result
}

// Selection is the structured tag produced by choosing a suggestion. Tags
// are message fields, not substrings inserted back into the body.
type Selection struct {
	TaggedClient string
	TaggedType   string
}

// Choose records the chosen value for the trigger kind and clears the
// trigger state for the caller.
func Choose(kind TriggerKind, value string) Selection {
	if kind == TriggerType {
		return Selection{TaggedType: value}
	}
	return Selection{TaggedClient: value}
}
