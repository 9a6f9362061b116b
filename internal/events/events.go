package events

import "context"

// Event types pushed to clients watching a session.
const (
	TypeInterim      = "interim"
	TypeMessageAdded = "message_added"
	TypePatched      = "translation_patched"
	TypeHistoryClear = "history_cleared"
	TypeStatus       = "status"
	TypeError        = "error"
)

// Publisher fans session events out to whoever is watching (websocket
// forwarders subscribe on the session channel).
type Publisher interface {
	Publish(ctx context.Context, sessionID string, event any) error
}

// SessionChannel is the pub/sub channel carrying a session's live events.
func SessionChannel(sessionID string) string {
	return "bridge:session:" + sessionID + ":events"
}
