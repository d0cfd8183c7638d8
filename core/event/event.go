package event

import (
	"reflect"
	"time"

	"github.com/google/uuid"
)

// All is the handler name that receives every event.
const All = "*"

// Event wraps a payload with metadata.
type Event struct {
	ID        string    `json:"id"`         // Unique identifier for the event
	Name      string    `json:"name"`       // Payload type name (e.g., "RouteMatched")
	Payload   any       `json:"payload"`    // Event data
	CreatedAt time.Time `json:"created_at"` // When the event was created
}

// NewEvent creates a new Event with a generated ID and timestamp.
// The event name is derived from the payload type.
func NewEvent(payload any) Event {
	return Event{
		ID:        uuid.New().String(),
		Name:      Name(payload),
		Payload:   payload,
		CreatedAt: time.Now(),
	}
}

// Name returns the bare type name of v, unwrapping pointers.
func Name(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
