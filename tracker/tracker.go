// Package tracker defines conversation trackers and the store contract
// that keeps them.
package tracker

import (
	"maps"
	"time"

	"github.com/google/uuid"
)

// Event types recorded on a tracker.
const (
	EventUser    = "user"
	EventBot     = "bot"
	EventAction  = "action"
	EventSlot    = "slot"
	EventRestart = "restart"
)

// Event is a single entry in a conversation's history.
type Event struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Text      string            `json:"text,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Data      map[string]string `json:"data,omitempty"`
}

// NewEvent creates an event with a fresh ID, stamped now.
func NewEvent(typ, text string) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      typ,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}
}

// Tracker is the state of one conversation, keyed by sender.
type Tracker struct {
	SenderID string  `json:"senderId"`
	Events   []Event `json:"events"`
}

// New returns an empty tracker for sender.
func New(senderID string) *Tracker {
	return &Tracker{SenderID: senderID}
}

// Append adds events in order.
func (t *Tracker) Append(events ...Event) {
	t.Events = append(t.Events, events...)
}

// Latest returns the last event, if any.
func (t *Tracker) Latest() (Event, bool) {
	if len(t.Events) == 0 {
		return Event{}, false
	}
	return t.Events[len(t.Events)-1], true
}

// Clone returns a copy that shares no slices or maps with t.
func (t *Tracker) Clone() *Tracker {
	if t == nil {
		return nil
	}
	out := &Tracker{SenderID: t.SenderID, Events: make([]Event, len(t.Events))}
	for i, e := range t.Events {
		e.Data = maps.Clone(e.Data)
		out.Events[i] = e
	}
	return out
}
