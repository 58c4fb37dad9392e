// Package events describes resource change notifications.
package events

import (
	"context"
	"time"
)

type Action string

const (
	Created Action = "created"
	Updated Action = "updated"
	Deleted Action = "deleted"
)

type Event struct {
	Resource string    `json:"resource"`
	Action   Action    `json:"action"`
	ID       string    `json:"id"`
	Data     any       `json:"data,omitempty"`
	At       time.Time `json:"at"`
}

func New(resource string, action Action, id string, data any) Event {
	return Event{Resource: resource, Action: action, ID: id, Data: data, At: time.Now().UTC()}
}

// Publisher delivers events. Publishing is best effort and never fails the
// operation that produced the event.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) {}
