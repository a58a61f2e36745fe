// Package sync carries the mirror-invalidation signal between running
// mirror instances. A mirror that performs a create or delete publishes an
// event; every subscribed mirror responds by reloading its list. Delivery
// is best-effort: a missed event is repaired by the next full load.
package sync

import (
	"context"
	"strconv"
	"time"
)

// Kind names the two signal keys the contract fixes.
type Kind string

const (
	StudentAdded   Kind = "studentAdded"
	StudentDeleted Kind = "studentDeleted"
)

// Event is a mirror-invalidation signal. At is a millisecond timestamp
// string, the marker value observers see.
type Event struct {
	Kind Kind   `json:"kind"`
	At   string `json:"at"`
}

func NewEvent(kind Kind) Event {
	return Event{
		Kind: kind,
		At:   strconv.FormatInt(time.Now().UnixMilli(), 10),
	}
}

// Notifier is the pub/sub abstraction. Subscribe returns an unsubscribe
// function; handlers run on the notifier's delivery goroutine.
type Notifier interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(handler func(Event)) (func(), error)
	Close() error
}
