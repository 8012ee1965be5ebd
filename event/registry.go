package event

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNotRegistered = errors.New("event: no decoder registered for event type")

	registry = map[string]DecodeFunc{}
)

// DecodeFunc turns an outbox payload back into the event value it was
// encoded from.
type DecodeFunc func(payload []byte) (Event, error)

// Register adds a decoder for the given event type tag. Event types are
// registered once, at package init time; a duplicate registration is a
// programming error.
func Register(eventType string, decode DecodeFunc) {
	if _, ok := registry[eventType]; ok {
		panic(fmt.Sprintf("event: decoder already registered for event type %q", eventType))
	}
	registry[eventType] = decode
}

// Decode resolves the decoder for the given event type tag and applies it to
// the payload. It returns ErrNotRegistered when the tag is unknown.
func Decode(eventType string, payload []byte) (Event, error) {
	decode, ok := registry[eventType]
	if !ok {
		return nil, errors.Wrap(ErrNotRegistered, eventType)
	}

	ev, err := decode(payload)
	if err != nil {
		return nil, errors.Wrapf(err, "event: error decoding payload of a %s event", eventType)
	}

	return ev, nil
}
