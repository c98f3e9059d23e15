package ws

import (
	"encoding/json"
	"time"
)

// Channel scopes who receives an event.
type Channel string

const (
	ChannelKitchen Channel = "kitchen"
	ChannelGeneral Channel = "general"
)

var Channels = []Channel{ChannelKitchen, ChannelGeneral}

func ParseChannel(s string) (Channel, bool) {
	switch Channel(s) {
	case ChannelKitchen, ChannelGeneral:
		return Channel(s), true
	}
	return "", false
}

type EventType string

const (
	EventNewOrder         EventType = "new_order"
	EventItemStateChanged EventType = "item_state_changed"
	EventJoined           EventType = "joined"
)

type Event struct {
	Type    EventType
	Payload interface{}
}

// Envelope is the wire format written to sockets, Redis and the broker.
type Envelope struct {
	Event   EventType       `json:"event"`
	Channel Channel         `json:"channel"`
	Data    json.RawMessage `json:"data,omitempty"`
	SentAt  time.Time       `json:"sent_at"`
	Origin  string          `json:"origin,omitempty"`
}

func encode(channel Channel, event Event, origin string) ([]byte, error) {
	var data json.RawMessage
	if event.Payload != nil {
		raw, err := json.Marshal(event.Payload)
		if err != nil {
			return nil, err
		}
		data = raw
	}
	return json.Marshal(Envelope{
		Event:   event.Type,
		Channel: channel,
		Data:    data,
		SentAt:  time.Now(),
		Origin:  origin,
	})
}

// Publisher delivers events to a channel. Implementations must not block the
// caller and must swallow delivery failures.
type Publisher interface {
	Publish(channel Channel, event Event)
}

// MultiPublisher fans a single publish out to every wrapped publisher.
type MultiPublisher []Publisher

func (m MultiPublisher) Publish(channel Channel, event Event) {
	for _, p := range m {
		if p != nil {
			p.Publish(channel, event)
		}
	}
}

// Nop discards everything.
type Nop struct{}

func (Nop) Publish(Channel, Event) {}
