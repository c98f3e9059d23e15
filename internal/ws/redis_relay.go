package ws

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const relayPrefix = "pos:events:"

// RedisPublisher is the publishing half of *redis.Client.
type RedisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

type relayMessage struct {
	topic string
	body  []byte
}

// RedisRelay mirrors events between server instances over Redis pub/sub.
// Events published locally go out to Redis tagged with this instance's id;
// events from other instances are fed into the local hub. Outgoing events
// are queued and sent by a single Forward worker so Redis sees them in
// publish order.
type RedisRelay struct {
	client     *redis.Client
	publisher  RedisPublisher
	hub        *Hub
	instanceID string
	timeout    time.Duration
	outbound   chan relayMessage
}

func NewRedisRelay(client *redis.Client, hub *Hub, queueSize int) *RedisRelay {
	return newRedisRelay(client, client, hub, queueSize)
}

func newRedisRelay(client *redis.Client, publisher RedisPublisher, hub *Hub, queueSize int) *RedisRelay {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &RedisRelay{
		client:     client,
		publisher:  publisher,
		hub:        hub,
		instanceID: uuid.NewString(),
		timeout:    2 * time.Second,
		outbound:   make(chan relayMessage, queueSize),
	}
}

// NewRedisClient parses a redis:// or rediss:// URL, falling back to a bare host:port.
func NewRedisClient(url string) *redis.Client {
	opts, err := redis.ParseURL(url)
	if err != nil {
		opts = &redis.Options{Addr: url}
	}
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("WARN: Redis ping failed: %v (address: %s)", err, opts.Addr)
	} else {
		log.Println("Redis relay connection established")
	}
	return client
}

func (r *RedisRelay) Publish(channel Channel, event Event) {
	msg, err := encode(channel, event, r.instanceID)
	if err != nil {
		log.Printf("Relay encode %s failed: %v", event.Type, err)
		return
	}
	select {
	case r.outbound <- relayMessage{relayPrefix + string(channel), msg}:
	default:
		log.Printf("Relay queue full, dropping %s for %s", event.Type, channel)
	}
}

// Forward sends queued events to Redis one at a time until ctx is cancelled.
func (r *RedisRelay) Forward(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case m := <-r.outbound:
			pubCtx, cancel := context.WithTimeout(ctx, r.timeout)
			if err := r.publisher.Publish(pubCtx, m.topic, m.body).Err(); err != nil {
				log.Printf("Relay publish to %s failed: %v", m.topic, err)
			}
			cancel()
		}
	}
}

// Run subscribes to every channel and blocks until ctx is cancelled.
func (r *RedisRelay) Run(ctx context.Context) {
	topics := make([]string, len(Channels))
	for i, ch := range Channels {
		topics[i] = relayPrefix + string(ch)
	}
	sub := r.client.Subscribe(ctx, topics...)
	defer sub.Close()

	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-msgs:
			if !ok {
				return
			}
			r.handle(m.Channel, m.Payload)
		}
	}
}

// handle forwards a relayed envelope to the local hub unless this instance sent it.
func (r *RedisRelay) handle(topic, payload string) bool {
	channel, ok := ParseChannel(strings.TrimPrefix(topic, relayPrefix))
	if !ok {
		return false
	}
	var env Envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		log.Printf("Relay dropped malformed message on %s: %v", topic, err)
		return false
	}
	if env.Origin == r.instanceID {
		return false
	}
	r.hub.Publish(channel, Event{Type: env.Event, Payload: env.Data})
	return true
}
