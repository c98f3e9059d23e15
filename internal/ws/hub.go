package ws

import (
	"log"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
)

// Subscriber is the part of *websocket.Conn the hub needs.
type Subscriber interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// writeTimeout bounds every socket write made by the run loop.
const writeTimeout = 5 * time.Second

type subscription struct {
	channel Channel
	conn    Subscriber
}

type outbound struct {
	channel Channel
	message []byte
}

// Hub keeps one subscriber set per channel. A single Run loop owns every
// socket write, so messages on a channel leave in publish order.
type Hub struct {
	clients      map[Channel]map[Subscriber]bool
	register     chan subscription
	unregister   chan subscription
	broadcast    chan outbound
	ping         chan struct{}
	done         chan struct{}
	writeTimeout time.Duration
	stopOnce     sync.Once
	mutex        sync.Mutex
}

func NewHub(queueSize int) *Hub {
	if queueSize <= 0 {
		queueSize = 256
	}
	clients := make(map[Channel]map[Subscriber]bool, len(Channels))
	for _, ch := range Channels {
		clients[ch] = make(map[Subscriber]bool)
	}
	return &Hub{
		clients:      clients,
		register:     make(chan subscription),
		unregister:   make(chan subscription),
		broadcast:    make(chan outbound, queueSize),
		ping:         make(chan struct{}, 1),
		done:         make(chan struct{}),
		writeTimeout: writeTimeout,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.closeAll()
			return

		case sub := <-h.register:
			h.mutex.Lock()
			if h.clients[sub.channel] == nil {
				h.clients[sub.channel] = make(map[Subscriber]bool)
			}
			h.clients[sub.channel][sub.conn] = true
			h.mutex.Unlock()
			log.Printf("WS client joined %s", sub.channel)

			joined, _ := encode(sub.channel, Event{Type: EventJoined}, "")
			if err := h.write(sub.conn, websocket.TextMessage, joined); err != nil {
				h.drop(sub.channel, sub.conn)
			}

		case sub := <-h.unregister:
			h.drop(sub.channel, sub.conn)

		case msg := <-h.broadcast:
			h.mutex.Lock()
			targets := make([]Subscriber, 0, len(h.clients[msg.channel]))
			for conn := range h.clients[msg.channel] {
				targets = append(targets, conn)
			}
			h.mutex.Unlock()

			for _, conn := range targets {
				if err := h.write(conn, websocket.TextMessage, msg.message); err != nil {
					h.drop(msg.channel, conn)
				}
			}

		case <-h.ping:
			h.mutex.Lock()
			var dead []subscription
			for ch, conns := range h.clients {
				for conn := range conns {
					if err := h.write(conn, websocket.PingMessage, nil); err != nil {
						dead = append(dead, subscription{ch, conn})
					}
				}
			}
			h.mutex.Unlock()
			for _, d := range dead {
				h.drop(d.channel, d.conn)
			}
		}
	}
}

// Subscribe registers conn on channel. The hub answers with a join confirmation.
func (h *Hub) Subscribe(channel Channel, conn Subscriber) {
	select {
	case h.register <- subscription{channel, conn}:
	case <-h.done:
	}
}

func (h *Hub) Unsubscribe(channel Channel, conn Subscriber) {
	select {
	case h.unregister <- subscription{channel, conn}:
	case <-h.done:
	}
}

// Publish queues the event for every subscriber of channel. It never blocks:
// when the queue is full the event is dropped and logged.
func (h *Hub) Publish(channel Channel, event Event) {
	msg, err := encode(channel, event, "")
	if err != nil {
		log.Printf("WS encode %s failed: %v", event.Type, err)
		return
	}
	h.publishRaw(channel, msg)
}

func (h *Hub) publishRaw(channel Channel, msg []byte) {
	select {
	case h.broadcast <- outbound{channel, msg}:
	default:
		log.Printf("WS queue full, dropping message for %s", channel)
	}
}

// Ping asks the run loop to ping every subscriber; dead ones are dropped.
func (h *Hub) Ping() {
	select {
	case h.ping <- struct{}{}:
	default:
	}
}

func (h *Hub) SubscriberCount(channel Channel) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients[channel])
}

func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *Hub) write(conn Subscriber, messageType int, data []byte) error {
	if err := conn.SetWriteDeadline(time.Now().Add(h.writeTimeout)); err != nil {
		return err
	}
	return conn.WriteMessage(messageType, data)
}

func (h *Hub) drop(channel Channel, conn Subscriber) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[channel][conn]; ok {
		delete(h.clients[channel], conn)
		conn.Close()
	}
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for ch, conns := range h.clients {
		for conn := range conns {
			conn.Close()
		}
		h.clients[ch] = make(map[Subscriber]bool)
	}
}
