package ws

import (
	"fmt"
	"log"
)

// MessagePublisher is satisfied by *rabbitmq.RabbitMQ.
type MessagePublisher interface {
	PublishMessage(exchange, routingKey string, message []byte, priority uint8) error
}

type brokerMessage struct {
	routingKey string
	body       []byte
	priority   uint8
}

// BrokerFeed forwards events to a topic exchange using "<channel>.<event>"
// routing keys (kitchen.new_order, general.item_state_changed, ...). A single
// worker drains the queue so broker order matches publish order.
type BrokerFeed struct {
	broker   MessagePublisher
	exchange string
	queue    chan brokerMessage
	done     chan struct{}
}

func NewBrokerFeed(broker MessagePublisher, exchange string, queueSize int) *BrokerFeed {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &BrokerFeed{
		broker:   broker,
		exchange: exchange,
		queue:    make(chan brokerMessage, queueSize),
		done:     make(chan struct{}),
	}
}

func RoutingKey(channel Channel, event EventType) string {
	return fmt.Sprintf("%s.%s", channel, event)
}

func (f *BrokerFeed) Publish(channel Channel, event Event) {
	body, err := encode(channel, event, "")
	if err != nil {
		log.Printf("Broker encode %s failed: %v", event.Type, err)
		return
	}
	var priority uint8
	if channel == ChannelKitchen {
		priority = 5
	}
	select {
	case f.queue <- brokerMessage{RoutingKey(channel, event.Type), body, priority}:
	default:
		log.Printf("Broker queue full, dropping %s", RoutingKey(channel, event.Type))
	}
}

// Run drains the queue until Stop is called.
func (f *BrokerFeed) Run() {
	for {
		select {
		case <-f.done:
			return
		case msg := <-f.queue:
			if err := f.broker.PublishMessage(f.exchange, msg.routingKey, msg.body, msg.priority); err != nil {
				log.Printf("Broker publish %s failed: %v", msg.routingKey, err)
			}
		}
	}
}

func (f *BrokerFeed) Stop() {
	close(f.done)
}
