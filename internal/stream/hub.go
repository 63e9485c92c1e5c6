package stream

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	channelPrefix = "markers:"
	channelSuffix = ":broadcast"
)

// Hub fans payloads out to websocket clients grouped by topic and relays
// them through redis so every instance's clients see them.
type Hub struct {
	id      string
	redis   *redis.Client
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex

	ready  chan struct{}
	done   <-chan struct{}
	cancel context.CancelFunc
}

type Client struct {
	Topic string
	Send  chan []byte
}

// relayMessage tags a payload with the publishing hub so it is not
// delivered twice to that hub's own clients.
type relayMessage struct {
	Origin  string `json:"origin"`
	Payload []byte `json:"payload"`
}

func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	h := &Hub{
		id:      uuid.NewString(),
		redis:   redisClient,
		clients: map[string]map[*Client]struct{}{},
		ready:   make(chan struct{}),
		done:    ctx.Done(),
		cancel:  cancel,
	}

	if redisClient != nil {
		go h.subscribeRedis(ctx)
	} else {
		close(h.ready)
	}
	return h
}

// Close stops the redis relay. Registered clients are left to their handlers.
func (h *Hub) Close() {
	h.cancel()
}

// Done is closed once Close has been called.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

func (h *Hub) Register(topic string) *Client {
	client := &Client{
		Topic: topic,
		Send:  make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[topic] == nil {
		h.clients[topic] = map[*Client]struct{}{}
	}
	h.clients[topic][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if topicClients, ok := h.clients[client.Topic]; ok {
		delete(topicClients, client)
		if len(topicClients) == 0 {
			delete(h.clients, client.Topic)
		}
	}
	close(client.Send)
}

// Broadcast never blocks: clients with a full buffer miss the payload.
func (h *Hub) Broadcast(topic string, payload []byte) {
	h.deliver(topic, payload)

	if h.redis != nil {
		msg, _ := json.Marshal(relayMessage{Origin: h.id, Payload: payload})
		err := h.redis.Publish(context.Background(), redisChannel(topic), msg).Err()
		if err != nil {
			log.Printf("redis publish error: %v", err)
		}
	}
}

func (h *Hub) deliver(topic string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[topic] {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func (h *Hub) subscribeRedis(ctx context.Context) {
	pubsub := h.redis.PSubscribe(ctx, channelPrefix+"*"+channelSuffix)
	defer pubsub.Close()

	_, err := pubsub.Receive(ctx)
	close(h.ready)
	if err != nil {
		log.Printf("redis subscribe error: %v", err)
		return
	}

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var relayed relayMessage
			if err := json.Unmarshal([]byte(msg.Payload), &relayed); err != nil {
				log.Printf("redis relay decode error: %v", err)
				continue
			}
			if relayed.Origin == h.id {
				continue
			}
			h.deliver(topicFromChannel(msg.Channel), relayed.Payload)
		}
	}
}

func redisChannel(topic string) string {
	return channelPrefix + topic + channelSuffix
}

func topicFromChannel(ch string) string {
	// markers:{topic}:broadcast
	if len(ch) <= len(channelPrefix)+len(channelSuffix) {
		return ""
	}
	return ch[len(channelPrefix) : len(ch)-len(channelSuffix)]
}
