package realtime

import (
	"context"
	"encoding/json"

	"storeapi/internal/api/events"
	"storeapi/pkg/metrics"

	"github.com/rs/zerolog"
)

// Hub manages WebSocket clients and routes change events by resource.
// It must be started with Run before clients connect.
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// resource -> set of subscribed clients, "*" receives everything
	subscriptions map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	subscribe  chan subscribeMsg
	broadcast  chan broadcastMsg

	// closed when Run returns
	done chan struct{}

	logger zerolog.Logger
}

const allResources = "*"

type subscribeMsg struct {
	client   *Client
	resource string
}

type broadcastMsg struct {
	resource string
	payload  []byte
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:       make(map[*Client]bool),
		subscriptions: make(map[string]map[*Client]bool),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		subscribe:     make(chan subscribeMsg),
		broadcast:     make(chan broadcastMsg, 256),
		done:          make(chan struct{}),
		logger:        logger,
	}
}

// Publish queues event for every client subscribed to its resource. A full
// queue drops the event.
func (h *Hub) Publish(ctx context.Context, event events.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Str("resource", event.Resource).Msg("Failed to marshal event")
		return
	}
	h.Relay(ctx, event.Resource, payload)
}

// Relay queues an already encoded event.
func (h *Hub) Relay(ctx context.Context, resource string, payload []byte) {
	select {
	case <-h.done:
		return
	default:
	}
	select {
	case h.broadcast <- broadcastMsg{resource: resource, payload: payload}:
	case <-ctx.Done():
	default:
		h.logger.Warn().Str("resource", resource).Msg("Broadcast queue full, dropping event")
	}
}

// Run routes registrations and events until ctx is cancelled. It closes
// every client's send channel on the way out.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			metrics.WebSocketClients.Set(float64(len(h.clients)))
			h.logger.Debug().Int("clients", len(h.clients)).Msg("Client registered")

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.remove(client)
				h.logger.Debug().Int("clients", len(h.clients)).Msg("Client unregistered")
			}

		case msg := <-h.subscribe:
			if _, ok := h.clients[msg.client]; !ok {
				continue
			}
			if _, ok := h.subscriptions[msg.resource]; !ok {
				h.subscriptions[msg.resource] = make(map[*Client]bool)
			}
			h.subscriptions[msg.resource][msg.client] = true

		case msg := <-h.broadcast:
			sent := make(map[*Client]bool)
			for _, key := range []string{msg.resource, allResources} {
				for client := range h.subscriptions[key] {
					if sent[client] {
						continue
					}
					sent[client] = true
					select {
					case client.send <- msg.payload:
					default:
						// Client buffer full, remove it
						h.remove(client)
					}
				}
			}
		}
	}
}

// join registers client. It reports false once the hub has stopped.
func (h *Hub) join(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) follow(client *Client, resource string) {
	select {
	case h.subscribe <- subscribeMsg{client: client, resource: resource}:
	case <-h.done:
	}
}

func (h *Hub) remove(client *Client) {
	delete(h.clients, client)
	metrics.WebSocketClients.Set(float64(len(h.clients)))
	close(client.send)
	for resource, subs := range h.subscriptions {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.subscriptions, resource)
		}
	}
}
