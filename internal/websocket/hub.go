package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"docqa-chat-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "session_activity"

type Hub struct {
	// Registered clients map: session key -> List of Clients (multi-tab)
	clients map[string][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance fanout, nil in single-instance runs
	rdb *redis.Client

	// Identifies this instance on the cluster channel so it can skip its
	// own echoes.
	instanceID string

	// Dedicated Logger
	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

func (h *Hub) Run() {
	// Start Redis Subscriber if Redis is available
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.SessionID]; ok {
				for i, c := range clients {
					if c == client {
						// Send is closed exactly here; delivery paths only
						// write under the read lock, so close cannot race a
						// pending write.
						h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.SessionID]) == 0 {
					delete(h.clients, client.SessionID)
					h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"session_id": client.SessionID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// deliver writes to each client without blocking. Slow clients are returned
// instead of unregistered inline; the caller hands them to the Run loop
// after releasing the lock, otherwise Run could never acquire it.
func deliver(clients []*Client, data []byte) (dead []*Client) {
	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
			dead = append(dead, client)
		}
	}
	return dead
}

// Broadcast sends an activity payload to every connected client regardless
// of session. Used for store-wide events such as eviction sweeps.
func (h *Hub) Broadcast(data []byte) {
	h.mu.RLock()
	var dead []*Client
	for _, clients := range h.clients {
		dead = append(dead, deliver(clients, data)...)
	}
	h.mu.RUnlock()

	h.dropClients(dead)

	// Publish to Redis for other instances
	if h.rdb != nil {
		payload := map[string]interface{}{
			"origin":            h.instanceID,
			"target_session_id": "*", // Wildcard for broadcast
			"message":           json.RawMessage(data),
		}
		jsonPayload, _ := json.Marshal(payload)
		h.rdb.Publish(context.Background(), clusterChannel, jsonPayload)
	}
}

// SendToSession delivers an activity payload to every connection watching
// one session.
func (h *Hub) SendToSession(sessionID string, data []byte) {
	h.mu.RLock()
	dead := deliver(h.clients[sessionID], data)
	h.mu.RUnlock()

	h.dropClients(dead)

	// Publish to Redis so instances holding other connections for this
	// session still deliver.
	if h.rdb != nil {
		payload := map[string]interface{}{
			"origin":            h.instanceID,
			"target_session_id": sessionID,
			"message":           json.RawMessage(data),
		}
		jsonPayload, _ := json.Marshal(payload)
		h.rdb.Publish(context.Background(), clusterChannel, jsonPayload)
	}
}

func (h *Hub) dropClients(dead []*Client) {
	for _, client := range dead {
		h.logger.Warn("Hub", "Client Send buffer full, dropping client", map[string]interface{}{"session_id": client.SessionID})
		h.unregister <- client
	}
}

func (h *Hub) subscribeToRedis() {
	// Every instance subscribes to the shared channel; each message names
	// its target session and instances deliver what they hold locally.
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var payload struct {
			Origin          string          `json:"origin"`
			TargetSessionID string          `json:"target_session_id"`
			Message         json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		// Local clients already got this message before it hit the wire.
		if payload.Origin == h.instanceID {
			continue
		}

		h.mu.RLock()
		var dead []*Client
		if payload.TargetSessionID == "*" {
			for _, clients := range h.clients {
				dead = append(dead, deliver(clients, payload.Message)...)
			}
		} else {
			dead = deliver(h.clients[payload.TargetSessionID], payload.Message)
		}
		h.mu.RUnlock()

		h.dropClients(dead)
	}
}
