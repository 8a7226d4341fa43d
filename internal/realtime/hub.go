package realtime

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"sync"
	"time"
)

const MessageTypeHistorySnapshot = "history_snapshot"

// Message is one push to a subscribed client. Data always carries the full
// current collection for the user, never an incremental diff.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
	Time int64       `json:"time"`
}

// Client is one live subscription to a user's scan list.
type Client struct {
	ID     string
	UserID string
	Send   chan Message
}

func NewClient(userID string) *Client {
	return &Client{
		ID:     newClientID(),
		UserID: userID,
		Send:   make(chan Message, 8),
	}
}

func newClientID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "client"
	}
	return hex.EncodeToString(b)
}

// Hub maintains the set of live subscriptions and fans whole-snapshot
// updates out to every client of the affected user.
type Hub struct {
	clients    map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastReq

	mutex sync.RWMutex
}

type broadcastReq struct {
	userID  string
	message Message
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastReq),
	}
}

// Run starts the hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case req := <-h.broadcast:
			h.broadcastMessage(req)
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// PublishSnapshot delivers the user's refreshed scan collection to every
// live subscription for that user.
func (h *Hub) PublishSnapshot(userID string, data interface{}) {
	h.broadcast <- broadcastReq{
		userID: userID,
		message: Message{
			Type: MessageTypeHistorySnapshot,
			Data: data,
			Time: time.Now().UnixMilli(),
		},
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.clients[client.UserID] == nil {
		h.clients[client.UserID] = make(map[*Client]bool)
	}
	h.clients[client.UserID][client] = true

	log.Printf("Client %s subscribed for user %s. Total clients for user: %d",
		client.ID, client.UserID, len(h.clients[client.UserID]))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if clients, ok := h.clients[client.UserID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client.Send)

			if len(clients) == 0 {
				delete(h.clients, client.UserID)
			}
		}
	}
}

func (h *Hub) broadcastMessage(req broadcastReq) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.clients[req.userID] {
		select {
		case client.Send <- req.message:
		default:
			// Slow consumer, skip this delivery rather than block the hub.
		}
	}
}
