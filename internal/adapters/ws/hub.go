package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"skool-lms/internal/adapters/persistence/models"

	"github.com/gorilla/websocket"
)

// Event names on the wire. These match what the frontend client emits
// and listens for.
const (
	EventAddNewUser  = "addNewUser"
	EventSendMessage = "sendMessage"
	EventMessage     = "message"
	EventOnlineUsers = "onlineUsers"
)

// Envelope is the frame exchanged with clients
type Envelope struct {
	Event   string          `json:"event"`
	UserID  string          `json:"userId,omitempty"`
	Message json.RawMessage `json:"message,omitempty"`
	Data    interface{}     `json:"data,omitempty"`
}

// RelayMessage is a directed chat message routed through the hub
type RelayMessage struct {
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	Text       string `json:"text"`
}

// OnlineUser is one entry of the presence set broadcast to clients
type OnlineUser struct {
	UserID   string `json:"userId"`
	SocketID string `json:"socketId"`
}

// MessagePersister stores the durable copy of a relayed message.
// Satisfied by the chat service.
type MessagePersister interface {
	SaveMessage(ctx context.Context, senderID, receiverID, text string) (*models.ChatMessage, error)
}

// Hub tracks connected users and relays chat messages. All state is
// owned by the Run goroutine and reached only through channels, so no
// locking is needed around the presence maps.
type Hub struct {
	// Registered connections.
	clients map[*Client]bool

	// Active connection per user id. A user already present is not
	// duplicated; their first connection wins until it disconnects.
	online map[string]*Client

	register   chan *Client
	announce   chan *announcement
	unregister chan *Client
	route      chan *RelayMessage
	push       chan *directPayload

	persister MessagePersister
}

// announcement binds an authenticated user id to a connection
// (the addNewUser event)
type announcement struct {
	client *Client
	userID string
}

type directPayload struct {
	userID  string
	payload interface{}
}

// NewHub creates a new hub
func NewHub(persister MessagePersister) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		online:     make(map[string]*Client),
		register:   make(chan *Client),
		announce:   make(chan *announcement),
		unregister: make(chan *Client),
		route:      make(chan *RelayMessage),
		push:       make(chan *directPayload, 64),
		persister:  persister,
	}
}

// Run processes connection events one at a time
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true

		case ann := <-h.announce:
			ann.client.userID = ann.userID
			if _, ok := h.online[ann.userID]; !ok {
				h.online[ann.userID] = ann.client
			}
			h.broadcastOnlineUsers()

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			// Presence entries are keyed by connection, not user id:
			// only the disconnecting socket's entry is removed.
			if client.userID != "" && h.online[client.userID] == client {
				delete(h.online, client.userID)
			}

		case msg := <-h.route:
			h.relay(msg)

		case p := <-h.push:
			if client, ok := h.online[p.userID]; ok {
				h.deliver(client, &Envelope{Event: EventMessage, Data: p.payload})
			}
		}
	}
}

// Push delivers a payload to a user's live connection if one exists.
// Safe to call from any goroutine.
func (h *Hub) Push(userID string, payload interface{}) {
	select {
	case h.push <- &directPayload{userID: userID, payload: payload}:
	default:
		log.Printf("⚠️ Push dropped for user %s: hub backlog full", userID)
	}
}

// relay persists a message and forwards it live when the receiver is
// connected. An offline receiver still gets the durable copy; there is
// no queued redelivery.
func (h *Hub) relay(msg *RelayMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	saved, err := h.persister.SaveMessage(ctx, msg.SenderID, msg.ReceiverID, msg.Text)
	if err != nil {
		log.Printf("⚠️ Failed to persist relayed message: %v", err)
		return
	}

	if receiver, ok := h.online[msg.ReceiverID]; ok {
		h.deliver(receiver, &Envelope{Event: EventMessage, Data: saved})
	}
}

// broadcastOnlineUsers sends the presence set to every connection
func (h *Hub) broadcastOnlineUsers() {
	users := make([]OnlineUser, 0, len(h.online))
	for userID, client := range h.online {
		users = append(users, OnlineUser{UserID: userID, SocketID: client.socketID})
	}

	envelope := &Envelope{Event: EventOnlineUsers, Data: users}
	for client := range h.clients {
		h.deliver(client, envelope)
	}
}

func (h *Hub) deliver(client *Client, envelope *Envelope) {
	payload, err := json.Marshal(envelope)
	if err != nil {
		log.Printf("⚠️ Failed to marshal envelope: %v", err)
		return
	}

	select {
	case client.send <- payload:
	default:
		close(client.send)
		delete(h.clients, client)
		if client.userID != "" && h.online[client.userID] == client {
			delete(h.online, client.userID)
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The socket listener fronts the same SPA as the HTTP API; origin
	// policy is enforced there.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades an HTTP request to a websocket connection and
// attaches it to the hub
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("⚠️ Websocket upgrade failed: %v", err)
		return
	}

	client := newClient(h, conn)
	h.register <- client

	go client.writePump()
	go client.readPump()
}

// Listen runs a dedicated HTTP listener for websocket traffic
func (h *Hub) Listen(port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/socket", h.ServeWS)

	log.Printf("🚀 Socket server listening on port %s", port)
	return http.ListenAndServe(":"+port, mux)
}
