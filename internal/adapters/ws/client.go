package ws

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

// Client is a middleman between one websocket connection and the hub
type Client struct {
	hub  *Hub
	conn *websocket.Conn

	// Buffered channel of outbound frames.
	send chan []byte

	// Connection identity; presence entries are removed by this, not by
	// user id, when the disconnect fires.
	socketID string

	// Set by the addNewUser announcement.
	userID string
}

func newClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, 256),
		socketID: uuid.NewString(),
	}
}

// readPump pumps frames from the websocket connection to the hub.
// There is at most one reader per connection.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("⚠️ Websocket read error: %v", err)
			}
			break
		}

		var envelope Envelope
		if err := json.Unmarshal(raw, &envelope); err != nil {
			log.Printf("⚠️ Invalid websocket frame: %v", err)
			continue
		}

		switch envelope.Event {
		case EventAddNewUser:
			if envelope.UserID != "" {
				c.hub.announce <- &announcement{client: c, userID: envelope.UserID}
			}
		case EventSendMessage:
			var msg RelayMessage
			if err := json.Unmarshal(envelope.Message, &msg); err != nil {
				log.Printf("⚠️ Invalid relay message: %v", err)
				continue
			}
			c.hub.route <- &msg
		default:
			log.Printf("⚠️ Unknown websocket event: %q", envelope.Event)
		}
	}
}

// writePump pumps frames from the hub to the websocket connection.
// There is at most one writer per connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
