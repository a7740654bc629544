package chathub

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/MoneyBuddyTeam/BE/internal/consultation"
	"github.com/MoneyBuddyTeam/BE/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096

	// sendQueueSize bounds the per-session outbound queue. When it fills,
	// the hub drops frames for this session rather than block fan-out.
	sendQueueSize = 256
)

// WebSocketClient implements Client over a gorilla/websocket connection.
// The identity and room binding are fixed at handshake time and never
// change for the lifetime of the connection.
type WebSocketClient struct {
	User   *models.User
	RoomID uint
	Conn   *websocket.Conn
	Hub    *Hub

	// Messages is the ingestion service; inbound frames are processed on
	// the read pump's goroutine, not on the hub loop.
	Messages *consultation.MessageService

	Send chan models.Envelope
}

func NewWebSocketClient(hub *Hub, messages *consultation.MessageService, conn *websocket.Conn, user *models.User, roomID uint) *WebSocketClient {
	return &WebSocketClient{
		User:     user,
		RoomID:   roomID,
		Conn:     conn,
		Hub:      hub,
		Messages: messages,
		Send:     make(chan models.Envelope, sendQueueSize),
	}
}

func (c *WebSocketClient) GetUserID() uint { return c.User.ID }
func (c *WebSocketClient) GetRoomID() uint { return c.RoomID }

func (c *WebSocketClient) GetSendChannel() chan<- models.Envelope { return c.Send }

// Run starts the read and write pumps.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close shuts down the outbound queue, which stops the write pump.
func (c *WebSocketClient) Close() {
	close(c.Send)
}

// readPump consumes inbound frames and hands them to ingestion. The
// deferred unregister is what keeps the fan-out registry free of stale
// sessions: deregistration happens on disconnect, not on failed writes.
func (c *WebSocketClient) readPump() {
	defer func() {
		c.Hub.UnregisterCh <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithError(err).WithField("user_id", c.User.ID).Warn("websocket read failed")
			}
			break
		}

		var payload models.MessagePayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			logrus.WithError(err).WithField("user_id", c.User.ID).Warn("skipping undecodable inbound frame")
			continue
		}

		if _, err := c.Messages.Send(context.Background(), c.User, payload); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"user_id": c.User.ID,
				"room_id": payload.RoomID,
			}).Warn("message rejected")
		}
	}
}

// writePump drains the outbound queue into the socket and keeps the
// connection alive with pings.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case env, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(env)
			if err != nil {
				logrus.WithError(err).WithField("user_id", c.User.ID).Error("failed to encode envelope")
				continue
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
