package models

import "time"

// MessagePayload is the frame a client submits over the socket.
// SenderID is accepted for wire compatibility but ignored: the server
// always substitutes the identity bound to the session at handshake.
type MessagePayload struct {
	RoomID   uint       `json:"roomId"`
	SenderID uint       `json:"senderId"`
	Body     string     `json:"body"`
	Type     string     `json:"type"`
	ImageURL string     `json:"imageUrl"`
	SentAt   *time.Time `json:"sentAt"`
}

// Envelope is the client-facing message shape, used both for relay frames
// on the room:{id} channel and for pushes to connected sockets.
type Envelope struct {
	RoomID         uint      `json:"roomId"`
	SenderID       uint      `json:"senderId"`
	SenderNickname string    `json:"senderNickname"`
	Body           *string   `json:"body"`
	Type           string    `json:"type"`
	ImageURL       *string   `json:"imageUrl"`
	SentAt         time.Time `json:"sentAt"`
}

// NewEnvelope builds the wire representation of a persisted message.
func NewEnvelope(m *Message, senderNickname string) Envelope {
	env := Envelope{
		RoomID:         m.RoomID,
		SenderID:       m.SenderID,
		SenderNickname: senderNickname,
		Type:           m.Type,
		SentAt:         m.SentAt,
	}
	if m.Body != "" {
		body := m.Body
		env.Body = &body
	}
	if m.ImageURL != "" {
		url := m.ImageURL
		env.ImageURL = &url
	}
	return env
}
