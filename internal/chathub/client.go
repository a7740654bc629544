package chathub

import "github.com/MoneyBuddyTeam/BE/internal/models"

// Client is one live socket session bound to an authenticated user and a
// single consultation room. It abstracts the transport so the hub can
// fan out to any session type uniformly.
type Client interface {
	// GetUserID returns the identity bound to the session at handshake.
	GetUserID() uint
	// GetRoomID returns the room this session is subscribed to.
	GetRoomID() uint

	// GetSendChannel returns the session's outbound queue. The hub writes
	// envelopes here during fan-out; it never blocks on a slow session.
	GetSendChannel() chan<- models.Envelope

	// Run starts the session's read and write pumps.
	Run()
	// Close shuts the outbound queue down, stopping the write pump.
	Close()
}
