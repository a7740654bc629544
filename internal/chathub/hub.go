package chathub

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/MoneyBuddyTeam/BE/internal/models"
	"github.com/MoneyBuddyTeam/BE/internal/storage"
)

// Hub owns the roomID -> live sessions registry of this process and the
// fan-out of relay frames to those sessions. Registry mutations and
// fan-out are serialized through the Run loop, so no lock is needed.
//
// The hub performs no authorization: by the time a frame arrives on the
// relay it has already passed ingestion checks on the originating node.
type Hub struct {
	RegisterCh   chan Client
	UnregisterCh chan Client
	BroadcastCh  chan models.Envelope

	rooms map[uint]map[Client]struct{}

	Store storage.Storage
}

func NewHub(store storage.Storage) *Hub {
	return &Hub{
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		BroadcastCh:  make(chan models.Envelope, 256),
		rooms:        make(map[uint]map[Client]struct{}),
		Store:        store,
	}
}

// Run starts the relay listener and processes registry and broadcast
// events until ctx is cancelled. Call it in its own goroutine.
func (h *Hub) Run(ctx context.Context) {
	go h.listenRelay(ctx)

	logrus.Info("chat hub running")
	for {
		select {
		case client := <-h.RegisterCh:
			h.register(client)
		case client := <-h.UnregisterCh:
			h.unregister(client)
		case env := <-h.BroadcastCh:
			h.fanOut(env)
		case <-ctx.Done():
			logrus.Info("chat hub shutting down")
			return
		}
	}
}

func (h *Hub) register(client Client) {
	roomID := client.GetRoomID()
	sessions, ok := h.rooms[roomID]
	if !ok {
		sessions = make(map[Client]struct{})
		h.rooms[roomID] = sessions
	}
	sessions[client] = struct{}{}
	logrus.WithFields(logrus.Fields{
		"room_id": roomID,
		"user_id": client.GetUserID(),
	}).Debug("session registered")
}

func (h *Hub) unregister(client Client) {
	roomID := client.GetRoomID()
	sessions, ok := h.rooms[roomID]
	if !ok {
		return
	}
	if _, ok := sessions[client]; !ok {
		return
	}
	delete(sessions, client)
	if len(sessions) == 0 {
		delete(h.rooms, roomID)
	}
	client.Close()
	logrus.WithFields(logrus.Fields{
		"room_id": roomID,
		"user_id": client.GetUserID(),
	}).Debug("session unregistered")
}

// fanOut pushes the envelope to every local session of the target room.
// Sends are non-blocking: a session whose outbound queue is full loses
// this frame (logged) instead of stalling delivery to its roommates.
func (h *Hub) fanOut(env models.Envelope) {
	for client := range h.rooms[env.RoomID] {
		select {
		case client.GetSendChannel() <- env:
		default:
			logrus.WithFields(logrus.Fields{
				"room_id": env.RoomID,
				"user_id": client.GetUserID(),
			}).Warn("session outbound queue full, frame dropped")
		}
	}
}
