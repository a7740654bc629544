package consultation

import (
	"errors"
	"time"

	"github.com/MoneyBuddyTeam/BE/internal/models"
	"github.com/MoneyBuddyTeam/BE/internal/storage"
)

// RoomSummary is one row of the viewer's room list.
type RoomSummary struct {
	RoomID               uint      `json:"roomId"`
	Topic                string    `json:"topic"`
	OpponentID           uint      `json:"opponentId"`
	OpponentNickname     string    `json:"opponentNickname"`
	OpponentProfileImage string    `json:"opponentProfileImage"`
	LastMessage          string    `json:"lastMessage"`
	LastMessageAt        time.Time `json:"lastMessageAt"`
	Closed               bool      `json:"closed"`
	UnreadCount          int64     `json:"unreadCount"`
}

// RoomDetail is the header of an open chat view.
type RoomDetail struct {
	RoomID               uint   `json:"roomId"`
	Topic                string `json:"topic"`
	OpponentNickname     string `json:"opponentNickname"`
	OpponentProfileImage string `json:"opponentProfileImage"`
}

// RoomService handles room lifecycle and read tracking.
type RoomService struct {
	Store storage.Storage
}

func NewRoomService(store storage.Storage) *RoomService {
	return &RoomService{Store: store}
}

// EnsureRoom creates the room for a paid order or returns the existing
// one. The payment collaborator may retry its trigger; the result is the
// same room either way.
func (s *RoomService) EnsureRoom(orderID uint) (*models.Room, error) {
	room, err := s.Store.CreateRoomForOrder(orderID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return room, nil
}

// RoomsForUser lists the viewer's rooms, most recently active first, with
// opponent info and a freshly computed unread count per room.
func (s *RoomService) RoomsForUser(viewerID uint) ([]RoomSummary, error) {
	rooms, err := s.Store.GetRoomsForUser(viewerID)
	if err != nil {
		return nil, err
	}

	summaries := make([]RoomSummary, 0, len(rooms))
	for i := range rooms {
		room := &rooms[i]
		opponent, err := s.Store.GetUserByID(room.Counterpart(viewerID))
		if err != nil {
			return nil, err
		}
		unread, err := s.Store.CountUnread(room.ID, viewerID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, RoomSummary{
			RoomID:               room.ID,
			Topic:                room.Order.Topic,
			OpponentID:           opponent.ID,
			OpponentNickname:     opponent.Nickname,
			OpponentProfileImage: opponent.ProfileImage,
			LastMessage:          room.LastMessage,
			LastMessageAt:        room.LastMessageAt,
			Closed:               room.Closed,
			UnreadCount:          unread,
		})
	}
	return summaries, nil
}

// RoomDetail returns the room header for a participant.
func (s *RoomService) RoomDetail(roomID, viewerID uint) (*RoomDetail, error) {
	room, err := s.Store.GetRoomByID(roomID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if !room.HasParticipant(viewerID) {
		return nil, ErrNoAccess
	}

	opponent, err := s.Store.GetUserByID(room.Counterpart(viewerID))
	if err != nil {
		return nil, err
	}
	return &RoomDetail{
		RoomID:               room.ID,
		Topic:                room.Order.Topic,
		OpponentNickname:     opponent.Nickname,
		OpponentProfileImage: opponent.ProfileImage,
	}, nil
}

// MarkRead flips every message addressed to the viewer to read.
// Idempotent, and deliberately not propagated over the relay: read
// receipts are a query-time view, counterparts re-fetch to see them.
func (s *RoomService) MarkRead(roomID, viewerID uint) error {
	room, err := s.Store.GetRoomByID(roomID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrRoomNotFound
		}
		return err
	}
	if !room.HasParticipant(viewerID) {
		return ErrNoAccess
	}
	return s.Store.MarkMessagesRead(roomID, viewerID)
}
