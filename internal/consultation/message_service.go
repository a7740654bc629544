package consultation

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/MoneyBuddyTeam/BE/internal/models"
	"github.com/MoneyBuddyTeam/BE/internal/storage"
)

// MessageService handles message ingestion, history reads and leave
// processing for consultation rooms.
type MessageService struct {
	Store storage.Storage
}

func NewMessageService(store storage.Storage) *MessageService {
	return &MessageService{Store: store}
}

// Send ingests a message submitted by sender on an authenticated session.
//
// The payload's senderId claim is ignored: sender identity always comes
// from the session binding established at handshake. The receiver is the
// room's other participant.
//
// Persistence and the room-summary update are atomic; only after they
// commit is the envelope handed to the relay. A publish failure is logged
// and swallowed — the message is durable and will surface on the next
// history fetch.
func (s *MessageService) Send(ctx context.Context, sender *models.User, p models.MessagePayload) (*models.Envelope, error) {
	room, err := s.Store.GetRoomByID(p.RoomID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if !room.HasParticipant(sender.ID) {
		return nil, ErrNoAccess
	}
	if p.Body == "" && p.ImageURL == "" {
		return nil, ErrEmptyMessage
	}

	msgType := p.Type
	if msgType == "" {
		if p.ImageURL != "" {
			msgType = models.MessageTypeImage
		} else {
			msgType = models.MessageTypeText
		}
	}
	switch msgType {
	case models.MessageTypeText, models.MessageTypeImage, models.MessageTypeSystem:
	default:
		return nil, ErrInvalidType
	}

	sentAt := time.Now()
	if p.SentAt != nil {
		sentAt = *p.SentAt
	}

	msg := models.Message{
		RoomID:     room.ID,
		SenderID:   sender.ID,
		ReceiverID: room.Counterpart(sender.ID),
		Body:       p.Body,
		ImageURL:   p.ImageURL,
		Type:       msgType,
		SentAt:     sentAt,
	}

	if err := s.Store.SaveMessage(&msg); err != nil {
		return nil, err
	}

	env := models.NewEnvelope(&msg, sender.Nickname)
	if err := s.Store.PublishEnvelope(ctx, env); err != nil {
		logrus.WithError(err).WithField("room_id", room.ID).
			Warn("relay publish failed, delivery degrades to poll")
	}
	return &env, nil
}

// Messages returns the room history as the viewer sees it: send order,
// minus anything the viewer soft-deleted by leaving.
func (s *MessageService) Messages(roomID, viewerID uint) ([]models.Message, error) {
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

	all, err := s.Store.GetMessagesForRoom(roomID)
	if err != nil {
		return nil, err
	}
	visible := make([]models.Message, 0, len(all))
	for _, m := range all {
		if m.VisibleTo(viewerID) {
			visible = append(visible, m)
		}
	}
	return visible, nil
}

// Leave soft-deletes the room's messages for the leaver's side. If the
// other side has already left everything, the room closes for good. Pure
// state transition: nothing is published to the relay.
func (s *MessageService) Leave(roomID, leaverID uint) error {
	room, err := s.Store.GetRoomByID(roomID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrRoomNotFound
		}
		return err
	}
	if !room.HasParticipant(leaverID) {
		return ErrNoAccess
	}

	_, err = s.Store.LeaveRoom(roomID, leaverID)
	return err
}
