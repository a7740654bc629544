package storage

import (
	"gorm.io/gorm"

	"github.com/MoneyBuddyTeam/BE/internal/models"
)

// SaveMessage inserts the message and refreshes the room summary. Both
// writes commit together or not at all.
func (s *Service) SaveMessage(msg *models.Message) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&models.Room{}).
			Where("id = ?", msg.RoomID).
			Updates(map[string]interface{}{
				"last_message":    msg.Preview(),
				"last_message_at": msg.SentAt,
			}).Error
	})
}

// GetMessagesForRoom returns all messages of the room in send order.
// Per-viewer visibility filtering happens in the service layer.
func (s *Service) GetMessagesForRoom(roomID uint) ([]models.Message, error) {
	var messages []models.Message
	err := s.DB.Where("room_id = ?", roomID).
		Order("sent_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// CountUnread recomputes the viewer's unread count from scratch.
func (s *Service) CountUnread(roomID, viewerID uint) (int64, error) {
	var count int64
	err := s.DB.Model(&models.Message{}).
		Where("room_id = ? AND sender_id <> ? AND is_read = ?", roomID, viewerID, false).
		Count(&count).Error
	return count, err
}

// MarkMessagesRead flips is_read on every message addressed to the viewer.
// Calling it again with no new messages is a no-op.
func (s *Service) MarkMessagesRead(roomID, viewerID uint) error {
	return s.DB.Model(&models.Message{}).
		Where("room_id = ? AND receiver_id = ? AND is_read = ?", roomID, viewerID, false).
		Update("is_read", true).Error
}
