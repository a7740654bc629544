package storage

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MoneyBuddyTeam/BE/internal/models"
)

// CreateRoomForOrder creates the room for a paid order, or returns the
// existing one. Safe to call repeatedly for the same order.
func (s *Service) CreateRoomForOrder(orderID uint) (*models.Room, error) {
	var order models.ConsultationOrder
	if err := s.DB.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	room := models.Room{
		OrderID:       orderID,
		LastMessageAt: time.Now(),
	}
	err := s.DB.Where(models.Room{OrderID: orderID}).
		Attrs(room).
		FirstOrCreate(&room).Error
	if err != nil {
		return nil, err
	}
	room.Order = order
	return &room, nil
}

// GetRoomByID loads a room with its order (participants are derived from
// the order, so the order is always preloaded).
func (s *Service) GetRoomByID(roomID uint) (*models.Room, error) {
	var room models.Room
	err := s.DB.Preload("Order").First(&room, roomID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &room, nil
}

// GetRoomsForUser returns every room the user participates in, most
// recently active first.
func (s *Service) GetRoomsForUser(userID uint) ([]models.Room, error) {
	var rooms []models.Room
	err := s.DB.Preload("Order").
		Joins("JOIN consultation_orders ON consultation_orders.id = rooms.order_id").
		Where("consultation_orders.client_id = ? OR consultation_orders.advisor_id = ?", userID, userID).
		Order("rooms.last_message_at DESC").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

// LeaveRoom marks every message in the room as deleted for the leaver's
// side, then closes the room if no message is still held by either side.
// The flag flips and the closure check run in one transaction.
func (s *Service) LeaveRoom(roomID, leaverID uint) (bool, error) {
	closed := false
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&room, roomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var msgs []models.Message
		if err := tx.Where("room_id = ?", roomID).Find(&msgs).Error; err != nil {
			return err
		}

		// A viewer may be sender on some messages and receiver on others
		// in the same room; MarkLeft flips the right flag per message.
		for i := range msgs {
			if !msgs[i].MarkLeft(leaverID) {
				continue
			}
			err := tx.Model(&models.Message{}).
				Where("id = ?", msgs[i].ID).
				Updates(map[string]interface{}{
					"deleted_by_sender":   msgs[i].DeletedBySender,
					"deleted_by_receiver": msgs[i].DeletedByReceiver,
				}).Error
			if err != nil {
				return err
			}
		}

		if room.Closed || !models.DepartedByBoth(msgs) {
			return nil
		}

		if err := tx.Model(&models.Room{}).
			Where("id = ?", roomID).
			Update("closed", true).Error; err != nil {
			return err
		}
		closed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if closed {
		logrus.WithField("room_id", roomID).Info("room closed after mutual leave")
	}
	return closed, nil
}
