package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/MoneyBuddyTeam/BE/internal/models"
)

// ErrNotFound is returned when a requested row does not exist. Callers
// should test with errors.Is and map it to their own taxonomy.
var ErrNotFound = errors.New("storage: record not found")

// Storage is the durable store plus the relay bus. PostgreSQL is the
// single source of truth; Redis is a best-effort notification layer.
type Storage interface {
	GetUserByID(id uint) (*models.User, error)

	GetOrderByID(id uint) (*models.ConsultationOrder, error)

	// CreateRoomForOrder returns the existing room for the order if one
	// exists, otherwise creates it. At most one room per order, ever.
	CreateRoomForOrder(orderID uint) (*models.Room, error)
	GetRoomByID(roomID uint) (*models.Room, error)
	GetRoomsForUser(userID uint) ([]models.Room, error)

	// SaveMessage inserts the message and refreshes the room's
	// last-message summary in one transaction.
	SaveMessage(msg *models.Message) error
	GetMessagesForRoom(roomID uint) ([]models.Message, error)
	CountUnread(roomID, viewerID uint) (int64, error)
	MarkMessagesRead(roomID, viewerID uint) error

	// LeaveRoom flips the leaver's deletion flag on every message of the
	// room and closes the room if both sides have now left everything.
	// Reports whether the room was closed by this call.
	LeaveRoom(roomID, leaverID uint) (bool, error)

	PublishEnvelope(ctx context.Context, env models.Envelope) error
	SubscribeRooms(ctx context.Context) *redis.PubSub
}

// Service implements Storage on top of GORM and go-redis.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{DB: db, Redis: rdb}
}

// GetUserByID loads one user row.
func (s *Service) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetOrderByID loads one consultation order.
func (s *Service) GetOrderByID(id uint) (*models.ConsultationOrder, error) {
	var order models.ConsultationOrder
	if err := s.DB.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}
