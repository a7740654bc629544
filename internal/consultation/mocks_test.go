package consultation_test

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"

	"github.com/MoneyBuddyTeam/BE/internal/models"
)

// MockStorage is a testify mock of the storage.Storage interface.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) GetUserByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) GetOrderByID(id uint) (*models.ConsultationOrder, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ConsultationOrder), args.Error(1)
}

func (m *MockStorage) CreateRoomForOrder(orderID uint) (*models.Room, error) {
	args := m.Called(orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockStorage) GetRoomByID(roomID uint) (*models.Room, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockStorage) GetRoomsForUser(userID uint) ([]models.Room, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Room), args.Error(1)
}

func (m *MockStorage) SaveMessage(msg *models.Message) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockStorage) GetMessagesForRoom(roomID uint) ([]models.Message, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockStorage) CountUnread(roomID, viewerID uint) (int64, error) {
	args := m.Called(roomID, viewerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) MarkMessagesRead(roomID, viewerID uint) error {
	args := m.Called(roomID, viewerID)
	return args.Error(0)
}

func (m *MockStorage) LeaveRoom(roomID, leaverID uint) (bool, error) {
	args := m.Called(roomID, leaverID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) PublishEnvelope(ctx context.Context, env models.Envelope) error {
	args := m.Called(ctx, env)
	return args.Error(0)
}

func (m *MockStorage) SubscribeRooms(ctx context.Context) *redis.PubSub {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*redis.PubSub)
}
