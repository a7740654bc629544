package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MoneyBuddyTeam/BE/internal/models"
)

// RoomChannelPattern is the wildcard every instance subscribes with.
// A single pattern subscription routes all rooms; per-room subscriptions
// would grow without bound as rooms are created.
const RoomChannelPattern = "room:*"

// RoomChannel returns the relay channel name for a room.
func RoomChannel(roomID uint) string {
	return fmt.Sprintf("room:%d", roomID)
}

// PublishEnvelope serializes the envelope and publishes it on the room's
// channel. Fire-and-forget: the message is already durable, so a publish
// failure only degrades live delivery to the next history fetch.
func (s *Service) PublishEnvelope(ctx context.Context, env models.Envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return s.Redis.Publish(ctx, RoomChannel(env.RoomID), payload).Err()
}

// SubscribeRooms opens the single pattern subscription over the room
// channel namespace. The caller owns the returned PubSub.
func (s *Service) SubscribeRooms(ctx context.Context) *redis.PubSub {
	return s.Redis.PSubscribe(ctx, RoomChannelPattern)
}
