package chathub

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/MoneyBuddyTeam/BE/internal/models"
)

func decodeRelayFrame(payload string) (models.Envelope, error) {
	var env models.Envelope
	err := json.Unmarshal([]byte(payload), &env)
	return env, err
}

// listenRelay opens the process-wide pattern subscription over the room
// channel namespace and forwards its frames to the broadcast channel.
func (h *Hub) listenRelay(ctx context.Context) {
	pubsub := h.Store.SubscribeRooms(ctx)
	defer pubsub.Close()

	logrus.Info("relay subscriber listening on room channels")
	h.forwardRelay(ctx, pubsub.Channel())
}

// forwardRelay feeds decoded envelopes into the broadcast channel until
// the subscription closes or ctx is cancelled. One bad frame is logged
// and dropped; the loop must outlive it, otherwise a single malformed
// publish would silence every room. The broadcast send also honors ctx:
// once the Run loop has returned, nothing drains BroadcastCh, and a
// plain send would strand this goroutine forever.
func (h *Hub) forwardRelay(ctx context.Context, ch <-chan *redis.Message) {
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				logrus.Warn("relay subscription channel closed")
				return
			}
			env, err := decodeRelayFrame(msg.Payload)
			if err != nil {
				logrus.WithError(err).WithField("channel", msg.Channel).
					Warn("dropping undecodable relay frame")
				continue
			}
			select {
			case h.BroadcastCh <- env:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
