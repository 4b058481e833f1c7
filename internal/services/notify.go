package services

import (
	"log/slog"

	"turf-booking/config"

	pubnub "github.com/pubnub/go/v7"
)

// Notifier pushes booking status changes to the owner's realtime channel.
// It is inert when PubNub keys are not configured.
type Notifier struct {
	pubnub *pubnub.PubNub
}

func NewNotifier(cfg *config.Config) *Notifier {
	if cfg.PubNubPublishKey == "" || cfg.PubNubSubscribeKey == "" {
		return &Notifier{}
	}

	pnConfig := pubnub.NewConfigWithUserId(pubnub.UserId(cfg.PubNubUserID))
	pnConfig.PublishKey = cfg.PubNubPublishKey
	pnConfig.SubscribeKey = cfg.PubNubSubscribeKey
	pnConfig.SecretKey = cfg.PubNubSecretKey

	return &Notifier{pubnub: pubnub.NewPubNub(pnConfig)}
}

// PublishBookingUpdate notifies the booking owner on their user channel.
func (n *Notifier) PublishBookingUpdate(userID string, payload map[string]any) {
	if n == nil || n.pubnub == nil {
		return
	}

	channel := "user-" + userID
	_, _, err := n.pubnub.Publish().
		Channel(channel).
		Message(payload).
		Execute()
	if err != nil {
		slog.Warn("booking notification publish failed", "channel", channel, "error", err)
	}
}
