package services

import (
	"context"
	"log/slog"

	pubnub "github.com/pubnub/go"

	"ticket-marketplace/utils"
)

// Notifier pushes realtime messages to per-account channels. Publishing is
// best effort and runs behind a circuit breaker so a degraded push provider
// cannot slow down checkout or scanning.
type Notifier struct {
	pn      *pubnub.PubNub
	breaker *utils.CircuitBreaker
	logger  *slog.Logger
}

func NewNotifier(pn *pubnub.PubNub, logger *slog.Logger) *Notifier {
	return &Notifier{
		pn:      pn,
		breaker: utils.NewCircuitBreaker("pubnub-publish", utils.DefaultSettings()),
		logger:  logger,
	}
}

// Publish sends a message to a channel. Failures are logged, never
// returned; realtime push is not part of any operation's contract.
func (n *Notifier) Publish(ctx context.Context, channel string, message map[string]any) {
	if n == nil || n.pn == nil {
		return
	}

	_, err := n.breaker.Execute(ctx, func() (any, error) {
		_, _, err := n.pn.Publish().
			Channel(channel).
			Message(message).
			Execute()
		return nil, err
	})
	if err != nil {
		n.logger.Warn("realtime publish failed", "channel", channel, "error", err)
	}
}

// UserChannel and OrganizerChannel name the per-account push channels.
func UserChannel(userID string) string           { return "user-" + userID }
func OrganizerChannel(organizerID string) string { return "organizer-" + organizerID }
