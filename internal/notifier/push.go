package notifier

import (
	"context"

	"notesapp/internal/repo"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// FCMPusher fans a push notification out to every registered device of a
// user. Tokens FCM reports as unregistered are pruned in passing.
type FCMPusher struct {
	client *messaging.Client
	tokens repo.DeviceTokenRepository
	logger *zap.SugaredLogger
}

// NewFCMPusher initializes the Firebase app from a service-account
// credentials file.
func NewFCMPusher(ctx context.Context, credentialsFile string, tokens repo.DeviceTokenRepository, logger *zap.SugaredLogger) (*FCMPusher, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, err
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, err
	}
	return &FCMPusher{client: client, tokens: tokens, logger: logger}, nil
}

// Send delivers title/body to all of the user's devices. Per-device failures
// are logged; the call only errors when the token lookup itself fails.
func (p *FCMPusher) Send(ctx context.Context, userID, title, body string) error {
	devices, err := p.tokens.ListByUser(ctx, userID)
	if err != nil {
		return err
	}

	for _, d := range devices {
		_, err := p.client.Send(ctx, &messaging.Message{
			Token: d.Token,
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
		})
		if err == nil {
			continue
		}
		if messaging.IsRegistrationTokenNotRegistered(err) {
			// Stale token, drop the registration.
			if delErr := p.tokens.DeleteByToken(ctx, d.Token); delErr != nil {
				p.logger.Warnw("failed to prune stale device token", "error", delErr)
			}
			continue
		}
		p.logger.Warnw("push send failed", "user_id", userID, "platform", d.Platform, "error", err)
	}
	return nil
}
