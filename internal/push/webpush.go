package push

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/upkeephq/upkeep-api/internal/config"
	"github.com/upkeephq/upkeep-api/internal/model"
)

// ErrSubscriptionGone indicates the push service reported the endpoint as
// permanently invalid (unregistered device). Callers should delete the
// subscription rather than retry.
var ErrSubscriptionGone = errors.New("push subscription gone")

// Transport sends an encoded payload to one push subscription.
type Transport interface {
	Send(ctx context.Context, sub *model.PushSubscription, payload []byte) error
}

type webpushTransport struct {
	options webpush.Options
	client  *http.Client
}

// NewWebPushTransport builds a Web Push transport with VAPID authentication.
func NewWebPushTransport(cfg config.PushConfig) Transport {
	return &webpushTransport{
		options: webpush.Options{
			Subscriber:      cfg.Subscriber,
			VAPIDPublicKey:  cfg.VAPIDPublicKey,
			VAPIDPrivateKey: cfg.VAPIDPrivateKey,
			TTL:             cfg.TTL,
		},
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (t *webpushTransport) Send(ctx context.Context, sub *model.PushSubscription, payload []byte) error {
	s := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dhKey,
			Auth:   sub.AuthKey,
		},
	}

	opts := t.options
	opts.HTTPClient = t.client

	resp, err := webpush.SendNotificationWithContext(ctx, payload, s, &opts)
	if err != nil {
		return fmt.Errorf("webpush send failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusGone, resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("endpoint returned %d: %w", resp.StatusCode, ErrSubscriptionGone)
	case resp.StatusCode >= 400:
		return fmt.Errorf("push service returned status %d", resp.StatusCode)
	}

	return nil
}
