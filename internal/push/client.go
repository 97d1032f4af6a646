package push

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/sebbyk/supportdesk/backend/internal/models"
)

// Outcome classifies a single delivery attempt into a closed set so the
// dispatcher never has to sniff status codes out of opaque errors.
type Outcome int

const (
	// Delivered means the push service accepted the message.
	Delivered Outcome = iota
	// Gone means the push service reported the endpoint as permanently
	// invalid (HTTP 404/410); the subscription should be pruned.
	Gone
	// Transient covers everything else: network errors, timeouts, rate
	// limiting, push service errors. The subscription is kept.
	Transient
)

// Result is the settled outcome of one delivery attempt
type Result struct {
	Endpoint string
	Outcome  Outcome
	Reason   error // set for Transient outcomes only
}

// Client delivers one encrypted payload to one subscription endpoint
type Client interface {
	Send(ctx context.Context, sub *models.PushSubscription, payload []byte) Result
}

// VAPIDConfig is the server's push signing identity. An unset identity is a
// valid deployment state: dispatch degrades to a no-op, it is not an error.
type VAPIDConfig struct {
	PublicKey  string
	PrivateKey string
	Subscriber string // contact address, webpush-go prefixes mailto:
	TTL        int    // seconds the push service may hold the message
	Timeout    time.Duration
}

func (c VAPIDConfig) Enabled() bool {
	return c.PublicKey != "" && c.PrivateKey != ""
}

const defaultSendTimeout = 10 * time.Second

type webpushClient struct {
	cfg VAPIDConfig
}

// NewWebPushClient returns a Client that encrypts payloads against the
// subscription's keys and signs requests with the VAPID identity.
func NewWebPushClient(cfg VAPIDConfig) Client {
	return &webpushClient{cfg: cfg}
}

func (w *webpushClient) Send(ctx context.Context, sub *models.PushSubscription, payload []byte) Result {
	timeout := w.cfg.Timeout
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	s := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dhKey,
			Auth:   sub.AuthKey,
		},
	}

	resp, err := webpush.SendNotificationWithContext(ctx, payload, s, &webpush.Options{
		Subscriber:      w.cfg.Subscriber,
		VAPIDPublicKey:  w.cfg.PublicKey,
		VAPIDPrivateKey: w.cfg.PrivateKey,
		TTL:             w.cfg.TTL,
	})
	if err != nil {
		return Result{Endpoint: sub.Endpoint, Outcome: Transient, Reason: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return Result{Endpoint: sub.Endpoint, Outcome: Gone}
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return Result{Endpoint: sub.Endpoint, Outcome: Delivered}
	default:
		return Result{
			Endpoint: sub.Endpoint,
			Outcome:  Transient,
			Reason:   fmt.Errorf("push service returned status %d", resp.StatusCode),
		}
	}
}
