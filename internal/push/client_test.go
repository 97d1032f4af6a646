package push

import (
	"context"
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/sebbyk/supportdesk/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newBrowserKeys generates the key material a browser's push registration
// would hand us: a P-256 public key and a 16-byte auth secret.
func newBrowserKeys(t *testing.T) (p256dh, auth string) {
	t.Helper()
	key, err := ecdh.P256().GenerateKey(rand.Reader)
	require.NoError(t, err)
	secret := make([]byte, 16)
	_, err = rand.Read(secret)
	require.NoError(t, err)
	return base64.RawURLEncoding.EncodeToString(key.PublicKey().Bytes()),
		base64.RawURLEncoding.EncodeToString(secret)
}

func newTestClient(t *testing.T, timeout time.Duration) Client {
	t.Helper()
	private, public, err := webpush.GenerateVAPIDKeys()
	require.NoError(t, err)
	return NewWebPushClient(VAPIDConfig{
		PublicKey:  public,
		PrivateKey: private,
		Subscriber: "ops@example.com",
		TTL:        60,
		Timeout:    timeout,
	})
}

func TestClientClassification(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		outcome Outcome
	}{
		{name: "accepted", status: http.StatusCreated, outcome: Delivered},
		{name: "gone", status: http.StatusGone, outcome: Gone},
		{name: "not found", status: http.StatusNotFound, outcome: Gone},
		{name: "server error", status: http.StatusInternalServerError, outcome: Transient},
		{name: "rate limited", status: http.StatusTooManyRequests, outcome: Transient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			p256dh, auth := newBrowserKeys(t)
			sub := &models.PushSubscription{Endpoint: server.URL, P256dhKey: p256dh, AuthKey: auth}

			client := newTestClient(t, 5*time.Second)
			res := client.Send(context.Background(), sub, []byte(`{"title":"hi"}`))

			assert.Equal(t, tt.outcome, res.Outcome)
			assert.Equal(t, server.URL, res.Endpoint)
			if tt.outcome == Transient {
				assert.Error(t, res.Reason)
			}
		})
	}
}

func TestClientTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	p256dh, auth := newBrowserKeys(t)
	sub := &models.PushSubscription{Endpoint: server.URL, P256dhKey: p256dh, AuthKey: auth}

	client := newTestClient(t, 50*time.Millisecond)

	start := time.Now()
	res := client.Send(context.Background(), sub, []byte(`{"title":"hi"}`))

	assert.Equal(t, Transient, res.Outcome, "a hung endpoint is a transient failure")
	assert.Error(t, res.Reason)
	assert.Less(t, time.Since(start), 5*time.Second, "the attempt is bounded by the timeout")
}

func TestClientRejectsGarbageKeys(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	sub := &models.PushSubscription{Endpoint: server.URL, P256dhKey: "not-a-key", AuthKey: "nope"}

	client := newTestClient(t, time.Second)
	res := client.Send(context.Background(), sub, []byte(`{"title":"hi"}`))

	assert.Equal(t, Transient, res.Outcome)
	assert.Error(t, res.Reason)
}
