package push

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sebbyk/supportdesk/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Fake Implementations
// ==========================

type fakeClient struct {
	mu       sync.Mutex
	sent     []string // endpoints attempted, in settlement order
	SendFunc func(sub *models.PushSubscription) Result
}

func (f *fakeClient) Send(ctx context.Context, sub *models.PushSubscription, payload []byte) Result {
	f.mu.Lock()
	f.sent = append(f.sent, sub.Endpoint)
	f.mu.Unlock()
	if f.SendFunc != nil {
		return f.SendFunc(sub)
	}
	return Result{Endpoint: sub.Endpoint, Outcome: Delivered}
}

func (f *fakeClient) attempts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeUserRepo struct {
	users     []models.User
	adminsErr error
}

func (f *fakeUserRepo) CreateUser(user *models.User) error { return nil }
func (f *fakeUserRepo) GetUserByID(id string) (*models.User, error) {
	for i := range f.users {
		if f.users[i].ID == id {
			return &f.users[i], nil
		}
	}
	return nil, errors.New("not found")
}
func (f *fakeUserRepo) GetUserByEmail(email string) (*models.User, error) {
	return nil, errors.New("not found")
}
func (f *fakeUserRepo) GetUserByFirebaseUID(uid string) (*models.User, error) {
	return nil, errors.New("not found")
}
func (f *fakeUserRepo) GetAdmins() ([]models.User, error) {
	if f.adminsErr != nil {
		return nil, f.adminsErr
	}
	var admins []models.User
	for _, u := range f.users {
		if u.AccessLevel == models.AccessLevelAdmin {
			admins = append(admins, u)
		}
	}
	return admins, nil
}
func (f *fakeUserRepo) UpdateUser(user *models.User) error { return nil }
func (f *fakeUserRepo) DeleteUser(id string) error         { return nil }

// ==========================
// Test Helper Functions
// ==========================

var enabledVAPID = VAPIDConfig{PublicKey: "test-public", PrivateKey: "test-private", Subscriber: "ops@example.com"}

func newTestDispatcher(cfg VAPIDConfig, store *fakeSubscriptionStore, users *fakeUserRepo, client *fakeClient) *Dispatcher {
	return NewDispatcher(cfg, client, store, users, NewSubscriptions(store))
}

func registerSubs(t *testing.T, store *fakeSubscriptionStore, userID string, endpoints ...string) {
	t.Helper()
	subs := NewSubscriptions(store)
	for _, endpoint := range endpoints {
		require.NoError(t, subs.Register(userID, endpoint, "p256dh-key", "auth-key"))
	}
}

func testPayload() Payload {
	return Payload{Title: "New Support Ticket", Body: "Jane Doe submitted: printer on fire", URL: "/tickets/t-1"}
}

// ==========================
// Dispatcher Tests
// ==========================

func TestSendToUserFailureIsolation(t *testing.T) {
	store := newFakeSubscriptionStore()
	registerSubs(t, store, "user-1",
		"https://push.example.com/send/dead",
		"https://push.example.com/send/live",
		"https://push.example.com/send/flaky",
	)

	client := &fakeClient{SendFunc: func(sub *models.PushSubscription) Result {
		switch sub.Endpoint {
		case "https://push.example.com/send/dead":
			return Result{Endpoint: sub.Endpoint, Outcome: Gone}
		case "https://push.example.com/send/flaky":
			return Result{Endpoint: sub.Endpoint, Outcome: Transient, Reason: errors.New("rate limited")}
		default:
			return Result{Endpoint: sub.Endpoint, Outcome: Delivered}
		}
	}}
	d := newTestDispatcher(enabledVAPID, store, &fakeUserRepo{}, client)

	err := d.SendToUser(context.Background(), "user-1", testPayload())

	require.NoError(t, err, "individual delivery failures never surface")
	assert.Equal(t, 3, client.attempts(), "every subscription gets its attempt")

	_, deadKept := store.get("https://push.example.com/send/dead")
	assert.False(t, deadKept, "gone endpoint is pruned")
	_, liveKept := store.get("https://push.example.com/send/live")
	assert.True(t, liveKept)
	_, flakyKept := store.get("https://push.example.com/send/flaky")
	assert.True(t, flakyKept, "transient failure keeps the subscription")
}

func TestSendToUserNoSubscriptions(t *testing.T) {
	store := newFakeSubscriptionStore()
	client := &fakeClient{}
	d := newTestDispatcher(enabledVAPID, store, &fakeUserRepo{}, client)

	err := d.SendToUser(context.Background(), "user-without-devices", testPayload())

	require.NoError(t, err)
	assert.Equal(t, 0, client.attempts())
}

func TestSendToUserConfigAbsent(t *testing.T) {
	store := newFakeSubscriptionStore()
	registerSubs(t, store, "user-1", testEndpoint)
	client := &fakeClient{}
	d := newTestDispatcher(VAPIDConfig{}, store, &fakeUserRepo{}, client)

	require.NoError(t, d.SendToUser(context.Background(), "user-1", testPayload()))
	assert.Equal(t, 0, client.attempts(), "unconfigured push never touches the delivery client")
}

func TestSendToUserStoreError(t *testing.T) {
	store := newFakeSubscriptionStore()
	store.getErr = errors.New("connection refused")
	client := &fakeClient{}
	d := newTestDispatcher(enabledVAPID, store, &fakeUserRepo{}, client)

	err := d.SendToUser(context.Background(), "user-1", testPayload())

	assert.Error(t, err, "a failed store lookup is the one error that propagates")
	assert.Equal(t, 0, client.attempts())
}

func TestSendToAdminsFanOut(t *testing.T) {
	store := newFakeSubscriptionStore()
	users := &fakeUserRepo{users: []models.User{
		{ID: "admin-a", AccessLevel: models.AccessLevelAdmin},
		{ID: "admin-b", AccessLevel: models.AccessLevelAdmin},
		{ID: "user-c", AccessLevel: models.AccessLevelUser},
	}}
	registerSubs(t, store, "admin-a",
		"https://push.example.com/send/a1",
		"https://push.example.com/send/a2",
	)
	registerSubs(t, store, "admin-b", "https://push.example.com/send/b1")
	registerSubs(t, store, "user-c", "https://push.example.com/send/c1")

	client := &fakeClient{SendFunc: func(sub *models.PushSubscription) Result {
		if sub.Endpoint == "https://push.example.com/send/b1" {
			return Result{Endpoint: sub.Endpoint, Outcome: Gone}
		}
		return Result{Endpoint: sub.Endpoint, Outcome: Delivered}
	}}
	d := newTestDispatcher(enabledVAPID, store, users, client)

	err := d.SendToAdmins(context.Background(), testPayload())

	require.NoError(t, err)
	assert.Equal(t, 3, client.attempts(), "both admins' subscriptions attempted, regular users skipped")

	_, b1Kept := store.get("https://push.example.com/send/b1")
	assert.False(t, b1Kept, "admin B's dead subscription is pruned")
	_, a1Kept := store.get("https://push.example.com/send/a1")
	assert.True(t, a1Kept)
	_, a2Kept := store.get("https://push.example.com/send/a2")
	assert.True(t, a2Kept)
	_, c1Kept := store.get("https://push.example.com/send/c1")
	assert.True(t, c1Kept, "non-admin subscriptions are never targeted")
}

func TestSendToAdminsConfigAbsent(t *testing.T) {
	store := newFakeSubscriptionStore()
	users := &fakeUserRepo{users: []models.User{{ID: "admin-a", AccessLevel: models.AccessLevelAdmin}}}
	registerSubs(t, store, "admin-a", testEndpoint)
	client := &fakeClient{}
	d := newTestDispatcher(VAPIDConfig{}, store, users, client)

	require.NoError(t, d.SendToAdmins(context.Background(), testPayload()))
	assert.Equal(t, 0, client.attempts())
}

func TestSendToAdminsLookupError(t *testing.T) {
	store := newFakeSubscriptionStore()
	users := &fakeUserRepo{adminsErr: errors.New("connection refused")}
	client := &fakeClient{}
	d := newTestDispatcher(enabledVAPID, store, users, client)

	err := d.SendToAdmins(context.Background(), testPayload())

	assert.Error(t, err)
	assert.Equal(t, 0, client.attempts())
}
