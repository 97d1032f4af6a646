package push

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/sebbyk/supportdesk/backend/internal/models"
	"github.com/sebbyk/supportdesk/backend/internal/repositories"
)

// ErrValidation marks malformed registration input. Callers must treat it
// as permanent, not transient.
var ErrValidation = errors.New("invalid subscription input")

// Subscriptions reconciles the subscription store with the client's actual
// browser registration state.
type Subscriptions struct {
	repo repositories.PushSubscriptionRepository
}

// NewSubscriptions creates a new Subscriptions manager
func NewSubscriptions(repo repositories.PushSubscriptionRepository) *Subscriptions {
	return &Subscriptions{repo: repo}
}

// Register stores a subscription for userID, keyed by endpoint. An endpoint
// already registered, possibly under a different user, has its owner and
// keys updated in place and keeps its identifier. Repeated calls with
// identical arguments converge to the same stored state.
func (s *Subscriptions) Register(userID, endpoint, p256dhKey, authKey string) error {
	if err := validateEndpoint(endpoint); err != nil {
		return err
	}
	if p256dhKey == "" || authKey == "" {
		return fmt.Errorf("%w: missing encryption keys", ErrValidation)
	}

	sub := &models.PushSubscription{
		UserID:    userID,
		Endpoint:  endpoint,
		P256dhKey: p256dhKey,
		AuthKey:   authKey,
	}
	return s.repo.Upsert(sub)
}

// Deregister removes the subscription matching both endpoint and owner.
// A missing record (wrong owner or already gone) is a no-op success.
func (s *Subscriptions) Deregister(userID, endpoint string) error {
	if err := validateEndpoint(endpoint); err != nil {
		return err
	}
	return s.repo.DeleteByUserEndpoint(userID, endpoint)
}

// PruneInvalid removes a subscription by endpoint unconditionally. Called
// from the dispatcher's failure path when a push service reports the
// endpoint permanently gone; never driven by client input.
func (s *Subscriptions) PruneInvalid(endpoint string) error {
	return s.repo.DeleteByEndpoint(endpoint)
}

func validateEndpoint(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("%w: endpoint must be an absolute URL", ErrValidation)
	}
	return nil
}
