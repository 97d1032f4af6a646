package push

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/sebbyk/supportdesk/backend/internal/repositories"
)

// Dispatcher fans a notification payload out to a target's live
// subscriptions. Deliveries are best effort: an individual subscription's
// failure never surfaces to the event that triggered the notification, and
// endpoints reported permanently gone are pruned from the store as the
// fan-out settles.
type Dispatcher struct {
	cfg       VAPIDConfig
	client    Client
	subs      repositories.PushSubscriptionRepository
	users     repositories.UserRepository
	lifecycle *Subscriptions
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(cfg VAPIDConfig, client Client, subs repositories.PushSubscriptionRepository, users repositories.UserRepository, lifecycle *Subscriptions) *Dispatcher {
	return &Dispatcher{
		cfg:       cfg,
		client:    client,
		subs:      subs,
		users:     users,
		lifecycle: lifecycle,
	}
}

// SendToUser delivers the payload to every subscription registered by
// userID. All attempts are issued concurrently and awaited to completion;
// no ordering is guaranteed among them and no attempt's failure aborts a
// sibling. The only error returned is a failed store lookup.
func (d *Dispatcher) SendToUser(ctx context.Context, userID string, payload Payload) error {
	if !d.cfg.Enabled() {
		return nil
	}

	subs, err := d.subs.GetByUserID(userID)
	if err != nil {
		return fmt.Errorf("loading subscriptions for user %s: %w", userID, err)
	}
	if len(subs) == 0 {
		return nil
	}

	body, err := payload.Marshal()
	if err != nil {
		return fmt.Errorf("serializing payload: %w", err)
	}

	results := make([]Result, len(subs))
	var wg sync.WaitGroup
	for i := range subs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = d.client.Send(ctx, &subs[i], body)
		}(i)
	}
	wg.Wait()

	for _, res := range results {
		switch res.Outcome {
		case Delivered:
			deliveredCounter.Inc()
		case Gone:
			goneCounter.Inc()
			if err := d.lifecycle.PruneInvalid(res.Endpoint); err != nil {
				log.Printf("Failed to prune dead subscription %s: %v", res.Endpoint, err)
			}
		case Transient:
			transientCounter.Inc()
			log.Printf("Push delivery to %s failed: %v", res.Endpoint, res.Reason)
		}
	}
	return nil
}

// SendToAdmins delivers the payload to every administrator's subscriptions.
// Each admin's fan-out runs independently; one admin's failures never block
// another's deliveries. The only error returned is a failed admin lookup.
func (d *Dispatcher) SendToAdmins(ctx context.Context, payload Payload) error {
	if !d.cfg.Enabled() {
		return nil
	}

	admins, err := d.users.GetAdmins()
	if err != nil {
		return fmt.Errorf("loading administrators: %w", err)
	}

	var wg sync.WaitGroup
	for i := range admins {
		wg.Add(1)
		go func(adminID string) {
			defer wg.Done()
			if err := d.SendToUser(ctx, adminID, payload); err != nil {
				log.Printf("Push fan-out to admin %s failed: %v", adminID, err)
			}
		}(admins[i].ID)
	}
	wg.Wait()
	return nil
}
