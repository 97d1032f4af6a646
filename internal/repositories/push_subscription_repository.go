package repositories

import (
	"github.com/sebbyk/supportdesk/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PushSubscriptionRepository defines the interface for push subscription
// storage. The endpoint column carries a unique constraint; concurrent
// upserts for the same endpoint are serialized by the database, not by
// application-level locking.
type PushSubscriptionRepository interface {
	Upsert(sub *models.PushSubscription) error
	GetByUserID(userID string) ([]models.PushSubscription, error)
	DeleteByUserEndpoint(userID, endpoint string) error
	DeleteByEndpoint(endpoint string) error
}

// PostgresPushSubscriptionRepository implements PushSubscriptionRepository
// for PostgreSQL
type PostgresPushSubscriptionRepository struct {
	db *gorm.DB
}

// NewPostgresPushSubscriptionRepository creates a new PostgresPushSubscriptionRepository
func NewPostgresPushSubscriptionRepository(db *gorm.DB) *PostgresPushSubscriptionRepository {
	return &PostgresPushSubscriptionRepository{db: db}
}

// Upsert inserts a subscription, or when the endpoint is already registered
// updates its owner and keys in place. The existing row keeps its ID.
func (r *PostgresPushSubscriptionRepository) Upsert(sub *models.PushSubscription) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "p256dh_key", "auth_key"}),
	}).Create(sub).Error
}

// GetByUserID retrieves all subscriptions registered by one user
func (r *PostgresPushSubscriptionRepository) GetByUserID(userID string) ([]models.PushSubscription, error) {
	var subs []models.PushSubscription
	if err := r.db.Where("user_id = ?", userID).Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// DeleteByUserEndpoint deletes the subscription matching both endpoint and
// owner. Deleting an absent pair is not an error.
func (r *PostgresPushSubscriptionRepository) DeleteByUserEndpoint(userID, endpoint string) error {
	return r.db.Where("user_id = ? AND endpoint = ?", userID, endpoint).
		Delete(&models.PushSubscription{}).Error
}

// DeleteByEndpoint deletes a subscription by endpoint regardless of owner.
// Used by the dispatcher when a push service reports the endpoint gone.
func (r *PostgresPushSubscriptionRepository) DeleteByEndpoint(endpoint string) error {
	return r.db.Where("endpoint = ?", endpoint).
		Delete(&models.PushSubscription{}).Error
}
