package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PushSubscription is one browser/device's registered web push channel.
// The endpoint is the identity: one physical browser channel maps to at
// most one row, and re-registering the same endpoint updates ownership and
// keys in place instead of inserting a duplicate.
type PushSubscription struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    string    `json:"user_id" gorm:"type:uuid;index;not null"`
	User      *User     `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Endpoint  string    `json:"endpoint" gorm:"uniqueIndex;not null"`
	P256dhKey string    `json:"-"` // Browser-supplied public key for payload encryption
	AuthKey   string    `json:"-"` // Browser-supplied auth secret
	CreatedAt time.Time `json:"created_at"`
}

func (s *PushSubscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// SubscribeRequest mirrors the browser PushSubscription JSON shape
type SubscribeRequest struct {
	Endpoint string `json:"endpoint" validate:"required,url"`
	Keys     struct {
		P256dh string `json:"p256dh" validate:"required"`
		Auth   string `json:"auth" validate:"required"`
	} `json:"keys" validate:"required"`
}

type UnsubscribeRequest struct {
	Endpoint string `json:"endpoint" validate:"required,url"`
}
