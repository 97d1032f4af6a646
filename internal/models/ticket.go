package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ticket statuses, from submission through triage to completion
const (
	TicketStatusOpen       = "open"
	TicketStatusInProgress = "in-progress"
	TicketStatusResolved   = "resolved"
	TicketStatusClosed     = "closed"
)

// Ticket priorities
const (
	TicketPriorityLow    = "low"
	TicketPriorityMedium = "medium"
	TicketPriorityHigh   = "high"
	TicketPriorityUrgent = "urgent"
)

// Ticket represents a support request submitted by a user
type Ticket struct {
	ID          string     `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      string     `json:"user_id" gorm:"type:uuid;index;not null"`
	User        *User      `json:"user,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Title       string     `json:"title" gorm:"size:200"`
	Description string     `json:"description"`
	Status      string     `json:"status" gorm:"size:20;default:open;index"`
	Priority    string     `json:"priority" gorm:"size:10;default:medium;index"`
	Responses   []Response `json:"responses,omitempty"`
	CreatedAt   time.Time  `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (t *Ticket) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

type CreateTicketRequest struct {
	Title       string `json:"title" validate:"required,min=5,max=200"`
	Description string `json:"description" validate:"required,min=10,max=5000"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
}

type UpdateTicketRequest struct {
	Title       string `json:"title,omitempty" validate:"omitempty,min=5,max=200"`
	Description string `json:"description,omitempty" validate:"omitempty,min=10,max=5000"`
	Status      string `json:"status,omitempty" validate:"omitempty,oneof=open in-progress resolved closed"`
	Priority    string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
}
