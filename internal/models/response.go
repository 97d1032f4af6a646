package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Response is a single message on a ticket's thread, written either by the
// ticket owner or by an administrator
type Response struct {
	ID              string    `json:"id" gorm:"type:uuid;primaryKey"`
	TicketID        string    `json:"ticket_id" gorm:"type:uuid;index;not null"`
	Ticket          *Ticket   `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	UserID          string    `json:"user_id" gorm:"type:uuid;index;not null"`
	User            *User     `json:"user,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Content         string    `json:"content"`
	IsAdminResponse bool      `json:"is_admin_response" gorm:"default:false"`
	CreatedAt       time.Time `json:"created_at" gorm:"index"`
}

func (r *Response) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

type CreateResponseRequest struct {
	Content string `json:"content" validate:"required,min=1,max=5000"`
}
