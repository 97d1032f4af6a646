package repositories

import (
	"time"

	"github.com/sebbyk/supportdesk/backend/internal/models"
	"gorm.io/gorm"
)

// TicketRepository defines the interface for ticket data operations
type TicketRepository interface {
	CreateTicket(ticket *models.Ticket) error
	GetTicketByID(id string) (*models.Ticket, error)
	GetTicketWithThread(id string) (*models.Ticket, error)
	GetAllTickets() ([]models.Ticket, error)
	GetTicketsByUserID(userID string) ([]models.Ticket, error)
	UpdateTicket(ticket *models.Ticket) error
	TouchTicket(id string) error
	DeleteTicket(id string) error
}

// PostgresTicketRepository implements TicketRepository for PostgreSQL
type PostgresTicketRepository struct {
	db *gorm.DB
}

// NewPostgresTicketRepository creates a new PostgresTicketRepository
func NewPostgresTicketRepository(db *gorm.DB) *PostgresTicketRepository {
	return &PostgresTicketRepository{db: db}
}

// CreateTicket creates a new ticket in PostgreSQL
func (r *PostgresTicketRepository) CreateTicket(ticket *models.Ticket) error {
	return r.db.Create(ticket).Error
}

// GetTicketByID retrieves a ticket by ID without its response thread
func (r *PostgresTicketRepository) GetTicketByID(id string) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := r.db.Where("id = ?", id).First(&ticket).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}

// GetTicketWithThread retrieves a ticket with its owner and the full
// response thread in chronological order
func (r *PostgresTicketRepository) GetTicketWithThread(id string) (*models.Ticket, error) {
	var ticket models.Ticket
	err := r.db.Preload("User").
		Preload("Responses", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Responses.User").
		Where("id = ?", id).
		First(&ticket).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// GetAllTickets retrieves every ticket, newest first (admin view)
func (r *PostgresTicketRepository) GetAllTickets() ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := r.db.Preload("User").Preload("Responses").
		Order("created_at DESC").
		Find(&tickets).Error
	return tickets, err
}

// GetTicketsByUserID retrieves one user's tickets, newest first
func (r *PostgresTicketRepository) GetTicketsByUserID(userID string) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := r.db.Preload("User").Preload("Responses").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tickets).Error
	return tickets, err
}

// UpdateTicket updates an existing ticket in PostgreSQL
func (r *PostgresTicketRepository) UpdateTicket(ticket *models.Ticket) error {
	return r.db.Save(ticket).Error
}

// TouchTicket bumps a ticket's updated_at, used when a response is posted
func (r *PostgresTicketRepository) TouchTicket(id string) error {
	return r.db.Model(&models.Ticket{}).Where("id = ?", id).
		Update("updated_at", time.Now()).Error
}

// DeleteTicket deletes a ticket by ID from PostgreSQL
func (r *PostgresTicketRepository) DeleteTicket(id string) error {
	return r.db.Delete(&models.Ticket{}, "id = ?", id).Error
}
