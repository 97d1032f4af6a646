package repositories

import (
	"github.com/sebbyk/supportdesk/backend/internal/models"
	"gorm.io/gorm"
)

// ResponseRepository defines the interface for ticket response operations
type ResponseRepository interface {
	CreateResponse(response *models.Response) error
	GetResponseByID(id string) (*models.Response, error)
	GetResponsesByTicketID(ticketID string) ([]models.Response, error)
}

// PostgresResponseRepository implements ResponseRepository for PostgreSQL
type PostgresResponseRepository struct {
	db *gorm.DB
}

// NewPostgresResponseRepository creates a new PostgresResponseRepository
func NewPostgresResponseRepository(db *gorm.DB) *PostgresResponseRepository {
	return &PostgresResponseRepository{db: db}
}

// CreateResponse creates a new response in PostgreSQL
func (r *PostgresResponseRepository) CreateResponse(response *models.Response) error {
	return r.db.Create(response).Error
}

// GetResponseByID retrieves a response with its author
func (r *PostgresResponseRepository) GetResponseByID(id string) (*models.Response, error) {
	var response models.Response
	if err := r.db.Preload("User").Where("id = ?", id).First(&response).Error; err != nil {
		return nil, err
	}
	return &response, nil
}

// GetResponsesByTicketID retrieves a ticket's responses in chronological order
func (r *PostgresResponseRepository) GetResponsesByTicketID(ticketID string) ([]models.Response, error) {
	var responses []models.Response
	err := r.db.Preload("User").
		Where("ticket_id = ?", ticketID).
		Order("created_at ASC").
		Find(&responses).Error
	return responses, err
}
