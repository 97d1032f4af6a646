package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/sebbyk/supportdesk/backend/internal/models"
	"github.com/sebbyk/supportdesk/backend/internal/push"
	"github.com/sebbyk/supportdesk/backend/internal/repositories"
	"gorm.io/gorm"
)

// TicketHandler handles ticket-related HTTP requests
type TicketHandler struct {
	ticketRepository repositories.TicketRepository
	userRepository   repositories.UserRepository
	dispatcher       *push.Dispatcher
}

// NewTicketHandler creates a new TicketHandler
func NewTicketHandler(ticketRepo repositories.TicketRepository, userRepo repositories.UserRepository, dispatcher *push.Dispatcher) *TicketHandler {
	return &TicketHandler{
		ticketRepository: ticketRepo,
		userRepository:   userRepo,
		dispatcher:       dispatcher,
	}
}

// RegisterTicketRoutes registers ticket routes
func (h *TicketHandler) RegisterTicketRoutes(g *echo.Group) {
	g.GET("/tickets", h.GetTickets)
	g.POST("/tickets", h.CreateTicket)
	g.GET("/tickets/:id", h.GetTicket)
	g.PATCH("/tickets/:id", h.UpdateTicket)
	g.DELETE("/tickets/:id", h.DeleteTicket)
}

// GetTickets returns all tickets for admins, the caller's own otherwise
func (h *TicketHandler) GetTickets(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var tickets []models.Ticket
	var err error
	if claims.AccessLevel == models.AccessLevelAdmin {
		tickets, err = h.ticketRepository.GetAllTickets()
	} else {
		tickets, err = h.ticketRepository.GetTicketsByUserID(claims.UserID)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"tickets": tickets}})
}

// CreateTicket creates a new open ticket and notifies all administrators.
// Ticket creation succeeds regardless of the notification outcome.
func (h *TicketHandler) CreateTicket(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateTicketRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	priority := req.Priority
	if priority == "" {
		priority = models.TicketPriorityMedium
	}

	ticket := &models.Ticket{
		UserID:      claims.UserID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TicketStatusOpen,
		Priority:    priority,
	}

	if err := h.ticketRepository.CreateTicket(ticket); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	submitter := claims.Email
	if user, err := h.userRepository.GetUserByID(claims.UserID); err == nil {
		submitter = user.FullName()
	}

	if err := h.dispatcher.SendToAdmins(c.Request().Context(), push.Payload{
		Title: "New Support Ticket",
		Body:  fmt.Sprintf("%s submitted: %s", submitter, ticket.Title),
		URL:   "/tickets/" + ticket.ID,
	}); err != nil {
		log.Printf("Failed to notify admins about ticket %s: %v", ticket.ID, err)
	}

	return c.JSON(http.StatusCreated, ticket)
}

// GetTicket returns one ticket with its response thread. Admins can read
// any ticket, users only their own.
func (h *TicketHandler) GetTicket(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	ticket, err := h.ticketRepository.GetTicketWithThread(c.Param("id"))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Ticket not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if claims.AccessLevel != models.AccessLevelAdmin && ticket.UserID != claims.UserID {
		// Non-owners learn nothing about the ticket's existence
		return echo.NewHTTPError(http.StatusNotFound, "Ticket not found")
	}

	return c.JSON(http.StatusOK, ticket)
}

// UpdateTicket applies the caller's permitted fields: owners may edit title
// and description, admins may change status and priority. An admin status
// change on another user's ticket notifies the owner.
func (h *TicketHandler) UpdateTicket(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	ticket, err := h.ticketRepository.GetTicketByID(c.Param("id"))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Ticket not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	isAdmin := claims.AccessLevel == models.AccessLevelAdmin
	isOwner := ticket.UserID == claims.UserID
	if !isAdmin && !isOwner {
		return echo.NewHTTPError(http.StatusForbidden, "Not allowed to update this ticket")
	}

	var req models.UpdateTicketRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	statusChanged := false
	if isAdmin {
		if req.Status != "" && req.Status != ticket.Status {
			ticket.Status = req.Status
			statusChanged = true
		}
		if req.Priority != "" {
			ticket.Priority = req.Priority
		}
	}
	if isOwner {
		if req.Title != "" {
			ticket.Title = req.Title
		}
		if req.Description != "" {
			ticket.Description = req.Description
		}
	}

	if err := h.ticketRepository.UpdateTicket(ticket); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if isAdmin && statusChanged && !isOwner {
		if err := h.dispatcher.SendToUser(c.Request().Context(), ticket.UserID, push.Payload{
			Title: "Ticket Updated",
			Body:  fmt.Sprintf("Your ticket %q status changed to %s", ticket.Title, ticket.Status),
			URL:   "/tickets/" + ticket.ID,
		}); err != nil {
			log.Printf("Failed to notify owner of ticket %s: %v", ticket.ID, err)
		}
	}

	return c.JSON(http.StatusOK, ticket)
}

// DeleteTicket deletes a ticket; administrators only
func (h *TicketHandler) DeleteTicket(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	if claims.AccessLevel != models.AccessLevelAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "Administrator access required")
	}

	if err := h.ticketRepository.DeleteTicket(c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
