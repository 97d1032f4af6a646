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

// ResponseHandler handles ticket response HTTP requests
type ResponseHandler struct {
	responseRepository repositories.ResponseRepository
	ticketRepository   repositories.TicketRepository
	userRepository     repositories.UserRepository
	dispatcher         *push.Dispatcher
}

// NewResponseHandler creates a new ResponseHandler
func NewResponseHandler(responseRepo repositories.ResponseRepository, ticketRepo repositories.TicketRepository, userRepo repositories.UserRepository, dispatcher *push.Dispatcher) *ResponseHandler {
	return &ResponseHandler{
		responseRepository: responseRepo,
		ticketRepository:   ticketRepo,
		userRepository:     userRepo,
		dispatcher:         dispatcher,
	}
}

// RegisterResponseRoutes registers response routes
func (h *ResponseHandler) RegisterResponseRoutes(g *echo.Group) {
	g.GET("/tickets/:id/responses", h.GetResponses)
	g.POST("/tickets/:id/responses", h.CreateResponse)
}

// loadAccessibleTicket fetches the ticket and enforces the owner/admin
// access rule shared by both response endpoints
func (h *ResponseHandler) loadAccessibleTicket(c echo.Context, claims *models.JwtCustomClaims) (*models.Ticket, error) {
	ticket, err := h.ticketRepository.GetTicketByID(c.Param("id"))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Ticket not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if claims.AccessLevel != models.AccessLevelAdmin && ticket.UserID != claims.UserID {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Ticket not found")
	}
	return ticket, nil
}

// GetResponses returns a ticket's responses in chronological order
func (h *ResponseHandler) GetResponses(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	ticket, err := h.loadAccessibleTicket(c, claims)
	if err != nil {
		return err
	}

	responses, err := h.responseRepository.GetResponsesByTicketID(ticket.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"responses": responses}})
}

// CreateResponse posts a response on a ticket and routes the notification:
// an admin response notifies the ticket owner, a user response notifies all
// administrators. The response is saved regardless of notification outcome.
func (h *ResponseHandler) CreateResponse(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	ticket, err := h.loadAccessibleTicket(c, claims)
	if err != nil {
		return err
	}

	var req models.CreateResponseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	isAdmin := claims.AccessLevel == models.AccessLevelAdmin
	response := &models.Response{
		TicketID:        ticket.ID,
		UserID:          claims.UserID,
		Content:         req.Content,
		IsAdminResponse: isAdmin,
	}

	if err := h.responseRepository.CreateResponse(response); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// A new response counts as activity on the ticket
	if err := h.ticketRepository.TouchTicket(ticket.ID); err != nil {
		log.Printf("Failed to touch ticket %s: %v", ticket.ID, err)
	}

	ctx := c.Request().Context()
	if isAdmin {
		if err := h.dispatcher.SendToUser(ctx, ticket.UserID, push.Payload{
			Title: "New Response",
			Body:  fmt.Sprintf("Admin responded to your ticket: %s", ticket.Title),
			URL:   "/tickets/" + ticket.ID,
		}); err != nil {
			log.Printf("Failed to notify owner of ticket %s: %v", ticket.ID, err)
		}
	} else {
		author := claims.Email
		if user, err := h.userRepository.GetUserByID(claims.UserID); err == nil {
			author = user.FullName()
		}
		if err := h.dispatcher.SendToAdmins(ctx, push.Payload{
			Title: "New Response",
			Body:  fmt.Sprintf("%s responded to: %s", author, ticket.Title),
			URL:   "/tickets/" + ticket.ID,
		}); err != nil {
			log.Printf("Failed to notify admins about ticket %s: %v", ticket.ID, err)
		}
	}

	// Return the response with its author attached
	saved, err := h.responseRepository.GetResponseByID(response.ID)
	if err != nil {
		return c.JSON(http.StatusCreated, response)
	}
	return c.JSON(http.StatusCreated, saved)
}
