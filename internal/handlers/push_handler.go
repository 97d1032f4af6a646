package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/sebbyk/supportdesk/backend/internal/models"
	"github.com/sebbyk/supportdesk/backend/internal/push"
)

// PushHandler handles push subscription lifecycle HTTP requests
type PushHandler struct {
	subscriptions *push.Subscriptions
}

// NewPushHandler creates a new PushHandler
func NewPushHandler(subscriptions *push.Subscriptions) *PushHandler {
	return &PushHandler{subscriptions: subscriptions}
}

// RegisterPushRoutes registers push subscription routes
func (h *PushHandler) RegisterPushRoutes(g *echo.Group) {
	g.POST("/push/subscribe", h.Subscribe)
	g.POST("/push/unsubscribe", h.Unsubscribe)
}

// Subscribe registers the caller's browser push subscription. The owner is
// always the authenticated user, never a client-supplied ID.
func (h *PushHandler) Subscribe(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.SubscribeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.subscriptions.Register(currentUserID, req.Endpoint, req.Keys.P256dh, req.Keys.Auth); err != nil {
		if errors.Is(err, push.ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Unsubscribe removes the caller's subscription for the given endpoint.
// Removing an endpoint that is absent or owned by someone else succeeds
// without effect.
func (h *PushHandler) Unsubscribe(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.UnsubscribeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.subscriptions.Deregister(currentUserID, req.Endpoint); err != nil {
		if errors.Is(err, push.ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
