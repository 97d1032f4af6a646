package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sebbyk/supportdesk/backend/internal/models"
	"github.com/sebbyk/supportdesk/backend/internal/repositories"
)

// getClaimsFromContext returns the JWT claims stored by the auth middleware,
// or nil when the request is unauthenticated.
func getClaimsFromContext(c echo.Context) *models.JwtCustomClaims {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok {
		return nil
	}
	return claims
}

func getUserIDFromContext(c echo.Context) string {
	if claims := getClaimsFromContext(c); claims != nil {
		return claims.UserID
	}
	return ""
}

func isAdminFromContext(c echo.Context) bool {
	if claims := getClaimsFromContext(c); claims != nil {
		return claims.AccessLevel == models.AccessLevelAdmin
	}
	return false
}

// UserHandler handles user profile HTTP requests
type UserHandler struct {
	userRepository repositories.UserRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository) *UserHandler {
	return &UserHandler{userRepository: userRepo}
}

// RegisterProfileRoutes registers user profile routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/users/me", h.GetProfile)
}

// GetProfile returns the authenticated user's profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	user, err := h.userRepository.GetUserByID(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": user})
}
