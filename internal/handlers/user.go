package handlers

import (
	"net/http"

	"github.com/anonto42/social-network/internal/models"
	"github.com/anonto42/social-network/internal/resolver"
	"github.com/labstack/echo/v4"
)

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	resolver *resolver.Resolver
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(res *resolver.Resolver) *UserHandler {
	return &UserHandler{resolver: res}
}

// RegisterProfileRoutes registers user profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)
	g.GET("/users/search", h.SearchUsers)
	g.GET("/users/:id", h.GetUser)
}

// GetUser returns a user by id
func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.resolver.FindUserByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, user)
}

// GetProfile returns the authenticated user
func (h *UserHandler) GetProfile(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, user)
}

// SearchUsers resolves the only user with the given first name, or with
// the given first and last name.
func (h *UserHandler) SearchUsers(c echo.Context) error {
	firstName := c.QueryParam("first_name")
	lastName := c.QueryParam("last_name")
	if firstName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "first_name is required")
	}

	var (
		user *models.User
		err  error
	)
	if lastName == "" {
		user, err = h.resolver.FindUserByFirstName(c.Request().Context(), firstName)
	} else {
		user, err = h.resolver.FindUserByFullName(c.Request().Context(), firstName, lastName)
	}
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, user.ToCompact())
}
