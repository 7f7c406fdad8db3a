package handlers

import (
	"net/http"

	"github.com/anonto42/social-network/internal/graph"
	"github.com/anonto42/social-network/internal/resolver"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles subscribe/unsubscribe HTTP requests
type FollowHandler struct {
	graph    *graph.Engine
	resolver *resolver.Resolver
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(g *graph.Engine, res *resolver.Resolver) *FollowHandler {
	return &FollowHandler{graph: g, resolver: res}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/subscribe", h.Subscribe)
	g.DELETE("/users/:id/subscribe", h.Unsubscribe)
}

// RegisterAdminRoutes registers maintenance routes on a group that already
// enforces admin access
func (h *FollowHandler) RegisterAdminRoutes(g *echo.Group) {
	g.POST("/repair-edges", h.RepairEdges)
}

// Subscribe makes the authenticated user follow :id. Repeating it is a no-op.
func (h *FollowHandler) Subscribe(c echo.Context) error {
	current, err := currentUser(c)
	if err != nil {
		return err
	}
	target, err := h.resolver.FindUserByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	if current.ID == target.ID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot subscribe to yourself")
	}

	change, err := h.graph.Subscribe(c.Request().Context(), current, target)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, change)
}

// Unsubscribe removes the authenticated user's edge to :id
func (h *FollowHandler) Unsubscribe(c echo.Context) error {
	current, err := currentUser(c)
	if err != nil {
		return err
	}
	target, err := h.resolver.FindUserByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	change, err := h.graph.Unsubscribe(c.Request().Context(), current, target)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, change)
}

// RepairEdges runs the consistency pass over every follow edge
func (h *FollowHandler) RepairEdges(c echo.Context) error {
	report, err := h.graph.RepairEdges(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, report)
}
