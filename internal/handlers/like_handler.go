package handlers

import (
	"net/http"

	"github.com/anonto42/social-network/internal/engagement"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles like-related HTTP requests
type LikeHandler struct {
	engagement *engagement.Engine
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(eng *engagement.Engine) *LikeHandler {
	return &LikeHandler{engagement: eng}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:id/likes", h.LikePost)
	g.DELETE("/posts/:id/likes", h.UnlikePost)
}

// LikePost likes a post
func (h *LikeHandler) LikePost(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.engagement.LikePost(c.Request().Context(), user, c.Param("id")); err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, echo.Map{"liked": true})
}

// UnlikePost unlikes a post
func (h *LikeHandler) UnlikePost(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.engagement.UnlikePost(c.Request().Context(), user, c.Param("id")); err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, echo.Map{"liked": false})
}
