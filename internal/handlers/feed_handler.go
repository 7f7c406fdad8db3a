package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/social-network/internal/apperrors"
	"github.com/anonto42/social-network/internal/feed"
	"github.com/labstack/echo/v4"
)

// FeedHandler serves the followed-users feed
type FeedHandler struct {
	feed *feed.Assembler
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(f *feed.Assembler) *FeedHandler {
	return &FeedHandler{feed: f}
}

// RegisterFeedRoutes registers feed routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// GetFeed returns posts of the users the caller follows, newest first.
// An empty feed answers 204.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	posts, err := h.feed.PostsOfFollowedUsers(c.Request().Context(), user)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoContent) {
			return c.NoContent(http.StatusNoContent)
		}
		return httpError(err)
	}
	return respondPosts(c, h.feed, posts)
}
