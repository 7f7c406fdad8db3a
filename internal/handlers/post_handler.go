package handlers

import (
	"net/http"

	"github.com/anonto42/social-network/internal/engagement"
	"github.com/anonto42/social-network/internal/feed"
	"github.com/anonto42/social-network/internal/models"
	"github.com/anonto42/social-network/internal/resolver"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	engagement *engagement.Engine
	feed       *feed.Assembler
	resolver   *resolver.Resolver
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(eng *engagement.Engine, f *feed.Assembler, res *resolver.Resolver) *PostHandler {
	return &PostHandler{engagement: eng, feed: f, resolver: res}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts", h.GetPosts)
	g.GET("/posts/:id", h.GetPost)
	g.GET("/users/:id/posts", h.GetUserPosts)
}

// CreatePost writes a post as the authenticated user
func (h *PostHandler) CreatePost(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	post, err := h.engagement.WritePost(c.Request().Context(), user, req.Title)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusCreated, post)
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.resolver.FindPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, post)
}

// GetPosts returns every post, newest first
func (h *PostHandler) GetPosts(c echo.Context) error {
	posts, err := h.feed.AllPosts(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return respondPosts(c, h.feed, posts)
}

// GetUserPosts returns the posts authored by :id
func (h *PostHandler) GetUserPosts(c echo.Context) error {
	author, err := h.resolver.FindUserByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	posts, err := h.feed.PostsOfUser(c.Request().Context(), author)
	if err != nil {
		return httpError(err)
	}
	return respondPosts(c, h.feed, posts)
}

// respondPosts writes posts, resolved to display names when ?enrich=true
func respondPosts(c echo.Context, f *feed.Assembler, posts []models.Post) error {
	if c.QueryParam("enrich") != "true" {
		if posts == nil {
			posts = []models.Post{}
		}
		return success(c, http.StatusOK, posts)
	}
	views, err := f.Enrich(c.Request().Context(), posts)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, views)
}
