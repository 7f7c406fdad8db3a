package handlers

import (
	"net/http"

	"github.com/anonto42/social-network/internal/engagement"
	"github.com/anonto42/social-network/internal/models"
	"github.com/anonto42/social-network/internal/resolver"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles comment-related HTTP requests
type CommentHandler struct {
	engagement *engagement.Engine
	resolver   *resolver.Resolver
	validate   *validator.Validate
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(eng *engagement.Engine, res *resolver.Resolver) *CommentHandler {
	return &CommentHandler{engagement: eng, resolver: res, validate: validator.New()}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:id/comments", h.CreateComment)
}

// CreateComment appends a comment to a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := h.validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post, err := h.resolver.FindPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	if err := h.engagement.WriteComment(c.Request().Context(), user, req.Text, post); err != nil {
		return httpError(err)
	}

	comment := models.Comment{UserID: user.ID, CommentText: req.Text}
	return success(c, http.StatusCreated, comment)
}
