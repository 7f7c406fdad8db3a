// Package engagement writes posts and maintains their likes and comments.
package engagement

import (
	"context"
	"fmt"
	"time"

	"github.com/anonto42/social-network/internal/activity"
	"github.com/anonto42/social-network/internal/apperrors"
	"github.com/anonto42/social-network/internal/models"
	"github.com/anonto42/social-network/internal/repositories"
	"github.com/anonto42/social-network/internal/resolver"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Engine handles post creation, likes and comments
type Engine struct {
	posts    repositories.PostRepository
	resolver *resolver.Resolver
	recorder activity.Recorder
	validate *validator.Validate
	log      *zap.Logger
	now      func() time.Time
}

// Option configures an Engine
type Option func(*Engine)

// WithClock overrides the clock used to stamp new posts
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engagement Engine. A nil recorder disables activity events.
func New(posts repositories.PostRepository, res *resolver.Resolver, rec activity.Recorder, log *zap.Logger, opts ...Option) *Engine {
	if rec == nil {
		rec = activity.Nop{}
	}
	e := &Engine{
		posts:    posts,
		resolver: res,
		recorder: rec,
		validate: validator.New(),
		log:      log.Named("engagement"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// LikePost adds the user's id to the post's likes.
// It fails with ErrNotFound for a missing post and ErrAlreadyLiked when
// the id is already present, including when a concurrent like won the race.
func (e *Engine) LikePost(ctx context.Context, user *models.User, postID string) error {
	post, err := e.resolver.FindPostByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.IsLikedBy(user.ID) {
		return fmt.Errorf("post %s: %w", postID, apperrors.ErrAlreadyLiked)
	}
	added, err := e.posts.AddLike(ctx, post.ID, user.ID)
	if err != nil {
		return err
	}
	if !added {
		return fmt.Errorf("post %s: %w", postID, apperrors.ErrAlreadyLiked)
	}

	e.log.Debug("post liked", zap.String("post_id", postID), zap.String("user_id", user.ID.Hex()))
	activity.Emit(ctx, e.recorder, e.log, activity.NewEvent(activity.Liked, user,
		post.UserID.Hex(), postID, activity.TargetPost))
	return nil
}

// UnlikePost removes the user's id from the post's likes.
// It fails with ErrNotFound for a missing post and ErrNotLiked when the id is absent.
func (e *Engine) UnlikePost(ctx context.Context, user *models.User, postID string) error {
	post, err := e.resolver.FindPostByID(ctx, postID)
	if err != nil {
		return err
	}
	if !post.IsLikedBy(user.ID) {
		return fmt.Errorf("post %s: %w", postID, apperrors.ErrNotLiked)
	}
	removed, err := e.posts.RemoveLike(ctx, post.ID, user.ID)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("post %s: %w", postID, apperrors.ErrNotLiked)
	}

	e.log.Debug("post unliked", zap.String("post_id", postID), zap.String("user_id", user.ID.Hex()))
	activity.Emit(ctx, e.recorder, e.log, activity.NewEvent(activity.Unliked, user,
		post.UserID.Hex(), postID, activity.TargetPost))
	return nil
}

// WritePost creates a post authored by user. The title is taken as is.
func (e *Engine) WritePost(ctx context.Context, user *models.User, title string) (*models.Post, error) {
	post := &models.Post{
		UserID:   user.ID,
		Title:    title,
		PostDate: models.FormatPostDate(e.now()),
	}
	if err := e.posts.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	e.log.Info("post written", zap.String("post_id", post.ID.Hex()), zap.String("user_id", user.ID.Hex()))
	activity.Emit(ctx, e.recorder, e.log, activity.NewEvent(activity.PostWritten, user,
		"", post.ID.Hex(), activity.TargetPost))
	return post, nil
}

// WriteComment appends a comment by user to post. The post is addressed
// by id in the store, never trusted from the caller's copy, and a post
// that no longer exists yields ErrNotFound.
func (e *Engine) WriteComment(ctx context.Context, user *models.User, text string, post *models.Post) error {
	comment := models.Comment{UserID: user.ID, CommentText: text}
	if err := e.validate.Struct(comment); err != nil {
		return fmt.Errorf("comment: %v: %w", err, apperrors.ErrInvalid)
	}
	if err := e.posts.AppendComment(ctx, post.ID, comment); err != nil {
		return err
	}

	e.log.Debug("comment written", zap.String("post_id", post.ID.Hex()), zap.String("user_id", user.ID.Hex()))
	activity.Emit(ctx, e.recorder, e.log, activity.NewEvent(activity.Commented, user,
		post.UserID.Hex(), post.ID.Hex(), activity.TargetPost))
	return nil
}
