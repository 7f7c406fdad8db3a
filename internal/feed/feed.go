// Package feed assembles ordered post sequences for display.
package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/anonto42/social-network/internal/apperrors"
	"github.com/anonto42/social-network/internal/models"
	"github.com/anonto42/social-network/internal/repositories"
	"github.com/anonto42/social-network/internal/resolver"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DeletedUserName is shown for authors that no longer resolve
const DeletedUserName = "[deleted user]"

const enrichConcurrency = 8

// FollowingSource returns the ids a user follows
type FollowingSource interface {
	Following(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error)
}

// Assembler builds feeds. It only reads.
type Assembler struct {
	posts     repositories.PostRepository
	following FollowingSource
	resolver  *resolver.Resolver
	log       *zap.Logger
}

// New creates a feed Assembler
func New(posts repositories.PostRepository, following FollowingSource, res *resolver.Resolver, log *zap.Logger) *Assembler {
	return &Assembler{posts: posts, following: following, resolver: res, log: log.Named("feed")}
}

// AllPosts returns every post, newest first
func (a *Assembler) AllPosts(ctx context.Context) ([]models.Post, error) {
	posts, err := a.posts.FindPosts(ctx, repositories.PostFilter{}, repositories.FindOptions{NewestFirst: true})
	if err != nil {
		return nil, fmt.Errorf("all posts: %w", err)
	}
	return posts, nil
}

// PostsOfUser returns the posts authored by user in store order
func (a *Assembler) PostsOfUser(ctx context.Context, user *models.User) ([]models.Post, error) {
	posts, err := a.posts.FindPosts(ctx, repositories.PostFilter{AuthorID: user.ID}, repositories.FindOptions{})
	if err != nil {
		return nil, fmt.Errorf("posts of %s: %w", user.ID.Hex(), err)
	}
	return posts, nil
}

// PostsOfFollowedUsers returns posts by the users user follows, newest first.
// An empty feed fails with ErrNoContent.
func (a *Assembler) PostsOfFollowedUsers(ctx context.Context, user *models.User) ([]models.Post, error) {
	following, err := a.following.Following(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if len(following) == 0 {
		return nil, fmt.Errorf("feed of %s: follows nobody: %w", user.ID.Hex(), apperrors.ErrNoContent)
	}

	posts, err := a.posts.FindPosts(ctx,
		repositories.PostFilter{AuthorIDs: following},
		repositories.FindOptions{NewestFirst: true})
	if err != nil {
		return nil, fmt.Errorf("feed of %s: %w", user.ID.Hex(), err)
	}
	if len(posts) == 0 {
		return nil, fmt.Errorf("feed of %s: %w", user.ID.Hex(), apperrors.ErrNoContent)
	}
	return posts, nil
}

// CommentView is a comment with its author's display name
type CommentView struct {
	AuthorID   string `json:"author_id"`
	AuthorName string `json:"author_name"`
	Text       string `json:"text"`
}

// PostView is a post with every referenced user resolved to a display name
type PostView struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	PostDate   string        `json:"post_date"`
	AuthorID   string        `json:"author_id"`
	AuthorName string        `json:"author_name"`
	LikedBy    []string      `json:"liked_by"`
	Comments   []CommentView `json:"comments"`
}

// Enrich resolves the author, likers and comment authors of every post.
// Each distinct user is read once; lookups run concurrently. Users that no
// longer exist are shown as DeletedUserName.
func (a *Assembler) Enrich(ctx context.Context, posts []models.Post) ([]PostView, error) {
	ids := referencedUsers(posts)

	var mu sync.Mutex
	names := make(map[primitive.ObjectID]string, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)
	for _, id := range ids {
		g.Go(func() error {
			name := DeletedUserName
			u, err := a.resolver.FindUserByObjectID(gctx, id)
			switch {
			case err == nil:
				name = u.FullName()
			case errors.Is(err, apperrors.ErrNotFound):
				a.log.Debug("referenced user missing", zap.String("user_id", id.Hex()))
			default:
				return err
			}
			mu.Lock()
			names[id] = name
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("enrich posts: %w", err)
	}

	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		v := PostView{
			ID:         p.ID.Hex(),
			Title:      p.Title,
			PostDate:   p.PostDate,
			AuthorID:   p.UserID.Hex(),
			AuthorName: names[p.UserID],
			LikedBy:    make([]string, 0, len(p.Likes)),
			Comments:   make([]CommentView, 0, len(p.Comments)),
		}
		for _, id := range p.Likes {
			v.LikedBy = append(v.LikedBy, names[id])
		}
		for _, c := range p.Comments {
			cv := CommentView{Text: c.CommentText}
			if !c.UserID.IsZero() {
				cv.AuthorID = c.UserID.Hex()
				cv.AuthorName = names[c.UserID]
			}
			v.Comments = append(v.Comments, cv)
		}
		views = append(views, v)
	}
	return views, nil
}

// referencedUsers lists every distinct non-zero user id in posts, in first-seen order
func referencedUsers(posts []models.Post) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]bool)
	var ids []primitive.ObjectID
	add := func(id primitive.ObjectID) {
		if id.IsZero() || seen[id] {
			return
		}
		seen[id] = true
		ids = append(ids, id)
	}
	for _, p := range posts {
		add(p.UserID)
		for _, id := range p.Likes {
			add(id)
		}
		for _, c := range p.Comments {
			add(c.UserID)
		}
	}
	return ids
}
