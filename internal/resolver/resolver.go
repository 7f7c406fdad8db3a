// Package resolver is the single read path for users and posts.
// Every existence check in the other components goes through it, so
// "not found" and "ambiguous" are reported the same way everywhere.
package resolver

import (
	"context"
	"fmt"

	"github.com/anonto42/social-network/internal/apperrors"
	"github.com/anonto42/social-network/internal/models"
	"github.com/anonto42/social-network/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Resolver looks up User and Post records. It holds no cache: each call reads the store.
type Resolver struct {
	users repositories.UserRepository
	posts repositories.PostRepository
}

// New creates a Resolver over the given repositories
func New(users repositories.UserRepository, posts repositories.PostRepository) *Resolver {
	return &Resolver{users: users, posts: posts}
}

// FindUser returns the single user matching filter.
// Two documents are requested so a broken uniqueness assumption is detected.
func (r *Resolver) FindUser(ctx context.Context, filter repositories.UserFilter) (*models.User, error) {
	users, err := r.users.FindUsers(ctx, filter, 2)
	if err != nil {
		return nil, err
	}
	switch len(users) {
	case 0:
		return nil, fmt.Errorf("user: %w", apperrors.ErrNotFound)
	case 1:
		return &users[0], nil
	default:
		return nil, fmt.Errorf("user lookup matched %d documents: %w", len(users), apperrors.ErrAmbiguousResult)
	}
}

// FindUserByID resolves a user by its hex id. Malformed ids resolve to NotFound.
func (r *Resolver) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("user %q: invalid id format: %w", id, apperrors.ErrNotFound)
	}
	return r.FindUserByObjectID(ctx, objID)
}

// FindUserByObjectID resolves a user by id
func (r *Resolver) FindUserByObjectID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if id.IsZero() {
		return nil, fmt.Errorf("user: empty id: %w", apperrors.ErrNotFound)
	}
	user, err := r.FindUser(ctx, repositories.UserFilter{ID: id})
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", id.Hex(), err)
	}
	return user, nil
}

// FindUserByFirstName resolves the only user with this first name
func (r *Resolver) FindUserByFirstName(ctx context.Context, firstName string) (*models.User, error) {
	if firstName == "" {
		return nil, fmt.Errorf("user: empty first name: %w", apperrors.ErrNotFound)
	}
	return r.FindUser(ctx, repositories.UserFilter{FirstName: firstName})
}

// FindUserByFullName resolves the only user with this first and last name
func (r *Resolver) FindUserByFullName(ctx context.Context, firstName, lastName string) (*models.User, error) {
	if firstName == "" || lastName == "" {
		return nil, fmt.Errorf("user: incomplete name: %w", apperrors.ErrNotFound)
	}
	return r.FindUser(ctx, repositories.UserFilter{FirstName: firstName, LastName: lastName})
}

// FindUserByEmail resolves a user by email
func (r *Resolver) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if email == "" {
		return nil, fmt.Errorf("user: empty email: %w", apperrors.ErrNotFound)
	}
	return r.FindUser(ctx, repositories.UserFilter{Email: email})
}

// FindUserByCredentials resolves a user whose email and stored password both match
func (r *Resolver) FindUserByCredentials(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("user: missing credentials: %w", apperrors.ErrNotFound)
	}
	return r.FindUser(ctx, repositories.UserFilter{Email: email, Password: password})
}

// FindPostByID resolves a post by its hex id. Malformed ids resolve to NotFound.
func (r *Resolver) FindPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("post %q: invalid id format: %w", id, apperrors.ErrNotFound)
	}
	return r.FindPostByObjectID(ctx, objID)
}

// FindPostByObjectID resolves a post by id
func (r *Resolver) FindPostByObjectID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	if id.IsZero() {
		return nil, fmt.Errorf("post: empty id: %w", apperrors.ErrNotFound)
	}
	posts, err := r.posts.FindPosts(ctx, repositories.PostFilter{ID: id}, repositories.FindOptions{Limit: 2})
	if err != nil {
		return nil, err
	}
	switch len(posts) {
	case 0:
		return nil, fmt.Errorf("post %s: %w", id.Hex(), apperrors.ErrNotFound)
	case 1:
		return &posts[0], nil
	default:
		return nil, fmt.Errorf("post %s matched %d documents: %w", id.Hex(), len(posts), apperrors.ErrAmbiguousResult)
	}
}
