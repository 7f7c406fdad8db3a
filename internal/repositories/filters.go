package repositories

import (
	"fmt"

	"github.com/anonto42/social-network/internal/apperrors"
	"github.com/anonto42/social-network/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EdgeField names one side of a follow edge on a user document
type EdgeField string

const (
	FollowingField   EdgeField = "following"
	SubscribersField EdgeField = "subscribers"
)

func (f EdgeField) validate() error {
	switch f {
	case FollowingField, SubscribersField:
		return nil
	}
	return fmt.Errorf("unknown edge field %q: %w", string(f), apperrors.ErrInvalid)
}

// UserFilter is an exact-match predicate over user fields.
// Zero-valued fields are not constrained.
type UserFilter struct {
	ID        primitive.ObjectID
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// IsEmpty reports whether the filter constrains nothing
func (f UserFilter) IsEmpty() bool {
	return f.ID.IsZero() && f.FirstName == "" && f.LastName == "" && f.Email == "" && f.Password == ""
}

// ToBSON builds the Mongo filter document
func (f UserFilter) ToBSON() bson.D {
	filter := bson.D{}
	if !f.ID.IsZero() {
		filter = append(filter, bson.E{Key: "_id", Value: f.ID})
	}
	if f.FirstName != "" {
		filter = append(filter, bson.E{Key: "firstName", Value: f.FirstName})
	}
	if f.LastName != "" {
		filter = append(filter, bson.E{Key: "lastName", Value: f.LastName})
	}
	if f.Email != "" {
		filter = append(filter, bson.E{Key: "email", Value: f.Email})
	}
	if f.Password != "" {
		filter = append(filter, bson.E{Key: "password", Value: f.Password})
	}
	return filter
}

// Matches evaluates the filter against a user in memory
func (f UserFilter) Matches(u *models.User) bool {
	if !f.ID.IsZero() && u.ID != f.ID {
		return false
	}
	if f.FirstName != "" && u.FirstName != f.FirstName {
		return false
	}
	if f.LastName != "" && u.LastName != f.LastName {
		return false
	}
	if f.Email != "" && u.Email != f.Email {
		return false
	}
	if f.Password != "" && u.Password != f.Password {
		return false
	}
	return true
}

// PostFilter is a predicate over post fields.
// A nil AuthorIDs is unconstrained; a non-nil empty AuthorIDs matches nothing.
type PostFilter struct {
	ID        primitive.ObjectID
	AuthorID  primitive.ObjectID
	AuthorIDs []primitive.ObjectID
}

// ToBSON builds the Mongo filter document
func (f PostFilter) ToBSON() bson.D {
	filter := bson.D{}
	if !f.ID.IsZero() {
		filter = append(filter, bson.E{Key: "_id", Value: f.ID})
	}
	switch {
	case f.AuthorIDs != nil && !f.AuthorID.IsZero():
		// both constrain userId; emit their intersection under one key
		ids := []primitive.ObjectID{}
		if models.ContainsID(f.AuthorIDs, f.AuthorID) {
			ids = append(ids, f.AuthorID)
		}
		filter = append(filter, bson.E{Key: "userId", Value: bson.M{"$in": ids}})
	case f.AuthorIDs != nil:
		filter = append(filter, bson.E{Key: "userId", Value: bson.M{"$in": f.AuthorIDs}})
	case !f.AuthorID.IsZero():
		filter = append(filter, bson.E{Key: "userId", Value: f.AuthorID})
	}
	return filter
}

// Matches evaluates the filter against a post in memory
func (f PostFilter) Matches(p *models.Post) bool {
	if !f.ID.IsZero() && p.ID != f.ID {
		return false
	}
	if !f.AuthorID.IsZero() && p.UserID != f.AuthorID {
		return false
	}
	if f.AuthorIDs != nil && !models.ContainsID(f.AuthorIDs, p.UserID) {
		return false
	}
	return true
}

// FindOptions controls result size and ordering of FindPosts
type FindOptions struct {
	Limit       int64
	NewestFirst bool // postDate descending, ties by _id descending
}

// newestFirstSort is the Mongo sort matching FindOptions.NewestFirst
var newestFirstSort = bson.D{{Key: "postDate", Value: -1}, {Key: "_id", Value: -1}}
