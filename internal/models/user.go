package models

import (
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account stored in the MongoDB Users collection.
// Following and Subscribers mirror each other across documents:
// B is in A.Following exactly when A is in B.Subscribers.
type User struct {
	ID          primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	FirstName   string               `json:"first_name" bson:"firstName"`
	LastName    string               `json:"last_name" bson:"lastName"`
	Email       string               `json:"email" bson:"email"`
	Password    string               `json:"-" bson:"password"` // stored verbatim, see DESIGN.md
	Interests   []string             `json:"interests" bson:"interests"`
	Following   []primitive.ObjectID `json:"following" bson:"following"`
	Subscribers []primitive.ObjectID `json:"subscribers" bson:"subscribers"`
}

// FullName joins first and last name for display
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// IsFollowing reports whether id is in the user's following set
func (u *User) IsFollowing(id primitive.ObjectID) bool {
	return ContainsID(u.Following, id)
}

// HasSubscriber reports whether id is in the user's subscribers set
func (u *User) HasSubscriber(id primitive.ObjectID) bool {
	return ContainsID(u.Subscribers, id)
}

// Normalize replaces nil arrays with empty ones so the stored document
// never carries null where array operators expect an array.
func (u *User) Normalize() {
	if u.Interests == nil {
		u.Interests = []string{}
	}
	if u.Following == nil {
		u.Following = []primitive.ObjectID{}
	}
	if u.Subscribers == nil {
		u.Subscribers = []primitive.ObjectID{}
	}
}

// UserCompact is the public projection of a user used in listings
type UserCompact struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ToCompact converts a user to its compact projection
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:        u.ID.Hex(),
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// SignUpRequest defines the request body for creating an account
type SignUpRequest struct {
	FirstName string   `json:"first_name" validate:"required,max=50"`
	LastName  string   `json:"last_name" validate:"max=50"`
	Email     string   `json:"email" validate:"required,email"`
	Password  string   `json:"password" validate:"required"`
	Interests []string `json:"interests" validate:"omitempty,dive,min=1"`
}

// SignInRequest defines the request body for a password log-in
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// ContainsID reports whether id is present in ids
func ContainsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
