package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Comment is embedded in its parent Post and has no identity of its own.
// At least one of UserID or CommentText must be present.
type Comment struct {
	UserID      primitive.ObjectID `json:"user_id" bson:"userId" validate:"required_without=CommentText"`
	CommentText string             `json:"comment_text" bson:"commentText" validate:"required_without=UserID"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Text string `json:"text" validate:"max=1000"`
}
