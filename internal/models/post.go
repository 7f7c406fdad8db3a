package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostDateLayout is the fixed-width UTC layout of Post.PostDate.
// Lexicographic order of formatted values equals chronological order.
const PostDateLayout = "2006-01-02T15:04:05.000000Z"

// Post represents a post stored in the MongoDB Posts collection.
// Likes is a set of user ids; Comments keeps insertion order.
type Post struct {
	ID       primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	UserID   primitive.ObjectID   `json:"user_id" bson:"userId"`
	Title    string               `json:"title" bson:"title"`
	PostDate string               `json:"post_date" bson:"postDate"`
	Likes    []primitive.ObjectID `json:"likes" bson:"likes"`
	Comments []Comment            `json:"comments" bson:"comments"`
}

// FormatPostDate renders t in PostDateLayout
func FormatPostDate(t time.Time) string {
	return t.UTC().Format(PostDateLayout)
}

// ParsePostDate parses a value produced by FormatPostDate
func ParsePostDate(s string) (time.Time, error) {
	return time.Parse(PostDateLayout, s)
}

// IsLikedBy reports whether the user id is in the post's likes
func (p *Post) IsLikedBy(id primitive.ObjectID) bool {
	return ContainsID(p.Likes, id)
}

// Normalize replaces nil arrays with empty ones before insertion
func (p *Post) Normalize() {
	if p.Likes == nil {
		p.Likes = []primitive.ObjectID{}
	}
	if p.Comments == nil {
		p.Comments = []Comment{}
	}
}

// CreatePostRequest defines the request body for writing a post.
// Title is not validated: an empty post is accepted.
type CreatePostRequest struct {
	Title string `json:"title"`
}
