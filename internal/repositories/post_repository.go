package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/anonto42/social-network/internal/apperrors"
	"github.com/anonto42/social-network/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostsCollection is the MongoDB collection holding post documents
const PostsCollection = "Posts"

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	FindPosts(ctx context.Context, filter PostFilter, opts FindOptions) ([]models.Post, error)
	// AddLike adds userID to the post's likes unless present and reports whether it did.
	AddLike(ctx context.Context, postID, userID primitive.ObjectID) (bool, error)
	// RemoveLike pulls userID from the post's likes and reports whether it was present.
	RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) (bool, error)
	AppendComment(ctx context.Context, postID primitive.ObjectID, comment models.Comment) error
	DeletePost(ctx context.Context, postID primitive.ObjectID) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
	timeout    time.Duration
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database, timeout time.Duration) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection(PostsCollection), timeout: timeout}
}

func (r *MongoPostRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	post.ID = primitive.NewObjectID()
	post.Normalize()
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// FindPosts retrieves posts matching filter
func (r *MongoPostRepository) FindPosts(ctx context.Context, filter PostFilter, opts FindOptions) ([]models.Post, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	findOptions := options.Find()
	if opts.Limit > 0 {
		findOptions.SetLimit(opts.Limit)
	}
	if opts.NewestFirst {
		findOptions.SetSort(newestFirstSort)
	}
	cursor, err := r.collection.Find(ctx, filter.ToBSON(), findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// AddLike adds userID to likes with a guarded $addToSet
func (r *MongoPostRepository) AddLike(ctx context.Context, postID, userID primitive.ObjectID) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	filter := bson.M{"_id": postID, "likes": bson.M{"$ne": userID}}
	res, err := r.collection.UpdateOne(ctx, filter, bson.M{"$addToSet": bson.M{"likes": userID}})
	if err != nil {
		return false, err
	}
	if res.MatchedCount > 0 {
		return true, nil
	}
	return false, r.ensureExists(ctx, postID)
}

// RemoveLike pulls userID from likes
func (r *MongoPostRepository) RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	filter := bson.M{"_id": postID, "likes": userID}
	res, err := r.collection.UpdateOne(ctx, filter, bson.M{"$pull": bson.M{"likes": userID}})
	if err != nil {
		return false, err
	}
	if res.MatchedCount > 0 {
		return true, nil
	}
	return false, r.ensureExists(ctx, postID)
}

// AppendComment pushes a comment onto the post's comment list.
// $push appends server-side, so concurrent comments do not overwrite each other.
func (r *MongoPostRepository) AppendComment(ctx context.Context, postID primitive.ObjectID, comment models.Comment) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": postID}, bson.M{"$push": bson.M{"comments": comment}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("post %s: %w", postID.Hex(), apperrors.ErrNotFound)
	}
	return nil
}

// DeletePost deletes a post by ID from MongoDB
func (r *MongoPostRepository) DeletePost(ctx context.Context, postID primitive.ObjectID) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": postID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("post %s: %w", postID.Hex(), apperrors.ErrNotFound)
	}
	return nil
}

func (r *MongoPostRepository) ensureExists(ctx context.Context, postID primitive.ObjectID) error {
	n, err := r.collection.CountDocuments(ctx, bson.M{"_id": postID}, options.Count().SetLimit(1))
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("post %s: %w", postID.Hex(), apperrors.ErrNotFound)
	}
	return nil
}
