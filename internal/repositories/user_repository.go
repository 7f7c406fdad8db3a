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

// UsersCollection is the MongoDB collection holding user documents
const UsersCollection = "Users"

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUsers(ctx context.Context, filter UserFilter, limit int64) ([]models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	// AddEdge adds otherID to the user's field unless already present.
	// It reports whether the document changed.
	AddEdge(ctx context.Context, userID primitive.ObjectID, field EdgeField, otherID primitive.ObjectID) (bool, error)
	// RemoveEdge pulls otherID from the user's field and reports whether it was present.
	RemoveEdge(ctx context.Context, userID primitive.ObjectID, field EdgeField, otherID primitive.ObjectID) (bool, error)
	// RunInTransaction runs fn in a multi-document transaction when the
	// store supports it, and directly otherwise.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	collection      *mongo.Collection
	timeout         time.Duration
	useTransactions bool
}

// NewMongoUserRepository creates a new MongoUserRepository.
// timeout bounds every individual store call; zero disables it.
func NewMongoUserRepository(db *mongo.Database, timeout time.Duration, useTransactions bool) *MongoUserRepository {
	return &MongoUserRepository{
		collection:      db.Collection(UsersCollection),
		timeout:         timeout,
		useTransactions: useTransactions,
	}
}

func (r *MongoUserRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

// CreateUser inserts a new user; the unique email index rejects duplicates
func (r *MongoUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	user.ID = primitive.NewObjectID()
	user.Normalize()
	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("user email already registered: %w", apperrors.ErrAlreadyExists)
		}
		return err
	}
	return nil
}

// FindUsers returns up to limit users matching filter
func (r *MongoUserRepository) FindUsers(ctx context.Context, filter UserFilter, limit int64) ([]models.User, error) {
	if filter.IsEmpty() {
		return nil, fmt.Errorf("empty user filter: %w", apperrors.ErrInvalid)
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	findOptions := options.Find()
	if limit > 0 {
		findOptions.SetLimit(limit)
	}
	return r.find(ctx, filter.ToBSON(), findOptions)
}

// ListUsers returns every user in the collection
func (r *MongoUserRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
}

func (r *MongoUserRepository) find(ctx context.Context, filter interface{}, findOptions *options.FindOptions) ([]models.User, error) {
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// AddEdge adds otherID to field with a guarded $addToSet
func (r *MongoUserRepository) AddEdge(ctx context.Context, userID primitive.ObjectID, field EdgeField, otherID primitive.ObjectID) (bool, error) {
	if err := field.validate(); err != nil {
		return false, err
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	filter := bson.M{"_id": userID, string(field): bson.M{"$ne": otherID}}
	update := bson.M{"$addToSet": bson.M{string(field): otherID}}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	if res.MatchedCount > 0 {
		return true, nil
	}
	return false, r.ensureExists(ctx, userID)
}

// RemoveEdge pulls otherID from field when present
func (r *MongoUserRepository) RemoveEdge(ctx context.Context, userID primitive.ObjectID, field EdgeField, otherID primitive.ObjectID) (bool, error) {
	if err := field.validate(); err != nil {
		return false, err
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	filter := bson.M{"_id": userID, string(field): otherID}
	update := bson.M{"$pull": bson.M{string(field): otherID}}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	if res.MatchedCount > 0 {
		return true, nil
	}
	return false, r.ensureExists(ctx, userID)
}

// ensureExists distinguishes "already in the desired state" from a missing document
func (r *MongoUserRepository) ensureExists(ctx context.Context, userID primitive.ObjectID) error {
	n, err := r.collection.CountDocuments(ctx, bson.M{"_id": userID}, options.Count().SetLimit(1))
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("user %s: %w", userID.Hex(), apperrors.ErrNotFound)
	}
	return nil
}

// RunInTransaction wraps fn in a Mongo session transaction when enabled.
// Transactions need a replica set or sharded cluster.
func (r *MongoUserRepository) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !r.useTransactions {
		return fn(ctx)
	}
	session, err := r.collection.Database().Client().StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})
	return err
}
