package repositories

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/anonto42/social-network/internal/apperrors"
	"github.com/anonto42/social-network/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errMockFailure = errors.New("memory store: simulated failure")

// MemoryStore implements UserRepository and PostRepository in process.
// It backs STORE_DRIVER=memory and the package tests. Every call is atomic
// under a single lock, like one document update in MongoDB.
type MemoryStore struct {
	mu         sync.RWMutex
	users      []*models.User
	posts      []*models.Post
	writes     int
	txCount    int
	shouldFail bool
}

// NewMemoryStore initializes an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Writes returns the number of mutating calls that changed a document
func (m *MemoryStore) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

// Transactions returns how many times RunInTransaction was entered
func (m *MemoryStore) Transactions() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.txCount
}

// SetFailing makes every later call fail with a simulated store error
func (m *MemoryStore) SetFailing(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFail = fail
}

func (m *MemoryStore) fail() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.shouldFail {
		return errMockFailure
	}
	return nil
}

// --- Users ---

// CreateUser stores a copy of user, enforcing email uniqueness
func (m *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	if err := m.fail(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == user.Email {
			return fmt.Errorf("user email already registered: %w", apperrors.ErrAlreadyExists)
		}
	}
	user.ID = primitive.NewObjectID()
	user.Normalize()
	m.users = append(m.users, cloneUser(user))
	m.writes++
	return nil
}

// FindUsers returns up to limit users matching filter
func (m *MemoryStore) FindUsers(ctx context.Context, filter UserFilter, limit int64) ([]models.User, error) {
	if err := m.fail(); err != nil {
		return nil, err
	}
	if filter.IsEmpty() {
		return nil, fmt.Errorf("empty user filter: %w", apperrors.ErrInvalid)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var res []models.User
	for _, u := range m.users {
		if !filter.Matches(u) {
			continue
		}
		res = append(res, *cloneUser(u))
		if limit > 0 && int64(len(res)) >= limit {
			break
		}
	}
	return res, nil
}

// ListUsers returns every stored user
func (m *MemoryStore) ListUsers(ctx context.Context) ([]models.User, error) {
	if err := m.fail(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	res := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		res = append(res, *cloneUser(u))
	}
	return res, nil
}

// AddEdge adds otherID to the user's field unless present
func (m *MemoryStore) AddEdge(ctx context.Context, userID primitive.ObjectID, field EdgeField, otherID primitive.ObjectID) (bool, error) {
	if err := field.validate(); err != nil {
		return false, err
	}
	if err := m.fail(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	u := m.userLocked(userID)
	if u == nil {
		return false, fmt.Errorf("user %s: %w", userID.Hex(), apperrors.ErrNotFound)
	}
	set := edgeSet(u, field)
	if models.ContainsID(*set, otherID) {
		return false, nil
	}
	*set = append(*set, otherID)
	m.writes++
	return true, nil
}

// RemoveEdge pulls otherID from the user's field
func (m *MemoryStore) RemoveEdge(ctx context.Context, userID primitive.ObjectID, field EdgeField, otherID primitive.ObjectID) (bool, error) {
	if err := field.validate(); err != nil {
		return false, err
	}
	if err := m.fail(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	u := m.userLocked(userID)
	if u == nil {
		return false, fmt.Errorf("user %s: %w", userID.Hex(), apperrors.ErrNotFound)
	}
	set := edgeSet(u, field)
	pulled, ok := pullID(*set, otherID)
	if !ok {
		return false, nil
	}
	*set = pulled
	m.writes++
	return true, nil
}

// RunInTransaction runs fn directly; every call is already atomic
func (m *MemoryStore) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	m.txCount++
	m.mu.Unlock()
	return fn(ctx)
}

func (m *MemoryStore) userLocked(id primitive.ObjectID) *models.User {
	for _, u := range m.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func edgeSet(u *models.User, field EdgeField) *[]primitive.ObjectID {
	if field == FollowingField {
		return &u.Following
	}
	return &u.Subscribers
}

// --- Posts ---

// CreatePost stores a copy of post
func (m *MemoryStore) CreatePost(ctx context.Context, post *models.Post) error {
	if err := m.fail(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	post.ID = primitive.NewObjectID()
	post.Normalize()
	m.posts = append(m.posts, clonePost(post))
	m.writes++
	return nil
}

// FindPosts returns posts matching filter in insertion order, or newest first
func (m *MemoryStore) FindPosts(ctx context.Context, filter PostFilter, opts FindOptions) ([]models.Post, error) {
	if err := m.fail(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var res []models.Post
	for _, p := range m.posts {
		if filter.Matches(p) {
			res = append(res, *clonePost(p))
		}
	}
	if opts.NewestFirst {
		sort.SliceStable(res, func(i, j int) bool {
			if res[i].PostDate != res[j].PostDate {
				return res[i].PostDate > res[j].PostDate
			}
			return bytes.Compare(res[i].ID[:], res[j].ID[:]) > 0
		})
	}
	if opts.Limit > 0 && int64(len(res)) > opts.Limit {
		res = res[:opts.Limit]
	}
	return res, nil
}

// AddLike adds userID to the post's likes unless present
func (m *MemoryStore) AddLike(ctx context.Context, postID, userID primitive.ObjectID) (bool, error) {
	if err := m.fail(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	p := m.postLocked(postID)
	if p == nil {
		return false, fmt.Errorf("post %s: %w", postID.Hex(), apperrors.ErrNotFound)
	}
	if p.IsLikedBy(userID) {
		return false, nil
	}
	p.Likes = append(p.Likes, userID)
	m.writes++
	return true, nil
}

// RemoveLike pulls userID from the post's likes
func (m *MemoryStore) RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) (bool, error) {
	if err := m.fail(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	p := m.postLocked(postID)
	if p == nil {
		return false, fmt.Errorf("post %s: %w", postID.Hex(), apperrors.ErrNotFound)
	}
	pulled, ok := pullID(p.Likes, userID)
	if !ok {
		return false, nil
	}
	p.Likes = pulled
	m.writes++
	return true, nil
}

// AppendComment appends comment to the post's comments
func (m *MemoryStore) AppendComment(ctx context.Context, postID primitive.ObjectID, comment models.Comment) error {
	if err := m.fail(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	p := m.postLocked(postID)
	if p == nil {
		return fmt.Errorf("post %s: %w", postID.Hex(), apperrors.ErrNotFound)
	}
	p.Comments = append(p.Comments, comment)
	m.writes++
	return nil
}

// DeletePost removes a post
func (m *MemoryStore) DeletePost(ctx context.Context, postID primitive.ObjectID) error {
	if err := m.fail(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, p := range m.posts {
		if p.ID == postID {
			m.posts = append(m.posts[:i], m.posts[i+1:]...)
			m.writes++
			return nil
		}
	}
	return fmt.Errorf("post %s: %w", postID.Hex(), apperrors.ErrNotFound)
}

func (m *MemoryStore) postLocked(id primitive.ObjectID) *models.Post {
	for _, p := range m.posts {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// --- helpers ---

func pullID(ids []primitive.ObjectID, id primitive.ObjectID) ([]primitive.ObjectID, bool) {
	out := make([]primitive.ObjectID, 0, len(ids))
	found := false
	for _, v := range ids {
		if v == id {
			found = true
			continue
		}
		out = append(out, v)
	}
	return out, found
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.Interests = append([]string{}, u.Interests...)
	c.Following = append([]primitive.ObjectID{}, u.Following...)
	c.Subscribers = append([]primitive.ObjectID{}, u.Subscribers...)
	return &c
}

func clonePost(p *models.Post) *models.Post {
	c := *p
	c.Likes = append([]primitive.ObjectID{}, p.Likes...)
	c.Comments = append([]models.Comment{}, p.Comments...)
	return &c
}
