package repositories

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/anonto42/social-network/internal/apperrors"
	"github.com/anonto42/social-network/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newUser(t *testing.T, s *MemoryStore, first, email string) *models.User {
	t.Helper()
	u := &models.User{FirstName: first, Email: email, Password: "pw"}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func TestMemoryStoreCreateUser(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	u := newUser(t, s, "Ann", "ann@example.com")
	assert.False(t, u.ID.IsZero())
	assert.NotNil(t, u.Following)
	assert.NotNil(t, u.Subscribers)

	err := s.CreateUser(ctx, &models.User{FirstName: "Other", Email: "ann@example.com"})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)

	found, err := s.FindUsers(ctx, UserFilter{Email: "ann@example.com"}, 2)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, u.ID, found[0].ID)

	_, err = s.FindUsers(ctx, UserFilter{}, 2)
	assert.ErrorIs(t, err, apperrors.ErrInvalid)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	u := newUser(t, s, "Ann", "ann@example.com")

	found, err := s.FindUsers(ctx, UserFilter{ID: u.ID}, 1)
	require.NoError(t, err)
	found[0].Following = append(found[0].Following, primitive.NewObjectID())

	again, err := s.FindUsers(ctx, UserFilter{ID: u.ID}, 1)
	require.NoError(t, err)
	assert.Empty(t, again[0].Following)
}

func TestMemoryStoreEdges(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	a := newUser(t, s, "Ann", "ann@example.com")
	b := newUser(t, s, "Bob", "bob@example.com")
	base := s.Writes()

	added, err := s.AddEdge(ctx, a.ID, FollowingField, b.ID)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.AddEdge(ctx, a.ID, FollowingField, b.ID)
	require.NoError(t, err)
	assert.False(t, added, "second add is a no-op")
	assert.Equal(t, base+1, s.Writes())

	removed, err := s.RemoveEdge(ctx, a.ID, FollowingField, b.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.RemoveEdge(ctx, a.ID, FollowingField, b.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = s.AddEdge(ctx, primitive.NewObjectID(), SubscribersField, a.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = s.AddEdge(ctx, a.ID, EdgeField("likes"), b.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalid)
}

func TestMemoryStoreConcurrentAddEdge(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	a := newUser(t, s, "Ann", "ann@example.com")
	b := newUser(t, s, "Bob", "bob@example.com")

	var wg sync.WaitGroup
	results := make([]bool, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = s.AddEdge(ctx, b.ID, SubscribersField, a.ID)
		}(i)
	}
	wg.Wait()

	applied := 0
	for _, r := range results {
		if r {
			applied++
		}
	}
	assert.Equal(t, 1, applied)

	found, err := s.FindUsers(ctx, UserFilter{ID: b.ID}, 1)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{a.ID}, found[0].Subscribers)
}

func TestMemoryStorePosts(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	author := primitive.NewObjectID()
	liker := primitive.NewObjectID()

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	var ids []primitive.ObjectID
	for i := 0; i < 3; i++ {
		p := &models.Post{UserID: author, Title: "p", PostDate: models.FormatPostDate(base.Add(time.Duration(i) * time.Minute))}
		require.NoError(t, s.CreatePost(ctx, p))
		ids = append(ids, p.ID)
	}

	posts, err := s.FindPosts(ctx, PostFilter{}, FindOptions{NewestFirst: true})
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, []primitive.ObjectID{ids[2], ids[1], ids[0]}, []primitive.ObjectID{posts[0].ID, posts[1].ID, posts[2].ID})

	limited, err := s.FindPosts(ctx, PostFilter{}, FindOptions{Limit: 2, NewestFirst: true})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	added, err := s.AddLike(ctx, ids[0], liker)
	require.NoError(t, err)
	assert.True(t, added)
	added, err = s.AddLike(ctx, ids[0], liker)
	require.NoError(t, err)
	assert.False(t, added)

	removed, err := s.RemoveLike(ctx, ids[0], liker)
	require.NoError(t, err)
	assert.True(t, removed)

	require.NoError(t, s.AppendComment(ctx, ids[0], models.Comment{UserID: liker, CommentText: "first"}))
	require.NoError(t, s.AppendComment(ctx, ids[0], models.Comment{UserID: liker, CommentText: "second"}))
	got, err := s.FindPosts(ctx, PostFilter{ID: ids[0]}, FindOptions{})
	require.NoError(t, err)
	require.Len(t, got[0].Comments, 2)
	assert.Equal(t, "first", got[0].Comments[0].CommentText)
	assert.Equal(t, "second", got[0].Comments[1].CommentText)

	require.NoError(t, s.DeletePost(ctx, ids[0]))
	assert.ErrorIs(t, s.AppendComment(ctx, ids[0], models.Comment{CommentText: "late"}), apperrors.ErrNotFound)
	assert.ErrorIs(t, s.DeletePost(ctx, ids[0]), apperrors.ErrNotFound)
	_, err = s.AddLike(ctx, ids[0], liker)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMemoryStoreTiesBrokenByID(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	date := models.FormatPostDate(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	first := &models.Post{UserID: primitive.NewObjectID(), PostDate: date}
	second := &models.Post{UserID: primitive.NewObjectID(), PostDate: date}
	require.NoError(t, s.CreatePost(ctx, first))
	require.NoError(t, s.CreatePost(ctx, second))

	posts, err := s.FindPosts(ctx, PostFilter{}, FindOptions{NewestFirst: true})
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID)
}

func TestMemoryStoreShouldFail(t *testing.T) {
	s := NewMemoryStore()
	s.SetFailing(true)

	_, err := s.FindUsers(context.Background(), UserFilter{FirstName: "Ann"}, 1)
	assert.Error(t, err)
	assert.Error(t, s.CreatePost(context.Background(), &models.Post{}))

	s.SetFailing(false)
	assert.NoError(t, s.CreatePost(context.Background(), &models.Post{}))
}

// run with -race: toggling failure must not race with in-flight calls
func TestMemoryStoreSetFailingConcurrently(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func(fail bool) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.SetFailing(fail)
			}
		}(i%2 == 0)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, _ = s.FindPosts(ctx, PostFilter{}, FindOptions{})
			}
		}()
	}
	wg.Wait()

	s.SetFailing(false)
	_, err := s.FindPosts(ctx, PostFilter{}, FindOptions{})
	assert.NoError(t, err)
}
