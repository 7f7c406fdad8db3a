package engagement

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/anonto42/social-network/internal/activity"
	"github.com/anonto42/social-network/internal/apperrors"
	"github.com/anonto42/social-network/internal/models"
	"github.com/anonto42/social-network/internal/repositories"
	"github.com/anonto42/social-network/internal/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2024, 3, 9, 14, 30, 0, 123456000, time.UTC)

type captureRecorder struct {
	mu     sync.Mutex
	events []activity.Event
	err    error
}

func (c *captureRecorder) Record(_ context.Context, e activity.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
	return c.err
}

type fixture struct {
	store  *repositories.MemoryStore
	res    *resolver.Resolver
	rec    *captureRecorder
	engine *Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repositories.NewMemoryStore()
	res := resolver.New(store, store)
	rec := &captureRecorder{}
	eng := New(store, res, rec, zap.NewNop(), WithClock(func() time.Time { return fixedNow }))
	return &fixture{store: store, res: res, rec: rec, engine: eng}
}

func (f *fixture) user(t *testing.T, first string) *models.User {
	t.Helper()
	u := &models.User{FirstName: first, Email: first + "@example.com", Password: "pw"}
	require.NoError(t, f.store.CreateUser(context.Background(), u))
	return u
}

func (f *fixture) post(t *testing.T, id primitive.ObjectID) *models.Post {
	t.Helper()
	p, err := f.res.FindPostByObjectID(context.Background(), id)
	require.NoError(t, err)
	return p
}

func TestWritePost(t *testing.T) {
	f := newFixture(t)
	ann := f.user(t, "ann")

	post, err := f.engine.WritePost(context.Background(), ann, "Hello")
	require.NoError(t, err)
	assert.False(t, post.ID.IsZero())

	stored := f.post(t, post.ID)
	assert.Equal(t, ann.ID, stored.UserID)
	assert.Equal(t, "Hello", stored.Title)
	assert.Equal(t, "2024-03-09T14:30:00.123456Z", stored.PostDate)
	assert.NotNil(t, stored.Likes)
	assert.Empty(t, stored.Likes)
	assert.Empty(t, stored.Comments)

	require.Len(t, f.rec.events, 1)
	assert.Equal(t, activity.PostWritten, f.rec.events[0].Type)
}

func TestWritePostAcceptsEmptyTitle(t *testing.T) {
	f := newFixture(t)
	post, err := f.engine.WritePost(context.Background(), f.user(t, "ann"), "")
	require.NoError(t, err)
	assert.Equal(t, "", f.post(t, post.ID).Title)
}

func TestLikeUnlikeScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ann, bob := f.user(t, "ann"), f.user(t, "bob")
	post, err := f.engine.WritePost(ctx, ann, "Hello")
	require.NoError(t, err)
	postID := post.ID.Hex()

	require.NoError(t, f.engine.LikePost(ctx, bob, postID))
	assert.Equal(t, []primitive.ObjectID{bob.ID}, f.post(t, post.ID).Likes)

	writes := f.store.Writes()
	err = f.engine.LikePost(ctx, bob, postID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyLiked)
	assert.Equal(t, writes, f.store.Writes())
	assert.Len(t, f.post(t, post.ID).Likes, 1)

	require.NoError(t, f.engine.UnlikePost(ctx, bob, postID))
	assert.Empty(t, f.post(t, post.ID).Likes)

	writes = f.store.Writes()
	err = f.engine.UnlikePost(ctx, bob, postID)
	assert.ErrorIs(t, err, apperrors.ErrNotLiked)
	assert.Equal(t, writes, f.store.Writes())
}

func TestLikeEventTargetsAuthor(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ann, bob := f.user(t, "ann"), f.user(t, "bob")
	post, err := f.engine.WritePost(ctx, ann, "Hello")
	require.NoError(t, err)

	require.NoError(t, f.engine.LikePost(ctx, bob, post.ID.Hex()))
	last := f.rec.events[len(f.rec.events)-1]
	assert.Equal(t, activity.Liked, last.Type)
	assert.Equal(t, bob.ID.Hex(), last.ActorID)
	assert.Equal(t, ann.ID.Hex(), last.RecipientID)
	assert.Equal(t, post.ID.Hex(), last.TargetID)
}

func TestLikeMissingPost(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	bob := f.user(t, "bob")

	assert.ErrorIs(t, f.engine.LikePost(ctx, bob, primitive.NewObjectID().Hex()), apperrors.ErrNotFound)
	assert.ErrorIs(t, f.engine.LikePost(ctx, bob, "bogus"), apperrors.ErrNotFound)
	assert.ErrorIs(t, f.engine.UnlikePost(ctx, bob, primitive.NewObjectID().Hex()), apperrors.ErrNotFound)
}

func TestConcurrentLikesApplyOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ann, bob := f.user(t, "ann"), f.user(t, "bob")
	post, err := f.engine.WritePost(ctx, ann, "Hello")
	require.NoError(t, err)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ok, dup int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := f.engine.LikePost(ctx, bob, post.ID.Hex())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, apperrors.ErrAlreadyLiked):
				dup++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, 9, dup)
	assert.Len(t, f.post(t, post.ID).Likes, 1)
}

func TestWriteComment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ann, bob := f.user(t, "ann"), f.user(t, "bob")
	post, err := f.engine.WritePost(ctx, ann, "Hello")
	require.NoError(t, err)

	require.NoError(t, f.engine.WriteComment(ctx, bob, "Nice", post))
	require.NoError(t, f.engine.WriteComment(ctx, ann, "Thanks", post))

	comments := f.post(t, post.ID).Comments
	require.Len(t, comments, 2)
	assert.Equal(t, models.Comment{UserID: bob.ID, CommentText: "Nice"}, comments[0])
	assert.Equal(t, models.Comment{UserID: ann.ID, CommentText: "Thanks"}, comments[1])
}

func TestWriteCommentUsesStoredPost(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ann, bob := f.user(t, "ann"), f.user(t, "bob")
	post, err := f.engine.WritePost(ctx, ann, "Hello")
	require.NoError(t, err)
	stale := f.post(t, post.ID)

	require.NoError(t, f.engine.WriteComment(ctx, bob, "first", stale))
	// the caller's copy has no comments; the stored one keeps both
	require.NoError(t, f.engine.WriteComment(ctx, ann, "second", stale))
	assert.Len(t, f.post(t, post.ID).Comments, 2)
}

func TestConcurrentCommentsAreNotLost(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ann := f.user(t, "ann")
	post, err := f.engine.WritePost(ctx, ann, "Hello")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, f.engine.WriteComment(ctx, ann, "hi", post))
		}()
	}
	wg.Wait()
	assert.Len(t, f.post(t, post.ID).Comments, 20)
}

func TestWriteCommentOnDeletedPost(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ann := f.user(t, "ann")
	post, err := f.engine.WritePost(ctx, ann, "Hello")
	require.NoError(t, err)
	require.NoError(t, f.store.DeletePost(ctx, post.ID))

	err = f.engine.WriteComment(ctx, ann, "too late", post)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestWriteCommentValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ann := f.user(t, "ann")
	post, err := f.engine.WritePost(ctx, ann, "Hello")
	require.NoError(t, err)

	// text may be empty as long as the author is known
	require.NoError(t, f.engine.WriteComment(ctx, ann, "", post))

	anonymous := &models.User{}
	err = f.engine.WriteComment(ctx, anonymous, "", post)
	assert.ErrorIs(t, err, apperrors.ErrInvalid)
	assert.Len(t, f.post(t, post.ID).Comments, 1)
}

func TestRecorderFailureDoesNotFailMutation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.rec.err = errors.New("broker down")
	ann, bob := f.user(t, "ann"), f.user(t, "bob")

	post, err := f.engine.WritePost(ctx, ann, "Hello")
	require.NoError(t, err)
	require.NoError(t, f.engine.LikePost(ctx, bob, post.ID.Hex()))
	assert.Len(t, f.post(t, post.ID).Likes, 1)
}
