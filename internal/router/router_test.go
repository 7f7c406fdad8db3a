package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anonto42/social-network/internal/app"
	"github.com/anonto42/social-network/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

type client struct {
	t *testing.T
	e *echo.Echo
}

func newClient(t *testing.T, admins ...string) *client {
	t.Helper()
	store := repositories.NewMemoryStore()
	e := echo.New()
	auth := AuthConfig{JWTSecret: "test", JWTTTL: time.Hour, AdminEmails: admins}
	SetupRoutes(e, app.New(store, store, nil, zap.NewNop()), auth, zap.NewNop())
	return &client{t: t, e: e}
}

// do sends a request and decodes the data field into out when out is non-nil
func (c *client) do(method, path, token string, body interface{}, out interface{}) int {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c.e.ServeHTTP(rec, req)

	if out != nil && rec.Code < 300 && rec.Code != http.StatusNoContent {
		var env envelope
		require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &env))
		require.True(c.t, env.Success)
		require.NoError(c.t, json.Unmarshal(env.Data, out))
	}
	return rec.Code
}

type account struct {
	Token string `json:"token"`
	User  struct {
		ID        string   `json:"id"`
		Following []string `json:"following"`
	} `json:"user"`
}

func (c *client) signup(first, email string) account {
	c.t.Helper()
	var acc account
	code := c.do(http.MethodPost, "/api/v1/auth/signup", "", map[string]interface{}{
		"first_name": first, "last_name": "Test", "email": email, "password": "secret",
	}, &acc)
	require.Equal(c.t, http.StatusCreated, code)
	return acc
}

type post struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	UserID   string   `json:"user_id"`
	Likes    []string `json:"likes"`
	Comments []struct {
		UserID      string `json:"user_id"`
		CommentText string `json:"comment_text"`
	} `json:"comments"`
}

func TestHealth(t *testing.T) {
	c := newClient(t)
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/health", "", nil, nil))
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/", "", nil, nil))
}

func TestAuthFlow(t *testing.T) {
	c := newClient(t)
	ann := c.signup("Ann", "ann@example.com")
	assert.NotEmpty(t, ann.Token)

	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/api/v1/auth/signup", "", map[string]interface{}{
		"first_name": "Other", "email": "ann@example.com", "password": "x",
	}, nil))
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/v1/auth/signup", "", map[string]interface{}{
		"first_name": "Bad", "email": "not-an-email", "password": "x",
	}, nil))

	var signedIn account
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/v1/auth/signin", "", map[string]string{
		"email": "ann@example.com", "password": "secret",
	}, &signedIn))
	assert.Equal(t, ann.User.ID, signedIn.User.ID)

	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodPost, "/api/v1/auth/signin", "", map[string]string{
		"email": "ann@example.com", "password": "wrong",
	}, nil))
	assert.Equal(t, http.StatusNotImplemented, c.do(http.MethodPost, "/api/v1/auth/firebase-login", "", map[string]string{
		"idToken": "x",
	}, nil))

	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/api/v1/profile", "", nil, nil))
	var profile struct {
		ID string `json:"id"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/profile", signedIn.Token, nil, &profile))
	assert.Equal(t, ann.User.ID, profile.ID)
}

func TestSocialFlow(t *testing.T) {
	c := newClient(t)
	ann := c.signup("Ann", "ann@example.com")
	bob := c.signup("Bob", "bob@example.com")

	// nothing followed yet
	assert.Equal(t, http.StatusNoContent, c.do(http.MethodGet, "/api/v1/feed", ann.Token, nil, nil))

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/v1/users/"+ann.User.ID+"/subscribe", ann.Token, nil, nil))
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodPost, "/api/v1/users/bogus/subscribe", ann.Token, nil, nil))
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/v1/users/"+bob.User.ID+"/subscribe", ann.Token, nil, nil))

	var change struct {
		SubscribersChanged bool `json:"subscribers_changed"`
		FollowingChanged   bool `json:"following_changed"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/v1/users/"+bob.User.ID+"/subscribe", ann.Token, nil, &change))
	assert.False(t, change.SubscribersChanged || change.FollowingChanged, "second subscribe is a no-op")

	// followed user has not posted
	assert.Equal(t, http.StatusNoContent, c.do(http.MethodGet, "/api/v1/feed", ann.Token, nil, nil))

	var p post
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/v1/posts", bob.Token, map[string]string{"title": "Hello"}, &p))
	assert.Equal(t, bob.User.ID, p.UserID)

	likes := "/api/v1/posts/" + p.ID + "/likes"
	assert.Equal(t, http.StatusOK, c.do(http.MethodPost, likes, ann.Token, nil, nil))
	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, likes, ann.Token, nil, nil))
	assert.Equal(t, http.StatusOK, c.do(http.MethodDelete, likes, ann.Token, nil, nil))
	assert.Equal(t, http.StatusConflict, c.do(http.MethodDelete, likes, ann.Token, nil, nil))
	assert.Equal(t, http.StatusOK, c.do(http.MethodPost, likes, bob.Token, nil, nil))

	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/v1/posts/"+p.ID+"/comments", ann.Token, map[string]string{"text": "Nice"}, nil))
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodPost, "/api/v1/posts/bogus/comments", ann.Token, map[string]string{"text": "x"}, nil))

	var feed []post
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/feed", ann.Token, nil, &feed))
	require.Len(t, feed, 1)
	assert.Equal(t, "Hello", feed[0].Title)
	assert.Equal(t, []string{bob.User.ID}, feed[0].Likes)
	require.Len(t, feed[0].Comments, 1)
	assert.Equal(t, ann.User.ID, feed[0].Comments[0].UserID)

	var views []struct {
		AuthorName string   `json:"author_name"`
		LikedBy    []string `json:"liked_by"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/feed?enrich=true", ann.Token, nil, &views))
	require.Len(t, views, 1)
	assert.Equal(t, "Bob Test", views[0].AuthorName)
	assert.Equal(t, []string{"Bob Test"}, views[0].LikedBy)

	require.Equal(t, http.StatusOK, c.do(http.MethodDelete, "/api/v1/users/"+bob.User.ID+"/subscribe", ann.Token, nil, nil))
	assert.Equal(t, http.StatusNoContent, c.do(http.MethodGet, "/api/v1/feed", ann.Token, nil, nil))
}

func TestPostListings(t *testing.T) {
	c := newClient(t)
	ann := c.signup("Ann", "ann@example.com")
	bob := c.signup("Bob", "bob@example.com")

	var all []post
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/posts", ann.Token, nil, &all))
	assert.NotNil(t, all)
	assert.Empty(t, all)

	for _, title := range []string{"a1", "a2"} {
		require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/v1/posts", ann.Token, map[string]string{"title": title}, nil))
	}
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/v1/posts", bob.Token, map[string]string{"title": "b1"}, nil))

	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/posts", ann.Token, nil, &all))
	assert.Len(t, all, 3)

	var mine []post
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/users/"+ann.User.ID+"/posts", bob.Token, nil, &mine))
	assert.Len(t, mine, 2)

	var one post
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/posts/"+mine[0].ID, bob.Token, nil, &one))
	assert.Equal(t, mine[0].Title, one.Title)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/api/v1/posts/000000000000000000000000", bob.Token, nil, nil))
}

func TestUserSearch(t *testing.T) {
	c := newClient(t)
	ann := c.signup("Ann", "ann@example.com")
	c.signup("Bob", "bob@example.com")
	c.signup("Bob", "bob2@example.com")

	var found struct {
		ID string `json:"id"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/users/search?first_name=Ann", ann.Token, nil, &found))
	assert.Equal(t, ann.User.ID, found.ID)

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/api/v1/users/search", ann.Token, nil, nil))
	assert.Equal(t, http.StatusConflict, c.do(http.MethodGet, "/api/v1/users/search?first_name=Bob", ann.Token, nil, nil))
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/api/v1/users/search?first_name=Zed", ann.Token, nil, nil))
}

func TestNotificationRoutesNeedPostgres(t *testing.T) {
	c := newClient(t)
	ann := c.signup("Ann", "ann@example.com")
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/api/v1/notifications", ann.Token, nil, nil))
}

func TestRepairEdgesNeedsAdmin(t *testing.T) {
	const repair = "/api/v1/admin/repair-edges"

	c := newClient(t, "root@example.com")
	ann := c.signup("Ann", "ann@example.com")
	root := c.signup("Root", "root@example.com")

	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodPost, repair, "", nil, nil))
	assert.Equal(t, http.StatusForbidden, c.do(http.MethodPost, repair, ann.Token, nil, nil))

	var report struct {
		Scanned int `json:"users_scanned"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, repair, root.Token, nil, &report))
	assert.Equal(t, 2, report.Scanned)

	closed := newClient(t)
	nobody := closed.signup("Ann", "ann@example.com")
	assert.Equal(t, http.StatusForbidden, closed.do(http.MethodPost, repair, nobody.Token, nil, nil))
}
