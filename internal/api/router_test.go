package api_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/socialnet/internal/database"
	"github.com/EgehanKilicarslan/socialnet/internal/database/service"
	"github.com/EgehanKilicarslan/socialnet/internal/testutil"
)

type postBody struct {
	ID              uint   `json:"id"`
	Text            string `json:"text"`
	AuthorID        uint   `json:"author_id"`
	CreateTimestamp int64  `json:"create_timestamp"`
	UpdateTimestamp *int64 `json:"update_timestamp"`
	LikeCount       int64  `json:"like_count"`
}

func decodeDetail(t *testing.T, body string) string {
	t.Helper()
	var detail map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &detail))
	require.Len(t, detail, 1, "error bodies carry only detail")
	message, ok := detail["detail"].(string)
	require.True(t, ok)
	return message
}

func createPost(t *testing.T, app *testutil.TestApp, token, text string) postBody {
	t.Helper()
	w := app.Do(http.MethodPost, testutil.PostsEndpoint, map[string]string{"text": text}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var post postBody
	testutil.DecodeJSON(t, w, &post)
	return post
}

func getPost(t *testing.T, app *testutil.TestApp, postID uint) postBody {
	t.Helper()
	w := app.Do(http.MethodGet, testutil.PostURL(postID), nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var post postBody
	testutil.DecodeJSON(t, w, &post)
	return post
}

// ==================== HEALTH & ROUTING ====================

func TestHealthCheck(t *testing.T) {
	app := testutil.NewTestApp(t, nil)

	w := app.Do(http.MethodGet, testutil.HealthCheckEndpoint, nil, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestUnknownRoute(t *testing.T) {
	app := testutil.NewTestApp(t, nil)

	w := app.Do(http.MethodGet, testutil.APIBaseURL+"/nowhere", nil, "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	decodeDetail(t, w.Body.String())
}

func TestCollections_TrailingSlash(t *testing.T) {
	app := testutil.NewTestApp(t, nil)
	app.Signup(t, "alice")
	token := app.Login(t, "alice")

	w := app.Do(http.MethodPost, testutil.PostsEndpoint+"/", map[string]string{"text": "slashed"}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	for _, target := range []string{
		testutil.PostsEndpoint,
		testutil.PostsEndpoint + "/",
		testutil.UsersEndpoint,
		testutil.UsersEndpoint + "/",
	} {
		w := app.Do(http.MethodGet, target, nil, "")
		assert.Equal(t, http.StatusOK, w.Code, target)

		var items []map[string]any
		testutil.DecodeJSON(t, w, &items)
		assert.Len(t, items, 1, target)
	}
}

// ==================== USERS ====================

func TestSignup(t *testing.T) {
	app := testutil.NewTestApp(t, nil)

	w := app.Do(http.MethodPost, testutil.SignupEndpoint, map[string]string{
		"username": "alice",
		"password": "password123",
		"name":     "Alice",
		"surname":  "Liddell",
		"email":    "alice@example.com",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var user map[string]any
	testutil.DecodeJSON(t, w, &user)
	assert.Equal(t, "alice", user["username"])
	assert.Equal(t, true, user["is_active"])
	assert.Equal(t, false, user["is_superuser"])
	assert.NotContains(t, user, "password")

	// same username again
	w = app.Do(http.MethodPost, testutil.SignupEndpoint, map[string]string{
		"username": "alice",
		"password": "other",
		"name":     "Alice",
		"surname":  "Two",
		"email":    "alice2@example.com",
	}, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	decodeDetail(t, w.Body.String())
}

func TestSignup_Validation(t *testing.T) {
	app := testutil.NewTestApp(t, nil)

	bodies := []map[string]any{
		{},
		{"username": "alice", "password": "x", "name": "A", "surname": "L"},
		{"username": "alice", "password": "x", "name": "A", "surname": "L", "email": "not-an-email"},
		{"username": 5, "password": "x", "name": "A", "surname": "L", "email": "a@example.com"},
	}

	for _, body := range bodies {
		w := app.Do(http.MethodPost, testutil.SignupEndpoint, body, "")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, body)
		decodeDetail(t, w.Body.String())
	}
}

func TestLogin(t *testing.T) {
	app := testutil.NewTestApp(t, nil)
	app.Signup(t, "alice")

	t.Run("json body", func(t *testing.T) {
		w := app.Do(http.MethodPost, testutil.LoginEndpoint, map[string]string{
			"username": "alice",
			"password": "password123",
		}, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var token map[string]string
		testutil.DecodeJSON(t, w, &token)
		assert.Equal(t, "Bearer", token["token_type"])
		assert.NotEmpty(t, token["access_token"])
	})

	t.Run("form body", func(t *testing.T) {
		w := app.DoForm(testutil.LoginEndpoint, url.Values{
			"username": {"alice"},
			"password": {"password123"},
		})
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("wrong password", func(t *testing.T) {
		w := app.Do(http.MethodPost, testutil.LoginEndpoint, map[string]string{
			"username": "alice",
			"password": "wrong",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Incorrect password.", decodeDetail(t, w.Body.String()))
	})

	t.Run("unknown user", func(t *testing.T) {
		w := app.Do(http.MethodPost, testutil.LoginEndpoint, map[string]string{
			"username": "nobody",
			"password": "password123",
		}, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		decodeDetail(t, w.Body.String())
	})

	t.Run("inactive user", func(t *testing.T) {
		require.NoError(t, app.DB.Exec("UPDATE users SET is_active = ? WHERE username = ?", false, "alice").Error)
		t.Cleanup(func() {
			app.DB.Exec("UPDATE users SET is_active = ? WHERE username = ?", true, "alice")
		})

		w := app.Do(http.MethodPost, testutil.LoginEndpoint, map[string]string{
			"username": "alice",
			"password": "password123",
		}, "")
		assert.Equal(t, http.StatusForbidden, w.Code)
		decodeDetail(t, w.Body.String())
	})

	t.Run("missing fields", func(t *testing.T) {
		w := app.Do(http.MethodPost, testutil.LoginEndpoint, map[string]string{"username": "alice"}, "")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestListUsers(t *testing.T) {
	app := testutil.NewTestApp(t, nil)
	app.Signup(t, "alice")
	app.Signup(t, "bob")

	w := app.Do(http.MethodGet, testutil.UsersEndpoint, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var users []map[string]any
	testutil.DecodeJSON(t, w, &users)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0]["username"])
	assert.Equal(t, "bob", users[1]["username"])
}

// ==================== AUTHENTICATION ====================

func TestProtectedRoutes_RequireToken(t *testing.T) {
	app := testutil.NewTestApp(t, nil)
	aliceID := app.Signup(t, "alice")
	token := app.Login(t, "alice")
	post := createPost(t, app, token, "hello")

	requests := []struct {
		method string
		target string
		body   any
	}{
		{http.MethodPost, testutil.PostsEndpoint, map[string]string{"text": "x"}},
		{http.MethodPatch, testutil.PostURL(post.ID), map[string]string{"text": "x"}},
		{http.MethodDelete, testutil.PostURL(post.ID), nil},
		{http.MethodPost, testutil.LikeURL(post.ID), nil},
		{http.MethodDelete, testutil.LikeURL(post.ID), nil},
	}

	for _, req := range requests {
		w := app.Do(req.method, req.target, req.body, "")
		assert.Equal(t, http.StatusForbidden, w.Code, req.method+" "+req.target)
		decodeDetail(t, w.Body.String())

		w = app.Do(req.method, req.target, req.body, "not.a.token")
		assert.Equal(t, http.StatusBadRequest, w.Code, req.method+" "+req.target)
	}

	// a deactivated user's token stops working
	require.NoError(t, app.DB.Exec("UPDATE users SET is_active = ? WHERE id = ?", false, aliceID).Error)
	w := app.Do(http.MethodPost, testutil.PostsEndpoint, map[string]string{"text": "x"}, token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestExpiredToken(t *testing.T) {
	app := testutil.NewTestApp(t, nil)
	aliceID := app.Signup(t, "alice")

	cfg := testutil.TestConfig()
	cfg.JWTEffectSeconds = -60
	tokens, err := service.NewTokenService(cfg)
	require.NoError(t, err)
	expired, err := tokens.Issue(aliceID)
	require.NoError(t, err)

	w := app.Do(http.MethodPost, testutil.PostsEndpoint, map[string]string{"text": "late"}, expired)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Token expired!", decodeDetail(t, w.Body.String()))
}

// ==================== POSTS ====================

func TestPosts_CreateScenario(t *testing.T) {
	app := testutil.NewTestApp(t, nil)
	aliceID := app.Signup(t, "alice")
	token := app.Login(t, "alice")

	w := app.Do(http.MethodPost, testutil.PostsEndpoint, map[string]any{
		"text":       "hello",
		"author_id":  aliceID + 10,
		"like_count": 99,
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var post map[string]any
	testutil.DecodeJSON(t, w, &post)
	assert.ElementsMatch(t,
		[]string{"id", "text", "author_id", "create_timestamp", "update_timestamp", "like_count"},
		keys(post),
	)
	assert.Equal(t, "hello", post["text"])
	assert.Equal(t, float64(aliceID), post["author_id"])
	assert.Greater(t, post["create_timestamp"], float64(0))
	assert.Nil(t, post["update_timestamp"])
	assert.Equal(t, float64(0), post["like_count"])
}

func TestPosts_Validation(t *testing.T) {
	app := testutil.NewTestApp(t, nil)
	app.Signup(t, "alice")
	token := app.Login(t, "alice")
	post := createPost(t, app, token, "hello")

	bodies := []map[string]any{
		{"textttt": "wrong key"},
		{"text": 111},
		{"text": ""},
		{},
	}

	for _, body := range bodies {
		w := app.Do(http.MethodPost, testutil.PostsEndpoint, body, token)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, body)
		decodeDetail(t, w.Body.String())

		w = app.Do(http.MethodPatch, testutil.PostURL(post.ID), body, token)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, body)
	}

	w := app.Do(http.MethodGet, testutil.PostsEndpoint+"/abc", nil, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	decodeDetail(t, w.Body.String())
}

func TestPosts_ListAndGet(t *testing.T) {
	app := testutil.NewTestApp(t, nil)
	app.Signup(t, "alice")
	token := app.Login(t, "alice")
	first := createPost(t, app, token, "first")
	createPost(t, app, token, "second")

	w := app.Do(http.MethodGet, testutil.PostsEndpoint, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var posts []postBody
	testutil.DecodeJSON(t, w, &posts)
	require.Len(t, posts, 2)
	assert.Equal(t, "first", posts[0].Text)

	assert.Equal(t, first, getPost(t, app, first.ID))

	w = app.Do(http.MethodGet, testutil.PostURL(999), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	decodeDetail(t, w.Body.String())
}

func TestPosts_EditAndDelete(t *testing.T) {
	app := testutil.NewTestApp(t, nil)
	app.Signup(t, "alice")
	app.Signup(t, "bob")
	aliceToken := app.Login(t, "alice")
	bobToken := app.Login(t, "bob")
	post := createPost(t, app, aliceToken, "draft")

	// only the author edits
	w := app.Do(http.MethodPatch, testutil.PostURL(post.ID), map[string]string{"text": "mine now"}, bobToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	decodeDetail(t, w.Body.String())

	w = app.Do(http.MethodPatch, testutil.PostURL(999), map[string]string{"text": "nothing"}, aliceToken)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.Do(http.MethodPatch, testutil.PostURL(post.ID), map[string]string{"text": "final"}, aliceToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var edited postBody
	testutil.DecodeJSON(t, w, &edited)
	assert.Equal(t, "final", edited.Text)
	require.NotNil(t, edited.UpdateTimestamp)
	assert.Greater(t, *edited.UpdateTimestamp, int64(0))
	assert.Equal(t, post.CreateTimestamp, edited.CreateTimestamp)

	// only the author deletes
	w = app.Do(http.MethodDelete, testutil.PostURL(post.ID), nil, bobToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.Do(http.MethodDelete, testutil.PostURL(post.ID), nil, aliceToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Requested data not found.", decodeDetail(t, w.Body.String()))

	w = app.Do(http.MethodGet, testutil.PostURL(post.ID), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// deleting again answers the same way
	w = app.Do(http.MethodDelete, testutil.PostURL(post.ID), nil, aliceToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Requested data not found.", decodeDetail(t, w.Body.String()))
}

// ==================== LIKES ====================

func TestLikes_Scenario(t *testing.T) {
	app := testutil.NewTestApp(t, nil)
	app.Signup(t, "alice")
	bobID := app.Signup(t, "bob")
	aliceToken := app.Login(t, "alice")
	bobToken := app.Login(t, "bob")
	post := createPost(t, app, aliceToken, "hello")

	// bob likes alice's post
	w := app.Do(http.MethodPost, testutil.LikeURL(post.ID), nil, bobToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var like map[string]any
	testutil.DecodeJSON(t, w, &like)
	assert.Equal(t, map[string]any{"post_id": float64(post.ID), "liker_id": float64(bobID)}, like)
	assert.Equal(t, int64(1), getPost(t, app, post.ID).LikeCount)

	// and again
	w = app.Do(http.MethodPost, testutil.LikeURL(post.ID), nil, bobToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	decodeDetail(t, w.Body.String())
	assert.Equal(t, int64(1), getPost(t, app, post.ID).LikeCount)

	// alice cannot like her own post
	w = app.Do(http.MethodPost, testutil.LikeURL(post.ID), nil, aliceToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, int64(1), getPost(t, app, post.ID).LikeCount)

	// bob unlikes
	w = app.Do(http.MethodDelete, testutil.LikeURL(post.ID), nil, bobToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
	decodeDetail(t, w.Body.String())
	assert.Equal(t, int64(0), getPost(t, app, post.ID).LikeCount)

	// unliking again is a no-op with the same answer
	w = app.Do(http.MethodDelete, testutil.LikeURL(post.ID), nil, bobToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, int64(0), getPost(t, app, post.ID).LikeCount)

	// liking a missing post
	w = app.Do(http.MethodPost, testutil.LikeURL(999), nil, bobToken)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.Do(http.MethodPost, testutil.LikeEndpoint+"/first", nil, bobToken)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestLikes_WithRedisCache(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := database.NewRedisPostCacheWithClient(client, testutil.TestConfig(), testutil.TestLogger())
	t.Cleanup(func() { cache.Close() })

	app := testutil.NewTestApp(t, cache)
	app.Signup(t, "alice")
	app.Signup(t, "bob")
	aliceToken := app.Login(t, "alice")
	bobToken := app.Login(t, "bob")
	post := createPost(t, app, aliceToken, "hello")

	// first read fills the cache
	assert.Equal(t, int64(0), getPost(t, app, post.ID).LikeCount)
	assert.True(t, mr.Exists(postCacheKey(post.ID)))

	// a like invalidates it, so the next read sees the new count
	w := app.Do(http.MethodPost, testutil.LikeURL(post.ID), nil, bobToken)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.False(t, mr.Exists(postCacheKey(post.ID)))
	assert.Equal(t, int64(1), getPost(t, app, post.ID).LikeCount)

	// so does an edit
	w = app.Do(http.MethodPatch, testutil.PostURL(post.ID), map[string]string{"text": "edited"}, aliceToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "edited", getPost(t, app, post.ID).Text)

	// and a delete
	w = app.Do(http.MethodDelete, testutil.PostURL(post.ID), nil, aliceToken)
	require.Equal(t, http.StatusNotFound, w.Code)
	w = app.Do(http.MethodGet, testutil.PostURL(post.ID), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func postCacheKey(postID uint) string {
	return fmt.Sprintf("post:%d", postID)
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
