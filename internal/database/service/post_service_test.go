package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/EgehanKilicarslan/socialnet/internal/database"
	"github.com/EgehanKilicarslan/socialnet/internal/database/models"
	"github.com/EgehanKilicarslan/socialnet/internal/database/repository"
	"github.com/EgehanKilicarslan/socialnet/internal/database/service"
	"github.com/EgehanKilicarslan/socialnet/internal/testutil"
)

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Password: "hash",
		Name:     username,
		Surname:  "Tester",
		Email:    username + "@example.com",
		IsActive: true,
	}
	require.NoError(t, repository.NewUserRepository(db).Create(context.Background(), user))
	return user
}

func newPostService(db *gorm.DB, cache database.PostCache) service.PostService {
	return service.NewPostService(repository.NewPostRepository(db), cache, testutil.TestLogger())
}

func TestPostService_CreatePost(t *testing.T) {
	db := testutil.NewTestDB(t)
	alice := createUser(t, db, "alice")
	posts := newPostService(db, database.NoOpPostCache{})

	before := time.Now().Unix()
	post, err := posts.CreatePost(context.Background(), alice, "hello")
	require.NoError(t, err)

	assert.NotZero(t, post.ID)
	assert.Equal(t, "hello", post.Text)
	assert.Equal(t, alice.ID, post.AuthorID)
	assert.GreaterOrEqual(t, post.CreateTimestamp, before)
	assert.Nil(t, post.UpdateTimestamp)
	assert.Zero(t, post.LikeCount)
}

func TestPostService_ListPosts(t *testing.T) {
	db := testutil.NewTestDB(t)
	alice := createUser(t, db, "alice")
	posts := newPostService(db, database.NoOpPostCache{})
	ctx := context.Background()

	list, err := posts.ListPosts(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = posts.CreatePost(ctx, alice, "first")
	require.NoError(t, err)
	_, err = posts.CreatePost(ctx, alice, "second")
	require.NoError(t, err)

	list, err = posts.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Text)
}

func TestPostService_GetPost_CacheAside(t *testing.T) {
	db := testutil.NewTestDB(t)
	alice := createUser(t, db, "alice")
	ctx := context.Background()

	created, err := newPostService(db, database.NoOpPostCache{}).CreatePost(ctx, alice, "hello")
	require.NoError(t, err)

	t.Run("miss fills the cache", func(t *testing.T) {
		cache := new(testutil.MockPostCache)
		cache.On("GetPost", mock.Anything, created.ID).Return(nil, false, nil)
		cache.On("SetPost", mock.Anything, mock.MatchedBy(func(p *models.Post) bool {
			return p.ID == created.ID
		})).Return(nil)

		post, err := newPostService(db, cache).GetPost(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "hello", post.Text)
		cache.AssertExpectations(t)
	})

	t.Run("hit skips the database", func(t *testing.T) {
		cached := &models.Post{ID: created.ID, Text: "from cache", AuthorID: alice.ID}
		cache := new(testutil.MockPostCache)
		cache.On("GetPost", mock.Anything, created.ID).Return(cached, true, nil)

		post, err := newPostService(db, cache).GetPost(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "from cache", post.Text)
		cache.AssertNotCalled(t, "SetPost", mock.Anything, mock.Anything)
	})

	t.Run("cache failure falls back to the database", func(t *testing.T) {
		cache := new(testutil.MockPostCache)
		cache.On("GetPost", mock.Anything, created.ID).Return(nil, false, errors.New("redis down"))
		cache.On("SetPost", mock.Anything, mock.Anything).Return(errors.New("redis down"))

		post, err := newPostService(db, cache).GetPost(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "hello", post.Text)
	})

	t.Run("missing post", func(t *testing.T) {
		cache := new(testutil.MockPostCache)
		cache.On("GetPost", mock.Anything, uint(999)).Return(nil, false, nil)

		_, err := newPostService(db, cache).GetPost(ctx, 999)
		assert.ErrorIs(t, err, service.ErrPostNotFound)
	})
}

func TestPostService_EditPost(t *testing.T) {
	db := testutil.NewTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	ctx := context.Background()

	post, err := newPostService(db, database.NoOpPostCache{}).CreatePost(ctx, alice, "draft")
	require.NoError(t, err)

	cache := new(testutil.MockPostCache)
	cache.On("InvalidatePost", mock.Anything, post.ID).Return(nil)
	posts := newPostService(db, cache)

	_, err = posts.EditPost(ctx, bob, post.ID, "hijacked")
	assert.ErrorIs(t, err, service.ErrNotPostAuthor)
	assert.ErrorIs(t, err, service.ErrForbidden)
	cache.AssertNotCalled(t, "InvalidatePost", mock.Anything, mock.Anything)

	_, err = posts.EditPost(ctx, alice, 999, "nothing")
	assert.ErrorIs(t, err, service.ErrPostNotFound)

	edited, err := posts.EditPost(ctx, alice, post.ID, "final")
	require.NoError(t, err)
	assert.Equal(t, "final", edited.Text)
	require.NotNil(t, edited.UpdateTimestamp)
	assert.GreaterOrEqual(t, *edited.UpdateTimestamp, post.CreateTimestamp)
	assert.Equal(t, post.CreateTimestamp, edited.CreateTimestamp)
	assert.Equal(t, alice.ID, edited.AuthorID)
	cache.AssertCalled(t, "InvalidatePost", mock.Anything, post.ID)
}

func TestPostService_DeletePost(t *testing.T) {
	db := testutil.NewTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	ctx := context.Background()

	post, err := newPostService(db, database.NoOpPostCache{}).CreatePost(ctx, alice, "bye")
	require.NoError(t, err)

	cache := new(testutil.MockPostCache)
	cache.On("InvalidatePost", mock.Anything, post.ID).Return(nil)
	posts := newPostService(db, cache)

	deleted, err := posts.DeletePost(ctx, alice, 999)
	require.NoError(t, err, "deleting a missing post is a no-op")
	assert.False(t, deleted)

	deleted, err = posts.DeletePost(ctx, bob, post.ID)
	assert.ErrorIs(t, err, service.ErrNotPostAuthor)
	assert.False(t, deleted)

	deleted, err = posts.DeletePost(ctx, alice, post.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	cache.AssertCalled(t, "InvalidatePost", mock.Anything, post.ID)

	_, err = repository.NewPostRepository(db).GetByID(ctx, post.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
