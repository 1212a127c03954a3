package controllers_test

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/Kirtivanjode/wanderwithkii/controllers"
	"github.com/Kirtivanjode/wanderwithkii/models"
	"github.com/Kirtivanjode/wanderwithkii/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func toggle(t *testing.T, srv *testutil.Server, postID uint, username string) controllers.LikeResponse {
	t.Helper()
	w := srv.JSON(t, http.MethodPost, fmt.Sprintf("/api/posts/%d/like", postID), map[string]string{"username": username})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res controllers.LikeResponse
	testutil.Decode(t, w, &res)
	return res
}

func TestLikeToggleRoundTrip(t *testing.T) {
	db := testutil.NewDB(t)
	srv := testutil.NewServer(t, db)
	post := testutil.CreatePost(t, db, "Bali")

	first := toggle(t, srv, post.ID, "ana")
	assert.Equal(t, controllers.LikeResponse{IsLiked: true, Likes: 1}, first)

	second := toggle(t, srv, post.ID, "ana")
	assert.Equal(t, controllers.LikeResponse{IsLiked: false, Likes: 0}, second)

	assert.Zero(t, testutil.Count(t, db, &models.PostLike{}))
	var got models.BlogPost
	require.NoError(t, db.First(&got, post.ID).Error)
	assert.Zero(t, got.Likes)
}

func TestLikeCountsDistinctUsers(t *testing.T) {
	db := testutil.NewDB(t)
	srv := testutil.NewServer(t, db)
	post := testutil.CreatePost(t, db, "Seoul")

	toggle(t, srv, post.ID, "ana")
	toggle(t, srv, post.ID, "ben")
	res := toggle(t, srv, post.ID, "cai")
	assert.Equal(t, int64(3), res.Likes)

	res = toggle(t, srv, post.ID, "ben")
	assert.False(t, res.IsLiked)
	assert.Equal(t, int64(2), res.Likes)
}

func TestLikePostErrors(t *testing.T) {
	db := testutil.NewDB(t)
	srv := testutil.NewServer(t, db)
	post := testutil.CreatePost(t, db, "Lima")

	w := srv.JSON(t, http.MethodPost, "/api/posts/9999/like", map[string]string{"username": "ana"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Post not found", testutil.Message(t, w))

	w = srv.JSON(t, http.MethodPost, fmt.Sprintf("/api/posts/%d/like", post.ID), map[string]string{"username": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "username required", testutil.Message(t, w))

	assert.Zero(t, testutil.Count(t, db, &models.PostLike{}))
}

func TestConcurrentLikeToggles(t *testing.T) {
	db := testutil.NewDB(t)
	post := testutil.CreatePost(t, db, "Marrakesh")
	ic := controllers.NewInteractionController(db, nil, zap.NewNop().Sugar())

	users := []string{"ana", "ben", "cai", "dia"}
	const rounds = 5

	var wg sync.WaitGroup
	errs := make(chan error, len(users)*rounds)
	for _, u := range users {
		for i := 0; i < rounds; i++ {
			wg.Add(1)
			go func(username string) {
				defer wg.Done()
				if _, _, err := ic.ToggleLike(context.Background(), post.ID, username); err != nil {
					errs <- err
				}
			}(u)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	for _, u := range users {
		n := testutil.Count(t, db, &models.PostLike{}, "post_id = ? AND username = ?", post.ID, u)
		// An odd number of toggles leaves every user liking the post.
		assert.Equal(t, int64(1), n, u)
	}

	var got models.BlogPost
	require.NoError(t, db.First(&got, post.ID).Error)
	assert.Equal(t, testutil.Count(t, db, &models.PostLike{}, "post_id = ?", post.ID), got.Likes)
}

func TestGetPostLikes(t *testing.T) {
	db := testutil.NewDB(t)
	srv := testutil.NewServer(t, db)
	post := testutil.CreatePost(t, db, "Havana")

	toggle(t, srv, post.ID, "ana")
	time.Sleep(5 * time.Millisecond)
	toggle(t, srv, post.ID, "ben")

	w := srv.JSON(t, http.MethodGet, fmt.Sprintf("/api/posts/%d/likes", post.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var res controllers.PostLikesResponse
	testutil.Decode(t, w, &res)
	assert.Equal(t, post.ID, res.PostID)
	require.Len(t, res.LikedBy, 2)
	assert.Equal(t, "ben", res.LikedBy[0].Username)
	assert.Equal(t, "ana", res.LikedBy[1].Username)

	w = srv.JSON(t, http.MethodGet, "/api/posts/9999/likes", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserActivity(t *testing.T) {
	db := testutil.NewDB(t)
	srv := testutil.NewServer(t, db)
	a := testutil.CreatePost(t, db, "Athens")
	b := testutil.CreatePost(t, db, "Berlin")

	toggle(t, srv, a.ID, "ana")
	time.Sleep(5 * time.Millisecond)
	toggle(t, srv, b.ID, "ana")
	toggle(t, srv, b.ID, "ben")

	w := srv.JSON(t, http.MethodGet, "/api/liked-posts/ana", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var liked []struct {
		ID    uint   `json:"id"`
		Title string `json:"title"`
	}
	testutil.Decode(t, w, &liked)
	require.Len(t, liked, 2)
	assert.Equal(t, "Berlin", liked[0].Title)
	assert.Equal(t, "Athens", liked[1].Title)

	c := srv.JSON(t, http.MethodPost, "/api/comments", map[string]interface{}{"post_id": a.ID, "username": "ana", "message": "Sunny"})
	require.Equal(t, http.StatusCreated, c.Code)

	w = srv.JSON(t, http.MethodGet, "/api/user-comments/ana", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var comments []struct {
		PostID    uint   `json:"postId"`
		Message   string `json:"message"`
		PostTitle string `json:"postTitle"`
	}
	testutil.Decode(t, w, &comments)
	require.Len(t, comments, 1)
	assert.Equal(t, "Athens", comments[0].PostTitle)
	assert.Equal(t, "Sunny", comments[0].Message)

	w = srv.JSON(t, http.MethodGet, "/api/user-comments/nobody", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestLikeToggleMetrics(t *testing.T) {
	db := testutil.NewDB(t)
	srv := testutil.NewServer(t, db)
	post := testutil.CreatePost(t, db, "Oaxaca")

	toggle(t, srv, post.ID, "ana")
	toggle(t, srv, post.ID, "ana")

	w := srv.JSON(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `post_like_toggles_total{liked="true"} 1`)
	assert.Contains(t, w.Body.String(), `post_like_toggles_total{liked="false"} 1`)
}
