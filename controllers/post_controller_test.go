package controllers_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/Kirtivanjode/wanderwithkii/controllers"
	"github.com/Kirtivanjode/wanderwithkii/models"
	"github.com/Kirtivanjode/wanderwithkii/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type postView struct {
	models.BlogPost
	CommentCount int64   `json:"commentCount"`
	IsLiked      bool    `json:"isLiked"`
	LogoName     *string `json:"logoName"`
	ImageName    *string `json:"imageName"`
}

func TestCreatePostWithImages(t *testing.T) {
	db := testutil.NewDB(t)
	srv := testutil.NewServer(t, db)

	w := srv.Multipart(t, http.MethodPost, "/api/posts",
		map[string]string{"title": "Kyoto", "summary": "Temples <b>and</b> tea"},
		testutil.File{Field: "logoImage", Filename: "logo.png", Data: testutil.PNG(t, 8, 8)},
		testutil.File{Field: "postImage", Filename: "cover.png", Data: testutil.PNG(t, 16, 16)},
	)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created controllers.CreatePostResponse
	testutil.Decode(t, w, &created)
	assert.Equal(t, "Post created successfully", created.Message)
	require.NotZero(t, created.PostID)

	var post models.BlogPost
	require.NoError(t, db.First(&post, created.PostID).Error)
	require.NotNil(t, post.LogoID)
	require.NotNil(t, post.ImageID)
	assert.NotEqual(t, *post.LogoID, *post.ImageID)
	assert.Equal(t, models.DefaultAuthor, post.Author)
	assert.Zero(t, post.Likes)

	var logo models.Image
	require.NoError(t, db.First(&logo, *post.LogoID).Error)
	assert.Equal(t, "logo.png", logo.Name)
	assert.Equal(t, "image/png", logo.ContentType)
}

func TestCreatePostJSONWithoutImages(t *testing.T) {
	db := testutil.NewDB(t)
	srv := testutil.NewServer(t, db)

	w := srv.JSON(t, http.MethodPost, "/api/posts", map[string]string{"title": "Lisbon", "summary": "Trams"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var post models.BlogPost
	require.NoError(t, db.First(&post).Error)
	assert.Nil(t, post.LogoID)
	assert.Nil(t, post.ImageID)
}

func TestCreatePostKeepsPlainTextSummary(t *testing.T) {
	db := testutil.NewDB(t)
	srv := testutil.NewServer(t, db)

	w := srv.JSON(t, http.MethodPost, "/api/posts", map[string]string{"title": "Tom & Jerry", "summary": "Tom & Jerry's trip"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var post models.BlogPost
	require.NoError(t, db.First(&post).Error)
	assert.Equal(t, "Tom & Jerry", post.Title)
	assert.Equal(t, "Tom & Jerry's trip", post.Summary)
}

func TestCreatePostValidation(t *testing.T) {
	db := testutil.NewDB(t)
	srv := testutil.NewServer(t, db)

	tests := []struct {
		name    string
		fields  map[string]string
		files   []testutil.File
		message string
	}{
		{
			name:    "missing title",
			fields:  map[string]string{"summary": "only a summary"},
			message: "Title and summary are required",
		},
		{
			name:    "blank summary",
			fields:  map[string]string{"title": "Oslo", "summary": "   "},
			message: "Title and summary are required",
		},
		{
			name:    "not an image",
			fields:  map[string]string{"title": "Oslo", "summary": "Fjords"},
			files:   []testutil.File{{Field: "logoImage", Filename: "notes.txt", Data: []byte("plain text")}},
			message: "logoImage must be a JPEG, PNG, GIF or WebP image",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := srv.Multipart(t, http.MethodPost, "/api/posts", tt.fields, tt.files...)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.message, testutil.Message(t, w))
		})
	}

	assert.Zero(t, testutil.Count(t, db, &models.BlogPost{}))
	assert.Zero(t, testutil.Count(t, db, &models.Image{}))
}

func TestCreatePostRollsBackImagesOnFailure(t *testing.T) {
	db := testutil.NewDB(t)
	srv := testutil.NewServer(t, db)

	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:fail_posts", func(tx *gorm.DB) {
		if tx.Statement.Table == "blog_posts" {
			_ = tx.AddError(errors.New("insert refused"))
		}
	}))

	w := srv.Multipart(t, http.MethodPost, "/api/posts",
		map[string]string{"title": "Rome", "summary": "Ruins"},
		testutil.File{Field: "logoImage", Filename: "logo.png", Data: testutil.PNG(t, 4, 4)},
		testutil.File{Field: "postImage", Filename: "cover.png", Data: testutil.PNG(t, 4, 4)},
	)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to create post", testutil.Message(t, w))

	assert.Zero(t, testutil.Count(t, db, &models.Image{}))
	assert.Zero(t, testutil.Count(t, db, &models.BlogPost{}))
}

func TestGetPosts(t *testing.T) {
	db := testutil.NewDB(t)
	srv := testutil.NewServer(t, db)

	older := testutil.CreatePost(t, db, "Older")
	require.NoError(t, db.Model(&older).Update("post_date", time.Now().UTC().Add(-48*time.Hour)).Error)
	newer := testutil.CreatePost(t, db, "Newer")

	require.NoError(t, db.Create(&models.Comment{PostID: older.ID, Username: "ana", Message: "hi", CommentDate: time.Now().UTC()}).Error)
	require.NoError(t, db.Create(&models.Comment{PostID: older.ID, Username: "ben", Message: "yo", CommentDate: time.Now().UTC()}).Error)
	like := srv.JSON(t, http.MethodPost, fmt.Sprintf("/api/posts/%d/like", newer.ID), map[string]string{"username": "ana"})
	require.Equal(t, http.StatusOK, like.Code)

	w := srv.JSON(t, http.MethodGet, "/api/posts?username=ana", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var posts []postView
	testutil.Decode(t, w, &posts)
	require.Len(t, posts, 2)

	assert.Equal(t, newer.ID, posts[0].ID)
	assert.True(t, posts[0].IsLiked)
	assert.Equal(t, int64(1), posts[0].Likes)
	assert.Zero(t, posts[0].CommentCount)

	assert.Equal(t, older.ID, posts[1].ID)
	assert.False(t, posts[1].IsLiked)
	assert.Equal(t, int64(2), posts[1].CommentCount)

	t.Run("without username nothing is liked", func(t *testing.T) {
		w := srv.JSON(t, http.MethodGet, "/api/posts", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var posts []postView
		testutil.Decode(t, w, &posts)
		for _, p := range posts {
			assert.False(t, p.IsLiked)
		}
	})

	t.Run("empty table returns an empty list", func(t *testing.T) {
		srv := testutil.NewServer(t, testutil.NewDB(t))
		w := srv.JSON(t, http.MethodGet, "/api/posts", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})
}

func TestGetPost(t *testing.T) {
	db := testutil.NewDB(t)
	srv := testutil.NewServer(t, db)
	post := testutil.CreatePost(t, db, "Hanoi")

	w := srv.JSON(t, http.MethodGet, fmt.Sprintf("/api/posts/%d", post.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got postView
	testutil.Decode(t, w, &got)
	assert.Equal(t, "Hanoi", got.Title)

	w = srv.JSON(t, http.MethodGet, "/api/posts/9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Post not found", testutil.Message(t, w))

	w = srv.JSON(t, http.MethodGet, "/api/posts/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdatePostReplacesImage(t *testing.T) {
	db := testutil.NewDB(t)
	srv := testutil.NewServer(t, db)

	w := srv.Multipart(t, http.MethodPost, "/api/posts",
		map[string]string{"title": "Cusco", "summary": "Altitude"},
		testutil.File{Field: "postImage", Filename: "old.png", Data: testutil.PNG(t, 4, 4)},
	)
	require.Equal(t, http.StatusCreated, w.Code)
	var created controllers.CreatePostResponse
	testutil.Decode(t, w, &created)

	var before models.BlogPost
	require.NoError(t, db.First(&before, created.PostID).Error)
	require.NotNil(t, before.ImageID)
	oldImage := *before.ImageID

	// Prime the cache so the replacement has to invalidate it.
	img := srv.JSON(t, http.MethodGet, fmt.Sprintf("/api/images/%d", oldImage), nil)
	require.Equal(t, http.StatusOK, img.Code)

	w = srv.Multipart(t, http.MethodPut, fmt.Sprintf("/api/posts/%d", created.PostID),
		map[string]string{"title": "Cusco again"},
		testutil.File{Field: "postImage", Filename: "new.png", Data: testutil.PNG(t, 6, 6)},
	)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var after models.BlogPost
	require.NoError(t, db.First(&after, created.PostID).Error)
	require.NotNil(t, after.ImageID)
	assert.NotEqual(t, oldImage, *after.ImageID)
	assert.Equal(t, "Cusco again", after.Title)
	assert.Equal(t, before.Summary, after.Summary)
	assert.Nil(t, after.LogoID)

	assert.Zero(t, testutil.Count(t, db, &models.Image{}, "id = ?", oldImage))
	assert.Equal(t, int64(1), testutil.Count(t, db, &models.Image{}))

	gone := srv.JSON(t, http.MethodGet, fmt.Sprintf("/api/images/%d", oldImage), nil)
	assert.Equal(t, http.StatusNotFound, gone.Code)
}

func TestUpdatePostKeepsLikes(t *testing.T) {
	db := testutil.NewDB(t)
	srv := testutil.NewServer(t, db)
	post := testutil.CreatePost(t, db, "Quito")

	like := srv.JSON(t, http.MethodPost, fmt.Sprintf("/api/posts/%d/like", post.ID), map[string]string{"username": "ana"})
	require.Equal(t, http.StatusOK, like.Code)

	w := srv.JSON(t, http.MethodPut, fmt.Sprintf("/api/posts/%d", post.ID), map[string]interface{}{"summary": "Equator", "likes": 99})
	require.Equal(t, http.StatusOK, w.Code)

	var got models.BlogPost
	require.NoError(t, db.First(&got, post.ID).Error)
	assert.Equal(t, "Equator", got.Summary)
	assert.Equal(t, int64(1), got.Likes)

	t.Run("empty title", func(t *testing.T) {
		w := srv.JSON(t, http.MethodPut, fmt.Sprintf("/api/posts/%d", post.ID), map[string]string{"title": " "})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown post", func(t *testing.T) {
		w := srv.JSON(t, http.MethodPut, "/api/posts/9999", map[string]string{"title": "x"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDeletePostCascades(t *testing.T) {
	db := testutil.NewDB(t)
	srv := testutil.NewServer(t, db)

	w := srv.Multipart(t, http.MethodPost, "/api/posts",
		map[string]string{"title": "Cairo", "summary": "Pyramids"},
		testutil.File{Field: "logoImage", Filename: "logo.png", Data: testutil.PNG(t, 4, 4)},
		testutil.File{Field: "postImage", Filename: "cover.png", Data: testutil.PNG(t, 4, 4)},
	)
	require.Equal(t, http.StatusCreated, w.Code)
	var created controllers.CreatePostResponse
	testutil.Decode(t, w, &created)
	postPath := fmt.Sprintf("/api/posts/%d", created.PostID)

	c := srv.JSON(t, http.MethodPost, "/api/comments", map[string]interface{}{"post_id": created.PostID, "username": "ana", "message": "Wow"})
	require.Equal(t, http.StatusCreated, c.Code)
	l := srv.JSON(t, http.MethodPost, postPath+"/like", map[string]string{"username": "ben"})
	require.Equal(t, http.StatusOK, l.Code)

	w = srv.JSON(t, http.MethodDelete, postPath, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Post deleted successfully", testutil.Message(t, w))

	assert.Zero(t, testutil.Count(t, db, &models.BlogPost{}))
	assert.Zero(t, testutil.Count(t, db, &models.Comment{}))
	assert.Zero(t, testutil.Count(t, db, &models.PostLike{}))
	assert.Zero(t, testutil.Count(t, db, &models.Image{}))

	comments := srv.JSON(t, http.MethodGet, fmt.Sprintf("/api/comments/%d", created.PostID), nil)
	require.Equal(t, http.StatusOK, comments.Code)
	assert.JSONEq(t, "[]", comments.Body.String())

	again := srv.JSON(t, http.MethodDelete, postPath, nil)
	assert.Equal(t, http.StatusNotFound, again.Code)
}
