package posts

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/anoixa/postboard/database"
	"github.com/anoixa/postboard/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB 创建测试数据库
func setupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func seedPost(t *testing.T, db *gorm.DB, title string, createdOn time.Time, published, frontPage bool) *models.Post {
	post := &models.Post{
		Title:       title,
		Content:     "some content long enough",
		Description: "description",
		IsPublished: published,
		IsFrontPage: frontPage,
		CreatedOn:   createdOn,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func TestCreatePost_WithImages(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	post := &models.Post{
		Title:       "Hello world",
		Content:     "content of the post",
		Description: "desc",
		FrontImage:  &models.FrontImage{Filename: "front.png", Src: "http://localhost/posts/postImages/front.png"},
		Gallery: []models.GalleryImage{
			{Filename: "g1.png", Src: "http://localhost/posts/postImages/g1.png"},
			{Filename: "g2.png", Src: "http://localhost/posts/postImages/g2.png"},
		},
	}
	require.NoError(t, repo.CreatePost(ctx, post))
	require.NotNil(t, post.FrontImageID)

	got, err := repo.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	require.NotNil(t, got.FrontImage)
	assert.Equal(t, "front.png", got.FrontImage.Filename)
	require.Len(t, got.Gallery, 2)
	for _, img := range got.Gallery {
		assert.Equal(t, post.ID, img.PostID)
	}
}

func TestCreatePost_RollsBackOnFailure(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	existing := seedPost(t, db, "existing", time.Now(), false, false)

	post := &models.Post{
		ID:          existing.ID,
		Title:       "duplicate id",
		Content:     "content of the post",
		Description: "desc",
		FrontImage:  &models.FrontImage{Filename: "front.png", Src: "src"},
	}
	require.Error(t, repo.CreatePost(ctx, post))

	var count int64
	require.NoError(t, db.Model(&models.FrontImage{}).Count(&count).Error)
	assert.Zero(t, count, "front image insert should be rolled back")
}

func TestListPosts_PaginationAndFilter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		seedPost(t, db, fmt.Sprintf("post %d", i), base.Add(time.Duration(i)*time.Minute), true, false)
	}
	seedPost(t, db, "Foo", base.Add(10*time.Minute), true, false)
	seedPost(t, db, "Foobar", base.Add(11*time.Minute), true, false)

	posts, total, err := repo.ListPosts(ctx, 0, 3, "")
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	require.Len(t, posts, 3)
	assert.Equal(t, "Foobar", posts[0].Title)
	assert.Equal(t, "Foo", posts[1].Title)
	assert.Equal(t, "post 4", posts[2].Title)

	posts, _, err = repo.ListPosts(ctx, 6, 3, "")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "post 0", posts[0].Title)

	posts, total, err = repo.ListPosts(ctx, 0, 12, "Foo")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, posts, 1)
	assert.Equal(t, "Foo", posts[0].Title)
}

func TestListPublished(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 8; i++ {
		seedPost(t, db, fmt.Sprintf("published %d", i), base.Add(time.Duration(i)*time.Minute), true, i%2 == 0)
	}
	seedPost(t, db, "draft", base.Add(time.Hour), false, true)

	newest, err := repo.ListPublished(ctx, false, 6)
	require.NoError(t, err)
	require.Len(t, newest, 6)
	assert.Equal(t, "published 7", newest[0].Title)

	front, err := repo.ListPublished(ctx, true, 6)
	require.NoError(t, err)
	require.Len(t, front, 4)
	for _, p := range front {
		assert.True(t, p.IsPublished)
		assert.True(t, p.IsFrontPage)
	}
}

func TestApplyChangeset(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	post := &models.Post{
		Title:       "original",
		Content:     "content of the post",
		Description: "desc",
		IsPublished: true,
		FrontImage:  &models.FrontImage{Filename: "old.png", Src: "src-old"},
		Gallery:     []models.GalleryImage{{Filename: "g1.png", Src: "src-g1"}},
	}
	require.NoError(t, repo.CreatePost(ctx, post))
	oldFrontID := *post.FrontImageID
	oldGalleryID := post.Gallery[0].ID

	post.Title = "changed"
	post.IsPublished = false
	err := repo.ApplyChangeset(ctx, &Changeset{
		Post:                post,
		NewFrontImage:       &models.FrontImage{Filename: "new.png", Src: "src-new"},
		NewGallery:          []models.GalleryImage{{Filename: "g2.png", Src: "src-g2"}},
		DeleteFrontImageIDs: []string{oldFrontID},
		DeleteGalleryIDs:    []string{oldGalleryID},
	})
	require.NoError(t, err)

	got, err := repo.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "changed", got.Title)
	assert.False(t, got.IsPublished)
	require.NotNil(t, got.FrontImage)
	assert.Equal(t, "new.png", got.FrontImage.Filename)
	require.Len(t, got.Gallery, 1)
	assert.Equal(t, "g2.png", got.Gallery[0].Filename)

	var count int64
	require.NoError(t, db.Model(&models.FrontImage{}).Where("id = ?", oldFrontID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestApplyChangeset_ClearFrontImage(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	post := &models.Post{
		Title:       "original",
		Content:     "content of the post",
		Description: "desc",
		FrontImage:  &models.FrontImage{Filename: "old.png", Src: "src-old"},
	}
	require.NoError(t, repo.CreatePost(ctx, post))
	oldFrontID := *post.FrontImageID

	err := repo.ApplyChangeset(ctx, &Changeset{
		Post:                post,
		ClearFrontImage:     true,
		DeleteFrontImageIDs: []string{oldFrontID},
	})
	require.NoError(t, err)

	got, err := repo.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Nil(t, got.FrontImage)
	assert.Nil(t, got.FrontImageID)
}

func TestApplyChangeset_MissingPost(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	err := repo.ApplyChangeset(context.Background(), &Changeset{
		Post: &models.Post{ID: "missing", Title: "x"},
	})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeletePost(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	post := &models.Post{
		Title:       "to delete",
		Content:     "content of the post",
		Description: "desc",
		FrontImage:  &models.FrontImage{Filename: "front.png", Src: "src"},
		Gallery: []models.GalleryImage{
			{Filename: "g1.png", Src: "src"},
			{Filename: "g2.png", Src: "src"},
		},
	}
	require.NoError(t, repo.CreatePost(ctx, post))

	require.NoError(t, repo.DeletePost(ctx, post))

	_, err := repo.GetPostByID(ctx, post.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var galleryCount, frontCount int64
	require.NoError(t, db.Model(&models.GalleryImage{}).Count(&galleryCount).Error)
	require.NoError(t, db.Model(&models.FrontImage{}).Count(&frontCount).Error)
	assert.Zero(t, galleryCount)
	assert.Zero(t, frontCount)

	assert.ErrorIs(t, repo.DeletePost(ctx, post), gorm.ErrRecordNotFound)
}

func TestReferencedFilenames(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	post := &models.Post{
		Title:       "refs",
		Content:     "content of the post",
		Description: "desc",
		FrontImage:  &models.FrontImage{Filename: "front.png", Src: "src"},
		Gallery:     []models.GalleryImage{{Filename: "g1.png", Src: "src"}},
	}
	require.NoError(t, repo.CreatePost(ctx, post))

	refs, err := repo.ReferencedFilenames(ctx)
	require.NoError(t, err)
	assert.Len(t, refs, 2)
	assert.Contains(t, refs, "front.png")
	assert.Contains(t, refs, "g1.png")
}
