package repository

import (
	"context"
	"testing"

	"wayfarer/internal/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRepoTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.PostTag{},
		&models.Like{},
		&models.Comment{},
	); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com", Password: "hash"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestCreatePostWithTags(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	user := seedUser(t, db, "alice")

	post := &models.Post{UserID: user.ID, Content: "hello", Country: "Spain", Category: models.CategoryOther}
	err := repo.Create(ctx, post, []string{"spain", "beach"})
	assert.NoError(t, err)
	assert.NotZero(t, post.ID)

	got, err := repo.GetByID(ctx, post.ID, 0)
	assert.NoError(t, err)
	assert.Equal(t, []string{"spain", "beach"}, got.Tags)
	assert.Equal(t, "alice", got.User.Username)
	assert.Equal(t, 0, got.LikesCount)
	assert.False(t, got.Liked)
}

// Like is an idempotent set-add: repeating it cannot create a second row.
func TestLikeIsIdempotent(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	user := seedUser(t, db, "alice")

	post := &models.Post{UserID: user.ID, Content: "like me", Country: "Japan", Category: models.CategoryOther}
	assert.NoError(t, repo.Create(ctx, post, nil))

	assert.NoError(t, repo.Like(ctx, user.ID, post.ID))
	assert.NoError(t, repo.Like(ctx, user.ID, post.ID))
	assert.NoError(t, repo.Like(ctx, user.ID, post.ID))

	var count int64
	db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	liked, err := repo.IsLiked(ctx, user.ID, post.ID)
	assert.NoError(t, err)
	assert.True(t, liked)

	// Unlike removes exactly the caller's row, and is safe to repeat too.
	assert.NoError(t, repo.Unlike(ctx, user.ID, post.ID))
	assert.NoError(t, repo.Unlike(ctx, user.ID, post.ID))

	liked, err = repo.IsLiked(ctx, user.ID, post.ID)
	assert.NoError(t, err)
	assert.False(t, liked)
}

func TestLikedFlagIsPerRequester(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	post := &models.Post{UserID: alice.ID, Content: "x", Country: "Peru", Category: models.CategoryOther}
	assert.NoError(t, repo.Create(ctx, post, nil))
	assert.NoError(t, repo.Like(ctx, bob.ID, post.ID))

	asBob, err := repo.GetByID(ctx, post.ID, bob.ID)
	assert.NoError(t, err)
	assert.True(t, asBob.Liked)
	assert.Equal(t, 1, asBob.LikesCount)

	asAlice, err := repo.GetByID(ctx, post.ID, alice.ID)
	assert.NoError(t, err)
	assert.False(t, asAlice.Liked)
	assert.Equal(t, 1, asAlice.LikesCount)
}

func TestSearchMatchesTagCountryAndContent(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	user := seedUser(t, db, "alice")

	a := &models.Post{UserID: user.ID, Content: "surfing all day", Country: "Portugal", Category: models.CategoryOther}
	assert.NoError(t, repo.Create(ctx, a, []string{"surf"}))
	b := &models.Post{UserID: user.ID, Content: "city walk", Country: "Japan", Category: models.CategoryCity}
	assert.NoError(t, repo.Create(ctx, b, []string{"tokyo"}))

	byTag, err := repo.Search(ctx, "surf", 0)
	assert.NoError(t, err)
	assert.Len(t, byTag, 1)

	byCountry, err := repo.Search(ctx, "japa", 0)
	assert.NoError(t, err)
	assert.Len(t, byCountry, 1)

	byContent, err := repo.Search(ctx, "WALK", 0)
	assert.NoError(t, err)
	assert.Len(t, byContent, 1)

	none, err := repo.Search(ctx, "iceland", 0)
	assert.NoError(t, err)
	assert.Len(t, none, 0)
}

func TestPopularTagsOrdering(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	user := seedUser(t, db, "alice")

	tagSets := [][]string{
		{"beach", "sunset"},
		{"beach", "hiking"},
		{"beach"},
		{"sunset"},
	}
	for _, tags := range tagSets {
		post := &models.Post{UserID: user.ID, Content: "p", Country: "X", Category: models.CategoryOther}
		assert.NoError(t, repo.Create(ctx, post, tags))
	}

	counts, err := repo.PopularTags(ctx, 10)
	assert.NoError(t, err)
	if assert.Len(t, counts, 3) {
		assert.Equal(t, "beach", counts[0].Tag)
		assert.Equal(t, int64(3), counts[0].Count)
		assert.Equal(t, "sunset", counts[1].Tag)
		assert.Equal(t, int64(2), counts[1].Count)
	}

	// The limit caps the aggregation.
	top, err := repo.PopularTags(ctx, 1)
	assert.NoError(t, err)
	assert.Len(t, top, 1)
}

func TestUpdateTagSemantics(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	user := seedUser(t, db, "alice")

	post := &models.Post{UserID: user.ID, Content: "v1", Country: "Chile", Category: models.CategoryOther}
	assert.NoError(t, repo.Create(ctx, post, []string{"andes"}))

	// nil tags leave the tag set untouched.
	post.Content = "v2"
	assert.NoError(t, repo.Update(ctx, post, nil))
	got, err := repo.GetByID(ctx, post.ID, 0)
	assert.NoError(t, err)
	assert.Equal(t, "v2", got.Content)
	assert.Equal(t, []string{"andes"}, got.Tags)

	// A non-nil set replaces wholesale, including the empty set.
	assert.NoError(t, repo.Update(ctx, post, []string{}))
	got, err = repo.GetByID(ctx, post.ID, 0)
	assert.NoError(t, err)
	assert.Equal(t, []string{}, got.Tags)
}

func TestDeleteCascades(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	user := seedUser(t, db, "alice")

	post := &models.Post{UserID: user.ID, Content: "doomed", Country: "X", Category: models.CategoryOther}
	assert.NoError(t, repo.Create(ctx, post, []string{"gone"}))
	assert.NoError(t, repo.Like(ctx, user.ID, post.ID))
	assert.NoError(t, db.Create(&models.Comment{Content: "c", UserID: user.ID, PostID: post.ID}).Error)

	assert.NoError(t, repo.Delete(ctx, post.ID))

	_, err := repo.GetByID(ctx, post.ID, 0)
	assert.True(t, IsNotFound(err))

	var tags, likes, comments int64
	db.Model(&models.PostTag{}).Where("post_id = ?", post.ID).Count(&tags)
	db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&likes)
	db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&comments)
	assert.Zero(t, tags)
	assert.Zero(t, likes)
	assert.Zero(t, comments)
}
