package repository

import (
	"context"
	"errors"
	"strings"

	"wayfarer/internal/cache"
	"wayfarer/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines the interface for post data operations.
// Like and Unlike are idempotent set operations on the uniquely-indexed
// likes table, not read-modify-write of an embedded array.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post, tags []string) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	GetByUserID(ctx context.Context, userID uint, currentUserID uint) ([]*models.Post, error)
	List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error)
	Search(ctx context.Context, term string, currentUserID uint) ([]*models.Post, error)
	PopularTags(ctx context.Context, limit int) ([]models.TagCount, error)
	Update(ctx context.Context, post *models.Post, tags []string) error
	Delete(ctx context.Context, id uint) error
	IsLiked(ctx context.Context, userID, postID uint) (bool, error)
	Like(ctx context.Context, userID, postID uint) error
	Unlike(ctx context.Context, userID, postID uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post, tags []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		return replaceTags(tx, post.ID, tags)
	})
	if err != nil {
		return err
	}
	post.Tags = tags
	decoratePost(post)
	cache.InvalidatePosts(ctx)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	var post models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		First(&post, id).Error
	if err != nil {
		return nil, err
	}
	if err := r.loadTags(ctx, []*models.Post{&post}); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetByUserID(ctx context.Context, userID uint, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	if err := r.loadTags(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	fill := func(posts *[]*models.Post) error {
		err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
			Preload("User").
			Order("created_at DESC").
			Limit(limit).
			Offset(offset).
			Find(posts).Error
		if err != nil {
			return err
		}
		return r.loadTags(ctx, *posts)
	}

	var posts []*models.Post
	// Only the anonymous feed is cacheable; the Liked flag is per requester.
	if currentUserID == 0 {
		err := cache.Aside(ctx, cache.PostsListKey(limit, offset), &posts, cache.PostsTTL, func() error {
			return fill(&posts)
		})
		return posts, err
	}

	err := fill(&posts)
	return posts, err
}

func (r *postRepository) Search(ctx context.Context, term string, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	like := "%" + strings.ToLower(term) + "%"
	// One query path across tags, country and content: recall over precision.
	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Where(
			"LOWER(posts.content) LIKE ? OR LOWER(posts.country) LIKE ? OR EXISTS (SELECT 1 FROM post_tags WHERE post_tags.post_id = posts.id AND post_tags.name LIKE ?)",
			like, like, like,
		).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	if err := r.loadTags(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) PopularTags(ctx context.Context, limit int) ([]models.TagCount, error) {
	var counts []models.TagCount
	err := cache.Aside(ctx, cache.PopularTagsKey(), &counts, cache.PopularTagsTTL, func() error {
		return r.db.WithContext(ctx).
			Model(&models.PostTag{}).
			Select("name AS tag, COUNT(*) AS count").
			Group("name").
			Order("count DESC").
			Limit(limit).
			Scan(&counts).Error
	})
	return counts, err
}

func (r *postRepository) Update(ctx context.Context, post *models.Post, tags []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Struct update with an explicit field list so zero values still
		// write and the Images serializer applies.
		if err := tx.Model(post).
			Select("content", "images", "country", "lat", "lng", "category").
			Updates(post).Error; err != nil {
			return err
		}
		if tags == nil {
			return nil
		}
		return replaceTags(tx, post.ID, tags)
	})
	if err != nil {
		return err
	}
	if tags != nil {
		post.Tags = tags
	}
	decoratePost(post)
	cache.InvalidatePosts(ctx)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.PostTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		return err
	}
	cache.InvalidatePosts(ctx)
	return nil
}

func (r *postRepository) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	return count > 0, err
}

func (r *postRepository) Like(ctx context.Context, userID, postID uint) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Like{UserID: userID, PostID: postID}).Error
	if err == nil {
		cache.InvalidatePosts(ctx)
	}
	return err
}

func (r *postRepository) Unlike(ctx context.Context, userID, postID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{}).Error
	if err == nil {
		cache.InvalidatePosts(ctx)
	}
	return err
}

// applyPostDetails adds subqueries to fetch counts and liked status in a single query.
func (r *postRepository) applyPostDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) as comments_count, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) as likes_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) as liked", currentUserID)
	}

	return db.Select(selectQuery + ", false as liked")
}

// loadTags attaches tag names to each post and sets the first-image
// convenience field.
func (r *postRepository) loadTags(ctx context.Context, posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}

	var rows []models.PostTag
	if err := r.db.WithContext(ctx).
		Where("post_id IN ?", ids).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return err
	}

	byPost := make(map[uint][]string, len(posts))
	for _, row := range rows {
		byPost[row.PostID] = append(byPost[row.PostID], row.Name)
	}

	for _, p := range posts {
		p.Tags = byPost[p.ID]
		if p.Tags == nil {
			p.Tags = []string{}
		}
		decoratePost(p)
	}
	return nil
}

func decoratePost(post *models.Post) {
	if len(post.Images) > 0 {
		post.Image = post.Images[0]
	}
}

func replaceTags(tx *gorm.DB, postID uint, tags []string) error {
	if err := tx.Where("post_id = ?", postID).Delete(&models.PostTag{}).Error; err != nil {
		return err
	}
	for _, name := range tags {
		if err := tx.Create(&models.PostTag{PostID: postID, Name: name}).Error; err != nil {
			return err
		}
	}
	return nil
}

// IsNotFound reports whether err is the store's record-not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
