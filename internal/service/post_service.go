// Package service contains the business rules sitting between the HTTP
// handlers and the repositories.
package service

import (
	"context"
	"strings"

	"wayfarer/internal/models"
	"wayfarer/internal/repository"
)

const (
	maxContentLen = 5000
	maxTagLen     = 50
	popularTagsN  = 10
)

type PostService struct {
	postRepo repository.PostRepository
}

type CreatePostInput struct {
	UserID   uint
	Content  string
	Images   []string
	Location string
	Lat      *float64
	Lng      *float64
	Category string
	Tags     []string
}

type UpdatePostInput struct {
	UserID   uint
	PostID   uint
	Content  string
	Location string
	Category string
	// Tags nil leaves the tag set untouched; non-nil replaces it.
	Tags []string
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

// NormalizeTags canonicalizes user-supplied tags: the leading '#' marker is a
// presentation convention and is stripped before storage, names are
// lower-cased, empties dropped and duplicates collapsed. Idempotent.
func NormalizeTags(tags []string) []string {
	normalized := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		name := strings.TrimSpace(tag)
		name = strings.TrimPrefix(name, "#")
		name = strings.ToLower(name)
		if name == "" || len(name) > maxTagLen {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		normalized = append(normalized, name)
	}
	return normalized
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 5000 characters)")
	}

	country := strings.TrimSpace(in.Location)
	if country == "" {
		country = "Unknown"
	}

	category := in.Category
	if category == "" {
		category = models.CategoryOther
	}
	if !models.ValidCategory(category) {
		return nil, models.NewValidationError("Invalid category")
	}

	images := in.Images
	if images == nil {
		images = []string{}
	}

	post := &models.Post{
		UserID:   in.UserID,
		Content:  in.Content,
		Images:   images,
		Country:  country,
		Lat:      in.Lat,
		Lng:      in.Lng,
		Category: category,
	}

	if err := s.postRepo.Create(ctx, post, NormalizeTags(in.Tags)); err != nil {
		return nil, err
	}

	// Reload so the author and computed fields are populated.
	return s.GetPost(ctx, post.ID, in.UserID)
}

func (s *PostService) GetPost(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id, currentUserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, models.NewNotFoundError("Post")
		}
		return nil, err
	}
	return post, nil
}

func (s *PostService) ListPosts(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.List(ctx, limit, offset, currentUserID)
}

func (s *PostService) GetUserPosts(ctx context.Context, userID, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.GetByUserID(ctx, userID, currentUserID)
}

func (s *PostService) SearchPosts(ctx context.Context, term string, currentUserID uint) ([]*models.Post, error) {
	if strings.TrimSpace(term) == "" {
		return nil, models.NewValidationError("Search tag is required")
	}
	return s.postRepo.Search(ctx, term, currentUserID)
}

// PopularTags returns the ten most used tag names, descending by use count.
// Tie order is store-determined; callers must not rely on it.
func (s *PostService) PopularTags(ctx context.Context) ([]string, error) {
	counts, err := s.postRepo.PopularTags(ctx, popularTagsN)
	if err != nil {
		return nil, err
	}
	tags := make([]string, 0, len(counts))
	for _, tc := range counts {
		tags = append(tags, tc.Tag)
	}
	return tags, nil
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, models.NewNotFoundError("Post")
		}
		return nil, err
	}

	if !models.IsOwner(post, in.UserID) {
		return nil, models.NewForbiddenError("Not authorized to update this post")
	}

	if in.Content != "" {
		if len(in.Content) > maxContentLen {
			return nil, models.NewValidationError("Content too long (max 5000 characters)")
		}
		post.Content = in.Content
	}
	if in.Location != "" {
		post.Country = in.Location
	}
	if in.Category != "" {
		if !models.ValidCategory(in.Category) {
			return nil, models.NewValidationError("Invalid category")
		}
		post.Category = in.Category
	}

	var tags []string
	if in.Tags != nil {
		tags = NormalizeTags(in.Tags)
	}

	if err := s.postRepo.Update(ctx, post, tags); err != nil {
		return nil, err
	}

	return s.GetPost(ctx, post.ID, in.UserID)
}

func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return models.NewNotFoundError("Post")
		}
		return err
	}

	if !models.IsOwner(post, userID) {
		return models.NewForbiddenError("Not authorized to delete this post")
	}

	return s.postRepo.Delete(ctx, postID)
}

// ToggleLike flips the (post, account) like membership: present is removed,
// absent is added. Both branches are idempotent set operations, so
// concurrent toggles cannot duplicate an entry.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID uint) (*models.Post, error) {
	if _, err := s.GetPost(ctx, postID, userID); err != nil {
		return nil, err
	}

	liked, err := s.postRepo.IsLiked(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	if liked {
		err = s.postRepo.Unlike(ctx, userID, postID)
	} else {
		err = s.postRepo.Like(ctx, userID, postID)
	}
	if err != nil {
		return nil, err
	}

	return s.GetPost(ctx, postID, userID)
}
