package service

import (
	"context"
	"strings"

	"wayfarer/internal/models"
	"wayfarer/internal/repository"
)

const maxCommentLen = 2000

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

type CreateCommentInput struct {
	UserID  uint
	PostID  uint
	Content string
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Comment content is required")
	}
	if len(in.Content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 2000 characters)")
	}

	if _, err := s.postRepo.GetByID(ctx, in.PostID, 0); err != nil {
		if repository.IsNotFound(err) {
			return nil, models.NewNotFoundError("Post")
		}
		return nil, err
	}

	comment := &models.Comment{
		Content: in.Content,
		UserID:  in.UserID,
		PostID:  in.PostID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	// Reload so the commenting account is populated in the response.
	return s.commentRepo.GetByID(ctx, comment.ID)
}

func (s *CommentService) ListComments(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.commentRepo.ListByPost(ctx, postID)
}

// DeleteComment removes a comment. Only the owning account may delete;
// the original API answers ownership failures here with 401, not 403,
// and that per-endpoint behavior is preserved.
func (s *CommentService) DeleteComment(ctx context.Context, userID, commentID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if repository.IsNotFound(err) {
			return models.NewNotFoundError("Comment")
		}
		return err
	}

	if !models.IsOwner(comment, userID) {
		return models.NewUnauthorizedError("Not authorized to delete this comment")
	}

	return s.commentRepo.Delete(ctx, commentID)
}
