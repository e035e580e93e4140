package server

import (
	"wayfarer/internal/models"
	"wayfarer/internal/service"

	"github.com/gofiber/fiber/v2"
)

// postRequest is the request body for creating and updating posts. The
// browser client historically sends the post text under "description" and
// a single "image"; both spellings are accepted.
type postRequest struct {
	Content     string   `json:"content"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Image       string   `json:"image"`
	Location    string   `json:"location"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
}

func (r *postRequest) content() string {
	if r.Content != "" {
		return r.Content
	}
	return r.Description
}

func (r *postRequest) images() []string {
	if len(r.Images) > 0 {
		return r.Images
	}
	if r.Image != "" {
		return []string{r.Image}
	}
	return nil
}

// respondServiceError maps a service-layer error onto its HTTP status.
func respondServiceError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, models.StatusForError(err), err)
}

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	posts, err := s.postService.ListPosts(c.Context(), limit, offset, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// GetUserPosts handles GET /api/posts/user/:userId
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	posts, svcErr := s.postService.GetUserPosts(c.Context(), userID, currentUserID(c))
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}
	return c.JSON(posts)
}

// SearchPosts handles GET /api/posts/search?tag=
// One query path serves tag, country and content search.
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	posts, err := s.postService.SearchPosts(c.Context(), c.Query("tag"), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// GetPopularTags handles GET /api/posts/tags/popular
func (s *Server) GetPopularTags(c *fiber.Ctx) error {
	tags, err := s.postService.PopularTags(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(tags)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		UserID:   currentUserID(c),
		Content:  req.content(),
		Images:   req.images(),
		Location: req.Location,
		Lat:      req.Lat,
		Lng:      req.Lng,
		Category: req.Category,
		Tags:     req.Tags,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PATCH and PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req postRequest
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, svcErr := s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		UserID:   currentUserID(c),
		PostID:   postID,
		Content:  req.content(),
		Location: req.Location,
		Category: req.Category,
		Tags:     req.Tags,
	})
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if svcErr := s.postService.DeletePost(c.Context(), currentUserID(c), postID); svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	return c.JSON(fiber.Map{"message": "Post deleted successfully"})
}

// LikePost handles POST /api/posts/:id/like.
// This endpoint toggles the like status: if already liked, it unlikes;
// if not liked, it likes. The updated post is returned either way.
func (s *Server) LikePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, svcErr := s.postService.ToggleLike(c.Context(), currentUserID(c), postID)
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	return c.JSON(post)
}
