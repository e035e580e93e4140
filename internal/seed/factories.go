// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"wayfarer/internal/models"
	"wayfarer/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var categories = []string{
	models.CategoryNature,
	models.CategoryCity,
	models.CategoryCulture,
	models.CategoryFood,
	models.CategoryAdventure,
	models.CategoryOther,
}

// tagPools holds travel tags grouped by category so generated posts carry
// tags that plausibly match their content.
var tagPools = map[string][]string{
	models.CategoryNature:    {"hiking", "wildlife", "beach", "mountains", "sunset", "waterfall", "camping"},
	models.CategoryCity:      {"citybreak", "architecture", "nightlife", "skyline", "metro", "streetart"},
	models.CategoryCulture:   {"museum", "history", "festival", "temple", "unesco", "localcustoms"},
	models.CategoryFood:      {"streetfood", "foodie", "coffee", "winetasting", "localcuisine", "market"},
	models.CategoryAdventure: {"backpacking", "diving", "roadtrip", "skiing", "surfing", "climbing"},
	models.CategoryOther:     {"solotravel", "budgettravel", "digitalnomad", "travelphotography"},
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder command and by tests.
type Factory struct {
	db *gorm.DB
	r  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Factory{db: db, r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		Username: strings.ToLower(gofakeit.Username()) + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Password: string(hashedPassword),
		Bio:      gofakeit.Sentence(10),
		Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost constructs and persists a travel post for the given user,
// with a category-matched tag set and a plausible location.
func (f *Factory) CreatePost(user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	category := categories[f.r.Intn(len(categories))]
	lat := gofakeit.Latitude()
	lng := gofakeit.Longitude()

	post := &models.Post{
		UserID:   user.ID,
		Content:  gofakeit.Paragraph(1, 3, 8, "\n"),
		Country:  gofakeit.Country(),
		Category: category,
		Lat:      &lat,
		Lng:      &lng,
	}

	if f.r.Float32() < 0.6 {
		post.Images = []string{fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID())}
	}

	// realistic created_at spread over the last 90 days
	daysBack := f.r.Intn(90)
	hoursBack := f.r.Intn(24)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	for _, override := range overrides {
		override(post)
	}

	tags := f.pickTags(category)
	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	for _, tag := range tags {
		if err := f.db.Create(&models.PostTag{PostID: post.ID, Name: tag}).Error; err != nil {
			return nil, err
		}
	}
	post.Tags = tags
	return post, nil
}

func (f *Factory) pickTags(category string) []string {
	pool := tagPools[category]
	n := 1 + f.r.Intn(3)
	if n > len(pool) {
		n = len(pool)
	}
	picked := make([]string, 0, n)
	for _, i := range f.r.Perm(len(pool))[:n] {
		picked = append(picked, pool[i])
	}
	return service.NormalizeTags(picked)
}

// CreateComment constructs and persists a sample `models.Comment` on the
// provided post authored by the provided user.
func (f *Factory) CreateComment(user *models.User, post *models.Post, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		Content: gofakeit.Sentence(8),
		UserID:  user.ID,
		PostID:  post.ID,
	}

	for _, override := range overrides {
		override(comment)
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateLike persists a like from `user` on `post`. Duplicate likes are
// absorbed by the unique index, so callers may retry freely.
func (f *Factory) CreateLike(user *models.User, post *models.Post) error {
	like := &models.Like{
		UserID: user.ID,
		PostID: post.ID,
	}
	err := f.db.Create(like).Error
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "unique") {
		return nil
	}
	return err
}

// Seed populates the database with a full mesh of users, posts, comments
// and likes.
func Seed(db *gorm.DB, numUsers, numPosts int) error {
	f := NewFactory(db)

	log.Printf("Seeding %d users and %d posts...", numUsers, numPosts)

	users := make([]*models.User, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			log.Printf("skipping user: %v", err)
			continue
		}
		users = append(users, user)
	}
	if len(users) == 0 {
		return fmt.Errorf("no users created")
	}
	log.Printf("created %d users", len(users))

	posts := make([]*models.Post, 0, numPosts)
	for i := 0; i < numPosts; i++ {
		user := users[f.r.Intn(len(users))]
		post, err := f.CreatePost(user)
		if err != nil {
			return fmt.Errorf("create post: %w", err)
		}
		posts = append(posts, post)
	}
	log.Printf("created %d posts", len(posts))

	for _, post := range posts {
		for i := 0; i < f.r.Intn(5); i++ {
			if _, err := f.CreateComment(users[f.r.Intn(len(users))], post); err != nil {
				return fmt.Errorf("create comment: %w", err)
			}
		}
		for i := 0; i < f.r.Intn(8); i++ {
			if err := f.CreateLike(users[f.r.Intn(len(users))], post); err != nil {
				return fmt.Errorf("create like: %w", err)
			}
		}
	}

	log.Println("Seeding completed")
	return nil
}

// ClearAll truncates all application tables. Postgres only.
func ClearAll(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE comments, likes, post_tags, posts, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}
