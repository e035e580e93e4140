package models

import (
	"time"
)

// Post categories. Posts created without a category default to CategoryOther.
const (
	CategoryNature    = "Nature"
	CategoryCity      = "City"
	CategoryCulture   = "Culture"
	CategoryFood      = "Food"
	CategoryAdventure = "Adventure"
	CategoryOther     = "Other"
)

// ValidCategory reports whether the given category is one of the fixed enumeration.
func ValidCategory(category string) bool {
	switch category {
	case CategoryNature, CategoryCity, CategoryCulture, CategoryFood, CategoryAdventure, CategoryOther:
		return true
	}
	return false
}

// Post represents a travel post in the Wayfarer application.
// The owning UserID is set at creation and never changes.
type Post struct {
	ID       uint     `gorm:"primaryKey" json:"id"`
	UserID   uint     `gorm:"not null;index" json:"user_id"`
	User     User     `gorm:"foreignKey:UserID" json:"user"`
	Content  string   `gorm:"type:text;not null" json:"content"`
	Images   []string `gorm:"serializer:json" json:"images"`
	Country  string   `gorm:"not null;index" json:"country"`
	Lat      *float64 `json:"lat,omitempty"`
	Lng      *float64 `json:"lng,omitempty"`
	Category string   `gorm:"not null;default:Other" json:"category"`
	// Tags is loaded from the post_tags table; names are stored normalized
	// (lower-case, no leading '#').
	Tags []string `gorm:"-" json:"tags"`
	// Image mirrors the first entry of Images for client compatibility.
	Image string `gorm:"-" json:"image,omitempty"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked     bool      `gorm:"->" json:"liked"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OwnerID implements Owned.
func (p *Post) OwnerID() uint { return p.UserID }

// PostTag is one normalized tag attached to a post. A post carries each
// tag name at most once.
type PostTag struct {
	ID     uint   `gorm:"primaryKey" json:"-"`
	PostID uint   `gorm:"not null;index;uniqueIndex:idx_post_tags_post_name" json:"-"`
	Name   string `gorm:"not null;index;uniqueIndex:idx_post_tags_post_name" json:"name"`
}

// TagCount is one row of the popular-tags aggregation.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}
