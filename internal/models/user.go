// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents an account in the Wayfarer application.
// The password hash is never serialized into API responses.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"unique;not null" json:"username"`
	Email     string    `gorm:"unique;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Bio       string    `json:"bio"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Posts     []Post    `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}

// OwnerID implements Owned; an account owns itself.
func (u *User) OwnerID() uint { return u.ID }
