package models

import (
	"time"

	"gorm.io/gorm"
)

// User is the account entity. Platform handles and profile data are stored
// inline as JSON documents since they are always read and written together
// with the user row.
type User struct {
	ID           string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Username     string `gorm:"uniqueIndex;not null" json:"username"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`

	Profile UserProfile     `gorm:"serializer:json" json:"profile"`
	Handles PlatformHandles `gorm:"serializer:json" json:"handles"`

	IsVerified bool       `json:"is_verified" gorm:"default:false"`
	LastActive *time.Time `json:"last_active,omitempty"`

	Timestamps
}

type UserProfile struct {
	Name     string `json:"name,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Bio      string `json:"bio,omitempty"`
	Location string `json:"location,omitempty"`
}

// PlatformHandles holds the user's identifiers on the external judges.
// An empty string means the user has not linked that platform.
type PlatformHandles struct {
	LeetCode   string `json:"leetcode,omitempty"`
	Codeforces string `json:"codeforces,omitempty"`
}

// Handle returns the stored handle for a platform, or "" if unlinked.
func (h PlatformHandles) Handle(p Platform) string {
	switch p {
	case PlatformLeetCode:
		return h.LeetCode
	case PlatformCodeforces:
		return h.Codeforces
	}
	return ""
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
