package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User is an account synced from the identity provider on first sign-in
type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FirebaseUID string    `json:"externalId" gorm:"uniqueIndex;not null;<-:create"` // immutable once set
	DisplayName string    `json:"displayName" gorm:"index"`
	Email       string    `json:"-"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"-"`
}

// UserCompact is the author identity embedded in posts and comments
type UserCompact struct {
	ID          uint   `json:"id"`
	ExternalID  string `json:"externalId"`
	DisplayName string `json:"displayName"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:          u.ID,
		ExternalID:  u.FirebaseUID,
		DisplayName: u.DisplayName,
		ImageURL:    u.ImageURL,
	}
}

// UserStats are the profile counters
type UserStats struct {
	Posts     int64 `json:"posts"`
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}

// SessionRequest exchanges a Firebase ID token for a session token
type SessionRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// SessionClaims are the claims of the session JWT. Subject holds the Firebase UID.
type SessionClaims struct {
	jwt.RegisteredClaims
}
