package models

import "time"

// Like represents a like on a post. At most one per (post, user).
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"postId" gorm:"not null;uniqueIndex:idx_like_post_user"`
	UserID    uint      `json:"userId" gorm:"not null;index;uniqueIndex:idx_like_post_user"`
	Post      *Post     `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	User      *User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"createdAt"`
}

// LikeRequest defines the request body for liking and unliking a post
type LikeRequest struct {
	PostID uint `json:"postId" validate:"required"`
}
