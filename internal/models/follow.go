package models

import "time"

// Follow represents an Instagram-style follow relationship
type Follow struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FollowerID  uint      `json:"followerId" gorm:"not null;index;uniqueIndex:idx_follower_following;check:chk_no_self_follow,follower_id <> following_id"`
	FollowingID uint      `json:"followingId" gorm:"not null;index;uniqueIndex:idx_follower_following"`
	Follower    *User     `json:"-" gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	Following   *User     `json:"-" gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FollowRequest defines the request body for following and unfollowing
type FollowRequest struct {
	FollowingID uint `json:"followingId" validate:"required"`
}
