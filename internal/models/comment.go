package models

import "time"

const MaxCommentLength = 2200

// Comment represents a comment on a post
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"postId" gorm:"not null;index:idx_comment_post_created,priority:1"`
	AuthorID  uint      `json:"authorId" gorm:"not null;index"`
	Author    User      `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Post      *Post     `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	Content   string    `json:"content" gorm:"size:2200;not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"index:idx_comment_post_created,priority:2"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OwnerID implements services.Owned
func (c *Comment) OwnerID() uint { return c.AuthorID }

// View shapes the comment with its author's display identity
func (c *Comment) View() CommentView {
	return CommentView{
		ID:        c.ID,
		PostID:    c.PostID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		Author:    c.Author.ToCompact(),
	}
}

// CommentView is a comment as returned to clients
type CommentView struct {
	ID        uint        `json:"id"`
	PostID    uint        `json:"postId"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"createdAt"`
	Author    UserCompact `json:"author"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	PostID  uint   `json:"postId" validate:"required"`
	Content string `json:"content"`
}
