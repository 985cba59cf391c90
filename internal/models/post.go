package models

import "time"

const (
	MaxCaptionLength = 2200
	MaxImageBytes    = 5 << 20
)

// Post is a single image post. MediaURL never changes after creation.
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	AuthorID  uint      `json:"authorId" gorm:"index;not null"`
	Author    User      `json:"author" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	MediaURL  string    `json:"mediaUrl" gorm:"not null;<-:create"`
	MediaKey  string    `json:"-" gorm:"<-:create"`
	Caption   *string   `json:"caption" gorm:"size:2200"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OwnerID implements services.Owned
func (p *Post) OwnerID() uint { return p.AuthorID }

// PostAggregate holds the counts computed at read time
type PostAggregate struct {
	LikesCount    int64 `json:"likesCount"`
	CommentsCount int64 `json:"commentsCount"`
}

// EnrichedPost is a post with author identity, counts, the viewer's like state and comments
type EnrichedPost struct {
	ID             uint          `json:"id"`
	MediaURL       string        `json:"mediaUrl"`
	Caption        *string       `json:"caption"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
	Author         UserCompact   `json:"author"`
	LikesCount     int64         `json:"likesCount"`
	CommentsCount  int64         `json:"commentsCount"`
	ViewerHasLiked bool          `json:"viewerHasLiked"`
	Comments       []CommentView `json:"comments"`
}

// UpdatePostRequest defines the request body for editing a caption
type UpdatePostRequest struct {
	Caption *string `json:"caption"`
}
