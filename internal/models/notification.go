package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	NotificationLike    = "like"
	NotificationComment = "comment"
	NotificationFollow  = "follow"
)

// Notification is an engagement notification stored in MongoDB
type Notification struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Type        string             `json:"type" bson:"type"`
	ActorID     uint               `json:"actorId" bson:"actor_id"`
	RecipientID uint               `json:"recipientId" bson:"recipient_id"`
	PostID      uint               `json:"postId,omitempty" bson:"post_id,omitempty"`
	CommentID   uint               `json:"commentId,omitempty" bson:"comment_id,omitempty"`
	IsRead      bool               `json:"isRead" bson:"is_read"`
	CreatedAt   time.Time          `json:"createdAt" bson:"created_at"`
}
