package handlers

import (
	"context"

	"github.com/anonto42/snapfeed/backend/internal/models"
	"github.com/anonto42/snapfeed/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// The handlers depend on these narrow views of the services

// AccountService syncs, resolves and looks up accounts
type AccountService interface {
	SyncAccount(ctx context.Context, id services.Identity) (*models.User, error)
	ResolveCaller(ctx context.Context, uid string) (*models.User, error)
	Search(ctx context.Context, query string) ([]models.User, error)
	Profile(ctx context.Context, idOrExternal string, viewerID *uint) (*services.ProfileView, error)
}

// FeedService reads enriched posts
type FeedService interface {
	GetFeed(ctx context.Context, q services.FeedQuery) (*services.FeedPage, error)
	GetPost(ctx context.Context, postID uint, viewerID *uint) (*models.EnrichedPost, error)
}

// PostService creates, edits and deletes posts
type PostService interface {
	CreatePost(ctx context.Context, author *models.User, in services.NewPost) (*models.Post, error)
	EditPost(ctx context.Context, actorID, postID uint, caption *string) (*models.Post, error)
	DeletePost(ctx context.Context, actorID, postID uint) error
}

// EngagementService handles likes, comments and follows
type EngagementService interface {
	Like(ctx context.Context, actorID, postID uint) (*models.Like, error)
	Unlike(ctx context.Context, actorID, postID uint) error
	CreateComment(ctx context.Context, actor *models.User, postID uint, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, actorID, commentID uint) error
	Follow(ctx context.Context, actorID, targetID uint) (*models.Follow, error)
	Unfollow(ctx context.Context, actorID, targetID uint) error
}

// NotificationService lists and acknowledges notifications
type NotificationService interface {
	List(ctx context.Context, recipientID uint, page, limit int) (*services.NotificationPage, error)
	MarkRead(ctx context.Context, recipientID uint, id string) error
}

// RouteAuth carries the two authentication modes routes are registered with
type RouteAuth struct {
	Required echo.MiddlewareFunc
	Optional echo.MiddlewareFunc
}
