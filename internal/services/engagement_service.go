package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/anonto42/snapfeed/backend/internal/models"
	"github.com/anonto42/snapfeed/backend/internal/notifications"
	"github.com/anonto42/snapfeed/backend/internal/repositories"
	"github.com/sirupsen/logrus"
)

// EngagementService implements the like, comment and follow mutations
type EngagementService struct {
	users     repositories.UserRepository
	posts     repositories.PostRepository
	likes     repositories.LikeRepository
	comments  repositories.CommentRepository
	follows   repositories.FollowRepository
	publisher notifications.Publisher
	log       logrus.FieldLogger
}

// NewEngagementService creates a new EngagementService
func NewEngagementService(
	users repositories.UserRepository,
	posts repositories.PostRepository,
	likes repositories.LikeRepository,
	comments repositories.CommentRepository,
	follows repositories.FollowRepository,
	publisher notifications.Publisher,
	log logrus.FieldLogger,
) *EngagementService {
	if publisher == nil {
		publisher = notifications.Discard
	}
	return &EngagementService{
		users:     users,
		posts:     posts,
		likes:     likes,
		comments:  comments,
		follows:   follows,
		publisher: publisher,
		log:       log,
	}
}

// Like moves (actor, post) from Unliked to Liked. Liking twice is a Conflict.
func (s *EngagementService) Like(ctx context.Context, actorID, postID uint) (*models.Like, error) {
	post, err := s.loadPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	hasLiked, err := s.likes.HasUserLikedPost(ctx, postID, actorID)
	if err != nil {
		return nil, storeUnavailable("check like", err)
	}
	if hasLiked {
		return nil, conflict(ReasonAlreadyLiked, "post already liked")
	}

	like := &models.Like{PostID: postID, UserID: actorID}
	if err := s.likes.CreateLike(ctx, like); err != nil {
		switch {
		case errors.Is(err, repositories.ErrDuplicate):
			// lost the race against a concurrent like from the same account
			return nil, conflict(ReasonAlreadyLiked, "post already liked")
		case errors.Is(err, repositories.ErrMissingReference):
			return nil, notFound(ReasonPostNotFound, "post not found")
		}
		return nil, storeUnavailable("create like", err)
	}

	s.publisher.Publish(notifications.Event{
		Type:        models.NotificationLike,
		ActorID:     actorID,
		RecipientID: post.AuthorID,
		PostID:      postID,
	})
	return like, nil
}

// Unlike moves (actor, post) to Unliked. Removing an absent like succeeds.
func (s *EngagementService) Unlike(ctx context.Context, actorID, postID uint) error {
	if err := s.likes.DeleteLike(ctx, postID, actorID); err != nil {
		return storeUnavailable("delete like", err)
	}
	return nil
}

// CreateComment adds a comment. Content is trimmed and must hold 1 to 2200 characters.
func (s *EngagementService) CreateComment(ctx context.Context, actor *models.User, postID uint, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, invalidInput(ReasonInvalidContent, "comment content is required")
	}
	if utf8.RuneCountInString(content) > models.MaxCommentLength {
		return nil, invalidInput(ReasonInvalidContent, fmt.Sprintf("comment content exceeds %d characters", models.MaxCommentLength))
	}

	post, err := s.loadPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{PostID: postID, AuthorID: actor.ID, Content: content}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		if errors.Is(err, repositories.ErrMissingReference) {
			return nil, notFound(ReasonPostNotFound, "post not found")
		}
		return nil, storeUnavailable("create comment", err)
	}
	comment.Author = *actor

	s.publisher.Publish(notifications.Event{
		Type:        models.NotificationComment,
		ActorID:     actor.ID,
		RecipientID: post.AuthorID,
		PostID:      postID,
		CommentID:   comment.ID,
	})
	return comment, nil
}

// DeleteComment removes a comment authored by the actor
func (s *EngagementService) DeleteComment(ctx context.Context, actorID, commentID uint) error {
	comment, err := s.comments.GetCommentByID(ctx, commentID)
	if errors.Is(err, repositories.ErrNotFound) {
		return notFound(ReasonCommentNotFound, "comment not found")
	}
	if err != nil {
		return storeUnavailable("load comment", err)
	}
	if err := Authorize(ActionDeleteComment, actorID, comment); err != nil {
		return err
	}
	if err := s.comments.DeleteComment(ctx, commentID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound(ReasonCommentNotFound, "comment not found")
		}
		return storeUnavailable("delete comment", err)
	}
	return nil
}

// Follow moves (actor, target) from NotFollowing to Following
func (s *EngagementService) Follow(ctx context.Context, actorID, targetID uint) (*models.Follow, error) {
	if actorID == targetID {
		return nil, invalidInput(ReasonSelfFollow, "cannot follow yourself")
	}

	if _, err := s.users.GetUserByID(ctx, targetID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound(ReasonUserNotFound, "user not found")
		}
		return nil, storeUnavailable("load follow target", err)
	}

	isFollowing, err := s.follows.IsFollowing(ctx, actorID, targetID)
	if err != nil {
		return nil, storeUnavailable("check follow", err)
	}
	if isFollowing {
		return nil, conflict(ReasonAlreadyFollowing, "already following this user")
	}

	follow := &models.Follow{FollowerID: actorID, FollowingID: targetID}
	if err := s.follows.CreateFollow(ctx, follow); err != nil {
		switch {
		case errors.Is(err, repositories.ErrDuplicate):
			return nil, conflict(ReasonAlreadyFollowing, "already following this user")
		case errors.Is(err, repositories.ErrMissingReference):
			return nil, notFound(ReasonUserNotFound, "user not found")
		}
		return nil, storeUnavailable("create follow", err)
	}

	s.publisher.Publish(notifications.Event{
		Type:        models.NotificationFollow,
		ActorID:     actorID,
		RecipientID: targetID,
	})
	return follow, nil
}

// Unfollow removes the relationship. Removing an absent one succeeds.
func (s *EngagementService) Unfollow(ctx context.Context, actorID, targetID uint) error {
	if err := s.follows.DeleteFollow(ctx, actorID, targetID); err != nil {
		return storeUnavailable("delete follow", err)
	}
	return nil
}

func (s *EngagementService) loadPost(ctx context.Context, postID uint) (*models.Post, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, notFound(ReasonPostNotFound, "post not found")
	}
	if err != nil {
		return nil, storeUnavailable("load post", err)
	}
	return post, nil
}
