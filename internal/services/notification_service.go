package services

import (
	"context"
	"errors"

	"github.com/anonto42/snapfeed/backend/internal/models"
	"github.com/anonto42/snapfeed/backend/internal/repositories"
	"github.com/sirupsen/logrus"
)

const (
	DefaultNotificationLimit = 20
	MaxNotificationLimit     = 50
)

// NotificationView is a stored notification with the actor's identity
type NotificationView struct {
	models.Notification
	Actor *models.UserCompact `json:"actor,omitempty"`
}

// NotificationPage is one page of a recipient's notifications, newest first
type NotificationPage struct {
	Notifications []NotificationView
	Page          int
	Limit         int
	Total         int64
}

// NotificationService lists and acknowledges a recipient's notifications
type NotificationService struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
	log           logrus.FieldLogger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notifications repositories.NotificationRepository, users repositories.UserRepository, log logrus.FieldLogger) *NotificationService {
	return &NotificationService{notifications: notifications, users: users, log: log}
}

// List returns the recipient's notifications. Actors that cannot be loaded are left out of the view.
func (s *NotificationService) List(ctx context.Context, recipientID uint, page, limit int) (*NotificationPage, error) {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 || limit > MaxNotificationLimit {
		limit = DefaultNotificationLimit
	}

	items, total, err := s.notifications.GetByRecipientID(ctx, recipientID, page, limit)
	if err != nil {
		return nil, storeUnavailable("list notifications", err)
	}

	actors := make(map[uint]*models.UserCompact)
	views := make([]NotificationView, len(items))
	for i, n := range items {
		views[i] = NotificationView{Notification: n}
		actor, seen := actors[n.ActorID]
		if !seen {
			user, err := s.users.GetUserByID(ctx, n.ActorID)
			if err != nil {
				if !errors.Is(err, repositories.ErrNotFound) {
					s.log.WithError(err).WithField("actor_id", n.ActorID).Warn("failed to load notification actor")
				}
			} else {
				compact := user.ToCompact()
				actor = &compact
			}
			actors[n.ActorID] = actor
		}
		views[i].Actor = actor
	}

	return &NotificationPage{Notifications: views, Page: page, Limit: limit, Total: total}, nil
}

// MarkRead flags a notification owned by the recipient as read
func (s *NotificationService) MarkRead(ctx context.Context, recipientID uint, id string) error {
	err := s.notifications.MarkAsRead(ctx, id, recipientID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrInvalidIdentifier), errors.Is(err, repositories.ErrNotFound):
		return notFound(ReasonNotificationNotFound, "notification not found")
	}
	return storeUnavailable("mark notification read", err)
}
