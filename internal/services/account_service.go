package services

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/anonto42/snapfeed/backend/internal/models"
	"github.com/anonto42/snapfeed/backend/internal/repositories"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const MaxSearchResults = 20

// Identity is what the identity provider asserts about a caller
type Identity struct {
	UID         string
	DisplayName string
	Email       string
	PictureURL  string
}

// ProfileView is the public profile of an account. IsFollowing and IsOwnProfile
// are only set when a viewer is known.
type ProfileView struct {
	User         *models.User     `json:"user"`
	Stats        models.UserStats `json:"stats"`
	IsFollowing  *bool            `json:"isFollowing,omitempty"`
	IsOwnProfile *bool            `json:"isOwnProfile,omitempty"`
}

// AccountService syncs accounts from the identity provider and serves profiles
type AccountService struct {
	users   repositories.UserRepository
	posts   repositories.PostRepository
	follows repositories.FollowRepository
	log     logrus.FieldLogger
}

// NewAccountService creates a new AccountService
func NewAccountService(
	users repositories.UserRepository,
	posts repositories.PostRepository,
	follows repositories.FollowRepository,
	log logrus.FieldLogger,
) *AccountService {
	return &AccountService{users: users, posts: posts, follows: follows, log: log}
}

// SyncAccount creates the account on first sign-in and refreshes its display fields afterwards
func (s *AccountService) SyncAccount(ctx context.Context, id Identity) (*models.User, error) {
	if id.UID == "" {
		return nil, &Error{Kind: KindUnauthorized, Reason: ReasonUnauthorized, Message: "missing identity"}
	}
	name := strings.TrimSpace(id.DisplayName)
	if name == "" {
		name = displayNameFromEmail(id.Email)
	}

	user, err := s.users.GetUserByFirebaseUID(ctx, id.UID)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		user = &models.User{
			FirebaseUID: id.UID,
			DisplayName: name,
			Email:       id.Email,
			ImageURL:    id.PictureURL,
		}
		if err := s.users.CreateUser(ctx, user); err != nil {
			if !errors.Is(err, repositories.ErrDuplicate) {
				return nil, storeUnavailable("create account", err)
			}
			// a concurrent sign-in created it first
			existing, err := s.users.GetUserByFirebaseUID(ctx, id.UID)
			if err != nil {
				return nil, storeUnavailable("load account", err)
			}
			user = existing
		} else {
			s.log.WithField("user_id", user.ID).Info("account created")
		}
		return user, nil
	case err != nil:
		return nil, storeUnavailable("load account", err)
	}

	if user.DisplayName == name && user.Email == id.Email && user.ImageURL == id.PictureURL {
		return user, nil
	}
	user.DisplayName = name
	user.Email = id.Email
	user.ImageURL = id.PictureURL
	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, storeUnavailable("update account", err)
	}
	return user, nil
}

// ResolveCaller maps a verified Firebase UID onto its account
func (s *AccountService) ResolveCaller(ctx context.Context, uid string) (*models.User, error) {
	if uid == "" {
		return nil, &Error{Kind: KindUnauthorized, Reason: ReasonUnauthorized, Message: "authentication required"}
	}
	user, err := s.users.GetUserByFirebaseUID(ctx, uid)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, notFound(ReasonAccountNotFound, "account not found")
	}
	if err != nil {
		return nil, storeUnavailable("resolve caller", err)
	}
	return user, nil
}

// Search matches display names case-insensitively. A blank query matches nothing.
func (s *AccountService) Search(ctx context.Context, query string) ([]models.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.User{}, nil
	}
	users, err := s.users.SearchUsers(ctx, query, MaxSearchResults)
	if err != nil {
		return nil, storeUnavailable("search users", err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// Profile looks the account up by external id, then by numeric id
func (s *AccountService) Profile(ctx context.Context, idOrExternal string, viewerID *uint) (*ProfileView, error) {
	user, err := s.lookup(ctx, idOrExternal)
	if err != nil {
		return nil, err
	}

	view := &ProfileView{User: user}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.posts.CountByAuthor(gctx, user.ID)
		view.Stats.Posts = n
		return err
	})
	g.Go(func() error {
		n, err := s.follows.GetFollowersCount(gctx, user.ID)
		view.Stats.Followers = n
		return err
	})
	g.Go(func() error {
		n, err := s.follows.GetFollowingCount(gctx, user.ID)
		view.Stats.Following = n
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, storeUnavailable("load profile stats", err)
	}

	if viewerID != nil {
		own := *viewerID == user.ID
		following := false
		if !own {
			following, err = s.follows.IsFollowing(ctx, *viewerID, user.ID)
			if err != nil {
				return nil, storeUnavailable("check follow", err)
			}
		}
		view.IsOwnProfile = &own
		view.IsFollowing = &following
	}
	return view, nil
}

func (s *AccountService) lookup(ctx context.Context, idOrExternal string) (*models.User, error) {
	user, err := s.users.GetUserByFirebaseUID(ctx, idOrExternal)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, storeUnavailable("load user", err)
	}

	id, parseErr := strconv.ParseUint(idOrExternal, 10, 64)
	if parseErr != nil || id == 0 {
		return nil, notFound(ReasonUserNotFound, "user not found")
	}
	user, err = s.users.GetUserByID(ctx, uint(id))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, notFound(ReasonUserNotFound, "user not found")
	}
	if err != nil {
		return nil, storeUnavailable("load user", err)
	}
	return user, nil
}

func displayNameFromEmail(email string) string {
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return "user"
}
