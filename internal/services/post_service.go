package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/anonto42/snapfeed/backend/internal/models"
	"github.com/anonto42/snapfeed/backend/internal/repositories"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// MediaStore keeps uploaded post images
type MediaStore interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
}

// NewPost is an upload as received from the client
type NewPost struct {
	Filename string
	Data     []byte
	Caption  *string
}

// PostService handles the post lifecycle
type PostService struct {
	posts repositories.PostRepository
	media MediaStore
	log   logrus.FieldLogger
}

// NewPostService creates a new PostService
func NewPostService(posts repositories.PostRepository, media MediaStore, log logrus.FieldLogger) *PostService {
	return &PostService{posts: posts, media: media, log: log}
}

// CreatePost validates the image, uploads it and stores the post row
func (s *PostService) CreatePost(ctx context.Context, author *models.User, in NewPost) (*models.Post, error) {
	if len(in.Data) == 0 {
		return nil, invalidInput(ReasonMissingImage, "image is required")
	}
	if len(in.Data) > models.MaxImageBytes {
		return nil, invalidInput(ReasonImageTooLarge, "image must be 5MB or smaller")
	}
	mtype := mimetype.Detect(in.Data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, invalidInput(ReasonNotAnImage, "file must be an image")
	}
	caption, err := normalizeCaption(in.Caption)
	if err != nil {
		return nil, err
	}

	key := mediaKey(author.ID, in.Filename, mtype)
	url, err := s.media.Upload(ctx, key, mtype.String(), in.Data)
	if err != nil {
		return nil, &Error{Kind: KindStoreUnavailable, Reason: ReasonUploadFailed, Message: "failed to upload image", Err: err}
	}

	post := &models.Post{
		AuthorID: author.ID,
		MediaURL: url,
		MediaKey: key,
		Caption:  caption,
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		if delErr := s.media.Delete(ctx, key); delErr != nil {
			s.log.WithError(delErr).WithField("key", key).Warn("failed to remove orphaned upload")
		}
		return nil, storeUnavailable("create post", err)
	}
	post.Author = *author
	return post, nil
}

// EditPost replaces the caption of a post owned by the actor
func (s *PostService) EditPost(ctx context.Context, actorID, postID uint, caption *string) (*models.Post, error) {
	normalized, err := normalizeCaption(caption)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedPost(ctx, ActionEditPost, actorID, postID); err != nil {
		return nil, err
	}

	post, err := s.posts.UpdateCaption(ctx, postID, normalized)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, notFound(ReasonPostNotFound, "post not found")
	}
	if err != nil {
		return nil, storeUnavailable("update caption", err)
	}
	return post, nil
}

// DeletePost removes a post with its likes and comments, then its image.
// A failed image delete leaves an orphaned object and is only logged.
func (s *PostService) DeletePost(ctx context.Context, actorID, postID uint) error {
	post, err := s.ownedPost(ctx, ActionDeletePost, actorID, postID)
	if err != nil {
		return err
	}

	if err := s.posts.DeletePost(ctx, postID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound(ReasonPostNotFound, "post not found")
		}
		return storeUnavailable("delete post", err)
	}

	if post.MediaKey != "" {
		if err := s.media.Delete(ctx, post.MediaKey); err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"post_id": postID,
				"key":     post.MediaKey,
			}).Warn("failed to delete post media")
		}
	}
	return nil
}

func (s *PostService) ownedPost(ctx context.Context, action Action, actorID, postID uint) (*models.Post, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, notFound(ReasonPostNotFound, "post not found")
	}
	if err != nil {
		return nil, storeUnavailable("load post", err)
	}
	if err := Authorize(action, actorID, post); err != nil {
		return nil, err
	}
	return post, nil
}

// normalizeCaption trims the caption and turns an empty one into nil
func normalizeCaption(caption *string) (*string, error) {
	if caption == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*caption)
	if trimmed == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(trimmed) > models.MaxCaptionLength {
		return nil, invalidInput(ReasonCaptionTooLong, fmt.Sprintf("caption exceeds %d characters", models.MaxCaptionLength))
	}
	return &trimmed, nil
}

// mediaKey prefers the sniffed extension over the client filename
func mediaKey(authorID uint, filename string, mtype *mimetype.MIME) string {
	ext := mtype.Extension()
	if ext == "" {
		ext = strings.ToLower(path.Ext(filename))
	}
	return fmt.Sprintf("posts/%d/%s%s", authorID, uuid.NewString(), ext)
}
