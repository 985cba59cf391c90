package repositories

import (
	"context"
	"time"

	"github.com/anonto42/snapfeed/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id uint) (*models.Post, error)
	GetPostsPage(ctx context.Context, authorID *uint, offset, limit int) ([]models.Post, error)
	UpdateCaption(ctx context.Context, id uint, caption *string) (*models.Post, error)
	DeletePost(ctx context.Context, id uint) error
	CountByAuthor(ctx context.Context, authorID uint) (int64, error)
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

// CreatePost inserts the post row only; the author is expected to exist already
func (r *PostgresPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error)
}

// GetPostByID retrieves a post joined with its author
func (r *PostgresPostRepository) GetPostByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Joins("Author").Where("posts.id = ?", id).First(&post).Error
	if err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

// GetPostsPage returns posts newest first, ties broken by id, optionally for one author
func (r *PostgresPostRepository) GetPostsPage(ctx context.Context, authorID *uint, offset, limit int) ([]models.Post, error) {
	var posts []models.Post
	q := r.db.WithContext(ctx).Joins("Author")
	if authorID != nil {
		q = q.Where("posts.author_id = ?", *authorID)
	}
	err := q.Order("posts.created_at DESC").Order("posts.id DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, translate(err)
	}
	return posts, nil
}

// UpdateCaption sets or clears the caption and returns the updated post
func (r *PostgresPostRepository) UpdateCaption(ctx context.Context, id uint, caption *string) (*models.Post, error) {
	res := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Updates(map[string]interface{}{
		"caption":    caption,
		"updated_at": time.Now(),
	})
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetPostByID(ctx, id)
}

// DeletePost removes the post together with its likes and comments
func (r *PostgresPostRepository) DeletePost(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	return translate(err)
}

func (r *PostgresPostRepository) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, translate(err)
}
