package repositories

import (
	"context"
	"time"

	"github.com/anonto42/snapfeed/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id uint) (*models.Comment, error)
	DeleteComment(ctx context.Context, id uint) error
	ListByPostID(ctx context.Context, postID uint) ([]models.Comment, error)
	RecentByPostIDs(ctx context.Context, postIDs []uint, perPost int) ([]models.Comment, error)
	CountByPostIDs(ctx context.Context, postIDs []uint) (map[uint]int64, error)
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment creates a new comment in PostgreSQL
func (r *PostgresCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	return translate(r.db.WithContext(ctx).Omit("Author", "Post").Create(comment).Error)
}

// GetCommentByID retrieves a comment with its author
func (r *PostgresCommentRepository) GetCommentByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Joins("Author").Where("comments.id = ?", id).First(&comment).Error; err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

// DeleteComment deletes a comment by ID from PostgreSQL
func (r *PostgresCommentRepository) DeleteComment(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByPostID returns every comment of a post, oldest first
func (r *PostgresCommentRepository) ListByPostID(ctx context.Context, postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).Joins("Author").
		Where("comments.post_id = ?", postID).
		Order("comments.created_at ASC").Order("comments.id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, translate(err)
	}
	return comments, nil
}

type recentCommentRow struct {
	ID                uint
	PostID            uint
	AuthorID          uint
	Content           string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	AuthorFirebaseUID string `gorm:"column:author_firebase_uid"`
	AuthorDisplayName string `gorm:"column:author_display_name"`
	AuthorImageURL    string `gorm:"column:author_image_url"`
}

const recentCommentsSQL = `
SELECT id, post_id, author_id, content, created_at, updated_at,
       author_firebase_uid, author_display_name, author_image_url
FROM (
    SELECT c.id, c.post_id, c.author_id, c.content, c.created_at, c.updated_at,
           u.firebase_uid AS author_firebase_uid,
           u.display_name AS author_display_name,
           u.image_url    AS author_image_url,
           ROW_NUMBER() OVER (PARTITION BY c.post_id ORDER BY c.created_at DESC, c.id DESC) AS rn
    FROM comments c
    INNER JOIN users u ON u.id = c.author_id
    WHERE c.post_id IN ?
) ranked
WHERE rn <= ?
ORDER BY post_id, created_at DESC, id DESC`

// RecentByPostIDs returns at most perPost comments for each post, newest first within a post
func (r *PostgresCommentRepository) RecentByPostIDs(ctx context.Context, postIDs []uint, perPost int) ([]models.Comment, error) {
	if len(postIDs) == 0 || perPost <= 0 {
		return nil, nil
	}
	var rows []recentCommentRow
	if err := r.db.WithContext(ctx).Raw(recentCommentsSQL, postIDs, perPost).Scan(&rows).Error; err != nil {
		return nil, translate(err)
	}
	comments := make([]models.Comment, len(rows))
	for i, row := range rows {
		comments[i] = models.Comment{
			ID:        row.ID,
			PostID:    row.PostID,
			AuthorID:  row.AuthorID,
			Content:   row.Content,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
			Author: models.User{
				ID:          row.AuthorID,
				FirebaseUID: row.AuthorFirebaseUID,
				DisplayName: row.AuthorDisplayName,
				ImageURL:    row.AuthorImageURL,
			},
		}
	}
	return comments, nil
}

// CountByPostIDs counts comments per post for the given ids
func (r *PostgresCommentRepository) CountByPostIDs(ctx context.Context, postIDs []uint) (map[uint]int64, error) {
	return countByPost(ctx, r.db, &models.Comment{}, postIDs)
}
