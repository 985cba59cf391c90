package repositories

import (
	"github.com/anonto42/snapfeed/backend/internal/models"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates the relational schema. Likes, comments and follows
// carry ON DELETE CASCADE foreign keys to their parents.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Like{},
		&models.Comment{},
		&models.Follow{},
	)
}
