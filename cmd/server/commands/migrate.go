package commands

import (
	"context"
	"fmt"

	"github.com/anonto42/snapfeed/backend/internal/repositories"
	"github.com/anonto42/snapfeed/backend/pkg/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long: `Create or update the PostgreSQL tables and the MongoDB notification indexes.

Examples:
  snapfeed migrate
  snapfeed migrate --log-level debug`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log := loadConfig()
		db, err := config.InitDB(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer db.CloseDB()
		return migrate(cmd.Context(), db, cfg, log)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func migrate(ctx context.Context, db *config.DB, cfg *config.Config, log logrus.FieldLogger) error {
	if err := repositories.AutoMigrate(db.Postgres); err != nil {
		return fmt.Errorf("failed to auto migrate models: %w", err)
	}
	log.Info("PostgreSQL schema up to date")

	if db.Mongo != nil {
		repo := repositories.NewMongoNotificationRepository(db.Mongo.Database(cfg.MongoDatabase))
		if err := repo.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("failed to create notification indexes: %w", err)
		}
		log.Info("MongoDB indexes up to date")
	}
	return nil
}
