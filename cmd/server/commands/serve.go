package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/snapfeed/backend/internal/handlers"
	"github.com/anonto42/snapfeed/backend/internal/router"
	"github.com/anonto42/snapfeed/backend/internal/storage"
	"github.com/anonto42/snapfeed/backend/pkg/config"
	"github.com/anonto42/snapfeed/backend/pkg/firebase"
	"github.com/anonto42/snapfeed/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
)

const shutdownTimeout = 10 * time.Second

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(parent context.Context) error {
	cfg, log := loadConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.InitDB(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize databases: %w", err)
	}
	defer db.CloseDB()

	if cfg.AutoMigrate {
		if err := migrate(ctx, db, cfg, log); err != nil {
			return err
		}
	}

	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, cfg.FirebaseStorageBucket)
	if err != nil {
		return fmt.Errorf("failed to initialize Firebase: %w", err)
	}
	log.Info("Firebase auth and storage initialized")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = handlers.ErrorHandler(log)
	config.SetupMiddleware(e, log)

	var mongoDB *mongo.Database
	if db.Mongo != nil {
		mongoDB = db.Mongo.Database(cfg.MongoDatabase)
	}
	closeRoutes := router.SetupRoutes(e, router.Dependencies{
		Postgres:  db.Postgres,
		Mongo:     mongoDB,
		Verifier:  firebaseApp.AuthClient,
		Media:     storage.NewBucketStore(firebaseApp.Bucket, firebaseApp.BucketName),
		JWTSecret: cfg.JWTSecret,
		Log:       log,
	})
	defer closeRoutes()

	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Port).Info("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
