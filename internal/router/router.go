package router

import (
	"github.com/anonto42/snapfeed/backend/internal/handlers"
	"github.com/anonto42/snapfeed/backend/internal/middleware"
	"github.com/anonto42/snapfeed/backend/internal/notifications"
	"github.com/anonto42/snapfeed/backend/internal/repositories"
	"github.com/anonto42/snapfeed/backend/internal/services"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Dependencies are the external collaborators the routes are built from
type Dependencies struct {
	Postgres  *gorm.DB
	Mongo     *mongo.Database // nil disables notifications
	Verifier  middleware.IDTokenVerifier
	Media     services.MediaStore
	JWTSecret string
	Log       logrus.FieldLogger
}

// SetupRoutes wires repositories, services and handlers. The returned func stops
// background workers and must be called on shutdown.
func SetupRoutes(e *echo.Echo, deps Dependencies) func() {
	log := deps.Log

	e.GET("/health", handlers.HealthCheck)

	// --- Repositories ---
	userRepo := repositories.NewPostgresUserRepository(deps.Postgres)
	postRepo := repositories.NewPostgresPostRepository(deps.Postgres)
	likeRepo := repositories.NewPostgresLikeRepository(deps.Postgres)
	commentRepo := repositories.NewPostgresCommentRepository(deps.Postgres)
	followRepo := repositories.NewPostgresFollowRepository(deps.Postgres)

	// --- Notifications ---
	publisher := notifications.Discard
	shutdown := func() {}
	var notificationSvc *services.NotificationService
	if deps.Mongo != nil {
		notificationRepo := repositories.NewMongoNotificationRepository(deps.Mongo)
		dispatcher := notifications.NewDispatcher(notificationRepo, log.WithField("component", "notifications"), 0)
		publisher = dispatcher
		shutdown = dispatcher.Close
		notificationSvc = services.NewNotificationService(notificationRepo, userRepo, log)
	}

	// --- Services ---
	accountSvc := services.NewAccountService(userRepo, postRepo, followRepo, log)
	feedSvc := services.NewFeedService(userRepo, postRepo, likeRepo, commentRepo, log.WithField("component", "feed"))
	postSvc := services.NewPostService(postRepo, deps.Media, log.WithField("component", "posts"))
	engagementSvc := services.NewEngagementService(userRepo, postRepo, likeRepo, commentRepo, followRepo, publisher, log)

	authenticator := middleware.NewAuthenticator(deps.JWTSecret, deps.Verifier, log)
	auth := handlers.RouteAuth{
		Required: authenticator.Required(),
		Optional: authenticator.Optional(),
	}

	api := e.Group("/api")

	handlers.NewAuthHandler(accountSvc, deps.Verifier, deps.JWTSecret, log).RegisterAuthRoutes(api)
	handlers.NewFeedHandler(feedSvc, accountSvc).RegisterFeedRoutes(api, auth)
	handlers.NewPostHandler(postSvc, accountSvc).RegisterPostRoutes(api, auth)
	handlers.NewLikeHandler(engagementSvc, accountSvc).RegisterLikeRoutes(api, auth)
	handlers.NewCommentHandler(engagementSvc, accountSvc).RegisterCommentRoutes(api, auth)
	handlers.NewFollowHandler(engagementSvc, accountSvc).RegisterFollowRoutes(api, auth)
	handlers.NewUserHandler(accountSvc).RegisterUserRoutes(api, auth)
	if notificationSvc != nil {
		handlers.NewNotificationHandler(notificationSvc, accountSvc).RegisterNotificationRoutes(api, auth)
	}

	log.WithField("notifications", notificationSvc != nil).Info("routes configured")
	return shutdown
}
