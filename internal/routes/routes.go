package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/tripforge/tripforge/internal/app/domain"
	"github.com/tripforge/tripforge/internal/app/domain/auth"
	"github.com/tripforge/tripforge/internal/app/domain/comments"
	"github.com/tripforge/tripforge/internal/app/domain/locations"
	"github.com/tripforge/tripforge/internal/app/domain/polls"
	"github.com/tripforge/tripforge/internal/app/domain/preferences"
	"github.com/tripforge/tripforge/internal/app/domain/rsvp"
	"github.com/tripforge/tripforge/internal/app/domain/suggestions"
	"github.com/tripforge/tripforge/internal/app/domain/summary"
	"github.com/tripforge/tripforge/internal/app/domain/trips"
	"github.com/tripforge/tripforge/internal/pkg/ai"
	"github.com/tripforge/tripforge/internal/pkg/config"
)

type AppHandlers struct {
	Auth        *auth.Handler
	Preferences *preferences.Handler
	Trips       *trips.Handler
	Locations   *locations.Handler
	RSVP        *rsvp.Handler
	Comments    *comments.Handler
	Polls       *polls.Handler
	Summary     *summary.Handler
	Suggestions *suggestions.Handler
}

// Setup wires repositories, services and handlers onto the router.
func Setup(r *gin.Engine, dbPool *pgxpool.Pool, cfg *config.Config, log *zap.Logger) (*trips.ServiceImpl, error) {
	handlers, jwtService, tripService, err := setupDependencies(dbPool, cfg, log)
	if err != nil {
		return nil, err
	}
	setupRouter(r, handlers, jwtService)
	return tripService, nil
}

func setupDependencies(dbPool *pgxpool.Pool, cfg *config.Config, log *zap.Logger) (*AppHandlers, *auth.JWTService, *trips.ServiceImpl, error) {
	baseHandler := domain.NewBaseHandler(log)

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       cfg.Auth.JWTSecret,
		TokenExpiration: time.Duration(cfg.Auth.TokenExpiryHrs) * time.Hour,
		Logger:          log,
	})

	aiClient, err := ai.NewOpenRouterClient(cfg.OpenRouter, log)
	if err != nil {
		return nil, nil, nil, err
	}

	// Repositories
	authRepo := auth.NewRepositoryImpl(dbPool, log)
	prefRepo := preferences.NewRepositoryImpl(dbPool, log)
	tripRepo := trips.NewRepositoryImpl(dbPool, log)
	locationRepo := locations.NewRepositoryImpl(dbPool, log)
	rsvpRepo := rsvp.NewRepositoryImpl(dbPool, log)
	commentRepo := comments.NewRepositoryImpl(dbPool, log)
	pollRepo := polls.NewRepositoryImpl(dbPool, log)
	summaryRepo := summary.NewRepositoryImpl(dbPool, log)

	// Services
	authService := auth.NewServiceImpl(authRepo, jwtService, log)
	prefService := preferences.NewServiceImpl(prefRepo, log)
	locationService := locations.NewServiceImpl(locationRepo, log)
	tripService := trips.NewServiceImpl(tripRepo, locationService, log)
	rsvpService := rsvp.NewServiceImpl(rsvpRepo, log)
	commentService := comments.NewServiceImpl(commentRepo, log)
	pollService := polls.NewServiceImpl(pollRepo, log)
	summaryService := summary.NewServiceImpl(summaryRepo, rsvpService, prefService, log)
	suggestionService := suggestions.NewServiceImpl(prefService, tripService, summaryService, aiClient, log)

	handlers := &AppHandlers{
		Auth:        auth.NewHandler(baseHandler, authService),
		Preferences: preferences.NewHandler(baseHandler, prefService),
		Trips:       trips.NewHandler(baseHandler, tripService),
		Locations:   locations.NewHandler(baseHandler, locationService),
		RSVP:        rsvp.NewHandler(baseHandler, rsvpService),
		Comments:    comments.NewHandler(baseHandler, commentService),
		Polls:       polls.NewHandler(baseHandler, pollService),
		Summary:     summary.NewHandler(baseHandler, summaryService),
		Suggestions: suggestions.NewHandler(baseHandler, suggestionService),
	}

	return handlers, jwtService, tripService, nil
}

func setupRouter(r *gin.Engine, h *AppHandlers, jwtService *auth.JWTService) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
	}

	protected := api.Group("/")
	protected.Use(auth.JWTAuthMiddleware(jwtService))
	{
		protected.GET("/auth/me", h.Auth.Me)
		protected.PUT("/auth/me", h.Auth.UpdateProfile)

		users := protected.Group("/users/:userId")
		{
			users.POST("/preferences", h.Preferences.Create)
			users.PUT("/preferences", h.Preferences.Upsert)
			users.GET("/preferences", h.Preferences.Get)
			users.DELETE("/preferences", h.Preferences.Delete)

			users.GET("/trips", h.Trips.ListForUser)
			users.GET("/past-trips", h.Trips.PastForUser)
			users.GET("/rsvps", h.RSVP.ListForUser)

			users.POST("/suggestions", h.Suggestions.SuggestForUser)
			users.POST("/trip-ideas", h.Suggestions.SuggestTripIdeas)
		}

		protected.POST("/trips", h.Trips.Create)
		protected.GET("/trips", h.Trips.List)

		trip := protected.Group("/trips/:tripId")
		{
			trip.GET("", h.Trips.Get)
			trip.DELETE("", h.Trips.Delete)
			trip.GET("/times", h.Trips.GetTimes)
			trip.PUT("/estimated-time", h.Trips.UpdateEstimatedTime)
			trip.PUT("/status", h.Trips.UpdateStatus)

			trip.POST("/locations", h.Trips.AddLocation)
			trip.GET("/locations", h.Locations.ListForTrip)
			trip.DELETE("/locations/:locationId", h.Trips.RemoveLocation)
			trip.PUT("/location-order", h.Trips.SetLocationOrder)

			trip.PUT("/rsvp", h.RSVP.Respond)
			trip.DELETE("/rsvp", h.RSVP.Withdraw)
			trip.GET("/rsvps", h.RSVP.ListForTrip)
			trip.GET("/attendees", h.RSVP.Attendees)

			trip.POST("/comments", h.Comments.Create)
			trip.GET("/comments", h.Comments.ListForTrip)

			trip.POST("/polls", h.Polls.Create)
			trip.GET("/polls", h.Polls.ListForTrip)

			trip.PUT("/preference-summary", h.Summary.Recompute)
			trip.GET("/preference-summary", h.Summary.Get)

			trip.POST("/suggestions", h.Suggestions.SuggestForTrip)
		}

		protected.POST("/locations", h.Locations.Save)
		protected.GET("/locations", h.Locations.FindByPlaceID)
		protected.GET("/locations/:locationId", h.Locations.Get)

		protected.PUT("/polls/:pollId/vote", h.Polls.Vote)
		protected.DELETE("/polls/:pollId", h.Polls.Delete)

		protected.DELETE("/comments/:commentId", h.Comments.Delete)
	}
}
