package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/rentr/api/internal/config"
	"github.com/rentr/api/internal/database"
	apierrors "github.com/rentr/api/internal/errors"
	"github.com/rentr/api/internal/handlers"
	"github.com/rentr/api/internal/logger"
	"github.com/rentr/api/internal/middleware"
	"github.com/rentr/api/internal/repository"
	"github.com/rentr/api/internal/scoring"
	"github.com/rentr/api/internal/services"
)

const (
	shutdownTimeout   = 30 * time.Second
	readHeaderTimeout = 10 * time.Second
)

func newServeCmd(a *app) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context(), migrate)
		},
	}

	cmd.Flags().String("port", "", "port to listen on (env PORT)")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before serving")
	_ = a.v.BindPFlag("PORT", cmd.Flags().Lookup("port"))

	return cmd
}

// routes groups the handlers the router exposes.
type routes struct {
	health          *handlers.HealthHandler
	scores          *handlers.ScoreHandler
	matches         *handlers.MatchHandler
	recommendations *handlers.RecommendationHandler
}

func (a *app) serve(parent context.Context, migrate bool) error {
	cfg, log := a.cfg, a.log

	log.Info("Starting Rentr API", map[string]interface{}{
		"version":     version,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
	})

	engine, err := newScoringEngine(cfg.Scoring, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		log.Error("Failed to connect to database", err, map[string]interface{}{
			"host": cfg.Database.Host,
			"port": cfg.Database.Port,
			"name": cfg.Database.Name,
		})
		return err
	}
	defer db.Close()

	log.Info("Database connection established", map[string]interface{}{
		"host":     cfg.Database.Host,
		"database": cfg.Database.Name,
		"pool_min": cfg.Database.PoolMin,
		"pool_max": cfg.Database.PoolMax,
	})

	if migrate {
		if err := database.Migrate(ctx, db.Pool, log.Component("migrate")); err != nil {
			return err
		}
	}

	scoreRepo := repository.NewScoreRepository(db)
	preferenceRepo := repository.NewPreferenceRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)

	scoreService := services.NewScoreService(scoreRepo, engine, log.Component("scores"))
	matchService := services.NewMatchService(scoreRepo, preferenceRepo, propertyRepo, engine,
		cfg.Scoring.CandidateLimit, log.Component("matches"))
	recommendationService := services.NewRecommendationService(scoreService, engine, log.Component("recommendations"))
	policy := services.NewAccessPolicy(applicationRepo, log.Component("access"))

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := newRouter(cfg, log, routes{
		health:          handlers.NewHealthHandler(db, cfg.Server.Env),
		scores:          handlers.NewScoreHandler(scoreService, policy),
		matches:         handlers.NewMatchHandler(matchService, policy),
		recommendations: handlers.NewRecommendationHandler(recommendationService, policy),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server listening", map[string]interface{}{
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			log.Error("Server failed", err, nil)
			return err
		}
	case <-ctx.Done():
	}

	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
		return err
	}

	log.Info("Server exited", nil)
	return nil
}

// newScoringEngine builds the engine from defaults or the configured file.
func newScoringEngine(cfg config.ScoringConfig, log *logger.Logger) (*scoring.Engine, error) {
	scoringCfg := scoring.DefaultConfig()
	if cfg.ConfigPath != "" {
		loaded, err := scoring.LoadConfigFile(cfg.ConfigPath)
		if err != nil {
			log.Error("Failed to load scoring config", err, map[string]interface{}{
				"path": cfg.ConfigPath,
			})
			return nil, err
		}
		scoringCfg = loaded
		log.Info("Loaded scoring config", map[string]interface{}{
			"path": cfg.ConfigPath,
		})
	}
	return scoring.NewEngine(scoringCfg)
}

// newRouter assembles middleware and routes.
// Order: RequestID, Logger, Recovery, CORS, Identity, RateLimit.
func newRouter(cfg *config.Config, log *logger.Logger, r routes) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS.Origins))
	router.Use(middleware.Identity())

	router.GET("/health", r.health.Health)
	router.GET("/health/ready", r.health.Ready)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)

	api := router.Group("/api")
	api.Use(middleware.RateLimit(limiter, apierrors.RateLimited))
	{
		api.GET("/info", r.health.Info)

		protected := api.Group("")
		protected.Use(middleware.RequireIdentity(apierrors.MissingIdentity))
		{
			tenantScores := protected.Group("/tenant-scores")
			{
				tenantScores.GET("/me", r.scores.GetMine)
				tenantScores.POST("/me/default", r.scores.CreateDefault)
				tenantScores.GET("/:tenantId", r.scores.Get)
				tenantScores.PUT("/:tenantId", r.scores.Update)
				tenantScores.GET("/:tenantId/property-matches", r.matches.PropertyMatches)
			}

			protected.GET("/score-improvement-recommendations/:userId", r.recommendations.ForUser)
		}
	}

	return router
}
