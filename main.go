package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/jobfit/backend/app"
	"github.com/jobfit/backend/auth"
	"github.com/jobfit/backend/config"
	_ "github.com/jobfit/backend/docs"
	"github.com/jobfit/backend/handlers"
	"github.com/jobfit/backend/logger"
	"github.com/jobfit/backend/tools"
)

// @title JobFit API
// @version 1.0
// @description Resume question answering and job posting analysis.

// @host localhost:5002
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load .env file if present (for local development)
	envErr := godotenv.Load()

	// Load configuration
	cfg := config.Load()

	logger.Init(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if envErr != nil {
		logger.Debug().Msg("no .env file found, using environment variables")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("configuration error")
	}

	// Set Gin mode based on debug setting
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	services, err := app.Build(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize services")
	}
	defer services.Close()

	if err := services.Start(ctx); err != nil {
		logger.Error().Err(err).Msg("QA chain is not initialized")
	}

	// Initialize auth services
	jwtService := auth.NewJWTService(cfg)
	var verifier auth.TokenVerifier
	if cfg.GoogleClientID != "" {
		verifier = auth.NewGoogleAuthService(cfg)
	}
	operators := auth.NewOperatorService(cfg, verifier)

	toolRegistry := tools.NewToolRegistry()
	toolRegistry.Register(tools.NewAnalyzeJobTool(services.Analyzer))
	toolRegistry.Register(tools.NewAskResumeTool(services.RAG))
	toolRegistry.Register(tools.NewListDocumentsTool(services.DataDir, services.RAG))

	var archive handlers.Archive
	if services.Archive != nil {
		archive = services.Archive
	}

	router := newRouter(routerDeps{
		cfg:       cfg,
		jobs:      services.Analyzer,
		qa:        services.RAG,
		index:     services.RAG,
		docs:      services.DataDir,
		archive:   archive,
		analyses:  services.Analyses,
		operators: operators,
		jwt:       jwtService,
		registry:  toolRegistry,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().Str("addr", "http://0.0.0.0:"+cfg.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	logger.Info().Msg("server exited gracefully")
}
