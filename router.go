package main

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/jobfit/backend/auth"
	"github.com/jobfit/backend/config"
	"github.com/jobfit/backend/handlers"
	"github.com/jobfit/backend/logger"
	"github.com/jobfit/backend/mcp"
	"github.com/jobfit/backend/storage"
	"github.com/jobfit/backend/tools"
)

// routerDeps are the services the HTTP routes are built on
type routerDeps struct {
	cfg       *config.Config
	jobs      handlers.JobAnalyzer
	qa        handlers.QuestionAnswerer
	index     handlers.ResumeIndex
	docs      *storage.DataDir
	archive   handlers.Archive
	analyses  storage.AnalysisStore
	operators operatorAccounts
	jwt       *auth.JWTService
	registry  *tools.ToolRegistry
}

// operatorAccounts logs operators in and checks the operator list on every request
type operatorAccounts interface {
	handlers.OperatorAuthenticator
	auth.OperatorChecker
}

func newRouter(d routerDeps) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	// Add middleware
	router.Use(handlers.Recovery())
	router.Use(logger.GinLogger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     d.cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: !containsWildcard(d.cfg.CORSOrigins),
		MaxAge:           12 * time.Hour,
	}))

	router.NoRoute(handlers.NotFound)
	router.NoMethod(handlers.MethodNotAllowed)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	pageHandler := handlers.NewPageHandler(d.cfg.TemplatesDir, d.index)
	jobHandler := handlers.NewJobHandler(d.jobs)
	askHandler := handlers.NewAskHandler(d.qa, d.cfg.PlayfulResponses)
	documentHandler := handlers.NewDocumentHandler(d.docs, d.index, d.archive)
	analysesHandler := handlers.NewAnalysesHandler(d.analyses)
	authHandler := handlers.NewAuthHandler(d.operators, d.jwt)

	router.GET("/", pageHandler.Index)
	router.GET("/health", pageHandler.Health)
	router.POST("/analyze-job", jobHandler.AnalyzeJob)
	router.POST("/ask", askHandler.Ask)
	router.StaticFS("/data", http.Dir(d.docs.Dir()))

	api := router.Group("/api")
	{
		// Auth endpoints (public)
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/google", authHandler.GoogleLogin)
			authGroup.GET("/me", auth.AuthMiddleware(d.jwt), authHandler.Me)
		}

		api.POST("/analyze-jobs", jobHandler.AnalyzeJobs)
		api.GET("/analyses", analysesHandler.ListAnalyses)
		api.GET("/analyses/:id", analysesHandler.GetAnalysis)

		api.GET("/documents", documentHandler.ListDocuments)

		// Corpus management requires an operator token
		operator := api.Group("")
		operator.Use(auth.AuthMiddleware(d.jwt), auth.RequireOperator(d.operators))
		{
			operator.POST("/documents", documentHandler.UploadDocument)
			operator.DELETE("/documents/:name", documentHandler.DeleteDocument)
			operator.POST("/reindex", documentHandler.Reindex)
		}

		// Tools introspection endpoint
		api.GET("/tools", handlers.GetTools(d.registry))

		// MCP endpoints for external AI agents
		mcp.NewServer(d.registry).RegisterRoutes(api)
	}

	return router
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
