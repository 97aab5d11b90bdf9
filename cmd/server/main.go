package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/softdesk/softdesk-api/internal/authz"
	"github.com/softdesk/softdesk-api/internal/config"
	"github.com/softdesk/softdesk-api/internal/constants"
	"github.com/softdesk/softdesk-api/internal/database"
	"github.com/softdesk/softdesk-api/internal/handlers"
	"github.com/softdesk/softdesk-api/internal/middleware"
	"github.com/softdesk/softdesk-api/internal/repository"
	"github.com/softdesk/softdesk-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.MigrateDatabase(database.GetDB()); err != nil {
		log.Fatalf("Failed to add indexes: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize repositories and the membership store
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	issueRepo := repository.NewIssueRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	memberStore := repository.NewMembershipStore(db)

	// The evaluator gates every nested resource route
	evaluator := authz.NewEvaluator(memberStore)

	// Initialize services
	authService := services.NewAuthService(userRepo)
	projectService := services.NewProjectService(projectRepo)
	contributorService := services.NewContributorService(memberStore, userRepo)
	issueService := services.NewIssueService(issueRepo, memberStore)
	commentService := services.NewCommentService(commentRepo, issueRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	projectHandler := handlers.NewProjectHandler(projectService)
	contributorHandler := handlers.NewContributorHandler(contributorService)
	issueHandler := handlers.NewIssueHandler(issueService)
	commentHandler := handlers.NewCommentHandler(commentService)

	authorize := func(action authz.Action, kind authz.ResourceKind) gin.HandlerFunc {
		return middleware.Authorize(evaluator, action, kind)
	}

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "SoftDesk API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth())
		{
			projects.GET("", authorize(authz.ActionList, authz.KindProject), projectHandler.ListProjects)
			projects.POST("", authorize(authz.ActionCreate, authz.KindProject), projectHandler.CreateProject)
			projects.GET("/:project_id", authorize(authz.ActionRetrieve, authz.KindProject), projectHandler.GetProject)
			projects.PUT("/:project_id", authorize(authz.ActionUpdate, authz.KindProject), projectHandler.UpdateProject)
			projects.DELETE("/:project_id", authorize(authz.ActionDelete, authz.KindProject), projectHandler.DeleteProject)

			// Contributors
			projects.GET("/:project_id/users", authorize(authz.ActionList, authz.KindContributor), contributorHandler.ListContributors)
			projects.POST("/:project_id/users", authorize(authz.ActionCreate, authz.KindContributor), contributorHandler.AddContributor)
			projects.GET("/:project_id/users/:user_id", authorize(authz.ActionRetrieve, authz.KindContributor), contributorHandler.GetContributor)
			projects.PUT("/:project_id/users/:user_id", authorize(authz.ActionUpdate, authz.KindContributor), contributorHandler.ChangeRole)
			projects.DELETE("/:project_id/users/:user_id", authorize(authz.ActionDelete, authz.KindContributor), contributorHandler.RemoveContributor)

			// Issues
			projects.GET("/:project_id/issues", authorize(authz.ActionList, authz.KindIssue), issueHandler.ListIssues)
			projects.POST("/:project_id/issues", authorize(authz.ActionCreate, authz.KindIssue), issueHandler.CreateIssue)
			projects.GET("/:project_id/issues/:issue_id", authorize(authz.ActionRetrieve, authz.KindIssue), issueHandler.GetIssue)
			projects.PUT("/:project_id/issues/:issue_id", authorize(authz.ActionUpdate, authz.KindIssue), issueHandler.UpdateIssue)
			projects.DELETE("/:project_id/issues/:issue_id", authorize(authz.ActionDelete, authz.KindIssue), issueHandler.DeleteIssue)

			// Comments
			projects.GET("/:project_id/issues/:issue_id/comments", authorize(authz.ActionList, authz.KindComment), commentHandler.ListComments)
			projects.POST("/:project_id/issues/:issue_id/comments", authorize(authz.ActionCreate, authz.KindComment), commentHandler.CreateComment)
			projects.GET("/:project_id/issues/:issue_id/comments/:comment_id", authorize(authz.ActionRetrieve, authz.KindComment), commentHandler.GetComment)
			projects.PUT("/:project_id/issues/:issue_id/comments/:comment_id", authorize(authz.ActionUpdate, authz.KindComment), commentHandler.UpdateComment)
			projects.DELETE("/:project_id/issues/:issue_id/comments/:comment_id", authorize(authz.ActionDelete, authz.KindComment), commentHandler.DeleteComment)
		}
	}

	// Start server
	log.Printf("Server starting on %s", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
