package main

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/suteetoe/helpdesk/internal/handler"
	"github.com/suteetoe/helpdesk/internal/middleware"
	"github.com/suteetoe/helpdesk/internal/service"
	"github.com/suteetoe/helpdesk/internal/store"
	"github.com/suteetoe/helpdesk/pkg/config"
	"github.com/suteetoe/helpdesk/pkg/database"
	"github.com/suteetoe/helpdesk/pkg/hasher"
	"github.com/suteetoe/helpdesk/pkg/jwtutil"
	"github.com/suteetoe/helpdesk/pkg/logger"
	"github.com/suteetoe/helpdesk/prometheus"
)

func main() {
	// Load configuration from .env file and environment variables. A missing
	// JWT signing key fails here, before anything listens.
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	if err := logger.InitLogger(cfg); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	log.Info("Starting helpdesk service...", cfg.LogConfig()...)

	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	db := database.GetDB()

	// Stores
	users := store.NewUserStore(db)
	tenants := store.NewTenantStore(db)
	departments := store.NewDepartmentStore(db)
	categories := store.NewCategoryStore(db)
	articles := store.NewArticleStore(db)

	// Identity core
	passwords := hasher.New(10)
	tokens := jwtutil.New(&cfg.JWT)
	authService := service.NewAuthService(users, tenants, passwords, tokens, log)
	userService := service.NewUserService(users, tenants, passwords, log)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService, departments)
	tenantHandler := handler.NewTenantHandler(tenants, users)
	departmentHandler := handler.NewDepartmentHandler(departments, articles)
	knowledgeHandler := handler.NewKnowledgeHandler(categories, articles)

	e := echo.New()
	e.HideBanner = true

	// Global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware())

	// Public routes
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.Metrics)

	// Authentication routes
	auth := e.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authHandler.Me, middleware.Auth(tokens))

	// API routes - all require a valid token carrying a tenant binding
	api := e.Group("/api")
	api.Use(middleware.Auth(tokens))
	api.Use(middleware.RequireTenantContext)

	apiUsers := api.Group("/users")
	apiUsers.GET("", userHandler.List)
	apiUsers.POST("", userHandler.Create)
	apiUsers.GET("/:id", userHandler.Get)
	apiUsers.PATCH("/:id", userHandler.Update)
	apiUsers.DELETE("/:id", userHandler.Delete)
	apiUsers.POST("/:id/change-password", userHandler.ChangePassword)
	apiUsers.GET("/:id/departments", userHandler.ListDepartments)
	apiUsers.POST("/:id/departments", userHandler.AssignDepartment)
	apiUsers.DELETE("/:id/departments/:department_id", userHandler.UnassignDepartment)

	apiTenants := api.Group("/tenants")
	apiTenants.POST("", tenantHandler.Create)
	apiTenants.GET("", tenantHandler.List)
	apiTenants.GET("/:id", tenantHandler.Get)
	apiTenants.PATCH("/:id", tenantHandler.Update)
	apiTenants.DELETE("/:id", tenantHandler.Delete)

	apiDepartments := api.Group("/departments")
	apiDepartments.GET("", departmentHandler.List)
	apiDepartments.POST("", departmentHandler.Create)
	apiDepartments.GET("/:id", departmentHandler.Get)
	apiDepartments.PATCH("/:id", departmentHandler.Update)
	apiDepartments.DELETE("/:id", departmentHandler.Delete)
	apiDepartments.GET("/:id/articles", departmentHandler.ListArticles)
	apiDepartments.POST("/:id/articles", departmentHandler.AttachArticle)
	apiDepartments.DELETE("/:id/articles/:article_id", departmentHandler.DetachArticle)

	apiCategories := api.Group("/categories")
	apiCategories.GET("", knowledgeHandler.ListCategories)
	apiCategories.POST("", knowledgeHandler.CreateCategory)
	apiCategories.GET("/:id", knowledgeHandler.GetCategory)
	apiCategories.PATCH("/:id", knowledgeHandler.UpdateCategory)
	apiCategories.DELETE("/:id", knowledgeHandler.DeleteCategory)

	apiArticles := api.Group("/articles")
	apiArticles.GET("", knowledgeHandler.ListArticles)
	apiArticles.POST("", knowledgeHandler.CreateArticle)
	apiArticles.GET("/:id", knowledgeHandler.GetArticle)
	apiArticles.PATCH("/:id", knowledgeHandler.UpdateArticle)
	apiArticles.DELETE("/:id", knowledgeHandler.DeleteArticle)

	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
