package main

import (
	"github.com/krwhynot/kitchen-pantry-crm-sub006/internal/audit"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/internal/handler"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/internal/identity"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/internal/middleware"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/internal/model"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/internal/ratelimit"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/internal/repository"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/internal/schema"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/pkg/config"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/pkg/database"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/pkg/jwtutil"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/pkg/logger"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	log, err := logger.Init(logger.Options{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: "kitchen-pantry-crm",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer log.Sync()
	log.Info("Starting CRM service...", cfg.LogConfig()...)

	// Initialize database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	if err := database.Migrate(db,
		&model.User{},
		&model.Organization{},
		&model.Contact{},
		&model.Interaction{},
		&model.Opportunity{},
		&model.Product{},
		&model.AuditEvent{},
	); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database migrations applied")

	// Initialize JWT utility
	jwt := jwtutil.New(&cfg.JWT)

	// Initialize Prometheus metrics
	prometheus.Init(cfg)
	log.Info("Prometheus metrics initialized")

	// Stores
	userStore := repository.NewUserStore(db)
	orgStore := repository.NewOrganizationStore(db)
	contactStore := repository.NewContactStore(db)
	interactionStore := repository.NewInteractionStore(db)
	opportunityStore := repository.NewOpportunityStore(db)
	productStore := repository.NewProductStore(db)

	// Audit trail
	recorder := audit.NewRecorder(audit.NewStore(db), log, cfg.Audit)

	// Token verification - local JWT parsing by default, remote
	// introspection when an identity provider endpoint is configured
	var verifier identity.TokenVerifier
	switch cfg.Auth.Provider {
	case "remote":
		verifier = identity.NewRemoteVerifier(cfg.Auth.IntrospectionURL, cfg.Auth.ClientID, cfg.Auth.ClientSecret, log)
		log.Info("Using remote token introspection", zap.String("url", cfg.Auth.IntrospectionURL))
	default:
		verifier = identity.NewJWTVerifier(jwt)
	}
	authn := middleware.NewAuthenticator(verifier, userStore, cfg.Auth.VerifyTimeout, recorder)

	// Rate limiters - login throttling runs inside the auth handler so
	// it can key on both IP and email, the API limiter is plain per-IP
	var loginLimiter *ratelimit.LoginLimiter
	var apiLimiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		loginLimiter = ratelimit.NewLoginLimiter(
			cfg.RateLimit.LoginIPLimit, cfg.RateLimit.LoginIPWindow,
			cfg.RateLimit.LoginEmailLimit, cfg.RateLimit.LoginEmailWindow,
		)
		apiLimiter = ratelimit.New(cfg.RateLimit.APILimit, cfg.RateLimit.APIWindow)
	}

	// Handlers
	authHandler := handler.NewAuthHandler(userStore, jwt, loginLimiter, recorder)
	orgHandler := handler.NewOrganizationHandler(orgStore, recorder)
	contactHandler := handler.NewContactHandler(contactStore, recorder)
	interactionHandler := handler.NewInteractionHandler(interactionStore, recorder)
	opportunityHandler := handler.NewOpportunityHandler(opportunityStore, recorder)
	productHandler := handler.NewProductHandler(productStore, recorder)
	userHandler := handler.NewUserHandler(userStore, recorder)

	// Initialize Echo framework
	e := echo.New()
	e.Validator = schema.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Authentication routes - these don't belong under /api since they're for getting access to the API
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// API routes
	api := e.Group("/api")
	api.Use(middleware.RateLimit(apiLimiter))

	// Role sets per operation class. Reads are open to every
	// authenticated role, so read routes carry no role gate.
	writeRoles := []model.Role{model.RoleAdmin, model.RoleManager, model.RoleSalesRep}
	deleteRoles := []model.Role{model.RoleAdmin, model.RoleManager}

	// Caller's own account
	profile := api.Group("/users", authn.Required())
	profile.GET("/profile", authHandler.Profile)
	profile.PATCH("/profile", authHandler.UpdateProfile)
	profile.POST("/change-password", authHandler.ChangePassword)

	// User management - admin only
	users := api.Group("/users", authn.Required(), authn.RequireRole(model.RoleAdmin))
	users.POST("", userHandler.Create)
	users.GET("", userHandler.List)
	users.GET("/:id", userHandler.Get)
	users.PATCH("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)

	// Organizations
	orgs := api.Group("/organizations", authn.Required())
	orgs.GET("", orgHandler.List)
	orgs.GET("/:id", orgHandler.Get)
	orgs.POST("", orgHandler.Create, authn.RequireRole(writeRoles...))
	orgs.PATCH("/:id", orgHandler.Update, authn.RequireRole(writeRoles...))
	orgs.DELETE("/:id", orgHandler.Delete, authn.RequireRole(deleteRoles...))

	// Contacts
	contacts := api.Group("/contacts", authn.Required())
	contacts.GET("", contactHandler.List)
	contacts.GET("/:id", contactHandler.Get)
	contacts.POST("", contactHandler.Create, authn.RequireRole(writeRoles...))
	contacts.PATCH("/:id", contactHandler.Update, authn.RequireRole(writeRoles...))
	contacts.DELETE("/:id", contactHandler.Delete, authn.RequireRole(deleteRoles...))

	// Interactions
	interactions := api.Group("/interactions", authn.Required())
	interactions.GET("", interactionHandler.List)
	interactions.GET("/:id", interactionHandler.Get)
	interactions.POST("", interactionHandler.Create, authn.RequireRole(writeRoles...))
	interactions.PATCH("/:id", interactionHandler.Update, authn.RequireRole(writeRoles...))
	interactions.DELETE("/:id", interactionHandler.Delete, authn.RequireRole(deleteRoles...))

	// Opportunities
	opportunities := api.Group("/opportunities", authn.Required())
	opportunities.GET("", opportunityHandler.List)
	opportunities.GET("/:id", opportunityHandler.Get)
	opportunities.POST("", opportunityHandler.Create, authn.RequireRole(writeRoles...))
	opportunities.PATCH("/:id", opportunityHandler.Update, authn.RequireRole(writeRoles...))
	opportunities.DELETE("/:id", opportunityHandler.Delete, authn.RequireRole(deleteRoles...))

	// Products - the catalog is readable without a token, writes are
	// gated like every other entity
	products := api.Group("/products", authn.Optional())
	products.GET("", productHandler.List)
	products.GET("/:id", productHandler.Get)

	productAdmin := api.Group("/products", authn.Required())
	productAdmin.POST("", productHandler.Create, authn.RequireRole(writeRoles...))
	productAdmin.PATCH("/:id", productHandler.Update, authn.RequireRole(writeRoles...))
	productAdmin.DELETE("/:id", productHandler.Delete, authn.RequireRole(deleteRoles...))

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
