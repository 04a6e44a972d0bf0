package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	httpapi "agencydesk-backend/internal/api/http"
	"agencydesk-backend/internal/config"
	"agencydesk-backend/internal/identity"
	"agencydesk-backend/internal/logger"
	"agencydesk-backend/internal/repository/postgres"
	"agencydesk-backend/internal/security"
	"agencydesk-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting AgencyDesk identity backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "base_url", cfg.Server.BaseURL)
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret)

	// Initialize External Identity Provider
	provider, err := identity.NewFirebaseProvider(context.Background(), cfg.Firebase.CredentialsFile, cfg.Firebase.ProjectID)
	if err != nil {
		logger.Error("Failed to initialize identity provider", "error", err)
		log.Fatalf("Failed to initialize identity provider: %v", err)
	}
	logger.Info("Identity provider initialized", "project", cfg.Firebase.ProjectID)

	// Initialize Email Service
	emailSvc := service.NewEmailService(cfg.Email.APIKey, cfg.Email.FromEmail, cfg.Email.FromName)

	sessionTTL := time.Duration(cfg.JWT.SessionExpiryDays) * 24 * time.Hour
	inviteTTL := time.Duration(cfg.JWT.InviteExpiryDays) * 24 * time.Hour

	// Initialize Services
	authSvc := service.NewAuthService(
		store.MemberRepository,
		store.PortalUserRepository,
		store.ClientRepository,
		store.AuditRepository,
		tokenManager,
		provider,
		sessionTTL,
	)
	inviteSvc := service.NewInviteService(
		store.MemberRepository,
		store.PortalUserRepository,
		store.ClientRepository,
		store.OrganizationRepository,
		store.AuditRepository,
		tokenManager,
		emailSvc,
		cfg.Server.BaseURL,
		inviteTTL,
	)
	memberSvc := service.NewMemberService(store.MemberRepository)
	deletionSvc := service.NewDeletionService(
		store.MemberRepository,
		store.TaskRepository,
		store.ClientRepository,
		store.DeletionRepository,
		provider,
		store,
	)

	// Initialize HTTP handlers
	authMW := httpapi.NewAuthMiddleware(authSvc)
	authHandler := httpapi.NewAuthHandler(authSvc, cfg.Server.EnvProd)
	memberHandler := httpapi.NewMemberHandler(inviteSvc, memberSvc, deletionSvc)
	portalHandler := httpapi.NewPortalHandler(inviteSvc)

	router := httpapi.NewRouter(authMW, authHandler, memberHandler, portalHandler)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server stopped", "error", err)
		log.Fatalf("HTTP server stopped: %v", err)
	}
}
