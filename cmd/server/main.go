package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/NIKHILENIGMA/pikzee-sub000/internal/auth"
	"github.com/NIKHILENIGMA/pikzee-sub000/internal/config"
	"github.com/NIKHILENIGMA/pikzee-sub000/internal/handler"
	"github.com/NIKHILENIGMA/pikzee-sub000/internal/middleware"
	"github.com/NIKHILENIGMA/pikzee-sub000/internal/permissions"
	"github.com/NIKHILENIGMA/pikzee-sub000/internal/repository/postgres"
	postgresAssets "github.com/NIKHILENIGMA/pikzee-sub000/internal/repository/postgres/assets"
	serviceAssets "github.com/NIKHILENIGMA/pikzee-sub000/internal/service/assets"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logOut := io.Writer(os.Stdout)
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, 10)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create JWT verifier
	jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Schema migrations (only for self-owned schemas)
	if cfg.OwnSchema() {
		if err := postgres.Migrate(cfg.DatabaseURL, logger); err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}
	}

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Create repositories
	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	assetRepo := postgresAssets.NewAssetRepository(repoConfig)
	projectRepo := postgresAssets.NewProjectRepository(repoConfig)
	memberRepo := postgresAssets.NewMemberRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Role capability matrix
	roleRegistry, err := permissions.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load role matrix: %v", err)
	}

	// Create services
	permissionGate := serviceAssets.NewPermissionGate(projectRepo, memberRepo, roleRegistry, logger)
	assetService := serviceAssets.NewAssetService(assetRepo, permissionGate, txManager, logger)

	// Create handlers
	assetHandler := handler.NewAssetHandler(assetService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check and metrics
	mux.HandleFunc("GET /health", assetHandler.HealthCheck)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Asset routes
	mux.HandleFunc("POST /api/projects/{projectID}/assets", assetHandler.CreateAsset)
	mux.HandleFunc("GET /api/projects/{projectID}/assets", assetHandler.ListAssets)
	mux.HandleFunc("GET /api/projects/{projectID}/assets/{assetID}", assetHandler.GetAsset)
	mux.HandleFunc("PATCH /api/projects/{projectID}/assets/{assetID}", assetHandler.RenameAsset)
	mux.HandleFunc("DELETE /api/projects/{projectID}/assets/{assetID}", assetHandler.DeleteAsset)
	mux.HandleFunc("POST /api/projects/{projectID}/assets/move", assetHandler.MoveAssets)
	mux.HandleFunc("POST /api/projects/{projectID}/assets/copy", assetHandler.CopyAssets)
	mux.HandleFunc("POST /api/projects/{projectID}/assets/{assetID}/uploaded", assetHandler.MarkUploaded)

	// Build middleware chain (applied in reverse order, they wrap each other)
	// Order: CORS → Metrics → Recovery → Auth → Routes
	var httpHandler http.Handler = mux
	httpHandler = middleware.AuthMiddleware(jwtVerifier)(httpHandler)
	httpHandler = middleware.Recovery(logger)(httpHandler)
	httpHandler = middleware.Metrics()(httpHandler)

	// CORS - must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	httpHandler = corsHandler.Handler(httpHandler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
	}()

	logger.Info("server listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server error: %v", err)
	}
}
