package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"agrisense/docs"
	"agrisense/internal/analysis"
	"agrisense/internal/auth"
	"agrisense/internal/cache"
	"agrisense/internal/config"
	"agrisense/internal/db"
	"agrisense/internal/handler"
	"agrisense/internal/inference"
	"agrisense/internal/logging"
	"agrisense/internal/repository"
	"agrisense/internal/router"
	"agrisense/internal/service"
	"agrisense/internal/session"
	"agrisense/internal/telemetry"
	"agrisense/internal/web"
)

// @title AgriSense AI API
// @version 1.0
// @description Crop market analysis with login and query history for admins.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		// No logger yet; the level itself may be what failed.
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}

	os.Exit(serve(cfg, logger))
}

// serve runs the server and returns the process exit code. Deferred cleanup
// in run and the final log flush happen before main exits.
func serve(cfg *config.Config, logger *zap.Logger) int {
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", zap.Error(err))
		return 1
	}
	return 0
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing := telemetry.Setup(ctx, telemetry.Options{
		ServiceName: "agrisense",
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    cfg.OTLPInsecure,
	}, logger)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("tracer shutdown", zap.Error(err))
		}
	}()

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	sessionStore, closeStore, err := newSessionStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	generator, err := inference.New(ctx, cfg)
	if err != nil {
		return err
	}

	// Initialize repositories
	loginRepo := repository.NewLoginLogRepository(gormDB)
	cropRepo := repository.NewCropQueryRepository(gormDB)

	// Initialize auth components
	identity := auth.NewSupabaseClient(auth.SupabaseConfig{URL: cfg.SupabaseURL, APIKey: cfg.SupabaseKey})
	sessions := session.NewManager(sessionStore, auth.NewJWTService(cfg.SessionSecret, cfg.SessionTTL))

	// Initialize services
	historyService := service.NewHistoryService(loginRepo, cropRepo)
	authService := service.NewAuthService(identity, historyService, cfg.AdminPasskey, logger)
	cropService := service.NewCropService(analysis.NewEngine(generator), historyService, logger)

	renderer, err := web.NewRenderer()
	if err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	}

	// Register routes
	router.Register(e, cfg, sessions, router.Handlers{
		Auth:  handler.NewAuthHandler(authService, sessions, cfg.CookieSecure, logger),
		Crop:  handler.NewCropHandler(cropService, sessions, logger),
		Admin: handler.NewAdminHandler(historyService),
		Web:   handler.NewWebHandler(authService, cropService, historyService, sessions, cfg.CookieSecure, logger),
	}, logger)

	addr := ":" + cfg.ServerPort
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening",
			zap.String("addr", addr),
			zap.String("swagger", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html"),
		)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// newSessionStore uses Redis when configured. Keys are scoped to this process
// so a restart begins with no sessions, as with the in-memory store.
func newSessionStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (session.Store, func(), error) {
	if cfg.RedisAddr == "" {
		logger.Info("session store: memory")
		return session.NewMemoryStore(), func() {}, nil
	}

	client := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx); err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	logger.Info("session store: redis", zap.String("addr", cfg.RedisAddr))
	return session.NewRedisStore(client, uuid.NewString()), func() { _ = client.Close() }, nil
}
