package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/data/db"
	httpx "github.com/yungbote/coursehub-backend/internal/http"
	"github.com/yungbote/coursehub-backend/internal/http/response"
	"github.com/yungbote/coursehub-backend/internal/observability"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Repos    Repos
	Services Services
	Server   *httpx.Server

	dbService     *db.Service
	clients       Clients
	shutdownTrace func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	log.Info("Config loaded", "env", cfg.Env, "port", cfg.Port, "db_driver", cfg.DB.Driver)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	response.SetDevelopment(cfg.Env == envDevelopment)

	shutdownTrace := observability.InitOTel(ctx, log, cfg.Otel)

	dbService, err := db.NewService(ctx, log, cfg.DB)
	if err != nil {
		_ = shutdownTrace(ctx)
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := dbService.AutoMigrate(); err != nil {
		_ = dbService.Close()
		_ = shutdownTrace(ctx)
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	theDB := dbService.DB()

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		_ = dbService.Close()
		_ = shutdownTrace(ctx)
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, clients)
	handlerset := wireHandlers(log, theDB, serviceset)
	middleware := wireMiddleware(log, serviceset)
	server := wireServer(log, cfg, handlerset, middleware)

	return &App{
		Log:           log,
		DB:            theDB,
		Cfg:           cfg,
		Repos:         reposet,
		Services:      serviceset,
		Server:        server,
		dbService:     dbService,
		clients:       clients,
		shutdownTrace: shutdownTrace,
	}, nil
}

// Run blocks until ctx is cancelled or the listener fails.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return errors.New("app not initialized")
	}
	return a.Server.Run(ctx)
}

func (a *App) Close(ctx context.Context) {
	if a == nil {
		return
	}
	a.clients.Close()
	if a.dbService != nil {
		if err := a.dbService.Close(); err != nil {
			a.Log.Warn("close database", "error", err)
		}
	}
	if a.shutdownTrace != nil {
		if err := a.shutdownTrace(ctx); err != nil {
			a.Log.Warn("shutdown tracing", "error", err)
		}
	}
	a.Log.Sync()
}
