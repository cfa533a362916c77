package db

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Driver         string
	Host           string
	Port           string
	User           string
	Password       string
	Name           string
	SSLMode        string
	SQLitePath     string
	ConnectTimeout time.Duration
}

func (c Config) postgresDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.Name,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

type Service struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewService opens the configured database and verifies it answers a ping
// within cfg.ConnectTimeout.
func NewService(ctx context.Context, logg *logger.Logger, cfg Config) (*Service, error) {
	serviceLog := logg.With("service", "DBService", "driver", cfg.Driver)

	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverPostgres, "":
		dialector = postgres.Open(cfg.postgresDSN())
	case DriverSQLite:
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}

	db, err := Open(dialector, NewGormLogger())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", cfg.Driver, err)
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("failed to reach %s within %s: %w", cfg.Driver, timeout, err)
	}
	if cfg.Driver != DriverSQLite {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	serviceLog.Info("Database connected")
	return &Service{db: db, log: serviceLog}, nil
}

// Open applies the gorm settings shared by the service and tests.
func Open(dialector gorm.Dialector, l gormLogger.Interface) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   l,
	})
}

func NewGormLogger() gormLogger.Interface {
	return gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

func (s *Service) DB() *gorm.DB { return s.db }

func (s *Service) AutoMigrate() error {
	return AutoMigrateAll(s.db)
}

func (s *Service) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
