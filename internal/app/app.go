// Package app wires configuration into the running components shared by
// the API, admin and CLI binaries.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"studio-marketplace/internal/core/auth"
	"studio-marketplace/internal/core/cache"
	"studio-marketplace/internal/core/config"
	"studio-marketplace/internal/core/database"
	"studio-marketplace/internal/core/logger"
	"studio-marketplace/internal/identity"
	"studio-marketplace/internal/payment"
	"studio-marketplace/internal/repo"
	"studio-marketplace/internal/service"
	"studio-marketplace/internal/transport/http/handler"
	mdw "studio-marketplace/internal/transport/http/middleware"
	"studio-marketplace/internal/transport/http/router"
)

type App struct {
	Cfg       *config.Config
	Log       *zap.Logger
	DB        *gorm.DB
	Store     *repo.Store
	Cache     *cache.Cache
	JWT       *auth.JWTer
	Identity  identity.Provider
	Processor payment.Processor
	Services  *service.Services

	sigHeader string
}

// New opens the database and builds every service. Call Close when done.
func New(ctx context.Context, cfg *config.Config, l *zap.Logger) (*App, error) {
	a := &App{Cfg: cfg, Log: l}

	gl, err := logger.ToStdLogger(l, zapcore.WarnLevel)
	if err != nil {
		return nil, err
	}
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Logger:             gl,
		SlowThreshold:      time.Duration(cfg.DB.SlowThresholdMs) * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	a.DB = db
	a.Store = repo.NewStore(db)
	if err := a.Store.Ping(ctx); err != nil {
		a.Close()
		return nil, err
	}
	l.Info("database connected", zap.String("driver", cfg.DB.Driver), zap.String("dsn", database.MaskDSN(cfg.DB.DSN)))

	if cfg.DB.AutoMigrate {
		if err := a.Store.Migrate(ctx); err != nil {
			a.Close()
			return nil, err
		}
		l.Info("automigrate done")
	}

	if cfg.Cache.Enable {
		a.Cache = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Cache.Prefix, l.Named("cache"))
		if err := a.Cache.Ping(ctx); err != nil {
			// listings still work without redis
			l.Warn("redis unreachable, serving uncached", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
	}

	a.JWT = &auth.JWTer{Secret: []byte(cfg.JWT.Secret), Issuer: cfg.JWT.Issuer, TTL: cfg.JWT.TTL()}

	switch cfg.Identity.Provider {
	case "casdoor":
		cd := cfg.Identity.Casdoor
		a.Identity = identity.NewCasdoor(identity.CasdoorConfig{
			Endpoint: cd.Endpoint, ClientID: cd.ClientID, ClientSecret: cd.ClientSecret,
			Certificate: cd.Certificate, Organization: cd.Organization, Application: cd.Application,
		})
	default:
		a.Identity = identity.NewHMAC(cfg.Identity.Secret, cfg.Identity.Issuer)
	}

	switch cfg.Payment.Provider {
	case "stripe":
		a.Processor = payment.NewStripe(cfg.Payment.SecretKey, cfg.Payment.WebhookSecret, nil)
		a.sigHeader = payment.SignatureHeader
	default:
		a.Processor = payment.NewLocal(cfg.Payment.WebhookSecret)
		a.sigHeader = payment.LocalSignatureHeader
	}
	l.Info("providers ready", zap.String("identity", cfg.Identity.Provider), zap.String("payment", cfg.Payment.Provider))

	a.Services = service.New(service.Deps{
		Store:     a.Store,
		Cache:     a.Cache,
		CacheTTL:  cfg.Cache.TTL(),
		Log:       l,
		Processor: a.Processor,
		Currency:  cfg.Payment.Currency,
		EnrollOn:  service.EnrollChannel(cfg.Payment.EnrollOn),
	})
	return a, nil
}

// Modules returns every HTTP module; each engine mounts the surfaces it serves.
func (a *App) Modules() *router.Registry {
	perMin := a.Cfg.Limits.ContactPerMinute
	if perMin <= 0 {
		perMin = 5
	}
	return router.NewRegistry(
		&handler.Session{Identity: a.Identity, Users: a.Services.Users, JWT: a.JWT, Log: a.Log},
		&handler.Portfolio{Svc: a.Services.Portfolio, Log: a.Log},
		&handler.Course{Svc: a.Services.Courses, Log: a.Log},
		&handler.Contact{
			Svc:         a.Services.Contacts,
			Log:         a.Log,
			SubmitLimit: mdw.RateLimitPerIP(rate.Every(time.Minute/time.Duration(perMin)), perMin, 10*time.Minute),
		},
		&handler.Checkout{
			Purchases:       a.Services.Purchases,
			Enrollments:     a.Services.Enrollments,
			Log:             a.Log,
			SignatureHeader: a.sigHeader,
		},
	)
}

func (a *App) RouterDeps() router.Deps {
	lim := a.Cfg.Limits
	health := map[string]router.Pinger{"db": a.Store}
	if a.Cache != nil {
		health["redis"] = a.Cache
	}
	return router.Deps{
		JWT:    a.JWT,
		Actors: a.Services.Users,
		Limits: router.Limits{
			RatePerSec:     lim.RatePerSec,
			Burst:          lim.Burst,
			MaxConcurrent:  lim.MaxConcurrent,
			MaxBodyBytes:   lim.MaxBodyBytes,
			RequestTimeout: time.Duration(lim.RequestTimeoutSec) * time.Second,
		},
		Origins: a.Cfg.App.AllowedOrigins,
		Health:  health,
		Modules: a.Modules(),
	}
}

func (a *App) Close() {
	if a.Cache != nil {
		_ = a.Cache.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

// Logger builds the process logger from config, rotating to file when enabled.
func Logger(cfg *config.Config) (*zap.Logger, func()) {
	r := cfg.Log.Rotate
	return logger.Build(logger.Options{
		Level:       cfg.Log.Level,
		JSON:        cfg.Log.JSON,
		AddCaller:   true,
		Development: !cfg.Log.JSON,
		Rotate: logger.FileRotate{
			Enable: r.Enable, Filename: r.Filename, MaxSizeMB: r.MaxSizeMB,
			MaxBackups: r.MaxBackups, MaxAgeDays: r.MaxAgeDays, Compress: r.Compress,
		},
	})
}
