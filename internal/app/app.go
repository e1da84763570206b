// Package app wires configuration into the running dependency graph shared
// by the api and admin binaries.
package app

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"store-rating/internal/core/auth"
	"store-rating/internal/core/cache"
	"store-rating/internal/core/config"
	"store-rating/internal/core/database"
	"store-rating/internal/core/logger"
	"store-rating/internal/repo"
	"store-rating/internal/service"
	"store-rating/internal/transport/http/router"
)

// Logger builds the process logger from cfg.Log, rotating to a file when
// configured, and redirects the standard library logger into it.
func Logger(cfg config.Log) (*zap.Logger, func()) {
	var (
		l       *zap.Logger
		cleanup func()
	)
	if cfg.File.Enable {
		l, cleanup = logger.NewWithRotate(cfg.Level, cfg.JSON, logger.FileRotate{
			Enable:     true,
			Filename:   cfg.File.Filename,
			MaxSizeMB:  cfg.File.MaxSizeMB,
			MaxBackups: cfg.File.MaxBackups,
			MaxAgeDays: cfg.File.MaxAgeDays,
			Compress:   cfg.File.Compress,
		})
	} else {
		l, cleanup = logger.New(cfg.Level, cfg.JSON)
	}
	undo := logger.RedirectStdLog(l, zapcore.InfoLevel)
	return l, func() { undo(); cleanup() }
}

func OpenDB(cfg config.DB, l *zap.Logger) (*gorm.DB, error) {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.Driver,
		DSN:                cfg.DSN,
		Username:           cfg.Username,
		Password:           cfg.Password,
		MaxOpenConns:       cfg.MaxOpenConns,
		MaxIdleConns:       cfg.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.ConnMaxLifetimeMin,
		LogLevel:           cfg.LogLevel,
		LogWriter:          logger.ToWriter(l.Named("gorm"), zapcore.WarnLevel),
	})
	if err != nil {
		return nil, err
	}
	l.Info("database connected", zap.String("driver", cfg.Driver))
	if cfg.AutoMigrate {
		if err := database.Migrate(db, repo.Models()...); err != nil {
			return nil, err
		}
		l.Info("automigrate done")
	}
	return db, nil
}

// roleCache connects redis when enabled. An unreachable redis is logged and
// skipped: role lookups then always hit the database.
func roleCache(cfg config.Redis, l *zap.Logger) (service.RoleCache, func()) {
	if !cfg.Enabled {
		return nil, func() {}
	}
	c := cache.New(cfg.Addr, cfg.Password, cfg.DB)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		l.Warn("redis unavailable, role cache disabled", zap.String("addr", cfg.Addr), zap.Error(err))
		_ = c.Close()
		return nil, func() {}
	}
	l.Info("redis connected", zap.String("addr", cfg.Addr))
	ttl := time.Duration(cfg.RoleTTLSec) * time.Second
	return cache.NewRoleCache(c, ttl), func() { _ = c.Close() }
}

// Build opens every backing resource and returns the router dependencies.
// The returned func releases them.
func Build(cfg *config.Config, l *zap.Logger) (router.Deps, func(), error) {
	db, err := OpenDB(cfg.DB, l)
	if err != nil {
		return router.Deps{}, nil, errors.Wrap(err, "open database")
	}
	rc, closeCache := roleCache(cfg.Redis, l)

	svcs := service.New(repo.NewUnitOfWork(db), rc, l)
	deps := router.Deps{
		Log:      l,
		Services: svcs,
		JWT:      &auth.JWTer{Secret: []byte(cfg.JWT.Secret), Issuer: cfg.JWT.Issuer},
		Limits:   cfg.Limits,
	}
	closeAll := func() {
		closeCache()
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return deps, closeAll, nil
}
