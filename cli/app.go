package cli

import (
	"context"
	"fmt"

	"resume-penelitian/config"
	"resume-penelitian/logger"
	"resume-penelitian/repositories"
	"resume-penelitian/services"
	"resume-penelitian/sessions"
	"resume-penelitian/storage"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// app holds every handle a command needs. Nothing here is global.
type app struct {
	cfg      *config.Config
	db       *gorm.DB
	redis    *redis.Client
	store    *storage.ResearchStore
	sessions *sessions.Service

	authService     services.AuthService
	researchService services.ResearchService
	reportService   services.ReportService
}

func newApp(ctx context.Context, opts *RootOptions) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	logger.Init(cfg.LogLevel)

	db, err := config.InitDB(cfg.Database)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, db: db}

	backup, err := newBackupSink(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.store = storage.NewResearchStore(cfg.Storage.ResearchFile, backup)

	var sessionRepo sessions.Repository = sessions.NewMemoryRepository()
	if cfg.Redis.Enabled() {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := a.redis.Ping(ctx).Err(); err != nil {
			a.Close()
			return nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
		}
		sessionRepo = sessions.NewRedisRepository(a.redis, "")
		logger.Infof("sessions stored in redis at %s", cfg.Redis.Addr)
	}
	a.sessions = sessions.NewService(sessionRepo, cfg.Session.TTL)

	userRepo := repositories.NewUserRepository(db)
	a.authService = services.NewAuthService(userRepo, a.sessions, cfg.JWT.Secret, cfg.JWT.Expiration)
	a.researchService = services.NewResearchService(a.store)
	a.reportService = services.NewReportService(repositories.NewReportRepository(db), userRepo)

	return a, nil
}

// newBackupSink always keeps local backups and adds MinIO when configured.
func newBackupSink(cfg *config.Config) (storage.BackupSink, error) {
	local := storage.NewLocalBackup(cfg.Storage.BackupDir)
	if !cfg.MinIO.Enabled() {
		return local, nil
	}
	remote, err := storage.NewMinIOBackup(cfg.MinIO)
	if err != nil {
		return nil, err
	}
	logger.Infof("research backups mirrored to minio bucket %s", cfg.MinIO.Bucket)
	return storage.MultiBackup{local, remote}, nil
}

func (a *app) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			logger.Warnf("close redis: %v", err)
		}
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	logger.Sync()
}
