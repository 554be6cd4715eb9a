package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sman1la/tatib-bot/internal/engine"
	"github.com/sman1la/tatib-bot/internal/handler"
	"github.com/sman1la/tatib-bot/internal/models"
	"github.com/sman1la/tatib-bot/internal/repository"
	"github.com/sman1la/tatib-bot/internal/service"
	"github.com/sman1la/tatib-bot/internal/session"
	"github.com/sman1la/tatib-bot/internal/telegram"
	"github.com/sman1la/tatib-bot/pkg/cache"
	"github.com/sman1la/tatib-bot/pkg/config"
	"github.com/sman1la/tatib-bot/pkg/database"
	"github.com/sman1la/tatib-bot/pkg/logger"
	"github.com/sman1la/tatib-bot/pkg/report"
	"github.com/sman1la/tatib-bot/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zapLogger, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zapLogger.Sync()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		zapLogger.Fatal("load timezone", zap.String("timezone", cfg.Timezone), zap.Error(err))
	}
	now := func() time.Time { return time.Now().In(location) }

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connect postgres", zap.Error(err))
	}
	defer db.Close()

	var sessions session.Store
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			zapLogger.Fatal("connect redis", zap.Error(err))
		}
		defer redisClient.Close()
		sessions = session.NewRedisStore(redisClient, cfg.Session.IdleTTL)
	default:
		sessions = session.NewMemoryStore(cfg.Session.IdleTTL)
	}

	files, err := storage.NewLocalStorage(cfg.Evidence.StorageDir)
	if err != nil {
		zapLogger.Fatal("init evidence storage", zap.Error(err))
	}
	// zero TTL: evidence links on records must stay valid forever
	signer := storage.NewLinkSigner(cfg.Evidence.SigningSecret, 0)
	vault := storage.NewEvidenceVault(files, signer, cfg.Evidence.PublicBaseURL)

	validate := validator.New()
	students := repository.NewStudentRepository(db, validate, zapLogger)
	admins := repository.NewAdminRepository(db)
	types := repository.NewInfractionTypeRepository(db, validate, zapLogger)
	records := repository.NewInfractionLogRepository(db, validate, zapLogger)

	metrics := service.NewMetricsService()
	roster := service.NewRosterService(students, admins, zapLogger)
	infractions := service.NewInfractionService(
		types, records, students, vault,
		service.DuplicateWindow{StartHour: cfg.Duplicate.StartHour, EndHour: cfg.Duplicate.EndHour},
		models.PointBands{
			ModerateMin:   cfg.Points.ModerateMin,
			SevereMin:     cfg.Points.SevereMin,
			VerySevereMin: cfg.Points.VerySevereMin,
		},
		now, zapLogger,
	)
	renderer := report.NewPDFRenderer(cfg.School.Name, cfg.School.Address)
	reports := service.NewReportService(infractions, renderer, now, zapLogger)

	eng := engine.New(cfg, sessions, roster, infractions, reports, metrics, now, zapLogger)

	bot, err := telegram.New(cfg.Bot.Token, cfg.Bot.PollTimeout, eng, metrics, zapLogger)
	if err != nil {
		zapLogger.Fatal("init bot", zap.Error(err))
	}

	router := handler.NewRouter(zapLogger, handler.NewEvidenceHandler(vault, zapLogger), metrics.Registry())
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			zapLogger.Error("bot stopped", zap.Error(err))
			stop()
		}
	}()

	go func() {
		zapLogger.Info("http server listening", zap.Int("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Error("http server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zapLogger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("http shutdown failed", zap.Error(err))
	}
}
