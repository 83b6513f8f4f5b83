package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/edumatch/edumatch-backend/internal/cache"
	"github.com/edumatch/edumatch-backend/internal/config"
	"github.com/edumatch/edumatch-backend/internal/db"
	"github.com/edumatch/edumatch-backend/internal/domain/valueobject"
	"github.com/edumatch/edumatch-backend/internal/goroutine"
	httpRouter "github.com/edumatch/edumatch-backend/internal/http/router"
	"github.com/edumatch/edumatch-backend/internal/identity"
	"github.com/edumatch/edumatch-backend/internal/infrastructure/persistence"
	"github.com/edumatch/edumatch-backend/internal/interface/http/handler"
	"github.com/edumatch/edumatch-backend/internal/logger"
	"github.com/edumatch/edumatch-backend/internal/storage"
	"github.com/edumatch/edumatch-backend/internal/usecase/listing"
	"github.com/edumatch/edumatch-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Log.WithError(err).Fatal("main: ошибка загрузки конфигурации")
	}

	if cfg.IsProduction() {
		logger.Init("info")
	} else {
		logger.Init("debug")
		logger.SetTextFormatter()
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL, db.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		ConnectTimeout:  cfg.DBConnectTimeout,
	})
	if err != nil {
		logger.Log.WithError(err).Fatal("main: ошибка подключения к базе")
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		logger.Log.WithError(err).Fatal("main: ошибка миграций")
	}

	checks := map[string]handler.HealthCheck{"database": dbConn.PingContext}

	// Кэш рейтинга: Redis, если задан адрес, иначе память процесса.
	var rankingCache cache.Store
	if cfg.RedisAddr != "" {
		rdb, err := cache.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Log.WithError(err).Fatal("main: ошибка подключения к redis")
		}
		redisStore := cache.NewRedisStore(rdb, "edumatch:")
		defer redisStore.Close()
		rankingCache = redisStore
		checks["cache"] = redisStore.Ping
	} else {
		rankingCache = cache.NewMemoryStore(ctx, time.Minute)
	}

	imageStorage, err := storage.NewImageStorage(cfg.MediaStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		logger.Log.WithError(err).Fatal("main: не удалось подготовить файловое хранилище")
	}

	verifier := identity.NewVerifier(cfg.IdentityJWTSecret, cfg.IdentityIssuer)

	// WebSocket hub для уведомлений о модерации.
	hub := ws.NewHub(ctx)
	goroutine.SafeGo("ws.hub", hub.Run)
	notifier := ws.NewModerationNotifier(hub)

	profileRepo := persistence.NewProfileRepositoryAdapter(dbConn)

	var listingHandlers []*handler.ListingHandler
	for _, kind := range []valueobject.ListingKind{valueobject.ListingKindService, valueobject.ListingKindPost} {
		listingRepo := persistence.NewListingRepositoryAdapter(dbConn, kind)
		listingHandlers = append(listingHandlers, handler.NewListingHandler(kind, handler.ListingUseCases{
			Create:     listing.NewCreateListingUseCase(kind, listingRepo, profileRepo),
			Update:     listing.NewUpdateListingUseCase(kind, listingRepo, rankingCache),
			Get:        listing.NewGetListingUseCase(kind, listingRepo, profileRepo),
			List:       listing.NewListListingsUseCase(kind, listingRepo),
			ListMine:   listing.NewListMyListingsUseCase(listingRepo),
			Popular:    listing.NewPopularListingsUseCase(kind, listingRepo, rankingCache, cfg.PopularCacheTTL),
			Engagement: listing.NewEngagementUseCase(kind, listingRepo),
			Moderation: listing.NewModerationUseCase(kind, listingRepo, profileRepo, notifier, rankingCache),
		}))
	}

	engine := httpRouter.SetupRouter(cfg, verifier, httpRouter.Handlers{
		Listings: listingHandlers,
		Media:    handler.NewMediaHandler(imageStorage),
		WS:       handler.NewWSHandler(hub, verifier, cfg.AllowedOrigins),
		Health:   handler.NewHealthHandler(checks),
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.WithError(err).Error("main: ошибка остановки http сервера")
		}
	}()

	logger.Log.WithField("port", cfg.HTTPPort).Info("main: HTTP сервер запущен")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log.WithError(err).Fatal("main: сервер завершился с ошибкой")
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		logger.Log.WithError(err).Error("main: ошибка закрытия базы")
	}
}
