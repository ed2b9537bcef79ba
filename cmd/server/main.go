package main

import (
	"context"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/classifieds-moderation/internal/app"
	"github.com/ignatzorin/classifieds-moderation/internal/catalog"
	"github.com/ignatzorin/classifieds-moderation/internal/config"
	"github.com/ignatzorin/classifieds-moderation/internal/db"
	"github.com/ignatzorin/classifieds-moderation/internal/goroutine"
	"github.com/ignatzorin/classifieds-moderation/internal/http/middleware"
	"github.com/ignatzorin/classifieds-moderation/internal/infrastructure/memory"
	"github.com/ignatzorin/classifieds-moderation/internal/infrastructure/messaging"
	"github.com/ignatzorin/classifieds-moderation/internal/infrastructure/persistence"
	"github.com/ignatzorin/classifieds-moderation/internal/infrastructure/telegram"
	"github.com/ignatzorin/classifieds-moderation/internal/logger"
	"github.com/ignatzorin/classifieds-moderation/internal/metrics"
	"github.com/ignatzorin/classifieds-moderation/internal/notify"
	"github.com/ignatzorin/classifieds-moderation/internal/service"
	"github.com/ignatzorin/classifieds-moderation/internal/ws"
	"github.com/ignatzorin/classifieds-moderation/migrations"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	logger.Init(cfg.LogLevel)
	if !cfg.IsProduction() {
		logger.SetTextFormatter()
	}
	log := logger.L()

	registry, err := catalog.Load(cfg.CategoryCatalogPath)
	if err != nil {
		log.Fatalf("main: ошибка загрузки каталога категорий: %v", err)
	}

	storage, closeStorage := openStorage(ctx, cfg)
	defer closeStorage()

	// Получатели событий модерации.
	m := metrics.New(cfg.MetricsNamespace)
	hub := ws.NewHub()
	goroutine.SafeGoWithContext(ctx, hub.Run)

	events := notify.NewFanout(m, hub)

	if cfg.NATSURL != "" {
		nc, err := messaging.NewNATSConnection(cfg.NATSURL)
		if err != nil {
			log.Fatalf("main: %v", err)
		}
		defer func() {
			if err := nc.Drain(); err != nil {
				log.WithError(err).Warn("main: ошибка закрытия NATS")
			}
		}()
		events.Add(messaging.NewNATSPublisher(nc, cfg.NATSSubjectPrefix))
		log.WithField("url", cfg.NATSURL).Info("main: события публикуются в NATS")
	}

	if cfg.TelegramEnabled() {
		b, err := telegram.NewBot(cfg.TelegramBotToken)
		if err != nil {
			// лог-канал необязателен
			log.WithError(err).Warn("main: Telegram бот недоступен, лог-канал отключён")
		} else {
			events.Add(telegram.NewNotifier(b, cfg.TelegramChannelID))
			log.WithField("channel_id", cfg.TelegramChannelID).Info("main: лог-канал Telegram включён")
		}
	}

	limiterStore, closeLimiter, err := middleware.NewLimiterStore(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("main: %v", err)
	}
	defer func() { _ = closeLimiter() }()

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)

	application := app.New(app.Options{
		Config:       cfg,
		Storage:      storage,
		Catalog:      registry,
		Events:       events,
		Tokens:       tokenManager,
		LimiterStore: limiterStore,
		Hub:          hub,
		Metrics:      m,
	})

	goroutine.SafeGoWithContext(ctx, func(ctx context.Context) {
		application.RunExpirySweeper(ctx, cfg.ExpirySweepInterval)
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           application.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	goroutine.SafeGo(func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("main: ошибка остановки http сервера")
		}
	})

	log.WithField("port", cfg.HTTPPort).WithField("storage", cfg.StorageDriver).Info("main: HTTP сервер запущен")

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// openStorage выбирает драйвер хранилища и выполняет миграции для PostgreSQL.
func openStorage(ctx context.Context, cfg *config.Config) (app.Storage, func()) {
	if cfg.StorageDriver == config.StorageMemory {
		logger.L().Warn("main: используется хранилище в памяти, данные не сохраняются между запусками")
		store := memory.NewStore()
		return app.Storage{
			Driver:      config.StorageMemory,
			Tx:          store,
			Listings:    memory.NewListingRepository(store),
			Reports:     memory.NewReportRepository(store),
			Transitions: memory.NewTransitionRepository(store),
			Owners:      memory.NewOwnerDirectory(),
			Pinger:      store,
		}, func() {}
	}

	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.L().Fatalf("main: ошибка подключения к базе: %v", err)
	}

	var migrationsFS fs.FS = migrations.FS
	if cfg.MigrationsPath != "" {
		migrationsFS = os.DirFS(cfg.MigrationsPath)
	}
	if err := db.RunMigrations(ctx, dbConn, migrationsFS); err != nil {
		logger.L().Fatalf("main: ошибка миграций: %v", err)
	}

	tx := persistence.NewTransactor(dbConn)
	return app.Storage{
		Driver:      config.StoragePostgres,
		Tx:          tx,
		Listings:    persistence.NewListingRepository(dbConn, tx),
		Reports:     persistence.NewReportRepository(dbConn, tx),
		Transitions: persistence.NewTransitionRepository(dbConn),
		Owners:      persistence.NewOwnerDirectory(dbConn),
		Pinger:      dbConn,
	}, func() { safeClose(dbConn) }
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		logger.L().WithError(err).Error("main: ошибка закрытия базы")
	}
}
