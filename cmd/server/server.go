package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"stylist-server/internal/config"
	"stylist-server/internal/domain/ingest"
	"stylist-server/internal/domain/wardrobe"
	"stylist-server/internal/infrastructure/auth"
	"stylist-server/internal/infrastructure/classifier"
	"stylist-server/internal/infrastructure/database"
	"stylist-server/internal/infrastructure/logger"
	"stylist-server/internal/infrastructure/observability"
	looksrepo "stylist-server/internal/infrastructure/repository/looks"
	usersrepo "stylist-server/internal/infrastructure/repository/users"
	wardroberepo "stylist-server/internal/infrastructure/repository/wardrobe"
	"stylist-server/internal/infrastructure/storage"
	"stylist-server/internal/interfaces/httpserver"
)

type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := database.Connect(database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if err := database.AutoMigrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	backend, err := newStorageBackend(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize storage")
	}

	classifierClient := classifier.NewClient(cfg.ClassifierURL, cfg.ClassifierTimeout, log)

	itemRepository := wardroberepo.NewRepository(db)
	userRepository := usersrepo.NewRepository(db)
	lookRepository := looksrepo.NewRepository(db)

	scraper := ingest.NewScraper(cfg.PageFetchTimeout, cfg.MaxImageBytes, log)
	downloader := ingest.NewDownloader(cfg.DownloadTimeout, cfg.MaxImageBytes, log)
	ingestService := ingest.NewService(
		scraper,
		downloader,
		backend,
		classifierClient,
		itemRepository,
		cfg.VariantSize,
		cfg.MaxImageBytes,
		cfg.IngestDeadline,
		log,
	)
	wardrobeService := wardrobe.NewService(itemRepository, userRepository, lookRepository, backend, log)

	authValidator := auth.NewValidator(cfg.JWTSecretKey, log)

	httpServer := httpserver.New(cfg, log, ingestService, wardrobeService, authValidator, backend, db)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func newStorageBackend(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storage.Backend, error) {
	if cfg.IsLocalStorage() {
		return storage.NewLocalStorage(cfg, log)
	}
	return storage.NewS3Storage(ctx, cfg, log)
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
