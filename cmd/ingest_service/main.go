package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "video_ingest_service/cmd/ingest_service/docs" // 引入 Swagger 文件
	"video_ingest_service/internal/ingest/api/handlers"
	"video_ingest_service/internal/ingest/api/router"
	"video_ingest_service/internal/ingest/app"
	"video_ingest_service/pkg/config"
	"video_ingest_service/pkg/logger"
	"video_ingest_service/pkg/logsink"
	testtool "video_ingest_service/pkg/test_tool"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.IngestService, config.EnvConfig.IngestLogPath)
	defer logger.Log.Sync()

	cfg := config.MustLoadConfig[config.Ingest](config.EnvConfig.IngestService, config.EnvConfig.IngestYAMLPath)
	if config.EnvConfig.IngestPort != "" {
		cfg.Port = config.EnvConfig.IngestPort
	}
	if err := cfg.Validate(); err != nil {
		logger.Log.Fatal("config check failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpClient := &http.Client{Timeout: 30 * time.Second}

	// 1. object store
	store, err := newObjectStore(ctx, cfg.ObjectStore)
	if err != nil {
		logger.Log.Fatal("Unable to connect to object store after retries",
			zap.String("driver", cfg.ObjectStore.Driver),
			zap.String("endpoint", cfg.ObjectStore.Endpoint),
			zap.Error(err),
		)
	}

	// 2. metadata stores
	primary, err := newPrimary(cfg.Primary, httpClient)
	if err != nil {
		logger.Log.Fatal("Unable to build primary metadata store", zap.String("driver", cfg.Primary.Driver), zap.Error(err))
	}

	mirror, closeMirror, err := newMirror(ctx, cfg.Mirror, httpClient)
	if err != nil {
		logger.Log.Fatal("Unable to build mirror metadata store", zap.String("driver", cfg.Mirror.Driver), zap.Error(err))
	}
	defer closeMirror()

	// 3. transcription + log sink
	transcription := newTranscription(cfg.Transcription, httpClient)

	sink, err := logsink.NewFromConfig(cfg.LogSink, httpClient)
	if err != nil {
		logger.Log.Fatal("Unable to build log sink", zap.String("driver", cfg.LogSink.Driver), zap.Error(err))
	}
	defer sink.Close()

	usecase := app.NewIngestUseCase(store, primary, mirror, transcription, sink, app.Options{
		KeyPrefix:    cfg.KeyPrefix,
		PublicHost:   cfg.PublicHost,
		CallbackURL:  cfg.Transcription.CallbackURL,
		MirrorStrict: cfg.Mirror.Strict,
	})

	// 4. fiber
	r := fiber.New(fiber.Config{
		BodyLimit:             bodyLimit(cfg.BodyLimitMB),
		DisableStartupMessage: config.IsProduction(),
	})
	r.Use(recover.New())

	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.IngestLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	r.Use(fiber_log.New(fiber_log.Config{
		Output: file,
	}))

	var jwtSecret []byte
	if cfg.Auth.Enabled {
		jwtSecret = []byte(cfg.Auth.JWTSecret)
	}
	router.RegisterRoutes(r, handlers.NewIngestHandler(usecase, cfg.RequestTimeout), jwtSecret)

	testtool.StartPprof()

	go func() {
		<-ctx.Done()
		logger.Log.Info("shutting down ingest service")
		if err := r.ShutdownWithTimeout(30 * time.Second); err != nil {
			logger.Log.Error("shutdown failed", zap.Error(err))
		}
	}()

	logger.Log.Info("ingest service listening", zap.String("port", cfg.Port))
	if err := r.Listen(":" + cfg.Port); err != nil {
		logger.Log.Fatal("Server failed to start", zap.Error(err))
	}
}

func bodyLimit(mb int) int {
	if mb <= 0 {
		return 512 * 1024 * 1024
	}
	return mb * 1024 * 1024
}
