package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"adoptions/internal/config"
	"adoptions/internal/extract"
	"adoptions/internal/handler"
	"adoptions/internal/logger"
	"adoptions/internal/metrics"
	"adoptions/internal/parser"
	_ "adoptions/internal/parser/claude"
	_ "adoptions/internal/parser/gemini"
	_ "adoptions/internal/parser/openai"
	"adoptions/internal/port"
	"adoptions/internal/repository"
	"adoptions/internal/repository/memory"
	"adoptions/internal/repository/postgres"
	"adoptions/internal/repository/redis"
	"adoptions/internal/repository/sqlite"
	"adoptions/internal/router"
	"adoptions/internal/service"
	s3storage "adoptions/internal/storage/s3"
	"adoptions/internal/validator"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "adoptions: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Initialize the key-value backend and record store
	kv, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = kv.Close() }()
	records := repository.NewRecordStore(kv, cfg.Store.RecordKey, m)

	// Initialize storage
	var objects port.ObjectStorage
	if cfg.S3.Enabled() {
		objects, err = s3storage.NewS3Client(ctx, &cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		log.Info("object storage enabled", zap.String("bucket", cfg.S3.Bucket))
	}

	// Initialize parsers
	analyzer := parser.NewAnalyzer(cfg.Parser, buildFallback(cfg, log), log)
	extractor := extract.NewExtractor(cfg.Extractor, nil, log)

	// Initialize services
	settingsSvc := service.NewSettingsService(kv, service.SettingsDefaults{
		Provider:  cfg.Parser.DefaultProvider,
		Model:     cfg.Parser.DefaultModel,
		Providers: parser.Providers(),
	}, analyzer.HasFallback(), log)

	maxFileSize := cfg.Extractor.MaxFileSizeBytes()
	queue := service.NewProcessingQueue(extractor, analyzer, settingsSvc, service.ProcessingQueueConfig{
		ItemDelay:   cfg.Queue.ItemDelay,
		Concurrency: cfg.Queue.Concurrency,
		MaxFileSize: maxFileSize,
	}, m, log)
	review := service.NewReviewWorkflow(queue, records, validator.NewEngine(nil), log)
	uploadSvc := service.NewUploadService(queue, objects, &cfg.S3, maxFileSize, log)
	recordSvc := service.NewRecordService(records, log)
	dashboardSvc := service.NewDashboardService(records, kv)

	// Initialize handlers and router
	r := router.Setup(cfg, router.Handlers{
		Queue:     handler.NewQueueHandler(queue, uploadSvc, maxFileSize, log),
		Review:    handler.NewReviewHandler(review),
		Records:   handler.NewRecordHandler(recordSvc),
		Dashboard: handler.NewDashboardHandler(dashboardSvc),
		Settings:  handler.NewSettingsHandler(settingsSvc),
		Health:    handler.NewHealthHandler(kv),
	}, reg, log)

	srv := &http.Server{
		Addr:        cfg.Server.Port,
		Handler:     r,
		ReadTimeout: cfg.Server.ReadTimeout,
		// Zero keeps the SSE stream open.
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		queue.Start(gctx)
		return nil
	})

	if cfg.Backup.Enabled {
		backups := service.NewBackupService(records, objects, cfg.S3.Bucket, cfg.Backup, m, log)
		c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(zap.NewStdLog(log.Named("cron")))))
		if _, err := backups.Schedule(gctx, c); err != nil {
			return fmt.Errorf("invalid backup schedule %q: %w", cfg.Backup.Schedule, err)
		}
		c.Start()
		log.Info("backups scheduled", zap.String("schedule", cfg.Backup.Schedule), zap.Int("keep", cfg.Backup.Keep))
		g.Go(func() error {
			<-gctx.Done()
			<-c.Stop().Done()
			return nil
		})
	}

	g.Go(func() error {
		log.Info("server starting", zap.String("addr", cfg.Server.Port), zap.String("store", cfg.Store.Backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (port.KeyValueStore, error) {
	switch cfg.Store.Backend {
	case config.StoreBackendPostgres:
		db, err := postgres.NewDB(&cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return postgres.NewKVRepo(db), nil
	case config.StoreBackendRedis:
		kv, err := redis.Open(ctx, &cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return kv, nil
	case config.StoreBackendMemory:
		log.Warn("using in-memory store; records are lost on restart")
		return memory.NewKVStore(), nil
	default:
		kv, err := sqlite.Open(&cfg.SQLite)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return kv, nil
	}
}

// buildFallback builds the server-side provider chain, or nil when none is
// configured.
func buildFallback(cfg *config.Config, log *zap.Logger) port.DocumentParser {
	var (
		parsers []port.DocumentParser
		names   []string
	)
	for _, pc := range cfg.Parser.Providers() {
		p, err := parser.NewParser(pc)
		if err != nil {
			log.Warn("skipping fallback provider", zap.String("provider", pc.Provider), zap.Error(err))
			continue
		}
		parsers = append(parsers, p)
		names = append(names, pc.Provider)
	}
	if len(parsers) == 0 {
		return nil
	}
	log.Info("fallback providers configured", zap.Strings("providers", names))
	return parser.NewFallbackParser(parsers, names, log)
}
