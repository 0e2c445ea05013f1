package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"yourmovie/api"
	"yourmovie/canvas"
	"yourmovie/config"
	"yourmovie/kafka"
	"yourmovie/logging"
	"yourmovie/movie"
	"yourmovie/palette"
	"yourmovie/pipeline"
	"yourmovie/publish"
	"yourmovie/soundtrack"
	"yourmovie/stylize"
	"yourmovie/workspace"

	"golang.org/x/sync/errgroup"
)

func main() {
	settings := config.Load()

	logCfg := logging.DefaultConfig()
	logCfg.Level = settings.LogLevel
	logCfg.File = settings.LogFile
	logger, closeLog, err := logging.Setup(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if err := run(settings, logger); err != nil {
		logger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func run(settings config.Settings, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pal := palette.Default()
	painter := canvas.NewPainter(pal)
	ws := workspace.New(settings.WorkspaceDir, painter)
	catalog := stylize.DefaultCatalog()

	stylizer, closeCache := initializeStylizer(settings, logger)
	defer closeCache()

	detector, err := stylize.LoadErrorDetector(settings.StylizeErrorImage)
	if err != nil {
		return fmt.Errorf("failed to load error detector: %w", err)
	}
	if !detector.Enabled() {
		logger.Warn("error detector image not found; service error images will be kept", "path", settings.StylizeErrorImage)
	}

	processor := stylize.NewProcessor(ws, stylizer, detector, catalog)
	builder := movie.NewBuilder(ws)
	extractor := soundtrack.NewExtractor(ws, soundtrack.NewYouTubeSource(), nil)

	publisher, library := initializePublisher(ctx, settings, logger)
	runner := pipeline.NewRunner(pipeline.NewManager(), processor, builder, publisher, ws.CountFrames)

	server := api.NewServer(api.Deps{
		Workspace: ws,
		Palette:   pal,
		Painter:   painter,
		Catalog:   catalog,
		Runner:    runner,
		Validator: builder,
		Extractor: extractor,
		Library:   library,
		Logger:    logger,
	})

	httpServer := &http.Server{
		Addr:    ":" + settings.Port,
		Handler: server.NewRouter(),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting API server", "addr", httpServer.Addr, "workspace", settings.WorkspaceDir)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if len(settings.KafkaBrokers) > 0 {
		consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
			Brokers: settings.KafkaBrokers,
			Topic:   settings.KafkaTopic,
			GroupID: settings.KafkaGroupID,
			Handler: kafka.NewMovieHandler(runner),
		})
		if err != nil {
			// The HTTP API keeps working without the queue
			logger.Error("failed to create Kafka consumer", "error", err)
		} else {
			g.Go(func() error {
				defer consumer.Close()
				logger.Info("consuming movie requests", "topic", settings.KafkaTopic, "group", settings.KafkaGroupID)
				return consumer.Run(gctx)
			})
		}
	}

	return g.Wait()
}

// initializeStylizer returns the stylization client, wrapped with the Redis
// cache when REDIS_ADDR is set, and a close function for the cache.
func initializeStylizer(settings config.Settings, logger *slog.Logger) (stylize.Stylizer, func() error) {
	noop := func() error { return nil }

	if settings.StylizeURL == "" {
		logger.Warn("STYLIZE_URL not set; processing will fail until it is configured")
	}
	var stylizer stylize.Stylizer = stylize.NewClient(settings.StylizeURL, settings.StylizeTimeout)

	if settings.RedisAddr == "" {
		return stylizer, noop
	}

	cache, err := stylize.NewRedisCache(stylize.RedisConfig{
		Addr:     settings.RedisAddr,
		Password: settings.RedisPassword,
		DB:       settings.RedisDB,
		TTL:      settings.CacheTTL,
	})
	if err != nil {
		logger.Warn("stylization cache disabled", "addr", settings.RedisAddr, "error", err)
		return stylizer, noop
	}
	logger.Info("stylization cache enabled", "addr", settings.RedisAddr)
	return stylize.WithCache(stylizer, cache), cache.Close
}

// initializePublisher combines the configured publishers. The publisher is
// nil when none is configured, which disables publishing; the library is nil
// without S3.
func initializePublisher(ctx context.Context, settings config.Settings, logger *slog.Logger) (publish.Publisher, api.MovieLibrary) {
	var (
		publishers []publish.Publisher
		library    api.MovieLibrary
	)

	if settings.S3Bucket != "" {
		s3p, err := publish.NewS3(ctx, publish.S3Config{
			Bucket:       settings.S3Bucket,
			Prefix:       settings.S3Prefix,
			Region:       settings.S3Region,
			Profile:      settings.S3Profile,
			UsePathStyle: settings.S3UsePathStyle,
		})
		if err != nil {
			logger.Warn("failed to init S3 publisher (uploads disabled)", "error", err)
		} else {
			publishers = append(publishers, s3p)
			library = s3p
		}
	}

	if settings.YouTubeServiceAccount != "" {
		yt, err := publish.NewYouTube(ctx, settings.YouTubeServiceAccount)
		if err != nil {
			logger.Warn("failed to init YouTube publisher", "error", err)
		} else {
			publishers = append(publishers, yt)
		}
	}

	if len(publishers) == 0 {
		logger.Info("no publishers configured; movies stay local")
		return nil, nil
	}
	return publish.NewMulti(publishers...), library
}
