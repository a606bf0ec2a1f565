package internal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"file-uploader/config"
	"file-uploader/internal/application/ports"
	"file-uploader/internal/application/services"
	"file-uploader/internal/infrastructure/db/postgres"
	"file-uploader/internal/infrastructure/db/postgres/file"
	"file-uploader/internal/infrastructure/db/postgres/folder"
	"file-uploader/internal/infrastructure/db/postgres/user"
	"file-uploader/internal/infrastructure/jwt"
	"file-uploader/internal/infrastructure/metrics"
	"file-uploader/internal/infrastructure/mq"
	"file-uploader/internal/infrastructure/storage"
	"file-uploader/internal/infrastructure/storage/proxy"
	"file-uploader/internal/interface/api/rest"
	"file-uploader/internal/interface/api/rest/middleware"
	"file-uploader/pkg/rmqconsumer"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	logger     *zap.Logger
	cfg        config.Config
	db         *pgxpool.Pool
	jwt        *jwt.Service
	storage    ports.Storage
	fetcher    ports.Fetcher
	httpSrv    *http.Server
	router     *gin.Engine
	mCounter   *prometheus.CounterVec
	events     ports.EventPublisher
	mq         ports.RabbitMQ    // nil when RABBITMQ_HOST is unset
	mqConsumer ports.RMQConsumer // nil when RABBITMQ_HOST is unset
}

func NewApp(ctx context.Context) (*App, error) {
	// logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("cannot initialize zap logger: %v", err)
	}

	// config
	if err = godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg := config.Load()
	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// metrics
	mCounter := metrics.NewCounter()

	// router
	switch cfg.App.Env {
	case gin.ReleaseMode, "prod", "production":
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	jwtService := jwt.New(cfg.Session.Secret)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogGin(logger, mCounter))
	r.Use(middleware.Session(jwtService))
	if err = rest.LoadTemplates(r); err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	// httpServer
	httpSrv := &http.Server{
		Addr:              cfg.App.Host + ":" + cfg.App.Port,
		Handler:           middleware.MethodOverride(r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// db
	dbDsn, err := cfg.DBDSN()
	if err != nil {
		return nil, fmt.Errorf("db config: %w", err)
	}
	if err = postgres.Migrate(ctx, logger, dbDsn); err != nil {
		return nil, err
	}
	dbPool, err := postgres.New(ctx, logger, dbDsn)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	app := &App{
		logger:   logger,
		cfg:      cfg,
		db:       dbPool,
		jwt:      jwtService,
		fetcher:  proxy.New(logger),
		httpSrv:  httpSrv,
		router:   r,
		mCounter: mCounter,
		events:   mq.NewDiscard(logger),
	}

	// storage
	app.storage, err = storage.New(ctx, logger, cfg, jwtService)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("init %s storage: %w", cfg.Storage.Backend, err)
	}

	// rabbitMQ
	if cfg.MQEnabled() {
		if err = app.initMQ(ctx); err != nil {
			app.Close()
			return nil, err
		}
	} else {
		logger.Info("RABBITMQ_HOST not set, activity events are only logged")
	}

	return app, nil
}

func (a *App) initMQ(ctx context.Context) error {
	rabbitDsn, err := a.cfg.AMQPDSN()
	if err != nil {
		return fmt.Errorf("rabbitmq config: %w", err)
	}

	rbMQ := mq.New(a.cfg.MQ, a.logger)
	if err = rbMQ.Connect(ctx, rabbitDsn); err != nil {
		return fmt.Errorf("connect to rabbitmq: %w", err)
	}
	a.mq = rbMQ
	if err = rbMQ.Init(); err != nil {
		return fmt.Errorf("init rabbitmq: %w", err)
	}
	a.events = rbMQ

	// rmqConsumer
	rmqConsumer := rmqconsumer.New(a.cfg.MQ, a.logger, nil)
	if err = rmqConsumer.Connect(rabbitDsn); err != nil {
		return fmt.Errorf("connect rabbitmq consumer: %w", err)
	}
	a.mqConsumer = rmqConsumer
	if err = rmqConsumer.Init(); err != nil {
		return fmt.Errorf("init rabbitmq consumer: %w", err)
	}

	return nil
}

func (a *App) Close() {
	if a.mqConsumer != nil {
		a.mqConsumer.Close()
	}
	if a.mq != nil && a.mq.GetConn() != nil {
		_ = a.mq.GetConn().Close()
	}
	if a.db != nil {
		a.db.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// Run serves HTTP and drives the event workers under one context until a
// signal arrives, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGUSR1)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("starting "+a.cfg.App.Name,
			zap.String("addr", a.httpSrv.Addr),
			zap.String("storage", a.cfg.Storage.Backend),
			zap.String("download_mode", a.cfg.Storage.DownloadMode),
		)
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server "+a.cfg.App.Name+" error: %w", err)
		}

		return nil
	})

	if a.mq != nil {
		g.Go(func() error {
			a.mq.PublisherWorker(ctx)
			return nil
		})
	}

	if a.mqConsumer != nil {
		g.Go(func() error {
			a.mqConsumer.DeliveryWorker(ctx)
			return nil
		})
	}

	<-ctx.Done()

	a.logger.Info("shutting down " + a.cfg.App.Name + " gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown "+a.cfg.App.Name+" error", zap.Error(err))
		return err
	}

	if err := g.Wait(); err != nil {
		a.logger.Error(a.cfg.App.Name+" returning an error", zap.Error(err))
		return err
	}

	a.logger.Info(a.cfg.App.Name + " gracefully stopped")

	return nil
}

func (a *App) InitControllers() {
	// repos
	userRepo := user.NewRepository(a.db)
	folderRepo := folder.NewRepository(a.db)
	fileRepo := file.NewRepository(a.db)

	// services
	authService := services.NewAuthService(a.jwt, a.cfg.Session.TTL)
	userService := services.NewUserService(userRepo, authService, a.mCounter)
	folderService := services.NewFolderService(a.logger, folderRepo, fileRepo, a.storage, a.events, a.mCounter)
	fileService := services.NewFileService(
		a.logger,
		a.cfg.Storage,
		fileRepo,
		folderRepo,
		a.storage,
		a.fetcher,
		a.events,
		a.mCounter,
	)

	// controllers
	rest.NewAuthController(a.router, a.logger, a.cfg.Session, userService, authService)
	rest.NewFolderController(a.router, a.logger, folderService, fileService)
	rest.NewFileController(a.router, a.logger, folderService, fileService)
	if blobs, ok := a.storage.(ports.BlobServer); ok {
		rest.NewBlobController(a.router, a.logger, blobs)
	}

	// ops
	a.router.GET(rest.RouteHealth, func(c *gin.Context) { c.Status(http.StatusOK) })
	a.router.GET(rest.RouteMetrics, gin.WrapH(promhttp.Handler()))
}

func (a *App) Logger() *zap.Logger { return a.logger }
