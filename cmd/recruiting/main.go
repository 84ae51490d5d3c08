package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	jobapp "github.com/wyfcoding/recruiting/internal/jobapplication/application"
	jobdomain "github.com/wyfcoding/recruiting/internal/jobapplication/domain"
	jobmysql "github.com/wyfcoding/recruiting/internal/jobapplication/infrastructure/persistence/mysql"
	jobredis "github.com/wyfcoding/recruiting/internal/jobapplication/infrastructure/persistence/redis"
	"github.com/wyfcoding/recruiting/internal/jobapplication/infrastructure/messaging"
	"github.com/wyfcoding/recruiting/internal/jobapplication/infrastructure/notify"
	httphandler "github.com/wyfcoding/recruiting/internal/jobapplication/interfaces/http"
	notificationapp "github.com/wyfcoding/recruiting/internal/notification/application"
	notificationdomain "github.com/wyfcoding/recruiting/internal/notification/domain"
	notificationmysql "github.com/wyfcoding/recruiting/internal/notification/infrastructure/persistence/mysql"
	"github.com/wyfcoding/recruiting/internal/notification/infrastructure/sender"
	"github.com/wyfcoding/recruiting/pkg/cache"
	"github.com/wyfcoding/recruiting/pkg/config"
	"github.com/wyfcoding/recruiting/pkg/db"
	"github.com/wyfcoding/recruiting/pkg/logger"
	"github.com/wyfcoding/recruiting/pkg/metrics"
	"github.com/wyfcoding/recruiting/pkg/middleware"
	"github.com/wyfcoding/recruiting/pkg/mq"
	"github.com/wyfcoding/recruiting/pkg/ratelimit"
)

// BootstrapName 服务标识
const BootstrapName = "recruiting"

func main() {
	configPath := flag.String("config", "configs/recruiting/config.toml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Fatal(ctx, "service bootstrap failed", "error", err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	m := metrics.New("api")

	// 1. 基础设施
	database, err := db.Init(db.Config{
		Driver:             cfg.Database.Driver,
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	})
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	defer database.Close()

	if cfg.Environment == "dev" {
		if err := database.AutoMigrate(
			&jobdomain.JobApplication{},
			&jobdomain.StatusHistoryEntry{},
			&notificationdomain.Notification{},
		); err != nil {
			return fmt.Errorf("auto migrate failed: %w", err)
		}
	}

	redisCache, err := cache.New(cache.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxPoolSize:  cfg.Redis.MaxPoolSize,
		ConnTimeout:  cfg.Redis.ConnTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		return fmt.Errorf("redis init failed: %w", err)
	}
	defer redisCache.Close()

	var producer *mq.KafkaProducer
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err = mq.NewProducer(mq.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			MaxRetries:   cfg.Kafka.MaxRetries,
			RetryBackoff: cfg.Kafka.RetryBackoff,
		})
		if err != nil {
			return fmt.Errorf("kafka producer init failed: %w", err)
		}
		defer producer.Close()
	}

	// 2. 业务组件装配
	applicationRepo := jobmysql.NewApplicationRepository(database)
	notificationRepo := notificationmysql.NewNotificationRepository(database.DB)

	var appCache jobdomain.ApplicationCache
	if cfg.Redis.CacheTTL > 0 {
		appCache = jobredis.NewApplicationCache(redisCache, time.Duration(cfg.Redis.CacheTTL)*time.Second)
	}

	var publisher jobdomain.EventPublisher
	if producer != nil {
		publisher = messaging.NewKafkaEventPublisher(producer)
	}

	dispatchTimeout := time.Duration(cfg.Notify.DispatchTimeout) * time.Second
	dispatcher := notificationapp.NewDispatcher(newSender(cfg), notificationRepo, m, dispatchTimeout)

	var notifier jobdomain.StatusNotifier
	if cfg.Notify.Mode == "direct" {
		notifier = notify.NewDispatcherNotifier(dispatcher)
	}

	service := jobapp.NewApplicationService(
		applicationRepo, publisher, notifier, appCache, m,
		cfg.Notify.DefaultActor, dispatchTimeout,
	)

	// 3. HTTP 服务
	if cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(
		middleware.GinRecoveryMiddleware(),
		middleware.GinLoggingMiddleware(),
		middleware.GinCORSMiddleware(),
		middleware.GinMetricsMiddleware(m),
	)

	sys := engine.Group("/sys")
	{
		sys.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":    "UP",
				"service":   BootstrapName,
				"timestamp": time.Now().Unix(),
			})
		})
		sys.GET("/ready", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "READY"})
		})
	}

	if cfg.Metrics.Enabled {
		engine.GET(cfg.Metrics.Path, gin.WrapH(m.Handler()))
	}

	api := engine.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		limiter := ratelimit.NewRedisRateLimiter(redisCache.Client())
		api.Use(middleware.GinRateLimitMiddleware(limiter, ratelimit.PerSecond(cfg.RateLimit.Rate, cfg.RateLimit.Burst)))
	}
	httphandler.NewHandler(service, dispatcher).RegisterRoutes(api)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	// 4. gRPC 服务（健康检查与反射）
	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(middleware.GRPCLoggingInterceptor()),
	)
	healthServer := health.NewServer()
	healthServer.SetServingStatus(BootstrapName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info(ctx, "HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		addr := fmt.Sprintf("%s:%d", cfg.GRPC.Host, cfg.GRPC.Port)
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("grpc listen failed: %w", err)
		}
		logger.Info(ctx, "gRPC server starting", "addr", addr)
		return grpcServer.Serve(lis)
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info(context.Background(), "shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		healthServer.SetServingStatus(BootstrapName, healthpb.HealthCheckResponse_NOT_SERVING)
		grpcServer.GracefulStop()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newSender 按配置选择通知通道：配置了 SMTP 主机走真实邮件，否则走日志通道
func newSender(cfg *config.Config) notificationdomain.Sender {
	if cfg.SMTP.Host != "" {
		return sender.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	}
	return sender.NewMockSender()
}
