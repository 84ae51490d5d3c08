package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	jobdomain "github.com/wyfcoding/recruiting/internal/jobapplication/domain"
	notificationapp "github.com/wyfcoding/recruiting/internal/notification/application"
	notificationdomain "github.com/wyfcoding/recruiting/internal/notification/domain"
	notificationmysql "github.com/wyfcoding/recruiting/internal/notification/infrastructure/persistence/mysql"
	"github.com/wyfcoding/recruiting/internal/notification/infrastructure/sender"
	"github.com/wyfcoding/recruiting/internal/notification/interfaces/consumer"
	"github.com/wyfcoding/recruiting/pkg/config"
	"github.com/wyfcoding/recruiting/pkg/db"
	"github.com/wyfcoding/recruiting/pkg/logger"
	"github.com/wyfcoding/recruiting/pkg/metrics"
	"github.com/wyfcoding/recruiting/pkg/middleware"
	"github.com/wyfcoding/recruiting/pkg/mq"
)

// BootstrapName 服务标识
const BootstrapName = "notification"

func main() {
	configPath := flag.String("config", "configs/notification/config.toml", "path to config file")
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
	m := metrics.New("worker")

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
		if err := database.AutoMigrate(&notificationdomain.Notification{}); err != nil {
			return fmt.Errorf("auto migrate failed: %w", err)
		}
	}

	kafkaCfg := mq.KafkaConfig{
		Brokers:        cfg.Kafka.Brokers,
		GroupID:        cfg.Kafka.GroupID,
		SessionTimeout: cfg.Kafka.SessionTimeout,
		MaxRetries:     cfg.Kafka.MaxRetries,
		RetryBackoff:   cfg.Kafka.RetryBackoff,
	}

	kafkaConsumer, err := mq.NewConsumer(kafkaCfg, jobdomain.ApplicationStatusChangedEventType)
	if err != nil {
		return fmt.Errorf("kafka consumer init failed: %w", err)
	}
	defer kafkaConsumer.Close()

	producer, err := mq.NewProducer(kafkaCfg)
	if err != nil {
		return fmt.Errorf("kafka producer init failed: %w", err)
	}
	defer producer.Close()

	// 2. 业务组件装配
	repo := notificationmysql.NewNotificationRepository(database.DB)
	dispatcher := notificationapp.NewDispatcher(
		newSender(cfg), repo, m,
		time.Duration(cfg.Notify.DispatchTimeout)*time.Second,
	)
	dlq := mq.NewDeadLetterQueue(producer, cfg.Notify.DLQTopic)
	handler := consumer.NewStatusChangedHandler(dispatcher, dlq, m)

	// 3. 健康检查与指标端点
	if cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(middleware.GinRecoveryMiddleware())

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

	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: engine,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info(ctx, "consumer starting",
			"topic", jobdomain.ApplicationStatusChangedEventType,
			"workers", cfg.Notify.Workers,
		)
		kafkaConsumer.Start(ctx, cfg.Notify.Workers, handler.Handle)
		return nil
	})

	g.Go(func() error {
		logger.Info(ctx, "HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info(context.Background(), "shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
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
