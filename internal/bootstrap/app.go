package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cafehub/internal/app"
	"cafehub/internal/cache"
	"cafehub/internal/config"
	"cafehub/internal/mailer"
	"cafehub/internal/pkg/logger"
	"cafehub/internal/platform/database"
	rabbitmqClient "cafehub/internal/platform/rabbitmq"
	redisClient "cafehub/internal/platform/redis"
	"cafehub/internal/repository"
	"cafehub/internal/worker"
)

// App owns every long-lived resource. Redis and MQConn are nil when their
// section is left unconfigured.
type App struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *gorm.DB
	Redis  *redis.Client
	MQConn *amqp.Connection

	Sessions    app.SessionStore
	CafeCache   app.CafeCache
	ResetMailer app.ResetMailer
	MailWorker  *worker.ResetMailWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}
	log, err := logger.New(cfg.IsDev())
	if err != nil {
		return nil, err
	}
	a, err := NewWithConfig(ctx, cfg, log)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}
	return a, nil
}

func NewWithConfig(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: log, StartedAt: time.Now()}

	db, err := database.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.DB = db
	if err := repository.AutoMigrate(db); err != nil {
		_ = a.Close()
		return nil, err
	}

	if cfg.Redis.Addr != "" {
		redisCli, err := redisClient.New(ctx, cfg.Redis)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.Redis = redisCli
		a.Sessions = cache.NewRedisSessionStore(redisCli)
		a.CafeCache = cache.NewCafeCache(redisCli, cfg.CafeCacheTTL())
	} else {
		log.Info("redis not configured; sessions kept in memory, cafe cache off")
		a.Sessions = cache.NewMemorySessionStore()
	}

	sender := newSender(cfg.SMTP, log)
	if cfg.RabbitMQ.URL != "" {
		mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.ResetMailQueue)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.MQConn = mqConn
		a.ResetMailer = rabbitmqClient.NewResetMailPublisher(mqConn, cfg.RabbitMQ.ResetMailQueue)
		a.MailWorker = worker.NewResetMailWorker(mqConn, sender, cfg.RabbitMQ.ResetMailQueue, log)
		if err := a.MailWorker.Start(ctx); err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("start reset mail worker failed: %w", err)
		}
	} else {
		a.ResetMailer = sender
	}

	return a, nil
}

func newSender(cfg config.SMTPConfig, log *zap.Logger) worker.Sender {
	if cfg.Host == "" {
		log.Warn("smtp not configured; reset codes will be logged")
		return mailer.NewLogMailer(log)
	}
	return mailer.NewSMTPMailer(cfg)
}

func (a *App) Close() error {
	var closeErr error
	if a.MailWorker != nil {
		a.MailWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.DB != nil {
		if err := database.Close(a.DB); err != nil {
			closeErr = err
		}
	}
	return closeErr
}
