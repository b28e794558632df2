package app

import (
	"context"
	"sync"
	"time"

	"hrms-lite/internal/apiclient"
	"hrms-lite/internal/events"
	"hrms-lite/internal/messaging/kafka/producer"
	"hrms-lite/internal/middleware"
	"hrms-lite/internal/session"
	"hrms-lite/internal/shared/connection"
	"hrms-lite/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	connectRetries = 5
	auditBuffer    = 256
	sweepInterval  = time.Minute
)

// App holds what the console built at startup and must release on exit.
type App struct {
	Client    apiclient.Client
	Publisher events.Publisher
	Sessions  *session.Registry
	Redis     *redis.Client

	cancel context.CancelFunc
	wg     sync.WaitGroup
	closer []func() error
	logger *zap.Logger
}

// BuildApp wires the console onto router. Redis and Kafka are used only when
// configured.
func BuildApp(router *gin.Engine, cfg Config) (*App, error) {
	logger := zap.L()
	ctx, cancel := context.WithCancel(context.Background())
	a := &App{cancel: cancel, logger: logger.Named("app")}

	// 1. Setup Infrastructure
	a.Client = apiclient.New(apiclient.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.APITimeout,
	}, logger)
	a.logger.Info("HRMS backend configured", zap.String("base_url", cfg.APIBaseURL))

	if cfg.RedisAddr != "" {
		rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, connectRetries)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Redis = rdb
		a.closer = append(a.closer, rdb.Close)
	} else {
		a.logger.Info("REDIS_ADDR not set, duplicate-submit guard disabled")
	}

	a.Publisher = events.NoopPublisher{}
	if cfg.KafkaBroker != "" {
		writer, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, events.ConsoleAuditTopic, connectRetries)
		if err != nil {
			a.Close()
			return nil, err
		}
		publisher := producer.NewPublisher(writer, auditBuffer, logger)
		a.Publisher = publisher
		a.closer = append(a.closer, writer.Close)
		a.goRun(func() { publisher.ProcessEvents(ctx) })
	} else {
		a.logger.Info("KAFKA_BROKER not set, audit events are not published")
	}

	a.Sessions = session.NewRegistry(cfg.SessionTTL, logger)
	a.goRun(func() { a.Sessions.Run(ctx, sweepInterval) })

	// 2. Middleware & templates
	router.Use(
		middleware.SecurityHeaders(),
		middleware.RequestID(),
		middleware.Session(a.Sessions, cfg.SessionTTL, cfg.SecureCookies),
		middleware.ContextLogger(logger),
	)
	web.LoadTemplates(router)

	// 3. Register Modules & Routes
	registerModules(router, a)
	return a, nil
}

func (a *App) goRun(fn func()) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		fn()
	}()
}

// Close stops the background workers, letting the audit worker flush, and
// then closes the connections.
func (a *App) Close() {
	a.cancel()
	a.wg.Wait()
	for i := len(a.closer) - 1; i >= 0; i-- {
		if err := a.closer[i](); err != nil {
			a.logger.Warn("close failed", zap.Error(err))
		}
	}
	a.closer = nil
}
