// Package app assembles the HTTP application: configuration, storage,
// observability, middleware chain and background jobs.
package app

import (
	contextPkg "context"
	"fmt"
	"os"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/eduardoinoa18/memorybox/pkg/cache"
	"github.com/eduardoinoa18/memorybox/pkg/configs"
	"github.com/eduardoinoa18/memorybox/pkg/context"
	"github.com/eduardoinoa18/memorybox/pkg/internal/jobs"
	"github.com/eduardoinoa18/memorybox/pkg/internal/storage"
	"github.com/eduardoinoa18/memorybox/pkg/log"
	"github.com/eduardoinoa18/memorybox/pkg/metrics"
	"github.com/eduardoinoa18/memorybox/pkg/middleware"
	"github.com/eduardoinoa18/memorybox/pkg/scheduler"
	"github.com/eduardoinoa18/memorybox/pkg/tracing"
)

type App struct {
	Engine    *gin.Engine
	config    *configs.AppConfig
	manager   *storage.Manager
	scheduler *scheduler.Scheduler
}

func NewApp(configPath string) *App {
	ctx := contextPkg.Background()
	engine := gin.New()

	if err := configs.InitConfig(configPath); err != nil {
		fmt.Printf("Error initializing config: %v\n", err)
		os.Exit(1)
	}

	config := configs.GetConfig()

	log.Init()

	if err := tracing.InitTracer(config.Tracing); err != nil {
		fmt.Printf("Error initializing tracing: %v\n", err)
		os.Exit(1)
	}

	if err := metrics.InitMetrics(config.Metrics); err != nil {
		fmt.Printf("Error initializing metrics: %v\n", err)
		os.Exit(1)
	}

	manager, err := storage.Init(ctx)
	if err != nil {
		fmt.Printf("Error initializing storage: %v\n", err)
		os.Exit(1)
	}

	jobCtx := context.WithStorageManager(ctx, manager)

	sched, err := scheduler.NewScheduler()
	if err != nil {
		fmt.Printf("Error initializing scheduler: %v\n", err)
		os.Exit(1)
	}

	if err := jobs.Register(jobCtx, sched); err != nil {
		fmt.Printf("Error registering jobs: %v\n", err)
		os.Exit(1)
	}

	sched.Start()

	l := log.Logger()
	gin.DefaultWriter = log.NewGinWriter(l, zerolog.InfoLevel)
	gin.DefaultErrorWriter = log.NewGinWriter(l, zerolog.ErrorLevel)

	engine.Use(
		gin.Recovery(),
		middleware.GinLoggerMiddleware(),
		middleware.CORSMiddleware(config.Server),
		gzip.Gzip(gzip.DefaultCompression),
		middleware.TracingMiddleware(),
		middleware.PrometheusMiddleware(),
		middleware.RateLimitMiddleware(config.RateLimit),
		middleware.CircuitBreakerMiddleware(config.CircuitBreaker),
		middleware.AuthMiddleware(config.Auth),
		middleware.UserMiddleware(),
		middleware.PlanMiddleware(config.Upload),
		middleware.StorageMiddleware(manager),
		middleware.SchedulerMiddleware(sched),
	)

	// Response cache for the read endpoints, when a KV backend is up.
	if kvc := manager.GetKVClient(); kvc != nil {
		engine.Use(middleware.CacheMiddleware(middleware.DefaultCacheConfig(cache.NewCache(kvc.KVStore))))
	}

	if config.Metrics.Enabled {
		_ = metrics.StartMetricsServer(config.Metrics, engine)
	}

	return &App{
		Engine:    engine,
		config:    config,
		manager:   manager,
		scheduler: sched,
	}
}

func (a *App) Run() error {
	return a.Engine.Run(fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port))
}

// Close releases the app's long-lived resources.
func (a *App) Close() {
	if a.scheduler != nil {
		if err := a.scheduler.Shutdown(); err != nil {
			log.Logger().Warn().Err(err).Msg("scheduler shutdown failed")
		}
	}

	if a.manager != nil {
		if err := a.manager.Close(); err != nil {
			log.Logger().Warn().Err(err).Msg("storage shutdown failed")
		}
	}

	ctx, cancel := contextPkg.WithTimeout(contextPkg.Background(), 5*time.Second)
	defer cancel()

	if err := tracing.ShutdownTracer(ctx); err != nil {
		log.Logger().Warn().Err(err).Msg("tracer shutdown failed")
	}
}
