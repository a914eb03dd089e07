package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "taskboard/docs"
	"taskboard/internal/cache"
	"taskboard/internal/config"
	"taskboard/internal/handler"
	"taskboard/internal/logger"
	"taskboard/internal/metrics"
	"taskboard/internal/middleware"
	"taskboard/internal/repository"
	"taskboard/internal/service"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
	Tasks  *service.TaskService
	Config *config.Config
	log    *logger.Logger
}

// Init connects storage and builds the HTTP engine
func Init(cfg *config.Config, log *logger.Logger) (*Server, error) {
	db, err := repository.NewDB(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	log.Infow("connected to database", "driver", cfg.Database.Driver)

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.GetAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := redisClient.Ping(ctx).Err()
		cancel()
		if err != nil {
			log.Warnw("redis unavailable, caching disabled", "addr", cfg.Redis.GetAddr(), "error", err)
			_ = redisClient.Close()
			redisClient = nil
		}
	}

	tasks := service.NewTaskService(
		repository.NewTaskRepository(db),
		repository.NewTagRepository(db),
		cache.New(redisClient, cfg.Redis.CacheTTL),
		cfg.Board.ArchiveWindow,
		log,
	)

	s := &Server{
		DB:     db,
		Redis:  redisClient,
		Tasks:  tasks,
		Config: cfg,
		log:    log,
	}
	s.Engine = s.newEngine()
	return s, nil
}

func (s *Server) newEngine() *gin.Engine {
	if s.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(s.log.WithComponent("http")))

	var m *metrics.Metrics
	if s.Config.Metrics.Enabled {
		m = metrics.New()
		r.Use(middleware.Metrics(m))
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	r.GET("/healthz", s.health)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	limiter := middleware.NewRateLimiter(s.Config.Security.RateLimitRequests, s.Config.Security.RateLimitWindow)
	board := r.Group("/")
	board.Use(middleware.RateLimit(limiter, m))
	handler.NewTaskHandler(s.Tasks, s.log).RegisterRoutes(board)
	handler.NewTagHandler(s.Tasks, s.log).RegisterRoutes(board)

	return r
}

func (s *Server) health(c *gin.Context) {
	sqlDB, err := s.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Run serves until SIGINT or SIGTERM, then shuts down gracefully
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.Config.Server.GetAddr(),
		Handler:      s.Engine,
		ReadTimeout:  s.Config.Server.ReadTimeout,
		WriteTimeout: s.Config.Server.WriteTimeout,
		IdleTimeout:  s.Config.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infow("server running", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to listen: %w", err)
	case <-quit:
	}
	s.log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), s.Config.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	s.log.Info("server exited properly")
	return nil
}

// Close releases the database and cache connections
func (s *Server) Close() error {
	var errs []error
	if s.Redis != nil {
		errs = append(errs, s.Redis.Close())
	}
	if sqlDB, err := s.DB.DB(); err == nil {
		errs = append(errs, sqlDB.Close())
	} else {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
