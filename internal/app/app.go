package app

import (
	"context"
	"course_platform_backend/internal/config"
	"course_platform_backend/internal/controller"
	"course_platform_backend/internal/repository"
	"course_platform_backend/internal/service"
	"course_platform_backend/pkg/database"
	"course_platform_backend/pkg/logger"
	"course_platform_backend/pkg/monitoring"
	"course_platform_backend/pkg/security"
	"course_platform_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
}

type repositories struct {
	user          *repository.UserRepository
	course        *repository.CourseRepository
	enrollment    *repository.EnrollmentRepository
	evaluation    *repository.EvaluationRepository
	attempt       *repository.AttemptRepository
	reopen        *repository.ReopenRepository
	progress      *repository.ProgressRepository
	certification *repository.CertificationRepository
	outbox        *repository.OutboxRepository
}

type services struct {
	auth        *service.AuthService
	storage     *service.StorageService
	catalog     *service.CatalogService
	enrollment  *service.EnrollmentService
	evaluation  *service.EvaluationService
	attempt     *service.AttemptService
	reopen      *service.ReopenService
	progress    *service.ProgressService
	certificate *service.CertificateService
	outbox      *service.OutboxService
}

type controllers struct {
	auth        *controller.AuthController
	catalog     *controller.CatalogController
	enrollment  *controller.EnrollmentController
	evaluation  *controller.EvaluationController
	attempt     *controller.AttemptController
	reopen      *controller.ReopenController
	progress    *controller.ProgressController
	certificate *controller.CertificateController
	health      *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:          repository.NewUserRepository(db),
		course:        repository.NewCourseRepository(db),
		enrollment:    repository.NewEnrollmentRepository(db),
		evaluation:    repository.NewEvaluationRepository(db),
		attempt:       repository.NewAttemptRepository(db),
		reopen:        repository.NewReopenRepository(db),
		progress:      repository.NewProgressRepository(db),
		certification: repository.NewCertificationRepository(db),
		outbox:        repository.NewOutboxRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.catalog = service.NewCatalogService(repos.course, s.storage, rdb)
	s.enrollment = service.NewEnrollmentService(repos.enrollment, repos.course)
	s.evaluation = service.NewEvaluationService(repos.evaluation, repos.course, db)
	s.certificate = service.NewCertificateService(repos.course, repos.evaluation, repos.attempt, repos.certification, db)
	s.progress = service.NewProgressService(repos.course, repos.enrollment, repos.progress, s.certificate, db)
	s.attempt = service.NewAttemptService(repos.evaluation, repos.attempt, repos.enrollment, s.progress, db)
	s.reopen = service.NewReopenService(repos.evaluation, repos.attempt, repos.reopen)
	s.outbox = service.NewOutboxService(repos.outbox)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth),
		catalog:     controller.NewCatalogController(s.catalog),
		enrollment:  controller.NewEnrollmentController(s.enrollment),
		evaluation:  controller.NewEvaluationController(s.evaluation, s.attempt),
		attempt:     controller.NewAttemptController(s.attempt),
		reopen:      controller.NewReopenController(s.reopen),
		progress:    controller.NewProgressController(s.progress),
		certificate: controller.NewCertificateController(s.certificate),
		health:      controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Warn("Redis unavailable, caching disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("course-platform", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	if err := services.outbox.Start(cfg.Outbox.DispatchSpec); err != nil {
		logger.Log.Fatal("Failed to start outbox dispatcher", zap.Error(err))
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if a.services != nil && a.services.outbox != nil {
		a.services.outbox.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
