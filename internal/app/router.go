package app

import (
	"course_platform_backend/internal/config"
	"course_platform_backend/internal/middleware"
	"course_platform_backend/internal/model"
	"course_platform_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// Public routes
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// Authenticated routes
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerStaffRoutes(authGroup, c)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)

	rg.GET("/courses", c.catalog.ListCourses)
	rg.GET("/courses/:id", c.catalog.GetCourseDetail)

	rg.POST("/courses/:id/enroll", c.enrollment.Enroll)
	rg.GET("/enrollments", c.enrollment.ListMine)

	rg.POST("/courses/:id/resources/:resourceId/complete", c.progress.MarkResourceComplete)
	rg.GET("/courses/:id/progress", c.progress.GetCourseProgress)

	rg.GET("/courses/:id/evaluations", c.evaluation.ListByCourse)
	rg.GET("/evaluations/:id", c.evaluation.GetForStudent)
	rg.POST("/evaluations/:id/attempts", c.attempt.SubmitAttempt)
	rg.GET("/evaluations/:id/attempts", c.attempt.ListMine)
	rg.POST("/evaluations/:id/reopen-requests", c.reopen.Request)

	rg.GET("/courses/:id/certificate", c.certificate.GetMine)
	rg.GET("/courses/:id/certificate/eligibility", c.certificate.CheckEligibility)
	rg.GET("/certificates", c.certificate.ListMine)
}

func (a *App) registerStaffRoutes(rg *gin.RouterGroup, c *controllers) {
	staff := rg.Group("/staff")
	staff.Use(middleware.RoleMiddleware(model.Instructor, model.Admin))
	{
		staff.POST("/courses", c.catalog.CreateCourse)
		staff.PUT("/courses/:id", c.catalog.UpdateCourse)
		staff.POST("/courses/:id/sections", c.catalog.CreateSection)
		staff.POST("/courses/:id/resources", c.catalog.CreateResource)
		staff.PUT("/resources/:id", c.catalog.UpdateResource)
		staff.POST("/resources/:id/file", c.catalog.UploadResourceFile)

		staff.POST("/courses/:id/evaluations", c.evaluation.CreateEvaluation)
		staff.PUT("/evaluations/:id", c.evaluation.UpdateEvaluation)
		staff.GET("/evaluations/:id", c.evaluation.GetEvaluation)

		staff.GET("/reopen-requests", c.reopen.ListPending)
		staff.POST("/reopen-requests/:id/approve", c.reopen.Approve)
		staff.POST("/reopen-requests/:id/deny", c.reopen.Deny)

		staff.POST("/courses/:id/progress/:userId/recompute", c.progress.Recompute)
		staff.POST("/courses/:id/certificates/:userId", c.certificate.Issue)
	}
}
