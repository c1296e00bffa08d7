package routes

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sarayu-iot/admin-api/internal/app/domain/auth"
	"github.com/sarayu-iot/admin-api/internal/app/domain/companies"
	"github.com/sarayu-iot/admin-api/internal/app/domain/dashboard"
	"github.com/sarayu-iot/admin-api/internal/app/domain/employees"
	tagsPkg "github.com/sarayu-iot/admin-api/internal/app/domain/tags"
	"github.com/sarayu-iot/admin-api/internal/app/middleware"
	"github.com/sarayu-iot/admin-api/internal/app/models"
	"github.com/sarayu-iot/admin-api/internal/pkg/config"
	"github.com/sarayu-iot/admin-api/internal/session"

	managersPkg "github.com/sarayu-iot/admin-api/internal/app/domain/managers"
)

type AppHandlers struct {
	Auth      *auth.AuthHandlers
	Companies *companies.CompanyHandlers
	Managers  *managersPkg.ManagerHandlers
	Employees *employees.EmployeeHandlers
	Tags      *tagsPkg.TagHandlers
	Dashboard *dashboard.DashboardHandlers

	finder  middleware.PrincipalFinder
	session *session.Manager
}

func Setup(r *gin.Engine, dbPool *pgxpool.Pool, redisClient *redis.Client, cfg *config.Config, log *zap.Logger) {
	handlers := setupDependencies(dbPool, redisClient, cfg, log)
	setupRouter(r, handlers, log)
}

func setupDependencies(dbPool *pgxpool.Pool, redisClient *redis.Client, cfg *config.Config, log *zap.Logger) *AppHandlers {
	slogLog := slog.Default()

	authRepo := auth.NewPostgresAuthRepo(dbPool, slogLog)
	companyRepo := companies.NewPostgresCompanyRepo(dbPool, slogLog)
	managerRepo := managersPkg.NewPostgresManagerRepo(dbPool, slogLog)
	employeeRepo := employees.NewPostgresEmployeeRepo(dbPool, slogLog)
	tagRepo := tagsPkg.NewPostgresTagRepo(dbPool, slogLog)
	dashboardRepo := dashboard.NewPostgresDashboardRepo(dbPool, slogLog)

	authService := auth.NewAuthService(authRepo, log)
	companyService := companies.NewCompanyService(companyRepo, log)
	managerService := managersPkg.NewManagerService(managerRepo, log)
	employeeService := employees.NewEmployeeService(employeeRepo, log)
	tagService := tagsPkg.NewTagService(tagRepo, log)
	dashboardService := dashboard.NewDashboardService(dashboardRepo, log)

	sessionStore := session.NewRedisStore(redisClient)
	sessionManager := session.NewManager(sessionStore, session.Options{
		CookieName: cfg.Session.CookieName,
		Secure:     cfg.Session.Secure,
		MaxAgeMS:   cfg.Session.MaxAgeMS,
	}, log)

	return &AppHandlers{
		Auth:      auth.NewAuthHandlers(authService, log),
		Companies: companies.NewCompanyHandlers(companyService, log),
		Managers:  managersPkg.NewManagerHandlers(managerService, log),
		Employees: employees.NewEmployeeHandlers(employeeService, log),
		Tags:      tagsPkg.NewTagHandlers(tagService, log),
		Dashboard: dashboard.NewDashboardHandlers(dashboardService, log),
		finder:    authRepo,
		session:   sessionManager,
	}
}

func setupRouter(r *gin.Engine, h *AppHandlers, log *zap.Logger) {
	r.Use(h.session.Middleware())

	protect := middleware.Protect(h.finder, log)
	staffOnly := middleware.Authorize(models.RoleManager, models.RoleSupervisor)
	managerOnly := middleware.Authorize(models.RoleManager)

	v1 := r.Group("/api/v1")

	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/forgotpassword", h.Auth.ForgotPassword)
		authGroup.POST("/logout", protect, h.Auth.Logout)
		authGroup.GET("/me", protect, h.Auth.GetMe)

		authGroup.GET("/users", protect, staffOnly, h.Auth.GetUsers)
		authGroup.GET("/users/:id", protect, staffOnly, h.Auth.GetUser)
		authGroup.PUT("/users/:id", protect, managerOnly, h.Auth.UpdateUser)
		authGroup.DELETE("/users/:id", protect, managerOnly, h.Auth.DeleteUser)
	}

	companyGroup := v1.Group("/company", protect)
	{
		companyGroup.POST("/create", h.Companies.CreateCompany)
		companyGroup.GET("/all", h.Companies.GetAllCompanies)
		companyGroup.GET("/:id", h.Companies.GetCompany)
		companyGroup.PUT("/:id", h.Companies.UpdateCompany)
		companyGroup.DELETE("/:id", h.Companies.DeleteCompany)
	}

	managerGroup := v1.Group("/manager", protect)
	{
		managerGroup.POST("/create", h.Managers.CreateManager)
		managerGroup.GET("/all", h.Managers.GetAllManagers)
		managerGroup.GET("/:id", h.Managers.GetManager)
		managerGroup.PUT("/:id", h.Managers.UpdateManager)
		managerGroup.DELETE("/:id", h.Managers.DeleteManager)
	}

	employeeGroup := v1.Group("/employee", protect)
	{
		employeeGroup.POST("/create", h.Employees.CreateEmployee)
		employeeGroup.GET("/all", h.Employees.GetAllEmployees)
		employeeGroup.GET("/:id", h.Employees.GetEmployee)
		employeeGroup.PUT("/:id", h.Employees.UpdateEmployee)
		employeeGroup.DELETE("/:id", h.Employees.DeleteEmployee)
	}

	tagGroup := v1.Group("/tagCreation", protect)
	{
		tagGroup.POST("", h.Tags.CreateTag)
		tagGroup.GET("/all", h.Tags.GetAllTags)
		tagGroup.GET("/getAllTopics", h.Tags.GetAllTopics)
		tagGroup.POST("/assignTopicsEmployee", h.Tags.AssignTopicsEmployee)
		tagGroup.GET("/:id", h.Tags.GetTag)
		tagGroup.PUT("/:id", h.Tags.UpdateTag)
		tagGroup.DELETE("/:id", h.Tags.DeleteTag)
	}

	dashboardGroup := v1.Group("/managerDashboard", protect, staffOnly)
	{
		dashboardGroup.GET("/getAllCompanies", h.Dashboard.GetAllCompanies)
		dashboardGroup.GET("/getAllDevices", h.Dashboard.GetAllDevices)
	}

	r.GET("/", func(c *gin.Context) {
		c.String(200, "Sarayu admin API is running...")
	})
}
