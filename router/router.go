package router

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"construction-management/config"
	"construction-management/config/middleware"
	_ "construction-management/docs"
	"construction-management/handlers"
	"construction-management/ledger"
	"construction-management/repository"
)

func SetupRoutes(app *fiber.App) {
	cfg := config.LoadConfig()

	userRepo := repository.NewUserRepository()
	workerRepo := repository.NewWorkerRepository()
	projectRepo := repository.NewProjectRepository()
	ownerRepo := repository.NewProjectOwnerRepository()
	materialRepo := repository.NewMaterialRepository()
	attendanceRepo := repository.NewAttendanceRepository()
	salaryRepo := repository.NewSalaryRepository()
	paymentRepo := repository.NewPaymentRepository()

	policy := ledger.NegativePolicy(cfg.NegativeSalaryPolicy)
	ledgerSvc := ledger.NewService(workerRepo, projectRepo, ownerRepo, policy)
	reconciler := ledger.NewReconciler(workerRepo, projectRepo, ownerRepo,
		attendanceRepo, salaryRepo, materialRepo, paymentRepo, policy)

	authHandler := handlers.NewAuthHandler(userRepo)
	workerHandler := handlers.NewWorkerHandler(workerRepo, attendanceRepo, salaryRepo)
	projectHandler := handlers.NewProjectHandler(projectRepo, ownerRepo, materialRepo, paymentRepo, salaryRepo)
	ownerHandler := handlers.NewProjectOwnerHandler(ownerRepo, projectRepo, paymentRepo)
	materialHandler := handlers.NewMaterialHandler(materialRepo, projectRepo, ledgerSvc)
	attendanceHandler := handlers.NewAttendanceHandler(attendanceRepo, workerRepo, projectRepo, ledgerSvc)
	salaryHandler := handlers.NewSalaryHandler(salaryRepo, workerRepo, projectRepo, ledgerSvc)
	paymentHandler := handlers.NewPaymentHandler(paymentRepo, projectRepo, ownerRepo, ledgerSvc)
	dashboardHandler := handlers.NewDashboardHandler(workerRepo, projectRepo, ownerRepo, materialRepo, paymentRepo, salaryRepo, attendanceRepo)
	reportHandler := handlers.NewReportHandler(projectRepo, materialRepo, paymentRepo, salaryRepo, attendanceRepo)
	reconcileHandler := handlers.NewReconcileHandler(reconciler)

	// Health check & Docs
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Construction Management API",
			"status":  "running",
			"docs":    "/docs/index.html",
		})
	})
	app.Get("/docs/*", swagger.HandlerDefault)

	api := app.Group("/api/v1")

	// Authentication
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", middleware.AuthMiddleware(), authHandler.Logout)
	authGroup.Post("/register", middleware.AuthMiddleware(), middleware.AdminMiddleware(), authHandler.Register)

	userGroup := api.Group("/users", middleware.AuthMiddleware())
	userGroup.Post("/change-password", authHandler.ChangePassword)

	// Reads for any authenticated user, mutations behind the admin group.
	protected := api.Group("/", middleware.AuthMiddleware())
	adminGroup := api.Group("/admin", middleware.AuthMiddleware(), middleware.AdminMiddleware())

	// Workers
	protected.Get("/workers", workerHandler.GetAllWorkers)
	protected.Get("/workers/:id", workerHandler.GetWorkerByID)
	protected.Get("/workers/:id/attendance", workerHandler.GetWorkerAttendance)
	protected.Get("/workers/:id/salaries", workerHandler.GetWorkerSalaries)
	adminGroup.Post("/workers", workerHandler.CreateWorker)
	adminGroup.Put("/workers/:id", workerHandler.UpdateWorker)
	adminGroup.Delete("/workers/:id", workerHandler.DeleteWorker)

	// Projects
	protected.Get("/projects", projectHandler.GetAllProjects)
	protected.Get("/projects/:id", projectHandler.GetProjectByID)
	protected.Get("/projects/:id/finance", projectHandler.GetProjectFinance)
	adminGroup.Post("/projects", projectHandler.CreateProject)
	adminGroup.Put("/projects/:id", projectHandler.UpdateProject)
	adminGroup.Delete("/projects/:id", projectHandler.DeleteProject)

	// Project owners
	protected.Get("/project-owners", ownerHandler.GetAllProjectOwners)
	protected.Get("/project-owners/:id", ownerHandler.GetProjectOwnerByID)
	protected.Get("/project-owners/:id/payments", ownerHandler.GetProjectOwnerPayments)
	adminGroup.Post("/project-owners", ownerHandler.CreateProjectOwner)
	adminGroup.Put("/project-owners/:id", ownerHandler.UpdateProjectOwner)
	adminGroup.Delete("/project-owners/:id", ownerHandler.DeleteProjectOwner)

	// Materials
	protected.Get("/materials", materialHandler.GetAllMaterials)
	protected.Get("/materials/:id", materialHandler.GetMaterialByID)
	adminGroup.Post("/materials", materialHandler.CreateMaterial)
	adminGroup.Put("/materials/:id", materialHandler.UpdateMaterial)
	adminGroup.Delete("/materials/:id", materialHandler.DeleteMaterial)

	// Attendance
	protected.Get("/attendance", attendanceHandler.GetAllAttendance)
	protected.Get("/attendance/:id", attendanceHandler.GetAttendanceByID)
	adminGroup.Post("/attendance", attendanceHandler.CreateAttendance)
	adminGroup.Put("/attendance/:id", attendanceHandler.UpdateAttendance)
	adminGroup.Delete("/attendance/:id", attendanceHandler.DeleteAttendance)

	// Salaries
	protected.Get("/salaries", salaryHandler.GetAllSalaries)
	protected.Get("/salaries/:id", salaryHandler.GetSalaryByID)
	adminGroup.Post("/salaries", salaryHandler.CreateSalary)
	adminGroup.Put("/salaries/:id", salaryHandler.UpdateSalary)
	adminGroup.Delete("/salaries/:id", salaryHandler.DeleteSalary)

	// Payments
	protected.Get("/payments", paymentHandler.GetAllPayments)
	protected.Get("/payments/:id", paymentHandler.GetPaymentByID)
	protected.Get("/payments/:id/receipt", paymentHandler.GetPaymentReceipt)
	adminGroup.Post("/payments", paymentHandler.CreatePayment)
	adminGroup.Put("/payments/:id", paymentHandler.UpdatePayment)
	adminGroup.Delete("/payments/:id", paymentHandler.DeletePayment)

	// Dashboard & reports
	protected.Get("/dashboard/stats", dashboardHandler.GetStats)
	protected.Get("/dashboard/activities", dashboardHandler.GetActivities)
	protected.Get("/dashboard/upcoming-payments", dashboardHandler.GetUpcomingPayments)
	protected.Get("/reports/financial", reportHandler.GetFinancialReport)
	protected.Get("/reports/attendance", reportHandler.GetAttendanceReport)

	// Reconciliation
	adminGroup.Post("/reconcile/workers/:id", reconcileHandler.ReconcileWorker)
	adminGroup.Post("/reconcile/projects/:id", reconcileHandler.ReconcileProject)
	adminGroup.Post("/reconcile/owners/:id", reconcileHandler.ReconcileOwner)

	log.Println("Routes registered. Swagger documentation at /docs/index.html")
}
