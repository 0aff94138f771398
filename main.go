package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"construction-management/config"
	_ "construction-management/docs"
	"construction-management/repository"
	"construction-management/router"
	"construction-management/seeder"
	_ "time/tzdata"
)

// @title Construction Management API
// @version 1.0
// @description API for construction contracting management: workers, projects, materials,
// @description attendance, salaries and payments, with a balance ledger keeping the cached
// @description worker, project and owner aggregates consistent with the transaction records.
//
// @contact.name API Support
//
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
//
// @host localhost:3000
// @BasePath /api/v1
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the PASETO token.
//
// @tag.name Auth
// @tag.description Authentication endpoints
//
// @tag.name Admin
// @tag.description Admin only endpoints
//
// @tag.name Workers
// @tag.description Worker endpoints
//
// @tag.name Projects
// @tag.description Project endpoints
//
// @tag.name ProjectOwners
// @tag.description Project owner endpoints
//
// @tag.name Materials
// @tag.description Material purchase endpoints
//
// @tag.name Attendance
// @tag.description Attendance endpoints
//
// @tag.name Salaries
// @tag.description Salary payment endpoints
//
// @tag.name Payments
// @tag.description Client payment endpoints
//
// @tag.name Dashboard
// @tag.description Dashboard endpoints
//
// @tag.name Reports
// @tag.description Reporting endpoints
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg := config.LoadConfig()

	config.MongoConnect()
	config.InitDatabase()
	defer config.DisconnectDB()

	seeder.SeedAdmin(repository.NewUserRepository())

	app := fiber.New()

	config.SetupCORS(app)
	app.Use(logger.New())

	router.SetupRoutes(app)

	log.Printf("Server running on port %s", cfg.Port)
	log.Printf("API Documentation: http://localhost:%s/docs/index.html", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
