package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"

	"construction-management/models"
	util "construction-management/pkg/utils"
	"construction-management/repository"
)

type ReportHandler struct {
	projectRepo    repository.ProjectRepository
	materialRepo   repository.MaterialRepository
	paymentRepo    repository.PaymentRepository
	salaryRepo     repository.SalaryRepository
	attendanceRepo repository.AttendanceRepository
}

func NewReportHandler(
	projectRepo repository.ProjectRepository,
	materialRepo repository.MaterialRepository,
	paymentRepo repository.PaymentRepository,
	salaryRepo repository.SalaryRepository,
	attendanceRepo repository.AttendanceRepository,
) *ReportHandler {
	return &ReportHandler{
		projectRepo:    projectRepo,
		materialRepo:   materialRepo,
		paymentRepo:    paymentRepo,
		salaryRepo:     salaryRepo,
		attendanceRepo: attendanceRepo,
	}
}

// GetFinancialReport godoc
// @Summary Get Financial Report
// @Description Project-wise material cost, payments, salaries, expenses and net profit
// @Description over a date range
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param start_date query string true "Range start (YYYY-MM-DD)"
// @Param end_date query string true "Range end (YYYY-MM-DD)"
// @Success 200 {array} models.ProjectFinancialRow "Report rows"
// @Failure 400 {object} models.ErrorResponse "Missing or invalid date range"
// @Failure 500 {object} models.ErrorResponse "Failed to build report"
// @Router /reports/financial [get]
func (h *ReportHandler) GetFinancialReport(c *fiber.Ctx) error {
	startDate, endDate := c.Query("start_date"), c.Query("end_date")
	if startDate == "" || endDate == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "start_date and end_date are required"})
	}
	layout := "2006-01-02"
	if _, err := time.Parse(layout, startDate); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid start_date format, expected YYYY-MM-DD"})
	}
	if _, err := time.Parse(layout, endDate); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid end_date format, expected YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	projects, err := h.projectRepo.GetAllProjects(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch projects", "details": err.Error()})
	}

	dateRange := bson.M{"$gte": startDate, "$lte": endDate}
	rows := make([]models.ProjectFinancialRow, 0, len(projects))
	for _, project := range projects {
		materials, err := h.materialRepo.GetAllMaterials(ctx, bson.M{"project_id": project.ID, "purchase_date": dateRange})
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch materials", "details": err.Error()})
		}
		payments, err := h.paymentRepo.GetAllPayments(ctx, bson.M{"project_id": project.ID, "date": dateRange})
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch payments", "details": err.Error()})
		}
		salaries, err := h.salaryRepo.GetAllSalaries(ctx, bson.M{"project_id": project.ID, "date": dateRange})
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch salaries", "details": err.Error()})
		}

		row := models.ProjectFinancialRow{Project: project}
		for _, m := range materials {
			row.MaterialCost += m.TotalCost
		}
		for _, p := range payments {
			row.PaymentAmount += p.Amount
		}
		for _, s := range salaries {
			row.SalaryAmount += s.Amount
		}
		row.Expenses = row.MaterialCost + row.SalaryAmount
		row.NetProfit = row.PaymentAmount - row.Expenses
		rows = append(rows, row)
	}

	return c.Status(fiber.StatusOK).JSON(rows)
}

// GetAttendanceReport godoc
// @Summary Get Attendance Report
// @Description Attendance counts over a date range, grouped by date, worker or project.
// @Description Includes the number of scheduled workdays (Mon-Sat) in the range.
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param start_date query string true "Range start (YYYY-MM-DD)"
// @Param end_date query string true "Range end (YYYY-MM-DD)"
// @Param group_by query string false "Bucket key: date (default), worker or project"
// @Success 200 {object} object{scheduled_workdays=int,rows=array} "Report rows"
// @Failure 400 {object} models.ErrorResponse "Missing or invalid date range"
// @Failure 500 {object} models.ErrorResponse "Failed to build report"
// @Router /reports/attendance [get]
func (h *ReportHandler) GetAttendanceReport(c *fiber.Ctx) error {
	startDate, endDate := c.Query("start_date"), c.Query("end_date")
	if startDate == "" || endDate == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "start_date and end_date are required"})
	}

	workdays, err := util.CountScheduledWorkdays(startDate, endDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date range", "details": err.Error()})
	}

	groupBy := c.Query("group_by", "date")
	switch groupBy {
	case "date", "worker", "project":
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "group_by must be one of date, worker, project"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	rows, err := h.attendanceRepo.Report(ctx, startDate, endDate, groupBy)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build attendance report", "details": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"scheduled_workdays": workdays,
		"group_by":           groupBy,
		"rows":               rows,
	})
}
