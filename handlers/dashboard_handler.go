package handlers

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"

	"construction-management/models"
	"construction-management/repository"
)

// Projects holding less than this are flagged on the dashboard.
const lowBalanceThreshold = 10000

type DashboardHandler struct {
	workerRepo     repository.WorkerRepository
	projectRepo    repository.ProjectRepository
	ownerRepo      repository.ProjectOwnerRepository
	materialRepo   repository.MaterialRepository
	paymentRepo    repository.PaymentRepository
	salaryRepo     repository.SalaryRepository
	attendanceRepo repository.AttendanceRepository
}

func NewDashboardHandler(
	workerRepo repository.WorkerRepository,
	projectRepo repository.ProjectRepository,
	ownerRepo repository.ProjectOwnerRepository,
	materialRepo repository.MaterialRepository,
	paymentRepo repository.PaymentRepository,
	salaryRepo repository.SalaryRepository,
	attendanceRepo repository.AttendanceRepository,
) *DashboardHandler {
	return &DashboardHandler{
		workerRepo:     workerRepo,
		projectRepo:    projectRepo,
		ownerRepo:      ownerRepo,
		materialRepo:   materialRepo,
		paymentRepo:    paymentRepo,
		salaryRepo:     salaryRepo,
		attendanceRepo: attendanceRepo,
	}
}

// GetStats godoc
// @Summary Get Dashboard Stats
// @Description Company-wide counters and money totals
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.DashboardStats "Stats retrieved"
// @Failure 500 {object} models.ErrorResponse "Failed to build stats"
// @Router /dashboard/stats [get]
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	var stats models.DashboardStats
	var err error

	if stats.TotalProjects, err = h.projectRepo.CountProjects(ctx); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build stats", "details": err.Error()})
	}
	if stats.ActiveProjects, err = h.projectRepo.CountProjectsByStatus(ctx, "in-progress"); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build stats", "details": err.Error()})
	}
	if stats.TotalWorkers, err = h.workerRepo.CountWorkers(ctx); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build stats", "details": err.Error()})
	}
	if stats.TotalOwners, err = h.ownerRepo.CountOwners(ctx); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build stats", "details": err.Error()})
	}
	if stats.TotalMaterialsCost, err = h.materialRepo.TotalMaterialCost(ctx); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build stats", "details": err.Error()})
	}
	if stats.TotalPayments, err = h.paymentRepo.TotalPaymentsReceived(ctx); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build stats", "details": err.Error()})
	}
	if stats.TotalSalaries, err = h.salaryRepo.TotalSalariesPaid(ctx); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build stats", "details": err.Error()})
	}
	if stats.PendingSalaries, err = h.workerRepo.TotalPendingSalaries(ctx); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build stats", "details": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(stats)
}

// GetActivities godoc
// @Summary Get Recent Activities
// @Description The latest attendance, salary and payment records merged into one feed
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Activity "Activities retrieved"
// @Failure 500 {object} models.ErrorResponse "Failed to build activity feed"
// @Router /dashboard/activities [get]
func (h *DashboardHandler) GetActivities(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	const perType = 5

	attendance, err := h.attendanceRepo.RecentAttendance(ctx, perType)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build activity feed", "details": err.Error()})
	}
	salaries, err := h.salaryRepo.RecentSalaries(ctx, perType)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build activity feed", "details": err.Error()})
	}
	payments, err := h.paymentRepo.RecentPayments(ctx, perType)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build activity feed", "details": err.Error()})
	}

	activities := make([]models.Activity, 0, len(attendance)+len(salaries)+len(payments))
	for _, a := range attendance {
		activities = append(activities, models.Activity{
			Type:        "attendance",
			Description: fmt.Sprintf("%s marked %s on %s", a.WorkerName, a.Status, a.ProjectName),
			Date:        a.Date,
			Data:        a,
		})
	}
	for _, s := range salaries {
		activities = append(activities, models.Activity{
			Type:        "salary",
			Description: fmt.Sprintf("Salary payment of %.2f", s.Amount),
			Date:        s.Date,
			Data:        s,
		})
	}
	for _, p := range payments {
		activities = append(activities, models.Activity{
			Type:        "payment",
			Description: fmt.Sprintf("Payment of %.2f received (%s)", p.Amount, p.Reference),
			Date:        p.Date,
			Data:        p,
		})
	}

	// Dates are YYYY-MM-DD strings, so lexicographic order is date order.
	sort.SliceStable(activities, func(i, j int) bool {
		di, _ := activities[i].Date.(string)
		dj, _ := activities[j].Date.(string)
		return di > dj
	})

	return c.Status(fiber.StatusOK).JSON(activities)
}

// GetUpcomingPayments godoc
// @Summary Get Upcoming Payments
// @Description Workers still owed salary and projects running low on balance
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.UpcomingPayments "Upcoming payments retrieved"
// @Failure 500 {object} models.ErrorResponse "Failed to build upcoming payments"
// @Router /dashboard/upcoming-payments [get]
func (h *DashboardHandler) GetUpcomingPayments(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	workers, err := h.workerRepo.WorkersWithPendingSalary(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch pending salaries", "details": err.Error()})
	}

	projects, err := h.projectRepo.LowBalanceProjects(ctx, lowBalanceThreshold)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch low balance projects", "details": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(models.UpcomingPayments{
		PendingSalaries:    workers,
		LowBalanceProjects: projects,
	})
}
