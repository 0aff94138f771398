package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"construction-management/models"
	util "construction-management/pkg/utils"
	"construction-management/repository"
)

type WorkerHandler struct {
	workerRepo     repository.WorkerRepository
	attendanceRepo repository.AttendanceRepository
	salaryRepo     repository.SalaryRepository
}

func NewWorkerHandler(workerRepo repository.WorkerRepository, attendanceRepo repository.AttendanceRepository, salaryRepo repository.SalaryRepository) *WorkerHandler {
	return &WorkerHandler{
		workerRepo:     workerRepo,
		attendanceRepo: attendanceRepo,
		salaryRepo:     salaryRepo,
	}
}

// CreateWorker godoc
// @Summary Create Worker
// @Description Adds a new worker (admin only)
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param worker body models.WorkerCreatePayload true "New worker data"
// @Success 201 {object} object{message=string,id=string} "Worker created"
// @Failure 400 {object} models.ValidationErrorResponse "Invalid request body or validation error"
// @Failure 409 {object} models.ErrorResponse "Phone number already registered"
// @Failure 500 {object} models.ErrorResponse "Failed to create worker"
// @Router /admin/workers [post]
func (h *WorkerHandler) CreateWorker(c *fiber.Ctx) error {
	var payload models.WorkerCreatePayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if errs := util.ValidateStruct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	newWorker := &models.Worker{
		Name:          payload.Name,
		Phone:         payload.Phone,
		Email:         payload.Email,
		Role:          payload.Role,
		Address:       payload.Address,
		DailySalary:   payload.DailySalary,
		MonthlySalary: payload.MonthlySalary,
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	result, err := h.workerRepo.CreateWorker(ctx, newWorker)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicatePhone) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Phone number already registered"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create worker", "details": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Worker created successfully",
		"id":      result.InsertedID,
	})
}

// GetAllWorkers godoc
// @Summary Get All Workers
// @Description Lists all workers
// @Tags Workers
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Worker "Workers retrieved"
// @Failure 500 {object} models.ErrorResponse "Failed to fetch workers"
// @Router /workers [get]
func (h *WorkerHandler) GetAllWorkers(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	workers, err := h.workerRepo.GetAllWorkers(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch workers", "details": err.Error()})
	}
	return c.Status(fiber.StatusOK).JSON(workers)
}

// GetWorkerByID godoc
// @Summary Get Worker by ID
// @Description Fetches one worker
// @Tags Workers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Worker ID"
// @Success 200 {object} models.Worker "Worker found"
// @Failure 400 {object} models.ErrorResponse "Invalid ID format"
// @Failure 404 {object} models.ErrorResponse "Worker not found"
// @Failure 500 {object} models.ErrorResponse "Failed to fetch worker"
// @Router /workers/{id} [get]
func (h *WorkerHandler) GetWorkerByID(c *fiber.Ctx) error {
	objID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid worker ID format"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	worker, err := h.workerRepo.FindWorkerByID(ctx, objID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch worker", "details": err.Error()})
	}
	if worker == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Worker not found"})
	}
	return c.Status(fiber.StatusOK).JSON(worker)
}

// GetWorkerAttendance godoc
// @Summary Get Worker Attendance
// @Description Lists a worker's attendance records, optionally within a date range
// @Tags Workers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Worker ID"
// @Param start_date query string false "Range start (YYYY-MM-DD)"
// @Param end_date query string false "Range end (YYYY-MM-DD)"
// @Success 200 {array} models.Attendance "Attendance retrieved"
// @Failure 400 {object} models.ErrorResponse "Invalid ID format"
// @Failure 404 {object} models.ErrorResponse "Worker not found"
// @Failure 500 {object} models.ErrorResponse "Failed to fetch attendance"
// @Router /workers/{id}/attendance [get]
func (h *WorkerHandler) GetWorkerAttendance(c *fiber.Ctx) error {
	objID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid worker ID format"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	worker, err := h.workerRepo.FindWorkerByID(ctx, objID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch worker", "details": err.Error()})
	}
	if worker == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Worker not found"})
	}

	records, err := h.attendanceRepo.FindByWorker(ctx, objID, c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch attendance", "details": err.Error()})
	}
	return c.Status(fiber.StatusOK).JSON(records)
}

// GetWorkerSalaries godoc
// @Summary Get Worker Salaries
// @Description Lists a worker's salary payments, optionally within a date range
// @Tags Workers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Worker ID"
// @Param start_date query string false "Range start (YYYY-MM-DD)"
// @Param end_date query string false "Range end (YYYY-MM-DD)"
// @Success 200 {array} models.Salary "Salaries retrieved"
// @Failure 400 {object} models.ErrorResponse "Invalid ID format"
// @Failure 404 {object} models.ErrorResponse "Worker not found"
// @Failure 500 {object} models.ErrorResponse "Failed to fetch salaries"
// @Router /workers/{id}/salaries [get]
func (h *WorkerHandler) GetWorkerSalaries(c *fiber.Ctx) error {
	objID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid worker ID format"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	worker, err := h.workerRepo.FindWorkerByID(ctx, objID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch worker", "details": err.Error()})
	}
	if worker == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Worker not found"})
	}

	salaries, err := h.salaryRepo.FindByWorker(ctx, objID, c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch salaries", "details": err.Error()})
	}
	return c.Status(fiber.StatusOK).JSON(salaries)
}

// UpdateWorker godoc
// @Summary Update Worker
// @Description Updates worker details (admin only). Balance fields are not editable here.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Worker ID"
// @Param worker body models.WorkerUpdatePayload true "Worker update data"
// @Success 200 {object} object{message=string} "Worker updated"
// @Failure 400 {object} models.ValidationErrorResponse "Invalid request body, ID format, or validation error"
// @Failure 404 {object} models.ErrorResponse "Worker not found"
// @Failure 409 {object} models.ErrorResponse "Phone number already registered"
// @Failure 500 {object} models.ErrorResponse "Failed to update worker"
// @Router /admin/workers/{id} [put]
func (h *WorkerHandler) UpdateWorker(c *fiber.Ctx) error {
	objID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid worker ID format"})
	}

	var payload models.WorkerUpdatePayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if errs := util.ValidateStruct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	updateData := bson.M{}
	if payload.Name != "" {
		updateData["name"] = payload.Name
	}
	if payload.Phone != "" {
		updateData["phone"] = payload.Phone
	}
	if payload.Email != "" {
		updateData["email"] = payload.Email
	}
	if payload.Role != "" {
		updateData["role"] = payload.Role
	}
	if payload.Address != "" {
		updateData["address"] = payload.Address
	}
	if payload.DailySalary != nil {
		updateData["daily_salary"] = *payload.DailySalary
	}
	if payload.MonthlySalary != nil {
		updateData["monthly_salary"] = *payload.MonthlySalary
	}
	if payload.IsActive != nil {
		updateData["is_active"] = *payload.IsActive
	}

	if len(updateData) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No fields to update"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	result, err := h.workerRepo.UpdateWorker(ctx, objID, updateData)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicatePhone) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Phone number already registered"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update worker", "details": err.Error()})
	}
	if result.MatchedCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Worker not found"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Worker updated successfully"})
}

// DeleteWorker godoc
// @Summary Delete Worker
// @Description Removes a worker (admin only). Refused while attendance records exist.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Worker ID"
// @Success 200 {object} models.DeleteSuccessResponse "Worker removed"
// @Failure 400 {object} models.ErrorResponse "Invalid ID format or worker still referenced"
// @Failure 404 {object} models.ErrorResponse "Worker not found"
// @Failure 500 {object} models.ErrorResponse "Failed to delete worker"
// @Router /admin/workers/{id} [delete]
func (h *WorkerHandler) DeleteWorker(c *fiber.Ctx) error {
	objID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid worker ID format"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	refs, err := h.attendanceRepo.CountByWorker(ctx, objID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to check worker references", "details": err.Error()})
	}
	if refs > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot delete worker with existing attendance records"})
	}

	result, err := h.workerRepo.DeleteWorker(ctx, objID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete worker", "details": err.Error()})
	}
	if result.DeletedCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Worker not found"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Worker removed"})
}
