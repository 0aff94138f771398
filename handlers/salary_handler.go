package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"construction-management/ledger"
	"construction-management/models"
	util "construction-management/pkg/utils"
	"construction-management/repository"
)

type SalaryHandler struct {
	salaryRepo  repository.SalaryRepository
	workerRepo  repository.WorkerRepository
	projectRepo repository.ProjectRepository
	ledger      *ledger.Service
}

func NewSalaryHandler(salaryRepo repository.SalaryRepository, workerRepo repository.WorkerRepository, projectRepo repository.ProjectRepository, ledgerSvc *ledger.Service) *SalaryHandler {
	return &SalaryHandler{
		salaryRepo:  salaryRepo,
		workerRepo:  workerRepo,
		projectRepo: projectRepo,
		ledger:      ledgerSvc,
	}
}

// CreateSalary godoc
// @Summary Create Salary Payment
// @Description Records a salary payment (admin only) and debits the worker's pending salary.
// @Description The debit is posted before the record is stored so a rejected debit
// @Description (error policy) leaves no orphan payment behind.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param salary body models.SalaryCreatePayload true "New salary data"
// @Success 201 {object} object{message=string,id=string} "Salary created"
// @Failure 400 {object} models.ValidationErrorResponse "Invalid request body, validation error, or amount exceeds pending salary"
// @Failure 404 {object} models.ErrorResponse "Worker or project not found"
// @Failure 500 {object} models.ErrorResponse "Failed to create salary"
// @Router /admin/salaries [post]
func (h *SalaryHandler) CreateSalary(c *fiber.Ctx) error {
	var payload models.SalaryCreatePayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if errs := util.ValidateStruct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	workerID, err := primitive.ObjectIDFromHex(payload.WorkerID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid worker ID format"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	worker, err := h.workerRepo.FindWorkerByID(ctx, workerID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to check worker", "details": err.Error()})
	}
	if worker == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Worker not found"})
	}

	newSalary := &models.Salary{
		WorkerID:      workerID,
		Amount:        payload.Amount,
		Date:          payload.Date,
		PaymentMethod: payload.PaymentMethod,
		PeriodStart:   payload.PeriodStart,
		PeriodEnd:     payload.PeriodEnd,
		Notes:         payload.Notes,
	}
	if newSalary.Date == "" {
		newSalary.Date = time.Now().Format("2006-01-02")
	}
	if newSalary.PaymentMethod == "" {
		newSalary.PaymentMethod = "cash"
	}
	if payload.ProjectID != "" {
		projectID, err := primitive.ObjectIDFromHex(payload.ProjectID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID format"})
		}
		project, err := h.projectRepo.FindProjectByID(ctx, projectID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to check project", "details": err.Error()})
		}
		if project == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Project not found"})
		}
		newSalary.ProjectID = projectID
	}

	if err := h.ledger.PostSalaryCreate(ctx, newSalary); err != nil {
		if errors.Is(err, ledger.ErrInsufficientPendingSalary) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Salary amount exceeds worker's pending salary"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to debit pending salary", "details": err.Error()})
	}

	result, err := h.salaryRepo.CreateSalary(ctx, newSalary)
	if err != nil {
		// The debit already landed; put the money back.
		if restoreErr := h.ledger.PostSalaryDelete(ctx, newSalary); restoreErr != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create salary and to restore pending balance", "details": restoreErr.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create salary", "details": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Salary created successfully",
		"id":      result.InsertedID,
	})
}

// GetAllSalaries godoc
// @Summary Get All Salaries
// @Description Lists salary payments, optionally filtered by worker, project or date range
// @Tags Salaries
// @Produce json
// @Security BearerAuth
// @Param worker_id query string false "Filter by worker ID"
// @Param project_id query string false "Filter by project ID"
// @Param start_date query string false "Range start (YYYY-MM-DD)"
// @Param end_date query string false "Range end (YYYY-MM-DD)"
// @Success 200 {array} models.Salary "Salaries retrieved"
// @Failure 400 {object} models.ErrorResponse "Invalid filter format"
// @Failure 500 {object} models.ErrorResponse "Failed to fetch salaries"
// @Router /salaries [get]
func (h *SalaryHandler) GetAllSalaries(c *fiber.Ctx) error {
	filter := bson.M{}
	if raw := c.Query("worker_id"); raw != "" {
		workerID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid worker ID format"})
		}
		filter["worker_id"] = workerID
	}
	if raw := c.Query("project_id"); raw != "" {
		projectID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID format"})
		}
		filter["project_id"] = projectID
	}
	if start, end := c.Query("start_date"), c.Query("end_date"); start != "" && end != "" {
		filter["date"] = bson.M{"$gte": start, "$lte": end}
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	salaries, err := h.salaryRepo.GetAllSalaries(ctx, filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch salaries", "details": err.Error()})
	}
	return c.Status(fiber.StatusOK).JSON(salaries)
}

// GetSalaryByID godoc
// @Summary Get Salary by ID
// @Description Fetches one salary payment
// @Tags Salaries
// @Produce json
// @Security BearerAuth
// @Param id path string true "Salary ID"
// @Success 200 {object} models.Salary "Salary found"
// @Failure 400 {object} models.ErrorResponse "Invalid ID format"
// @Failure 404 {object} models.ErrorResponse "Salary not found"
// @Failure 500 {object} models.ErrorResponse "Failed to fetch salary"
// @Router /salaries/{id} [get]
func (h *SalaryHandler) GetSalaryByID(c *fiber.Ctx) error {
	objID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid salary ID format"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	salary, err := h.salaryRepo.FindSalaryByID(ctx, objID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch salary", "details": err.Error()})
	}
	if salary == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Salary not found"})
	}
	return c.Status(fiber.StatusOK).JSON(salary)
}

// UpdateSalary godoc
// @Summary Update Salary Payment
// @Description Updates a salary payment (admin only). An amount change adjusts the worker's
// @Description pending salary by the net difference under the configured policy.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Salary ID"
// @Param salary body models.SalaryUpdatePayload true "Salary update data"
// @Success 200 {object} object{message=string} "Salary updated"
// @Failure 400 {object} models.ValidationErrorResponse "Invalid request body, ID format, validation error, or amount exceeds pending salary"
// @Failure 404 {object} models.ErrorResponse "Salary not found"
// @Failure 500 {object} models.ErrorResponse "Failed to update salary"
// @Router /admin/salaries/{id} [put]
func (h *SalaryHandler) UpdateSalary(c *fiber.Ctx) error {
	objID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid salary ID format"})
	}

	var payload models.SalaryUpdatePayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if errs := util.ValidateStruct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	// The ledger adjustment needs the stored record, not the client's copy.
	old, err := h.salaryRepo.FindSalaryByID(ctx, objID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch salary", "details": err.Error()})
	}
	if old == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Salary not found"})
	}

	updated := *old
	updateData := bson.M{}
	if payload.Amount != nil {
		updated.Amount = *payload.Amount
		updateData["amount"] = *payload.Amount
	}
	if payload.Date != "" {
		updated.Date = payload.Date
		updateData["date"] = payload.Date
	}
	if payload.PaymentMethod != "" {
		updated.PaymentMethod = payload.PaymentMethod
		updateData["payment_method"] = payload.PaymentMethod
	}
	if payload.PeriodStart != "" {
		updated.PeriodStart = payload.PeriodStart
		updateData["period_start"] = payload.PeriodStart
	}
	if payload.PeriodEnd != "" {
		updated.PeriodEnd = payload.PeriodEnd
		updateData["period_end"] = payload.PeriodEnd
	}
	if payload.Notes != "" {
		updated.Notes = payload.Notes
		updateData["notes"] = payload.Notes
	}

	if len(updateData) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No fields to update"})
	}

	if err := h.ledger.PostSalaryUpdate(ctx, old, &updated); err != nil {
		if errors.Is(err, ledger.ErrInsufficientPendingSalary) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Salary amount exceeds worker's pending salary"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to adjust pending salary", "details": err.Error()})
	}

	result, err := h.salaryRepo.UpdateSalary(ctx, objID, updateData)
	if err != nil {
		// The adjustment already landed; reverse it.
		if revertErr := h.ledger.PostSalaryUpdate(ctx, &updated, old); revertErr != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update salary and to reverse the adjustment", "details": revertErr.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update salary", "details": err.Error()})
	}
	if result.MatchedCount == 0 {
		if revertErr := h.ledger.PostSalaryUpdate(ctx, &updated, old); revertErr != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Salary vanished and the adjustment could not be reversed", "details": revertErr.Error()})
		}
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Salary not found"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Salary updated successfully"})
}

// DeleteSalary godoc
// @Summary Delete Salary Payment
// @Description Removes a salary payment (admin only) and restores the paid amount to the
// @Description worker's pending salary. The restore is posted only when this call actually
// @Description removed the record, so a repeated delete cannot double-credit the worker.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Salary ID"
// @Success 200 {object} models.DeleteSuccessResponse "Salary removed"
// @Failure 400 {object} models.ErrorResponse "Invalid ID format"
// @Failure 404 {object} models.ErrorResponse "Salary not found"
// @Failure 500 {object} models.ErrorResponse "Failed to delete salary"
// @Router /admin/salaries/{id} [delete]
func (h *SalaryHandler) DeleteSalary(c *fiber.Ctx) error {
	objID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid salary ID format"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	salary, err := h.salaryRepo.FindSalaryByID(ctx, objID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch salary", "details": err.Error()})
	}
	if salary == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Salary not found"})
	}

	result, err := h.salaryRepo.DeleteSalary(ctx, objID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete salary", "details": err.Error()})
	}
	if result.DeletedCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Salary not found"})
	}

	if err := h.ledger.PostSalaryDelete(ctx, salary); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Salary removed but balance posting failed", "details": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Salary removed"})
}
