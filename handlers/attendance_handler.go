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

type AttendanceHandler struct {
	attendanceRepo repository.AttendanceRepository
	workerRepo     repository.WorkerRepository
	projectRepo    repository.ProjectRepository
	ledger         *ledger.Service
}

func NewAttendanceHandler(attendanceRepo repository.AttendanceRepository, workerRepo repository.WorkerRepository, projectRepo repository.ProjectRepository, ledgerSvc *ledger.Service) *AttendanceHandler {
	return &AttendanceHandler{
		attendanceRepo: attendanceRepo,
		workerRepo:     workerRepo,
		projectRepo:    projectRepo,
		ledger:         ledgerSvc,
	}
}

// CreateAttendance godoc
// @Summary Create Attendance
// @Description Records one worker-day (admin only) and credits the worker's pending salary.
// @Description One record per worker and date; a second submission returns 409.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param attendance body models.AttendanceCreatePayload true "New attendance data"
// @Success 201 {object} object{message=string,id=string} "Attendance created"
// @Failure 400 {object} models.ValidationErrorResponse "Invalid request body or validation error"
// @Failure 404 {object} models.ErrorResponse "Worker or project not found"
// @Failure 409 {object} models.ErrorResponse "Attendance already recorded for this worker and date"
// @Failure 500 {object} models.ErrorResponse "Failed to create attendance"
// @Router /admin/attendance [post]
func (h *AttendanceHandler) CreateAttendance(c *fiber.Ctx) error {
	var payload models.AttendanceCreatePayload
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
	projectID, err := primitive.ObjectIDFromHex(payload.ProjectID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID format"})
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

	project, err := h.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to check project", "details": err.Error()})
	}
	if project == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Project not found"})
	}

	newAttendance := &models.Attendance{
		Date:          payload.Date,
		WorkerID:      workerID,
		ProjectID:     projectID,
		Status:        payload.Status,
		OvertimeHours: payload.OvertimeHours,
		Notes:         payload.Notes,
	}

	result, err := h.attendanceRepo.CreateAttendance(ctx, newAttendance)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateAttendance) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Attendance already recorded for this worker and date"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create attendance", "details": err.Error()})
	}

	if err := h.ledger.PostAttendanceCreate(ctx, newAttendance); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Attendance stored but salary posting failed", "details": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Attendance created successfully",
		"id":      result.InsertedID,
	})
}

// GetAllAttendance godoc
// @Summary Get All Attendance
// @Description Lists attendance records with worker and project details.
// @Description Filters: start_date, end_date, worker_id, project_id.
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param start_date query string false "Range start (YYYY-MM-DD)"
// @Param end_date query string false "Range end (YYYY-MM-DD)"
// @Param worker_id query string false "Filter by worker ID"
// @Param project_id query string false "Filter by project ID"
// @Success 200 {array} models.AttendanceWithDetails "Attendance retrieved"
// @Failure 400 {object} models.ErrorResponse "Invalid filter format"
// @Failure 500 {object} models.ErrorResponse "Failed to fetch attendance"
// @Router /attendance [get]
func (h *AttendanceHandler) GetAllAttendance(c *fiber.Ctx) error {
	filter := bson.M{}
	if start, end := c.Query("start_date"), c.Query("end_date"); start != "" && end != "" {
		filter["date"] = bson.M{"$gte": start, "$lte": end}
	}
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

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	records, err := h.attendanceRepo.GetAllAttendanceWithDetails(ctx, filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch attendance", "details": err.Error()})
	}
	return c.Status(fiber.StatusOK).JSON(records)
}

// GetAttendanceByID godoc
// @Summary Get Attendance by ID
// @Description Fetches one attendance record
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param id path string true "Attendance ID"
// @Success 200 {object} models.Attendance "Attendance found"
// @Failure 400 {object} models.ErrorResponse "Invalid ID format"
// @Failure 404 {object} models.ErrorResponse "Attendance not found"
// @Failure 500 {object} models.ErrorResponse "Failed to fetch attendance"
// @Router /attendance/{id} [get]
func (h *AttendanceHandler) GetAttendanceByID(c *fiber.Ctx) error {
	objID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid attendance ID format"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	attendance, err := h.attendanceRepo.FindAttendanceByID(ctx, objID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch attendance", "details": err.Error()})
	}
	if attendance == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Attendance not found"})
	}
	return c.Status(fiber.StatusOK).JSON(attendance)
}

// UpdateAttendance godoc
// @Summary Update Attendance
// @Description Updates status or overtime (admin only). The worker's pending salary is
// @Description adjusted by the net difference between the old and new earned amounts.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Attendance ID"
// @Param attendance body models.AttendanceUpdatePayload true "Attendance update data"
// @Success 200 {object} object{message=string} "Attendance updated"
// @Failure 400 {object} models.ValidationErrorResponse "Invalid request body, ID format, or validation error"
// @Failure 404 {object} models.ErrorResponse "Attendance not found"
// @Failure 500 {object} models.ErrorResponse "Failed to update attendance"
// @Router /admin/attendance/{id} [put]
func (h *AttendanceHandler) UpdateAttendance(c *fiber.Ctx) error {
	objID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid attendance ID format"})
	}

	var payload models.AttendanceUpdatePayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if errs := util.ValidateStruct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	// The ledger adjustment needs the stored record, not the client's copy.
	old, err := h.attendanceRepo.FindAttendanceByID(ctx, objID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch attendance", "details": err.Error()})
	}
	if old == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Attendance not found"})
	}

	updated := *old
	updateData := bson.M{}
	if payload.Status != "" {
		updated.Status = payload.Status
		updateData["status"] = payload.Status
	}
	if payload.OvertimeHours != nil {
		updated.OvertimeHours = *payload.OvertimeHours
		updateData["overtime_hours"] = *payload.OvertimeHours
	}
	if payload.Notes != "" {
		updated.Notes = payload.Notes
		updateData["notes"] = payload.Notes
	}

	if len(updateData) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No fields to update"})
	}

	result, err := h.attendanceRepo.UpdateAttendance(ctx, objID, updateData)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update attendance", "details": err.Error()})
	}
	if result.MatchedCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Attendance not found"})
	}

	if err := h.ledger.PostAttendanceUpdate(ctx, old, &updated); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Attendance updated but salary posting failed", "details": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Attendance updated successfully"})
}

// DeleteAttendance godoc
// @Summary Delete Attendance
// @Description Removes an attendance record (admin only) and reverses its salary credit.
// @Description The reversal is posted only when this call actually removed the record,
// @Description so a repeated delete cannot double-debit the worker.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Attendance ID"
// @Success 200 {object} models.DeleteSuccessResponse "Attendance removed"
// @Failure 400 {object} models.ErrorResponse "Invalid ID format"
// @Failure 404 {object} models.ErrorResponse "Attendance not found"
// @Failure 500 {object} models.ErrorResponse "Failed to delete attendance"
// @Router /admin/attendance/{id} [delete]
func (h *AttendanceHandler) DeleteAttendance(c *fiber.Ctx) error {
	objID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid attendance ID format"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	attendance, err := h.attendanceRepo.FindAttendanceByID(ctx, objID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch attendance", "details": err.Error()})
	}
	if attendance == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Attendance not found"})
	}

	result, err := h.attendanceRepo.DeleteAttendance(ctx, objID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete attendance", "details": err.Error()})
	}
	if result.DeletedCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Attendance not found"})
	}

	if err := h.ledger.PostAttendanceDelete(ctx, attendance); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Attendance removed but salary posting failed", "details": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Attendance removed"})
}
