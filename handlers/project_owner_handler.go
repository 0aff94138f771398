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

type ProjectOwnerHandler struct {
	ownerRepo   repository.ProjectOwnerRepository
	projectRepo repository.ProjectRepository
	paymentRepo repository.PaymentRepository
}

func NewProjectOwnerHandler(ownerRepo repository.ProjectOwnerRepository, projectRepo repository.ProjectRepository, paymentRepo repository.PaymentRepository) *ProjectOwnerHandler {
	return &ProjectOwnerHandler{
		ownerRepo:   ownerRepo,
		projectRepo: projectRepo,
		paymentRepo: paymentRepo,
	}
}

// CreateProjectOwner godoc
// @Summary Create Project Owner
// @Description Adds a new project owner (admin only)
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param owner body models.ProjectOwnerCreatePayload true "New owner data"
// @Success 201 {object} object{message=string,id=string} "Owner created"
// @Failure 400 {object} models.ValidationErrorResponse "Invalid request body or validation error"
// @Failure 409 {object} models.ErrorResponse "Phone number already registered"
// @Failure 500 {object} models.ErrorResponse "Failed to create owner"
// @Router /admin/project-owners [post]
func (h *ProjectOwnerHandler) CreateProjectOwner(c *fiber.Ctx) error {
	var payload models.ProjectOwnerCreatePayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if errs := util.ValidateStruct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	newOwner := &models.ProjectOwner{
		Name:              payload.Name,
		Email:             payload.Email,
		Phone:             payload.Phone,
		Address:           payload.Address,
		Company:           payload.Company,
		TotalProjectValue: payload.TotalProjectValue,
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	result, err := h.ownerRepo.CreateOwner(ctx, newOwner)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicatePhone) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Phone number already registered"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create project owner", "details": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Project owner created successfully",
		"id":      result.InsertedID,
	})
}

// GetAllProjectOwners godoc
// @Summary Get All Project Owners
// @Description Lists all project owners
// @Tags ProjectOwners
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.ProjectOwner "Owners retrieved"
// @Failure 500 {object} models.ErrorResponse "Failed to fetch owners"
// @Router /project-owners [get]
func (h *ProjectOwnerHandler) GetAllProjectOwners(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	owners, err := h.ownerRepo.GetAllOwners(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch project owners", "details": err.Error()})
	}
	return c.Status(fiber.StatusOK).JSON(owners)
}

// GetProjectOwnerByID godoc
// @Summary Get Project Owner by ID
// @Description Fetches one project owner
// @Tags ProjectOwners
// @Produce json
// @Security BearerAuth
// @Param id path string true "Owner ID"
// @Success 200 {object} models.ProjectOwner "Owner found"
// @Failure 400 {object} models.ErrorResponse "Invalid ID format"
// @Failure 404 {object} models.ErrorResponse "Owner not found"
// @Failure 500 {object} models.ErrorResponse "Failed to fetch owner"
// @Router /project-owners/{id} [get]
func (h *ProjectOwnerHandler) GetProjectOwnerByID(c *fiber.Ctx) error {
	objID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid owner ID format"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	owner, err := h.ownerRepo.FindOwnerByID(ctx, objID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch project owner", "details": err.Error()})
	}
	if owner == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Project owner not found"})
	}
	return c.Status(fiber.StatusOK).JSON(owner)
}

// GetProjectOwnerPayments godoc
// @Summary Get Project Owner Payments
// @Description Lists payments received from one owner, optionally within a date range
// @Tags ProjectOwners
// @Produce json
// @Security BearerAuth
// @Param id path string true "Owner ID"
// @Param start_date query string false "Range start (YYYY-MM-DD)"
// @Param end_date query string false "Range end (YYYY-MM-DD)"
// @Success 200 {array} models.Payment "Payments retrieved"
// @Failure 400 {object} models.ErrorResponse "Invalid ID format"
// @Failure 404 {object} models.ErrorResponse "Owner not found"
// @Failure 500 {object} models.ErrorResponse "Failed to fetch payments"
// @Router /project-owners/{id}/payments [get]
func (h *ProjectOwnerHandler) GetProjectOwnerPayments(c *fiber.Ctx) error {
	objID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid owner ID format"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	owner, err := h.ownerRepo.FindOwnerByID(ctx, objID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch project owner", "details": err.Error()})
	}
	if owner == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Project owner not found"})
	}

	payments, err := h.paymentRepo.FindByOwner(ctx, objID, c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch payments", "details": err.Error()})
	}
	return c.Status(fiber.StatusOK).JSON(payments)
}

// UpdateProjectOwner godoc
// @Summary Update Project Owner
// @Description Updates owner details (admin only). paid_amount and balance_amount are ledger-managed;
// @Description changing total_project_value recomputes balance_amount against the paid total.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Owner ID"
// @Param owner body models.ProjectOwnerUpdatePayload true "Owner update data"
// @Success 200 {object} object{message=string} "Owner updated"
// @Failure 400 {object} models.ValidationErrorResponse "Invalid request body, ID format, or validation error"
// @Failure 404 {object} models.ErrorResponse "Owner not found"
// @Failure 409 {object} models.ErrorResponse "Phone number already registered"
// @Failure 500 {object} models.ErrorResponse "Failed to update owner"
// @Router /admin/project-owners/{id} [put]
func (h *ProjectOwnerHandler) UpdateProjectOwner(c *fiber.Ctx) error {
	objID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid owner ID format"})
	}

	var payload models.ProjectOwnerUpdatePayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if errs := util.ValidateStruct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	updateData := bson.M{}
	if payload.Name != "" {
		updateData["name"] = payload.Name
	}
	if payload.Email != "" {
		updateData["email"] = payload.Email
	}
	if payload.Phone != "" {
		updateData["phone"] = payload.Phone
	}
	if payload.Address != "" {
		updateData["address"] = payload.Address
	}
	if payload.Company != "" {
		updateData["company"] = payload.Company
	}
	if payload.TotalProjectValue != nil {
		owner, err := h.ownerRepo.FindOwnerByID(ctx, objID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch project owner", "details": err.Error()})
		}
		if owner == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Project owner not found"})
		}
		updateData["total_project_value"] = *payload.TotalProjectValue
		updateData["balance_amount"] = *payload.TotalProjectValue - owner.PaidAmount
	}

	if len(updateData) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No fields to update"})
	}

	result, err := h.ownerRepo.UpdateOwner(ctx, objID, updateData)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicatePhone) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Phone number already registered"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update project owner", "details": err.Error()})
	}
	if result.MatchedCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Project owner not found"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Project owner updated successfully"})
}

// DeleteProjectOwner godoc
// @Summary Delete Project Owner
// @Description Removes a project owner (admin only). Refused while projects reference the owner.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Owner ID"
// @Success 200 {object} models.DeleteSuccessResponse "Owner removed"
// @Failure 400 {object} models.ErrorResponse "Invalid ID format or owner still referenced"
// @Failure 404 {object} models.ErrorResponse "Owner not found"
// @Failure 500 {object} models.ErrorResponse "Failed to delete owner"
// @Router /admin/project-owners/{id} [delete]
func (h *ProjectOwnerHandler) DeleteProjectOwner(c *fiber.Ctx) error {
	objID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid owner ID format"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	refs, err := h.projectRepo.CountProjectsByOwner(ctx, objID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to check owner references", "details": err.Error()})
	}
	if refs > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot delete owner with existing projects"})
	}

	result, err := h.ownerRepo.DeleteOwner(ctx, objID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete project owner", "details": err.Error()})
	}
	if result.DeletedCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Project owner not found"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Project owner removed"})
}
