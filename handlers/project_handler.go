package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"construction-management/models"
	util "construction-management/pkg/utils"
	"construction-management/repository"
)

type ProjectHandler struct {
	projectRepo  repository.ProjectRepository
	ownerRepo    repository.ProjectOwnerRepository
	materialRepo repository.MaterialRepository
	paymentRepo  repository.PaymentRepository
	salaryRepo   repository.SalaryRepository
}

func NewProjectHandler(
	projectRepo repository.ProjectRepository,
	ownerRepo repository.ProjectOwnerRepository,
	materialRepo repository.MaterialRepository,
	paymentRepo repository.PaymentRepository,
	salaryRepo repository.SalaryRepository,
) *ProjectHandler {
	return &ProjectHandler{
		projectRepo:  projectRepo,
		ownerRepo:    ownerRepo,
		materialRepo: materialRepo,
		paymentRepo:  paymentRepo,
		salaryRepo:   salaryRepo,
	}
}

// CreateProject godoc
// @Summary Create Project
// @Description Adds a new project (admin only). current_balance starts at total_amount.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param project body models.ProjectCreatePayload true "New project data"
// @Success 201 {object} object{message=string,id=string} "Project created"
// @Failure 400 {object} models.ValidationErrorResponse "Invalid request body or validation error"
// @Failure 404 {object} models.ErrorResponse "Project owner not found"
// @Failure 500 {object} models.ErrorResponse "Failed to create project"
// @Router /admin/projects [post]
func (h *ProjectHandler) CreateProject(c *fiber.Ctx) error {
	var payload models.ProjectCreatePayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if errs := util.ValidateStruct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	ownerID, err := primitive.ObjectIDFromHex(payload.OwnerID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid owner ID format"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	owner, err := h.ownerRepo.FindOwnerByID(ctx, ownerID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to check project owner", "details": err.Error()})
	}
	if owner == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Project owner not found"})
	}

	assignedWorkers := make([]primitive.ObjectID, 0, len(payload.AssignedWorkers))
	for _, raw := range payload.AssignedWorkers {
		workerID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid assigned worker ID format"})
		}
		assignedWorkers = append(assignedWorkers, workerID)
	}

	newProject := &models.Project{
		Name:            payload.Name,
		Description:     payload.Description,
		TotalAmount:     payload.TotalAmount,
		Status:          payload.Status,
		OwnerID:         ownerID,
		AssignedWorkers: assignedWorkers,
	}

	result, err := h.projectRepo.CreateProject(ctx, newProject)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create project", "details": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Project created successfully",
		"id":      result.InsertedID,
	})
}

// GetAllProjects godoc
// @Summary Get All Projects
// @Description Lists all projects
// @Tags Projects
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Project "Projects retrieved"
// @Failure 500 {object} models.ErrorResponse "Failed to fetch projects"
// @Router /projects [get]
func (h *ProjectHandler) GetAllProjects(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	projects, err := h.projectRepo.GetAllProjects(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch projects", "details": err.Error()})
	}
	return c.Status(fiber.StatusOK).JSON(projects)
}

// GetProjectByID godoc
// @Summary Get Project by ID
// @Description Fetches one project
// @Tags Projects
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Success 200 {object} models.Project "Project found"
// @Failure 400 {object} models.ErrorResponse "Invalid ID format"
// @Failure 404 {object} models.ErrorResponse "Project not found"
// @Failure 500 {object} models.ErrorResponse "Failed to fetch project"
// @Router /projects/{id} [get]
func (h *ProjectHandler) GetProjectByID(c *fiber.Ctx) error {
	objID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID format"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	project, err := h.projectRepo.FindProjectByID(ctx, objID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch project", "details": err.Error()})
	}
	if project == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Project not found"})
	}
	return c.Status(fiber.StatusOK).JSON(project)
}

// GetProjectFinance godoc
// @Summary Get Project Finance Summary
// @Description Per-project material cost, payments, salaries, expenses and net profit
// @Tags Projects
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Success 200 {object} models.ProjectFinanceSummary "Finance summary"
// @Failure 400 {object} models.ErrorResponse "Invalid ID format"
// @Failure 404 {object} models.ErrorResponse "Project not found"
// @Failure 500 {object} models.ErrorResponse "Failed to build finance summary"
// @Router /projects/{id}/finance [get]
func (h *ProjectHandler) GetProjectFinance(c *fiber.Ctx) error {
	objID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID format"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	project, err := h.projectRepo.FindProjectByID(ctx, objID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch project", "details": err.Error()})
	}
	if project == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Project not found"})
	}

	materials, err := h.materialRepo.LiveByProject(ctx, objID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch materials", "details": err.Error()})
	}
	payments, err := h.paymentRepo.LiveByProject(ctx, objID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch payments", "details": err.Error()})
	}
	salaries, err := h.salaryRepo.GetAllSalaries(ctx, bson.M{"project_id": objID})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch salaries", "details": err.Error()})
	}

	summary := models.ProjectFinanceSummary{
		Project:   project,
		Materials: materials,
		Payments:  payments,
		Salaries:  salaries,
	}
	for _, m := range materials {
		summary.MaterialCost += m.TotalCost
	}
	for _, p := range payments {
		summary.PaymentAmount += p.Amount
	}
	for _, s := range salaries {
		summary.SalaryAmount += s.Amount
	}
	summary.Expenses = summary.MaterialCost + summary.SalaryAmount
	summary.NetProfit = project.TotalAmount - summary.Expenses

	return c.Status(fiber.StatusOK).JSON(summary)
}

// UpdateProject godoc
// @Summary Update Project
// @Description Updates project details (admin only). Financial fields are ledger-managed.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Param project body models.ProjectUpdatePayload true "Project update data"
// @Success 200 {object} object{message=string} "Project updated"
// @Failure 400 {object} models.ValidationErrorResponse "Invalid request body, ID format, or validation error"
// @Failure 404 {object} models.ErrorResponse "Project not found"
// @Failure 500 {object} models.ErrorResponse "Failed to update project"
// @Router /admin/projects/{id} [put]
func (h *ProjectHandler) UpdateProject(c *fiber.Ctx) error {
	objID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID format"})
	}

	var payload models.ProjectUpdatePayload
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
	if payload.Description != "" {
		updateData["description"] = payload.Description
	}
	if payload.Status != "" {
		updateData["status"] = payload.Status
	}
	if payload.AssignedWorkers != nil {
		assignedWorkers := make([]primitive.ObjectID, 0, len(payload.AssignedWorkers))
		for _, raw := range payload.AssignedWorkers {
			workerID, err := primitive.ObjectIDFromHex(raw)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid assigned worker ID format"})
			}
			assignedWorkers = append(assignedWorkers, workerID)
		}
		updateData["assigned_workers"] = assignedWorkers
	}

	if len(updateData) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No fields to update"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	result, err := h.projectRepo.UpdateProject(ctx, objID, updateData)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update project", "details": err.Error()})
	}
	if result.MatchedCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Project not found"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Project updated successfully"})
}

// DeleteProject godoc
// @Summary Delete Project
// @Description Removes a project (admin only). Refused while materials, payments or salaries reference it.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Success 200 {object} models.DeleteSuccessResponse "Project removed"
// @Failure 400 {object} models.ErrorResponse "Invalid ID format or project still referenced"
// @Failure 404 {object} models.ErrorResponse "Project not found"
// @Failure 500 {object} models.ErrorResponse "Failed to delete project"
// @Router /admin/projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(c *fiber.Ctx) error {
	objID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID format"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	materialRefs, err := h.materialRepo.CountByProject(ctx, objID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to check project references", "details": err.Error()})
	}
	paymentRefs, err := h.paymentRepo.CountByProject(ctx, objID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to check project references", "details": err.Error()})
	}
	salaryRefs, err := h.salaryRepo.CountByProject(ctx, objID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to check project references", "details": err.Error()})
	}
	if materialRefs+paymentRefs+salaryRefs > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot delete project with existing materials, payments or salaries"})
	}

	result, err := h.projectRepo.DeleteProject(ctx, objID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete project", "details": err.Error()})
	}
	if result.DeletedCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Project not found"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Project removed"})
}
