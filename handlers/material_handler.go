package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"construction-management/ledger"
	"construction-management/models"
	util "construction-management/pkg/utils"
	"construction-management/repository"
)

type MaterialHandler struct {
	materialRepo repository.MaterialRepository
	projectRepo  repository.ProjectRepository
	ledger       *ledger.Service
}

func NewMaterialHandler(materialRepo repository.MaterialRepository, projectRepo repository.ProjectRepository, ledgerSvc *ledger.Service) *MaterialHandler {
	return &MaterialHandler{
		materialRepo: materialRepo,
		projectRepo:  projectRepo,
		ledger:       ledgerSvc,
	}
}

// CreateMaterial godoc
// @Summary Create Material Purchase
// @Description Records a material purchase (admin only) and debits the project's current balance.
// @Description total_cost is computed server-side as quantity * unit_price.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param material body models.MaterialCreatePayload true "New material data"
// @Success 201 {object} object{message=string,id=string} "Material created"
// @Failure 400 {object} models.ValidationErrorResponse "Invalid request body or validation error"
// @Failure 404 {object} models.ErrorResponse "Project not found"
// @Failure 500 {object} models.ErrorResponse "Failed to create material"
// @Router /admin/materials [post]
func (h *MaterialHandler) CreateMaterial(c *fiber.Ctx) error {
	var payload models.MaterialCreatePayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if errs := util.ValidateStruct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	projectID, err := primitive.ObjectIDFromHex(payload.ProjectID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID format"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	project, err := h.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to check project", "details": err.Error()})
	}
	if project == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Project not found"})
	}

	purchaseDate := payload.PurchaseDate
	if purchaseDate == "" {
		purchaseDate = time.Now().Format("2006-01-02")
	}

	newMaterial := &models.Material{
		Name:         payload.Name,
		Category:     payload.Category,
		Quantity:     payload.Quantity,
		UnitPrice:    payload.UnitPrice,
		TotalCost:    ledger.MaterialCost(payload.Quantity, payload.UnitPrice),
		Supplier:     payload.Supplier,
		ProjectID:    projectID,
		PurchaseDate: purchaseDate,
		Notes:        payload.Notes,
	}

	result, err := h.materialRepo.CreateMaterial(ctx, newMaterial)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create material", "details": err.Error()})
	}

	if err := h.ledger.PostMaterialCreate(ctx, newMaterial); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Material stored but balance posting failed", "details": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Material created successfully",
		"id":      result.InsertedID,
	})
}

// GetAllMaterials godoc
// @Summary Get All Materials
// @Description Lists material purchases, optionally filtered by project
// @Tags Materials
// @Produce json
// @Security BearerAuth
// @Param project_id query string false "Filter by project ID"
// @Success 200 {array} models.Material "Materials retrieved"
// @Failure 400 {object} models.ErrorResponse "Invalid project ID format"
// @Failure 500 {object} models.ErrorResponse "Failed to fetch materials"
// @Router /materials [get]
func (h *MaterialHandler) GetAllMaterials(c *fiber.Ctx) error {
	filter := bson.M{}
	if raw := c.Query("project_id"); raw != "" {
		projectID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID format"})
		}
		filter["project_id"] = projectID
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	materials, err := h.materialRepo.GetAllMaterials(ctx, filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch materials", "details": err.Error()})
	}
	return c.Status(fiber.StatusOK).JSON(materials)
}

// GetMaterialByID godoc
// @Summary Get Material by ID
// @Description Fetches one material purchase
// @Tags Materials
// @Produce json
// @Security BearerAuth
// @Param id path string true "Material ID"
// @Success 200 {object} models.Material "Material found"
// @Failure 400 {object} models.ErrorResponse "Invalid ID format"
// @Failure 404 {object} models.ErrorResponse "Material not found"
// @Failure 500 {object} models.ErrorResponse "Failed to fetch material"
// @Router /materials/{id} [get]
func (h *MaterialHandler) GetMaterialByID(c *fiber.Ctx) error {
	objID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid material ID format"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	material, err := h.materialRepo.FindMaterialByID(ctx, objID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch material", "details": err.Error()})
	}
	if material == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Material not found"})
	}
	return c.Status(fiber.StatusOK).JSON(material)
}

// UpdateMaterial godoc
// @Summary Update Material Purchase
// @Description Updates a material purchase (admin only) and adjusts the project balance by
// @Description the cost difference. Moving the purchase to another project refunds the old one.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Material ID"
// @Param material body models.MaterialUpdatePayload true "Material update data"
// @Success 200 {object} object{message=string} "Material updated"
// @Failure 400 {object} models.ValidationErrorResponse "Invalid request body, ID format, or validation error"
// @Failure 404 {object} models.ErrorResponse "Material or target project not found"
// @Failure 500 {object} models.ErrorResponse "Failed to update material"
// @Router /admin/materials/{id} [put]
func (h *MaterialHandler) UpdateMaterial(c *fiber.Ctx) error {
	objID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid material ID format"})
	}

	var payload models.MaterialUpdatePayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if errs := util.ValidateStruct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	// The ledger adjustment needs the stored record, not the client's copy.
	old, err := h.materialRepo.FindMaterialByID(ctx, objID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch material", "details": err.Error()})
	}
	if old == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Material not found"})
	}

	updated := *old
	updateData := bson.M{}
	if payload.Name != "" {
		updated.Name = payload.Name
		updateData["name"] = payload.Name
	}
	if payload.Category != "" {
		updated.Category = payload.Category
		updateData["category"] = payload.Category
	}
	if payload.Quantity != nil {
		updated.Quantity = *payload.Quantity
		updateData["quantity"] = *payload.Quantity
	}
	if payload.UnitPrice != nil {
		updated.UnitPrice = *payload.UnitPrice
		updateData["unit_price"] = *payload.UnitPrice
	}
	if payload.Supplier != "" {
		updated.Supplier = payload.Supplier
		updateData["supplier"] = payload.Supplier
	}
	if payload.PurchaseDate != "" {
		updated.PurchaseDate = payload.PurchaseDate
		updateData["purchase_date"] = payload.PurchaseDate
	}
	if payload.Notes != "" {
		updated.Notes = payload.Notes
		updateData["notes"] = payload.Notes
	}
	if payload.ProjectID != "" {
		projectID, err := primitive.ObjectIDFromHex(payload.ProjectID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID format"})
		}
		if projectID != old.ProjectID {
			project, err := h.projectRepo.FindProjectByID(ctx, projectID)
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to check project", "details": err.Error()})
			}
			if project == nil {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Target project not found"})
			}
		}
		updated.ProjectID = projectID
		updateData["project_id"] = projectID
	}

	if len(updateData) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No fields to update"})
	}

	updated.TotalCost = ledger.MaterialCost(updated.Quantity, updated.UnitPrice)
	updateData["total_cost"] = updated.TotalCost

	result, err := h.materialRepo.UpdateMaterial(ctx, objID, updateData)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update material", "details": err.Error()})
	}
	if result.MatchedCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Material not found"})
	}

	if err := h.ledger.PostMaterialUpdate(ctx, old, &updated); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Material updated but balance posting failed", "details": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Material updated successfully"})
}

// DeleteMaterial godoc
// @Summary Delete Material Purchase
// @Description Removes a material purchase (admin only) and refunds the project balance.
// @Description The refund is posted only when this call actually removed the record,
// @Description so a repeated delete cannot double-credit the project.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Material ID"
// @Success 200 {object} models.DeleteSuccessResponse "Material removed"
// @Failure 400 {object} models.ErrorResponse "Invalid ID format"
// @Failure 404 {object} models.ErrorResponse "Material not found"
// @Failure 500 {object} models.ErrorResponse "Failed to delete material"
// @Router /admin/materials/{id} [delete]
func (h *MaterialHandler) DeleteMaterial(c *fiber.Ctx) error {
	objID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid material ID format"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	material, err := h.materialRepo.FindMaterialByID(ctx, objID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch material", "details": err.Error()})
	}
	if material == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Material not found"})
	}

	result, err := h.materialRepo.DeleteMaterial(ctx, objID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete material", "details": err.Error()})
	}
	if result.DeletedCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Material not found"})
	}

	if err := h.ledger.PostMaterialDelete(ctx, material); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Material removed but balance posting failed", "details": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Material removed"})
}
