package handlers

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"construction-management/ledger"
	"construction-management/models"
	util "construction-management/pkg/utils"
	"construction-management/repository"
)

type PaymentHandler struct {
	paymentRepo repository.PaymentRepository
	projectRepo repository.ProjectRepository
	ownerRepo   repository.ProjectOwnerRepository
	ledger      *ledger.Service
}

func NewPaymentHandler(paymentRepo repository.PaymentRepository, projectRepo repository.ProjectRepository, ownerRepo repository.ProjectOwnerRepository, ledgerSvc *ledger.Service) *PaymentHandler {
	return &PaymentHandler{
		paymentRepo: paymentRepo,
		projectRepo: projectRepo,
		ownerRepo:   ownerRepo,
		ledger:      ledgerSvc,
	}
}

// CreatePayment godoc
// @Summary Create Payment
// @Description Records a payment received from a client (admin only). Credits the project's
// @Description paid/pending/current balance and the owner's paid/balance totals. A missing
// @Description reference gets a generated one.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payment body models.PaymentCreatePayload true "New payment data"
// @Success 201 {object} object{message=string,id=string,reference=string} "Payment created"
// @Failure 400 {object} models.ValidationErrorResponse "Invalid request body or validation error"
// @Failure 404 {object} models.ErrorResponse "Project owner or project not found"
// @Failure 500 {object} models.ErrorResponse "Failed to create payment"
// @Router /admin/payments [post]
func (h *PaymentHandler) CreatePayment(c *fiber.Ctx) error {
	var payload models.PaymentCreatePayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if errs := util.ValidateStruct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	ownerID, err := primitive.ObjectIDFromHex(payload.ProjectOwnerID)
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

	newPayment := &models.Payment{
		ProjectOwnerID: ownerID,
		Amount:         payload.Amount,
		Date:           payload.Date,
		PaymentMethod:  payload.PaymentMethod,
		Reference:      payload.Reference,
		IsAdvance:      payload.IsAdvance,
		Description:    payload.Description,
		Notes:          payload.Notes,
	}
	if newPayment.Date == "" {
		newPayment.Date = time.Now().Format("2006-01-02")
	}
	if newPayment.PaymentMethod == "" {
		newPayment.PaymentMethod = "cash"
	}
	if newPayment.Reference == "" {
		newPayment.Reference = "PAY-" + uuid.New().String()
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
		newPayment.ProjectID = projectID
	}

	result, err := h.paymentRepo.CreatePayment(ctx, newPayment)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create payment", "details": err.Error()})
	}

	if err := h.ledger.PostPaymentCreate(ctx, newPayment); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Payment stored but balance posting failed", "details": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "Payment created successfully",
		"id":        result.InsertedID,
		"reference": newPayment.Reference,
	})
}

// GetAllPayments godoc
// @Summary Get All Payments
// @Description Lists payments, optionally filtered by project, owner or date range
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param project_id query string false "Filter by project ID"
// @Param project_owner_id query string false "Filter by owner ID"
// @Param start_date query string false "Range start (YYYY-MM-DD)"
// @Param end_date query string false "Range end (YYYY-MM-DD)"
// @Success 200 {array} models.Payment "Payments retrieved"
// @Failure 400 {object} models.ErrorResponse "Invalid filter format"
// @Failure 500 {object} models.ErrorResponse "Failed to fetch payments"
// @Router /payments [get]
func (h *PaymentHandler) GetAllPayments(c *fiber.Ctx) error {
	filter := bson.M{}
	if raw := c.Query("project_id"); raw != "" {
		projectID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID format"})
		}
		filter["project_id"] = projectID
	}
	if raw := c.Query("project_owner_id"); raw != "" {
		ownerID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid owner ID format"})
		}
		filter["project_owner_id"] = ownerID
	}
	if start, end := c.Query("start_date"), c.Query("end_date"); start != "" && end != "" {
		filter["date"] = bson.M{"$gte": start, "$lte": end}
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	payments, err := h.paymentRepo.GetAllPayments(ctx, filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch payments", "details": err.Error()})
	}
	return c.Status(fiber.StatusOK).JSON(payments)
}

// GetPaymentByID godoc
// @Summary Get Payment by ID
// @Description Fetches one payment
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 200 {object} models.Payment "Payment found"
// @Failure 400 {object} models.ErrorResponse "Invalid ID format"
// @Failure 404 {object} models.ErrorResponse "Payment not found"
// @Failure 500 {object} models.ErrorResponse "Failed to fetch payment"
// @Router /payments/{id} [get]
func (h *PaymentHandler) GetPaymentByID(c *fiber.Ctx) error {
	objID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payment ID format"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	payment, err := h.paymentRepo.FindPaymentByID(ctx, objID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch payment", "details": err.Error()})
	}
	if payment == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payment not found"})
	}
	return c.Status(fiber.StatusOK).JSON(payment)
}

// GetPaymentReceipt godoc
// @Summary Get Payment Receipt QR
// @Description Renders a QR code encoding the payment reference, amount and date,
// @Description returned as a base64 PNG data URL
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 200 {object} object{reference=string,qr_code_image=string} "Receipt QR generated"
// @Failure 400 {object} models.ErrorResponse "Invalid ID format"
// @Failure 404 {object} models.ErrorResponse "Payment not found"
// @Failure 500 {object} models.ErrorResponse "Failed to generate receipt"
// @Router /payments/{id}/receipt [get]
func (h *PaymentHandler) GetPaymentReceipt(c *fiber.Ctx) error {
	objID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payment ID format"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	payment, err := h.paymentRepo.FindPaymentByID(ctx, objID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch payment", "details": err.Error()})
	}
	if payment == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payment not found"})
	}

	receipt := fmt.Sprintf("%s|%.2f|%s", payment.Reference, payment.Amount, payment.Date)
	png, err := qrcode.Encode(receipt, qrcode.Medium, 256)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate receipt QR code"})
	}

	encoded := base64.StdEncoding.EncodeToString(png)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"reference":     payment.Reference,
		"qr_code_image": "data:image/png;base64," + encoded,
	})
}

// UpdatePayment godoc
// @Summary Update Payment
// @Description Updates a payment (admin only). Amount or project changes are re-posted
// @Description against the affected project and owner balances.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Param payment body models.PaymentUpdatePayload true "Payment update data"
// @Success 200 {object} object{message=string} "Payment updated"
// @Failure 400 {object} models.ValidationErrorResponse "Invalid request body, ID format, or validation error"
// @Failure 404 {object} models.ErrorResponse "Payment or target project not found"
// @Failure 500 {object} models.ErrorResponse "Failed to update payment"
// @Router /admin/payments/{id} [put]
func (h *PaymentHandler) UpdatePayment(c *fiber.Ctx) error {
	objID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payment ID format"})
	}

	var payload models.PaymentUpdatePayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if errs := util.ValidateStruct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	// The ledger adjustment needs the stored record, not the client's copy.
	old, err := h.paymentRepo.FindPaymentByID(ctx, objID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch payment", "details": err.Error()})
	}
	if old == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payment not found"})
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
	if payload.Reference != "" {
		updated.Reference = payload.Reference
		updateData["reference"] = payload.Reference
	}
	if payload.IsAdvance != nil {
		updated.IsAdvance = *payload.IsAdvance
		updateData["is_advance"] = *payload.IsAdvance
	}
	if payload.Description != "" {
		updated.Description = payload.Description
		updateData["description"] = payload.Description
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

	result, err := h.paymentRepo.UpdatePayment(ctx, objID, updateData)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update payment", "details": err.Error()})
	}
	if result.MatchedCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payment not found"})
	}

	if err := h.ledger.PostPaymentUpdate(ctx, old, &updated); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Payment updated but balance posting failed", "details": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Payment updated successfully"})
}

// DeletePayment godoc
// @Summary Delete Payment
// @Description Removes a payment (admin only) and reverses its credits on the project and
// @Description owner. The reversal is posted only when this call actually removed the
// @Description record, so a repeated delete cannot double-debit the balances.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 200 {object} models.DeleteSuccessResponse "Payment removed"
// @Failure 400 {object} models.ErrorResponse "Invalid ID format"
// @Failure 404 {object} models.ErrorResponse "Payment not found"
// @Failure 500 {object} models.ErrorResponse "Failed to delete payment"
// @Router /admin/payments/{id} [delete]
func (h *PaymentHandler) DeletePayment(c *fiber.Ctx) error {
	objID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payment ID format"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	payment, err := h.paymentRepo.FindPaymentByID(ctx, objID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch payment", "details": err.Error()})
	}
	if payment == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payment not found"})
	}

	result, err := h.paymentRepo.DeletePayment(ctx, objID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete payment", "details": err.Error()})
	}
	if result.DeletedCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payment not found"})
	}

	if err := h.ledger.PostPaymentDelete(ctx, payment); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Payment removed but balance posting failed", "details": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Payment removed"})
}
