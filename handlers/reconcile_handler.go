package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"construction-management/ledger"
)

type ReconcileHandler struct {
	reconciler *ledger.Reconciler
}

func NewReconcileHandler(reconciler *ledger.Reconciler) *ReconcileHandler {
	return &ReconcileHandler{reconciler: reconciler}
}

// ReconcileWorker godoc
// @Summary Reconcile Worker Balance
// @Description Recomputes a worker's pending salary from the live attendance and salary
// @Description records and stores the result (admin only)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Worker ID"
// @Success 200 {object} object{message=string,pending_salary=number} "Worker reconciled"
// @Failure 400 {object} models.ErrorResponse "Invalid ID format"
// @Failure 404 {object} models.ErrorResponse "Worker not found"
// @Failure 500 {object} models.ErrorResponse "Failed to reconcile worker"
// @Router /admin/reconcile/workers/{id} [post]
func (h *ReconcileHandler) ReconcileWorker(c *fiber.Ctx) error {
	objID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid worker ID format"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	pending, found, err := h.reconciler.ReconcileWorker(ctx, objID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to reconcile worker", "details": err.Error()})
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Worker not found"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":        "Worker balance reconciled",
		"pending_salary": pending,
	})
}

// ReconcileProject godoc
// @Summary Reconcile Project Financials
// @Description Recomputes a project's paid, pending and current balance from the live
// @Description material and payment records and stores the result (admin only)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Success 200 {object} object{message=string,paid_amount=number,pending_amount=number,current_balance=number} "Project reconciled"
// @Failure 400 {object} models.ErrorResponse "Invalid ID format"
// @Failure 404 {object} models.ErrorResponse "Project not found"
// @Failure 500 {object} models.ErrorResponse "Failed to reconcile project"
// @Router /admin/reconcile/projects/{id} [post]
func (h *ReconcileHandler) ReconcileProject(c *fiber.Ctx) error {
	objID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID format"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	paid, pending, balance, found, err := h.reconciler.ReconcileProject(ctx, objID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to reconcile project", "details": err.Error()})
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Project not found"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":         "Project financials reconciled",
		"paid_amount":     paid,
		"pending_amount":  pending,
		"current_balance": balance,
	})
}

// ReconcileOwner godoc
// @Summary Reconcile Owner Financials
// @Description Recomputes an owner's paid and balance amounts from the live payment
// @Description records and stores the result (admin only)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Owner ID"
// @Success 200 {object} object{message=string,paid_amount=number,balance_amount=number} "Owner reconciled"
// @Failure 400 {object} models.ErrorResponse "Invalid ID format"
// @Failure 404 {object} models.ErrorResponse "Owner not found"
// @Failure 500 {object} models.ErrorResponse "Failed to reconcile owner"
// @Router /admin/reconcile/owners/{id} [post]
func (h *ReconcileHandler) ReconcileOwner(c *fiber.Ctx) error {
	objID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid owner ID format"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	paid, balance, found, err := h.reconciler.ReconcileOwner(ctx, objID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to reconcile owner", "details": err.Error()})
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Project owner not found"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":        "Owner financials reconciled",
		"paid_amount":    paid,
		"balance_amount": balance,
	})
}
