package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"construction-management/ledger"
	"construction-management/models"
)

func newPaymentTestApp(payments *mockPaymentRepo, projects *mockProjectRepo, owners *mockOwnerRepo) *fiber.App {
	svc := ledger.NewService(newMockWorkerRepo(), projects, owners, ledger.PolicyClamp)
	h := NewPaymentHandler(payments, projects, owners, svc)

	app := fiber.New()
	app.Post("/payments", h.CreatePayment)
	app.Get("/payments/:id/receipt", h.GetPaymentReceipt)
	app.Put("/payments/:id", h.UpdatePayment)
	app.Delete("/payments/:id", h.DeletePayment)
	return app
}

func TestCreateAndDeletePaymentRoundTrip(t *testing.T) {
	projectID := primitive.NewObjectID()
	ownerID := primitive.NewObjectID()
	projects := newMockProjectRepo(&models.Project{ID: projectID, TotalAmount: 100000, PendingAmount: 100000, CurrentBalance: 100000})
	owners := newMockOwnerRepo(&models.ProjectOwner{ID: ownerID, TotalProjectValue: 100000, BalanceAmount: 100000})
	payments := newMockPaymentRepo()
	app := newPaymentTestApp(payments, projects, owners)

	status := doJSON(t, app, "POST", "/payments", fiber.Map{
		"project_id":       projectID.Hex(),
		"project_owner_id": ownerID.Hex(),
		"amount":           30000,
	})
	if status != fiber.StatusCreated {
		t.Fatalf("create status = %d, want %d", status, fiber.StatusCreated)
	}

	p := projects.projects[projectID]
	if p.PaidAmount != 30000 || p.PendingAmount != 70000 {
		t.Fatalf("project paid=%v pending=%v, want 30000/70000", p.PaidAmount, p.PendingAmount)
	}
	o := owners.owners[ownerID]
	if o.PaidAmount != 30000 || o.BalanceAmount != 70000 {
		t.Fatalf("owner paid=%v balance=%v, want 30000/70000", o.PaidAmount, o.BalanceAmount)
	}

	var paymentID primitive.ObjectID
	for id := range payments.records {
		paymentID = id
	}
	target := "/payments/" + paymentID.Hex()
	if status := doJSON(t, app, "DELETE", target, nil); status != fiber.StatusOK {
		t.Fatalf("delete status = %d, want %d", status, fiber.StatusOK)
	}
	if p.PaidAmount != 0 || p.PendingAmount != 100000 {
		t.Fatalf("project after delete paid=%v pending=%v, want 0/100000", p.PaidAmount, p.PendingAmount)
	}
	if o.PaidAmount != 0 || o.BalanceAmount != 100000 {
		t.Fatalf("owner after delete paid=%v balance=%v, want 0/100000", o.PaidAmount, o.BalanceAmount)
	}

	if status := doJSON(t, app, "DELETE", target, nil); status != fiber.StatusNotFound {
		t.Fatalf("second delete status = %d, want %d", status, fiber.StatusNotFound)
	}
	// A repeated delete must not reverse the balances twice.
	if o.PaidAmount != 0 || p.PaidAmount != 0 {
		t.Fatalf("balances moved on repeated delete: owner paid=%v project paid=%v", o.PaidAmount, p.PaidAmount)
	}
}

func TestCreatePaymentGeneratesReference(t *testing.T) {
	ownerID := primitive.NewObjectID()
	owners := newMockOwnerRepo(&models.ProjectOwner{ID: ownerID, TotalProjectValue: 50000, BalanceAmount: 50000})
	payments := newMockPaymentRepo()
	app := newPaymentTestApp(payments, newMockProjectRepo(), owners)

	body, _ := json.Marshal(fiber.Map{
		"project_owner_id": ownerID.Hex(),
		"amount":           10000,
		"is_advance":       true,
	})
	req := httptest.NewRequest("POST", "/payments", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("POST /payments: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusCreated)
	}

	var out struct {
		Reference string `json:"reference"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.HasPrefix(out.Reference, "PAY-") {
		t.Errorf("reference = %q, want PAY- prefix", out.Reference)
	}
}

func TestCreatePaymentMissingOwner(t *testing.T) {
	app := newPaymentTestApp(newMockPaymentRepo(), newMockProjectRepo(), newMockOwnerRepo())

	status := doJSON(t, app, "POST", "/payments", fiber.Map{
		"project_owner_id": primitive.NewObjectID().Hex(),
		"amount":           10000,
	})
	if status != fiber.StatusNotFound {
		t.Fatalf("status = %d, want %d", status, fiber.StatusNotFound)
	}
}

func TestUpdatePaymentAmountRepostsDelta(t *testing.T) {
	projectID := primitive.NewObjectID()
	ownerID := primitive.NewObjectID()
	projects := newMockProjectRepo(&models.Project{ID: projectID, TotalAmount: 100000, PaidAmount: 30000, PendingAmount: 70000, CurrentBalance: 130000})
	owners := newMockOwnerRepo(&models.ProjectOwner{ID: ownerID, TotalProjectValue: 100000, PaidAmount: 30000, BalanceAmount: 70000})
	payments := newMockPaymentRepo()
	app := newPaymentTestApp(payments, projects, owners)

	payment := &models.Payment{ProjectID: projectID, ProjectOwnerID: ownerID, Amount: 30000, Reference: "PAY-test", Date: "2025-03-01"}
	if _, err := payments.CreatePayment(context.Background(), payment); err != nil {
		t.Fatal(err)
	}

	status := doJSON(t, app, "PUT", "/payments/"+payment.ID.Hex(), fiber.Map{"amount": 45000})
	if status != fiber.StatusOK {
		t.Fatalf("status = %d, want %d", status, fiber.StatusOK)
	}
	p := projects.projects[projectID]
	if p.PaidAmount != 45000 || p.PendingAmount != 55000 {
		t.Fatalf("project paid=%v pending=%v, want 45000/55000", p.PaidAmount, p.PendingAmount)
	}
	o := owners.owners[ownerID]
	if o.PaidAmount != 45000 || o.BalanceAmount != 55000 {
		t.Fatalf("owner paid=%v balance=%v, want 45000/55000", o.PaidAmount, o.BalanceAmount)
	}
}

func TestGetPaymentReceipt(t *testing.T) {
	ownerID := primitive.NewObjectID()
	payments := newMockPaymentRepo()
	app := newPaymentTestApp(payments, newMockProjectRepo(), newMockOwnerRepo())

	payment := &models.Payment{ProjectOwnerID: ownerID, Amount: 25000, Reference: "PAY-receipt", Date: "2025-03-01"}
	if _, err := payments.CreatePayment(context.Background(), payment); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("GET", "/payments/"+payment.ID.Hex()+"/receipt", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("GET receipt: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusOK)
	}

	raw, _ := io.ReadAll(resp.Body)
	var out struct {
		Reference   string `json:"reference"`
		QRCodeImage string `json:"qr_code_image"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Reference != "PAY-receipt" {
		t.Errorf("reference = %q, want PAY-receipt", out.Reference)
	}
	if !strings.HasPrefix(out.QRCodeImage, "data:image/png;base64,") {
		t.Errorf("qr_code_image missing data URL prefix: %.40q", out.QRCodeImage)
	}
}
