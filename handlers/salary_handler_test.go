package handlers

import (
	"context"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"construction-management/ledger"
	"construction-management/models"
)

func newSalaryTestApp(policy ledger.NegativePolicy, salaries *mockSalaryRepo, workers *mockWorkerRepo) *fiber.App {
	projects := newMockProjectRepo()
	svc := ledger.NewService(workers, projects, newMockOwnerRepo(), policy)
	h := NewSalaryHandler(salaries, workers, projects, svc)

	app := fiber.New()
	app.Post("/salaries", h.CreateSalary)
	app.Put("/salaries/:id", h.UpdateSalary)
	app.Delete("/salaries/:id", h.DeleteSalary)
	return app
}

func TestCreateSalaryDebitsWorker(t *testing.T) {
	workerID := primitive.NewObjectID()
	workers := newMockWorkerRepo(&models.Worker{ID: workerID, DailySalary: 800, PendingSalary: 1000})
	salaries := newMockSalaryRepo()
	app := newSalaryTestApp(ledger.PolicyClamp, salaries, workers)

	status := doJSON(t, app, "POST", "/salaries", fiber.Map{
		"worker_id": workerID.Hex(),
		"amount":    600,
	})
	if status != fiber.StatusCreated {
		t.Fatalf("status = %d, want %d", status, fiber.StatusCreated)
	}
	if got := workers.workers[workerID].PendingSalary; got != 400 {
		t.Fatalf("pending salary = %v, want 400", got)
	}
	if len(salaries.records) != 1 {
		t.Fatalf("stored records = %d, want 1", len(salaries.records))
	}
}

func TestCreateSalaryExceedsPendingUnderErrorPolicy(t *testing.T) {
	workerID := primitive.NewObjectID()
	workers := newMockWorkerRepo(&models.Worker{ID: workerID, DailySalary: 800, PendingSalary: 400})
	salaries := newMockSalaryRepo()
	app := newSalaryTestApp(ledger.PolicyError, salaries, workers)

	status := doJSON(t, app, "POST", "/salaries", fiber.Map{
		"worker_id": workerID.Hex(),
		"amount":    600,
	})
	if status != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want %d", status, fiber.StatusBadRequest)
	}
	// The rejected debit must leave no orphan salary record behind.
	if len(salaries.records) != 0 {
		t.Fatalf("stored records = %d, want 0", len(salaries.records))
	}
	if got := workers.workers[workerID].PendingSalary; got != 400 {
		t.Fatalf("pending salary = %v, want 400 (unchanged)", got)
	}
}

func TestCreateSalaryRestoresDebitWhenInsertFails(t *testing.T) {
	workerID := primitive.NewObjectID()
	workers := newMockWorkerRepo(&models.Worker{ID: workerID, DailySalary: 800, PendingSalary: 1000})
	salaries := newMockSalaryRepo()
	salaries.failing = true
	app := newSalaryTestApp(ledger.PolicyClamp, salaries, workers)

	status := doJSON(t, app, "POST", "/salaries", fiber.Map{
		"worker_id": workerID.Hex(),
		"amount":    600,
	})
	if status != fiber.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", status, fiber.StatusInternalServerError)
	}
	if got := workers.workers[workerID].PendingSalary; got != 1000 {
		t.Fatalf("pending salary = %v, want 1000 (restored)", got)
	}
}

func TestCreateSalaryMissingWorker(t *testing.T) {
	app := newSalaryTestApp(ledger.PolicyClamp, newMockSalaryRepo(), newMockWorkerRepo())

	status := doJSON(t, app, "POST", "/salaries", fiber.Map{
		"worker_id": primitive.NewObjectID().Hex(),
		"amount":    600,
	})
	if status != fiber.StatusNotFound {
		t.Fatalf("status = %d, want %d", status, fiber.StatusNotFound)
	}
}

func TestUpdateSalaryAdjustsByNetDifference(t *testing.T) {
	workerID := primitive.NewObjectID()
	workers := newMockWorkerRepo(&models.Worker{ID: workerID, DailySalary: 800, PendingSalary: 1000})
	salaries := newMockSalaryRepo()
	app := newSalaryTestApp(ledger.PolicyClamp, salaries, workers)

	salary := &models.Salary{WorkerID: workerID, Amount: 600, Date: "2025-03-01", PaymentMethod: "cash"}
	if _, err := salaries.CreateSalary(context.Background(), salary); err != nil {
		t.Fatal(err)
	}

	status := doJSON(t, app, "PUT", "/salaries/"+salary.ID.Hex(), fiber.Map{"amount": 800})
	if status != fiber.StatusOK {
		t.Fatalf("status = %d, want %d", status, fiber.StatusOK)
	}
	if got := workers.workers[workerID].PendingSalary; got != 800 {
		t.Fatalf("pending salary = %v, want 800 (debited by the 200 difference)", got)
	}
	if got := salaries.records[salary.ID].Amount; got != 800 {
		t.Fatalf("stored amount = %v, want 800", got)
	}
}

func TestDeleteSalaryRestoresPending(t *testing.T) {
	workerID := primitive.NewObjectID()
	workers := newMockWorkerRepo(&models.Worker{ID: workerID, DailySalary: 800, PendingSalary: 400})
	salaries := newMockSalaryRepo()
	app := newSalaryTestApp(ledger.PolicyClamp, salaries, workers)

	salary := &models.Salary{WorkerID: workerID, Amount: 600, Date: "2025-03-01", PaymentMethod: "cash"}
	if _, err := salaries.CreateSalary(context.Background(), salary); err != nil {
		t.Fatal(err)
	}

	target := "/salaries/" + salary.ID.Hex()
	if status := doJSON(t, app, "DELETE", target, nil); status != fiber.StatusOK {
		t.Fatalf("delete status = %d, want %d", status, fiber.StatusOK)
	}
	if got := workers.workers[workerID].PendingSalary; got != 1000 {
		t.Fatalf("pending salary = %v, want 1000 (restored)", got)
	}

	if status := doJSON(t, app, "DELETE", target, nil); status != fiber.StatusNotFound {
		t.Fatalf("second delete status = %d, want %d", status, fiber.StatusNotFound)
	}
	// A repeated delete must not restore the amount twice.
	if got := workers.workers[workerID].PendingSalary; got != 1000 {
		t.Fatalf("pending salary after repeated delete = %v, want 1000", got)
	}
}
