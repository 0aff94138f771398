package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"construction-management/ledger"
	"construction-management/models"
)

func newAttendanceTestApp(workers *mockWorkerRepo, attendance *mockAttendanceRepo, projects *mockProjectRepo) *fiber.App {
	svc := ledger.NewService(workers, projects, newMockOwnerRepo(), ledger.PolicyClamp)
	h := NewAttendanceHandler(attendance, workers, projects, svc)

	app := fiber.New()
	app.Post("/attendance", h.CreateAttendance)
	app.Put("/attendance/:id", h.UpdateAttendance)
	app.Delete("/attendance/:id", h.DeleteAttendance)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body interface{}) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestCreateAttendanceCreditsWorker(t *testing.T) {
	workerID := primitive.NewObjectID()
	projectID := primitive.NewObjectID()
	workers := newMockWorkerRepo(&models.Worker{ID: workerID, DailySalary: 800})
	projects := newMockProjectRepo(&models.Project{ID: projectID, TotalAmount: 100000})
	attendance := newMockAttendanceRepo()
	app := newAttendanceTestApp(workers, attendance, projects)

	status := doJSON(t, app, "POST", "/attendance", fiber.Map{
		"date":           "2025-03-03",
		"worker_id":      workerID.Hex(),
		"project_id":     projectID.Hex(),
		"status":         "present",
		"overtime_hours": 2,
	})
	if status != fiber.StatusCreated {
		t.Fatalf("status = %d, want %d", status, fiber.StatusCreated)
	}
	if got := workers.workers[workerID].PendingSalary; got != 1000 {
		t.Fatalf("pending salary = %v, want 1000", got)
	}
}

func TestCreateAttendanceDuplicateDayConflicts(t *testing.T) {
	workerID := primitive.NewObjectID()
	projectID := primitive.NewObjectID()
	workers := newMockWorkerRepo(&models.Worker{ID: workerID, DailySalary: 800})
	projects := newMockProjectRepo(&models.Project{ID: projectID, TotalAmount: 100000})
	attendance := newMockAttendanceRepo()
	app := newAttendanceTestApp(workers, attendance, projects)

	payload := fiber.Map{
		"date":       "2025-03-03",
		"worker_id":  workerID.Hex(),
		"project_id": projectID.Hex(),
		"status":     "present",
	}
	if status := doJSON(t, app, "POST", "/attendance", payload); status != fiber.StatusCreated {
		t.Fatalf("first create status = %d, want %d", status, fiber.StatusCreated)
	}
	if status := doJSON(t, app, "POST", "/attendance", payload); status != fiber.StatusConflict {
		t.Fatalf("second create status = %d, want %d", status, fiber.StatusConflict)
	}
	// The rejected record must not credit the worker a second time.
	if got := workers.workers[workerID].PendingSalary; got != 800 {
		t.Fatalf("pending salary = %v, want 800", got)
	}
}

func TestCreateAttendanceMissingWorker(t *testing.T) {
	projectID := primitive.NewObjectID()
	workers := newMockWorkerRepo()
	projects := newMockProjectRepo(&models.Project{ID: projectID, TotalAmount: 100000})
	app := newAttendanceTestApp(workers, newMockAttendanceRepo(), projects)

	status := doJSON(t, app, "POST", "/attendance", fiber.Map{
		"date":       "2025-03-03",
		"worker_id":  primitive.NewObjectID().Hex(),
		"project_id": projectID.Hex(),
		"status":     "present",
	})
	if status != fiber.StatusNotFound {
		t.Fatalf("status = %d, want %d", status, fiber.StatusNotFound)
	}
}

func TestUpdateAttendanceAdjustsCredit(t *testing.T) {
	workerID := primitive.NewObjectID()
	projectID := primitive.NewObjectID()
	workers := newMockWorkerRepo(&models.Worker{ID: workerID, DailySalary: 800})
	projects := newMockProjectRepo(&models.Project{ID: projectID, TotalAmount: 100000})
	attendance := newMockAttendanceRepo()
	app := newAttendanceTestApp(workers, attendance, projects)

	record := &models.Attendance{
		Date:      "2025-03-03",
		WorkerID:  workerID,
		ProjectID: projectID,
		Status:    models.AttendancePresent,
	}
	if _, err := attendance.CreateAttendance(context.Background(), record); err != nil {
		t.Fatal(err)
	}
	workers.workers[workerID].PendingSalary = 800

	status := doJSON(t, app, "PUT", "/attendance/"+record.ID.Hex(), fiber.Map{"status": "halfday"})
	if status != fiber.StatusOK {
		t.Fatalf("status = %d, want %d", status, fiber.StatusOK)
	}
	if got := workers.workers[workerID].PendingSalary; got != 400 {
		t.Fatalf("pending salary = %v, want 400", got)
	}
}

func TestDeleteAttendanceIsIdempotent(t *testing.T) {
	workerID := primitive.NewObjectID()
	projectID := primitive.NewObjectID()
	workers := newMockWorkerRepo(&models.Worker{ID: workerID, DailySalary: 800})
	projects := newMockProjectRepo(&models.Project{ID: projectID, TotalAmount: 100000})
	attendance := newMockAttendanceRepo()
	app := newAttendanceTestApp(workers, attendance, projects)

	record := &models.Attendance{
		Date:      "2025-03-03",
		WorkerID:  workerID,
		ProjectID: projectID,
		Status:    models.AttendancePresent,
	}
	if _, err := attendance.CreateAttendance(context.Background(), record); err != nil {
		t.Fatal(err)
	}
	workers.workers[workerID].PendingSalary = 800

	target := fmt.Sprintf("/attendance/%s", record.ID.Hex())
	if status := doJSON(t, app, "DELETE", target, nil); status != fiber.StatusOK {
		t.Fatalf("first delete status = %d, want %d", status, fiber.StatusOK)
	}
	if got := workers.workers[workerID].PendingSalary; got != 0 {
		t.Fatalf("pending salary after delete = %v, want 0", got)
	}

	if status := doJSON(t, app, "DELETE", target, nil); status != fiber.StatusNotFound {
		t.Fatalf("second delete status = %d, want %d", status, fiber.StatusNotFound)
	}
	// A repeated delete must not reverse the credit twice.
	if got := workers.workers[workerID].PendingSalary; got != 0 {
		t.Fatalf("pending salary after repeated delete = %v, want 0", got)
	}
}
