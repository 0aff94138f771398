package ledger

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"construction-management/models"
)

type fakeAttendanceSource struct {
	byWorker map[primitive.ObjectID][]models.Attendance
}

func (f *fakeAttendanceSource) LiveByWorker(_ context.Context, workerID primitive.ObjectID) ([]models.Attendance, error) {
	return f.byWorker[workerID], nil
}

type fakeSalarySource struct {
	byWorker map[primitive.ObjectID][]models.Salary
}

func (f *fakeSalarySource) LiveByWorker(_ context.Context, workerID primitive.ObjectID) ([]models.Salary, error) {
	return f.byWorker[workerID], nil
}

type fakeMaterialSource struct {
	byProject map[primitive.ObjectID][]models.Material
}

func (f *fakeMaterialSource) LiveByProject(_ context.Context, projectID primitive.ObjectID) ([]models.Material, error) {
	return f.byProject[projectID], nil
}

type fakePaymentSource struct {
	byProject map[primitive.ObjectID][]models.Payment
	byOwner   map[primitive.ObjectID][]models.Payment
}

func (f *fakePaymentSource) LiveByProject(_ context.Context, projectID primitive.ObjectID) ([]models.Payment, error) {
	return f.byProject[projectID], nil
}

func (f *fakePaymentSource) LiveByOwner(_ context.Context, ownerID primitive.ObjectID) ([]models.Payment, error) {
	return f.byOwner[ownerID], nil
}

func TestRecomputePendingSalary(t *testing.T) {
	attendance := []models.Attendance{
		{Status: models.AttendancePresent},                   // 800
		{Status: models.AttendancePresent, OvertimeHours: 2}, // 1000
		{Status: models.AttendanceHalfday},                   // 400
		{Status: models.AttendanceAbsent},                    // 0
	}

	t.Run("earned minus paid", func(t *testing.T) {
		salaries := []models.Salary{{Amount: 1500}}
		got := RecomputePendingSalary(PolicyClamp, 800, attendance, salaries)
		if got != 700 {
			t.Errorf("RecomputePendingSalary = %v, want 700", got)
		}
	})

	t.Run("clamp applies to the final value only", func(t *testing.T) {
		salaries := []models.Salary{{Amount: 3000}}
		got := RecomputePendingSalary(PolicyClamp, 800, attendance, salaries)
		if got != 0 {
			t.Errorf("RecomputePendingSalary = %v, want 0", got)
		}
	})

	t.Run("allow-negative keeps the deficit", func(t *testing.T) {
		salaries := []models.Salary{{Amount: 3000}}
		got := RecomputePendingSalary(PolicyAllowNegative, 800, attendance, salaries)
		if got != -800 {
			t.Errorf("RecomputePendingSalary = %v, want -800", got)
		}
	})

	t.Run("error policy clamps on recompute", func(t *testing.T) {
		// Recompute has no debit to reject, so the final floor applies.
		salaries := []models.Salary{{Amount: 3000}}
		got := RecomputePendingSalary(PolicyError, 800, attendance, salaries)
		if got != 0 {
			t.Errorf("RecomputePendingSalary = %v, want 0", got)
		}
	})

	t.Run("no records", func(t *testing.T) {
		if got := RecomputePendingSalary(PolicyClamp, 800, nil, nil); got != 0 {
			t.Errorf("RecomputePendingSalary = %v, want 0", got)
		}
	})
}

func TestRecomputeProjectFinancials(t *testing.T) {
	materials := []models.Material{{TotalCost: 300}, {TotalCost: 200}}
	payments := []models.Payment{{Amount: 30000}}

	paid, pending, balance := RecomputeProjectFinancials(100000, materials, payments)
	if paid != 30000 {
		t.Errorf("paid = %v, want 30000", paid)
	}
	if pending != 70000 {
		t.Errorf("pending = %v, want 70000", pending)
	}
	if balance != 129500 {
		t.Errorf("balance = %v, want 129500", balance)
	}
	if pending != 100000-paid {
		t.Errorf("pending (%v) must equal total minus paid (%v)", pending, 100000-paid)
	}
}

func TestRecomputeOwnerFinancials(t *testing.T) {
	payments := []models.Payment{{Amount: 20000}, {Amount: 15000}}
	paid, balance := RecomputeOwnerFinancials(100000, payments)
	if paid != 35000 || balance != 65000 {
		t.Errorf("paid=%v balance=%v, want 35000/65000", paid, balance)
	}
}

// Recompute from the live records must agree with incremental posting of
// the same history.
func TestReconcileMatchesReplay(t *testing.T) {
	ctx := context.Background()
	workerID := primitive.NewObjectID()
	attendance := []models.Attendance{
		{WorkerID: workerID, Status: models.AttendancePresent, OvertimeHours: 2},
		{WorkerID: workerID, Status: models.AttendanceHalfday},
	}
	salaries := []models.Salary{{WorkerID: workerID, Amount: 900}}

	workers := newFakeWorkerAccounts(&models.Worker{ID: workerID, DailySalary: 800})
	svc := newTestService(PolicyClamp, workers, nil, nil)
	for i := range attendance {
		if err := svc.PostAttendanceCreate(ctx, &attendance[i]); err != nil {
			t.Fatal(err)
		}
	}
	for i := range salaries {
		if err := svc.PostSalaryCreate(ctx, &salaries[i]); err != nil {
			t.Fatal(err)
		}
	}
	incremental := workers.workers[workerID].PendingSalary

	recomputed := RecomputePendingSalary(PolicyClamp, 800, attendance, salaries)
	if incremental != recomputed {
		t.Fatalf("incremental %v != recomputed %v", incremental, recomputed)
	}
}

func TestReconcileWorker(t *testing.T) {
	ctx := context.Background()
	workerID := primitive.NewObjectID()

	workers := newFakeWorkerAccounts(&models.Worker{ID: workerID, DailySalary: 800, PendingSalary: 42})
	attendance := &fakeAttendanceSource{byWorker: map[primitive.ObjectID][]models.Attendance{
		workerID: {{WorkerID: workerID, Status: models.AttendancePresent}},
	}}
	salaries := &fakeSalarySource{byWorker: map[primitive.ObjectID][]models.Salary{
		workerID: {{WorkerID: workerID, Amount: 300}},
	}}
	r := NewReconciler(workers, newFakeProjectAccounts(), newFakeOwnerAccounts(),
		attendance, salaries, &fakeMaterialSource{}, &fakePaymentSource{}, PolicyClamp)

	value, found, err := r.ReconcileWorker(ctx, workerID)
	if err != nil {
		t.Fatalf("ReconcileWorker: %v", err)
	}
	if !found {
		t.Fatal("found = false, want true")
	}
	if value != 500 {
		t.Errorf("value = %v, want 500", value)
	}
	if got := workers.workers[workerID].PendingSalary; got != 500 {
		t.Errorf("stored pending salary = %v, want 500", got)
	}

	_, found, err = r.ReconcileWorker(ctx, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("ReconcileWorker missing: %v", err)
	}
	if found {
		t.Error("found = true for missing worker, want false")
	}
}

func TestReconcileProject(t *testing.T) {
	ctx := context.Background()
	projectID := primitive.NewObjectID()

	projects := newFakeProjectAccounts(&models.Project{ID: projectID, TotalAmount: 100000, PaidAmount: 1, PendingAmount: 2, CurrentBalance: 3})
	materials := &fakeMaterialSource{byProject: map[primitive.ObjectID][]models.Material{
		projectID: {{TotalCost: 500}},
	}}
	payments := &fakePaymentSource{byProject: map[primitive.ObjectID][]models.Payment{
		projectID: {{Amount: 30000}},
	}}
	r := NewReconciler(newFakeWorkerAccounts(), projects, newFakeOwnerAccounts(),
		&fakeAttendanceSource{}, &fakeSalarySource{}, materials, payments, PolicyClamp)

	paid, pending, balance, found, err := r.ReconcileProject(ctx, projectID)
	if err != nil {
		t.Fatalf("ReconcileProject: %v", err)
	}
	if !found {
		t.Fatal("found = false, want true")
	}
	if paid != 30000 || pending != 70000 || balance != 129500 {
		t.Errorf("paid=%v pending=%v balance=%v, want 30000/70000/129500", paid, pending, balance)
	}
	p := projects.projects[projectID]
	if p.PaidAmount != 30000 || p.PendingAmount != 70000 || p.CurrentBalance != 129500 {
		t.Errorf("stored paid=%v pending=%v balance=%v, want 30000/70000/129500", p.PaidAmount, p.PendingAmount, p.CurrentBalance)
	}

	_, _, _, found, err = r.ReconcileProject(ctx, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("ReconcileProject missing: %v", err)
	}
	if found {
		t.Error("found = true for missing project, want false")
	}
}

func TestReconcileOwner(t *testing.T) {
	ctx := context.Background()
	ownerID := primitive.NewObjectID()

	owners := newFakeOwnerAccounts(&models.ProjectOwner{ID: ownerID, TotalProjectValue: 100000})
	payments := &fakePaymentSource{byOwner: map[primitive.ObjectID][]models.Payment{
		ownerID: {{Amount: 30000}, {Amount: 10000}},
	}}
	r := NewReconciler(newFakeWorkerAccounts(), newFakeProjectAccounts(), owners,
		&fakeAttendanceSource{}, &fakeSalarySource{}, &fakeMaterialSource{}, payments, PolicyClamp)

	paid, balance, found, err := r.ReconcileOwner(ctx, ownerID)
	if err != nil {
		t.Fatalf("ReconcileOwner: %v", err)
	}
	if !found {
		t.Fatal("found = false, want true")
	}
	if paid != 40000 || balance != 60000 {
		t.Errorf("paid=%v balance=%v, want 40000/60000", paid, balance)
	}
	o := owners.owners[ownerID]
	if o.PaidAmount != 40000 || o.BalanceAmount != 60000 {
		t.Errorf("stored paid=%v balance=%v, want 40000/60000", o.PaidAmount, o.BalanceAmount)
	}

	_, _, found, err = r.ReconcileOwner(ctx, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("ReconcileOwner missing: %v", err)
	}
	if found {
		t.Error("found = true for missing owner, want false")
	}
}
