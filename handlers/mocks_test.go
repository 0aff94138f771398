package handlers

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"construction-management/ledger"
	"construction-management/models"
	"construction-management/repository"
)

// In-memory repository doubles. They keep just enough state for the
// handlers under test and mirror the real repositories' nil-on-missing
// and duplicate-key behavior.

type mockWorkerRepo struct {
	workers map[primitive.ObjectID]*models.Worker
}

func newMockWorkerRepo(workers ...*models.Worker) *mockWorkerRepo {
	m := &mockWorkerRepo{workers: make(map[primitive.ObjectID]*models.Worker)}
	for _, w := range workers {
		m.workers[w.ID] = w
	}
	return m
}

func (m *mockWorkerRepo) CreateWorker(_ context.Context, worker *models.Worker) (*mongo.InsertOneResult, error) {
	worker.ID = primitive.NewObjectID()
	m.workers[worker.ID] = worker
	return &mongo.InsertOneResult{InsertedID: worker.ID}, nil
}

func (m *mockWorkerRepo) FindWorkerByID(_ context.Context, id primitive.ObjectID) (*models.Worker, error) {
	w, ok := m.workers[id]
	if !ok {
		return nil, nil
	}
	copied := *w
	return &copied, nil
}

func (m *mockWorkerRepo) GetAllWorkers(_ context.Context) ([]models.Worker, error) {
	var out []models.Worker
	for _, w := range m.workers {
		out = append(out, *w)
	}
	return out, nil
}

func (m *mockWorkerRepo) UpdateWorker(_ context.Context, id primitive.ObjectID, _ bson.M) (*mongo.UpdateResult, error) {
	if _, ok := m.workers[id]; !ok {
		return &mongo.UpdateResult{}, nil
	}
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *mockWorkerRepo) DeleteWorker(_ context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error) {
	if _, ok := m.workers[id]; !ok {
		return &mongo.DeleteResult{}, nil
	}
	delete(m.workers, id)
	return &mongo.DeleteResult{DeletedCount: 1}, nil
}

func (m *mockWorkerRepo) AddPendingSalary(_ context.Context, id primitive.ObjectID, delta float64) error {
	if w, ok := m.workers[id]; ok {
		w.PendingSalary += delta
	}
	return nil
}

func (m *mockWorkerRepo) DebitPendingSalary(_ context.Context, id primitive.ObjectID, amount float64, policy ledger.NegativePolicy) error {
	w, ok := m.workers[id]
	if !ok {
		return nil
	}
	switch policy {
	case ledger.PolicyError:
		if w.PendingSalary < amount {
			return ledger.ErrInsufficientPendingSalary
		}
		w.PendingSalary -= amount
	case ledger.PolicyAllowNegative:
		w.PendingSalary -= amount
	default:
		w.PendingSalary -= amount
		if w.PendingSalary < 0 {
			w.PendingSalary = 0
		}
	}
	return nil
}

func (m *mockWorkerRepo) SetPendingSalary(_ context.Context, id primitive.ObjectID, value float64) error {
	if w, ok := m.workers[id]; ok {
		w.PendingSalary = value
	}
	return nil
}

func (m *mockWorkerRepo) WorkersWithPendingSalary(_ context.Context) ([]models.Worker, error) {
	return nil, nil
}

func (m *mockWorkerRepo) CountWorkers(_ context.Context) (int64, error) {
	return int64(len(m.workers)), nil
}

func (m *mockWorkerRepo) TotalPendingSalaries(_ context.Context) (float64, error) {
	var total float64
	for _, w := range m.workers {
		total += w.PendingSalary
	}
	return total, nil
}

type mockProjectRepo struct {
	projects map[primitive.ObjectID]*models.Project
}

func newMockProjectRepo(projects ...*models.Project) *mockProjectRepo {
	m := &mockProjectRepo{projects: make(map[primitive.ObjectID]*models.Project)}
	for _, p := range projects {
		m.projects[p.ID] = p
	}
	return m
}

func (m *mockProjectRepo) CreateProject(_ context.Context, project *models.Project) (*mongo.InsertOneResult, error) {
	project.ID = primitive.NewObjectID()
	project.PendingAmount = project.TotalAmount
	project.CurrentBalance = project.TotalAmount
	m.projects[project.ID] = project
	return &mongo.InsertOneResult{InsertedID: project.ID}, nil
}

func (m *mockProjectRepo) FindProjectByID(_ context.Context, id primitive.ObjectID) (*models.Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (m *mockProjectRepo) GetAllProjects(_ context.Context) ([]models.Project, error) {
	var out []models.Project
	for _, p := range m.projects {
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockProjectRepo) UpdateProject(_ context.Context, id primitive.ObjectID, _ bson.M) (*mongo.UpdateResult, error) {
	if _, ok := m.projects[id]; !ok {
		return &mongo.UpdateResult{}, nil
	}
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *mockProjectRepo) DeleteProject(_ context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error) {
	if _, ok := m.projects[id]; !ok {
		return &mongo.DeleteResult{}, nil
	}
	delete(m.projects, id)
	return &mongo.DeleteResult{DeletedCount: 1}, nil
}

func (m *mockProjectRepo) AddCurrentBalance(_ context.Context, id primitive.ObjectID, delta float64) error {
	if p, ok := m.projects[id]; ok {
		p.CurrentBalance += delta
	}
	return nil
}

func (m *mockProjectRepo) RecordPayment(_ context.Context, id primitive.ObjectID, delta float64) error {
	if p, ok := m.projects[id]; ok {
		p.PaidAmount += delta
		p.PendingAmount = p.TotalAmount - p.PaidAmount
		p.CurrentBalance += delta
	}
	return nil
}

func (m *mockProjectRepo) SetFinancials(_ context.Context, id primitive.ObjectID, paid, pending, balance float64) error {
	if p, ok := m.projects[id]; ok {
		p.PaidAmount = paid
		p.PendingAmount = pending
		p.CurrentBalance = balance
	}
	return nil
}

func (m *mockProjectRepo) CountProjects(_ context.Context) (int64, error) {
	return int64(len(m.projects)), nil
}

func (m *mockProjectRepo) CountProjectsByStatus(_ context.Context, status string) (int64, error) {
	var n int64
	for _, p := range m.projects {
		if p.Status == status {
			n++
		}
	}
	return n, nil
}

func (m *mockProjectRepo) CountProjectsByOwner(_ context.Context, ownerID primitive.ObjectID) (int64, error) {
	var n int64
	for _, p := range m.projects {
		if p.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (m *mockProjectRepo) LowBalanceProjects(_ context.Context, threshold float64) ([]models.Project, error) {
	var out []models.Project
	for _, p := range m.projects {
		if p.CurrentBalance < threshold {
			out = append(out, *p)
		}
	}
	return out, nil
}

type mockOwnerRepo struct {
	owners map[primitive.ObjectID]*models.ProjectOwner
}

func newMockOwnerRepo(owners ...*models.ProjectOwner) *mockOwnerRepo {
	m := &mockOwnerRepo{owners: make(map[primitive.ObjectID]*models.ProjectOwner)}
	for _, o := range owners {
		m.owners[o.ID] = o
	}
	return m
}

func (m *mockOwnerRepo) CreateOwner(_ context.Context, owner *models.ProjectOwner) (*mongo.InsertOneResult, error) {
	owner.ID = primitive.NewObjectID()
	owner.BalanceAmount = owner.TotalProjectValue
	m.owners[owner.ID] = owner
	return &mongo.InsertOneResult{InsertedID: owner.ID}, nil
}

func (m *mockOwnerRepo) FindOwnerByID(_ context.Context, id primitive.ObjectID) (*models.ProjectOwner, error) {
	o, ok := m.owners[id]
	if !ok {
		return nil, nil
	}
	copied := *o
	return &copied, nil
}

func (m *mockOwnerRepo) GetAllOwners(_ context.Context) ([]models.ProjectOwner, error) {
	var out []models.ProjectOwner
	for _, o := range m.owners {
		out = append(out, *o)
	}
	return out, nil
}

func (m *mockOwnerRepo) UpdateOwner(_ context.Context, id primitive.ObjectID, _ bson.M) (*mongo.UpdateResult, error) {
	if _, ok := m.owners[id]; !ok {
		return &mongo.UpdateResult{}, nil
	}
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *mockOwnerRepo) DeleteOwner(_ context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error) {
	if _, ok := m.owners[id]; !ok {
		return &mongo.DeleteResult{}, nil
	}
	delete(m.owners, id)
	return &mongo.DeleteResult{DeletedCount: 1}, nil
}

func (m *mockOwnerRepo) RecordPayment(_ context.Context, id primitive.ObjectID, delta float64) error {
	if o, ok := m.owners[id]; ok {
		o.PaidAmount += delta
		o.BalanceAmount = o.TotalProjectValue - o.PaidAmount
	}
	return nil
}

func (m *mockOwnerRepo) SetFinancials(_ context.Context, id primitive.ObjectID, paid, balance float64) error {
	if o, ok := m.owners[id]; ok {
		o.PaidAmount = paid
		o.BalanceAmount = balance
	}
	return nil
}

func (m *mockOwnerRepo) CountOwners(_ context.Context) (int64, error) {
	return int64(len(m.owners)), nil
}

type mockAttendanceRepo struct {
	records map[primitive.ObjectID]*models.Attendance
}

func newMockAttendanceRepo() *mockAttendanceRepo {
	return &mockAttendanceRepo{records: make(map[primitive.ObjectID]*models.Attendance)}
}

func (m *mockAttendanceRepo) CreateAttendance(_ context.Context, attendance *models.Attendance) (*mongo.InsertOneResult, error) {
	for _, existing := range m.records {
		if existing.WorkerID == attendance.WorkerID && existing.Date == attendance.Date {
			return nil, repository.ErrDuplicateAttendance
		}
	}
	attendance.ID = primitive.NewObjectID()
	m.records[attendance.ID] = attendance
	return &mongo.InsertOneResult{InsertedID: attendance.ID}, nil
}

func (m *mockAttendanceRepo) FindAttendanceByID(_ context.Context, id primitive.ObjectID) (*models.Attendance, error) {
	a, ok := m.records[id]
	if !ok {
		return nil, nil
	}
	copied := *a
	return &copied, nil
}

func (m *mockAttendanceRepo) GetAllAttendanceWithDetails(_ context.Context, _ bson.M) ([]models.AttendanceWithDetails, error) {
	return nil, nil
}

func (m *mockAttendanceRepo) UpdateAttendance(_ context.Context, id primitive.ObjectID, updateData bson.M) (*mongo.UpdateResult, error) {
	a, ok := m.records[id]
	if !ok {
		return &mongo.UpdateResult{}, nil
	}
	if status, ok := updateData["status"].(string); ok {
		a.Status = status
	}
	if ot, ok := updateData["overtime_hours"].(float64); ok {
		a.OvertimeHours = ot
	}
	if notes, ok := updateData["notes"].(string); ok {
		a.Notes = notes
	}
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *mockAttendanceRepo) DeleteAttendance(_ context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error) {
	if _, ok := m.records[id]; !ok {
		return &mongo.DeleteResult{}, nil
	}
	delete(m.records, id)
	return &mongo.DeleteResult{DeletedCount: 1}, nil
}

func (m *mockAttendanceRepo) LiveByWorker(_ context.Context, workerID primitive.ObjectID) ([]models.Attendance, error) {
	var out []models.Attendance
	for _, a := range m.records {
		if a.WorkerID == workerID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockAttendanceRepo) FindByWorker(ctx context.Context, workerID primitive.ObjectID, _, _ string) ([]models.Attendance, error) {
	return m.LiveByWorker(ctx, workerID)
}

func (m *mockAttendanceRepo) CountByWorker(_ context.Context, workerID primitive.ObjectID) (int64, error) {
	var n int64
	for _, a := range m.records {
		if a.WorkerID == workerID {
			n++
		}
	}
	return n, nil
}

func (m *mockAttendanceRepo) Report(_ context.Context, _, _, _ string) ([]models.AttendanceReportRow, error) {
	return nil, nil
}

func (m *mockAttendanceRepo) RecentAttendance(_ context.Context, _ int64) ([]models.AttendanceWithDetails, error) {
	return nil, nil
}

type mockSalaryRepo struct {
	records map[primitive.ObjectID]*models.Salary
	failing bool
}

func newMockSalaryRepo() *mockSalaryRepo {
	return &mockSalaryRepo{records: make(map[primitive.ObjectID]*models.Salary)}
}

func (m *mockSalaryRepo) CreateSalary(_ context.Context, salary *models.Salary) (*mongo.InsertOneResult, error) {
	if m.failing {
		return nil, context.DeadlineExceeded
	}
	salary.ID = primitive.NewObjectID()
	m.records[salary.ID] = salary
	return &mongo.InsertOneResult{InsertedID: salary.ID}, nil
}

func (m *mockSalaryRepo) FindSalaryByID(_ context.Context, id primitive.ObjectID) (*models.Salary, error) {
	s, ok := m.records[id]
	if !ok {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (m *mockSalaryRepo) GetAllSalaries(_ context.Context, _ bson.M) ([]models.Salary, error) {
	var out []models.Salary
	for _, s := range m.records {
		out = append(out, *s)
	}
	return out, nil
}

func (m *mockSalaryRepo) UpdateSalary(_ context.Context, id primitive.ObjectID, updateData bson.M) (*mongo.UpdateResult, error) {
	s, ok := m.records[id]
	if !ok {
		return &mongo.UpdateResult{}, nil
	}
	if amount, ok := updateData["amount"].(float64); ok {
		s.Amount = amount
	}
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *mockSalaryRepo) DeleteSalary(_ context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error) {
	if _, ok := m.records[id]; !ok {
		return &mongo.DeleteResult{}, nil
	}
	delete(m.records, id)
	return &mongo.DeleteResult{DeletedCount: 1}, nil
}

func (m *mockSalaryRepo) LiveByWorker(_ context.Context, workerID primitive.ObjectID) ([]models.Salary, error) {
	var out []models.Salary
	for _, s := range m.records {
		if s.WorkerID == workerID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *mockSalaryRepo) FindByWorker(ctx context.Context, workerID primitive.ObjectID, _, _ string) ([]models.Salary, error) {
	return m.LiveByWorker(ctx, workerID)
}

func (m *mockSalaryRepo) CountByProject(_ context.Context, projectID primitive.ObjectID) (int64, error) {
	var n int64
	for _, s := range m.records {
		if s.ProjectID == projectID {
			n++
		}
	}
	return n, nil
}

func (m *mockSalaryRepo) TotalSalariesPaid(_ context.Context) (float64, error) {
	var total float64
	for _, s := range m.records {
		total += s.Amount
	}
	return total, nil
}

func (m *mockSalaryRepo) RecentSalaries(_ context.Context, _ int64) ([]models.Salary, error) {
	return nil, nil
}

type mockPaymentRepo struct {
	records map[primitive.ObjectID]*models.Payment
}

func newMockPaymentRepo() *mockPaymentRepo {
	return &mockPaymentRepo{records: make(map[primitive.ObjectID]*models.Payment)}
}

func (m *mockPaymentRepo) CreatePayment(_ context.Context, payment *models.Payment) (*mongo.InsertOneResult, error) {
	payment.ID = primitive.NewObjectID()
	m.records[payment.ID] = payment
	return &mongo.InsertOneResult{InsertedID: payment.ID}, nil
}

func (m *mockPaymentRepo) FindPaymentByID(_ context.Context, id primitive.ObjectID) (*models.Payment, error) {
	p, ok := m.records[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (m *mockPaymentRepo) GetAllPayments(_ context.Context, _ bson.M) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range m.records {
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockPaymentRepo) UpdatePayment(_ context.Context, id primitive.ObjectID, updateData bson.M) (*mongo.UpdateResult, error) {
	p, ok := m.records[id]
	if !ok {
		return &mongo.UpdateResult{}, nil
	}
	if amount, ok := updateData["amount"].(float64); ok {
		p.Amount = amount
	}
	if projectID, ok := updateData["project_id"].(primitive.ObjectID); ok {
		p.ProjectID = projectID
	}
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *mockPaymentRepo) DeletePayment(_ context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error) {
	if _, ok := m.records[id]; !ok {
		return &mongo.DeleteResult{}, nil
	}
	delete(m.records, id)
	return &mongo.DeleteResult{DeletedCount: 1}, nil
}

func (m *mockPaymentRepo) LiveByProject(_ context.Context, projectID primitive.ObjectID) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range m.records {
		if p.ProjectID == projectID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockPaymentRepo) LiveByOwner(_ context.Context, ownerID primitive.ObjectID) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range m.records {
		if p.ProjectOwnerID == ownerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockPaymentRepo) FindByOwner(ctx context.Context, ownerID primitive.ObjectID, _, _ string) ([]models.Payment, error) {
	return m.LiveByOwner(ctx, ownerID)
}

func (m *mockPaymentRepo) CountByProject(_ context.Context, projectID primitive.ObjectID) (int64, error) {
	var n int64
	for _, p := range m.records {
		if p.ProjectID == projectID {
			n++
		}
	}
	return n, nil
}

func (m *mockPaymentRepo) TotalPaymentsReceived(_ context.Context) (float64, error) {
	var total float64
	for _, p := range m.records {
		total += p.Amount
	}
	return total, nil
}

func (m *mockPaymentRepo) RecentPayments(_ context.Context, _ int64) ([]models.Payment, error) {
	return nil, nil
}
