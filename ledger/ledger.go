package ledger

import (
	"context"
	"errors"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"construction-management/models"
)

// NegativePolicy decides what happens when a salary payment would push a
// worker's pending_salary below zero.
type NegativePolicy string

const (
	// PolicyClamp floors pending_salary at zero and writes off the
	// remainder. This matches the firm's historical bookkeeping.
	PolicyClamp NegativePolicy = "clamp"
	// PolicyAllowNegative lets the balance go negative and carries it.
	PolicyAllowNegative NegativePolicy = "allow-negative"
	// PolicyError rejects the debit with ErrInsufficientPendingSalary.
	PolicyError NegativePolicy = "error"
)

var ErrInsufficientPendingSalary = errors.New("salary amount exceeds worker's pending salary")

// WorkerAccounts is the slice of worker storage the ledger needs. All
// balance mutations must be atomic single-document updates.
type WorkerAccounts interface {
	FindWorkerByID(ctx context.Context, id primitive.ObjectID) (*models.Worker, error)
	// AddPendingSalary applies an unclamped signed delta. Missing worker is a no-op.
	AddPendingSalary(ctx context.Context, id primitive.ObjectID, delta float64) error
	// DebitPendingSalary subtracts amount under the given policy. Missing worker is a no-op.
	DebitPendingSalary(ctx context.Context, id primitive.ObjectID, amount float64, policy NegativePolicy) error
	SetPendingSalary(ctx context.Context, id primitive.ObjectID, value float64) error
}

type ProjectAccounts interface {
	FindProjectByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error)
	// AddCurrentBalance applies a signed delta to current_balance (material postings).
	AddCurrentBalance(ctx context.Context, id primitive.ObjectID, delta float64) error
	// RecordPayment applies a signed delta to paid_amount, recomputes
	// pending_amount = total_amount - paid_amount, and credits current_balance.
	RecordPayment(ctx context.Context, id primitive.ObjectID, delta float64) error
	SetFinancials(ctx context.Context, id primitive.ObjectID, paid, pending, balance float64) error
}

type OwnerAccounts interface {
	FindOwnerByID(ctx context.Context, id primitive.ObjectID) (*models.ProjectOwner, error)
	// RecordPayment applies a signed delta to paid_amount and recomputes
	// balance_amount = total_project_value - paid_amount.
	RecordPayment(ctx context.Context, id primitive.ObjectID, delta float64) error
	SetFinancials(ctx context.Context, id primitive.ObjectID, paid, balance float64) error
}

// AttendanceCredit is the earned amount a single attendance record posts to
// the worker's pending salary. Overtime is paid at dailySalary/8 per hour
// and only counts on present or halfday records.
func AttendanceCredit(dailySalary, overtimeHours float64, status string) float64 {
	var credit float64
	switch status {
	case models.AttendancePresent:
		credit = dailySalary
	case models.AttendanceHalfday:
		credit = dailySalary / 2
	default:
		return 0
	}
	if overtimeHours > 0 {
		credit += overtimeHours * (dailySalary / 8)
	}
	return credit
}

// MaterialCost is the monetary effect of a material purchase.
func MaterialCost(quantity, unitPrice float64) float64 {
	return quantity * unitPrice
}

// Service keeps the cached parent aggregates consistent with the
// transaction records. Every transaction type gets a
// PostCreate/PostUpdate/PostDelete triple; postings are best effort: a
// missing parent is logged and skipped, never an error, because the
// transaction record itself has already been stored. Update postings must
// be given the stored old record, not a client-supplied one.
type Service struct {
	workers  WorkerAccounts
	projects ProjectAccounts
	owners   OwnerAccounts
	policy   NegativePolicy
}

func NewService(workers WorkerAccounts, projects ProjectAccounts, owners OwnerAccounts, policy NegativePolicy) *Service {
	if policy == "" {
		policy = PolicyClamp
	}
	return &Service{workers: workers, projects: projects, owners: owners, policy: policy}
}

func (s *Service) Policy() NegativePolicy {
	return s.policy
}

// --- Attendance postings (worker pending_salary, credit) ---

func (s *Service) PostAttendanceCreate(ctx context.Context, att *models.Attendance) error {
	worker, err := s.workers.FindWorkerByID(ctx, att.WorkerID)
	if err != nil {
		return err
	}
	if worker == nil {
		log.Printf("ledger: worker %s not found, attendance credit skipped", att.WorkerID.Hex())
		return nil
	}
	credit := AttendanceCredit(worker.DailySalary, att.OvertimeHours, att.Status)
	if credit == 0 {
		return nil
	}
	return s.workers.AddPendingSalary(ctx, att.WorkerID, credit)
}

// PostAttendanceUpdate reverses the old record's credit and applies the
// new one as a single net adjustment. Attendance reversals are never
// clamped; clamping only applies at salary-payment application.
func (s *Service) PostAttendanceUpdate(ctx context.Context, old, updated *models.Attendance) error {
	worker, err := s.workers.FindWorkerByID(ctx, updated.WorkerID)
	if err != nil {
		return err
	}
	if worker == nil {
		log.Printf("ledger: worker %s not found, attendance adjustment skipped", updated.WorkerID.Hex())
		return nil
	}
	oldCredit := AttendanceCredit(worker.DailySalary, old.OvertimeHours, old.Status)
	newCredit := AttendanceCredit(worker.DailySalary, updated.OvertimeHours, updated.Status)
	delta := newCredit - oldCredit
	if delta == 0 {
		return nil
	}
	return s.workers.AddPendingSalary(ctx, updated.WorkerID, delta)
}

func (s *Service) PostAttendanceDelete(ctx context.Context, att *models.Attendance) error {
	worker, err := s.workers.FindWorkerByID(ctx, att.WorkerID)
	if err != nil {
		return err
	}
	if worker == nil {
		log.Printf("ledger: worker %s not found, attendance reversal skipped", att.WorkerID.Hex())
		return nil
	}
	credit := AttendanceCredit(worker.DailySalary, att.OvertimeHours, att.Status)
	if credit == 0 {
		return nil
	}
	return s.workers.AddPendingSalary(ctx, att.WorkerID, -credit)
}

// --- Salary postings (worker pending_salary, debit) ---

func (s *Service) PostSalaryCreate(ctx context.Context, salary *models.Salary) error {
	return s.workers.DebitPendingSalary(ctx, salary.WorkerID, salary.Amount, s.policy)
}

func (s *Service) PostSalaryUpdate(ctx context.Context, old, updated *models.Salary) error {
	net := updated.Amount - old.Amount
	switch {
	case net > 0:
		return s.workers.DebitPendingSalary(ctx, updated.WorkerID, net, s.policy)
	case net < 0:
		return s.workers.AddPendingSalary(ctx, updated.WorkerID, -net)
	}
	return nil
}

// PostSalaryDelete restores the paid amount. Note that after a clamped
// debit the restore is intentionally inexact; reconcile repairs it.
func (s *Service) PostSalaryDelete(ctx context.Context, salary *models.Salary) error {
	return s.workers.AddPendingSalary(ctx, salary.WorkerID, salary.Amount)
}

// --- Material postings (project current_balance, debit) ---

func (s *Service) PostMaterialCreate(ctx context.Context, material *models.Material) error {
	return s.projects.AddCurrentBalance(ctx, material.ProjectID, -material.TotalCost)
}

func (s *Service) PostMaterialUpdate(ctx context.Context, old, updated *models.Material) error {
	if old.ProjectID == updated.ProjectID {
		delta := updated.TotalCost - old.TotalCost
		if delta == 0 {
			return nil
		}
		return s.projects.AddCurrentBalance(ctx, updated.ProjectID, -delta)
	}
	// Purchase moved between projects: refund the old one, charge the new one.
	if err := s.projects.AddCurrentBalance(ctx, old.ProjectID, old.TotalCost); err != nil {
		return err
	}
	return s.projects.AddCurrentBalance(ctx, updated.ProjectID, -updated.TotalCost)
}

func (s *Service) PostMaterialDelete(ctx context.Context, material *models.Material) error {
	return s.projects.AddCurrentBalance(ctx, material.ProjectID, material.TotalCost)
}

// --- Payment postings (project + owner paid totals, credit) ---

func (s *Service) PostPaymentCreate(ctx context.Context, payment *models.Payment) error {
	if !payment.ProjectID.IsZero() {
		if err := s.projects.RecordPayment(ctx, payment.ProjectID, payment.Amount); err != nil {
			return err
		}
	}
	if !payment.ProjectOwnerID.IsZero() {
		return s.owners.RecordPayment(ctx, payment.ProjectOwnerID, payment.Amount)
	}
	return nil
}

func (s *Service) PostPaymentUpdate(ctx context.Context, old, updated *models.Payment) error {
	if old.ProjectID == updated.ProjectID {
		if delta := updated.Amount - old.Amount; delta != 0 && !updated.ProjectID.IsZero() {
			if err := s.projects.RecordPayment(ctx, updated.ProjectID, delta); err != nil {
				return err
			}
		}
	} else {
		if !old.ProjectID.IsZero() {
			if err := s.projects.RecordPayment(ctx, old.ProjectID, -old.Amount); err != nil {
				return err
			}
		}
		if !updated.ProjectID.IsZero() {
			if err := s.projects.RecordPayment(ctx, updated.ProjectID, updated.Amount); err != nil {
				return err
			}
		}
	}

	if delta := updated.Amount - old.Amount; delta != 0 && !updated.ProjectOwnerID.IsZero() {
		return s.owners.RecordPayment(ctx, updated.ProjectOwnerID, delta)
	}
	return nil
}

func (s *Service) PostPaymentDelete(ctx context.Context, payment *models.Payment) error {
	if !payment.ProjectID.IsZero() {
		if err := s.projects.RecordPayment(ctx, payment.ProjectID, -payment.Amount); err != nil {
			return err
		}
	}
	if !payment.ProjectOwnerID.IsZero() {
		return s.owners.RecordPayment(ctx, payment.ProjectOwnerID, -payment.Amount)
	}
	return nil
}
