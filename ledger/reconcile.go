package ledger

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"construction-management/models"
)

// The cached aggregates can drift when a posting is skipped (missing
// parent, crash between the transaction write and the posting, clamped
// reversal). The reconciler recomputes them from the live transaction
// records, which are the source of truth.

type AttendanceSource interface {
	LiveByWorker(ctx context.Context, workerID primitive.ObjectID) ([]models.Attendance, error)
}

type SalarySource interface {
	LiveByWorker(ctx context.Context, workerID primitive.ObjectID) ([]models.Salary, error)
}

type MaterialSource interface {
	LiveByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Material, error)
}

type PaymentSource interface {
	LiveByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Payment, error)
	LiveByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Payment, error)
}

// RecomputePendingSalary replays every live attendance credit and salary
// debit. Clamping, when the policy asks for it, is applied to the final
// value only.
func RecomputePendingSalary(policy NegativePolicy, dailySalary float64, attendance []models.Attendance, salaries []models.Salary) float64 {
	var earned, paid float64
	for _, a := range attendance {
		earned += AttendanceCredit(dailySalary, a.OvertimeHours, a.Status)
	}
	for _, s := range salaries {
		paid += s.Amount
	}
	pending := earned - paid
	if pending < 0 && policy != PolicyAllowNegative {
		pending = 0
	}
	return pending
}

// RecomputeProjectFinancials derives paid_amount, pending_amount and
// current_balance from the live materials and payments of a project.
func RecomputeProjectFinancials(totalAmount float64, materials []models.Material, payments []models.Payment) (paid, pending, balance float64) {
	var materialCost float64
	for _, m := range materials {
		materialCost += m.TotalCost
	}
	for _, p := range payments {
		paid += p.Amount
	}
	pending = totalAmount - paid
	balance = totalAmount - materialCost + paid
	return paid, pending, balance
}

// RecomputeOwnerFinancials derives paid_amount and balance_amount from the
// live payments of a project owner.
func RecomputeOwnerFinancials(totalProjectValue float64, payments []models.Payment) (paid, balance float64) {
	for _, p := range payments {
		paid += p.Amount
	}
	return paid, totalProjectValue - paid
}

type Reconciler struct {
	workers    WorkerAccounts
	projects   ProjectAccounts
	owners     OwnerAccounts
	attendance AttendanceSource
	salaries   SalarySource
	materials  MaterialSource
	payments   PaymentSource
	policy     NegativePolicy
}

func NewReconciler(workers WorkerAccounts, projects ProjectAccounts, owners OwnerAccounts,
	attendance AttendanceSource, salaries SalarySource, materials MaterialSource, payments PaymentSource,
	policy NegativePolicy) *Reconciler {
	if policy == "" {
		policy = PolicyClamp
	}
	return &Reconciler{
		workers:    workers,
		projects:   projects,
		owners:     owners,
		attendance: attendance,
		salaries:   salaries,
		materials:  materials,
		payments:   payments,
		policy:     policy,
	}
}

// ReconcileWorker recomputes and stores a worker's pending_salary.
// Returns the recomputed value; found reports whether the worker exists.
func (r *Reconciler) ReconcileWorker(ctx context.Context, workerID primitive.ObjectID) (value float64, found bool, err error) {
	worker, err := r.workers.FindWorkerByID(ctx, workerID)
	if err != nil {
		return 0, false, err
	}
	if worker == nil {
		return 0, false, nil
	}

	attendance, err := r.attendance.LiveByWorker(ctx, workerID)
	if err != nil {
		return 0, true, err
	}
	salaries, err := r.salaries.LiveByWorker(ctx, workerID)
	if err != nil {
		return 0, true, err
	}

	pending := RecomputePendingSalary(r.policy, worker.DailySalary, attendance, salaries)
	if err := r.workers.SetPendingSalary(ctx, workerID, pending); err != nil {
		return 0, true, err
	}
	return pending, true, nil
}

// ReconcileProject recomputes and stores a project's paid_amount,
// pending_amount and current_balance.
func (r *Reconciler) ReconcileProject(ctx context.Context, projectID primitive.ObjectID) (paid, pending, balance float64, found bool, err error) {
	project, err := r.projects.FindProjectByID(ctx, projectID)
	if err != nil {
		return 0, 0, 0, false, err
	}
	if project == nil {
		return 0, 0, 0, false, nil
	}

	materials, err := r.materials.LiveByProject(ctx, projectID)
	if err != nil {
		return 0, 0, 0, true, err
	}
	payments, err := r.payments.LiveByProject(ctx, projectID)
	if err != nil {
		return 0, 0, 0, true, err
	}

	paid, pending, balance = RecomputeProjectFinancials(project.TotalAmount, materials, payments)
	if err := r.projects.SetFinancials(ctx, projectID, paid, pending, balance); err != nil {
		return 0, 0, 0, true, err
	}
	return paid, pending, balance, true, nil
}

// ReconcileOwner recomputes and stores an owner's paid_amount and balance_amount.
func (r *Reconciler) ReconcileOwner(ctx context.Context, ownerID primitive.ObjectID) (paid, balance float64, found bool, err error) {
	owner, err := r.owners.FindOwnerByID(ctx, ownerID)
	if err != nil {
		return 0, 0, false, err
	}
	if owner == nil {
		return 0, 0, false, nil
	}

	payments, err := r.payments.LiveByOwner(ctx, ownerID)
	if err != nil {
		return 0, 0, true, err
	}

	paid, balance = RecomputeOwnerFinancials(owner.TotalProjectValue, payments)
	if err := r.owners.SetFinancials(ctx, ownerID, paid, balance); err != nil {
		return 0, 0, true, err
	}
	return paid, balance, true, nil
}
