package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Salary is a payment made to a worker. Creating one debits the worker's
// pending_salary.
type Salary struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	WorkerID      primitive.ObjectID `json:"worker_id" bson:"worker_id"`
	ProjectID     primitive.ObjectID `json:"project_id,omitempty" bson:"project_id,omitempty"`
	Amount        float64            `json:"amount" bson:"amount"`
	Date          string             `json:"date" bson:"date"`
	PaymentMethod string             `json:"payment_method" bson:"payment_method"`
	PeriodStart   string             `json:"period_start,omitempty" bson:"period_start,omitempty"`
	PeriodEnd     string             `json:"period_end,omitempty" bson:"period_end,omitempty"`
	Notes         string             `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

type SalaryCreatePayload struct {
	WorkerID      string  `json:"worker_id" validate:"required,objectid"`
	ProjectID     string  `json:"project_id" validate:"omitempty,objectid"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Date          string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	PaymentMethod string  `json:"payment_method" validate:"omitempty,oneof=cash bank cheque upi"`
	PeriodStart   string  `json:"period_start" validate:"omitempty,datetime=2006-01-02"`
	PeriodEnd     string  `json:"period_end" validate:"omitempty,datetime=2006-01-02"`
	Notes         string  `json:"notes" validate:"omitempty,max=500"`
}

type SalaryUpdatePayload struct {
	Amount        *float64 `json:"amount,omitempty" validate:"omitempty,gt=0"`
	Date          string   `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	PaymentMethod string   `json:"payment_method,omitempty" validate:"omitempty,oneof=cash bank cheque upi"`
	PeriodStart   string   `json:"period_start,omitempty" validate:"omitempty,datetime=2006-01-02"`
	PeriodEnd     string   `json:"period_end,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes         string   `json:"notes,omitempty" validate:"omitempty,max=500"`
}
