package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Worker payment status values. pending_salary is a cached running balance;
// the source of truth is the sum over live attendance and salary records.
const (
	PaymentStatusPaid    = "paid"
	PaymentStatusPending = "pending"
	PaymentStatusPartial = "partial"
)

type Worker struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name          string             `json:"name" bson:"name"`
	Phone         string             `json:"phone" bson:"phone"`
	Email         string             `json:"email,omitempty" bson:"email,omitempty"`
	Role          string             `json:"role" bson:"role"`
	Address       string             `json:"address" bson:"address"`
	DailySalary   float64            `json:"daily_salary" bson:"daily_salary"`
	MonthlySalary float64            `json:"monthly_salary,omitempty" bson:"monthly_salary,omitempty"`
	PendingSalary float64            `json:"pending_salary" bson:"pending_salary"`
	PaymentStatus string             `json:"payment_status" bson:"payment_status"`
	IsActive      bool               `json:"is_active" bson:"is_active"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

type WorkerCreatePayload struct {
	Name          string  `json:"name" validate:"required,min=3,max=100"`
	Phone         string  `json:"phone" validate:"required,min=7,max=20"`
	Email         string  `json:"email" validate:"omitempty,email"`
	Role          string  `json:"role" validate:"required,min=2,max=50"`
	Address       string  `json:"address" validate:"required,min=5,max=255"`
	DailySalary   float64 `json:"daily_salary" validate:"required,gt=0"`
	MonthlySalary float64 `json:"monthly_salary" validate:"omitempty,min=0"`
}

type WorkerUpdatePayload struct {
	Name          string   `json:"name,omitempty" validate:"omitempty,min=3,max=100"`
	Phone         string   `json:"phone,omitempty" validate:"omitempty,min=7,max=20"`
	Email         string   `json:"email,omitempty" validate:"omitempty,email"`
	Role          string   `json:"role,omitempty" validate:"omitempty,min=2,max=50"`
	Address       string   `json:"address,omitempty" validate:"omitempty,min=5,max=255"`
	DailySalary   *float64 `json:"daily_salary,omitempty" validate:"omitempty,gt=0"`
	MonthlySalary *float64 `json:"monthly_salary,omitempty" validate:"omitempty,min=0"`
	IsActive      *bool    `json:"is_active,omitempty"`
}
