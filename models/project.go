package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project financials carry two views that are maintained together:
// paid_amount/pending_amount (pending = total - paid, payments only) and
// current_balance (starts at total_amount, debited by material purchases,
// credited by payments received).
type Project struct {
	ID              primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Name            string               `json:"name" bson:"name"`
	Description     string               `json:"description,omitempty" bson:"description,omitempty"`
	TotalAmount     float64              `json:"total_amount" bson:"total_amount"`
	PaidAmount      float64              `json:"paid_amount" bson:"paid_amount"`
	PendingAmount   float64              `json:"pending_amount" bson:"pending_amount"`
	CurrentBalance  float64              `json:"current_balance" bson:"current_balance"`
	Status          string               `json:"status" bson:"status"`
	OwnerID         primitive.ObjectID   `json:"owner_id" bson:"owner_id"`
	AssignedWorkers []primitive.ObjectID `json:"assigned_workers" bson:"assigned_workers"`
	CreatedAt       time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at" bson:"updated_at"`
}

type ProjectCreatePayload struct {
	Name            string   `json:"name" validate:"required,min=3,max=150"`
	Description     string   `json:"description" validate:"omitempty,max=1000"`
	TotalAmount     float64  `json:"total_amount" validate:"required,gt=0"`
	Status          string   `json:"status" validate:"omitempty,oneof=planning in-progress completed on-hold"`
	OwnerID         string   `json:"owner_id" validate:"required,objectid"`
	AssignedWorkers []string `json:"assigned_workers" validate:"omitempty,dive,objectid"`
}

type ProjectUpdatePayload struct {
	Name            string   `json:"name,omitempty" validate:"omitempty,min=3,max=150"`
	Description     string   `json:"description,omitempty" validate:"omitempty,max=1000"`
	Status          string   `json:"status,omitempty" validate:"omitempty,oneof=planning in-progress completed on-hold"`
	AssignedWorkers []string `json:"assigned_workers,omitempty" validate:"omitempty,dive,objectid"`
}

// ProjectFinanceSummary is the response of GET /projects/:id/finance.
type ProjectFinanceSummary struct {
	Project       *Project   `json:"project"`
	Materials     []Material `json:"materials"`
	Payments      []Payment  `json:"payments"`
	Salaries      []Salary   `json:"salaries"`
	MaterialCost  float64    `json:"material_cost"`
	PaymentAmount float64    `json:"payment_amount"`
	SalaryAmount  float64    `json:"salary_amount"`
	Expenses      float64    `json:"expenses"`
	NetProfit     float64    `json:"net_profit"`
}
