package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProjectOwner struct {
	ID                primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name              string             `json:"name" bson:"name"`
	Email             string             `json:"email" bson:"email"`
	Phone             string             `json:"phone" bson:"phone"`
	Address           string             `json:"address" bson:"address"`
	Company           string             `json:"company,omitempty" bson:"company,omitempty"`
	TotalProjectValue float64            `json:"total_project_value" bson:"total_project_value"`
	PaidAmount        float64            `json:"paid_amount" bson:"paid_amount"`
	BalanceAmount     float64            `json:"balance_amount" bson:"balance_amount"`
	CreatedAt         time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at" bson:"updated_at"`
}

type ProjectOwnerCreatePayload struct {
	Name              string  `json:"name" validate:"required,min=3,max=100"`
	Email             string  `json:"email" validate:"required,email"`
	Phone             string  `json:"phone" validate:"required,min=7,max=20"`
	Address           string  `json:"address" validate:"required,min=5,max=255"`
	Company           string  `json:"company" validate:"omitempty,max=150"`
	TotalProjectValue float64 `json:"total_project_value" validate:"omitempty,min=0"`
}

type ProjectOwnerUpdatePayload struct {
	Name              string   `json:"name,omitempty" validate:"omitempty,min=3,max=100"`
	Email             string   `json:"email,omitempty" validate:"omitempty,email"`
	Phone             string   `json:"phone,omitempty" validate:"omitempty,min=7,max=20"`
	Address           string   `json:"address,omitempty" validate:"omitempty,min=5,max=255"`
	Company           string   `json:"company,omitempty" validate:"omitempty,max=150"`
	TotalProjectValue *float64 `json:"total_project_value,omitempty" validate:"omitempty,min=0"`
}
