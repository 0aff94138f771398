package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment is money received from a client. project_owner_id is required;
// project_id is optional (advances may precede a project). The reference
// is generated when the client does not supply one.
type Payment struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ProjectID      primitive.ObjectID `json:"project_id,omitempty" bson:"project_id,omitempty"`
	ProjectOwnerID primitive.ObjectID `json:"project_owner_id" bson:"project_owner_id"`
	Amount         float64            `json:"amount" bson:"amount"`
	Date           string             `json:"date" bson:"date"`
	PaymentMethod  string             `json:"payment_method" bson:"payment_method"`
	Reference      string             `json:"reference" bson:"reference"`
	IsAdvance      bool               `json:"is_advance" bson:"is_advance"`
	Description    string             `json:"description,omitempty" bson:"description,omitempty"`
	Notes          string             `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}

type PaymentCreatePayload struct {
	ProjectID      string  `json:"project_id" validate:"omitempty,objectid"`
	ProjectOwnerID string  `json:"project_owner_id" validate:"required,objectid"`
	Amount         float64 `json:"amount" validate:"required,gt=0"`
	Date           string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	PaymentMethod  string  `json:"payment_method" validate:"omitempty,oneof=cash bank cheque upi"`
	Reference      string  `json:"reference" validate:"omitempty,max=100"`
	IsAdvance      bool    `json:"is_advance"`
	Description    string  `json:"description" validate:"omitempty,max=500"`
	Notes          string  `json:"notes" validate:"omitempty,max=500"`
}

type PaymentUpdatePayload struct {
	ProjectID     string   `json:"project_id,omitempty" validate:"omitempty,objectid"`
	Amount        *float64 `json:"amount,omitempty" validate:"omitempty,gt=0"`
	Date          string   `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	PaymentMethod string   `json:"payment_method,omitempty" validate:"omitempty,oneof=cash bank cheque upi"`
	Reference     string   `json:"reference,omitempty" validate:"omitempty,max=100"`
	IsAdvance     *bool    `json:"is_advance,omitempty"`
	Description   string   `json:"description,omitempty" validate:"omitempty,max=500"`
	Notes         string   `json:"notes,omitempty" validate:"omitempty,max=500"`
}
