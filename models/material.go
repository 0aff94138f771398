package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// total_cost is always recomputed server-side as quantity * unit_price;
// client-supplied values are ignored.
type Material struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Category     string             `json:"category" bson:"category"`
	Quantity     float64            `json:"quantity" bson:"quantity"`
	UnitPrice    float64            `json:"unit_price" bson:"unit_price"`
	TotalCost    float64            `json:"total_cost" bson:"total_cost"`
	Supplier     string             `json:"supplier,omitempty" bson:"supplier,omitempty"`
	ProjectID    primitive.ObjectID `json:"project_id" bson:"project_id"`
	PurchaseDate string             `json:"purchase_date" bson:"purchase_date"`
	Notes        string             `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

type MaterialCreatePayload struct {
	Name         string  `json:"name" validate:"required,min=2,max=150"`
	Category     string  `json:"category" validate:"required,min=2,max=100"`
	Quantity     float64 `json:"quantity" validate:"required,gt=0"`
	UnitPrice    float64 `json:"unit_price" validate:"required,min=0"`
	Supplier     string  `json:"supplier" validate:"omitempty,max=150"`
	ProjectID    string  `json:"project_id" validate:"required,objectid"`
	PurchaseDate string  `json:"purchase_date" validate:"omitempty,datetime=2006-01-02"`
	Notes        string  `json:"notes" validate:"omitempty,max=500"`
}

type MaterialUpdatePayload struct {
	Name         string   `json:"name,omitempty" validate:"omitempty,min=2,max=150"`
	Category     string   `json:"category,omitempty" validate:"omitempty,min=2,max=100"`
	Quantity     *float64 `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	UnitPrice    *float64 `json:"unit_price,omitempty" validate:"omitempty,min=0"`
	Supplier     string   `json:"supplier,omitempty" validate:"omitempty,max=150"`
	ProjectID    string   `json:"project_id,omitempty" validate:"omitempty,objectid"`
	PurchaseDate string   `json:"purchase_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes        string   `json:"notes,omitempty" validate:"omitempty,max=500"`
}
