package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceHalfday = "halfday"
)

// One record per (worker_id, date), enforced by a unique compound index.
type Attendance struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Date          string             `json:"date" bson:"date"`
	WorkerID      primitive.ObjectID `json:"worker_id" bson:"worker_id"`
	ProjectID     primitive.ObjectID `json:"project_id" bson:"project_id"`
	Status        string             `json:"status" bson:"status"`
	OvertimeHours float64            `json:"overtime_hours" bson:"overtime_hours"`
	Notes         string             `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

type AttendanceCreatePayload struct {
	Date          string  `json:"date" validate:"required,datetime=2006-01-02"`
	WorkerID      string  `json:"worker_id" validate:"required,objectid"`
	ProjectID     string  `json:"project_id" validate:"required,objectid"`
	Status        string  `json:"status" validate:"required,oneof=present absent halfday"`
	OvertimeHours float64 `json:"overtime_hours" validate:"omitempty,min=0"`
	Notes         string  `json:"notes" validate:"omitempty,max=500"`
}

type AttendanceUpdatePayload struct {
	Status        string   `json:"status,omitempty" validate:"omitempty,oneof=present absent halfday"`
	OvertimeHours *float64 `json:"overtime_hours,omitempty" validate:"omitempty,min=0"`
	Notes         string   `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// AttendanceWithDetails joins worker and project names for listings.
type AttendanceWithDetails struct {
	ID            primitive.ObjectID `json:"id" bson:"_id"`
	Date          string             `json:"date" bson:"date"`
	WorkerID      primitive.ObjectID `json:"worker_id" bson:"worker_id"`
	ProjectID     primitive.ObjectID `json:"project_id" bson:"project_id"`
	Status        string             `json:"status" bson:"status"`
	OvertimeHours float64            `json:"overtime_hours" bson:"overtime_hours"`
	Notes         string             `json:"notes,omitempty" bson:"notes,omitempty"`
	WorkerName    string             `json:"worker_name" bson:"worker_name"`
	WorkerRole    string             `json:"worker_role,omitempty" bson:"worker_role,omitempty"`
	ProjectName   string             `json:"project_name" bson:"project_name"`
}

// AttendanceReportRow is one bucket of the grouped attendance report.
type AttendanceReportRow struct {
	Group   string `json:"group" bson:"_id"`
	Present int64  `json:"present" bson:"present"`
	Absent  int64  `json:"absent" bson:"absent"`
	Halfday int64  `json:"halfday" bson:"halfday"`
	Total   int64  `json:"total" bson:"total"`
}
