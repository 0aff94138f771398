package util

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type objectIDPayload struct {
	ID string `validate:"required,objectid"`
}

func TestValidateObjectID(t *testing.T) {
	valid := objectIDPayload{ID: primitive.NewObjectID().Hex()}
	if errs := ValidateStruct(valid); errs != nil {
		t.Errorf("valid ObjectID rejected: %+v", errs[0])
	}

	invalid := objectIDPayload{ID: "not-an-object-id"}
	errs := ValidateStruct(invalid)
	if errs == nil {
		t.Fatal("invalid ObjectID accepted")
	}
	if errs[0].Tag != "objectid" {
		t.Errorf("tag = %q, want objectid", errs[0].Tag)
	}
}

type passwordPayload struct {
	Password string `validate:"required,min=8,hasuppercase"`
}

func TestValidateHasUppercase(t *testing.T) {
	if errs := ValidateStruct(passwordPayload{Password: "Secret123"}); errs != nil {
		t.Errorf("valid password rejected: %+v", errs[0])
	}

	errs := ValidateStruct(passwordPayload{Password: "secret123"})
	if errs == nil {
		t.Fatal("lowercase-only password accepted")
	}
	if errs[0].Tag != "hasuppercase" {
		t.Errorf("tag = %q, want hasuppercase", errs[0].Tag)
	}
}

type datePayload struct {
	Date string `validate:"required,datetime=2006-01-02"`
}

func TestValidateDateFormat(t *testing.T) {
	if errs := ValidateStruct(datePayload{Date: "2025-03-03"}); errs != nil {
		t.Errorf("valid date rejected: %+v", errs[0])
	}
	if errs := ValidateStruct(datePayload{Date: "03/03/2025"}); errs == nil {
		t.Error("malformed date accepted")
	}
}

func TestValidateStructReportsAllFailures(t *testing.T) {
	type multi struct {
		ID   string `validate:"required,objectid"`
		Date string `validate:"required,datetime=2006-01-02"`
	}
	errs := ValidateStruct(multi{})
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2", len(errs))
	}
}
