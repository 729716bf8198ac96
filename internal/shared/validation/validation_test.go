package validation

import (
	"errors"
	"testing"

	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/shared/apperr"
)

type allocation struct {
	SdrID string `json:"sdrId" validate:"required"`
}

type request struct {
	Name        string       `json:"name" validate:"required,max=5"`
	Email       string       `json:"email" validate:"omitempty,email"`
	Currency    string       `json:"currency" validate:"omitempty,oneof=USD INR"`
	Months      int          `json:"months" validate:"gte=0,lte=12"`
	Allocations []allocation `json:"allocations" validate:"dive"`
	Internal    string       `json:"-" validate:"max=3"`
}

func TestStruct(t *testing.T) {
	valid := request{Name: "Acme", Email: "a@b.co", Currency: "USD", Months: 3}
	if err := Struct(valid); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*request)
		field  string
		want   string
	}{
		{"required", func(r *request) { r.Name = "" }, "name", "name: is required"},
		{"max string", func(r *request) { r.Name = "toolong" }, "name", "name: must be at most 5 characters"},
		{"email", func(r *request) { r.Email = "nope" }, "email", "email: must be a valid email"},
		{"oneof", func(r *request) { r.Currency = "EUR" }, "currency", "currency: must be one of [USD INR]"},
		{"lte", func(r *request) { r.Months = 13 }, "months", "months: must be less than or equal to 12"},
		{"nested", func(r *request) { r.Allocations = []allocation{{SdrID: "x"}, {}} }, "allocations[1].sdrId", "allocations[1].sdrId: is required"},
	}
	for _, tc := range cases {
		r := valid
		tc.mutate(&r)
		err := Struct(r)
		var appErr *apperr.Error
		if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
		if appErr.Field != tc.field || err.Error() != tc.want {
			t.Fatalf("%s: got field %q message %q", tc.name, appErr.Field, err.Error())
		}
	}
}
