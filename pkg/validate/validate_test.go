package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type registerInput struct {
	Email                string  `json:"email"    validate:"required,email"`
	Password             string  `json:"password" validate:"required,min=8,confirmed"`
	PasswordConfirmation string  `json:"password_confirmation"`
	Name                 string  `json:"name"     validate:"nullable,max=100"`
	Quantity             int     `json:"quantity" validate:"gte=1,lte=99"`
	Size                 string  `json:"size"     validate:"in=XS,S,M,L,XL,ONE SIZE,UNIQUE"`
	Total                float64 `json:"total"    validate:"min=0"`
}

func valid() registerInput {
	return registerInput{
		Email:                "trancend@example.com",
		Password:             "supersecret",
		PasswordConfirmation: "supersecret",
		Quantity:             1,
		Size:                 "M",
	}
}

func TestValidInputPasses(t *testing.T) {
	in := valid()
	errs := Struct(&in)
	assert.False(t, HasErrors(errs), "unexpected errors: %v", errs)
}

func TestRequiredAndEmail(t *testing.T) {
	in := valid()
	in.Email = ""
	errs := Struct(&in)
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs["email"], "required")

	in.Email = "not-an-address"
	errs = Struct(&in)
	assert.Contains(t, errs["email"], "valid email")
}

func TestMinLengthAndConfirmed(t *testing.T) {
	in := valid()
	in.Password = "short"
	in.PasswordConfirmation = "short"
	errs := Struct(&in)
	assert.Contains(t, errs["password"], "at least 8")

	in = valid()
	in.PasswordConfirmation = "different"
	errs = Struct(&in)
	assert.Contains(t, errs["password"], "confirmation does not match")
}

func TestNullableSkipsEmptyField(t *testing.T) {
	in := valid()
	in.Name = ""
	assert.False(t, HasErrors(Struct(&in)))

	in.Name = strings.Repeat("a", 101)
	assert.True(t, HasErrors(Struct(&in)))
}

func TestNumericBounds(t *testing.T) {
	in := valid()
	in.Quantity = 0
	errs := Struct(&in)
	assert.Contains(t, errs, "quantity")

	in.Quantity = 100
	errs = Struct(&in)
	assert.Contains(t, errs["quantity"], "at most 99")
}

func TestInRule(t *testing.T) {
	in := valid()
	in.Size = "XXL"
	errs := Struct(&in)
	assert.Contains(t, errs, "size")
}

func TestFirstFailingRuleWinsPerField(t *testing.T) {
	in := valid()
	in.Password = ""
	errs := Struct(&in)
	assert.Contains(t, errs["password"], "required", "required should fire before min/confirmed")
}
