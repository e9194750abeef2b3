package errs

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromValidatorMessagesFollowFieldKind(t *testing.T) {
	type sample struct {
		Status *int   `validate:"omitempty,min=1,max=5"`
		Book   uint   `validate:"min=1"`
		Title  string `validate:"max=3"`
		ISBN   string `validate:"min=2"`
	}
	status := 9
	err := FromValidator(validator.New().Struct(sample{Status: &status, Title: "Dune", ISBN: "1"}))

	ve, ok := AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, []string{"Ensure this value is less than or equal to 5."}, ve.Fields["Status"])
	assert.Equal(t, []string{"Ensure this value is greater than or equal to 1."}, ve.Fields["Book"])
	assert.Equal(t, []string{"Ensure this field has no more than 3 characters."}, ve.Fields["Title"])
	assert.Equal(t, []string{"Ensure this field has at least 2 characters."}, ve.Fields["ISBN"])
}

func TestValidationErrorOrNil(t *testing.T) {
	assert.NoError(t, (&ValidationError{}).OrNil())
	assert.Error(t, Invalid("title", "This field is required.").OrNil())
}
