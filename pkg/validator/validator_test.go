package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sendOtpForm struct {
	PhoneNumber string `validate:"required,len=10,numeric"`
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, Validate(sendOtpForm{PhoneNumber: "9876543210"}))
}

func TestValidate_Missing(t *testing.T) {
	err := Validate(sendOtpForm{})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "is required", valErr.Fields()["PhoneNumber"])
}

func TestValidate_WrongLength(t *testing.T) {
	err := Validate(sendOtpForm{PhoneNumber: "12345"})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Error(), "exactly 10 characters")
}

func TestValidate_NonNumeric(t *testing.T) {
	err := Validate(sendOtpForm{PhoneNumber: "98765x3210"})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "must contain only digits", valErr.Fields()["PhoneNumber"])
}
