package utils

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidMobile(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"03001234567", true},
		{"03451234567", true},
		{"0300123456", false},
		{"030012345678", false},
		{"04001234567", false},
		{"+923001234567", false},
		{"0300-1234567", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidMobile(tt.phone))
		})
	}
}

func TestRegisterValidators(t *testing.T) {
	require.NoError(t, RegisterValidators())

	type request struct {
		Phone string `binding:"required,mobile"`
	}

	assert.NoError(t, binding.Validator.ValidateStruct(&request{Phone: "03001234567"}))
	assert.Error(t, binding.Validator.ValidateStruct(&request{Phone: "12345"}))
}
