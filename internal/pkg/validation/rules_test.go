package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `validate:"notblank"`
	Phone string `validate:"omitempty,phone"`
}

func TestRules(t *testing.T) {
	v := validator.New()
	require.NoError(t, v.RegisterValidation("notblank", NotBlank))
	require.NoError(t, v.RegisterValidation("phone", Phone))

	tests := []struct {
		in    sample
		valid bool
	}{
		{sample{Name: "Ada"}, true},
		{sample{Name: "   "}, false},
		{sample{Name: "Ada", Phone: "+1 (555) 010-0100"}, true},
		{sample{Name: "Ada", Phone: "call me"}, false},
		{sample{Name: "Ada", Phone: "123"}, false},
	}
	for _, tt := range tests {
		err := v.Struct(tt.in)
		if tt.valid {
			assert.NoError(t, err, "%+v", tt.in)
		} else {
			assert.Error(t, err, "%+v", tt.in)
		}
	}
}

func TestRegisterIsIdempotent(t *testing.T) {
	require.NoError(t, Register())
	require.NoError(t, Register())
}
