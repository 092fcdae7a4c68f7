package response

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOKWithData(t *testing.T) {
	resp := StatusOKWithData(map[string]any{"id": 1})

	assert.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.Equal(t, map[string]any{"id": 1}, resp.Data)
}

func TestError(t *testing.T) {
	resp := Error("something failed")

	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "something failed", resp.Error)
}

func TestValidationError(t *testing.T) {
	type req struct {
		Email    string `validate:"required,email"`
		Birthday string `validate:"omitempty,datetime=2006-01-02"`
	}

	validate := validator.New()

	tests := []struct {
		name    string
		input   req
		wantMsg string
	}{
		{
			name:    "missing required field",
			input:   req{},
			wantMsg: "field Email is a required field",
		},
		{
			name:    "invalid email",
			input:   req{Email: "not-an-email"},
			wantMsg: "field Email must be a valid email address",
		},
		{
			name:    "invalid date format",
			input:   req{Email: "a@x.com", Birthday: "01-02-2000"},
			wantMsg: "field Birthday can contain only date in format 2006-01-02",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.input)
			require.Error(t, err)

			resp := ValidationError(err.(validator.ValidationErrors))
			assert.Equal(t, StatusError, resp.Status)
			assert.Contains(t, resp.Error, tt.wantMsg)
		})
	}
}
