package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/gatekeeper/internal/errors"
)

func TestTokenValue(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		shouldErr bool
	}{
		{
			name:      "valid alphanumeric value",
			value:     "qF3qyhPxEJWmGpGUASGXJeAQvxf2Ub0z",
			shouldErr: false,
		},
		{
			name:      "contains hyphen",
			value:     "abc-def",
			shouldErr: true,
		},
		{
			name:      "contains whitespace",
			value:     "abc def",
			shouldErr: true,
		},
		{
			name:      "empty string",
			value:     "",
			shouldErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := TokenValue.Validate(tt.value)

			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUsername(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		shouldErr bool
	}{
		{
			name:      "simple username",
			value:     "alice",
			shouldErr: false,
		},
		{
			name:      "dots underscores and hyphens",
			value:     "first.last_name-2",
			shouldErr: false,
		},
		{
			name:      "contains slash",
			value:     "alice/admin",
			shouldErr: true,
		},
		{
			name:      "contains space",
			value:     "alice smith",
			shouldErr: true,
		},
		{
			name:      "empty string",
			value:     "",
			shouldErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Username.Validate(tt.value)

			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNoWhitespace(t *testing.T) {
	assert.NoError(t, NoWhitespace.Validate("clean"))
	assert.NoError(t, NoWhitespace.Validate("has inner space"))
	assert.Error(t, NoWhitespace.Validate(" leading"))
	assert.Error(t, NoWhitespace.Validate("trailing "))
}

func TestNotBlank(t *testing.T) {
	assert.NoError(t, NotBlank.Validate("value"))
	assert.Error(t, NotBlank.Validate(""))
	assert.Error(t, NotBlank.Validate("   "))
	assert.Error(t, NotBlank.Validate("\t\n"))
}

func TestWrapValidationError(t *testing.T) {
	t.Run("nil error stays nil", func(t *testing.T) {
		assert.NoError(t, WrapValidationError(nil))
	})

	t.Run("wraps as invalid input", func(t *testing.T) {
		err := WrapValidationError(apperrors.New("token: cannot be blank."))

		assert.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
		assert.Contains(t, err.Error(), "token: cannot be blank.")
	})
}
