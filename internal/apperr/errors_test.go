package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"validation", Validation("start_date", "must not be after end_date"), KindValidation},
		{"not found", NotFound("team", "t1"), KindNotFound},
		{"authorization", Unauthorized("team", "only members"), KindAuthorization},
		{"conflict", Conflict("transaction", "already completed"), KindConflict},
		{"parse degraded", ParseDegraded("tech_stack", errors.New("bad json")), KindParseDegraded},
		{"wrapped", fmt.Errorf("loading: %w", NotFound("milestone", "m1")), KindNotFound},
		{"invalid", Invalid("request", errors.New("Key: 'Title' failed")), KindValidation},
		{"plain", errors.New("boom"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("wrap: %w", Validation("amount", "must be positive"))
	assert.True(t, Is(err, KindValidation))
	assert.False(t, Is(err, KindNotFound))
	assert.False(t, Is(nil, KindValidation))
}

func TestError_Message(t *testing.T) {
	err := NotFound("team", "abc")
	assert.Equal(t, "NOT_FOUND team: team not found: abc", err.Error())

	cause := errors.New("unexpected token")
	degraded := ParseDegraded("industries", cause)
	assert.Contains(t, degraded.Error(), "unexpected token")
	assert.ErrorIs(t, degraded, cause)
}
