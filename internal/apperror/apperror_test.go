package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "rate abc not found", NotFound("rate %s not found", "abc").Error())

	cause := errors.New("connection refused")
	wrapped := Internal("query incomes", cause)
	assert.Equal(t, "query incomes: connection refused", wrapped.Error())
	assert.Equal(t, cause, errors.Unwrap(wrapped))
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", Validation("check_out must be after check_in"), KindValidation},
		{"not found", NotFound("apartment missing"), KindNotFound},
		{"conflict", Conflict("username taken"), KindConflict},
		{"unauthorized", Unauthorized("token expired"), KindUnauthorized},
		{"internal", Internal("db down", errors.New("dial tcp")), KindInternal},
		{"wrapped in fmt", fmt.Errorf("create income: %w", Validation("bad dates")), KindValidation},
		{"plain error", errors.New("boom"), KindInternal},
		{"nil", nil, KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(Validation("bad")))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("gone")))
	assert.Equal(t, http.StatusConflict, HTTPStatus(Conflict("dup")))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(Unauthorized("no")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(fmt.Errorf("load: %w", NotFound("x"))))
}
