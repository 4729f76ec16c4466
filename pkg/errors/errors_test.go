package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/narwhalmedia/marquee/pkg/errors"
)

func TestHTTPStatus(t *testing.T) {
	cause := stderrors.New("boom")

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", errors.NotFound("movie not found"), http.StatusNotFound},
		{"bad request", errors.BadRequest("bad json"), http.StatusBadRequest},
		{"validation", errors.Validation(cause), http.StatusUnprocessableEntity},
		{"unavailable", errors.Unavailable("catalog", cause), http.StatusBadGateway},
		{"wrapped unavailable", fmt.Errorf("snapshot: %w", errors.Unavailable("catalog", cause)), http.StatusBadGateway},
		{"plain", cause, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.HTTPStatus(tt.err))
		})
	}
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := stderrors.New("dial tcp: refused")
	err := errors.Unavailable("catalog request failed", cause)

	assert.True(t, errors.IsUnavailable(err))
	assert.False(t, errors.IsNotFound(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "UNAVAILABLE")
}
