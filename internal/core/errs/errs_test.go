package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	assert.Equal(t, http.StatusOK, CodeOf(nil))
	assert.Equal(t, http.StatusNotFound, CodeOf(NotFound("property not found")))
	assert.Equal(t, http.StatusGone, CodeOf(fmt.Errorf("wrapped: %w", Gone("deleted"))))
	assert.Equal(t, http.StatusInternalServerError, CodeOf(errors.New("raw")))
	assert.True(t, Is(BadRequest("x"), http.StatusBadRequest))
	assert.False(t, Is(nil, http.StatusOK))
}

func TestInternalHidesCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Internal("failed to load property", cause)
	assert.Equal(t, "failed to load property", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Conflict", (&Error{Code: http.StatusConflict}).Error())
}
