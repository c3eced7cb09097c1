package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/lexiflash/internal/errors"
)

func TestAppError_Error(t *testing.T) {
	err := errors.NewNotFoundError("session", "abc")
	assert.Equal(t, "NOT_FOUND: session not found: abc", err.Error())
	assert.Equal(t, http.StatusNotFound, err.Status)

	wrapped := errors.NewUpstreamError("load words", stderrors.New("connection refused"))
	assert.Contains(t, wrapped.Error(), "connection refused")
	assert.Equal(t, http.StatusBadGateway, wrapped.Status)
}

func TestAs_FindsWrappedAppError(t *testing.T) {
	base := stderrors.New("401")
	err := fmt.Errorf("submit: %w", errors.NewUnauthorizedError(base))

	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeUnauthorized, appErr.Code)
	assert.True(t, stderrors.Is(err, base))
	assert.True(t, errors.HasCode(err, errors.ErrCodeUnauthorized))
	assert.False(t, errors.HasCode(stderrors.New("plain"), errors.ErrCodeUnauthorized))
}
