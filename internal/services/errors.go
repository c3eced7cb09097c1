package services

import (
	"errors"

	apperrors "github.com/vytor/lexiflash/internal/errors"
	"github.com/vytor/lexiflash/internal/learnapi"
	"github.com/vytor/lexiflash/internal/learning"
)

// upstreamError maps a learning API failure to an AppError.
func upstreamError(op string, err error) *apperrors.AppError {
	if errors.Is(err, learnapi.ErrUnauthorized) {
		return apperrors.NewUnauthorizedError(err)
	}
	return apperrors.NewUpstreamError(op, err)
}

// sessionError maps controller state errors to AppErrors.
func sessionError(err error) error {
	switch {
	case errors.Is(err, learning.ErrWrongMode):
		return apperrors.NewConflictError(err.Error())
	case errors.Is(err, learning.ErrNoExercise):
		return apperrors.NewConflictError(err.Error())
	default:
		return apperrors.NewInternalError(err)
	}
}
