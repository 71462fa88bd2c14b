package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kubeless/serverless-deploy/internal/deploy"
	oerrors "github.com/kubeless/serverless-deploy/internal/errors"
	"github.com/kubeless/serverless-deploy/internal/function"
)

func TestExitCodeFromError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{
			name:     "nil error returns success",
			err:      nil,
			wantCode: ExitSuccess,
		},
		{
			name:     "validation error",
			err:      oerrors.ErrValidation,
			wantCode: ExitValidationError,
		},
		{
			name:     "wrapped validation error",
			err:      oerrors.Wrap(oerrors.ErrValidation, "manifest check failed"),
			wantCode: ExitValidationError,
		},
		{
			name:     "unsupported runtime",
			err:      fmt.Errorf("function hello: %w", function.ErrUnsupportedRuntime),
			wantCode: ExitValidationError,
		},
		{
			name:     "connectivity error",
			err:      oerrors.ErrConnectivity,
			wantCode: ExitConnectivityError,
		},
		{
			name:     "permission error",
			err:      oerrors.ErrPermission,
			wantCode: ExitPermissionDenied,
		},
		{
			name:     "not found error",
			err:      oerrors.ErrNotFound,
			wantCode: ExitNotFound,
		},
		{
			name:     "aggregate deploy failure",
			err:      &deploy.AggregateError{Messages: []string{"boom"}},
			wantCode: ExitGeneralError,
		},
		{
			name:     "explicit exit error",
			err:      &ExitError{Code: ExitNotFound, Err: errors.New("gone")},
			wantCode: ExitNotFound,
		},
		{
			name:     "unknown error returns general error",
			err:      errors.New("unknown error"),
			wantCode: ExitGeneralError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, ExitCodeFromError(tt.err))
		})
	}
}

func TestExitError(t *testing.T) {
	inner := errors.New("inner")
	err := &ExitError{Code: ExitValidationError, Err: inner}

	assert.Equal(t, "inner", err.Error())
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "Validation Error", (&ExitError{Code: ExitValidationError}).Error())
}

func TestExitCodeName(t *testing.T) {
	assert.Equal(t, "Success", ExitCodeName(ExitSuccess))
	assert.Equal(t, "Not Found", ExitCodeName(ExitNotFound))
	assert.Equal(t, "Unknown", ExitCodeName(42))
}
