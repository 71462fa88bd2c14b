package kubernetes

import (
	"errors"
	"net/http"

	apierrors "k8s.io/apimachinery/pkg/api/errors"

	oerrors "github.com/kubeless/serverless-deploy/internal/errors"
)

// StatusCode extracts the HTTP status code and message from an API error.
// Errors that never reached the API server (transport failures, cancelled
// contexts) report code 0 and the error text.
func StatusCode(err error) (int32, string) {
	if err == nil {
		return 0, ""
	}
	var status apierrors.APIStatus
	if errors.As(err, &status) {
		s := status.Status()
		return s.Code, s.Message
	}
	return 0, err.Error()
}

// IsAlreadyExists reports whether err is a create conflict: either the
// AlreadyExists reason or a bare 409.
func IsAlreadyExists(err error) bool {
	if err == nil {
		return false
	}
	if apierrors.IsAlreadyExists(err) {
		return true
	}
	code, _ := StatusCode(err)
	return code == http.StatusConflict
}

// classifyError wraps an API error with the matching CLI sentinel so
// callers can map it to an exit code.
func classifyError(err error) error {
	switch {
	case err == nil:
		return nil
	case apierrors.IsForbidden(err), apierrors.IsUnauthorized(err):
		return errors.Join(oerrors.ErrPermission, err)
	case apierrors.IsNotFound(err):
		return errors.Join(oerrors.ErrNotFound, err)
	case apierrors.IsServerTimeout(err), apierrors.IsTimeout(err), apierrors.IsServiceUnavailable(err):
		return errors.Join(oerrors.ErrConnectivity, err)
	}
	if code, _ := StatusCode(err); code == 0 {
		return errors.Join(oerrors.ErrConnectivity, err)
	}
	return err
}
