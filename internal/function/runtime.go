// Package function models a deployable function: its declared
// configuration, the artifact paths derived from it, and the Function
// custom resource built from resolved artifacts.
package function

import (
	"errors"
	"fmt"
	"strings"

	oerrors "github.com/kubeless/serverless-deploy/internal/errors"
)

// ErrUnsupportedRuntime is returned when a function declares a runtime that
// no supported family recognises. It wraps ErrValidation.
var ErrUnsupportedRuntime = fmt.Errorf("unsupported runtime: %w", oerrors.ErrValidation)

// Runtime describes how a family of language runtimes lays out its artifacts.
type Runtime struct {
	// Family is the substring that identifies the family in a runtime tag
	// (e.g. "python" matches "python2.7" and "python3.6").
	Family string

	// Extension is appended to the handler module to form the source path.
	Extension string

	// DepsFile is the fixed dependency manifest filename.
	DepsFile string
}

// runtimes lists the supported runtime families in match order.
var runtimes = []Runtime{
	{Family: "python", Extension: ".py", DepsFile: "requirements.txt"},
}

// Matches reports whether the runtime tag belongs to this family.
func (r Runtime) Matches(tag string) bool {
	return strings.Contains(tag, r.Family)
}

// LookupRuntime returns the family for a runtime tag.
func LookupRuntime(tag string) (Runtime, error) {
	for _, rt := range runtimes {
		if rt.Matches(tag) {
			return rt, nil
		}
	}
	return Runtime{}, &UnsupportedRuntimeError{Runtime: tag}
}

// UnsupportedRuntimeError names the runtime tag that was rejected.
type UnsupportedRuntimeError struct {
	Runtime string
}

// Error implements the error interface.
func (e *UnsupportedRuntimeError) Error() string {
	return fmt.Sprintf("the runtime %s is not supported yet", e.Runtime)
}

// Is makes errors.Is(err, ErrUnsupportedRuntime) and ErrValidation match.
func (e *UnsupportedRuntimeError) Is(target error) bool {
	return target == ErrUnsupportedRuntime || errors.Is(ErrUnsupportedRuntime, target)
}
