package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	oerrors "github.com/kubeless/serverless-deploy/internal/errors"
	"github.com/kubeless/serverless-deploy/internal/function"
	"github.com/kubeless/serverless-deploy/internal/output"
)

// ErrArtifactNotFound is returned when a function's handler source cannot be
// read. It wraps ErrNotFound.
var ErrArtifactNotFound = fmt.Errorf("artifact not found: %w", oerrors.ErrNotFound)

// NotFoundError reports a handler file or entry that could not be read.
type NotFoundError struct {
	// Path is the relative artifact path.
	Path string
	// Location is the source the path was resolved against.
	Location string
	// Err is the underlying read error.
	Err error
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("handler %s not found in %s: %v", e.Path, e.Location, e.Err)
}

// Unwrap returns the underlying read error.
func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// Is matches ErrArtifactNotFound and ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrArtifactNotFound || errors.Is(ErrArtifactNotFound, target)
}

// Resolved holds the artifact text of one function.
type Resolved struct {
	// Pair is the pair of paths the content was read from.
	Pair function.ArtifactPair

	// HandlerContent is the handler source.
	HandlerContent string

	// DepsContent is the dependency manifest, empty when the function has none.
	DepsContent string
}

// Resolver reads function artifacts from a single Source.
type Resolver struct {
	source Source
}

// NewResolver creates a resolver over source.
func NewResolver(source Source) *Resolver {
	return &Resolver{source: source}
}

// Source returns the underlying artifact source.
func (r *Resolver) Source() Source {
	return r.source
}

// Resolve reads the handler source and dependency manifest of a function.
// An unsupported runtime fails before any read. A missing handler is fatal;
// a missing dependency manifest resolves to empty content.
func (r *Resolver) Resolve(ctx context.Context, cfg function.Config) (*Resolved, error) {
	pair, err := function.PairFor(cfg)
	if err != nil {
		return nil, err
	}

	handler, err := r.source.ReadText(ctx, pair.HandlerPath)
	if err != nil {
		return nil, r.readError(ctx, pair.HandlerPath, err)
	}

	deps, err := r.source.ReadText(ctx, pair.DepsPath)
	switch {
	case err == nil:
	case isMissing(err):
		output.Debug("no dependency manifest found",
			"function", cfg.Name,
			"path", pair.DepsPath,
		)
		deps = ""
	default:
		return nil, r.readError(ctx, pair.DepsPath, err)
	}

	return &Resolved{
		Pair:           pair,
		HandlerContent: handler,
		DepsContent:    deps,
	}, nil
}

// readError reports a missing artifact as a NotFoundError. Cancellation
// is returned as the context error; other failures keep their cause.
func (r *Resolver) readError(ctx context.Context, relPath string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if isMissing(err) {
		return &NotFoundError{Path: relPath, Location: r.source.Location(), Err: err}
	}
	return fmt.Errorf("reading %s from %s: %w", relPath, r.source.Location(), err)
}

// isMissing reports whether err means the file or archive entry is absent.
func isMissing(err error) bool {
	return errors.Is(err, ErrEntryNotFound) || errors.Is(err, fs.ErrNotExist)
}
