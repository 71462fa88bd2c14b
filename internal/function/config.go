package function

import "strings"

// Config is a function as declared in the service manifest.
type Config struct {
	// Name is the function name, unique within the service.
	Name string

	// Handler is the entrypoint reference in module.entrypoint form.
	Handler string

	// Runtime is the declared runtime tag (e.g. "python3.6").
	Runtime string
}

// ArtifactPair holds the two relative paths a function deployment needs.
type ArtifactPair struct {
	// HandlerPath is the handler source file.
	HandlerPath string

	// DepsPath is the dependency manifest file.
	DepsPath string
}

// PairFor derives the artifact paths for a function from its handler and
// runtime. It performs no I/O and fails only for unsupported runtimes.
func PairFor(cfg Config) (ArtifactPair, error) {
	rt, err := LookupRuntime(cfg.Runtime)
	if err != nil {
		return ArtifactPair{}, err
	}

	module, _, _ := strings.Cut(cfg.Handler, ".")

	return ArtifactPair{
		HandlerPath: module + rt.Extension,
		DepsPath:    rt.DepsFile,
	}, nil
}
