// Package service loads the serverless service manifest and turns its
// function declarations into deployable function configs.
package service

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/util/validation"

	oerrors "github.com/kubeless/serverless-deploy/internal/errors"
	"github.com/kubeless/serverless-deploy/internal/function"
	"github.com/kubeless/serverless-deploy/internal/output"
)

//go:embed schema.cue
var schemaSource []byte

// DefaultManifestNames are tried in order when no manifest path is given.
var DefaultManifestNames = []string{"serverless.yml", "serverless.yaml"}

// Service is a decoded service manifest.
type Service struct {
	Name      string                  `json:"service"`
	Provider  Provider                `json:"provider"`
	Package   Package                 `json:"package"`
	Functions map[string]FunctionSpec `json:"functions"`

	// Path is the manifest file the service was loaded from.
	Path string `json:"-"`
}

// Provider holds provider-wide defaults.
type Provider struct {
	Name    string `json:"name"`
	Runtime string `json:"runtime"`
}

// Package describes the packaged artifact.
type Package struct {
	Path string `json:"path"`
}

// FunctionSpec is one entry of the functions map.
type FunctionSpec struct {
	Handler string `json:"handler"`
	Runtime string `json:"runtime"`
}

// FindManifest returns the manifest path. An explicit path wins; otherwise
// the default names are looked up in servicePath.
func FindManifest(explicit, servicePath string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", oerrors.NewNotFoundError(
				fmt.Sprintf("service manifest %s not found", explicit),
				explicit,
				"check the --file flag",
			)
		}
		return explicit, nil
	}

	for _, name := range DefaultManifestNames {
		candidate := filepath.Join(servicePath, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", oerrors.NewNotFoundError(
		"no serverless.yml found",
		servicePath,
		"run from the service directory or pass --service-path",
	)
}

// Load reads and validates the manifest at path.
func Load(path string) (*Service, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, oerrors.NewNotFoundError(fmt.Sprintf("reading service manifest: %v", err), path, "")
	}

	svc, err := Parse(data, path)
	if err != nil {
		return nil, err
	}
	svc.Path = path

	output.Debug("loaded service manifest",
		"path", path,
		"service", svc.Name,
		"functions", len(svc.Functions),
	)
	return svc, nil
}

// Parse decodes manifest bytes and validates them against the embedded
// schema. location is used in error messages only.
func Parse(data []byte, location string) (*Service, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, oerrors.NewValidationError(
			fmt.Sprintf("invalid YAML: %v", err), location, "", "")
	}
	if raw == nil {
		return nil, oerrors.NewValidationError("manifest is empty", location, "", "")
	}

	ctx := cuecontext.New()
	schema := ctx.CompileBytes(schemaSource)
	if schema.Err() != nil {
		return nil, fmt.Errorf("compiling service schema: %w", schema.Err())
	}

	value := schema.LookupPath(cue.ParsePath("#Service")).Unify(ctx.Encode(raw))
	if err := value.Validate(cue.Concrete(true)); err != nil {
		field, msg := describeCUEError(err)
		return nil, oerrors.NewValidationError(msg, location, field,
			"functions need a handler in module.entrypoint form, e.g. handler.hello")
	}

	var svc Service
	if err := value.Decode(&svc); err != nil {
		return nil, fmt.Errorf("decoding service manifest: %w", err)
	}

	if err := svc.validateNames(location); err != nil {
		return nil, err
	}
	return &svc, nil
}

// describeCUEError returns the path and message of the first CUE error.
func describeCUEError(err error) (string, string) {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return "", err.Error()
	}
	first := errs[0]
	path := first.Path()
	if len(path) > 0 && strings.HasPrefix(path[0], "#") {
		path = path[1:]
	}
	format, args := first.Msg()
	return strings.Join(path, "."), fmt.Sprintf(format, args...)
}

// validateNames checks every function name is usable as a resource name.
func (s *Service) validateNames(location string) error {
	if len(s.Functions) == 0 {
		return oerrors.NewValidationError("no functions declared", location, "functions", "")
	}
	for _, name := range s.FunctionNames() {
		if msgs := validation.IsDNS1123Label(name); len(msgs) > 0 {
			return oerrors.NewValidationError(
				fmt.Sprintf("invalid function name %q: %s", name, strings.Join(msgs, "; ")),
				location, "functions."+name, "")
		}
	}
	return nil
}

// FunctionNames returns the declared function names sorted.
func (s *Service) FunctionNames() []string {
	names := lo.Keys(s.Functions)
	sort.Strings(names)
	return names
}

// Select returns the configs of the selected functions, or of every
// function when selected is empty, in name order. Function runtimes fall
// back to the provider runtime.
func (s *Service) Select(selected []string) ([]function.Config, error) {
	names := s.FunctionNames()
	if len(selected) > 0 {
		unknown := lo.Filter(lo.Uniq(selected), func(name string, _ int) bool {
			_, ok := s.Functions[name]
			return !ok
		})
		if len(unknown) > 0 {
			return nil, oerrors.NewValidationError(
				fmt.Sprintf("unknown function(s): %s", strings.Join(unknown, ", ")),
				s.Path, "functions",
				"declared functions: "+strings.Join(names, ", "))
		}
		names = lo.Filter(names, func(name string, _ int) bool {
			return lo.Contains(selected, name)
		})
	}

	configs := make([]function.Config, 0, len(names))
	for _, name := range names {
		spec := s.Functions[name]
		runtime := spec.Runtime
		if runtime == "" {
			runtime = s.Provider.Runtime
		}
		if runtime == "" {
			return nil, oerrors.NewValidationError(
				fmt.Sprintf("function %s has no runtime", name),
				s.Path, "functions."+name+".runtime",
				"set provider.runtime or a per-function runtime")
		}
		configs = append(configs, function.Config{
			Name:    name,
			Handler: spec.Handler,
			Runtime: runtime,
		})
	}
	return configs, nil
}

// PackagePath returns the archive to read artifacts from: the flag value
// when set, otherwise package.path from the manifest. Relative manifest
// paths resolve against servicePath. Empty means read from the directory.
func (s *Service) PackagePath(flagValue, servicePath string) string {
	if flagValue != "" {
		return flagValue
	}
	if s.Package.Path == "" {
		return ""
	}
	if filepath.IsAbs(s.Package.Path) {
		return s.Package.Path
	}
	return filepath.Join(servicePath, s.Package.Path)
}
