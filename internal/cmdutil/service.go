package cmdutil

import (
	"path/filepath"

	"github.com/kubeless/serverless-deploy/internal/artifact"
	"github.com/kubeless/serverless-deploy/internal/function"
	"github.com/kubeless/serverless-deploy/internal/service"
)

// LoadedService is a parsed service with the selected functions and an
// artifact resolver scoped to one run.
type LoadedService struct {
	Service  *service.Service
	Configs  []function.Config
	Resolver *artifact.Resolver
	Cache    *artifact.ArchiveCache
}

// LoadService finds and parses the manifest, selects functions, and picks
// the artifact source (package archive or service directory).
func LoadService(f *ServiceFlags) (*LoadedService, error) {
	servicePath := f.ServicePath
	if servicePath == "" {
		servicePath = "."
	}

	manifest, err := service.FindManifest(f.File, servicePath)
	if err != nil {
		return nil, err
	}

	svc, err := service.Load(manifest)
	if err != nil {
		return nil, err
	}

	configs, err := svc.Select(f.Functions)
	if err != nil {
		return nil, err
	}

	// Artifacts live next to an explicit manifest unless a service path
	// was given.
	if f.File != "" && f.ServicePath == "." {
		servicePath = filepath.Dir(manifest)
	}

	cache := artifact.NewArchiveCache()
	source := artifact.NewSource(svc.PackagePath(f.Package, servicePath), servicePath, cache)

	return &LoadedService{
		Service:  svc,
		Configs:  configs,
		Resolver: artifact.NewResolver(source),
		Cache:    cache,
	}, nil
}
