package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"

	"github.com/kubeless/serverless-deploy/internal/output"
)

// envPrefix is the environment variable prefix.
const envPrefix = "KUBELESS"

// Loader reads the config file. Values that ResolveAll arbitrates
// (kubeconfig, context, namespace) come from the file only so their source
// can be reported; the remaining keys also accept environment overrides.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	_ = v.BindEnv("log.timestamps", "KUBELESS_LOG_TIMESTAMPS")
	_ = v.BindEnv("log.kubernetes.apiWarnings", "KUBELESS_LOG_KUBERNETES_APIWARNINGS")
	_ = v.BindEnv("deploy.concurrency", "KUBELESS_DEPLOY_CONCURRENCY")

	v.SetDefault("log.kubernetes.apiWarnings", DefaultAPIWarnings)
	v.SetDefault("deploy.concurrency", DefaultConcurrency)

	return &Loader{v: v}
}

// Load loads configuration from path. A missing file is not an error: the
// result then holds defaults and environment overrides only.
func (l *Loader) Load(path string) (*Config, error) {
	l.v.SetConfigFile(ExpandTilde(path))
	l.v.SetConfigType("yaml")

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		output.Debug("no config file", "path", path)
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
