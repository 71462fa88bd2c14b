package kubernetes

import (
	"fmt"

	"github.com/kubeless/serverless-deploy/internal/output"
)

// warningLogger is the subset of logging used for API warnings.
type warningLogger interface {
	Warn(msg string, keyvals ...interface{})
	Debug(msg string, keyvals ...interface{})
}

// outputLogger forwards to the package-level output helpers.
type outputLogger struct{}

func (outputLogger) Warn(msg string, keyvals ...interface{})  { output.Warn(msg, keyvals...) }
func (outputLogger) Debug(msg string, keyvals ...interface{}) { output.Debug(msg, keyvals...) }

// warningHandler implements rest.WarningHandler and routes API server
// warnings through the CLI logger instead of klog.
type warningHandler struct {
	// level is "warn", "debug" or "suppress". Anything else logs at warn.
	level  string
	logger warningLogger
}

func newWarningHandler(level string) *warningHandler {
	return &warningHandler{level: level, logger: outputLogger{}}
}

// HandleWarningHeader implements rest.WarningHandler.
func (h *warningHandler) HandleWarningHeader(code int, agent string, text string) {
	msg := fmt.Sprintf("k8s API warning: %s", text)

	switch h.level {
	case "debug":
		h.logger.Debug(msg)
	case "suppress":
		return
	default:
		h.logger.Warn(msg)
	}
}
