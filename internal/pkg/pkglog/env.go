package pkglog

import (
	"sync"

	"github.com/shandysiswandi/jsonlog/internal/pkg/pkgconfig"
)

// Environment variables read once per process.
const (
	EnvEnableJSON      = "ENABLE_JSON_LOGGING"
	EnvEnableJSONDebug = "ENABLE_JSON_LOGGING_DEBUG"
)

//nolint:gochecknoglobals // read once at process start
var (
	envEnabled = sync.OnceValue(func() bool {
		return pkgconfig.NewEnv().GetToggle(EnvEnableJSON)
	})
	envDebug = sync.OnceValue(func() bool {
		return pkgconfig.NewEnv().GetToggle(EnvEnableJSONDebug)
	})
)

// EnabledFromEnv reports whether ENABLE_JSON_LOGGING was set to a truthy
// value (true, 1, y, yes) when the process first asked.
func EnabledFromEnv() bool { return envEnabled() }
