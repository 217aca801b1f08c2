package pkgconfig

import (
	"strings"

	"github.com/spf13/viper"
)

// Env is a Config implementation that only reads environment variables.
//
// Keys are matched case-insensitively and dots map to underscores, so
// GetString("logging.level") reads LOGGING_LEVEL.
type Env struct {
	v *viper.Viper
}

// NewEnv returns an environment-backed Config.
func NewEnv() *Env {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Env{v: v}
}

func (e *Env) GetInt(key string) int64 { return e.v.GetInt64(key) }

func (e *Env) GetBool(key string) bool { return e.v.GetBool(key) }

func (e *Env) GetFloat(key string) float64 { return e.v.GetFloat64(key) }

func (e *Env) GetString(key string) string { return e.v.GetString(key) }

func (e *Env) GetBinary(key string) []byte {
	return (&Viper{v: e.v}).GetBinary(key)
}

func (e *Env) GetArray(key string) []string { return splitList(e.v.GetString(key)) }

func (e *Env) GetMap(key string) map[string]string {
	return (&Viper{v: e.v}).GetMap(key)
}

func (e *Env) GetToggle(key string) bool { return ParseToggle(e.v.GetString(key)) }

func (e *Env) Close() error { return nil }
