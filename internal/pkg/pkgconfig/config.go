package pkgconfig

import "strings"

// Config is the read-only view of configuration used by the application.
type Config interface {
	GetInt(key string) int64
	GetBool(key string) bool
	GetFloat(key string) float64
	GetString(key string) string
	GetBinary(key string) []byte
	GetArray(key string) []string
	GetMap(key string) map[string]string
	// GetToggle reports whether key holds one of the accepted truthy forms.
	GetToggle(key string) bool
	Close() error
}

// ParseToggle reports whether v is a truthy toggle value: true, 1, y or yes
// (case-insensitive, surrounding space ignored).
func ParseToggle(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "y", "yes":
		return true
	default:
		return false
	}
}

var (
	_ Config = (*Viper)(nil)
	_ Config = (*Env)(nil)
)
