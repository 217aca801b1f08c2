package pkglog

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/jsonlog/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/jsonlog/internal/pkg/pkgerror"
	"github.com/shandysiswandi/jsonlog/internal/pkg/pkguid"
)

// Configuration keys read by OptionsFromConfig.
const (
	KeyEnabled             = "logging.enabled"
	KeyFramework           = "logging.framework"
	KeyLevel               = "logging.level"
	KeyComponentID         = "logging.component.id"
	KeyComponentName       = "logging.component.name"
	KeyComponentInstance   = "logging.component.instance"
	KeyCorrelationHeaders  = "logging.correlation.headers"
	KeyCorrelationCreate   = "logging.correlation.create"
	KeyCorrelationGenerate = "logging.correlation.generator"
)

// OptionsFromConfig translates configuration values into Init options. Keys
// that are not set keep their defaults.
func OptionsFromConfig(cfg pkgconfig.Config) ([]Option, error) {
	var opts []Option

	if cfg.GetString(KeyEnabled) != "" {
		opts = append(opts, WithEnabled(cfg.GetToggle(KeyEnabled)))
	}

	if fw := cfg.GetString(KeyFramework); fw != "" {
		opts = append(opts, WithFramework(fw))
	}

	if lvl := cfg.GetString(KeyLevel); lvl != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(lvl)); err != nil {
			return nil, pkgerror.NewConfiguration(fmt.Errorf("%s: %w", KeyLevel, err))
		}
		opts = append(opts, WithLevel(l))
	}

	opts = append(opts, WithComponent(
		cfg.GetString(KeyComponentID),
		cfg.GetString(KeyComponentName),
		int(cfg.GetInt(KeyComponentInstance)),
	))

	if headers := cfg.GetArray(KeyCorrelationHeaders); len(headers) > 0 {
		opts = append(opts, WithCorrelationHeaders(headers...))
	}

	if cfg.GetString(KeyCorrelationCreate) != "" {
		opts = append(opts, WithCreateCorrelationID(cfg.GetToggle(KeyCorrelationCreate)))
	}

	switch gen := strings.ToLower(cfg.GetString(KeyCorrelationGenerate)); gen {
	case "", "uuid":
	case "snowflake":
		sf, err := pkguid.NewSnowflakeString()
		if err != nil {
			return nil, pkgerror.NewConfiguration(fmt.Errorf("%s: %w", KeyCorrelationGenerate, err))
		}
		opts = append(opts, WithGenerator(sf))
	default:
		return nil, pkgerror.NewConfiguration(fmt.Errorf("%s: unknown generator %q", KeyCorrelationGenerate, gen))
	}

	return opts, nil
}
