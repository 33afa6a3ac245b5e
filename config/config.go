package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/occusim/core/engine"
	"github.com/kilianp07/occusim/core/metrics"
	"github.com/kilianp07/occusim/core/roster"
)

type Config struct {
	Building roster.Config  `json:"building"`
	Engine   engine.Config  `json:"engine"`
	Metrics  metrics.Config `json:"metrics"`
	Logs     LogsConfig     `json:"logs"`
	Output   OutputConfig   `json:"output"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("OCCUSIM_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "occusim_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Engine.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.Logs.SetDefaults()
	cfg.Output.SetDefaults()
	cfg.Building.SetDefaults()
	if err := cfg.Engine.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Logs.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
