package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads and parses the YAML config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// EffectiveConfigResult is the single merged configuration the server
// runs with, plus where its primary values came from.
type EffectiveConfigResult struct {
	Config *Config
	Addr   string
	DBPath string
	Source string // "flags", "config", or "env"
}

// LoadEffective merges config file, environment overrides and flags into
// one effective configuration. Precedence: explicit flags > env > file >
// built-in defaults.
func LoadEffective(flags Flags) (EffectiveConfigResult, error) {
	fileCfg, filePresent, err := ParseConfigFile(flags)
	if err != nil {
		return EffectiveConfigResult{}, err
	}
	envCfg, envRes := ParseConfigEnvs()

	cfg := fileCfg
	source := "flags"
	if filePresent {
		source = "config"
	}

	// env overrides on top of the file config
	if envRes.EnvUsed {
		mergeEnv(cfg, envCfg)
		if !filePresent {
			source = "env"
		}
	}

	eff := EffectiveConfigResult{Config: cfg, Source: source}

	// addr: flag wins, then file/env, then flag default
	if flags.Set["addr"] {
		eff.Addr = flags.Addr
	} else if a := cfg.Addr(); a != "" {
		eff.Addr = a
	} else {
		eff.Addr = flags.Addr
	}
	// db path: same precedence
	if flags.Set["db"] {
		eff.DBPath = flags.DB
	} else if cfg.Server.DBPath != "" {
		eff.DBPath = cfg.Server.DBPath
	} else {
		eff.DBPath = flags.DB
	}
	return eff, nil
}

// mergeEnv copies env-provided values over the file config. Only fields
// the env parser can set are considered.
func mergeEnv(dst, env *Config) {
	if env.Server.Address != "" {
		dst.Server.Address = env.Server.Address
	}
	if env.Server.Port != 0 {
		dst.Server.Port = env.Server.Port
	}
	if env.Server.DBPath != "" {
		dst.Server.DBPath = env.Server.DBPath
	}
	if env.Server.Store != "" {
		dst.Server.Store = env.Server.Store
	}
	if len(env.Security.CORS.AllowedOrigins) > 0 {
		dst.Security.CORS.AllowedOrigins = env.Security.CORS.AllowedOrigins
	}
	if len(env.Security.IPWhitelist) > 0 {
		dst.Security.IPWhitelist = env.Security.IPWhitelist
	}
	if env.Security.RateLimit.RPS != 0 {
		dst.Security.RateLimit.RPS = env.Security.RateLimit.RPS
	}
	if env.Security.RateLimit.Burst != 0 {
		dst.Security.RateLimit.Burst = env.Security.RateLimit.Burst
	}
	if env.Logging.Level != "" {
		dst.Logging.Level = env.Logging.Level
	}
}
