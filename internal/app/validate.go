package app

import (
	"fmt"
	"os"

	"pirsvc/pkg/config"
)

// validateConfig performs quick, fail-fast validation of the effective
// configuration before starting long-running services. Keep checks light
// so callers can surface user-friendly errors.
func validateConfig(eff config.EffectiveConfigResult) error {
	switch eff.Config.Server.Store {
	case "", "pebble":
		if eff.DBPath == "" {
			return fmt.Errorf("database path is empty: set --db flag, PIRSVC_DB_PATH env, or server.db_path in config")
		}
	case "memory":
		// no path needed
	default:
		return fmt.Errorf("unknown store driver %q: use \"pebble\" or \"memory\"", eff.Config.Server.Store)
	}

	cert := eff.Config.Server.TLS.CertFile
	key := eff.Config.Server.TLS.KeyFile
	if (cert != "") != (key != "") {
		return fmt.Errorf("incomplete TLS configuration: both server.tls.cert_file and server.tls.key_file must be set")
	}
	if cert != "" {
		if _, err := os.Stat(cert); err != nil {
			return fmt.Errorf("tls cert file not accessible: %w", err)
		}
		if _, err := os.Stat(key); err != nil {
			return fmt.Errorf("tls key file not accessible: %w", err)
		}
	}

	if lvl := eff.Config.Compression.Level; lvl < -2 || lvl > 9 {
		return fmt.Errorf("compression.level %d out of range: gzip accepts -2..9", lvl)
	}

	ret := eff.Config.Retention
	if ret.Enabled && ret.MaxAge.Duration() <= 0 {
		return fmt.Errorf("retention enabled but retention.max_age is unset")
	}

	seen := make(map[string]struct{}, len(eff.Config.Usecases))
	for _, d := range eff.Config.Usecases {
		if d.Name == "" {
			return fmt.Errorf("usecase declared without a name")
		}
		if _, dup := seen[d.Name]; dup {
			return fmt.Errorf("usecase %q declared twice", d.Name)
		}
		seen[d.Name] = struct{}{}
	}
	return nil
}
