// Package banner prints the startup summary operators see on stdout.
package banner

import (
	"fmt"

	"pirsvc/pkg/config"
)

const banner = `
██████╗ ██╗██████╗ ███████╗██╗   ██╗ ██████╗
██╔══██╗██║██╔══██╗██╔════╝██║   ██║██╔════╝
██████╔╝██║██████╔╝███████╗██║   ██║██║
██╔═══╝ ██║██╔══██╗╚════██║╚██╗ ██╔╝██║
██║     ██║██║  ██║███████║ ╚████╔╝ ╚██████╗
╚═╝     ╚═╝╚═╝  ╚═╝╚══════╝  ╚═══╝   ╚═════╝
`

// Print writes the banner plus the effective runtime configuration and a
// short production checklist.
func Print(eff config.EffectiveConfigResult, version string, usecases []string) {
	addr := eff.Addr
	if addr == "" && eff.Config != nil {
		addr = eff.Config.Addr()
	}

	fmt.Print(banner)
	fmt.Println("== Config =====================================================")
	fmt.Printf("Listen:   %s\n", addr)
	fmt.Printf("DB Path:  %s\n", eff.DBPath)
	if version != "" {
		fmt.Printf("Version:  %s\n", version)
	}
	fmt.Printf("Config:   %s\n", eff.Source)
	if len(usecases) > 0 {
		fmt.Printf("Usecases: %d registered\n", len(usecases))
		for _, name := range usecases {
			fmt.Printf("  - %s\n", name)
		}
	} else {
		fmt.Println("Usecases: none registered (register programmatically or via config)")
	}

	fmt.Println("\n== Endpoints ==================================================")
	fmt.Println("POST /key    - Upload evaluation keys (JSON: keys[{metadata,evaluationKey}])")
	fmt.Println("POST /config - Fetch usecase configs (JSON: {usecases:[...]})")
	fmt.Println("POST /query  - Dispatch an encrypted query (JSON: {usecase, query})")
	fmt.Println("All requests require the User-Identifier header.")

	fmt.Println("\n== Examples ===================================================")
	fmt.Printf("curl -X POST 'http://localhost%s/config' -H 'User-Identifier: alice' -d '{\"usecases\":[\"demo\"]}'\n", addr)
	fmt.Printf("curl -X POST 'http://localhost%s/query' -H 'User-Identifier: alice' -d '{\"usecase\":\"demo\",\"query\":\"...\"}'\n", addr)

	fmt.Println("\n== Production? ================================================")
	if eff.Config != nil && eff.Config.Server.TLS.CertFile != "" && eff.Config.Server.TLS.KeyFile != "" {
		fmt.Println("- TLS: configured")
	} else {
		fmt.Println("- TLS: unconfigured (terminate TLS in front or set server.tls)")
	}
	if eff.Config != nil && eff.Config.Compression.Enabled {
		fmt.Println("- Compression: enabled (gzip, capability-driven)")
	} else {
		fmt.Println("- Compression: disabled")
	}
	if eff.Config != nil && eff.Config.Retention.Enabled {
		fmt.Printf("- Key retention: enabled (cron=%s max_age=%s)\n",
			eff.Config.Retention.Cron, eff.Config.Retention.MaxAge.Duration())
	} else {
		fmt.Println("- Key retention: disabled (stored evaluation keys are kept forever)")
	}

	fmt.Println("\n== Logs =======================================================")
}
