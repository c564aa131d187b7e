package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"todoapp/api/internal/config"
)

// check is a single posture rule evaluated against the loaded configuration.
type check struct {
	name string
	fail func(cfg *config.Config) string // empty string means pass
}

var checks = []check{
	{
		name: "Database credentials",
		fail: func(cfg *config.Config) string {
			if strings.Contains(cfg.DatabaseURL, "postgres:password@") {
				return "DATABASE_URL is using default development credentials"
			}
			return ""
		},
	},
	{
		name: "Database transport",
		fail: func(cfg *config.Config) string {
			if strings.Contains(cfg.DatabaseURL, "sslmode=disable") {
				return "DATABASE_URL disables TLS"
			}
			return ""
		},
	},
	{
		name: "CORS policy",
		fail: func(cfg *config.Config) string {
			for _, o := range cfg.AllowedOrigins {
				if o == "*" {
					return "CORS_ALLOWED_ORIGINS allows any origin"
				}
			}
			return ""
		},
	},
	{
		name: "Log verbosity",
		fail: func(cfg *config.Config) string {
			if cfg.LogLevel < slog.LevelInfo {
				return "LOG_LEVEL below INFO in production"
			}
			return ""
		},
	},
}

func main() {
	fmt.Println("Running security posture audit...")

	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: no .env file found, checking system env vars...")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("FAIL: configuration does not load: %v\n", err)
		os.Exit(1)
	}

	if cfg.Environment != "production" {
		fmt.Printf("NOTICE: APP_ENV is %q; production rules are evaluated anyway.\n", cfg.Environment)
	}

	hasErrors := false
	for _, c := range checks {
		if msg := c.fail(cfg); msg != "" {
			fmt.Printf("FAIL: %s: %s\n", c.name, msg)
			hasErrors = true
			continue
		}
		fmt.Printf("PASS: %s\n", c.name)
	}

	fmt.Println("--------------------------------------------------")
	if hasErrors {
		fmt.Println("VERDICT: SECURITY POSTURE FAILED.")
		os.Exit(1)
	}
	fmt.Println("VERDICT: SECURITY POSTURE VALIDATED.")
}
