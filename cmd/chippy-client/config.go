package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"
)

type appConfig struct {
	addr      string
	name      string
	logFormat string
	logLevel  string
	dialTO    time.Duration
}

func parseFlags() (*appConfig, bool) {
	cfg := &appConfig{}
	addr := flag.String("addr", "localhost:7300", "chippy-server TCP address")
	name := flag.String("name", "", "player name to introduce as (required)")
	logFormat := flag.String("log-format", "text", "Log format: text|json")
	logLevel := flag.String("log-level", "warn", "Log level: debug|info|warn|error")
	dialTO := flag.Duration("dial-timeout", 5*time.Second, "Connection dial timeout")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	cfg.addr = *addr
	cfg.name = *name
	cfg.logFormat = *logFormat
	cfg.logLevel = *logLevel
	cfg.dialTO = *dialTO

	if err := applyEnvOverrides(cfg); err != nil {
		fmt.Printf("environment override error: %v\n", err)
		return nil, *showVersion
	}
	if *showVersion {
		return cfg, true
	}
	if err := cfg.validate(); err != nil {
		fmt.Printf("configuration error: %v\n", err)
		return nil, *showVersion
	}
	return cfg, *showVersion
}

func (c *appConfig) validate() error {
	if c == nil {
		return errors.New("nil config")
	}
	if strings.TrimSpace(c.name) == "" {
		return errors.New("-name is required")
	}
	if strings.TrimSpace(c.addr) == "" {
		return errors.New("-addr is required")
	}
	switch c.logFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log-format: %s", c.logFormat)
	}
	switch c.logLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log-level: %s", c.logLevel)
	}
	if c.dialTO <= 0 {
		return errors.New("dial-timeout must be > 0")
	}
	return nil
}

// applyEnvOverrides maps CHIPPY_CLIENT_* environment variables, same
// flags-win-over-env rule as the server.
func applyEnvOverrides(c *appConfig) error {
	get := func(k string) (string, bool) { v, ok := os.LookupEnv(k); return strings.TrimSpace(v), ok }
	set := map[string]struct{}{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = struct{}{} })

	if _, ok := set["addr"]; !ok {
		if v, ok := get("CHIPPY_CLIENT_ADDR"); ok && v != "" {
			c.addr = v
		}
	}
	if _, ok := set["name"]; !ok {
		if v, ok := get("CHIPPY_CLIENT_NAME"); ok && v != "" {
			c.name = v
		}
	}
	if _, ok := set["log-format"]; !ok {
		if v, ok := get("CHIPPY_CLIENT_LOG_FORMAT"); ok && v != "" {
			c.logFormat = v
		}
	}
	if _, ok := set["log-level"]; !ok {
		if v, ok := get("CHIPPY_CLIENT_LOG_LEVEL"); ok && v != "" {
			c.logLevel = v
		}
	}
	if _, ok := set["dial-timeout"]; !ok {
		if v, ok := get("CHIPPY_CLIENT_DIAL_TIMEOUT"); ok && v != "" {
			if d, err := time.ParseDuration(v); err == nil && d > 0 {
				c.dialTO = d
			}
		}
	}
	return nil
}
