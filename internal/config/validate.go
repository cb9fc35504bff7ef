package config

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Validate checks the settings required by the given mode: clean, message,
// serve, push, or runs.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "clean", "message", "runs":
	case "serve":
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
		if c.Server.MaxUploadMB <= 0 {
			errs = append(errs, "server.max_upload_mb must be > 0")
		}
		if c.Server.RateLimitRPS < 0 {
			errs = append(errs, "server.rate_limit_rps must be >= 0")
		}
	case "push":
		if c.Notion.Token == "" {
			errs = append(errs, "notion.token is required")
		}
		if c.Notion.LeadDB == "" {
			errs = append(errs, "notion.lead_db is required")
		}
		if c.Notion.MaxRetries < 0 {
			errs = append(errs, "notion.max_retries must be >= 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	switch c.Pipeline.DedupMode {
	case "", "field", "lead":
	default:
		errs = append(errs, "pipeline.dedup_mode must be field or lead")
	}
	if c.Pipeline.Concurrency < 1 || c.Pipeline.Concurrency > 64 {
		errs = append(errs, "pipeline.concurrency must be between 1 and 64")
	}
	if c.Detect.SampleSize < 1 {
		errs = append(errs, "detect.sample_size must be > 0")
	}

	switch c.Store.Driver {
	case "sqlite", "postgres":
		if c.Store.DatabaseURL == "" {
			errs = append(errs, "store.database_url is required")
		}
	case "none":
	default:
		errs = append(errs, "store.driver must be sqlite, postgres, or none")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
