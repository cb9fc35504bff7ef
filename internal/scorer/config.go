// Package scorer classifies normalized leads into HOT, WARM, and COLD tiers.
package scorer

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadclean/internal/config"
)

// DefaultConfig returns the free-mail domains and buying-intent keywords
// used when no overrides are configured.
func DefaultConfig() config.ScoringConfig {
	return config.ScoringConfig{
		FreeDomains: []string{
			"gmail.com", "yahoo.com", "hotmail.com", "outlook.com",
		},
		IntentKeywords: []string{
			"price", "pricing", "quotation", "quote", "order", "buy", "requirement",
		},
	}
}

// ValidateConfig checks that a ScoringConfig has usable entries.
func ValidateConfig(c config.ScoringConfig) error {
	var errs []string

	for _, d := range c.FreeDomains {
		if strings.TrimSpace(d) == "" {
			errs = append(errs, "free_domains contains an empty entry")
			break
		}
	}
	for _, k := range c.IntentKeywords {
		if strings.TrimSpace(k) == "" {
			errs = append(errs, "intent_keywords contains an empty entry")
			break
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("scorer: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
