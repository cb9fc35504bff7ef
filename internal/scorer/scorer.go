package scorer

import (
	"strings"

	"github.com/sells-group/leadclean/internal/config"
	"github.com/sells-group/leadclean/internal/model"
	"github.com/sells-group/leadclean/internal/normalize"
)

// Rationale labels, in the order they are reported.
const (
	LabelValidEmail    = "valid email"
	LabelValidPhone    = "valid phone"
	LabelBusinessEmail = "business email"
	LabelBuyingIntent  = "buying intent"
)

// minPhoneLen is the shortest phone value that earns the phone point.
const minPhoneLen = 10

// Result is the outcome of scoring one lead.
type Result struct {
	Score     int        `json:"lead_score"`
	Tier      model.Tier `json:"lead_status"`
	Rationale string     `json:"reason"`
}

// Scorer applies the additive lead-quality rules. It holds no mutable state
// and is safe for concurrent use.
type Scorer struct {
	freeDomains map[string]struct{}
	keywords    []string
}

// New builds a Scorer from cfg. Empty lists fall back to DefaultConfig.
func New(cfg config.ScoringConfig) *Scorer {
	def := DefaultConfig()
	if len(cfg.FreeDomains) == 0 {
		cfg.FreeDomains = def.FreeDomains
	}
	if len(cfg.IntentKeywords) == 0 {
		cfg.IntentKeywords = def.IntentKeywords
	}

	s := &Scorer{freeDomains: make(map[string]struct{}, len(cfg.FreeDomains))}
	for _, d := range cfg.FreeDomains {
		s.freeDomains[strings.ToLower(strings.TrimSpace(d))] = struct{}{}
	}
	for _, k := range cfg.IntentKeywords {
		s.keywords = append(s.keywords, strings.ToLower(strings.TrimSpace(k)))
	}
	return s
}

// Score rates a lead from its email, phone, and optional message text.
func (s *Scorer) Score(email, phone, message string) Result {
	var labels []string

	if email != "" {
		labels = append(labels, LabelValidEmail)
	}
	if len(phone) >= minPhoneLen {
		labels = append(labels, LabelValidPhone)
	}
	if s.isBusinessEmail(email) {
		labels = append(labels, LabelBusinessEmail)
	}
	if s.hasIntent(message) {
		labels = append(labels, LabelBuyingIntent)
	}

	return Result{
		Score:     len(labels),
		Tier:      TierFor(len(labels)),
		Rationale: strings.Join(labels, ", "),
	}
}

// TierFor maps a point total to its tier.
func TierFor(score int) model.Tier {
	switch {
	case score >= 3:
		return model.TierHot
	case score == 2:
		return model.TierWarm
	default:
		return model.TierCold
	}
}

// isBusinessEmail requires an address with a domain outside the free-mail set.
func (s *Scorer) isBusinessEmail(email string) bool {
	if !strings.Contains(email, "@") {
		return false
	}
	_, free := s.freeDomains[strings.ToLower(normalize.Domain(email))]
	return !free
}

func (s *Scorer) hasIntent(message string) bool {
	if message == "" {
		return false
	}
	lower := strings.ToLower(message)
	for _, k := range s.keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
