// Package extract pulls lead details out of free-text messages, such as
// pasted enquiry emails or chat transcripts, one paragraph per lead.
package extract

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/leadclean/internal/detect"
	"github.com/sells-group/leadclean/internal/model"
	"github.com/sells-group/leadclean/internal/normalize"
	"github.com/sells-group/leadclean/internal/scorer"
)

// minPhoneDigits is the shortest digit run treated as a phone number.
const minPhoneDigits = 9

var (
	paragraphSep = regexp.MustCompile(`\n\s*\n`)
	emailRe      = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	// A run of digits that may be broken up by spaces, dashes, dots, or parens.
	phoneRunRe = regexp.MustCompile(`\+?\(?\d[\d \t().-]*\d`)
	// The cue matches in any case; the name itself must be capitalized.
	nameRe = regexp.MustCompile(`\b(?i:my\s+name\s+is|this\s+is)\s+(\p{Lu}\p{L}*)`)
)

// Candidate holds whatever could be found in one paragraph.
type Candidate struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// Result is the scored output of a block of messages.
type Result struct {
	Leads   []model.NormalizedLead `json:"leads"`
	Summary model.BatchSummary     `json:"summary"`

	// Messages[i] is the paragraph Leads[i] was read from.
	Messages []string `json:"-"`
}

// Paragraphs splits text on blank lines and drops empty paragraphs.
func Paragraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	for _, p := range paragraphSep.Split(text, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Extract finds the first email, the first phone-like digit run, and a name
// introduced by "my name is" or "this is".
func Extract(paragraph string) Candidate {
	c := Candidate{Message: paragraph}

	if m := emailRe.FindString(paragraph); m != "" {
		c.Email = strings.ToLower(m)
	}

	// Digits inside the email address must not be read as a phone.
	rest := emailRe.ReplaceAllString(paragraph, " ")
	for _, run := range phoneRunRe.FindAllString(rest, -1) {
		if d := normalize.Digits(run); len(d) >= minPhoneDigits {
			c.Phone = d
			break
		}
	}

	if m := nameRe.FindStringSubmatch(paragraph); m != nil {
		c.Name = m[1]
	}
	return c
}

// Process extracts and scores one lead per paragraph. Every paragraph yields
// a lead; nothing is rejected.
func Process(text string, s *scorer.Scorer) (*Result, error) {
	paras := Paragraphs(text)
	if len(paras) == 0 {
		return nil, detect.ErrEmptyBatch
	}

	res := &Result{Leads: make([]model.NormalizedLead, 0, len(paras)), Messages: paras}
	for _, p := range paras {
		c := Extract(p)
		score := s.Score(c.Email, c.Phone, c.Message)
		res.Leads = append(res.Leads, model.NormalizedLead{
			Name:      c.Name,
			Email:     c.Email,
			Phone:     c.Phone,
			Score:     score.Score,
			Tier:      score.Tier,
			Rationale: score.Rationale,
		})
	}
	res.Summary = model.Summarize(res.Leads, nil)

	zap.L().Info("extract: messages scored",
		zap.Int("total", res.Summary.Total),
		zap.Int("hot", res.Summary.Tiers[model.TierHot]),
		zap.Int("warm", res.Summary.Tiers[model.TierWarm]),
		zap.Int("cold", res.Summary.Tiers[model.TierCold]),
	)
	return res, nil
}
