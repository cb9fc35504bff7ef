// Package detect guesses which input columns hold a lead's name, email, and
// phone by scoring cell contents instead of trusting headers.
package detect

import (
	"strings"
	"unicode"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadclean/internal/model"
	"github.com/sells-group/leadclean/internal/normalize"
)

// DefaultSampleSize is the number of leading rows inspected per batch.
const DefaultSampleSize = 30

// ErrEmptyBatch is returned when there are no rows to inspect.
var ErrEmptyBatch = eris.New("detect: empty batch")

// ColumnProfile holds the per-column tallies over the sampled rows.
type ColumnProfile struct {
	Column     string `json:"column"`
	EmailScore int    `json:"email_score"`
	PhoneScore int    `json:"phone_score"`
	NameScore  int    `json:"name_score"`
}

// Detector picks a ColumnAssignment from a batch sample.
type Detector struct {
	sampleSize int
}

// New creates a Detector. A non-positive sampleSize uses DefaultSampleSize.
func New(sampleSize int) *Detector {
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}
	return &Detector{sampleSize: sampleSize}
}

// Columns scores the first rows of the batch and returns the best column per
// field. columns is the header order, normally taken from the first row.
func (d *Detector) Columns(rows []model.RawRow, columns []string) (model.ColumnAssignment, error) {
	if len(rows) == 0 {
		return model.ColumnAssignment{}, ErrEmptyBatch
	}

	profiles := Profile(rows, columns, d.sampleSize)
	a := Assign(profiles)

	zap.L().Debug("detect: column assignment",
		zap.String("name", a.Name),
		zap.String("email", a.Email),
		zap.String("phone", a.Phone),
		zap.Int("sampled", min(len(rows), d.sampleSize)),
	)
	if a.Collides() {
		zap.L().Warn("detect: email and phone resolved to the same column",
			zap.String("column", a.Email),
		)
	}
	return a, nil
}

// Profile tallies each column over at most sampleSize rows. The result is in
// column order and shares no state with the input.
func Profile(rows []model.RawRow, columns []string, sampleSize int) []ColumnProfile {
	if sampleSize > 0 && len(rows) > sampleSize {
		rows = rows[:sampleSize]
	}

	profiles := make([]ColumnProfile, len(columns))
	for i, col := range columns {
		p := ColumnProfile{Column: col}
		for _, row := range rows {
			v := strings.TrimSpace(row.Get(col))
			if LooksLikeEmail(v) {
				p.EmailScore++
			}
			if LooksLikePhone(v) {
				p.PhoneScore++
			}
			if LooksLikeName(v) {
				p.NameScore++
			}
		}
		profiles[i] = p
	}
	return profiles
}

// Assign picks email and phone independently over all columns, then the name
// from what is left. Ties go to the earliest column.
func Assign(profiles []ColumnProfile) model.ColumnAssignment {
	var a model.ColumnAssignment

	a.Email = argmax(profiles, nil, func(p ColumnProfile) int { return p.EmailScore })
	a.Phone = argmax(profiles, nil, func(p ColumnProfile) int { return p.PhoneScore })

	taken := map[string]bool{a.Email: true, a.Phone: true}
	a.Name = argmax(profiles, taken, func(p ColumnProfile) int { return p.NameScore })
	return a
}

func argmax(profiles []ColumnProfile, skip map[string]bool, score func(ColumnProfile) int) string {
	best, bestScore := "", -1
	for _, p := range profiles {
		if skip[p.Column] {
			continue
		}
		if s := score(p); s > bestScore {
			best, bestScore = p.Column, s
		}
	}
	return best
}

// LooksLikeEmail reports whether v contains an '@'.
func LooksLikeEmail(v string) bool {
	return strings.Contains(v, "@")
}

// LooksLikePhone reports whether v carries between 10 and 13 digits.
func LooksLikePhone(v string) bool {
	n := len(normalize.Digits(v))
	return n >= 10 && n <= 13
}

// LooksLikeName reports whether v, ignoring spaces, is made only of letters.
func LooksLikeName(v string) bool {
	v = strings.ReplaceAll(v, " ", "")
	if v == "" {
		return false
	}
	for _, r := range v {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
