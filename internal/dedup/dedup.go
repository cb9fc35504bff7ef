// Package dedup tracks which canonical emails and phones a batch has accepted.
package dedup

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/leadclean/internal/model"
)

// Mode selects how a duplicate is reported.
type Mode string

const (
	// ModeField names the field that collided, checking email before phone.
	ModeField Mode = "field"
	// ModeLead reports every collision as a generic duplicate lead.
	ModeLead Mode = "lead"
)

// ParseMode validates a configured mode. Empty means ModeField.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeField:
		return ModeField, nil
	case ModeLead:
		return ModeLead, nil
	}
	return "", eris.Errorf("dedup: unknown mode %q", s)
}

// Index is the batch-scoped set of accepted emails and phones. Entries are
// only ever added. An Index must not be shared between batches.
type Index struct {
	mode   Mode
	emails map[string]struct{}
	phones map[string]struct{}
}

// NewIndex returns an empty Index.
func NewIndex(mode Mode) *Index {
	if mode == "" {
		mode = ModeField
	}
	return &Index{
		mode:   mode,
		emails: make(map[string]struct{}),
		phones: make(map[string]struct{}),
	}
}

// Admit accepts the pair if neither value was seen before and records both.
// Otherwise it returns the reject reason and records nothing.
func (x *Index) Admit(email, phone string) (model.RejectReason, bool) {
	_, emailSeen := x.emails[email]
	_, phoneSeen := x.phones[phone]

	switch {
	case !emailSeen && !phoneSeen:
		x.emails[email] = struct{}{}
		x.phones[phone] = struct{}{}
		return "", true
	case x.mode == ModeLead:
		return model.ReasonDuplicateLead, false
	case emailSeen:
		return model.ReasonDuplicateEmail, false
	default:
		return model.ReasonDuplicatePhone, false
	}
}

// Len returns the number of accepted leads.
func (x *Index) Len() int {
	return len(x.emails)
}
