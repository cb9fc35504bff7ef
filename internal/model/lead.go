// Package model defines the lead records that flow through the cleaning pipeline.
package model

// Tier is the quality bucket assigned to a scored lead.
type Tier string

const (
	TierHot  Tier = "HOT"
	TierWarm Tier = "WARM"
	TierCold Tier = "COLD"
)

// Tiers lists every tier from best to worst.
var Tiers = []Tier{TierHot, TierWarm, TierCold}

// RejectReason explains why a raw row was excluded from the cleaned output.
type RejectReason string

const (
	ReasonInvalidEmail   RejectReason = "invalid_email"
	ReasonInvalidPhone   RejectReason = "invalid_phone"
	ReasonDuplicateEmail RejectReason = "duplicate_email"
	ReasonDuplicatePhone RejectReason = "duplicate_phone"
	ReasonDuplicateLead  RejectReason = "duplicate_lead"
)

// IsDuplicate reports whether the reason came from the dedup gate.
func (r RejectReason) IsDuplicate() bool {
	switch r {
	case ReasonDuplicateEmail, ReasonDuplicatePhone, ReasonDuplicateLead:
		return true
	}
	return false
}

// ColumnAssignment names the input columns holding each lead field.
// An empty Name means no column was available for names. Message is
// optional and only feeds the buying-intent check.
type ColumnAssignment struct {
	Name    string `json:"name_column"`
	Email   string `json:"email_column"`
	Phone   string `json:"phone_column"`
	Message string `json:"message_column,omitempty"`
}

// Collides reports whether the same column was picked for email and phone.
func (a ColumnAssignment) Collides() bool {
	return a.Email != "" && a.Email == a.Phone
}

// NormalizedLead is a row that passed validation, dedup, and scoring.
type NormalizedLead struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Score     int    `json:"lead_score"`
	Tier      Tier   `json:"lead_status"`
	Rationale string `json:"reason"`
}

// RejectedLead keeps the original values of a row that failed a gate.
type RejectedLead struct {
	Name     string       `json:"name"`
	RawEmail string       `json:"email"`
	RawPhone string       `json:"phone"`
	Reason   RejectReason `json:"reason"`
}

// BatchSummary holds the counts derived from one processed batch.
type BatchSummary struct {
	Total      int          `json:"total"`
	Valid      int          `json:"valid"`
	Invalid    int          `json:"invalid"`
	Duplicates int          `json:"duplicates"`
	Tiers      map[Tier]int `json:"tiers,omitempty"`
}

// Summarize derives a BatchSummary from the two output sequences.
func Summarize(cleaned []NormalizedLead, rejected []RejectedLead) BatchSummary {
	s := BatchSummary{
		Total: len(cleaned) + len(rejected),
		Valid: len(cleaned),
		Tiers: make(map[Tier]int, len(Tiers)),
	}
	for _, t := range Tiers {
		s.Tiers[t] = 0
	}
	for _, l := range cleaned {
		s.Tiers[l.Tier]++
	}
	for _, r := range rejected {
		if r.Reason.IsDuplicate() {
			s.Duplicates++
		} else {
			s.Invalid++
		}
	}
	return s
}
