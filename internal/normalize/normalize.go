// Package normalize converts raw lead fields into their canonical form.
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// indiaPrefix is the only country code stripped from phone numbers.
const indiaPrefix = "91"

var emailPattern = regexp.MustCompile(`^[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}$`)

// Email trims and lowercases raw and reports whether the result is a
// well-formed address. No deliverability checks are made.
func Email(raw string) (string, bool) {
	e := strings.ToLower(strings.TrimSpace(raw))
	if e == "" || !emailPattern.MatchString(e) {
		return "", false
	}
	return e, true
}

// Phone reduces raw to its digits and returns the 10-digit national number.
// A 12-digit number starting with 91 loses that prefix; any other length is
// rejected.
func Phone(raw string) (string, bool) {
	d := Digits(raw)
	if len(d) == 12 && strings.HasPrefix(d, indiaPrefix) {
		d = d[len(indiaPrefix):]
	}
	if len(d) != 10 {
		return "", false
	}
	return d, true
}

// Digits returns only the ASCII digits of s.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Name trims, collapses runs of whitespace, and applies NFC so that visually
// identical names compare equal.
func Name(raw string) string {
	return norm.NFC.String(strings.Join(strings.Fields(raw), " "))
}

// Domain returns the part of a canonical email after the last '@'.
func Domain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return ""
	}
	return email[at+1:]
}
