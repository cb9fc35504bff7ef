package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"mixed case padded", " John@Example.COM ", "john@example.com", true},
		{"plus tag", "a.b+leads@mail.acme.co.in", "a.b+leads@mail.acme.co.in", true},
		{"no at", "not-an-email", "", false},
		{"empty", "   ", "", false},
		{"no tld", "a@localhost", "", false},
		{"short tld", "a@acme.c", "", false},
		{"numeric tld", "a@acme.123", "", false},
		{"space inside", "a b@acme.com", "", false},
		{"two ats", "a@b@acme.com", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := Email(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEmail_Idempotent(t *testing.T) {
	t.Parallel()

	for _, in := range []string{" John@Example.COM ", "sales@acme.io", "X.Y%z@Sub.Domain.ORG"} {
		once, ok := Email(in)
		assert.True(t, ok, in)
		twice, ok := Email(once)
		assert.True(t, ok)
		assert.Equal(t, once, twice)
	}
}

func TestPhone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"india formatted", "+91 98765 43210", "9876543210", true},
		{"india bare", "919876543210", "9876543210", true},
		{"ten digits", "(987) 654-3210", "9876543210", true},
		{"too short", "12345", "", false},
		{"eleven digits", "09876543210", "", false},
		{"twelve non india", "449876543210", "", false},
		{"thirteen digits", "0919876543210", "", false},
		{"empty", "", "", false},
		{"letters only", "call me", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := Phone(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPhone_Idempotent(t *testing.T) {
	t.Parallel()

	once, ok := Phone("+91-98765-43210")
	assert.True(t, ok)
	twice, ok := Phone(once)
	assert.True(t, ok)
	assert.Equal(t, once, twice)
}

func TestDigits(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "919876543210", Digits("+91 (987) 654-3210"))
	assert.Equal(t, "", Digits("abc"))
}

func TestName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Asha Rao", Name("  Asha   Rao \t"))
	// Decomposed "é" (e + combining acute) composes to U+00E9.
	assert.Equal(t, "Ren\u00e9", Name("Rene\u0301"))
	assert.Equal(t, "", Name("   "))
}

func TestDomain(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "acme.com", Domain("x@acme.com"))
	assert.Equal(t, "", Domain("nope"))
}
