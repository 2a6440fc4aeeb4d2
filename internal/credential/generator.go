package credential

import (
	"crypto/rand"
	"fmt"
	"io"

	"mailveil/internal/domain"
)

// Character classes for generated passwords. The universe is their union;
// every output character comes from one of these four.
const (
	Lower   = "abcdefghijklmnopqrstuvwxyz"
	Upper   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	Digits  = "0123456789"
	Symbols = "!@#$%^&*()-_=+[]{};:,.?/"

	// idAlphabet is base-36: identifiers are for reference and display,
	// not secrets.
	idAlphabet = Lower + Digits
)

const (
	// MinPasswordLength and MaxPasswordLength bound Password requests;
	// out-of-range lengths are clamped, not rejected.
	MinPasswordLength = 4
	MaxPasswordLength = 128

	// DefaultPasswordLength is used when the caller does not care.
	DefaultPasswordLength = 16

	// DefaultIDLength matches the short base-36 identifiers shown to users.
	DefaultIDLength = 9
)

var passwordAlphabet = Lower + Upper + Digits + Symbols

// Generator draws passwords and identifiers from a randomness source.
type Generator struct {
	source io.Reader
	secure bool
}

// New returns a generator backed by crypto/rand.
func New() *Generator {
	return &Generator{source: rand.Reader, secure: true}
}

// NewWithSource returns a generator over an arbitrary source. It reports
// Secure() == false: anything other than crypto/rand counts as degraded,
// and callers must be able to detect that before using the output for
// security-bearing fields.
func NewWithSource(r io.Reader) *Generator {
	return &Generator{source: r, secure: false}
}

// Secure reports whether the randomness source is cryptographically strong.
func (g *Generator) Secure() bool { return g.secure }

// Password returns a password of exactly the requested length drawn from
// the union of lower, upper, digit, and symbol classes. Lengths outside
// [MinPasswordLength, MaxPasswordLength] are clamped to the nearest bound.
func (g *Generator) Password(length int) (string, error) {
	if length < MinPasswordLength {
		length = MinPasswordLength
	}
	if length > MaxPasswordLength {
		length = MaxPasswordLength
	}
	return g.draw(passwordAlphabet, length)
}

// ID returns a base-36 identifier of exactly the requested length. Lengths
// below one fall back to DefaultIDLength.
func (g *Generator) ID(length int) (string, error) {
	if length < 1 {
		length = DefaultIDLength
	}
	return g.draw(idAlphabet, length)
}

// draw picks length characters uniformly from alphabet using rejection
// sampling, so no character is favored by modulo bias.
func (g *Generator) draw(alphabet string, length int) (string, error) {
	limit := 256 - (256 % len(alphabet))
	out := make([]byte, 0, length)
	buf := make([]byte, length)
	for len(out) < length {
		if _, err := io.ReadFull(g.source, buf); err != nil {
			return "", fmt.Errorf("read randomness: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == length {
				break
			}
		}
	}
	return string(out), nil
}

// Compile-time assertion that Generator implements domain.CredentialGenerator.
var _ domain.CredentialGenerator = (*Generator)(nil)
