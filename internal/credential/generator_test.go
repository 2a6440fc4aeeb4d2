package credential_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"mailveil/internal/credential"
)

func TestPassword_ExactLength(t *testing.T) {
	gen := credential.New()

	for _, n := range []int{4, 16, 32, 128} {
		pw, err := gen.Password(n)
		require.NoError(t, err)
		assert.Len(t, pw, n)
	}
}

func TestPassword_ClampsOutOfRange(t *testing.T) {
	gen := credential.New()

	pw, err := gen.Password(0)
	require.NoError(t, err)
	assert.Len(t, pw, credential.MinPasswordLength)

	pw, err = gen.Password(-7)
	require.NoError(t, err)
	assert.Len(t, pw, credential.MinPasswordLength)

	pw, err = gen.Password(10_000)
	require.NoError(t, err)
	assert.Len(t, pw, credential.MaxPasswordLength)
}

func TestPassword_CharsetProperty(t *testing.T) {
	gen := credential.New()
	universe := credential.Lower + credential.Upper + credential.Digits + credential.Symbols

	rapid.Check(t, func(r *rapid.T) {
		n := rapid.IntRange(credential.MinPasswordLength, credential.MaxPasswordLength).Draw(r, "n")
		pw, err := gen.Password(n)
		if err != nil {
			r.Fatalf("Password(%d): %v", n, err)
		}
		if len(pw) != n {
			r.Fatalf("length %d, want %d", len(pw), n)
		}
		for _, c := range pw {
			if !strings.ContainsRune(universe, c) {
				r.Fatalf("character %q outside the declared universe", c)
			}
		}
	})
}

// With 64-char passwords over many draws, every class should appear at least
// once somewhere; a class that never shows up means the alphabet is wired
// wrong, not that we got unlucky.
func TestPassword_AllClassesAppearOverManyDraws(t *testing.T) {
	gen := credential.New()
	classes := []string{credential.Lower, credential.Upper, credential.Digits, credential.Symbols}
	seen := make([]bool, len(classes))

	for i := 0; i < 200; i++ {
		pw, err := gen.Password(64)
		require.NoError(t, err)
		for j, class := range classes {
			if strings.ContainsAny(pw, class) {
				seen[j] = true
			}
		}
	}
	for j, ok := range seen {
		assert.Truef(t, ok, "class %d never appeared across 200 draws", j)
	}
}

func TestID_AlphabetAndLength(t *testing.T) {
	gen := credential.New()

	id, err := gen.ID(9)
	require.NoError(t, err)
	assert.Len(t, id, 9)
	for _, c := range id {
		assert.Contains(t, credential.Lower+credential.Digits, string(c))
	}

	// Length below one falls back to the default.
	id, err = gen.ID(0)
	require.NoError(t, err)
	assert.Len(t, id, credential.DefaultIDLength)
}

func TestID_UniqueAcrossCalls(t *testing.T) {
	gen := credential.New()
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id, err := gen.ID(credential.DefaultIDLength)
		require.NoError(t, err)
		_, dup := seen[id]
		require.Falsef(t, dup, "duplicate id %q", id)
		seen[id] = struct{}{}
	}
}

func TestSecure_CapabilityFlag(t *testing.T) {
	assert.True(t, credential.New().Secure())
	assert.False(t, credential.NewWithSource(strings.NewReader(strings.Repeat("x", 1024))).Secure())
}

func TestNewWithSource_ExhaustedSourceFails(t *testing.T) {
	gen := credential.NewWithSource(strings.NewReader("ab"))
	_, err := gen.Password(16)
	require.Error(t, err)
}
