package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailveil/internal/domain"
	"mailveil/internal/store"
)

func sampleState() *domain.State {
	created := time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC)
	return &domain.State{
		Aliases: []domain.Alias{{
			ID:       "abc123def",
			Name:     "sales",
			Domain:   "shop.test",
			Group:    "shopping",
			Password: "correct-horse-battery!1A",
			Created:  created,
		}},
		Sessions: []domain.Session{{
			ID:         "zzz999yyy",
			Site:       "shop.test",
			AliasID:    "abc123def",
			AliasLocal: "sales@shop.test",
			Created:    created,
		}},
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	s := store.NewFileStore(t.TempDir())
	ctx := context.Background()

	want := sampleState()
	require.NoError(t, s.Save(ctx, want))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFileStore_MissingLoadsEmptyDefault(t *testing.T) {
	s := store.NewFileStore(t.TempDir())

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.NewState(), got)
}

func TestFileStore_CorruptLoadsEmptyWithErrCorrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "state.json"), []byte("{not json"), 0o600))

	got, err := store.NewFileStore(dir).Load(context.Background())
	assert.ErrorIs(t, err, store.ErrCorrupt)
	assert.Equal(t, domain.NewState(), got)
}

func TestFileStore_UnknownFieldsIgnored(t *testing.T) {
	dir := t.TempDir()
	doc := `{"aliases":[],"sessions":[],"schema_version":7}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "state.json"), []byte(doc), 0o600))

	_, err := store.NewFileStore(dir).Load(context.Background())
	require.NoError(t, err)
}

func TestFileStore_SaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := store.NewFileStore(dir)
	require.NoError(t, s.Save(context.Background(), sampleState()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "state.json", entries[0].Name())
}

func TestFileStore_SaveReplacesPreviousSnapshot(t *testing.T) {
	s := store.NewFileStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, sampleState()))
	require.NoError(t, s.Save(ctx, domain.NewState()))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.Aliases)
	assert.Empty(t, got.Sessions)
}

func TestEncryptedFileStore_RoundTrip(t *testing.T) {
	s := store.NewEncryptedFileStore(t.TempDir(), "a strong passphrase")
	ctx := context.Background()

	want := sampleState()
	require.NoError(t, s.Save(ctx, want))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestEncryptedFileStore_WrongPassphraseDegrades(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	require.NoError(t, store.NewEncryptedFileStore(dir, "correct").Save(ctx, sampleState()))

	got, err := store.NewEncryptedFileStore(dir, "wrong").Load(ctx)
	assert.ErrorIs(t, err, store.ErrCorrupt)
	assert.Equal(t, domain.NewState(), got)
}

func TestEncryptedFileStore_CiphertextHidesPlaintext(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, store.NewEncryptedFileStore(dir, "pw").Save(context.Background(), sampleState()))

	blob, err := os.ReadFile(filepath.Join(dir, "state.enc"))
	require.NoError(t, err)
	assert.NotContains(t, string(blob), "sales@shop.test")
	assert.NotContains(t, string(blob), "correct-horse-battery!1A")
}

func TestMemory_RoundTripIsolation(t *testing.T) {
	s := store.NewMemory()
	ctx := context.Background()

	want := sampleState()
	require.NoError(t, s.Save(ctx, want))

	// Mutating the caller's state must not leak into the store.
	want.Aliases[0].Name = "mutated"

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sales", got.Aliases[0].Name)
}
