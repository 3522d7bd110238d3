package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubops/eventwatch/internal/domain"
)

func eventsFromJSON(t *testing.T, raw string) []domain.Event {
	t.Helper()

	value, err := domain.ParseJSON(strings.NewReader(raw))
	require.NoError(t, err)
	events, err := domain.EventsFromValue(value)
	require.NoError(t, err)
	return events
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	repo := NewRepository(dir)

	events := eventsFromJSON(t, `[
		{"Id": 1, "Name": "First", "Tags": ["eta-class"], "Details": {"Nested": true}},
		{"Id": 2, "Name": "Second", "RegistrationsLimit": null}
	]`)

	path, err := repo.Save(context.Background(), "202301011200", events)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "202301011200.json"), path)

	loaded, err := repo.Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "First", loaded[0].Name())

	// Fields the accessors never touch survive the round trip.
	nested, ok := loaded[0].Object().ObjectOf("Details")
	require.True(t, ok)
	b, ok := nested.Bool("Nested")
	require.True(t, ok)
	assert.True(t, b)
}

func TestSaveLeavesNoTempFilesBehind(t *testing.T) {
	dir := t.TempDir()
	repo := NewRepository(dir)

	_, err := repo.Save(context.Background(), "202301011200", nil)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "202301011200.json", entries[0].Name())
}

func TestSaveCreatesDataDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	repo := NewRepository(dir)

	_, err := repo.Save(context.Background(), "202301011200", nil)
	require.NoError(t, err)
	assert.DirExists(t, dir)
}

func TestLatestPicksMostRecentByName(t *testing.T) {
	dir := t.TempDir()
	repo := NewRepository(dir)

	for _, name := range []string{"202301010000.json", "202301020000.json", "notes.txt", "1234.json"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("[]"), 0o644))
	}

	latest, err := repo.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "202301020000.json"), latest)
}

func TestLatestWithNoSnapshots(t *testing.T) {
	repo := NewRepository(t.TempDir())

	_, err := repo.Latest(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoSnapshots)
}

func TestLatestWithMissingDirectory(t *testing.T) {
	repo := NewRepository(filepath.Join(t.TempDir(), "missing"))

	_, err := repo.Latest(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoSnapshots)
}

func TestLoadRejectsMalformedSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "202301010000.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not": "a list"}`), 0o644))

	repo := NewRepository(dir)
	_, err := repo.Load(context.Background(), path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	repo := NewRepository(t.TempDir())

	_, err := repo.Load(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
