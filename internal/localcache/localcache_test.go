package localcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestSaveLoadRoundTrip(t *testing.T) {
	f := New(t.TempDir(), "test-storage")

	before := time.Now().UTC()
	require.NoError(t, f.Save(payload{Name: "burger", Count: 3}))

	var got payload
	syncedAt, ok, err := f.Load(&got)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, payload{Name: "burger", Count: 3}, got)
	require.False(t, syncedAt.Before(before.Truncate(time.Second)))
}

func TestLoadMissingFile(t *testing.T) {
	f := New(t.TempDir(), "test-storage")

	got := payload{Name: "untouched"}
	_, ok, err := f.Load(&got)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, "untouched", got.Name)
}

func TestFresh(t *testing.T) {
	f := New(t.TempDir(), "test-storage")
	require.False(t, f.Fresh(time.Hour), "missing file is never fresh")

	require.NoError(t, f.SaveAt(payload{}, time.Now().UTC().Add(-30*time.Minute)))
	require.False(t, f.Fresh(15*time.Minute))
	require.True(t, f.Fresh(time.Hour))
}

func TestClear(t *testing.T) {
	f := New(t.TempDir(), "test-storage")
	require.NoError(t, f.Save(payload{}))
	require.NoError(t, f.Clear())

	_, ok, err := f.Load(&payload{})
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, f.Clear(), "clearing twice is fine")
}
