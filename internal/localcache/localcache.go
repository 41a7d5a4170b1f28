// Package localcache mirrors a store's state to a JSON file so a restart
// does not start cold. The mirror is a secondary copy: each file carries
// the time it was last synced from the remote service, and callers decide
// with Fresh whether to trust it or hydrate again.
package localcache

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

type File struct {
	path string
}

// New returns the mirror file for a named store, e.g. "order-storage".
func New(dir, name string) *File {
	return &File{path: filepath.Join(dir, name+".json")}
}

type envelope struct {
	SyncedAt time.Time       `json:"synced_at"`
	Data     json.RawMessage `json:"data"`
}

// Save writes v with the current time as the sync stamp.
func (f *File) Save(v any) error {
	return f.SaveAt(v, time.Now().UTC())
}

func (f *File) SaveAt(v any, syncedAt time.Time) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(envelope{SyncedAt: syncedAt, Data: data})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

// Load decodes the mirrored state into v and reports when it was synced.
// A missing file is not an error: ok is false and v is left untouched.
func (f *File) Load(v any) (syncedAt time.Time, ok bool, err error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return time.Time{}, false, err
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		return time.Time{}, false, err
	}
	return env.SyncedAt, true, nil
}

// Fresh reports whether the mirror exists and was synced within maxAge.
func (f *File) Fresh(maxAge time.Duration) bool {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return false
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return false
	}
	return time.Since(env.SyncedAt) <= maxAge
}

// Clear removes the mirror file.
func (f *File) Clear() error {
	err := os.Remove(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
