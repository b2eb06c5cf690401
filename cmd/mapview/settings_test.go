package main

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/mapkit"
	"github.com/phanxgames/mapkit/internal/store"
)

type recordingStore struct {
	mu   sync.Mutex
	puts []string
}

func (r *recordingStore) Put(_ context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.puts = append(r.puts, key+"="+string(value))
	return nil
}

func (r *recordingStore) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.puts)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSettingsSaverDebounces(t *testing.T) {
	rec := &recordingStore{}
	saver := newSettingsSaver(rec, 20*time.Millisecond, discardLogger())

	saver.Schedule(mapkit.Settings{Scale: 0.1})
	saver.Schedule(mapkit.Settings{Scale: 0.2})
	saver.Schedule(mapkit.Settings{Scale: 0.3, Point: mapkit.Pt(1, 2)})

	require.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, rec.count(), "only the last view is written")
	assert.Equal(t, `settings={"scale":0.3,"point":{"x":1,"y":2}}`, rec.puts[0])
}

func TestSettingsSaverFlush(t *testing.T) {
	rec := &recordingStore{}
	saver := newSettingsSaver(rec, time.Hour, discardLogger())

	saver.Flush()
	assert.Equal(t, 0, rec.count(), "nothing pending")

	saver.Schedule(mapkit.Settings{Scale: 1})
	saver.Flush()
	assert.Equal(t, 1, rec.count())
	saver.Flush()
	assert.Equal(t, 1, rec.count(), "flush writes once")
}

func TestLoadSettings(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "mapkit.db"))
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()
	log := discardLogger()

	assert.Nil(t, loadSettings(ctx, db, log), "no saved view")

	require.NoError(t, db.Put(ctx, store.SettingsKey, []byte(`{"scale":0.5,"point":{"x":-10,"y":20}}`)))
	s := loadSettings(ctx, db, log)
	require.NotNil(t, s)
	assert.Equal(t, 0.5, s.Scale)
	assert.Equal(t, mapkit.Pt(-10, 20), s.Point)

	require.NoError(t, db.Put(ctx, store.SettingsKey, []byte(`{"scale":0}`)))
	assert.Nil(t, loadSettings(ctx, db, log), "invalid settings are discarded")
}

func TestSaverWritesToStore(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "mapkit.db"))
	require.NoError(t, err)
	defer db.Close()

	saver := newSettingsSaver(db, time.Hour, discardLogger())
	saver.Schedule(mapkit.Settings{Scale: 0.25, Point: mapkit.Pt(3, 4)})
	saver.Flush()

	s := loadSettings(context.Background(), db, discardLogger())
	require.NotNil(t, s)
	assert.Equal(t, mapkit.Settings{Scale: 0.25, Point: mapkit.Pt(3, 4)}, *s)
}
