package main

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/phanxgames/mapkit"
	"github.com/phanxgames/mapkit/internal/store"
)

// settingsStore is the part of store.Store the saver needs.
type settingsStore interface {
	Put(ctx context.Context, key string, value []byte) error
}

// settingsSaver writes the view settings once the view has been still for
// delay. Schedule is called from the game loop; the write happens on a timer
// goroutine.
type settingsSaver struct {
	db    settingsStore
	delay time.Duration
	log   *slog.Logger

	mu      sync.Mutex
	pending *mapkit.Settings
	timer   *time.Timer
}

func newSettingsSaver(db settingsStore, delay time.Duration, log *slog.Logger) *settingsSaver {
	return &settingsSaver{db: db, delay: delay, log: log}
}

// Schedule records s as the latest view and restarts the delay.
func (ss *settingsSaver) Schedule(s mapkit.Settings) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.pending = &s
	if ss.timer != nil {
		ss.timer.Stop()
	}
	ss.timer = time.AfterFunc(ss.delay, ss.Flush)
}

// Flush writes any pending settings now.
func (ss *settingsSaver) Flush() {
	ss.mu.Lock()
	s := ss.pending
	ss.pending = nil
	if ss.timer != nil {
		ss.timer.Stop()
		ss.timer = nil
	}
	ss.mu.Unlock()

	if s == nil {
		return
	}
	data, err := s.Encode()
	if err != nil {
		ss.log.Warn("encode settings", "error", err)
		return
	}
	if err := ss.db.Put(context.Background(), store.SettingsKey, data); err != nil {
		ss.log.Warn("save settings", "error", err)
	}
}
