// Command mapview runs the interactive map viewer, in public mode or, with
// --admin, with the shape editor.
package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"

	"github.com/phanxgames/mapkit"
	"github.com/phanxgames/mapkit/ecs"
	"github.com/phanxgames/mapkit/internal/config"
	"github.com/phanxgames/mapkit/internal/remote"
	"github.com/phanxgames/mapkit/internal/store"
)

// settingsDelay is how long the view must stay still before it is saved.
const settingsDelay = 500 * time.Millisecond

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	configPath string
	overlays   string
	dbPath     string
	admin      bool
	debug      bool
}

func newRootCommand() *cobra.Command {
	var o options
	cmd := &cobra.Command{
		Use:   "mapview",
		Short: "Interactive map viewer",
		Long: `mapview shows the map with its highlights and markers. Drag to pan,
scroll or pinch to zoom, middle-click to center a point.

In admin mode, click a shape to select it and drag its handles to edit it;
Ctrl+S saves the overlays back to where they were loaded from.

Examples:
  mapview --overlays ./public
  mapview --admin --overlays http://localhost:8080 --config viewer.yaml`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("admin") {
				return run(cmd.Context(), o, &o.admin)
			}
			return run(cmd.Context(), o, nil)
		},
	}
	cmd.Flags().StringVarP(&o.configPath, "config", "c", "", "viewer YAML config")
	cmd.Flags().StringVar(&o.overlays, "overlays", "./public", "overlay directory or overlay server URL")
	cmd.Flags().StringVar(&o.dbPath, "db", defaultDBPath(), "settings database")
	cmd.Flags().BoolVar(&o.admin, "admin", false, "enable the shape editor (overrides the config)")
	cmd.Flags().BoolVar(&o.debug, "debug", false, "enable debug logging")
	return cmd
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".mapkit", "mapkit.db")
	}
	return filepath.Join(home, ".mapkit", "mapkit.db")
}

func run(ctx context.Context, o options, admin *bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	level := slog.LevelInfo
	if o.debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	cfg, err := config.LoadViewer(o.configPath)
	if err != nil {
		return err
	}
	if admin != nil {
		cfg.Admin = *admin
	}

	zoomOpts, err := cfg.ZoomOptions()
	if err != nil {
		return err
	}

	db, err := store.Open(o.dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	settings := loadSettings(ctx, db, log)
	saver := newSettingsSaver(db, settingsDelay, log)
	defer saver.Flush()

	src := remote.Open(o.overlays)

	var mapImage *ebiten.Image
	if cfg.MapImage != "" {
		if mapImage, err = loadImage(cfg.MapImage); err != nil {
			return err
		}
	}

	world := donburi.NewWorld()
	ecs.MapEventType.Subscribe(world, func(_ donburi.World, ev mapkit.MapEvent) {
		log.Debug("map event", "kind", ev.Kind, "x", ev.Point.X, "y", ev.Point.Y, "scale", ev.Scale)
	})

	v := mapkit.NewViewer(mapkit.ViewerOptions{
		Admin:             cfg.Admin,
		Width:             cfg.WindowWidth,
		Height:            cfg.WindowHeight,
		MapSize:           mapkit.Pt(cfg.MapWidth, cfg.MapHeight),
		MapImage:          mapImage,
		InitialScale:      cfg.InitialScale,
		Zoom:              zoomOpts,
		RulerThickness:    cfg.RulerSize,
		Settings:          settings,
		OnSettingsChanged: saver.Schedule,
		OnSave: func(highlights string, markers []byte) error {
			return src.Save(ctx, highlights, markers)
		},
		EventStore: ecs.NewDonburiStore(world),
		ShowStatus: cfg.ShowStatus,
		Logger:     log,
	})

	highlights, markers, err := src.Load(ctx)
	if err != nil {
		log.Warn("overlays unavailable", "source", o.overlays, "error", err)
	} else if err := v.LoadOverlays(highlights, markers); err != nil {
		log.Warn("overlays partially loaded", "error", err)
	}

	return mapkit.Run(&game{Viewer: v, world: world}, mapkit.RunConfig{
		Title:  cfg.Title,
		Width:  cfg.WindowWidth,
		Height: cfg.WindowHeight,
	})
}

// game drains the viewer's map events into the ECS world each frame.
type game struct {
	*mapkit.Viewer
	world donburi.World
}

func (g *game) Update() error {
	if err := g.Viewer.Update(); err != nil {
		return err
	}
	events.ProcessAllEvents(g.world)
	return nil
}

func loadSettings(ctx context.Context, db *store.Store, log *slog.Logger) *mapkit.Settings {
	data, err := db.Get(ctx, store.SettingsKey)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		log.Warn("read settings", "error", err)
		return nil
	}
	s, err := mapkit.ParseSettings(data)
	if err != nil {
		log.Warn("discarding saved settings", "error", err)
		return nil
	}
	return s
}

func loadImage(path string) (*ebiten.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open map image: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode map image %s: %w", path, err)
	}
	return ebiten.NewImageFromImage(img), nil
}
