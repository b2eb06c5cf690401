// Command mapserver serves the map's public directory and stores overlay
// edits posted by the admin viewer.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/phanxgames/mapkit/internal/config"
	"github.com/phanxgames/mapkit/internal/server"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		port   int
		public string
		debug  bool
	)
	cmd := &cobra.Command{
		Use:   "mapserver",
		Short: "Serve map overlays",
		Long: `mapserver serves the public map directory and accepts overlay writes:

  POST /write/highlights   highlight markup (map-highlights.svg)
  POST /write/markers      marker listing (map-markers.json)

PORT and PUBLIC_PATH configure it from the environment; flags override.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if debug {
				level = slog.LevelDebug
			}
			log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(log)

			cfg, err := config.LoadServer()
			if err != nil {
				log.Error("load config", "error", err)
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("public") {
				cfg.PublicPath = public
			}
			return serve(cmd.Context(), cfg, log)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "listen port")
	cmd.Flags().StringVar(&public, "public", "./public", "public directory holding the overlay files")
	cmd.Flags().BoolVar(&debug, "debug", false, "log every request")
	return cmd
}

func serve(ctx context.Context, cfg *config.Server, log *slog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.NewServer(cfg.Port, server.NewHandler(cfg.PublicPath, cfg.AllowedOrigin, log))

	go func() {
		<-ctx.Done()
		log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info("server starting", "addr", srv.Addr, "public", cfg.PublicPath)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", "error", err)
		return err
	}
	return nil
}
