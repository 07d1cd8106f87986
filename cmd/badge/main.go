package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/badge-adventure/internal/config"
	"github.com/jwebster45206/badge-adventure/internal/handlers"
	"github.com/jwebster45206/badge-adventure/internal/indicator"
	"github.com/jwebster45206/badge-adventure/internal/logger"
	"github.com/jwebster45206/badge-adventure/internal/proximity"
	"github.com/jwebster45206/badge-adventure/internal/serial"
	"github.com/jwebster45206/badge-adventure/internal/storage"
	"github.com/jwebster45206/badge-adventure/internal/update"
	"github.com/jwebster45206/badge-adventure/pkg/engine"
	"github.com/jwebster45206/badge-adventure/pkg/state"
	"github.com/jwebster45206/badge-adventure/pkg/textfilter"
	"github.com/jwebster45206/badge-adventure/pkg/world"
)

const bannerInterval = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log, closer, err := logger.Setup(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closer.Close()
	log = logger.WithSession(log, cfg.BadgeID)

	if err := run(cfg, log); err != nil {
		log.Error("Badge stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w, err := world.Resolve(cfg.WorldFile)
	if err != nil {
		return err
	}
	if err := w.Validate(); err != nil {
		return fmt.Errorf("world failed validation: %w", err)
	}

	log.Info("Starting badge",
		"environment", cfg.Environment,
		"storage", cfg.StorageBackend,
		"firmware", cfg.FirmwareVersion,
		"rooms", len(w.Rooms))

	openCtx, openCancel := context.WithTimeout(ctx, 2*time.Minute)
	store, err := storage.Open(openCtx, cfg, log)
	openCancel()
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Error closing storage", "error", err)
		}
	}()

	sess := state.NewSession(w)
	strip := indicator.New(sess.Flags, w.Indicators, w.AmbientFlag, log)
	go strip.Run(ctx, cfg.IndicatorInterval, &indicator.LogDriver{Logger: log})

	var filter engine.NameFilter
	if cfg.FilterProfanity {
		filter = textfilter.NewSanitizer(textfilter.NewProfanityFilter(), 0).Nickname
	} else {
		filter = textfilter.NewSanitizer(nil, 0).Nickname
	}

	console := serial.NewConsole(os.Stdout)
	port := serial.NewPort(16, log)

	eng := engine.New(w, store, console, log,
		engine.WithSession(sess),
		engine.WithLights(strip),
		engine.WithScanner(proximity.New(cfg.LegacyBadgeNearby, 2*time.Second, log)),
		engine.WithWrapWidth(cfg.WrapWidth),
		engine.WithCheatCode(cfg.CheatCode),
		engine.WithNameFilter(filter),
		engine.WithBadgeInfo(engine.BadgeInfo{
			Name:    cfg.BadgeID,
			Event:   "OzSec",
			Version: cfg.FirmwareVersion,
		}),
		engine.WithWiFiDefaults(cfg.WiFiSSID, cfg.WiFiPassword),
	)
	if err := eng.Start(ctx); err != nil {
		// The game still runs on in-memory state.
		log.Error("Failed to load saved game", "error", err)
	}
	log.Info("Badge ready", "serial", eng.Serial())

	updater := update.New(cfg.UpdateURL, cfg.FirmwareVersion, cfg.FirmwarePath, log,
		update.WithProgress(console.WriteLine))

	go func() {
		if err := port.ReadFrom(ctx, os.Stdin); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("Serial input failed", "error", err)
		}
		// Without a websocket listener nothing else can feed the game.
		if cfg.SerialListen == "" {
			port.Close()
		}
	}()

	if cfg.SerialListen != "" {
		srv := &http.Server{
			Addr: cfg.SerialListen,
			Handler: handlers.NewMux(
				handlers.NewHealthHandler(store, cfg.FirmwareVersion, log),
				handlers.NewFlagsHandler(sess.Flags, strip, log),
				serial.NewHandler(port, console, log),
			),
			ReadHeaderTimeout: 15 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
		go func() {
			log.Info("Serial listener starting", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("Serial listener failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error("Serial listener forced to shutdown", "error", err)
			}
		}()
	}

	loop(ctx, eng, port, console, updater, log)
	log.Info("Badge shutting down")
	return nil
}

// loop is the only goroutine that touches the engine.
func loop(ctx context.Context, eng *engine.Engine, port *serial.Port, console *serial.Console, updater *update.Checker, log *slog.Logger) {
	banner := time.NewTicker(bannerInterval)
	defer banner.Stop()
	presses := port.LongPresses()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-port.Lines():
			if !ok {
				return
			}
			eng.Turn(ctx, line)
		case press, ok := <-presses:
			if !ok {
				presses = nil
				continue
			}
			if press.Button != serial.Boot {
				continue
			}
			console.WriteLine("Starting OTA update...")
			if _, err := updater.Check(ctx); err != nil && !errors.Is(err, update.ErrNoUpdate) {
				log.Warn("Firmware update failed", "error", err)
			}
		case <-banner.C:
			if !eng.Playing() {
				eng.Banner()
			}
		}
	}
}
