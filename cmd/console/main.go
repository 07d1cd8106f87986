// Command console plays the badge adventure in a full-screen terminal UI,
// with the indicator lights and inventory drawn beside the transcript.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwebster45206/badge-adventure/internal/config"
	"github.com/jwebster45206/badge-adventure/internal/indicator"
	"github.com/jwebster45206/badge-adventure/internal/logger"
	"github.com/jwebster45206/badge-adventure/internal/proximity"
	"github.com/jwebster45206/badge-adventure/internal/storage"
	"github.com/jwebster45206/badge-adventure/pkg/engine"
	"github.com/jwebster45206/badge-adventure/pkg/state"
	"github.com/jwebster45206/badge-adventure/pkg/textfilter"
	"github.com/jwebster45206/badge-adventure/pkg/world"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// The UI owns the terminal, so logs only go to LOG_FILE.
	log := logger.Discard()
	if cfg.LogFile != "" {
		var closer io.Closer
		log, closer, err = logger.Setup(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer closer.Close()
	}

	if err := run(cfg, log); err != nil {
		fmt.Fprintf(os.Stderr, "Error running console: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx := context.Background()

	w, err := world.Resolve(cfg.WorldFile)
	if err != nil {
		return err
	}

	openCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	store, err := storage.Open(openCtx, cfg, log)
	cancel()
	if err != nil {
		return fmt.Errorf("could not open badge storage: %w", err)
	}
	defer store.Close()

	sess := state.NewSession(w)
	strip := indicator.New(sess.Flags, w.Indicators, w.AmbientFlag, log)
	out := &transcript{}

	var profanity *textfilter.ProfanityFilter
	if cfg.FilterProfanity {
		profanity = textfilter.NewProfanityFilter()
	}

	eng := engine.New(w, store, out, log,
		engine.WithSession(sess),
		engine.WithLights(strip),
		engine.WithScanner(proximity.New(cfg.LegacyBadgeNearby, time.Second, log)),
		// The UI wraps to the window.
		engine.WithWrapWidth(0),
		engine.WithCheatCode(cfg.CheatCode),
		engine.WithNameFilter(textfilter.NewSanitizer(profanity, 0).Nickname),
		engine.WithBadgeInfo(engine.BadgeInfo{Name: cfg.BadgeID, Event: "OzSec", Version: cfg.FirmwareVersion}),
		engine.WithWiFiDefaults(cfg.WiFiSSID, cfg.WiFiPassword),
	)
	if err := eng.Start(ctx); err != nil {
		log.Error("Failed to load saved game", "error", err)
	}

	p := tea.NewProgram(NewConsoleUI(ctx, eng, strip, out, cfg.IndicatorInterval),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
