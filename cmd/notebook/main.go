// Command notebook prints a badge's progress and notebook entries to a PDF
// certificate. It reads the same storage the badge writes.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jwebster45206/badge-adventure/internal/config"
	"github.com/jwebster45206/badge-adventure/internal/logger"
	"github.com/jwebster45206/badge-adventure/internal/storage"
	"github.com/jwebster45206/badge-adventure/pkg/engine"
	"github.com/jwebster45206/badge-adventure/pkg/world"
)

func main() {
	out := flag.String("o", "notebook.pdf", "output file")
	flag.Parse()

	if err := run(*out); err != nil {
		fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Notebook written to %s\n", *out)
}

func run(path string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(os.Stderr, cfg)

	w, err := world.Resolve(cfg.WorldFile)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := storage.Open(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("could not open badge storage: %w", err)
	}
	defer store.Close()

	eng := engine.New(w, store, discard{}, log)
	if err := eng.Restore(ctx); err != nil {
		return fmt.Errorf("could not read saved game: %w", err)
	}

	pdf, err := render(newCertificate(eng.Session(), eng.Serial(), time.Now()))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

type discard struct{}

func (discard) WriteLine(string) {}
func (discard) WriteRaw(string)  {}
