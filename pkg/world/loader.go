package world

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/world.yaml
var defaultWorld []byte

var (
	defaultOnce sync.Once
	defaultW    *World
	defaultErr  error
)

// Load decodes a world from YAML and builds its indexes. Unknown fields
// are rejected so typos in content files surface early.
func Load(r io.Reader) (*World, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var w World
	if err := dec.Decode(&w); err != nil {
		return nil, fmt.Errorf("failed to decode world: %w", err)
	}
	if err := w.index(); err != nil {
		return nil, fmt.Errorf("failed to index world: %w", err)
	}
	return &w, nil
}

// LoadFile reads a world definition from disk.
func LoadFile(path string) (*World, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open world file %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Default returns the world embedded in the binary. It is parsed once.
func Default() (*World, error) {
	defaultOnce.Do(func() {
		defaultW, defaultErr = Load(bytes.NewReader(defaultWorld))
	})
	return defaultW, defaultErr
}

// Resolve loads path when set, the embedded world otherwise.
func Resolve(path string) (*World, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}
