package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/badge-adventure/pkg/world"
)

const tinyWorld = `
name: tiny
start_room: 1
fallback_room: 1
game_start_room: 1
default_beacon: 1
default_name: User
items:
  - { id: lamp, name: Lamp }
flags: [lit]
quests: [lit]
storylines: [lit]
completion:
  flag: lit
rooms:
  - id: 1
    title: Hall
    description: A hall.
    exits: { n: 2 }
  - id: 2
    title: Attic
    description: Damn dusty.
    exits: { s: 1 }
  - id: 3
    title: Cellar
    description: ""
`

func writeWorld(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestValidateFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		body    string
		wantErr string
	}{
		{name: "valid", file: "tiny_world.yaml", body: tinyWorld},
		{name: "experimental prefix", file: "x.tiny.yml", body: tinyWorld},
		{name: "wrong extension", file: "tiny.json", body: tinyWorld, wantErr: "must have .yaml extension"},
		{name: "bad filename", file: "Tiny-World.yaml", body: tinyWorld, wantErr: "lowercase snake_case"},
		{name: "unknown field", file: "tiny.yaml", body: tinyWorld + "\nbogus: 1\n", wantErr: "failed to decode world"},
		{name: "dangling exit", file: "tiny.yaml", body: tinyWorld + "    exits: { e: 99 }\n", wantErr: "validation errors"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &WorldValidator{}
			err := v.validateFile(writeWorld(t, tt.file, tt.body))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestWarnings(t *testing.T) {
	v := &WorldValidator{}
	require.NoError(t, v.validateFile(writeWorld(t, "tiny.yaml", tinyWorld)))

	var out bytes.Buffer
	v.printReport(&out)
	assert.Contains(t, out.String(), "3 rooms, 0 npcs, 1 flags, 1 quests, 1 items")
	assert.Contains(t, out.String(), "room 3 cannot be reached")
	assert.Contains(t, out.String(), "room 3 has no description")
	assert.Contains(t, out.String(), "room 2 contains profanity")
	assert.NotContains(t, out.String(), "room 1 contains profanity")
}

func TestEmbeddedWorldIsValid(t *testing.T) {
	w, err := world.Default()
	require.NoError(t, err)
	v := &WorldValidator{}
	assert.NoError(t, v.validateWorld(w, "embedded world"))
}
