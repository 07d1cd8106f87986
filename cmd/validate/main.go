package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/jwebster45206/badge-adventure/pkg/textfilter"
	"github.com/jwebster45206/badge-adventure/pkg/world"
)

func main() {
	files := os.Args[1:]
	validator := &WorldValidator{}

	if len(files) == 0 {
		w, err := world.Default()
		if err == nil {
			err = validator.validateWorld(w, "embedded world")
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			os.Exit(1)
		}
		validator.printReport(os.Stdout)
		fmt.Println("Embedded world is valid!")
		return
	}

	failed := false
	for _, filename := range files {
		if err := validator.validateFile(filename); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			failed = true
			continue
		}
		validator.printReport(os.Stdout)
		fmt.Printf("%s is valid!\n", filename)
	}
	if failed {
		os.Exit(1)
	}
}

// WorldValidator checks world files beyond what the loader enforces and
// collects warnings that do not make a world unplayable.
type WorldValidator struct {
	warnings  []string
	summary   string
	profanity *textfilter.ProfanityFilter
}

func (v *WorldValidator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	baseName := filepath.Base(filename)
	ext := filepath.Ext(baseName)
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("world file must have .yaml extension: %s", baseName)
	}
	if name := strings.TrimSuffix(baseName, ext); !isValidWorldFilename(name) {
		return fmt.Errorf("world filename '%s' must be lowercase snake_case (e.g., my_world.yaml, not my-world.yaml or MyWorld.yaml)", baseName)
	}

	w, err := world.LoadFile(filename)
	if err != nil {
		return err
	}
	return v.validateWorld(w, filename)
}

func (v *WorldValidator) validateWorld(w *world.World, name string) error {
	v.warnings = nil
	if err := w.Validate(); err != nil {
		return fmt.Errorf("validation errors in %s:\n%s", name, indent(err.Error()))
	}

	for _, id := range unreachableRooms(w) {
		v.addWarning(fmt.Sprintf("room %d cannot be reached by walking from the start room", id))
	}
	for _, r := range w.Rooms {
		if r.Description == "" {
			v.addWarning(fmt.Sprintf("room %d has no description", r.ID))
		}
		v.checkWording(fmt.Sprintf("room %d", r.ID), r.Title, r.Description)
	}
	for _, n := range w.NPCs {
		for i, node := range n.Dialog {
			v.checkWording(fmt.Sprintf("npc %d node %d", n.ID, i),
				node.Text, node.Response1.Label, node.Response2.Label)
		}
	}

	v.summary = fmt.Sprintf("%d rooms, %d npcs, %d flags, %d quests, %d items",
		len(w.Rooms), len(w.NPCs), len(w.Flags), len(w.Quests), len(w.Items))
	return nil
}

// checkWording warns once per ctx when any text trips the profanity filter.
func (v *WorldValidator) checkWording(ctx string, texts ...string) {
	if v.profanity == nil {
		v.profanity = textfilter.NewProfanityFilter()
	}
	for _, t := range texts {
		if v.profanity.ContainsProfanity(t) {
			v.addWarning(ctx + " contains profanity")
			return
		}
	}
}

func (v *WorldValidator) addWarning(msg string) {
	v.warnings = append(v.warnings, "  - "+msg)
}

func (v *WorldValidator) printReport(f io.Writer) {
	fmt.Fprintln(f, v.summary)
	if len(v.warnings) > 0 {
		fmt.Fprintf(f, "Warnings:\n%s\n", strings.Join(v.warnings, "\n"))
	}
}

// unreachableRooms lists rooms no chain of exits leads to from the start.
// Teleports and goto can still reach them, so these are only warnings.
func unreachableRooms(w *world.World) []world.RoomID {
	seen := map[world.RoomID]bool{w.StartRoom: true}
	queue := []world.RoomID{w.StartRoom}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		room, err := w.Room(id)
		if err != nil {
			continue
		}
		for _, next := range room.Exits {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
		for _, a := range room.Actions {
			for _, t := range teleports(a) {
				if !seen[t] {
					seen[t] = true
					queue = append(queue, t)
				}
			}
		}
	}

	var out []world.RoomID
	for _, r := range w.Rooms {
		if !seen[r.ID] {
			out = append(out, r.ID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func teleports(a world.Action) []world.RoomID {
	var out []world.RoomID
	if a.Effect.Teleport != nil {
		out = append(out, *a.Effect.Teleport)
	}
	for _, c := range a.Cases {
		if c.Effect.Teleport != nil {
			out = append(out, *c.Effect.Teleport)
		}
	}
	return out
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "  - " + l
	}
	return strings.Join(lines, "\n")
}

var validFilenameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)

func isValidWorldFilename(name string) bool {
	// Allow 'x.' prefix for experimental worlds
	name = strings.TrimPrefix(name, "x.")
	return validFilenameRegex.MatchString(name)
}
