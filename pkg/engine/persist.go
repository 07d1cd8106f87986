package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jwebster45206/badge-adventure/pkg/world"
)

// Keys in the game-data namespace. Flags are stored under their own names.
const (
	keyPlayerName     = "playername"
	keyPlayerRoom     = "playerroom"
	keyPlayerNotebook = "playernotebook"
	keyPlayerBeacon   = "playerbeacon"

	// keyInventoryInit marks a seeded inventory namespace.
	keyInventoryInit = "INIT"

	keyBadgeSerial   = "serial"
	keyBadgeName     = "name"
	keyBadgeEvent    = "event"
	keyBadgeFirmware = "firmware"
	keyWiFiSSID      = "wifiSsid"
	keyWiFiPassword  = "wifiPassword"
)

// load replaces the session's persisted fields with what the store holds.
// Missing keys take their defaults; read errors are collected and the
// affected fields keep their defaults.
func (e *Engine) load(ctx context.Context) error {
	w := e.sess.World
	p := &e.sess.Player
	var errs []error

	name, err := e.game.String(ctx, keyPlayerName, w.DefaultName)
	errs = append(errs, err)
	room, err := e.game.Int(ctx, keyPlayerRoom, int(w.StartRoom))
	errs = append(errs, err)
	notebook, err := e.game.String(ctx, keyPlayerNotebook, "")
	errs = append(errs, err)
	beacon, err := e.game.Int(ctx, keyPlayerBeacon, int(w.DefaultBeacon))
	errs = append(errs, err)

	p.Name = name
	p.Room = world.RoomID(room)
	p.PreviousRoom = p.Room
	p.Beacon = world.RoomID(beacon)
	p.Notebook = splitNotebook(notebook)

	for _, f := range e.sess.Flags.Names() {
		v, err := e.game.Bool(ctx, f, false)
		errs = append(errs, err)
		e.sess.Flags.Store(f, v)
	}

	errs = append(errs, e.loadInventory(ctx))

	e.sess.ResetTransients()
	e.prompt = PromptNone

	if err := errors.Join(errs...); err != nil {
		e.logger.Error("failed to load game state", "error", err)
		return fmt.Errorf("failed to load game state: %w", err)
	}
	e.logger.Debug("game state loaded",
		"room", p.Room,
		"items", len(e.sess.Inventory.Held()))
	return nil
}

func (e *Engine) loadInventory(ctx context.Context) error {
	inv := e.sess.Inventory
	inv.Reset()

	seeded, err := e.inventory.HasKey(ctx, keyInventoryInit)
	if err != nil || !seeded {
		for _, id := range e.sess.World.StartingItems {
			inv.Add(id)
		}
	}
	if err != nil {
		return err
	}
	if !seeded {
		e.logger.Info("seeding inventory", "items", len(inv.IDs()))
		return e.seedInventory(ctx)
	}

	var errs []error
	for _, id := range inv.IDs() {
		n, err := e.inventory.Int(ctx, id, 0)
		errs = append(errs, err)
		inv.Set(id, n)
	}
	return errors.Join(errs...)
}

func (e *Engine) seedInventory(ctx context.Context) error {
	if err := e.writeInventory(ctx); err != nil {
		return err
	}
	return e.inventory.PutBool(ctx, keyInventoryInit, true)
}

func (e *Engine) writeInventory(ctx context.Context) error {
	for _, id := range e.sess.Inventory.IDs() {
		if err := e.inventory.PutInt(ctx, id, e.sess.Inventory.Count(id)); err != nil {
			return err
		}
	}
	return nil
}

// save writes the persisted subset. Player fields and flags are only written
// when they differ from the stored value; the inventory is written in full.
func (e *Engine) save(ctx context.Context) error {
	p := e.sess.Player
	var errs []error

	errs = append(errs,
		e.putIfChanged(ctx, keyPlayerName, p.Name),
		e.putIfChanged(ctx, keyPlayerRoom, strconv.Itoa(int(p.Room))),
		e.putIfChanged(ctx, keyPlayerNotebook, strings.Join(p.Notebook, "\n")),
		e.putIfChanged(ctx, keyPlayerBeacon, strconv.Itoa(int(p.Beacon))),
	)
	for name, set := range e.sess.Flags.Snapshot() {
		errs = append(errs, e.putIfChanged(ctx, name, strconv.FormatBool(set)))
	}
	errs = append(errs, e.writeInventory(ctx))

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("failed to save game state: %w", err)
	}
	e.logger.Debug("game state saved", "room", p.Room)
	return nil
}

func (e *Engine) putIfChanged(ctx context.Context, key, value string) error {
	current, ok, err := e.store.Get(ctx, e.game.Namespace(), key)
	if err != nil {
		return err
	}
	if ok && current == value {
		return nil
	}
	return e.game.PutString(ctx, key, value)
}

// reset wipes both game namespaces and reloads, which reseeds the inventory.
func (e *Engine) reset(ctx context.Context) error {
	errInv := e.inventory.Clear(ctx)
	errGame := e.game.Clear(ctx)
	if err := errors.Join(errInv, errGame); err != nil {
		return fmt.Errorf("failed to reset game state: %w", err)
	}
	e.sess.Flags.Reset()
	return e.load(ctx)
}

// Restore loads the saved game and badge serial without printing or
// touching the badge metadata. Tools that only read progress use it instead
// of Start. A badge that was never booted gets its starting inventory seeded.
func (e *Engine) Restore(ctx context.Context) error {
	serial, err := e.badge.String(ctx, keyBadgeSerial, "")
	e.serial = serial
	return errors.Join(err, e.load(ctx))
}

// ensureIdentity assigns the badge serial once and refreshes the metadata.
func (e *Engine) ensureIdentity(ctx context.Context) error {
	serial, err := e.badge.String(ctx, keyBadgeSerial, "")
	if err != nil {
		return err
	}
	if serial == "" {
		serial = uuid.NewString()
		if err := e.badge.PutString(ctx, keyBadgeSerial, serial); err != nil {
			return err
		}
		e.logger.Info("assigned badge serial", "serial", serial)
	}
	e.serial = serial

	return errors.Join(
		e.badge.PutString(ctx, keyBadgeName, e.badgeInfo.Name),
		e.badge.PutString(ctx, keyBadgeEvent, e.badgeInfo.Event),
		e.badge.PutString(ctx, keyBadgeFirmware, e.badgeInfo.Version),
	)
}

func splitNotebook(raw string) []string {
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
