package storage

import (
	"context"
	"fmt"
	"strconv"
)

// Preferences is a typed view over one namespace. Every getter takes an
// explicit default used when the key is missing or unparsable.
type Preferences struct {
	store     Store
	namespace string
}

func NewPreferences(store Store, namespace string) *Preferences {
	return &Preferences{store: store, namespace: namespace}
}

func (p *Preferences) Namespace() string { return p.namespace }

func (p *Preferences) String(ctx context.Context, key, def string) (string, error) {
	v, ok, err := p.store.Get(ctx, p.namespace, key)
	if err != nil {
		return def, fmt.Errorf("failed to read %s/%s: %w", p.namespace, key, err)
	}
	if !ok {
		return def, nil
	}
	return v, nil
}

func (p *Preferences) Int(ctx context.Context, key string, def int) (int, error) {
	v, ok, err := p.store.Get(ctx, p.namespace, key)
	if err != nil {
		return def, fmt.Errorf("failed to read %s/%s: %w", p.namespace, key, err)
	}
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, nil
	}
	return n, nil
}

func (p *Preferences) Bool(ctx context.Context, key string, def bool) (bool, error) {
	v, ok, err := p.store.Get(ctx, p.namespace, key)
	if err != nil {
		return def, fmt.Errorf("failed to read %s/%s: %w", p.namespace, key, err)
	}
	if !ok {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, nil
	}
	return b, nil
}

func (p *Preferences) PutString(ctx context.Context, key, value string) error {
	if err := p.store.Put(ctx, p.namespace, key, value); err != nil {
		return fmt.Errorf("failed to write %s/%s: %w", p.namespace, key, err)
	}
	return nil
}

func (p *Preferences) PutInt(ctx context.Context, key string, value int) error {
	return p.PutString(ctx, key, strconv.Itoa(value))
}

func (p *Preferences) PutBool(ctx context.Context, key string, value bool) error {
	return p.PutString(ctx, key, strconv.FormatBool(value))
}

func (p *Preferences) HasKey(ctx context.Context, key string) (bool, error) {
	ok, err := p.store.HasKey(ctx, p.namespace, key)
	if err != nil {
		return false, fmt.Errorf("failed to check %s/%s: %w", p.namespace, key, err)
	}
	return ok, nil
}

func (p *Preferences) Clear(ctx context.Context) error {
	if err := p.store.Clear(ctx, p.namespace); err != nil {
		return fmt.Errorf("failed to clear %s: %w", p.namespace, err)
	}
	return nil
}
