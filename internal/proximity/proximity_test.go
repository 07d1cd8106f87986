package proximity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan(t *testing.T) {
	s := New(true, 0, nil)
	found, err := s.ScanForLegacyBadge(context.Background())
	require.NoError(t, err)
	assert.True(t, found)

	s.SetNearby(false)
	found, err = s.ScanForLegacyBadge(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
}

func TestScanCancelled(t *testing.T) {
	s := New(true, time.Hour, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	found, err := s.ScanForLegacyBadge(ctx)
	assert.False(t, found)
	assert.True(t, errors.Is(err, context.Canceled))
}
