package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/speakboard/pkg/types"
)

func TestSeedDefaults(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(t *testing.T, b *Backend)
		wantSeeded bool
		check      func(t *testing.T, b *Backend)
	}{
		{
			name:       "empty store gets four root cards",
			wantSeeded: true,
			check: func(t *testing.T, b *Backend) {
				ctx := context.Background()
				speak, err := b.ListByParentAndType(ctx, nil, types.CardSpeak)
				require.NoError(t, err)
				assert.Equal(t, []string{"Hi", "More", "Help"}, labels(speak))

				folders, err := b.ListByParentAndType(ctx, nil, types.CardFolder)
				require.NoError(t, err)
				require.Len(t, folders, 1)
				assert.Equal(t, "Food", folders[0].Label)
				assert.Equal(t, float64(4), folders[0].Order)
			},
		},
		{
			name: "one unrelated record suppresses seeding",
			setup: func(t *testing.T, b *Backend) {
				_, err := b.Add(context.Background(), &types.Card{Type: types.CardSpeak, Label: "Water"})
				require.NoError(t, err)
			},
			check: func(t *testing.T, b *Backend) {
				n, err := b.Count(context.Background())
				require.NoError(t, err)
				assert.Equal(t, 1, n)
			},
		},
		{
			name: "second run is a no-op",
			setup: func(t *testing.T, b *Backend) {
				seeded, err := b.SeedDefaults(context.Background())
				require.NoError(t, err)
				require.True(t, seeded)
			},
			check: func(t *testing.T, b *Backend) {
				n, err := b.Count(context.Background())
				require.NoError(t, err)
				assert.Equal(t, 4, n)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := setupBackend(t)
			if tt.setup != nil {
				tt.setup(t, b)
			}
			seeded, err := b.SeedDefaults(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantSeeded, seeded)
			tt.check(t, b)
		})
	}
}

func TestAttachSeedsWhenConfigured(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	config := types.Config{Backend: types.BackendSQLite, DataDir: dir, Seed: true}

	b := NewBackend()
	require.NoError(t, b.Attach(config))
	n, err := b.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	require.NoError(t, b.Detach())

	// Reattaching an already seeded store adds nothing.
	require.NoError(t, b.Attach(config))
	t.Cleanup(func() { b.Detach() })
	n, err = b.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}
