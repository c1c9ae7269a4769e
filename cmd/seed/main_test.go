package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeroshade/marinaapi/internal/store"
	"go.uber.org/zap"
)

const sample = `
boats:
  - name: Orca
    type: Sailboat
    length: 30
  - name: Minnow
    type: Tour
    length: 12.5
slips:
  - number: 1
    boat: Orca
  - number: 2
`

func writeSeed(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSeed(t *testing.T) {
	f, err := readSeed(writeSeed(t, sample))
	require.NoError(t, err)

	ctx := context.Background()
	repo := store.NewMemory()
	require.NoError(t, seed(ctx, repo, f, zap.NewNop()))

	boats, err := repo.ListBoats(ctx)
	require.NoError(t, err)
	require.Len(t, boats, 2)
	assert.Equal(t, "Orca", boats[0].Name)
	assert.Equal(t, 12.5, boats[1].Length)

	slips, err := repo.ListSlips(ctx)
	require.NoError(t, err)
	require.Len(t, slips, 2)
	require.NotNil(t, slips[0].CurrentBoat)
	assert.Equal(t, boats[0].ID, *slips[0].CurrentBoat)
	assert.Nil(t, slips[1].CurrentBoat)
}

func TestSeedUnknownBoat(t *testing.T) {
	f, err := readSeed(writeSeed(t, "slips:\n  - number: 4\n    boat: Ghost\n"))
	require.NoError(t, err)

	err = seed(context.Background(), store.NewMemory(), f, zap.NewNop())
	assert.EqualError(t, err, `slip 4: unknown boat "Ghost"`)
}

func TestReadSeedInvalid(t *testing.T) {
	_, err := readSeed(writeSeed(t, "boats: [oops"))
	assert.Error(t, err)
}
