package memory

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRosterFile_MatchesBuiltInRoster(t *testing.T) {
	roster, err := LoadRosterFile(filepath.Join("..", "..", "..", "..", "db", "seed", "roster.yaml"))
	require.NoError(t, err)

	assert.Equal(t, SeedRoster(), roster)
}

func TestParseRoster_DefaultsAndValidation(t *testing.T) {
	roster, err := ParseRoster([]byte(`
players:
  - id: 9
    name: Net Bowler
    role: bowler
    nationality: India
`))
	require.NoError(t, err)
	require.Len(t, roster.Players, 1)
	assert.True(t, roster.Players[0].IsActive, "players default to active")

	_, err = ParseRoster([]byte(`
players:
  - id: 10
    name: Twelfth Man
    role: substitute
    nationality: India
`))
	assert.Error(t, err)

	_, err = ParseRoster([]byte("teams: [oops"))
	assert.Error(t, err)
}
