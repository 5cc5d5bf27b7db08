package terminal_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/seabattle/internal/frontend/terminal"
)

func TestDefaultCatalog(t *testing.T) {
	c := terminal.DefaultCatalog()
	require.NoError(t, c.Validate())
	assert.Equal(t, "PLAYER HIT!", c.PlayerHit)
	assert.Equal(t, "CPU MISS", c.CPUMiss)
	assert.Equal(t, "You already guessed that location!", c.Duplicate)
	assert.Len(t, c.Intro, 3)
}

func TestLoadCatalog_EmptyPathIsDefault(t *testing.T) {
	c, err := terminal.LoadCatalog("")
	require.NoError(t, err)
	assert.Equal(t, terminal.DefaultCatalog(), c)
}

func TestLoadCatalog_OverrideReplacesOnlyPresentKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.yaml")
	require.NoError(t, os.WriteFile(path, []byte("player_hit: \"BOOM!\"\nintro:\n  - \"Good luck.\"\n"), 0o600))

	c, err := terminal.LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, "BOOM!", c.PlayerHit)
	assert.Equal(t, []string{"Good luck."}, c.Intro)
	assert.Equal(t, terminal.DefaultCatalog().PlayerMiss, c.PlayerMiss)
}

func TestLoadCatalog_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := terminal.LoadCatalog(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("player_hit: [unterminated\n"), 0o600))
	_, err = terminal.LoadCatalog(bad)
	assert.ErrorContains(t, err, "parsing")

	blank := filepath.Join(dir, "blank.yaml")
	require.NoError(t, os.WriteFile(blank, []byte("win: \"\"\nlose: \" \"\n"), 0o600))
	_, err = terminal.LoadCatalog(blank)
	assert.ErrorContains(t, err, "empty messages: win, lose")
}
