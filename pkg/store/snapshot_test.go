package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testsabirweb/slack_archive/pkg/archive"
	"github.com/testsabirweb/slack_archive/pkg/models"
	"github.com/testsabirweb/slack_archive/pkg/thread"
)

func writeFixtureArchive(t *testing.T) *archive.Archive {
	t.Helper()
	root := t.TempDir()

	write := func(rel, content string) {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	write("channels.json", `[{"id": "C1", "name": "general", "created": 1577836800}]`)
	write("users.json", `[{"id": "U1", "name": "alice", "profile": {}}]`)
	write("general/2020-09-12.json", `[
	  {"type": "message", "ts": "100.000000", "user": "U1", "text": "hi"},
	  {"type": "message", "subtype": "bot_message", "ts": "105.000000",
	   "bot_id": "B7", "username": "deploybot", "text": "deployed"}
	]`)

	a, err := archive.Open(root, archive.LayoutExport)
	require.NoError(t, err)
	require.NoError(t, a.Load(context.Background(), 1))
	return a
}

func TestSnapshotFromArchiveSynthesizesAuthors(t *testing.T) {
	a := writeFixtureArchive(t)
	forests := thread.ReconstructAll(a.Messages)

	snap := SnapshotFromArchive(a, forests)

	var bot *models.User
	for i := range snap.Users {
		if snap.Users[i].ID == "B7" {
			bot = &snap.Users[i]
		}
	}
	require.NotNil(t, bot, "bot author should get a synthesized user record")
	assert.Equal(t, "deploybot", bot.Name)
	assert.True(t, bot.IsBot)

	// The synthesized snapshot passes the integrity check end to end.
	s, err := Open(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Rebuild(context.Background(), snap, Options{}))
}
