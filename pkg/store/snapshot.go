package store

import (
	"github.com/testsabirweb/slack_archive/pkg/archive"
	"github.com/testsabirweb/slack_archive/pkg/models"
	"github.com/testsabirweb/slack_archive/pkg/thread"
)

// SnapshotFromArchive assembles a projection snapshot from a loaded
// archive and its reconstructed forests. Authors the export's
// users.json does not list (bot IDs, anonymous file comments) get a
// synthesized user record so the projection's foreign keys resolve
// without weakening the integrity check for genuinely dangling data.
func SnapshotFromArchive(a *archive.Archive, forests map[string]*thread.Forest) *Snapshot {
	snap := &Snapshot{
		Channels: a.Channels,
		Users:    a.Users,
		Forests:  forests,
	}

	known := make(map[string]bool, len(a.Users))
	for _, u := range a.Users {
		known[u.ID] = true
	}

	// Walk channels in a fixed order so the synthesized user list is
	// deterministic run to run.
	for _, channelID := range sortedChannelIDs(forests) {
		for _, m := range forests[channelID].Messages() {
			if known[m.UserID] {
				continue
			}
			known[m.UserID] = true

			name := m.Username
			if name == "" {
				name = m.UserID
			}
			if name == "" {
				name = "unknown"
			}
			snap.Users = append(snap.Users, models.User{
				ID:    m.UserID,
				Name:  name,
				IsBot: m.Subtype == "bot_message",
			})
		}
	}

	return snap
}
