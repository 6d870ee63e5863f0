// Package archive loads a static Slack export snapshot into typed
// channel, user, and message records. Loading is tolerant of missing
// optional fields; a structurally invalid file fails with a LoadError
// for that file only.
package archive

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/testsabirweb/slack_archive/pkg/models"
)

// DefaultWorkers bounds the per-channel load concurrency when the caller
// does not choose one.
const DefaultWorkers = 4

// Archive is the loaded snapshot: entity collections, the day-file
// manifest, per-channel messages in arrival order, and everything that
// went wrong on the way. All fields are read-only after Load returns.
type Archive struct {
	Root   string
	Layout Layout

	Channels []models.Channel
	Users    []models.User
	Manifest []SourceFile

	// Messages holds each channel's messages keyed by channel ID, in
	// day-file order (the deterministic baseline before timestamp
	// sorting).
	Messages map[string][]models.Message

	// Errors collects per-file load failures; a channel with an entry
	// here has incomplete data.
	Errors []*LoadError

	Diagnostics []Diagnostic

	channelsByID   map[string]*models.Channel
	channelsByName map[string]*models.Channel
	usersByID      map[string]*models.User
}

// Open reads the export metadata (channels.json, users.json) and builds
// the day-file manifest for the given layout. Messages are not loaded
// until Load is called.
func Open(root string, layout Layout) (*Archive, error) {
	channels, err := readChannels(filepath.Join(root, "channels.json"))
	if err != nil {
		return nil, err
	}
	users, err := readUsers(filepath.Join(root, "users.json"))
	if err != nil {
		return nil, err
	}
	manifest, err := buildManifest(root, layout)
	if err != nil {
		return nil, fmt.Errorf("failed to scan archive %s: %w", root, err)
	}

	a := &Archive{
		Root:     root,
		Layout:   layout,
		Channels: channels,
		Users:    users,
		Manifest: manifest,
		Messages: make(map[string][]models.Message),
	}
	a.reindex()
	return a, nil
}

// reindex rebuilds the lookup maps from the entity slices. Previous
// channel names resolve to the current channel; a channel that is its
// own previous name keeps the current mapping.
func (a *Archive) reindex() {
	a.channelsByID = make(map[string]*models.Channel, len(a.Channels))
	a.channelsByName = make(map[string]*models.Channel, len(a.Channels))
	for i := range a.Channels {
		c := &a.Channels[i]
		a.channelsByID[c.ID] = c
		a.channelsByName[c.Name] = c
	}
	for i := range a.Channels {
		c := &a.Channels[i]
		for _, prev := range c.PreviousNames {
			if _, taken := a.channelsByName[prev]; !taken {
				a.channelsByName[prev] = c
			}
		}
	}

	a.usersByID = make(map[string]*models.User, len(a.Users))
	for i := range a.Users {
		a.usersByID[a.Users[i].ID] = &a.Users[i]
	}
}

// channelLoad is one worker's result.
type channelLoad struct {
	channelID string
	messages  []models.Message
	diags     []Diagnostic
	errs      []*LoadError
}

// Load reads every manifest file and fills the per-channel message
// collections. Channels load concurrently (they share no state); the
// call returns once all workers have joined. File-level failures land in
// a.Errors, not in the returned error, which reports only a cancelled
// context.
func (a *Archive) Load(ctx context.Context, workers int) error {
	if workers <= 0 {
		workers = DefaultWorkers
	}

	// Attribute every manifest file to a channel ID first; unknown
	// channel names get a synthesized channel so their messages are
	// never dropped.
	perChannel := make(map[string][]SourceFile)
	var order []string
	for _, sf := range a.Manifest {
		ch := a.channelsByName[sf.Channel]
		if ch == nil {
			a.Diagnostics = append(a.Diagnostics, Diagnostic{
				Kind:   "channel-name-not-found",
				Detail: sf.Channel,
			})
			a.Channels = append(a.Channels, models.Channel{ID: sf.Channel, Name: sf.Channel})
			a.reindex()
			ch = a.channelsByName[sf.Channel]
		}
		if _, seen := perChannel[ch.ID]; !seen {
			order = append(order, ch.ID)
		}
		perChannel[ch.ID] = append(perChannel[ch.ID], sf)
	}

	jobs := make(chan string)
	results := make(chan channelLoad)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for channelID := range jobs {
				results <- a.loadChannel(ctx, channelID, perChannel[channelID])
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, channelID := range order {
			select {
			case jobs <- channelID:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for res := range results {
		a.Messages[res.channelID] = res.messages
		a.Diagnostics = append(a.Diagnostics, res.diags...)
		a.Errors = append(a.Errors, res.errs...)
	}

	// Keep diagnostics deterministic regardless of worker scheduling.
	sort.SliceStable(a.Diagnostics, func(i, j int) bool {
		if a.Diagnostics[i].Channel != a.Diagnostics[j].Channel {
			return a.Diagnostics[i].Channel < a.Diagnostics[j].Channel
		}
		return a.Diagnostics[i].TS < a.Diagnostics[j].TS
	})
	sort.Slice(a.Errors, func(i, j int) bool { return a.Errors[i].Path < a.Errors[j].Path })

	return ctx.Err()
}

// loadChannel reads one channel's day files in manifest order.
func (a *Archive) loadChannel(ctx context.Context, channelID string, files []SourceFile) channelLoad {
	res := channelLoad{channelID: channelID}
	for _, sf := range files {
		if ctx.Err() != nil {
			return res
		}
		msgs, diags, err := readDayFile(sf.Path, channelID, a.usersByID)
		if err != nil {
			res.errs = append(res.errs, err.(*LoadError))
			continue
		}
		res.messages = append(res.messages, msgs...)
		res.diags = append(res.diags, diags...)
	}
	return res
}

// User returns the user record for an ID, or nil.
func (a *Archive) User(id string) *models.User {
	return a.usersByID[id]
}

// Channel returns the channel record for an ID, or nil.
func (a *Archive) Channel(id string) *models.Channel {
	return a.channelsByID[id]
}

// ChannelByName resolves a current or previous channel name, or nil.
func (a *Archive) ChannelByName(name string) *models.Channel {
	return a.channelsByName[name]
}

// UserName resolves a user ID to its display name for rendering.
// Messages from bots carry their own username; unknown IDs render as
// the ID itself so output stays traceable.
func (a *Archive) UserName(id string) string {
	if u := a.usersByID[id]; u != nil {
		return u.Name
	}
	return id
}

// ChannelName resolves a channel ID to its name for rendering.
func (a *Archive) ChannelName(id string) string {
	if c := a.channelsByID[id]; c != nil {
		return c.Name
	}
	return id
}

// ChannelIDs returns the IDs of all channels with loaded messages, in
// name order.
func (a *Archive) ChannelIDs() []string {
	ids := make([]string, 0, len(a.Messages))
	for id := range a.Messages {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return a.ChannelName(ids[i]) < a.ChannelName(ids[j])
	})
	return ids
}
