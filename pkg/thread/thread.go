// Package thread links reply records to their parent messages and builds
// the per-channel conversation forest. Reconstruction is a pure function
// of the flat message collection (plus an optional parent-link override
// set); the resulting forest is read-only.
package thread

import (
	"sort"

	"github.com/testsabirweb/slack_archive/pkg/models"
)

// Thread is a root message plus its directly attached replies in
// timestamp order. Threading is flat: every reply hangs off the root,
// never off another reply.
type Thread struct {
	Root    models.Message
	Replies []models.Message
}

// Diagnostic records a reply that could not be linked as declared. The
// message itself is demoted to standalone, never dropped.
type Diagnostic struct {
	Kind      string
	ChannelID string
	TS        string
	ParentTS  string
}

// Forest is the reconstructed conversation model for one channel:
// threads and residual standalone messages, both ordered by timestamp
// ascending.
type Forest struct {
	ChannelID   string
	Threads     []Thread
	Standalone  []models.Message
	Diagnostics []Diagnostic
}

// Messages returns every message of the forest in chronological order:
// thread roots, their replies, and standalones merged by timestamp.
// Reconstruction neither loses nor duplicates messages, so this is the
// channel's original chronology.
func (f *Forest) Messages() []models.Message {
	var msgs []models.Message
	for _, t := range f.Threads {
		msgs = append(msgs, t.Root)
		msgs = append(msgs, t.Replies...)
	}
	msgs = append(msgs, f.Standalone...)
	sort.SliceStable(msgs, func(i, j int) bool {
		return models.CompareTS(msgs[i].TS, msgs[j].TS) < 0
	})
	return msgs
}

// Reconstruct builds the thread forest for one channel from its flat
// message collection.
//
// Two passes: the first indexes every non-reply message by timestamp
// (a duplicated timestamp means an edited message re-exported in a later
// day file; the later record wins), the second attaches each reply to
// its indexed parent. Replies whose declared parent cannot be resolved
// are demoted to standalone and flagged. A parentless message is a
// thread root only if it ended up with at least one reply; otherwise it
// is standalone.
func Reconstruct(channelID string, msgs []models.Message) *Forest {
	return build(channelID, msgs, nil)
}

// Rethread is the repair mode: overrides maps a message timestamp to its
// corrected parent timestamp (empty string detaches the message). The
// overridden linkage feeds the same reconstruction algorithm, so the
// result is a deterministic function of (messages, overrides).
func Rethread(channelID string, msgs []models.Message, overrides map[string]string) *Forest {
	return build(channelID, msgs, overrides)
}

func build(channelID string, msgs []models.Message, overrides map[string]string) *Forest {
	f := &Forest{ChannelID: channelID}

	linked := make([]models.Message, len(msgs))
	copy(linked, msgs)
	if overrides != nil {
		for i := range linked {
			if parent, ok := overrides[linked[i].TS]; ok {
				linked[i].ParentTS = parent
			}
		}
	}

	// Pass one: index roots and candidate roots by timestamp.
	index := make(map[string]int) // ts -> position in roots
	var roots []Thread
	var replies []models.Message

	for _, m := range linked {
		if m.IsReply() {
			replies = append(replies, m)
			continue
		}
		if at, dup := index[m.TS]; dup {
			// Same timestamp seen again: an edit re-exported later.
			if roots[at].Root.UserID != m.UserID {
				f.Diagnostics = append(f.Diagnostics, Diagnostic{
					Kind:      "duplicated-root-ts",
					ChannelID: channelID,
					TS:        m.TS,
				})
			}
			roots[at].Root = m
			continue
		}
		index[m.TS] = len(roots)
		roots = append(roots, Thread{Root: m})
	}

	// Replies normally key to the root directly; a corrected link set
	// may point a reply at another reply, which collapses to that
	// reply's own root (threading stays one level deep).
	replyParent := make(map[string]string, len(replies))
	for _, m := range replies {
		replyParent[m.TS] = m.ParentTS
	}

	// Pass two: attach replies to their roots, preserving arrival order
	// as the tiebreak for replies sharing a parent.
	for _, m := range replies {
		at, ok := index[resolveRoot(m.ParentTS, index, replyParent)]
		if !ok {
			f.Diagnostics = append(f.Diagnostics, Diagnostic{
				Kind:      "unresolved-parent",
				ChannelID: channelID,
				TS:        m.TS,
				ParentTS:  m.ParentTS,
			})
			f.Standalone = append(f.Standalone, m)
			continue
		}
		roots[at].Replies = append(roots[at].Replies, m)
	}

	// Split childless roots out as standalone messages.
	for _, t := range roots {
		if len(t.Replies) == 0 {
			f.Standalone = append(f.Standalone, t.Root)
			continue
		}
		sort.SliceStable(t.Replies, func(i, j int) bool {
			return models.CompareTS(t.Replies[i].TS, t.Replies[j].TS) < 0
		})
		f.Threads = append(f.Threads, t)
	}

	sort.SliceStable(f.Threads, func(i, j int) bool {
		return models.CompareTS(f.Threads[i].Root.TS, f.Threads[j].Root.TS) < 0
	})
	sort.SliceStable(f.Standalone, func(i, j int) bool {
		return models.CompareTS(f.Standalone[i].TS, f.Standalone[j].TS) < 0
	})

	return f
}

// resolveRoot follows reply-to-reply links until it reaches an indexed
// root. The walk is bounded so a cyclic override set cannot hang
// reconstruction; an unresolvable chain returns the original parent,
// which the caller then demotes.
func resolveRoot(parentTS string, index map[string]int, replyParent map[string]string) string {
	ts := parentTS
	for hops := 0; hops < 64; hops++ {
		if _, ok := index[ts]; ok {
			return ts
		}
		next, ok := replyParent[ts]
		if !ok || next == ts {
			return ts
		}
		ts = next
	}
	return parentTS
}

// ReconstructAll runs Reconstruct over every channel of a loaded
// snapshot and returns the forests keyed by channel ID.
func ReconstructAll(messages map[string][]models.Message) map[string]*Forest {
	forests := make(map[string]*Forest, len(messages))
	for channelID, msgs := range messages {
		forests[channelID] = Reconstruct(channelID, msgs)
	}
	return forests
}
