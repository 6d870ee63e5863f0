// Package search flattens the reconstructed conversation model into
// index-ready documents for the external search-index client. Document
// keys derive from (channel, ts), so re-projecting the same archive
// yields identical documents and upserts are idempotent. The projector
// performs no network I/O.
package search

import (
	"sort"

	"github.com/testsabirweb/slack_archive/pkg/models"
	"github.com/testsabirweb/slack_archive/pkg/render"
	"github.com/testsabirweb/slack_archive/pkg/thread"
)

// snippetLen bounds the parent-body context carried on reply documents.
const snippetLen = 120

// Document is one index-ready message. ID is "<channelID>:<ts>" —
// stable and deterministic, the upsert key.
type Document struct {
	ID          string `json:"id"`
	Channel     string `json:"channel"`
	ChannelName string `json:"channel_name"`
	Author      string `json:"author"`
	Body        string `json:"body"`
	TS          string `json:"ts"`
	// ThreadRootTS is set on replies and points at the thread root.
	ThreadRootTS string `json:"thread_root_ts,omitempty"`
	// Context carries a snippet of the thread root's body on replies so
	// a hit on a short reply still shows what it answered.
	Context string `json:"context,omitempty"`
}

// DocumentID builds the stable primary key for a message coordinate.
func DocumentID(channelID, ts string) string {
	return channelID + ":" + ts
}

// coordinate locates one message inside the forests while projecting.
type coordinate struct {
	msg    *models.Message
	rootTS string
	root   *models.Message // nil for roots and standalones
}

// Projector turns per-channel forests into a deterministic document
// sequence: channels in ID order, messages in chronological order.
type Projector struct {
	resolver render.Resolver
	coords   []coordinate
	names    map[string]string
}

// NewProjector prepares a projector over the reconstructed forests.
func NewProjector(forests map[string]*thread.Forest, resolver render.Resolver) *Projector {
	channelIDs := make([]string, 0, len(forests))
	for id := range forests {
		channelIDs = append(channelIDs, id)
	}
	sort.Strings(channelIDs)

	p := &Projector{resolver: resolver, names: make(map[string]string, len(forests))}
	for _, channelID := range channelIDs {
		forest := forests[channelID]
		p.names[channelID] = resolver.ChannelName(channelID)

		var coords []coordinate
		for i := range forest.Threads {
			t := &forest.Threads[i]
			coords = append(coords, coordinate{msg: &t.Root, rootTS: t.Root.TS})
			for j := range t.Replies {
				coords = append(coords, coordinate{
					msg:    &t.Replies[j],
					rootTS: t.Root.TS,
					root:   &t.Root,
				})
			}
		}
		for i := range forest.Standalone {
			m := &forest.Standalone[i]
			coords = append(coords, coordinate{msg: m, rootTS: m.TS})
		}
		sort.SliceStable(coords, func(i, j int) bool {
			return models.CompareTS(coords[i].msg.TS, coords[j].msg.TS) < 0
		})
		p.coords = append(p.coords, coords...)
	}
	return p
}

// Len returns the total number of documents the projector will yield.
func (p *Projector) Len() int { return len(p.coords) }

// document materializes one coordinate.
func (p *Projector) document(c coordinate) Document {
	m := c.msg
	doc := Document{
		ID:          DocumentID(m.ChannelID, m.TS),
		Channel:     m.ChannelID,
		ChannelName: p.names[m.ChannelID],
		Author:      p.resolver.UserName(m.UserID),
		Body:        m.Text,
		TS:          m.TS,
	}
	if c.root != nil {
		doc.ThreadRootTS = c.rootTS
		doc.Context = snippet(c.root.Text)
	}
	return doc
}

func snippet(text string) string {
	runes := []rune(text)
	if len(runes) <= snippetLen {
		return text
	}
	return string(runes[:snippetLen-3]) + "..."
}

// Batches returns a lazy, restartable batched view of the document
// sequence. size <= 0 falls back to 100, matching the import batch the
// index client expects.
func (p *Projector) Batches(size int) *Batcher {
	if size <= 0 {
		size = 100
	}
	return &Batcher{projector: p, size: size}
}

// Batcher yields the projector's documents in fixed-size batches.
// Documents are materialized on demand; Reset restarts the sequence
// from the beginning with identical output.
type Batcher struct {
	projector *Projector
	size      int
	pos       int
}

// Next returns the next batch and whether one was available.
func (b *Batcher) Next() ([]Document, bool) {
	if b.pos >= len(b.projector.coords) {
		return nil, false
	}
	end := b.pos + b.size
	if end > len(b.projector.coords) {
		end = len(b.projector.coords)
	}
	docs := make([]Document, 0, end-b.pos)
	for _, c := range b.projector.coords[b.pos:end] {
		docs = append(docs, b.projector.document(c))
	}
	b.pos = end
	return docs, true
}

// Reset rewinds the batcher to the start of the sequence.
func (b *Batcher) Reset() { b.pos = 0 }
