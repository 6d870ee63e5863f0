// Package render maps reconstructed threads and channel forests to
// formatted text. Renderers are pure: they never mutate their input and
// the same input always yields byte-identical output. The supported
// formats form a closed set selected by an explicit enum.
package render

import (
	"strings"

	"github.com/testsabirweb/slack_archive/pkg/emoji"
	"github.com/testsabirweb/slack_archive/pkg/markup"
	"github.com/testsabirweb/slack_archive/pkg/models"
	"github.com/testsabirweb/slack_archive/pkg/thread"
)

// Format selects one render target.
type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "md"
	FormatText     Format = "txt"
	FormatLinks    Format = "links"
)

// ParseFormat validates a render target name. Unknown names fail with
// UnsupportedFormatError and no partial output is produced.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatHTML, FormatMarkdown, FormatText, FormatLinks:
		return Format(s), nil
	default:
		return "", &models.UnsupportedFormatError{Kind: "render format", Value: s}
	}
}

// Resolver supplies display names for the IDs messages carry. The loaded
// archive satisfies it.
type Resolver interface {
	UserName(id string) string
	ChannelName(id string) string
}

// Thread renders a single thread in the given format.
func Thread(f Format, t *thread.Thread, r Resolver) (string, error) {
	switch f {
	case FormatHTML:
		return htmlThread(t, r), nil
	case FormatMarkdown:
		return mdThread(t, r), nil
	case FormatText:
		return textThread(t, r), nil
	case FormatLinks:
		return linkList(threadMessages(t)), nil
	default:
		return "", &models.UnsupportedFormatError{Kind: "render format", Value: string(f)}
	}
}

// Forest renders a whole channel forest: threads and standalone messages
// interleaved in chronological order, root first, replies directly after
// their root.
func Forest(f Format, forest *thread.Forest, r Resolver) (string, error) {
	switch f {
	case FormatHTML:
		return htmlForest(forest, r), nil
	case FormatMarkdown:
		return mdForest(forest, r), nil
	case FormatText:
		return textForest(forest, r), nil
	case FormatLinks:
		return linkList(forest.Messages()), nil
	default:
		return "", &models.UnsupportedFormatError{Kind: "render format", Value: string(f)}
	}
}

// item is one chronological unit of a forest: a thread or a standalone
// message.
type item struct {
	thread     *thread.Thread
	standalone *models.Message
}

func (it item) ts() string {
	if it.thread != nil {
		return it.thread.Root.TS
	}
	return it.standalone.TS
}

// forestItems merges threads and standalones into root-timestamp order.
// Both inputs are already sorted, so this is a linear merge.
func forestItems(f *thread.Forest) []item {
	items := make([]item, 0, len(f.Threads)+len(f.Standalone))
	ti, si := 0, 0
	for ti < len(f.Threads) || si < len(f.Standalone) {
		switch {
		case ti == len(f.Threads):
			items = append(items, item{standalone: &f.Standalone[si]})
			si++
		case si == len(f.Standalone):
			items = append(items, item{thread: &f.Threads[ti]})
			ti++
		case models.CompareTS(f.Threads[ti].Root.TS, f.Standalone[si].TS) <= 0:
			items = append(items, item{thread: &f.Threads[ti]})
			ti++
		default:
			items = append(items, item{standalone: &f.Standalone[si]})
			si++
		}
	}
	return items
}

func threadMessages(t *thread.Thread) []models.Message {
	msgs := make([]models.Message, 0, 1+len(t.Replies))
	msgs = append(msgs, t.Root)
	msgs = append(msgs, t.Replies...)
	return msgs
}

// headTime formats a message timestamp for the message header.
func headTime(m *models.Message) string {
	ts := m.Time()
	if ts.IsZero() {
		return m.TS
	}
	return ts.Format("2006-01-02 15:04:05")
}

// authorName resolves the author display name. Bot messages may carry a
// username instead of a listed user ID.
func authorName(m *models.Message, r Resolver) string {
	if m.UserID != "" {
		name := r.UserName(m.UserID)
		if name != m.UserID || m.Username == "" {
			return name
		}
	}
	if m.Username != "" {
		return m.Username
	}
	if m.UserID != "" {
		return m.UserID
	}
	return "?"
}

// renderBody walks the parsed body elements and writes each through the
// format-specific callbacks. Text segments get their emoji shortcodes
// substituted before escaping.
func renderBody(b *strings.Builder, text string, r Resolver,
	writeText func(*strings.Builder, string),
	writeRef func(*strings.Builder, string),
	writeLink func(b *strings.Builder, url, label string),
) {
	for _, el := range markup.Parse(text) {
		switch el.Type {
		case markup.ElementText:
			writeText(b, markup.ReplaceShortcodes(el.Text, emoji.Lookup))
		case markup.ElementUser:
			name := el.Label
			if name == "" {
				name = r.UserName(el.Target)
			}
			writeRef(b, "@"+name)
		case markup.ElementChannel:
			name := el.Label
			if name == "" {
				name = r.ChannelName(el.Target)
			}
			writeRef(b, "#"+name)
		case markup.ElementBroadcast:
			writeRef(b, "@"+el.Target)
		case markup.ElementLink:
			writeLink(b, el.Target, el.Label)
		}
	}
}
