package render

import (
	"strings"

	"github.com/testsabirweb/slack_archive/pkg/models"
	"github.com/testsabirweb/slack_archive/pkg/thread"
)

const separator = "--------------------------------------------------"

// mdEscaper neutralizes the Markdown control characters that occur in
// chat text without touching message semantics.
var mdEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"#", `\#`,
)

// mdMessage writes one message: a bold header line, then the body.
func mdMessage(b *strings.Builder, m *models.Message, r Resolver) {
	b.WriteString("**")
	b.WriteString(headTime(m))
	b.WriteString(" ")
	b.WriteString(mdEscaper.Replace("@" + authorName(m, r)))
	b.WriteString("**\n\n")

	renderBody(b, m.Text, r,
		func(b *strings.Builder, s string) { b.WriteString(mdEscaper.Replace(s)) },
		func(b *strings.Builder, ref string) { b.WriteString(mdEscaper.Replace(ref)) },
		func(b *strings.Builder, url, label string) {
			b.WriteString("[")
			b.WriteString(mdEscaper.Replace(label))
			b.WriteString("](")
			b.WriteString(url)
			b.WriteString(")")
		},
	)
	b.WriteString("\n")
}

// indent prefixes every line of s, keeping trailing newlines intact.
func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n") + "\n"
}

func mdThreadInto(b *strings.Builder, t *thread.Thread, r Resolver) {
	mdMessage(b, &t.Root, r)
	for i := range t.Replies {
		var reply strings.Builder
		mdMessage(&reply, &t.Replies[i], r)
		b.WriteString("\n")
		b.WriteString(indent(reply.String(), "> "))
	}
}

func mdThread(t *thread.Thread, r Resolver) string {
	var b strings.Builder
	mdThreadInto(&b, t, r)
	return b.String()
}

func mdForest(f *thread.Forest, r Resolver) string {
	var b strings.Builder
	for i, it := range forestItems(f) {
		if i > 0 {
			b.WriteString("\n")
			b.WriteString(separator)
			b.WriteString("\n\n")
		}
		if it.thread != nil {
			mdThreadInto(&b, it.thread, r)
		} else {
			mdMessage(&b, it.standalone, r)
		}
	}
	return b.String()
}

// textMessage writes one message: header line, then the body verbatim
// with refs in @name/#name form and links as "label (url)".
func textMessage(b *strings.Builder, m *models.Message, r Resolver) {
	b.WriteString(headTime(m))
	b.WriteString(" @")
	b.WriteString(authorName(m, r))
	b.WriteString("\n")

	renderBody(b, m.Text, r,
		func(b *strings.Builder, s string) { b.WriteString(s) },
		func(b *strings.Builder, ref string) { b.WriteString(ref) },
		func(b *strings.Builder, url, label string) {
			if label == url {
				b.WriteString(url)
				return
			}
			b.WriteString(label)
			b.WriteString(" (")
			b.WriteString(url)
			b.WriteString(")")
		},
	)
	b.WriteString("\n")
}

func textThreadInto(b *strings.Builder, t *thread.Thread, r Resolver) {
	textMessage(b, &t.Root, r)
	for i := range t.Replies {
		var reply strings.Builder
		textMessage(&reply, &t.Replies[i], r)
		b.WriteString(indent(reply.String(), "  "))
	}
}

func textThread(t *thread.Thread, r Resolver) string {
	var b strings.Builder
	textThreadInto(&b, t, r)
	return b.String()
}

func textForest(f *thread.Forest, r Resolver) string {
	var b strings.Builder
	for i, it := range forestItems(f) {
		if i > 0 {
			b.WriteString(separator)
			b.WriteString("\n")
		}
		if it.thread != nil {
			textThreadInto(&b, it.thread, r)
		} else {
			textMessage(&b, it.standalone, r)
		}
	}
	return b.String()
}

// linkList renders the link-list format: one "url<TAB>channel:ts" line
// per link occurrence, in message order.
func linkList(msgs []models.Message) string {
	var b strings.Builder
	for i := range msgs {
		m := &msgs[i]
		for _, u := range m.Links {
			b.WriteString(u)
			b.WriteString("\t")
			b.WriteString(m.ChannelID)
			b.WriteString(":")
			b.WriteString(m.TS)
			b.WriteString("\n")
		}
	}
	return b.String()
}
