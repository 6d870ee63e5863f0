package render

import (
	"html"
	"strings"

	"github.com/testsabirweb/slack_archive/pkg/models"
	"github.com/testsabirweb/slack_archive/pkg/thread"
)

// htmlMessage writes one message block: a header with timestamp and
// author, then the body with every text segment entity-escaped.
func htmlMessage(b *strings.Builder, m *models.Message, r Resolver) {
	b.WriteString(`<div class="message"><div class="msg-head"><time datetime="`)
	b.WriteString(html.EscapeString(m.TS))
	b.WriteString(`">`)
	b.WriteString(html.EscapeString(headTime(m)))
	b.WriteString(`</time> <a class="user" href="#user?key=`)
	b.WriteString(html.EscapeString(m.UserID))
	b.WriteString(`">`)
	b.WriteString(html.EscapeString(authorName(m, r)))
	b.WriteString(`</a></div><p>`)

	renderBody(b, m.Text, r,
		func(b *strings.Builder, s string) {
			escaped := html.EscapeString(s)
			b.WriteString(strings.ReplaceAll(escaped, "\n", "<br/>"))
		},
		func(b *strings.Builder, ref string) {
			b.WriteString(`<span class="ref">`)
			b.WriteString(html.EscapeString(ref))
			b.WriteString(`</span>`)
		},
		func(b *strings.Builder, url, label string) {
			b.WriteString(`<a href="`)
			b.WriteString(html.EscapeString(url))
			b.WriteString(`">`)
			b.WriteString(html.EscapeString(label))
			b.WriteString(`</a>`)
		},
	)

	b.WriteString("</p></div>\n")
}

func htmlThreadInto(b *strings.Builder, t *thread.Thread, r Resolver) {
	b.WriteString("<section class=\"thread\">\n")
	htmlMessage(b, &t.Root, r)
	if len(t.Replies) > 0 {
		b.WriteString("<div class=\"replies\">\n")
		for i := range t.Replies {
			htmlMessage(b, &t.Replies[i], r)
		}
		b.WriteString("</div>\n")
	}
	b.WriteString("</section>\n")
}

func htmlThread(t *thread.Thread, r Resolver) string {
	var b strings.Builder
	htmlThreadInto(&b, t, r)
	return b.String()
}

func htmlForest(f *thread.Forest, r Resolver) string {
	var b strings.Builder
	b.WriteString("<!doctype html>\n<html><head><meta charset=\"utf-8\"></head><body>\n")
	for _, it := range forestItems(f) {
		if it.thread != nil {
			htmlThreadInto(&b, it.thread, r)
		} else {
			htmlMessage(&b, it.standalone, r)
		}
	}
	b.WriteString("</body></html>\n")
	return b.String()
}
