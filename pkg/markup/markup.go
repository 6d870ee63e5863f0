// Package markup parses the <...> markup Slack embeds in message bodies:
// user and channel mentions, broadcast keywords, and links. Bodies are
// decomposed into an ordered element list that the renderers and the stat
// extractors consume.
package markup

import (
	"regexp"
	"strings"
)

// ElementType identifies one kind of body element.
type ElementType string

const (
	ElementText      ElementType = "text"
	ElementUser      ElementType = "user"
	ElementChannel   ElementType = "channel"
	ElementBroadcast ElementType = "broadcast"
	ElementLink      ElementType = "link"
)

// Element is one parsed segment of a message body. For user/channel
// elements Target holds the referenced ID and Label the optional display
// name carried in the markup. For links Target is the URL and Label the
// display text (defaults to the URL). For broadcast elements Target holds
// the range ("here", "channel", "everyone").
type Element struct {
	Type   ElementType
	Text   string // only for ElementText
	Target string
	Label  string
}

var (
	reTag = regexp.MustCompile(`<(.*?)>`)
	// Bare URLs outside <...> tags; real exports wrap links in tags, but
	// bot and imported messages frequently do not.
	reBareURL = regexp.MustCompile(`https?://[^\s<>]+`)
)

// Parse decomposes a message body into its ordered elements. Plain text
// between tags is returned verbatim as text elements; it is never empty
// for a well-formed body but an empty body yields an empty slice.
func Parse(text string) []Element {
	var elements []Element

	last := 0
	for _, loc := range reTag.FindAllStringSubmatchIndex(text, -1) {
		if loc[0] > last {
			elements = append(elements, Element{Type: ElementText, Text: text[last:loc[0]]})
		}
		elements = append(elements, parseTag(text[loc[2]:loc[3]]))
		last = loc[1]
	}

	if last < len(text) {
		elements = append(elements, Element{Type: ElementText, Text: text[last:]})
	}

	return elements
}

// parseTag interprets the inside of one <...> tag.
func parseTag(body string) Element {
	switch {
	case strings.HasPrefix(body, "@"):
		target, label, _ := strings.Cut(body[1:], "|")
		return Element{Type: ElementUser, Target: target, Label: label}
	case strings.HasPrefix(body, "#"):
		target, label, _ := strings.Cut(body[1:], "|")
		return Element{Type: ElementChannel, Target: target, Label: label}
	case strings.HasPrefix(body, "!"):
		return Element{Type: ElementBroadcast, Target: body[1:]}
	default:
		url, label, ok := strings.Cut(body, "|")
		if !ok || label == "" {
			label = url
		}
		return Element{Type: ElementLink, Target: url, Label: label}
	}
}

// Links returns every link URL in the body in order of appearance.
// Each occurrence is reported independently; a URL appearing twice in one
// body is returned twice. Bare URLs in plain text segments count too.
func Links(text string) []string {
	var urls []string
	for _, el := range Parse(text) {
		switch el.Type {
		case ElementLink:
			urls = append(urls, el.Target)
		case ElementText:
			urls = append(urls, reBareURL.FindAllString(el.Text, -1)...)
		}
	}
	return urls
}

var reShortcode = regexp.MustCompile(`:([a-zA-Z0-9_+-]+):`)

// Shortcodes returns every :shortcode: occurrence in the plain-text
// segments of the body, in order, duplicates included.
func Shortcodes(text string) []string {
	var names []string
	for _, el := range Parse(text) {
		if el.Type != ElementText {
			continue
		}
		for _, m := range reShortcode.FindAllStringSubmatch(el.Text, -1) {
			names = append(names, m[1])
		}
	}
	return names
}

// ReplaceShortcodes rewrites :shortcode: occurrences in a plain-text
// segment using the provided lookup. Unknown shortcodes are left intact.
func ReplaceShortcodes(text string, lookup func(string) (string, bool)) string {
	return reShortcode.ReplaceAllStringFunc(text, func(m string) string {
		name := m[1 : len(m)-1]
		if s, ok := lookup(name); ok {
			return s
		}
		return m
	})
}
