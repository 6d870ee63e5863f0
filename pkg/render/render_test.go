package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/testsabirweb/slack_archive/pkg/models"
	"github.com/testsabirweb/slack_archive/pkg/thread"
)

// mapResolver satisfies Resolver from fixed lookup tables.
type mapResolver struct {
	users    map[string]string
	channels map[string]string
}

func (r mapResolver) UserName(id string) string {
	if n, ok := r.users[id]; ok {
		return n
	}
	return id
}

func (r mapResolver) ChannelName(id string) string {
	if n, ok := r.channels[id]; ok {
		return n
	}
	return id
}

var testResolver = mapResolver{
	users:    map[string]string{"U1": "alice", "U2": "bob"},
	channels: map[string]string{"C1": "general"},
}

func testThread() *thread.Thread {
	return &thread.Thread{
		Root: models.Message{
			ChannelID: "C1",
			TS:        "1599934232.150700",
			UserID:    "U1",
			Text:      "hello <@U2> see <https://example.com|docs>",
		},
		Replies: []models.Message{
			{
				ChannelID: "C1",
				TS:        "1599934300.000100",
				ParentTS:  "1599934232.150700",
				UserID:    "U2",
				Text:      "on it :tada:",
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Format
		wantErr bool
	}{
		{"html", "html", FormatHTML, false},
		{"md", "md", FormatMarkdown, false},
		{"txt", "txt", FormatText, false},
		{"links", "links", FormatLinks, false},
		{"unknown", "pdf", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				var ufe *models.UnsupportedFormatError
				if !errors.As(err, &ufe) {
					t.Fatalf("ParseFormat(%q) error = %v, want UnsupportedFormatError", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, %v, want %v", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestThreadHTML(t *testing.T) {
	out, err := Thread(FormatHTML, testThread(), testResolver)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		`<section class="thread">`,
		`<div class="replies">`,
		">alice</a>",
		"@bob",
		`<a href="https://example.com">docs</a>`,
		"🎉",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("html output missing %q:\n%s", want, out)
		}
	}
}

func TestHTMLEscapesBodies(t *testing.T) {
	th := &thread.Thread{
		Root: models.Message{
			ChannelID: "C1",
			TS:        "100.000000",
			UserID:    "U1",
			Text:      "watch <b> & <script>alert(1)</script>",
		},
	}

	out, err := Thread(FormatHTML, th, testResolver)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("unescaped script tag in output:\n%s", out)
	}
	if !strings.Contains(out, "&amp;") {
		t.Errorf("ampersand not escaped:\n%s", out)
	}
}

func TestHTMLNewlinesBecomeBreaks(t *testing.T) {
	th := &thread.Thread{
		Root: models.Message{ChannelID: "C1", TS: "100.000000", UserID: "U1", Text: "one\ntwo"},
	}

	out, err := Thread(FormatHTML, th, testResolver)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "one<br/>two") {
		t.Errorf("newline not rendered as <br/>:\n%s", out)
	}
}

func TestThreadMarkdown(t *testing.T) {
	out, err := Thread(FormatMarkdown, testThread(), testResolver)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out, "**2020-09-12") {
		t.Errorf("missing bold header:\n%s", out)
	}
	if !strings.Contains(out, "[docs](https://example.com)") {
		t.Errorf("missing markdown link:\n%s", out)
	}
	if !strings.Contains(out, "> ") {
		t.Errorf("reply not blockquoted:\n%s", out)
	}
}

func TestMarkdownEscapesControlCharacters(t *testing.T) {
	th := &thread.Thread{
		Root: models.Message{ChannelID: "C1", TS: "100.000000", UserID: "U1", Text: "a *b* [c] #d"},
	}

	out, err := Thread(FormatMarkdown, th, testResolver)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`\*b\*`, `\[c\]`, `\#d`} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown output missing escaped %q:\n%s", want, out)
		}
	}
}

func TestThreadText(t *testing.T) {
	out, err := Thread(FormatText, testThread(), testResolver)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out, "@alice") {
		t.Errorf("missing author:\n%s", out)
	}
	if !strings.Contains(out, "docs (https://example.com)") {
		t.Errorf("labelled link should render as 'label (url)':\n%s", out)
	}
	if !strings.Contains(out, "\n  ") {
		t.Errorf("reply not indented:\n%s", out)
	}
}

func TestThreadLinks(t *testing.T) {
	th := testThread()
	th.Root.Links = []string{"https://example.com"}

	out, err := Thread(FormatLinks, th, testResolver)
	if err != nil {
		t.Fatal(err)
	}
	want := "https://example.com\tC1:1599934232.150700\n"
	if out != want {
		t.Errorf("links output = %q, want %q", out, want)
	}
}

func TestForestChronology(t *testing.T) {
	forest := &thread.Forest{
		ChannelID: "C1",
		Threads: []thread.Thread{
			{
				Root:    models.Message{ChannelID: "C1", TS: "200.000000", UserID: "U1", Text: "threaded"},
				Replies: []models.Message{{ChannelID: "C1", TS: "205.000000", ParentTS: "200.000000", UserID: "U2", Text: "reply"}},
			},
		},
		Standalone: []models.Message{
			{ChannelID: "C1", TS: "100.000000", UserID: "U1", Text: "first"},
			{ChannelID: "C1", TS: "300.000000", UserID: "U2", Text: "last"},
		},
	}

	out, err := Forest(FormatText, forest, testResolver)
	if err != nil {
		t.Fatal(err)
	}

	first := strings.Index(out, "first")
	threaded := strings.Index(out, "threaded")
	reply := strings.Index(out, "reply")
	last := strings.Index(out, "last")
	if !(first < threaded && threaded < reply && reply < last) {
		t.Errorf("forest not in chronological order:\n%s", out)
	}
	if !strings.Contains(out, separator) {
		t.Errorf("missing separator between items:\n%s", out)
	}
}

func TestForestHTMLWrapper(t *testing.T) {
	forest := &thread.Forest{
		ChannelID:  "C1",
		Standalone: []models.Message{{ChannelID: "C1", TS: "100.000000", UserID: "U1", Text: "hi"}},
	}

	out, err := Forest(FormatHTML, forest, testResolver)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "<!doctype html>") {
		t.Errorf("missing document wrapper:\n%s", out)
	}
	if !strings.Contains(out, `<meta charset="utf-8">`) {
		t.Errorf("missing charset declaration:\n%s", out)
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	th := testThread()
	for _, f := range []Format{FormatHTML, FormatMarkdown, FormatText} {
		a, err := Thread(f, th, testResolver)
		if err != nil {
			t.Fatal(err)
		}
		b, err := Thread(f, th, testResolver)
		if err != nil {
			t.Fatal(err)
		}
		if a != b {
			t.Errorf("format %s: repeated renders differ", f)
		}
	}
}

func TestAuthorName(t *testing.T) {
	tests := []struct {
		name string
		msg  models.Message
		want string
	}{
		{"listed user", models.Message{UserID: "U1"}, "alice"},
		{"bot with username", models.Message{UserID: "B99", Username: "deploybot"}, "deploybot"},
		{"unknown id without username", models.Message{UserID: "U404"}, "U404"},
		{"username only", models.Message{Username: "webhook"}, "webhook"},
		{"nothing", models.Message{}, "?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := authorName(&tt.msg, testResolver); got != tt.want {
				t.Errorf("authorName = %q, want %q", got, tt.want)
			}
		})
	}
}
