package markup

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Element
	}{
		{
			name: "plain text",
			text: "hello world",
			want: []Element{{Type: ElementText, Text: "hello world"}},
		},
		{
			name: "empty body",
			text: "",
			want: nil,
		},
		{
			name: "user mention",
			text: "hi <@U123>",
			want: []Element{
				{Type: ElementText, Text: "hi "},
				{Type: ElementUser, Target: "U123"},
			},
		},
		{
			name: "user mention with label",
			text: "<@U123|alice> wrote",
			want: []Element{
				{Type: ElementUser, Target: "U123", Label: "alice"},
				{Type: ElementText, Text: " wrote"},
			},
		},
		{
			name: "channel reference",
			text: "see <#C42|general>",
			want: []Element{
				{Type: ElementText, Text: "see "},
				{Type: ElementChannel, Target: "C42", Label: "general"},
			},
		},
		{
			name: "broadcast",
			text: "<!here> deploy done",
			want: []Element{
				{Type: ElementBroadcast, Target: "here"},
				{Type: ElementText, Text: " deploy done"},
			},
		},
		{
			name: "link without label",
			text: "<https://example.com>",
			want: []Element{
				{Type: ElementLink, Target: "https://example.com", Label: "https://example.com"},
			},
		},
		{
			name: "link with label",
			text: "<https://example.com|docs>",
			want: []Element{
				{Type: ElementLink, Target: "https://example.com", Label: "docs"},
			},
		},
		{
			name: "mixed body",
			text: "ping <@U1> in <#C1|dev>: <http://a.io|a>",
			want: []Element{
				{Type: ElementText, Text: "ping "},
				{Type: ElementUser, Target: "U1"},
				{Type: ElementText, Text: " in "},
				{Type: ElementChannel, Target: "C1", Label: "dev"},
				{Type: ElementText, Text: ": "},
				{Type: ElementLink, Target: "http://a.io", Label: "a"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}

func TestLinks(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "no links",
			text: "nothing here",
			want: nil,
		},
		{
			name: "tagged link",
			text: "see <https://example.com|docs>",
			want: []string{"https://example.com"},
		},
		{
			name: "bare url in text",
			text: "see https://example.com for details",
			want: []string{"https://example.com"},
		},
		{
			name: "same url twice counts twice",
			text: "<https://a.io> and again <https://a.io>",
			want: []string{"https://a.io", "https://a.io"},
		},
		{
			name: "order of appearance",
			text: "<https://b.io> then https://a.io",
			want: []string{"https://b.io", "https://a.io"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Links(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Links(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestShortcodes(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"none", "plain", nil},
		{"single", "nice :tada:", []string{"tada"}},
		{"repeated", ":tada: :tada:", []string{"tada", "tada"}},
		{"plus and minus names", ":+1: or :-1:", []string{"+1", "-1"}},
		{"inside link tag ignored", "<https://a.io/:tada:>", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Shortcodes(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Shortcodes(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestReplaceShortcodes(t *testing.T) {
	lookup := func(name string) (string, bool) {
		if name == "tada" {
			return "🎉", true
		}
		return "", false
	}

	tests := []struct {
		name string
		text string
		want string
	}{
		{"known", "nice :tada:", "nice 🎉"},
		{"unknown left intact", "custom :blobwave: here", "custom :blobwave: here"},
		{"mixed", ":tada: :blobwave:", "🎉 :blobwave:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReplaceShortcodes(tt.text, lookup); got != tt.want {
				t.Errorf("ReplaceShortcodes(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}
