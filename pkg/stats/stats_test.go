package stats

import (
	"reflect"
	"testing"

	"github.com/testsabirweb/slack_archive/pkg/models"
)

func TestCountEmoji(t *testing.T) {
	msgs := []models.Message{
		{
			ChannelID: "C1",
			TS:        "100.000000",
			Text:      "shipped :tada: :tada:",
			Reactions: []models.Reaction{
				{Name: "rocket", Users: []string{"U1", "U2"}, Count: 2},
			},
		},
		{
			ChannelID: "C1",
			TS:        "105.000000",
			Text:      "nice :rocket:",
		},
	}

	acc := CountEmoji(NewEmojiStats(), "C1", msgs)

	if got := acc.Global["tada"]; got != 2 {
		t.Errorf("tada = %d, want 2", got)
	}
	if got := acc.Global["rocket"]; got != 3 {
		t.Errorf("rocket = %d, want 3 (2 reactions + 1 shortcode)", got)
	}
	if got := acc.PerChannel["C1"]["rocket"]; got != 3 {
		t.Errorf("per-channel rocket = %d, want 3", got)
	}
}

func TestCountEmojiAccumulatesAcrossChannels(t *testing.T) {
	acc := NewEmojiStats()
	acc = CountEmoji(acc, "C1", []models.Message{{Text: ":eyes:"}})
	acc = CountEmoji(acc, "C2", []models.Message{{Text: ":eyes:"}})

	if got := acc.Global["eyes"]; got != 2 {
		t.Errorf("global eyes = %d, want 2", got)
	}
	if got := acc.PerChannel["C2"]["eyes"]; got != 1 {
		t.Errorf("C2 eyes = %d, want 1", got)
	}
}

func TestEmojiTop(t *testing.T) {
	acc := NewEmojiStats()
	acc.Global["b"] = 3
	acc.Global["a"] = 3
	acc.Global["c"] = 5

	tests := []struct {
		name string
		n    int
		want []EmojiCount
	}{
		{
			name: "ranked with name tiebreak",
			n:    0,
			want: []EmojiCount{{"c", 5}, {"a", 3}, {"b", 3}},
		},
		{
			name: "truncated",
			n:    2,
			want: []EmojiCount{{"c", 5}, {"a", 3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := acc.Top(tt.n); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Top(%d) = %v, want %v", tt.n, got, tt.want)
			}
		})
	}
}

func TestCountLinks(t *testing.T) {
	msgs := []models.Message{
		{
			ChannelID: "C1",
			TS:        "100.000000",
			Text:      "<https://a.io> twice <https://a.io>",
			Links:     []string{"https://a.io", "https://a.io"},
		},
		{
			ChannelID: "C1",
			TS:        "105.000000",
			Text:      "<https://b.io>",
			Links:     []string{"https://b.io"},
		},
	}

	acc := CountLinks(NewLinkStats(), "C1", msgs)

	stat := acc.Get("https://a.io")
	if stat == nil {
		t.Fatal("https://a.io not counted")
	}
	if stat.Count != 2 {
		t.Errorf("count = %d, want 2 for a URL appearing twice in one body", stat.Count)
	}
	wantRefs := []Coordinate{
		{ChannelID: "C1", TS: "100.000000"},
		{ChannelID: "C1", TS: "100.000000"},
	}
	if !reflect.DeepEqual(stat.Refs, wantRefs) {
		t.Errorf("refs = %v, want the same coordinate twice", stat.Refs)
	}
}

func TestCountLinksScansBodiesWithoutPreextractedLinks(t *testing.T) {
	msgs := []models.Message{
		{ChannelID: "C1", TS: "100.000000", Text: "see https://a.io"},
	}

	acc := CountLinks(NewLinkStats(), "C1", msgs)

	if stat := acc.Get("https://a.io"); stat == nil || stat.Count != 1 {
		t.Errorf("Get = %+v, want one occurrence from the body scan", stat)
	}
}

func TestLinkOrderings(t *testing.T) {
	acc := NewLinkStats()
	acc = CountLinks(acc, "C1", []models.Message{
		{TS: "uno", Links: []string{"https://z.io", "https://a.io", "https://z.io"}},
	})

	byCount := acc.ByCount()
	if len(byCount) != 2 || byCount[0].URL != "https://z.io" {
		t.Errorf("ByCount = %v, want z.io first", byCount)
	}

	byURL := acc.ByURL()
	if len(byURL) != 2 || byURL[0].URL != "https://a.io" {
		t.Errorf("ByURL = %v, want a.io first", byURL)
	}
}
