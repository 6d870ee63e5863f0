// Package stats computes emoji-usage and link-reference aggregates over
// the loaded message collections. Extraction is a pure fold: the caller
// threads an accumulator through the channels and gets it back, so runs
// are order-independent and parallelizable per channel.
package stats

import (
	"sort"

	"github.com/testsabirweb/slack_archive/pkg/markup"
	"github.com/testsabirweb/slack_archive/pkg/models"
)

// EmojiCount pairs an emoji name with its usage count.
type EmojiCount struct {
	Name  string
	Count int
}

// EmojiStats accumulates emoji usage per channel and globally. Reaction
// emoji and in-body :shortcode: occurrences both count.
type EmojiStats struct {
	Global     map[string]int
	PerChannel map[string]map[string]int
}

// NewEmojiStats returns an empty accumulator.
func NewEmojiStats() *EmojiStats {
	return &EmojiStats{
		Global:     make(map[string]int),
		PerChannel: make(map[string]map[string]int),
	}
}

// CountEmoji folds one channel's messages into the accumulator and
// returns it.
func CountEmoji(acc *EmojiStats, channelID string, msgs []models.Message) *EmojiStats {
	channel := acc.PerChannel[channelID]
	if channel == nil {
		channel = make(map[string]int)
		acc.PerChannel[channelID] = channel
	}

	bump := func(name string, n int) {
		acc.Global[name] += n
		channel[name] += n
	}

	for _, m := range msgs {
		for _, r := range m.Reactions {
			bump(r.Name, r.Count)
		}
		for _, name := range markup.Shortcodes(m.Text) {
			bump(name, 1)
		}
	}
	return acc
}

// Top returns the n most used emoji globally, count descending; ties
// break by emoji name ascending. n <= 0 returns the full ranking.
func (s *EmojiStats) Top(n int) []EmojiCount {
	return rank(s.Global, n)
}

// TopInChannel is Top scoped to one channel.
func (s *EmojiStats) TopInChannel(channelID string, n int) []EmojiCount {
	return rank(s.PerChannel[channelID], n)
}

func rank(counts map[string]int, n int) []EmojiCount {
	ranked := make([]EmojiCount, 0, len(counts))
	for name, count := range counts {
		ranked = append(ranked, EmojiCount{Name: name, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Name < ranked[j].Name
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Coordinate locates a referencing message.
type Coordinate struct {
	ChannelID string
	TS        string
}

// LinkStat is the aggregate for one URL: how often it appeared and
// where, in encounter order. A URL appearing twice in one message body
// counts twice and references the same coordinate twice.
type LinkStat struct {
	URL   string
	Count int
	Refs  []Coordinate
}

// LinkStats accumulates link references across channels.
type LinkStats struct {
	byURL map[string]*LinkStat
	order []string
}

// NewLinkStats returns an empty accumulator.
func NewLinkStats() *LinkStats {
	return &LinkStats{byURL: make(map[string]*LinkStat)}
}

// CountLinks folds one channel's messages into the accumulator and
// returns it. Messages carry their link occurrences from load time;
// bodies without pre-extracted links are scanned here so the fold also
// works on synthetic messages.
func CountLinks(acc *LinkStats, channelID string, msgs []models.Message) *LinkStats {
	for _, m := range msgs {
		links := m.Links
		if links == nil {
			links = markup.Links(m.Text)
		}
		for _, url := range links {
			stat := acc.byURL[url]
			if stat == nil {
				stat = &LinkStat{URL: url}
				acc.byURL[url] = stat
				acc.order = append(acc.order, url)
			}
			stat.Count++
			stat.Refs = append(stat.Refs, Coordinate{ChannelID: channelID, TS: m.TS})
		}
	}
	return acc
}

// Get returns the stat for a URL, or nil.
func (s *LinkStats) Get(url string) *LinkStat {
	return s.byURL[url]
}

// ByCount returns all link stats, count descending; ties break by URL
// ascending.
func (s *LinkStats) ByCount() []*LinkStat {
	out := s.all()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].URL < out[j].URL
	})
	return out
}

// ByURL returns all link stats in URL order.
func (s *LinkStats) ByURL() []*LinkStat {
	out := s.all()
	sort.Slice(out, func(i, j int) bool { return out[i].URL < out[j].URL })
	return out
}

func (s *LinkStats) all() []*LinkStat {
	out := make([]*LinkStat, 0, len(s.order))
	for _, url := range s.order {
		out = append(out, s.byURL[url])
	}
	return out
}
