package models

import (
	"testing"
	"time"
)

func TestParseTS(t *testing.T) {
	tests := []struct {
		name string
		ts   string
		want time.Time
	}{
		{
			name: "seconds with microseconds",
			ts:   "1599934232.150700",
			want: time.Unix(1599934232, 150700000).UTC(),
		},
		{
			name: "plain seconds",
			ts:   "1599934232",
			want: time.Unix(1599934232, 0).UTC(),
		},
		{
			name: "empty",
			ts:   "",
			want: time.Time{},
		},
		{
			name: "garbage",
			ts:   "not-a-timestamp",
			want: time.Time{},
		},
		{
			name: "garbage fraction",
			ts:   "1599934232.abc",
			want: time.Time{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTS(tt.ts)
			if !got.Equal(tt.want) {
				t.Errorf("ParseTS(%q) = %v, want %v", tt.ts, got, tt.want)
			}
		})
	}
}

func TestCompareTS(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"equal", "1599934232.150700", "1599934232.150700", 0},
		{"earlier second", "1599934231.999999", "1599934232.000001", -1},
		{"later fraction", "1599934232.150701", "1599934232.150700", 1},
		{"shorter second part orders first", "999999999.000000", "1000000000.000000", -1},
		{"no fraction before fraction", "1599934232", "1599934232.000001", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompareTS(tt.a, tt.b)
			if sign(got) != tt.want {
				t.Errorf("CompareTS(%q, %q) = %d, want sign %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

func TestMessageIsReply(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want bool
	}{
		{"no parent", Message{TS: "100.000000"}, false},
		{"parent set", Message{TS: "105.000000", ParentTS: "100.000000"}, true},
		{"thread root references itself", Message{TS: "100.000000", ParentTS: "100.000000"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.msg.IsReply(); got != tt.want {
				t.Errorf("IsReply() = %v, want %v", got, tt.want)
			}
		})
	}
}
