package models

import "time"

// Channel represents a channel from the Slack export metadata.
// Channels are immutable once loaded.
type Channel struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Topic   string    `json:"topic,omitempty"`
	Purpose string    `json:"purpose,omitempty"`
	Created time.Time `json:"created"`
	Members []string  `json:"members,omitempty"`
	// PreviousNames holds earlier names of a renamed channel; day files
	// recorded before the rename still resolve to this channel.
	PreviousNames []string `json:"previous_names,omitempty"`
}

// User represents a workspace member from the export metadata.
// Users are immutable once loaded and referenced by ID everywhere else.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	RealName string `json:"real_name,omitempty"`
	Deleted  bool   `json:"deleted,omitempty"`
	IsBot    bool   `json:"is_bot,omitempty"`
}

// Reaction is one emoji reaction on a message with the users who added it.
type Reaction struct {
	Name  string   `json:"name"`
	Users []string `json:"users,omitempty"`
	Count int      `json:"count"`
}

// Message is a single message loaded from a day file. TS is Slack's
// timestamp string ("1599934232.150700"), monotonically increasing and
// unique within a channel; it is the ordering key. A non-empty ParentTS
// marks the message as a thread reply.
type Message struct {
	ChannelID string     `json:"channel_id"`
	TS        string     `json:"ts"`
	ParentTS  string     `json:"parent_ts,omitempty"`
	UserID    string     `json:"user_id"`
	Username  string     `json:"username,omitempty"`
	Subtype   string     `json:"subtype,omitempty"`
	Text      string     `json:"text"`
	Reactions []Reaction `json:"reactions,omitempty"`
	// Links holds every link URL extracted from the body at load time,
	// in order of appearance, duplicates preserved.
	Links []string `json:"links,omitempty"`
}

// IsReply reports whether the message belongs to a thread started by
// another message. Slack sets thread_ts on thread roots too, so a message
// whose parent timestamp equals its own timestamp is not a reply.
func (m *Message) IsReply() bool {
	return m.ParentTS != "" && m.ParentTS != m.TS
}

// Time converts the message timestamp to a time.Time. The zero time is
// returned for a malformed timestamp.
func (m *Message) Time() time.Time {
	return ParseTS(m.TS)
}
