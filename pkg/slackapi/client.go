// Package slackapi fetches channels, users, and conversation history
// from the Slack Web API and writes them as archive-compatible JSON.
package slackapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultBaseURL = "https://slack.com/api"

// maxRetryWait caps how long a single rate-limit backoff may last.
const maxRetryWait = 2 * time.Minute

// Client represents a Slack Web API client
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Slack API client. The token must carry the
// channels:read, users:read, and channels:history scopes.
func NewClient(token string) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("slack token cannot be empty")
	}
	return &Client{
		token:   token,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// apiResponse is the envelope shared by all Web API methods. Payload
// fields stay raw so fetched data round-trips to disk unmodified.
type apiResponse struct {
	OK       bool            `json:"ok"`
	Error    string          `json:"error"`
	Channel  json.RawMessage `json:"channel"`
	Channels json.RawMessage `json:"channels"`
	Members  json.RawMessage `json:"members"`
	Messages json.RawMessage `json:"messages"`
	Team     string          `json:"team"`
	User     string          `json:"user"`
	Metadata struct {
		NextCursor string `json:"next_cursor"`
	} `json:"response_metadata"`
}

// call performs one API request, retrying on rate limits until the
// context is cancelled.
func (c *Client) call(ctx context.Context, method string, params url.Values) (*apiResponse, error) {
	for {
		resp, retryAfter, limited, err := c.doOnce(ctx, method, params)
		if err != nil {
			return nil, err
		}
		if limited {
			log.Printf("rate limited on %s, waiting %s", method, retryAfter)
			select {
			case <-time.After(retryAfter):
				continue
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		if !resp.OK {
			return nil, fmt.Errorf("slack api error from %s: %s", method, resp.Error)
		}
		return resp, nil
	}
}

func (c *Client) doOnce(ctx context.Context, method string, params url.Values) (*apiResponse, time.Duration, bool, error) {
	endpoint := c.baseURL + "/" + method
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, 0, false, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, 0, false, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		wait := time.Second
		if s := resp.Header.Get("Retry-After"); s != "" {
			if secs, err := strconv.Atoi(s); err == nil {
				wait = time.Duration(secs) * time.Second
			}
		}
		if wait > maxRetryWait {
			wait = maxRetryWait
		}
		io.Copy(io.Discard, resp.Body) //nolint:errcheck
		return nil, wait, true, nil
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, 0, false, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
	}

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, 0, false, fmt.Errorf("failed to decode response: %w", err)
	}

	// The in-band rate limit marker uses the same backoff path.
	if !apiResp.OK && apiResp.Error == "ratelimited" {
		return nil, time.Second, true, nil
	}

	return &apiResp, 0, false, nil
}

// paginate follows next_cursor until exhausted, extracting one raw
// payload list per page via pick.
func (c *Client) paginate(ctx context.Context, method string, params url.Values, pick func(*apiResponse) json.RawMessage) ([]json.RawMessage, error) {
	var results []json.RawMessage
	cursor := ""

	for {
		page := url.Values{}
		for k, v := range params {
			page[k] = v
		}
		if cursor != "" {
			page.Set("cursor", cursor)
		}

		resp, err := c.call(ctx, method, page)
		if err != nil {
			return nil, err
		}

		var items []json.RawMessage
		if raw := pick(resp); len(raw) > 0 {
			if err := json.Unmarshal(raw, &items); err != nil {
				return nil, fmt.Errorf("failed to decode %s page: %w", method, err)
			}
		}
		results = append(results, items...)

		if resp.Metadata.NextCursor == "" {
			return results, nil
		}
		cursor = resp.Metadata.NextCursor
	}
}

// AuthTest verifies the token and returns the workspace and bot user.
func (c *Client) AuthTest(ctx context.Context) (team, user string, err error) {
	resp, err := c.call(ctx, "auth.test", nil)
	if err != nil {
		return "", "", err
	}
	return resp.Team, resp.User, nil
}

// FetchChannels returns all public and private channels, each enriched
// with its full conversations.info record when available.
func (c *Client) FetchChannels(ctx context.Context) ([]json.RawMessage, error) {
	pickChannels := func(r *apiResponse) json.RawMessage { return r.Channels }

	var all []json.RawMessage
	for _, types := range []string{"public_channel", "private_channel"} {
		params := url.Values{"types": {types}, "limit": {"200"}}
		channels, err := c.paginate(ctx, "conversations.list", params, pickChannels)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s conversations: %w", types, err)
		}
		all = append(all, channels...)
	}

	enriched := make([]json.RawMessage, 0, len(all))
	for _, raw := range all {
		var brief struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		}
		if err := json.Unmarshal(raw, &brief); err != nil || brief.ID == "" {
			enriched = append(enriched, raw)
			continue
		}

		resp, err := c.call(ctx, "conversations.info", url.Values{"channel": {brief.ID}})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Printf("could not fetch info for channel %s: %v", brief.Name, err)
			enriched = append(enriched, raw)
			continue
		}
		enriched = append(enriched, resp.Channel)
	}

	return enriched, nil
}

// FetchUsers returns all workspace users.
func (c *Client) FetchUsers(ctx context.Context) ([]json.RawMessage, error) {
	params := url.Values{"limit": {"200"}}
	users, err := c.paginate(ctx, "users.list", params, func(r *apiResponse) json.RawMessage {
		return r.Members
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// ChannelIDByName resolves a channel name to its ID, or "" if the
// channel is not visible to the token.
func (c *Client) ChannelIDByName(ctx context.Context, name string) (string, error) {
	for _, types := range []string{"public_channel", "private_channel"} {
		params := url.Values{"types": {types}, "limit": {"200"}}
		channels, err := c.paginate(ctx, "conversations.list", params, func(r *apiResponse) json.RawMessage {
			return r.Channels
		})
		if err != nil {
			return "", err
		}
		for _, raw := range channels {
			var brief struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			}
			if err := json.Unmarshal(raw, &brief); err != nil {
				continue
			}
			if brief.Name == name {
				return brief.ID, nil
			}
		}
	}
	return "", nil
}

// ChannelHistory holds the raw history of one channel, ready to be
// written into a history-layout archive.
type ChannelHistory struct {
	ChannelID   string            `json:"channel_id"`
	ChannelName string            `json:"channel_name"`
	Messages    []json.RawMessage `json:"messages"`
}

// FetchHistory fetches the messages of one channel between oldest and
// latest. Messages that head a thread also get their replies fetched
// and inlined under "thread_replies".
func (c *Client) FetchHistory(ctx context.Context, channelID, channelName string, oldest, latest time.Time) (*ChannelHistory, error) {
	params := url.Values{
		"channel": {channelID},
		"oldest":  {fmt.Sprintf("%d.000000", oldest.Unix())},
		"latest":  {fmt.Sprintf("%d.000000", latest.Unix())},
		"limit":   {"100"},
	}

	raws, err := c.paginate(ctx, "conversations.history", params, func(r *apiResponse) json.RawMessage {
		return r.Messages
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history for %s: %w", channelName, err)
	}

	history := &ChannelHistory{
		ChannelID:   channelID,
		ChannelName: channelName,
		Messages:    make([]json.RawMessage, 0, len(raws)),
	}

	for _, raw := range raws {
		var head struct {
			TS         string `json:"ts"`
			ReplyCount int    `json:"reply_count"`
		}
		if err := json.Unmarshal(raw, &head); err != nil || head.ReplyCount == 0 {
			history.Messages = append(history.Messages, raw)
			continue
		}

		replies, err := c.fetchReplies(ctx, channelID, head.TS)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Printf("could not fetch replies for message %s: %v", head.TS, err)
			history.Messages = append(history.Messages, raw)
			continue
		}

		// Re-wrap the message with its replies inlined.
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			history.Messages = append(history.Messages, raw)
			continue
		}
		inlined, err := json.Marshal(replies)
		if err != nil {
			return nil, fmt.Errorf("failed to encode replies: %w", err)
		}
		fields["thread_replies"] = inlined
		wrapped, err := json.Marshal(fields)
		if err != nil {
			return nil, fmt.Errorf("failed to encode message: %w", err)
		}
		history.Messages = append(history.Messages, wrapped)
	}

	return history, nil
}

func (c *Client) fetchReplies(ctx context.Context, channelID, ts string) ([]json.RawMessage, error) {
	params := url.Values{
		"channel": {channelID},
		"ts":      {ts},
		"limit":   {"100"},
	}
	return c.paginate(ctx, "conversations.replies", params, func(r *apiResponse) json.RawMessage {
		return r.Messages
	})
}
