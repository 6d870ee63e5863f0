package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/testsabirweb/slack_archive/pkg/markup"
	"github.com/testsabirweb/slack_archive/pkg/models"
)

// LoadError reports a structurally invalid source file. The unit of
// atomicity is one file: no partial-file recovery is attempted, and the
// offending channel's data is flagged incomplete, but other files still
// load.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Diagnostic records a recovered irregularity found during loading or
// reconstruction: unknown record types, unresolvable user IDs, demoted
// replies. Diagnostics never abort a load.
type Diagnostic struct {
	Kind    string
	Channel string
	TS      string
	Detail  string
}

// rawChannel mirrors one entry of channels.json. Optional sub-objects
// default to their zero value when absent.
type rawChannel struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Created int64  `json:"created"`
	Topic   struct {
		Value string `json:"value"`
	} `json:"topic"`
	Purpose struct {
		Value string `json:"value"`
	} `json:"purpose"`
	Members       []string `json:"members"`
	PreviousNames []string `json:"previous_names"`
}

// rawUser mirrors one entry of users.json.
type rawUser struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	RealName string `json:"real_name"`
	Deleted  bool   `json:"deleted"`
	IsBot    bool   `json:"is_bot"`
	Profile  struct {
		DisplayName string `json:"display_name"`
		RealName    string `json:"real_name"`
	} `json:"profile"`
}

// rawRecord mirrors one entry of a day file. Everything beyond type and
// ts is optional and defaults to empty.
type rawRecord struct {
	Type            string        `json:"type"`
	Subtype         string        `json:"subtype"`
	User            string        `json:"user"`
	BotID           string        `json:"bot_id"`
	Username        string        `json:"username"`
	TS              string        `json:"ts"`
	ThreadTS        string        `json:"thread_ts"`
	Text            string        `json:"text"`
	Mimetype        string        `json:"mimetype"`
	IsHiddenByLimit bool          `json:"is_hidden_by_limit"`
	Reactions       []rawReaction `json:"reactions"`
}

type rawReaction struct {
	Name  string   `json:"name"`
	Users []string `json:"users"`
	Count int      `json:"count"`
}

// readJSONFile decodes a whole JSON file into out, releasing the file
// handle on every exit path.
func readJSONFile(path string, out any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	if err := dec.Decode(out); err != nil {
		return err
	}
	return nil
}

// readChannels parses channels.json into channel records with name and
// previous-name lookup preserved.
func readChannels(path string) ([]models.Channel, error) {
	var raw []rawChannel
	if err := readJSONFile(path, &raw); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	channels := make([]models.Channel, 0, len(raw))
	for _, rc := range raw {
		channels = append(channels, models.Channel{
			ID:            rc.ID,
			Name:          rc.Name,
			Topic:         rc.Topic.Value,
			Purpose:       rc.Purpose.Value,
			Created:       time.Unix(rc.Created, 0).UTC(),
			Members:       rc.Members,
			PreviousNames: rc.PreviousNames,
		})
	}
	return channels, nil
}

// readUsers parses users.json. The display name wins over the real name,
// which wins over the login name, matching what the Slack UI shows.
func readUsers(path string) ([]models.User, error) {
	var raw []rawUser
	if err := readJSONFile(path, &raw); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	users := make([]models.User, 0, len(raw)+1)
	for _, ru := range raw {
		name := ru.Profile.DisplayName
		if name == "" {
			name = ru.RealName
		}
		if name == "" {
			name = ru.Name
		}
		if name == "" {
			name = ru.ID
		}
		users = append(users, models.User{
			ID:       ru.ID,
			Name:     name,
			RealName: ru.RealName,
			Deleted:  ru.Deleted,
			IsBot:    ru.IsBot,
		})
	}

	// Exports reference slackbot without listing it in users.json.
	users = append(users, models.User{ID: "USLACKBOT", Name: "slackbot", IsBot: true})
	return users, nil
}

// readDayFile parses one day file into messages for the given channel.
// Optional fields default to empty containers; a record that cannot be
// attributed or typed is skipped with a diagnostic. A record without a
// timestamp makes the whole file structurally invalid.
func readDayFile(path, channelID string, users map[string]*models.User) ([]models.Message, []Diagnostic, error) {
	var raw []rawRecord
	if err := readJSONFile(path, &raw); err != nil {
		return nil, nil, &LoadError{Path: path, Err: err}
	}

	var (
		msgs  []models.Message
		diags []Diagnostic
	)
	for _, rec := range raw {
		if rec.Type != "message" {
			// Canvas attachments ride along in day files; they are not
			// messages and not worth a diagnostic.
			if rec.Mimetype != "application/vnd.slack-docs" {
				diags = append(diags, Diagnostic{
					Kind:    "unknown-record-type",
					Channel: channelID,
					TS:      rec.TS,
					Detail:  rec.Type,
				})
			}
			continue
		}
		if rec.IsHiddenByLimit {
			continue
		}
		if rec.TS == "" {
			return nil, nil, &LoadError{Path: path, Err: fmt.Errorf("message record without ts")}
		}

		msg := models.Message{
			ChannelID: channelID,
			TS:        rec.TS,
			ParentTS:  rec.ThreadTS,
			UserID:    rec.User,
			Username:  rec.Username,
			Subtype:   rec.Subtype,
			Text:      rec.Text,
			Links:     markup.Links(rec.Text),
		}

		if msg.UserID == "" {
			switch rec.Subtype {
			case "bot_message":
				msg.UserID = rec.BotID
			case "file_comment":
				// anonymous; nothing to attribute
			default:
				diags = append(diags, Diagnostic{
					Kind:    "user-id-missing",
					Channel: channelID,
					TS:      rec.TS,
				})
			}
		} else if _, ok := users[msg.UserID]; !ok {
			diags = append(diags, Diagnostic{
				Kind:    "user-id-not-found",
				Channel: channelID,
				TS:      rec.TS,
				Detail:  msg.UserID,
			})
		}

		for _, rr := range rec.Reactions {
			count := rr.Count
			if count == 0 {
				count = len(rr.Users)
			}
			msg.Reactions = append(msg.Reactions, models.Reaction{
				Name:  rr.Name,
				Users: rr.Users,
				Count: count,
			})
		}

		msgs = append(msgs, msg)
	}

	return msgs, diags, nil
}
