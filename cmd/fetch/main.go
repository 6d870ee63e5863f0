package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/testsabirweb/slack_archive/internal/config"
	"github.com/testsabirweb/slack_archive/pkg/slackapi"
)

const dateFormat = "2006-01-02"

func main() {
	// Define command-line flags
	var (
		output   = flag.String("output", "", "Output file path (default depends on command)")
		channels = flag.String("channels", "", "Comma-separated channel names (conversations command)")
		fromDate = flag.String("from-date", time.Now().AddDate(0, 0, -7).Format(dateFormat), "Start date, YYYY-MM-DD")
		toDate   = flag.String("to-date", time.Now().Format(dateFormat), "End date, YYYY-MM-DD (inclusive)")
		help     = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	command := flag.Arg(0)
	if *help || command == "" {
		printUsage()
		os.Exit(0)
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Slack.Token == "" {
		log.Fatalf("SLACK_TOKEN is required")
	}

	client, err := slackapi.NewClient(cfg.Slack.Token)
	if err != nil {
		log.Fatalf("Failed to create Slack client: %v", err)
	}

	ctx := context.Background()

	team, user, err := client.AuthTest(ctx)
	if err != nil {
		log.Fatalf("Failed to connect to Slack API: %v", err)
	}
	log.Printf("Connected to workspace %s as %s", team, user)

	switch command {
	case "channels":
		if err := fetchChannels(ctx, client, orDefault(*output, "channels.json")); err != nil {
			log.Fatalf("Failed to fetch channels: %v", err)
		}

	case "users":
		if err := fetchUsers(ctx, client, orDefault(*output, "users.json")); err != nil {
			log.Fatalf("Failed to fetch users: %v", err)
		}

	case "conversations":
		if *channels == "" {
			log.Fatalf("conversations requires -channels")
		}
		names := splitList(*channels)
		if err := fetchConversations(ctx, client, names, *fromDate, *toDate, orDefault(*output, "conversations.json")); err != nil {
			log.Fatalf("Failed to fetch conversations: %v", err)
		}

	default:
		log.Fatalf("Unknown command: %s", command)
	}
}

func fetchChannels(ctx context.Context, client *slackapi.Client, output string) error {
	log.Println("Fetching channels...")
	channels, err := client.FetchChannels(ctx)
	if err != nil {
		return err
	}
	if err := writeJSON(output, channels); err != nil {
		return err
	}
	log.Printf("Fetched %d channels and saved to %s", len(channels), output)
	return nil
}

func fetchUsers(ctx context.Context, client *slackapi.Client, output string) error {
	log.Println("Fetching users...")
	users, err := client.FetchUsers(ctx)
	if err != nil {
		return err
	}
	if err := writeJSON(output, users); err != nil {
		return err
	}
	log.Printf("Fetched %d users and saved to %s", len(users), output)
	return nil
}

func fetchConversations(ctx context.Context, client *slackapi.Client, names []string, fromDate, toDate, output string) error {
	oldest, err := time.ParseInLocation(dateFormat, fromDate, time.UTC)
	if err != nil {
		return fmt.Errorf("invalid -from-date: %w", err)
	}
	latest, err := time.ParseInLocation(dateFormat, toDate, time.UTC)
	if err != nil {
		return fmt.Errorf("invalid -to-date: %w", err)
	}
	// Include the whole end day.
	latest = latest.AddDate(0, 0, 1)

	log.Printf("Fetching conversations from %d channels...", len(names))

	var histories []*slackapi.ChannelHistory
	var failed []string

	for _, name := range names {
		id, err := client.ChannelIDByName(ctx, name)
		if err != nil {
			return err
		}
		if id == "" {
			log.Printf("Channel %q not found or not accessible", name)
			failed = append(failed, name)
			continue
		}

		history, err := client.FetchHistory(ctx, id, name, oldest, latest)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			log.Printf("Failed to fetch #%s: %v", name, err)
			failed = append(failed, name)
			continue
		}
		log.Printf("Fetched %d messages from #%s", len(history.Messages), name)
		histories = append(histories, history)
	}

	if err := writeJSON(output, histories); err != nil {
		return err
	}
	log.Printf("Fetched conversations from %d channels and saved to %s", len(histories), output)
	if len(failed) > 0 {
		log.Printf("Failed to fetch from %d channels: %s", len(failed), strings.Join(failed, ", "))
	}
	return nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func printUsage() {
	fmt.Println("Slack Archive Fetch Tool")
	fmt.Println("\nUsage:")
	fmt.Println("  fetch [options] <command>")
	fmt.Println("\nCommands:")
	fmt.Println("  channels         Fetch all channels")
	fmt.Println("  users            Fetch all users")
	fmt.Println("  conversations    Fetch message history for -channels")
	fmt.Println("\nOptions:")
	flag.PrintDefaults()
	fmt.Println("\nExamples:")
	fmt.Println("  fetch -output my_channels.json channels")
	fmt.Println("  fetch -channels general,random -from-date 2024-01-01 -to-date 2024-01-07 conversations")
}
