// Package api serves reconstructed archives over HTTP: channel
// listings, rendered threads, and a websocket feed of projection
// progress.
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sort"

	"github.com/testsabirweb/slack_archive/pkg/archive"
	"github.com/testsabirweb/slack_archive/pkg/render"
	"github.com/testsabirweb/slack_archive/pkg/thread"
)

// Server represents the API server
type Server struct {
	archive *archive.Archive
	forests map[string]*thread.Forest
	hub     *Hub
}

// NewServer creates a new API server over a loaded archive and its
// reconstructed forests. hub may be nil when no progress feed is
// wanted.
func NewServer(a *archive.Archive, forests map[string]*thread.Forest, hub *Hub) *Server {
	return &Server{
		archive: a,
		forests: forests,
		hub:     hub,
	}
}

// Router returns the HTTP handler for the server
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/v1/channels", s.handleChannels)
	mux.HandleFunc("/api/v1/threads", s.handleThreads)

	if s.hub != nil {
		mux.HandleFunc("/ws/progress", s.hub.ServeWS)
	}

	return s.withMiddleware(mux)
}

// withMiddleware wraps the handler with common middleware
func (s *Server) withMiddleware(h http.Handler) http.Handler {
	// Add CORS headers
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		h.ServeHTTP(w, r)
	})
}

// handleHealth returns the health status of the server
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"status":  "healthy",
		"service": "slack-archive",
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// channelSummary is one row of the channel listing.
type channelSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Topic    string `json:"topic,omitempty"`
	Messages int    `json:"messages"`
	Threads  int    `json:"threads"`
}

// handleChannels lists the archive's channels with message and thread
// counts, sorted by name.
func (s *Server) handleChannels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	summaries := make([]channelSummary, 0, len(s.forests))
	for id, forest := range s.forests {
		ch := s.archive.Channel(id)
		summary := channelSummary{
			ID:       id,
			Name:     s.archive.ChannelName(id),
			Messages: len(s.archive.Messages[id]),
			Threads:  len(forest.Threads),
		}
		if ch != nil {
			summary.Topic = ch.Topic
		}
		summaries = append(summaries, summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Name < summaries[j].Name
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summaries)
}

// handleThreads serves one channel's reconstructed threads in the
// requested render format. ?channel= takes a channel name or ID;
// ?format= takes html, md, txt, or links (default html); ?ts= narrows
// to the single thread rooted at that timestamp.
func (s *Server) handleThreads(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	channelParam := r.URL.Query().Get("channel")
	if channelParam == "" {
		writeError(w, http.StatusBadRequest, "channel parameter is required")
		return
	}

	formatParam := r.URL.Query().Get("format")
	if formatParam == "" {
		formatParam = string(render.FormatHTML)
	}
	format, err := render.ParseFormat(formatParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	forest, ok := s.forests[channelParam]
	if !ok {
		if ch := s.archive.ChannelByName(channelParam); ch != nil {
			forest, ok = s.forests[ch.ID]
		}
	}
	if !ok {
		writeError(w, http.StatusNotFound, "channel not found")
		return
	}

	var out string
	if ts := r.URL.Query().Get("ts"); ts != "" {
		th := findThread(forest, ts)
		if th == nil {
			writeError(w, http.StatusNotFound, "thread not found")
			return
		}
		out, err = render.Thread(format, th, s.archive)
	} else {
		out, err = render.Forest(format, forest, s.archive)
	}
	if err != nil {
		log.Printf("render error for channel %s: %v", forest.ChannelID, err)
		writeError(w, http.StatusInternalServerError, "render failed")
		return
	}

	w.Header().Set("Content-Type", contentType(format))
	w.Write([]byte(out))
}

func findThread(forest *thread.Forest, ts string) *thread.Thread {
	for i := range forest.Threads {
		if forest.Threads[i].Root.TS == ts {
			return &forest.Threads[i]
		}
	}
	for _, msg := range forest.Standalone {
		if msg.TS == ts {
			return &thread.Thread{Root: msg}
		}
	}
	return nil
}

func contentType(format render.Format) string {
	if format == render.FormatHTML {
		return "text/html; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
