package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestHubBroadcastsEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	// Registration races the publish; retry until the subscriber is in.
	deadline := time.Now().Add(2 * time.Second)
	conn.SetReadDeadline(deadline)

	runID := NewRunID()
	go func() {
		for time.Now().Before(deadline) {
			hub.Publish(Event{Type: EventChannelDone, RunID: runID, Channel: "C1", Done: 1, Total: 3})
			time.Sleep(10 * time.Millisecond)
		}
	}()

	var event Event
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatal(err)
	}

	if event.Type != EventChannelDone || event.RunID != runID {
		t.Errorf("event = %+v", event)
	}
	if event.Channel != "C1" || event.Done != 1 || event.Total != 3 {
		t.Errorf("event payload = %+v", event)
	}
	if event.Timestamp.IsZero() {
		t.Error("publish should stamp the event")
	}
}

func TestNewRunID(t *testing.T) {
	if NewRunID() == NewRunID() {
		t.Error("run IDs must be unique")
	}
}
