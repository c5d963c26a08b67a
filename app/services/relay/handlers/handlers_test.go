package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ardanlabs/blockseal/app/services/relay/handlers"
	"github.com/ardanlabs/blockseal/foundation/network"
	"go.uber.org/zap"
)

type status struct {
	Status      string `json:"status"`
	Build       string `json:"build"`
	Connections int    `json:"connections"`
}

func getStatus(t *testing.T, url string) status {
	t.Helper()

	resp, err := http.Get(url + "/v1/status")
	if err != nil {
		t.Fatalf("Should be able to get the status: %s", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Should get a 200 for the status: %d", resp.StatusCode)
	}

	var s status
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		t.Fatalf("Should be able to decode the status: %s", err)
	}

	return s
}

func Test_APIMux(t *testing.T) {
	hub := network.NewHub(nil)
	defer hub.Shutdown()

	mux := handlers.APIMux(handlers.MuxConfig{
		Build: "test",
		Log:   zap.NewNop().Sugar(),
		Hub:   hub,
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := getStatus(t, srv.URL)
	if s.Status != "ok" || s.Build != "test" || s.Connections != 0 {
		t.Fatalf("Should get an empty hub status: %+v", s)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/relay"

	client, err := network.Dial(ctx, url)
	if err != nil {
		t.Fatalf("Should be able to dial the relay: %s", err)
	}
	defer client.Close()

	for getStatus(t, srv.URL).Connections != 1 {
		if ctx.Err() != nil {
			t.Fatal("Should see the connection in the status.")
		}
		time.Sleep(10 * time.Millisecond)
	}

	resp, err := http.Post(srv.URL+"/v1/relay", "application/json", nil)
	if err != nil {
		t.Fatalf("Should be able to post to the relay: %s", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("Should not allow a post to the relay: %d", resp.StatusCode)
	}
}
