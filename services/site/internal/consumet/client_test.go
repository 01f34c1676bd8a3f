package consumet

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"

	"github.com/example/anistream/services/site/internal/cache"
)

func TestInfo_RawResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/info/21" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"id":"21","episodes":[{"id":"op-1","number":1}]}`))
	}))
	defer srv.Close()

	resp, err := New(srv.URL, ClientConfig{}).Info(context.Background(), "21")
	if err != nil {
		t.Fatal(err)
	}
	if !resp.OK() || !resp.IsJSON() {
		t.Fatalf("unexpected response %+v", resp)
	}
	info, err := resp.DecodeInfo()
	if err != nil {
		t.Fatal(err)
	}
	if info.Episodes == nil || len(*info.Episodes) != 1 || (*info.Episodes)[0].ID != "op-1" {
		t.Fatalf("unexpected info %+v", info)
	}
}

func TestInfo_MissingEpisodesField(t *testing.T) {
	r := &Response{Status: 200, ContentType: "application/json", Body: []byte(`{"id":"1"}`)}
	info, err := r.DecodeInfo()
	if err != nil {
		t.Fatal(err)
	}
	if info.Episodes != nil {
		t.Fatal("expected nil episodes for a missing field")
	}
}

func TestWatch_HTMLPassedThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`<!DOCTYPE html><title>Maintenance</title>`))
	}))
	defer srv.Close()

	resp, err := New(srv.URL, ClientConfig{}).Watch(context.Background(), "ep-1")
	if err != nil {
		t.Fatal(err)
	}
	if resp.IsJSON() || resp.Status != http.StatusServiceUnavailable {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestBreaker_OpensAfterFailures(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "consumet-test",
		Timeout: time.Minute,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 2
		},
	})
	c := New(srv.URL, ClientConfig{}, WithCircuitBreaker(cb))

	for i := 0; i < 2; i++ {
		resp, err := c.Info(context.Background(), "1")
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if resp.Status != http.StatusBadGateway {
			t.Fatalf("call %d: unexpected status %d", i, resp.Status)
		}
	}
	_, err := c.Info(context.Background(), "1")
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected open breaker, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected 2 upstream calls, got %d", got)
	}
}

func TestCache_OnlyJSONSuccess(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Path == "/watch/bad" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sources":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, ClientConfig{}, WithCache(cache.NewMemory(time.Minute)))
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := c.Watch(ctx, "good"); err != nil {
			t.Fatal(err)
		}
		if _, err := c.Watch(ctx, "bad"); err != nil {
			t.Fatal(err)
		}
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("expected 3 upstream calls, got %d", got)
	}
}

func TestEpisodeDisplayTitle(t *testing.T) {
	if got := (Episode{Number: 4}).DisplayTitle(); got != "Episode 4" {
		t.Fatalf("unexpected %q", got)
	}
	if got := (Episode{Number: 4, Title: "The Return"}).DisplayTitle(); got != "The Return" {
		t.Fatalf("unexpected %q", got)
	}
}
