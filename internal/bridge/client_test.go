package bridge

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func streamHandler(t *testing.T, hits *atomic.Int32, events ...string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "text/event-stream")
		fl, ok := w.(http.Flusher)
		require.True(t, ok)

		fmt.Fprint(w, ": heartbeat\n\n")
		for _, ev := range events {
			fmt.Fprintf(w, "data: %s\n\n", ev)
		}
		fl.Flush()

		// Hold the stream open until the client tears it down.
		<-r.Context().Done()
	}
}

func TestClient_DispatchesCommandsInOrder(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(streamHandler(t, &hits,
		`{"type":"setUrl","payload":{"url":"https://panel.example"}}`,
		`this is not json`,
		`{"type":"doSomethingUnknown"}`,
		`{"type":"setUrl","payload":{}}`,
		`{"type":"togglePanel"}`,
	))
	defer srv.Close()

	got := make(chan Command, 8)
	client := NewClient(zerolog.Nop(), func(cmd Command) { got <- cmd })
	defer client.Close()

	client.SetEndpoint(srv.URL)

	// Malformed, unknown and incomplete events are dropped without
	// closing the stream, so togglePanel still arrives after them.
	first := waitCommand(t, got)
	assert.Equal(t, SetURL{URL: "https://panel.example"}, first)
	second := waitCommand(t, got)
	assert.Equal(t, TogglePanel{}, second)

	assert.Equal(t, StatusConnected, client.State().Status)
	assert.Empty(t, client.State().LastError)
	assert.Equal(t, int32(1), hits.Load(), "drops must not trigger reconnects")

	client.Close()
	assert.Equal(t, StatusDisconnected, client.State().Status)
}

func TestClient_ReconnectsOnFixedDelay(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(zerolog.Nop(), func(Command) {})
	defer client.Close()

	var mu sync.Mutex
	var delays []time.Duration
	client.sleep = func(ctx context.Context, d time.Duration) error {
		mu.Lock()
		delays = append(delays, d)
		mu.Unlock()
		return ctx.Err()
	}

	client.SetEndpoint(srv.URL)

	require.Eventually(t, func() bool { return hits.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool {
		return client.State().LastError == connectFailedMessage
	}, 2*time.Second, 5*time.Millisecond)

	client.Close()

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, delays)
	for _, d := range delays {
		// Every retry waits the full fixed delay; there is no backoff
		// growth and no shortcut for the first attempt.
		assert.Equal(t, reconnectDelay, d)
	}
}

func TestClient_BlankEndpointStaysIdle(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(streamHandler(t, &hits))
	defer srv.Close()

	client := NewClient(zerolog.Nop(), func(Command) {})
	defer client.Close()

	client.SetEndpoint("")
	client.SetEndpoint("   ")

	state := client.State()
	assert.Equal(t, StatusDisconnected, state.Status)
	assert.Empty(t, state.LastError, "idle is not a failure")
	assert.Equal(t, int32(0), hits.Load())
}

func TestClient_EndpointChangeTearsDownOldStream(t *testing.T) {
	var hitsA, hitsB atomic.Int32
	oldGone := make(chan struct{})

	srvA := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hitsA.Add(1)
		w.Header().Set("Content-Type", "text/event-stream")
		w.(http.Flusher).Flush()
		<-r.Context().Done()
		close(oldGone)
	}))
	defer srvA.Close()
	srvB := httptest.NewServer(streamHandler(t, &hitsB))
	defer srvB.Close()

	client := NewClient(zerolog.Nop(), func(Command) {})
	defer client.Close()

	client.SetEndpoint(srvA.URL)
	require.Eventually(t, func() bool { return hitsA.Load() == 1 }, 2*time.Second, 5*time.Millisecond)

	client.SetEndpoint(srvB.URL)

	select {
	case <-oldGone:
	case <-time.After(2 * time.Second):
		t.Fatal("old stream was not torn down")
	}

	require.Eventually(t, func() bool { return hitsB.Load() == 1 }, 2*time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool {
		return client.State().Status == StatusConnected
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), hitsA.Load(), "no further attempts against the old endpoint")
}

func TestClient_StateTransitionsSurfaceToListener(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(streamHandler(t, &hits))
	defer srv.Close()

	client := NewClient(zerolog.Nop(), func(Command) {})
	defer client.Close()

	var mu sync.Mutex
	var seen []Status
	client.OnStateChange(func(s ConnectionState) {
		mu.Lock()
		seen = append(seen, s.Status)
		mu.Unlock()
	})

	client.SetEndpoint(srv.URL)
	require.Eventually(t, func() bool {
		return client.State().Status == StatusConnected
	}, 2*time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, seen)
	assert.Equal(t, StatusConnecting, seen[0])
	assert.Equal(t, StatusConnected, seen[len(seen)-1])
}

func waitCommand(t *testing.T, ch <-chan Command) Command {
	t.Helper()
	select {
	case cmd := <-ch:
		return cmd
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for command")
		return nil
	}
}
