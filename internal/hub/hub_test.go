package hub

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	h := New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	return h, cancel
}

func readFrame(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	var b strings.Builder
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		if line == "\n" {
			return b.String()
		}
		b.WriteString(line)
	}
}

func TestBroadcastReachesClient(t *testing.T) {
	h, cancel := startHub(t)
	defer func() {
		cancel()
		<-h.done
	}()

	srv := httptest.NewServer(h)
	defer srv.Close()

	reqCtx, stop := context.WithCancel(context.Background())
	defer stop()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	body := bufio.NewReader(resp.Body)
	assert.Equal(t, ": connected\n", readFrame(t, body))

	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	h.Broadcast(Message{Name: "primary_action", Domain: "finance", Data: map[string]string{"tool_id": "risk-management"}})
	assert.Equal(t, "id: 1\nevent: primary_action\ndata: {\"tool_id\":\"risk-management\"}\n", readFrame(t, body))

	stop()
	require.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestRunClosesClientsOnShutdown(t *testing.T) {
	h, cancel := startHub(t)

	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body := bufio.NewReader(resp.Body)
	readFrame(t, body)
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	<-h.done

	// The stream ends once the hub stops
	_, err = body.ReadString('\n')
	assert.Error(t, err)
	assert.Zero(t, h.ClientCount())
}

func TestServeAfterShutdown(t *testing.T) {
	h, cancel := startHub(t)
	cancel()
	<-h.done

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestBroadcastDropsWhenFull(t *testing.T) {
	h := New(nil)
	for i := 0; i < cap(h.broadcast)+10; i++ {
		h.Broadcast(Message{Data: i})
	}
	assert.Len(t, h.broadcast, cap(h.broadcast))
}

func openStream(t *testing.T, ctx context.Context, client *http.Client, url string) *bufio.Reader {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	body := bufio.NewReader(resp.Body)
	require.Equal(t, ": connected\n", readFrame(t, body))
	return body
}

func TestDomainScopedStreams(t *testing.T) {
	h, cancel := startHub(t)
	defer func() {
		cancel()
		<-h.done
	}()

	srv := httptest.NewServer(h)
	defer srv.Close()

	reqCtx, stop := context.WithCancel(context.Background())
	defer stop()
	legal := openStream(t, reqCtx, srv.Client(), srv.URL+"?domain=legal")
	all := openStream(t, reqCtx, srv.Client(), srv.URL)
	require.Eventually(t, func() bool { return h.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	h.Broadcast(Message{Name: "primary_action", Domain: "finance", Data: 1})
	h.Broadcast(Message{Name: "catalog_reloaded", Data: 2})
	h.Broadcast(Message{Name: "primary_action", Domain: "legal", Data: 3})

	assert.Equal(t, "id: 1\nevent: primary_action\ndata: 1\n", readFrame(t, all))
	assert.Equal(t, "id: 2\nevent: catalog_reloaded\ndata: 2\n", readFrame(t, all))
	assert.Equal(t, "id: 3\nevent: primary_action\ndata: 3\n", readFrame(t, all))

	// The legal stream skips the finance event but keeps the ids
	assert.Equal(t, "id: 2\nevent: catalog_reloaded\ndata: 2\n", readFrame(t, legal))
	assert.Equal(t, "id: 3\nevent: primary_action\ndata: 3\n", readFrame(t, legal))

	stop()
	require.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestEncode(t *testing.T) {
	f, err := encode(7, Message{Data: []string{"a"}})
	require.NoError(t, err)
	assert.Equal(t, "id: 7\ndata: [\"a\"]\n\n", string(f.data))

	_, err = encode(8, Message{Name: "bad", Data: make(chan int)})
	assert.Error(t, err)
}
