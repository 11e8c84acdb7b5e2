package preview

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/conneroisu/tagtree/internal/config"
	"github.com/conneroisu/tagtree/internal/tag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, origins ...string) (*Server, *httptest.Server) {
	t.Helper()

	s := New(config.PreviewConfig{Host: "127.0.0.1", AllowedOrigins: origins}, nil)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		_ = s.Shutdown(context.Background())
	})

	return s, ts
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestServerPages(t *testing.T) {
	s, ts := newTestServer(t)
	tree := tag.Element("main", tag.Element("h1", tag.Text("Hello")))
	require.NoError(t, s.Update(context.Background(), tree))

	t.Run("index wraps the rendering", func(t *testing.T) {
		resp, body := get(t, ts.URL+"/")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
		assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
		assert.Contains(t, body, "<!DOCTYPE html>")
		assert.Contains(t, body, tree.String())
		assert.Contains(t, body, `new WebSocket(`)
	})

	t.Run("raw is the bare rendering", func(t *testing.T) {
		resp, body := get(t, ts.URL+"/raw")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")
		assert.Equal(t, tree.String(), body)
	})

	t.Run("unknown paths are not found", func(t *testing.T) {
		resp, _ := get(t, ts.URL+"/missing")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestServerReportError(t *testing.T) {
	s, ts := newTestServer(t)
	require.NoError(t, s.Update(context.Background(), tag.Element("p", tag.Text("good"))))
	require.NoError(t, s.ReportError(context.Background(), errors.New("bad <input>")))

	_, body := get(t, ts.URL+"/")
	assert.Contains(t, body, "good", "last good rendering is kept")
	assert.Contains(t, body, "bad &lt;input&gt;")

	require.NoError(t, s.Update(context.Background(), tag.Element("p", tag.Text("fixed"))))
	_, body = get(t, ts.URL+"/")
	assert.NotContains(t, body, "bad &lt;input&gt;")
}

func TestServerUpdateNil(t *testing.T) {
	s, _ := newTestServer(t)
	assert.Error(t, s.Update(context.Background(), nil))
}

func TestWebSocketReload(t *testing.T) {
	s, ts := newTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	require.Eventually(t, func() bool { return s.hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	tree := tag.Element("p", tag.Text("v2"))
	require.NoError(t, s.Update(ctx, tree))

	_, data, err := conn.Read(ctx)
	require.NoError(t, err)

	var msg UpdateMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, MessageReload, msg.Type)
	assert.Equal(t, tree.String(), msg.Content)
	assert.False(t, msg.Timestamp.IsZero())
}

func TestWebSocketOrigin(t *testing.T) {
	_, ts := newTestServer(t, "https://docs.example.com")

	tests := []struct {
		origin string
		status int
	}{
		{"http://evil.example", http.StatusForbidden},
		{"file://localhost", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, ts.URL+"/ws", nil)
			require.NoError(t, err)
			req.Header.Set("Origin", tt.origin)

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}

	t.Run("configured origin may connect", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		header := http.Header{}
		header.Set("Origin", "https://docs.example.com")
		conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws",
			&websocket.DialOptions{HTTPHeader: header})
		require.NoError(t, err)
		conn.Close(websocket.StatusNormalClosure, "")
	})
}

func TestIsAllowedOrigin(t *testing.T) {
	h := NewHub([]string{"https://docs.example.com"}, nil)
	defer h.Close()

	tests := []struct {
		origin  string
		allowed bool
	}{
		{"", true},
		{"http://localhost:7331", true},
		{"http://127.0.0.1:3000", true},
		{"http://[::1]:8080", true},
		{"https://docs.example.com", true},
		{"https://docs.example.com:8443", false},
		{"http://example.com", false},
		{"ftp://localhost", false},
		{"://bad", false},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			assert.Equal(t, tt.allowed, h.IsAllowedOrigin(tt.origin))
		})
	}
}

func TestHubClosedRejectsBroadcast(t *testing.T) {
	h := NewHub(nil, nil)
	h.Close()
	h.Close()

	assert.Error(t, h.Broadcast(UpdateMessage{Type: MessageReload}))
}

func TestServerStartShutdown(t *testing.T) {
	s := New(config.PreviewConfig{Host: "127.0.0.1", Port: 0}, nil)
	require.NoError(t, s.Update(context.Background(), tag.Element("p")))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Start(ctx) }()

	require.Eventually(t, func() bool { return s.Addr() != "" }, 2*time.Second, 10*time.Millisecond)

	_, body := get(t, s.URL()+"raw")
	assert.Equal(t, "<p ></p>", body)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
