package preview

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

const scene = "../../testdata/scene.yaml"

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, body
}

func TestRender(t *testing.T) {
	f, err := Render(scene)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(f.PNG, []byte("\x89PNG")) {
		t.Error("frame is not a PNG")
	}
	if !strings.Contains(f.Markup, `class="piemenu"`) || !strings.Contains(f.Markup, "<b>Hide</b>") {
		t.Errorf("markup = %s", f.Markup)
	}
	if len(f.Selected) != 0 {
		t.Errorf("nothing should be selected without release: %v", f.Selected)
	}
}

func TestHandler(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("commands: [{label: a, html: b}]"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name        string
		path        string
		url         string
		status      int
		contentType string
		contains    string
	}{
		{"index", scene, "/", http.StatusOK, "text/html; charset=utf-8", "scene.yaml"},
		{"png", scene, "/scene.png", http.StatusOK, "image/png", "PNG"},
		{"markup", scene, "/menu.html", http.StatusOK, "text/html; charset=utf-8", "piemenu-parent"},
		{"unknown", scene, "/nope", http.StatusNotFound, "", ""},
		{"invalid scene", bad, "/scene.png", http.StatusUnprocessableEntity, "", "exclusive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(New(tt.path).Handler())
			defer srv.Close()

			resp, body := get(t, srv.URL+tt.url)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if tt.contentType != "" && resp.Header.Get("Content-Type") != tt.contentType {
				t.Errorf("content type = %q", resp.Header.Get("Content-Type"))
			}
			if !strings.Contains(string(body), tt.contains) {
				t.Errorf("body does not contain %q", tt.contains)
			}
		})
	}
}

func TestHandler_CachesFrames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	data, err := os.ReadFile(scene)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	s := New(path)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	_, first := get(t, srv.URL+"/scene.png")
	get(t, srv.URL+"/menu.html")
	_, again := get(t, srv.URL+"/scene.png")
	if !bytes.Equal(first, again) {
		t.Error("cached frame differs")
	}
	if st := s.CacheStats(); st.Misses != 1 || st.Hits != 2 {
		t.Errorf("stats = %+v, want 1 miss and 2 hits", st)
	}

	// a changed scene renders again
	if err := os.WriteFile(path, append(data, []byte("\n# edited\n")...), 0644); err != nil {
		t.Fatal(err)
	}
	get(t, srv.URL+"/scene.png")
	if st := s.CacheStats(); st.Misses != 2 {
		t.Errorf("misses after edit = %d, want 2", st.Misses)
	}
}

func TestReload(t *testing.T) {
	s := New(scene)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	if err := conn.WriteJSON(map[string]string{"type": "HELLO"}); err != nil {
		t.Fatalf("hello: %v", err)
	}
	var msg map[string]string
	if err := conn.ReadJSON(&msg); err != nil || msg["type"] != "ACK" {
		t.Fatalf("ack = %v, %v", msg, err)
	}
	if s.Clients() != 1 {
		t.Errorf("clients = %d, want 1", s.Clients())
	}

	s.Reload()
	if err := conn.ReadJSON(&msg); err != nil || msg["type"] != "RELOAD" {
		t.Fatalf("reload = %v, %v", msg, err)
	}
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	if err := os.WriteFile(path, []byte("width: 100"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func() { changed <- struct{}{} })
	}()

	// give the watcher time to register
	time.Sleep(200 * time.Millisecond)

	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("width: 200"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Watch did not stop")
	}
}
