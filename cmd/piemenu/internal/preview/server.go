// Package preview serves a rendered scene over HTTP and pushes a reload to
// every connected browser when the scene file changes.
package preview

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gorilla/websocket"

	"github.com/recera/piemenu/cmd/piemenu/internal/config"
	"github.com/recera/piemenu/internal/cache"
	"github.com/recera/piemenu/pkg/host"
	"github.com/recera/piemenu/pkg/renderer/html"
	"github.com/recera/piemenu/pkg/scheduler"
)

// Debounce is how long the watcher waits for a burst of writes to settle
const Debounce = 100 * time.Millisecond

// Server renders the scene at Path on every request
type Server struct {
	Path string

	upgrader websocket.Upgrader
	mu       sync.RWMutex
	clients  map[*websocket.Conn]bool
	frames   *cache.Cache
}

// New returns a server for the scene file at path
func New(path string) *Server {
	return &Server{
		Path:    path,
		clients: make(map[*websocket.Conn]bool),
		frames:  cache.New(cache.DefaultConfig()),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// local tool; any origin may connect
				return true
			},
		},
	}
}

// Handler returns the HTTP routes of the preview
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.serveIndex)
	mux.HandleFunc("/scene.png", s.servePNG)
	mux.HandleFunc("/menu.html", s.serveMarkup)
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

// Frame is one rendered scene
type Frame struct {
	PNG      []byte
	Markup   string
	Selected []string
}

// Render loads the scene, plays its gesture and captures the result
func Render(path string) (*Frame, error) {
	scene, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	f := &Frame{}
	clock := scheduler.NewManualClock()
	st := scene.Build(clock, func(name string, target host.Element) {
		id := "core"
		if target != nil {
			id = target.ID()
		}
		f.Selected = append(f.Selected, name+" on "+id)
	})
	defer st.Close()

	if err := st.Perform(scene.Gesture); err != nil {
		return nil, err
	}
	clock.Advance()

	var buf bytes.Buffer
	if err := st.Graph.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	f.PNG = buf.Bytes()

	f.Markup, err = html.RenderToString(st.Menu.Markup())
	if err != nil {
		return nil, fmt.Errorf("render markup: %w", err)
	}
	return f, nil
}

func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, indexPage, filepath.Base(s.Path))
}

// artifact returns the PNG or the markup of the current scene, rendering
// only when the file contents changed since the last request
func (s *Server) artifact(kind string) ([]byte, error) {
	key, err := cache.KeyFromFiles(s.Path)
	if err != nil {
		return nil, err
	}
	if data, ok := s.frames.Get(cache.Key(key, kind)); ok {
		return data, nil
	}

	f, err := Render(s.Path)
	if err != nil {
		return nil, err
	}
	if err := s.frames.Put(cache.Key(key, "png"), f.PNG); err != nil {
		log.Printf("Frame not cached: %v", err)
	}
	if err := s.frames.Put(cache.Key(key, "html"), []byte(f.Markup)); err != nil {
		log.Printf("Markup not cached: %v", err)
	}
	if kind == "png" {
		return f.PNG, nil
	}
	return []byte(f.Markup), nil
}

// CacheStats reports how often requests were served without rendering
func (s *Server) CacheStats() cache.Stats {
	return s.frames.GetStats()
}

func (s *Server) servePNG(w http.ResponseWriter, r *http.Request) {
	data, err := s.artifact("png")
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(data)
}

func (s *Server) serveMarkup(w http.ResponseWriter, r *http.Request) {
	data, err := s.artifact("html")
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}
	defer conn.Close()

	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
	}()

	for {
		var msg map[string]interface{}
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}
		if msg["type"] == "HELLO" {
			s.mu.Lock()
			err := conn.WriteJSON(map[string]interface{}{"type": "ACK"})
			s.mu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

// Clients returns the number of connected browsers
func (s *Server) Clients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Reload tells every browser to fetch the scene again
func (s *Server) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for conn := range s.clients {
		if err := conn.WriteJSON(map[string]interface{}{"type": "RELOAD"}); err != nil {
			log.Printf("Failed to send reload: %v", err)
		}
	}
}

// Watch calls onChange after each settled burst of writes to path until
// ctx is done
func Watch(ctx context.Context, path string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// editors often replace the file, so watch the directory
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	target := filepath.Clean(path)

	debounce := time.NewTimer(0)
	<-debounce.C
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			debounce.Reset(Debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Println("Watcher error:", err)

		case <-debounce.C:
			onChange()
		}
	}
}

const indexPage = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>piemenu: %s</title>
<style>body{margin:0;background:#0b0e14;color:#eaeef3;font-family:sans-serif}img{display:block}</style>
</head>
<body>
<img id="scene" src="/scene.png" alt="scene">
<script>
(function(){
  var ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
  ws.onopen = function(){ ws.send(JSON.stringify({type: "HELLO"})); };
  ws.onmessage = function(ev){
    var msg = JSON.parse(ev.data);
    if (msg.type === "RELOAD") {
      document.getElementById("scene").src = "/scene.png?t=" + Date.now();
    }
  };
})();
</script>
</body>
</html>
`
