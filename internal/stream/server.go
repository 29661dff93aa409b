// Package stream runs a scene live and broadcasts every frame as JSON to
// websocket clients. Clients may pause the clock and drag physics bodies.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ivlev/vortex/internal/physics"
	"github.com/ivlev/vortex/internal/scene"
)

const (
	// GrabRadius is how close a grab must land to a body, in scene pixels
	GrabRadius = 24.0

	sendBuffer   = 8
	writeTimeout = 5 * time.Second
)

// Message is the envelope for everything sent to clients
type Message struct {
	Type   string `json:"type"`
	Paused bool   `json:"paused,omitempty"`
	Data   any    `json:"data"`
}

// Hello is the first message a client receives
type Hello struct {
	ID     string `json:"id"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	FPS    int    `json:"fps"`
}

// Command is a client request. Types: pause, play, grab, drag, release.
type Command struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type msg struct {
	id  string
	cmd Command
}

// Client is one websocket connection
type Client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Server owns the scene; only the Loop goroutine touches it
type Server struct {
	scene *scene.Scene
	fps   int

	sync.RWMutex
	clients map[string]*Client
	nextID  int

	ch   chan msg
	done chan struct{}

	paused bool
	held   map[string]*physics.Particle

	upgrader websocket.Upgrader
}

func NewServer(s *scene.Scene, fps int) *Server {
	if fps <= 0 {
		fps = 30
	}
	return &Server{
		scene:   s,
		fps:     fps,
		clients: make(map[string]*Client),
		ch:      make(chan msg, 64),
		done:    make(chan struct{}),
		held:    make(map[string]*physics.Particle),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Handler serves the websocket on /ws
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		c, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("[!] upgrade:", err)
			return
		}
		if _, err := s.Connect(c); err != nil {
			c.Close()
			log.Println("[!] connect:", err)
		}
	})
	return mux
}

// Clients returns the number of connected clients
func (s *Server) Clients() int {
	s.RLock()
	defer s.RUnlock()
	return len(s.clients)
}

// Connect registers conn and starts its reader and writer
func (s *Server) Connect(conn *websocket.Conn) (string, error) {
	s.Lock()
	defer s.Unlock()
	select {
	case <-s.done:
		return "", fmt.Errorf("server stopped")
	default:
	}

	s.nextID++
	id := fmt.Sprintf("client-%d", s.nextID)
	hello, err := json.Marshal(Message{Type: "hello", Data: Hello{ID: id, Width: s.scene.Width, Height: s.scene.Height, FPS: s.fps}})
	if err != nil {
		return "", err
	}
	c := &Client{id: id, conn: conn, send: make(chan []byte, sendBuffer)}
	c.send <- hello
	s.clients[id] = c

	go s.writer(c)
	go s.reader(c)
	log.Printf("[*] Client connected: %s", id)
	return id, nil
}

// Disconnect drops a client and lets go of anything it held
func (s *Server) Disconnect(id string) {
	s.Lock()
	s.disconnect(id)
	s.Unlock()

	select {
	case s.ch <- msg{id: id, cmd: Command{Type: "release"}}:
	case <-s.done:
	}
}

func (s *Server) disconnect(id string) {
	if c, ok := s.clients[id]; ok {
		close(c.send)
		c.conn.Close()
		delete(s.clients, id)
		log.Printf("[*] Client disconnected: %s", id)
	}
}

func (s *Server) reader(c *Client) {
	defer s.Disconnect(c.id)
	for {
		var cmd Command
		if err := c.conn.ReadJSON(&cmd); err != nil {
			return
		}
		select {
		case s.ch <- msg{id: c.id, cmd: cmd}:
		case <-s.done:
			return
		}
	}
}

func (s *Server) writer(c *Client) {
	for b := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
			return
		}
	}
}

// Loop ticks the scene and broadcasts frames until ctx ends
func (s *Server) Loop(ctx context.Context) error {
	defer s.close()

	stepTicker := time.NewTicker(time.Second / time.Duration(s.fps))
	defer stepTicker.Stop()
	dt := 1000 / float64(s.fps)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m := <-s.ch:
			s.onCommand(m)
		case <-stepTicker.C:
			if !s.paused {
				s.scene.Tick(dt)
			}
			if err := s.broadcast(); err != nil {
				return err
			}
		}
	}
}

func (s *Server) onCommand(m msg) {
	e := s.scene.Physics()
	switch m.cmd.Type {
	case "pause":
		s.paused = true
	case "play":
		s.paused = false
	case "grab":
		if e == nil || s.held[m.id] != nil {
			return
		}
		if body := e.Nearest(m.cmd.X, m.cmd.Y, GrabRadius); body != nil && !body.Grabbed() {
			if err := e.Grab(body, m.cmd.X, m.cmd.Y); err == nil {
				s.held[m.id] = body
			}
		}
	case "drag":
		if body := s.held[m.id]; body != nil {
			e.DragTo(body, m.cmd.X, m.cmd.Y)
		}
	case "release":
		if body := s.held[m.id]; body != nil {
			e.Release(body)
			delete(s.held, m.id)
		}
	default:
		log.Printf("[!] Unknown command from %s: %q", m.id, m.cmd.Type)
	}
}

// broadcast encodes the frame once and queues it for every client. Slow
// clients skip frames instead of stalling the clock.
func (s *Server) broadcast() error {
	b, err := json.Marshal(Message{Type: "frame", Paused: s.paused, Data: s.scene.Snapshot()})
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}

	s.RLock()
	defer s.RUnlock()
	for _, c := range s.clients {
		select {
		case c.send <- b:
		default:
		}
	}
	return nil
}

func (s *Server) close() {
	s.Lock()
	defer s.Unlock()
	close(s.done)
	for id := range s.clients {
		s.disconnect(id)
	}
}
