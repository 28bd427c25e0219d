// Package observer streams read-only world frames to loopback websocket
// clients. Messages sent by clients are read and discarded.
package observer

import (
	"encoding/json"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"wireworld/internal/core"
)

// Frame is one published view of the world.
type Frame struct {
	Generation uint64 `json:"generation"`
	State      string `json:"state"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	// Cells holds one digit per cell ('0'..'3'), column-major like snapshots.
	Cells string `json:"cells"`
}

// NewFrame builds a frame from a column-major cell slice.
func NewFrame(gen uint64, state string, size core.Size, cells []core.Cell) Frame {
	var b strings.Builder
	b.Grow(len(cells))
	for _, c := range cells {
		b.WriteByte('0' + byte(c))
	}
	return Frame{Generation: gen, State: state, Width: size.W, Height: size.H, Cells: b.String()}
}

const sendBuffer = 8

type client struct {
	out chan []byte
}

// Server fans frames out to connected observers. Slow observers drop frames
// rather than stall the publisher.
type Server struct {
	log *log.Logger

	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	latest  []byte
	closed  bool
}

// NewServer returns an observer hub. logger may be nil.
func NewServer(logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(log.Writer(), "[observer] ", log.LstdFlags|log.Lmicroseconds)
	}
	return &Server{
		log:     logger,
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Publish encodes f and queues it for every observer. New observers receive
// the most recent frame on connect.
func (s *Server) Publish(f Frame) {
	b, err := json.Marshal(f)
	if err != nil {
		s.log.Printf("encode frame: %v", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.latest = b
	for c := range s.clients {
		select {
		case c.out <- b:
		default:
		}
	}
}

// Observers reports how many clients are connected.
func (s *Server) Observers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Close disconnects every observer and stops accepting new ones.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for c := range s.clients {
		close(c.out)
		delete(s.clients, c)
	}
}

func (s *Server) join() (*client, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, false
	}
	c := &client{out: make(chan []byte, sendBuffer)}
	if s.latest != nil {
		c.out <- s.latest
	}
	s.clients[c] = struct{}{}
	return c, true
}

func (s *Server) leave(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; ok {
		close(c.out)
		delete(s.clients, c)
	}
}

// Handler serves the websocket endpoint. Non-loopback peers are refused.
func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}
		c, ok := s.join()
		if !ok {
			http.Error(rw, "shutting down", http.StatusServiceUnavailable)
			return
		}
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			s.leave(c)
			return
		}
		defer conn.Close()

		readDone := make(chan struct{})
		go func() {
			defer close(readDone)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case <-readDone:
				s.leave(c)
				return
			case b, ok := <-c.out:
				if !ok {
					_ = conn.WriteControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseGoingAway, "bye"),
						time.Now().Add(time.Second))
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					s.leave(c)
					return
				}
			}
		}
	}
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
