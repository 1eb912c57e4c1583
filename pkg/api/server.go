package api

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/dixieflatline76/Carve/pkg/carve"
	"github.com/dixieflatline76/Carve/pkg/resize"
	"github.com/dixieflatline76/Carve/util"
	"github.com/dixieflatline76/Carve/util/log"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// DefaultAddr is the loopback address the server listens on unless configured otherwise.
const DefaultAddr = "127.0.0.1:49460"

// Options configures a Server.
type Options struct {
	Addr           string
	Version        string
	Operator       carve.Operator // Used when a request names no operator
	Quality        int            // JPEG quality of responses
	MaxUploadBytes int64
	RateLimit      rate.Limit // Requests per second per client host
	Burst          int
	ResultsDir     string // When set, results are also written here and served under /results/
}

// DefaultOptions returns the options used by NewServer when none are given.
func DefaultOptions() Options {
	return Options{
		Addr:           DefaultAddr,
		Version:        "dev",
		Operator:       carve.Sobel,
		Quality:        resize.DefaultQuality,
		MaxUploadBytes: 32 << 20,
		RateLimit:      2,
		Burst:          4,
	}
}

// Server represents the local carve REST/WebSocket server.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	upgrader   websocket.Upgrader
	opts       Options

	resizer    *resize.Resizer
	activeJobs *util.SafeCounter
	stopping   *util.SafeFlag

	// WebSocket management
	clients   map[*websocket.Conn]bool
	clientsMu sync.Mutex

	// Per-host request limiting
	limiters   map[string]*rate.Limiter
	limitersMu sync.Mutex
}

// NewServer creates a new API server.
func NewServer(opts Options) *Server {
	s := &Server{
		mux: http.NewServeMux(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		opts:       opts,
		resizer:    resize.NewResizer(),
		activeJobs: util.NewSafeCounter(),
		stopping:   util.NewSafeFlag(),
		clients:    make(map[*websocket.Conn]bool),
		limiters:   make(map[string]*rate.Limiter),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/health", s.enableCORS(s.handleHealth))
	s.mux.HandleFunc("/ws", s.handleWebSocket)
	s.mux.HandleFunc("/carve", s.enableCORS(s.limit(s.handleCarve)))
	s.mux.HandleFunc("/energy", s.enableCORS(s.limit(s.handleEnergy)))
	if s.opts.ResultsDir != "" {
		s.mux.HandleFunc("/results", s.enableCORS(s.handleResultsListing))
		s.mux.HandleFunc("/results/", s.enableCORS(s.handleResultAsset))
	}
}

// enableCORS adds CORS headers to the handler.
func (s *Server) enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Allow browser front ends to access localhost
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Expose-Headers", headerJob+", "+headerRemoved+", "+headerResult)

		// Handle preflight requests
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// limit rejects requests from hosts that exceed their token bucket.
func (s *Server) limit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.limiterFor(clientHost(r)).Allow() {
			w.Header().Set("Retry-After", "1")
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}

func (s *Server) limiterFor(host string) *rate.Limiter {
	s.limitersMu.Lock()
	defer s.limitersMu.Unlock()

	l, ok := s.limiters[host]
	if !ok {
		l = rate.NewLimiter(s.opts.RateLimit, s.opts.Burst)
		s.limiters[host] = l
	}
	return l
}

func clientHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ActiveJobs returns the number of carve jobs in flight.
func (s *Server) ActiveJobs() int {
	return s.activeJobs.Value()
}

// ClientCount returns the number of connected WebSocket clients.
func (s *Server) ClientCount() int {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	return len(s.clients)
}

// Start starts the server. It blocks until the server stops.
func (s *Server) Start() error {
	addr := s.opts.Addr
	if addr == "" {
		addr = DefaultAddr
	}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Printf("Carve server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Stop shuts the server down, waiting for in-flight requests until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	if !s.stopping.SetOnce() {
		return nil
	}

	s.clientsMu.Lock()
	for client := range s.clients {
		client.Close()
		delete(s.clients, client)
	}
	s.clientsMu.Unlock()

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// Broadcast sends event as JSON to all connected clients, dropping those that fail.
func (s *Server) Broadcast(event any) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	for client := range s.clients {
		if err := client.WriteJSON(event); err != nil {
			log.Printf("Failed to broadcast to client: %v", err)
			client.Close()
			delete(s.clients, client)
		}
	}
}
