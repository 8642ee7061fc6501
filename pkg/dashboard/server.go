// Package dashboard serves the market analysis dashboard: the HTTP surface,
// the WebSocket bridge to the browser-side chart widgets, and the session
// state behind them.
package dashboard

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/AGHusky0611/Vantage-MarketAnalysis/pkg/logger"
	"github.com/evanw/esbuild/pkg/api"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Static assets embedded in the binary
var (
	//go:embed assets
	staticFiles embed.FS
)

// HTTPServer defines the interface for an HTTP server the dashboard will use
type HTTPServer interface {
	// RegisterHandler registers a handler for a specific route
	RegisterHandler(path string, handler http.HandlerFunc)

	// RegisterFileServer registers a handler to serve static files
	RegisterFileServer(path string, fs http.FileSystem)

	// Start starts the HTTP server on the specified port
	Start(port int) error
}

// StandardHTTPServer implements the HTTPServer interface using the standard http package
type StandardHTTPServer struct{}

// NewStandardHTTPServer creates a new instance of StandardHTTPServer
func NewStandardHTTPServer() *StandardHTTPServer {
	return &StandardHTTPServer{}
}

// RegisterHandler registers a handler for a specific route
func (s *StandardHTTPServer) RegisterHandler(path string, handler http.HandlerFunc) {
	http.HandleFunc(path, handler)
}

// RegisterFileServer registers a handler to serve static files
func (s *StandardHTTPServer) RegisterFileServer(path string, fs http.FileSystem) {
	http.Handle(path, http.FileServer(fs))
}

// Start starts the HTTP server on the specified port
func (s *StandardHTTPServer) Start(port int) error {
	return http.ListenAndServe(fmt.Sprintf(":%d", port), nil)
}

// Server hosts the dashboard for one session.
type Server struct {
	port          int
	debug         bool
	metrics       bool
	session       *Session
	surface       *wsSurface
	wsManager     *WebSocketManager
	watchboard    *Watchboard
	scriptContent string
	indexHTML     *template.Template
	log           logger.Logger
}

// ServerOption defines a function type for configuring a Server instance
type ServerOption func(*Server)

// WithPort sets the HTTP server port
func WithPort(port int) ServerOption {
	return func(server *Server) {
		server.port = port
	}
}

// WithDebug enables debug mode (disables minification)
func WithDebug() ServerOption {
	return func(server *Server) {
		server.debug = true
	}
}

// WithMetricsEndpoint exposes Prometheus metrics on /metrics.
func WithMetricsEndpoint() ServerOption {
	return func(server *Server) {
		server.metrics = true
	}
}

// NewServer creates a dashboard server with the provided options. The
// session is constructed by the caller and rendered onto this server's
// WebSocket surface via Surface().
func NewServer(log logger.Logger, options ...ServerOption) (*Server, error) {
	wsManager := NewWebSocketManager(log)

	server := &Server{
		port:      8080,
		wsManager: wsManager,
		surface:   newWSSurface(wsManager),
		log:       log,
	}

	for _, option := range options {
		option(server)
	}

	// Parse dashboard HTML template
	var err error
	server.indexHTML, err = template.ParseFS(staticFiles, "assets/dashboard.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse dashboard template: %w", err)
	}

	// Read and transpile dashboard JavaScript
	dashboardJS, err := staticFiles.ReadFile("assets/js/dashboard.js")
	if err != nil {
		return nil, fmt.Errorf("failed to read dashboard.js: %w", err)
	}

	transpiled := api.Transform(string(dashboardJS), api.TransformOptions{
		Loader:            api.LoaderJS,
		Target:            api.ES2015,
		MinifySyntax:      !server.debug,
		MinifyIdentifiers: !server.debug,
		MinifyWhitespace:  !server.debug,
	})

	if len(transpiled.Errors) > 0 {
		return nil, fmt.Errorf("dashboard script failed with: %v", transpiled.Errors)
	}

	server.scriptContent = string(transpiled.Code)

	return server, nil
}

// Surface returns the WebSocket-backed rendering surface for sessions.
func (s *Server) Surface() *wsSurface {
	return s.surface
}

// WSManager returns the WebSocket manager.
func (s *Server) WSManager() *WebSocketManager {
	return s.wsManager
}

// AttachWatchboard binds a periodic watchlist broadcast started together
// with the server.
func (s *Server) AttachWatchboard(watchboard *Watchboard) {
	s.watchboard = watchboard
}

// AttachSession binds the session whose state the handlers expose, and
// wires inbound client messages to it.
func (s *Server) AttachSession(session *Session) {
	s.session = session
	s.wsManager.OnMessage(s.handleClientMessage)
}

// GetPort returns the configured port
func (s *Server) GetPort() int {
	return s.port
}

// RegisterHandlers registers all necessary handlers on the HTTP server
func (s *Server) RegisterHandlers(server HTTPServer) {
	server.RegisterFileServer("/assets/", http.FS(staticFiles))

	server.RegisterHandler("/health", s.handleHealth)
	server.RegisterHandler("/script.js", s.handleScript)
	server.RegisterHandler("/data", s.handleData)
	server.RegisterHandler("/ws", s.wsManager.HandleWebSocket)
	server.RegisterHandler("/", s.handleIndex)

	if s.metrics {
		server.RegisterHandler("/metrics", promhttp.Handler().ServeHTTP)
	}
}

// Start registers the handlers, starts the watchboard if attached and runs
// the HTTP server.
func (s *Server) Start(httpServer HTTPServer) error {
	s.RegisterHandlers(httpServer)

	if s.watchboard != nil {
		s.watchboard.Start()
	}

	s.log.Infof("Dashboard available at http://localhost:%d", s.port)
	return httpServer.Start(s.port)
}
