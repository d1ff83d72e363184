// Package web serves a browser view of the detector: the annotated frame,
// the foreground mask and a live feed of obstacle reports.
package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/teslashibe/go-obstacle/pkg/display"
	"github.com/teslashibe/go-obstacle/pkg/hub"
	"github.com/teslashibe/go-obstacle/pkg/pipeline"
	"github.com/teslashibe/go-obstacle/pkg/zone"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":8080"

const shutdownTimeout = 3 * time.Second

// ErrNotStarted is returned by Addr before Start.
var ErrNotStarted = errors.New("web: server not started")

// Info is the static description of a run, fixed at startup.
type Info struct {
	Source string          `json:"source"`
	Width  int             `json:"width"`
	Height int             `json:"height"`
	Zone   zone.Zone       `json:"zone"`
	Config pipeline.Config `json:"config"`
}

// Status is the body of GET /api/status.
type Status struct {
	Session string           `json:"session"`
	Source  string           `json:"source"`
	Width   int              `json:"width"`
	Height  int              `json:"height"`
	Zone    zone.Zone        `json:"zone"`
	Uptime  string           `json:"uptime"`
	Viewers map[string]int   `json:"viewers"`
	Dropped map[string]int64 `json:"dropped_viewers"`
	Stats   pipeline.Stats   `json:"stats"`
	Last    *display.Summary `json:"last,omitempty"`
}

// Server is a display.Display that streams to browsers.
type Server struct {
	app     *fiber.App
	addr    string
	info    Info
	session string
	started time.Time
	logger  *slog.Logger

	overlayHub *hub.Hub
	maskHub    *hub.Hub
	reportHub  *hub.Hub

	mu   sync.RWMutex
	last *display.Summary
	ln   net.Listener

	stop   atomic.Bool
	reset  atomic.Bool
	cancel context.CancelFunc
}

var (
	_ display.Display  = (*Server)(nil)
	_ display.Resetter = (*Server)(nil)
)

// NewServer creates a server that will listen on addr.
func NewServer(addr string, info Info, log *slog.Logger) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		addr:       addr,
		info:       info,
		session:    uuid.NewString(),
		started:    time.Now(),
		logger:     log.With("component", "web"),
		overlayHub: hub.New("overlay", log),
		maskHub:    hub.New("mask", log),
		reportHub:  hub.New("reports", log),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Obstacle Detection",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))

	app.Get("/", s.handleIndex)

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/config", s.handleConfig)
	api.Post("/stop", s.handleStop)
	api.Post("/reset", s.handleReset)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/overlay", websocket.New(s.attach(s.overlayHub)))
	app.Get("/ws/mask", websocket.New(s.attach(s.maskHub)))
	app.Get("/ws/reports", websocket.New(s.attach(s.reportHub)))

	s.app = app
	return s
}

// Start binds the listen address and serves in the background until Close
// or ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("web: listen %s: %w", s.addr, err)
	}

	ctx, s.cancel = context.WithCancel(ctx)
	go s.overlayHub.Run(ctx)
	go s.maskHub.Run(ctx)
	go s.reportHub.Run(ctx)

	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	go func() {
		if err := s.app.Listener(ln); err != nil {
			s.logger.Error("web server stopped", "error", err)
		}
	}()
	s.logger.Info("web display listening", "addr", ln.Addr().String(), "session", s.session)
	return nil
}

// Addr returns the bound address once started.
func (s *Server) Addr() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ln == nil {
		return "", ErrNotStarted
	}
	return s.ln.Addr().String(), nil
}

// Session returns the identifier of this run.
func (s *Server) Session() string {
	return s.session
}

// Show implements display.Display. Images are encoded only for topics that
// currently have viewers.
func (s *Server) Show(v display.View) error {
	summary := v.Summary
	s.mu.Lock()
	s.last = &summary
	s.mu.Unlock()

	var errs []error
	if s.overlayHub.ClientCount() > 0 {
		errs = append(errs, publishJPEG(s.overlayHub, v.Overlay))
	}
	if s.maskHub.ClientCount() > 0 {
		errs = append(errs, publishJPEG(s.maskHub, v.Mask))
	}
	if s.reportHub.ClientCount() > 0 {
		errs = append(errs, s.reportHub.BroadcastJSON(summary))
	}
	return errors.Join(errs...)
}

// ExitRequested implements display.Display. It turns true after POST /api/stop.
func (s *Server) ExitRequested() bool {
	return s.stop.Load()
}

// ResetRequested implements display.Resetter. It consumes a pending
// POST /api/reset.
func (s *Server) ResetRequested() bool {
	return s.reset.Swap(false)
}

// Close implements display.Display.
func (s *Server) Close() error {
	s.mu.RLock()
	started := s.ln != nil
	s.mu.RUnlock()
	if !started {
		return nil
	}
	s.cancel()
	return s.app.ShutdownWithTimeout(shutdownTimeout)
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) attach(h *hub.Hub) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		hub.Attach(h, c)
	}
}

// publishJPEG encodes img and broadcasts a copy of the bytes, so the hub
// never holds native memory.
func publishJPEG(h *hub.Hub, img gocv.Mat) error {
	if img.Empty() {
		return nil
	}
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, img)
	if err != nil {
		return fmt.Errorf("web: encode %s frame: %w", h.Topic(), err)
	}
	defer buf.Close()
	h.BroadcastBinary(bytes.Clone(buf.GetBytes()))
	return nil
}
