package websocket

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// FrameProvider supplies the current frame for viewers joining mid-session
type FrameProvider func() string

// Server upgrades HTTP requests to websocket viewer connections
type Server struct {
	hub      *Hub
	provider FrameProvider
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewServer creates a websocket server on the given hub
func NewServer(hub *Hub, provider FrameProvider, logger *zap.Logger) *Server {
	return &Server{
		hub:      hub,
		provider: provider,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin: func(r *http.Request) bool {
				// The visualization is same-origin in production and
				// cross-origin only in local development.
				return true
			},
		},
		logger: logger,
	}
}

// ServeHTTP upgrades the request and starts the viewer connection
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := NewClient(s.hub, conn, s.logger)
	client.Start()

	// New viewers get the current frame immediately instead of waiting
	// for the next tick.
	if s.provider != nil {
		if frame := s.provider(); frame != "" {
			select {
			case client.send <- []byte(frame):
			default:
			}
		}
	}
}
