// Package ws is the WebSocket transport binding: it upgrades HTTP
// connections, owns the read/write loop pair per socket, and drives a
// signaling.Session from decoded frames. Grounded on the teacher's
// transport/ws (ws.go's RegisterConn/readLoop/writeLoop shape), adapted
// from its Hub/Conn/Send-channel model onto signaling.Session/Writer.
package ws

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/logistics-id/signalhub/internal/signaling"
)

const (
	readLimitBytes  = 65536
	pongWait        = 60 * time.Second
	pingInterval    = 20 * time.Second
	writeWait       = 10 * time.Second
)

// Config configures a Server.
type Config struct {
	Hub     *signaling.Hub
	Logger  *zap.Logger
	Origins []string    // empty means allow any origin
	Limiter RateLimiter // nil disables inbound rate limiting
}

// Server upgrades inbound HTTP requests to WebSocket connections and runs
// their read/write loops against the signaling Hub.
type Server struct {
	hub     *signaling.Hub
	logger  *zap.Logger
	origins []string
	limiter RateLimiter
}

func New(cfg Config) *Server {
	return &Server{
		hub:     cfg.Hub,
		logger:  cfg.Logger.With(zap.String("component", "transport.ws")),
		origins: cfg.Origins,
		limiter: cfg.Limiter,
	}
}

func (s *Server) originAllowed(r *http.Request) bool {
	if len(s.origins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	for _, allowed := range s.origins {
		if strings.EqualFold(origin, allowed) {
			return true
		}
	}
	s.logger.Warn("connection rejected: origin not allowed", zap.String("origin", origin))
	return false
}

// ServeHTTP upgrades the request and blocks running the socket's read
// loop; the write loop runs in its own goroutine and outlives ServeHTTP
// only until the connection closes.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		CheckOrigin:       s.originAllowed,
		EnableCompression: true,
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	socketID := uuid.NewString()
	session := s.hub.NewSession(socketID)
	ctx := r.Context()

	conn.SetReadLimit(readLimitBytes)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	s.logger.Info("socket connected", zap.String("socket_id", socketID))

	go s.writeLoop(conn, session)
	s.readLoop(ctx, conn, session)
}

func (s *Server) readLoop(ctx context.Context, conn *websocket.Conn, session *signaling.Session) {
	defer func() {
		_ = conn.Close()
		session.Teardown(ctx)
		s.logger.Info("socket disconnected", zap.String("socket_id", session.Writer().SocketID))
	}()

	socketID := session.Writer().SocketID

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		if s.limiter != nil && !s.limiter.Allow(ctx, socketID) {
			session.Writer().Send(&signaling.SignalingEnvelope{Event: signaling.EventError, Error: "rate limit exceeded"})
			continue
		}

		env, err := signaling.Decode(messageType, data)
		if err != nil {
			session.Writer().Send(&signaling.SignalingEnvelope{Event: signaling.EventError, Error: err.Error()})
			continue
		}

		if session.HandleFrame(ctx, env) {
			return
		}
	}
}

func (s *Server) writeLoop(conn *websocket.Conn, session *signaling.Session) {
	writer := session.Writer()
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case env, ok := <-writer.Frames:
			if !ok {
				return
			}
			data, err := signaling.Encode(env)
			if err != nil {
				s.logger.Warn("failed to encode outbound frame", zap.Error(err))
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				_ = conn.Close()
				return
			}
		case <-writer.Evicted:
			_ = conn.Close()
			return
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = conn.Close()
				return
			}
		}
	}
}
