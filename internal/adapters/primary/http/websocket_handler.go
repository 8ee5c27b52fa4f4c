package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	wsAdapter "github.com/lorrc/ticket-insights/internal/adapters/primary/websocket"
	"github.com/lorrc/ticket-insights/internal/config"
)

// WebSocketHandler upgrades dashboard connections and hands them to the hub.
type WebSocketHandler struct {
	hub      *wsAdapter.Hub
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(
	hub *wsAdapter.Hub,
	cfg config.WebSocketConfig,
	isDevelopment bool,
	logger *slog.Logger,
) *WebSocketHandler {
	handler := &WebSocketHandler{
		hub:    hub,
		logger: logger.With("handler", "websocket"),
	}

	handler.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
		CheckOrigin:     handler.makeOriginChecker(cfg.AllowedOrigins, isDevelopment),
	}

	return handler
}

// makeOriginChecker accepts exact hosts and "*.example.com" style wildcards.
func (h *WebSocketHandler) makeOriginChecker(allowedOrigins []string, isDevelopment bool) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		if isDevelopment {
			return true
		}

		// Non-browser clients send no origin
		if origin == "" {
			return true
		}

		parsedOrigin, err := url.Parse(origin)
		if err != nil {
			h.logger.Warn("failed to parse websocket origin",
				"origin", origin,
				"error", err,
			)
			return false
		}

		if originAllowed(parsedOrigin.Host, allowedOrigins) {
			return true
		}

		h.logger.Warn("websocket connection rejected due to origin",
			"origin", origin,
			"remote_addr", r.RemoteAddr,
		)
		return false
	}
}

func originAllowed(host string, allowed []string) bool {
	for _, a := range allowed {
		if a == "*" {
			return true
		}
		if strings.HasPrefix(a, "*.") {
			if strings.HasSuffix(host, a[1:]) || host == a[2:] {
				return true
			}
			continue
		}
		// Entries may be full origins ("https://host") or bare hosts.
		if u, err := url.Parse(a); err == nil && u.Host != "" {
			a = u.Host
		}
		if host == a {
			return true
		}
	}
	return false
}

// ServeHTTP upgrades the request and starts the client pumps.
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := GetRequestID(r.Context())

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("failed to upgrade websocket connection",
			"request_id", requestID,
			"error", err,
		)
		return
	}

	client := wsAdapter.NewClient(h.hub, conn, h.logger)
	if !h.hub.Register(client) {
		_ = conn.Close()
		return
	}

	h.logger.Info("websocket connection established",
		"request_id", requestID,
		"remote_addr", r.RemoteAddr,
	)

	go client.WritePump()
	go client.ReadPump()
}
