package chatserver

import (
	"net/http"
	"time"

	"github.com/pascaldekloe/websocket"
	"github.com/pascaldekloe/websocket/httpws"
)

// upgradeTimeout bounds how long the WebSocket handshake may take before the
// hijacked connection is abandoned.
const upgradeTimeout = 5 * time.Second

// ServeWS upgrades an HTTP request to a binary WebSocket connection and runs
// it through the same reader/writer pair as a raw TCP client. It is meant to
// be registered on a mux alongside the metrics/ready endpoints, e.g.:
//
//	mux.HandleFunc("/ws", srv.ServeWS)
func (s *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	if !httpws.IsUpgradeRequest(r) {
		http.Error(w, "this endpoint requires a WebSocket upgrade", http.StatusUpgradeRequired)
		return
	}
	conn, err := httpws.Upgrade(w, r, nil, upgradeTimeout)
	if err != nil {
		s.logger.Warn("ws_upgrade_failed", "error", err, "remote", r.RemoteAddr)
		return
	}
	// Every outbound Write after this point sends one complete binary
	// message; see (*websocket.Conn).WriteFinal.
	conn.WriteFinal(websocket.Binary)

	connLogger := s.logger.With("remote", conn.RemoteAddr().String(), "transport", "ws")
	if s.maxClients > 0 && s.Hub.Count() >= s.maxClients {
		connLogger.Warn("client_reject_max", "max_clients", s.maxClients)
		_ = conn.Close()
		return
	}
	s.totalAccepted.Add(1)
	client := s.newClient()
	s.clientsMu.Lock()
	s.clients[client] = conn
	s.clientsMu.Unlock()
	s.totalConnected.Add(1)
	connLogger.Info("client_connected")

	// Unlike a TCP accept loop, an HTTP handler's request context ends the
	// moment ServeWS returns, not when the connection closes. The hijacked
	// conn outlives that context, so the reader/writer pair must not select
	// on it; Shutdown's conn.Close() is what actually unwinds them.
	s.startWriter(s.closeCh, conn, client, connLogger)
	s.startReader(s.closeCh, conn, client, connLogger)
}
