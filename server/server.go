package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"phc/calculator"
	"phc/model"
)

type Server struct {
	addr     string
	upgrader websocket.Upgrader
	base     calculator.Config
	history  int
}

// NewServer serves sweeps whose parameters default to base. history is
// the number of slices each session keeps for replay.
func NewServer(addr string, upgrader websocket.Upgrader, base calculator.Config, history int) *Server {
	return &Server{
		addr:     addr,
		upgrader: upgrader,
		base:     base,
		history:  history,
	}
}

// serveWs handles websocket requests from the peer.
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	hub := NewHub(conn, s.base, s.history)
	go hub.handleRequest()
	go hub.handleResponse()
	defer hub.close()

	log.WithField("remote", conn.RemoteAddr().String()).Info("client connected")
	for {
		var msg model.Msg
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Warn("read message")
			}
			break
		}
		hub.msg <- msg
	}
	log.WithField("remote", conn.RemoteAddr().String()).Info("client disconnected")
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWs)
	return mux
}

// Serve listens until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.Handler()}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdown)
	}()
	log.WithField("addr", s.addr).Info("websocket server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
