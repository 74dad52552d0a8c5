package server

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

type Server struct {
	addr     string
	upgrader websocket.Upgrader
	log      *logrus.Entry
}

func NewServer(addr string) *Server {
	return &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		log: logrus.WithField("component", "server"),
	}
}

// serveWS handles one websocket client for its whole lifetime.
func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("upgrade failed")
		return
	}
	defer conn.Close()

	hub := NewHub(conn)
	defer hub.Close()
	go hub.Run()

	for {
		var msg Msg
		if err = conn.ReadJSON(&msg); err != nil {
			s.log.WithError(err).Info("client gone")
			return
		}
		hub.Handle(msg)
	}
}

func (s *Server) Serve() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	s.log.WithField("addr", s.addr).Info("listening")
	return http.ListenAndServe(s.addr, mux)
}
