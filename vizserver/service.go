package vizserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/lixenwraith/flocking-geese/constant"
	"github.com/lixenwraith/flocking-geese/status"
)

// Service serves the frame feed over HTTP and websocket
type Service struct {
	addr string
	hub  *Hub
	reg  *status.Registry
	log  *zap.Logger

	upgrader websocket.Upgrader

	WriteTimeout time.Duration
	PingInterval time.Duration
	QueueSize    int
}

func NewService(addr string, hub *Hub, reg *status.Registry, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if reg == nil {
		reg = status.NewRegistry()
	}
	return &Service{
		addr: addr,
		hub:  hub,
		reg:  reg,
		log:  log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		WriteTimeout: constant.VizWriteTimeout,
		PingInterval: constant.VizPingInterval,
		QueueSize:    constant.VizWatcherBuffer,
	}
}

// Router returns the routes wrapped in an access log
func (s *Service) Router() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/", s.home).Methods("GET")
	router.HandleFunc("/frame", s.frame).Methods("GET")
	router.HandleFunc("/metrics", s.metrics).Methods("GET")
	router.HandleFunc("/ws", s.stream).Methods("GET")

	access := zap.NewStdLog(s.log.Named("http")).Writer()
	return handlers.CombinedLoggingHandler(access, router)
}

// ListenAndServe serves until ctx is cancelled
func (s *Service) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return errors.Wrapf(err, "viz listen %s", s.addr)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled
func (s *Service) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		s.hub.closeAll()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.WriteTimeout)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("viz listening", zap.String("addr", ln.Addr().String()))
	err := srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		<-shutdownDone
		return nil
	}
	return errors.Wrap(err, "viz serve")
}

func (s *Service) home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, "<h2>flocking-geese viz</h2>\n")
	fmt.Fprintf(w, "<p>%d watchers right now</p>\n", s.hub.Count())
	fmt.Fprint(w, "<p><a href='/frame'>latest frame</a> · <a href='/metrics'>metrics</a> · websocket at <code>/ws</code></p>\n")
}

func (s *Service) frame(w http.ResponseWriter, r *http.Request) {
	latest, err := s.hub.Latest()
	if err != nil {
		s.log.Error("encode viz frame", zap.Error(err))
		http.Error(w, "frame unavailable", http.StatusInternalServerError)
		return
	}
	if latest == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(latest)
}

func (s *Service) metrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.reg.Snapshot()); err != nil {
		s.log.Warn("encode metrics", zap.Error(err))
	}
}

func (s *Service) stream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("viz upgrade failed", zap.Error(err), zap.String("remote", r.RemoteAddr))
		return
	}

	watcher := newWatcher(conn, s.QueueSize)
	if err := s.hub.add(watcher); err != nil {
		s.log.Error("viz watcher init", zap.Error(err))
		watcher.Close()
		return
	}
	defer s.hub.remove(watcher)

	go watcher.readLoop()
	watcher.writeLoop(s.WriteTimeout, s.PingInterval)
}
