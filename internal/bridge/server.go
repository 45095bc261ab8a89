package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/Alia5/padnav/pkg/engine"
	"github.com/Alia5/padnav/pkg/gamepad"
	"github.com/Alia5/padnav/pkg/session"
)

// Server accepts one dashboard page at a time over a websocket and shuttles
// frames between the page and the engine. A page navigation drops the
// connection; the disconnect hook flushes the button snapshot into the
// departing tab's store, and the connect hook reloads the presenting tab's
// snapshot, which is what keeps held buttons from re-firing.
type Server struct {
	addr    string
	logger  *slog.Logger
	surf    *RemoteSurface
	sampler *RemoteSampler

	upgrader websocket.Upgrader
	httpSrv  *http.Server
	ln       net.Listener

	mu     sync.Mutex
	conn   *websocket.Conn
	sendMu sync.Mutex

	storeMu   sync.Mutex
	stores    map[string]*session.MemStore
	activeTab string

	onConnect    func()
	onDisconnect func()
}

// NewServer builds a bridge bound to addr. Surface and sampler are handed
// to the engine by the caller.
func NewServer(addr string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		addr:    addr,
		logger:  logger,
		surf:    NewRemoteSurface(),
		sampler: NewRemoteSampler(),
		upgrader: websocket.Upgrader{
			// The dashboard page connects cross-origin from the host app.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		stores: make(map[string]*session.MemStore),
	}
}

// Surface returns the engine-facing surface view.
func (s *Server) Surface() *RemoteSurface { return s.surf }

// Sampler returns the engine-facing controller sampler.
func (s *Server) Sampler() gamepad.Sampler { return s.sampler }

// Addr returns the bound listen address, valid after Start.
func (s *Server) Addr() string {
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.addr
}

// Start listens and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("bridge listen: %w", err)
	}
	s.ln = ln

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	s.httpSrv = &http.Server{Handler: mux}

	s.logger.Info("bridge listening", "addr", ln.Addr().String())
	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("bridge serve", "error", err)
		}
	}()
	return nil
}

// Close stops accepting and drops the active connection.
func (s *Server) Close() {
	if s.httpSrv != nil {
		_ = s.httpSrv.Close()
	}
	s.mu.Lock()
	if s.conn != nil {
		_ = s.conn.Close()
		s.conn = nil
	}
	s.mu.Unlock()
}

// SetSessionHooks installs the callbacks fired after a tab connects (its
// store is active by then) and after it disconnects (its store is still
// active). The bridge wires these to the engine's session reload and flush.
func (s *Server) SetSessionHooks(onConnect, onDisconnect func()) {
	s.storeMu.Lock()
	s.onConnect = onConnect
	s.onDisconnect = onDisconnect
	s.storeMu.Unlock()
}

// Forward subscribes to the engine's bus and pushes events to the page.
// The returned subscription should be closed together with the server.
func (s *Server) Forward(bus *engine.Bus) *engine.Subscription {
	return bus.Subscribe(func(ev engine.Event) {
		frame, ok := translate(ev)
		if !ok {
			return
		}
		s.send(frame)
	})
}

func translate(ev engine.Event) (serverFrame, bool) {
	switch e := ev.(type) {
	case engine.FocusEvent:
		f := serverFrame{Type: "focus", Label: e.Target.Node.Label()}
		if rn, ok := e.Target.Node.(*RemoteNode); ok {
			f.ID = rn.ID()
		}
		return f, true
	case engine.ActivateEvent:
		f := serverFrame{Type: "activate", Label: e.Target.Node.Label()}
		if rn, ok := e.Target.Node.(*RemoteNode); ok {
			f.ID = rn.ID()
		}
		return f, true
	case engine.CursorEvent:
		return serverFrame{Type: "cursor", X: e.X, Y: e.Y, Visible: e.Visible}, true
	case engine.MenuOpenEvent:
		return serverFrame{Type: "menu-open"}, true
	case engine.MenuButtonEvent:
		return serverFrame{Type: "menu-button", Button: e.Button.String()}, true
	case engine.ConnectionEvent:
		return serverFrame{Type: "connection", Connected: e.Connected}, true
	default:
		return serverFrame{}, false
	}
}

// send is fire-and-forget: a write error just logs, the page will
// resynchronize from the next event after reconnecting.
func (s *Server) send(frame serverFrame) {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return
	}
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if err := conn.WriteJSON(frame); err != nil {
		s.logger.Debug("bridge write dropped", "type", frame.Type, "error", err)
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("bridge upgrade failed", "error", err)
		return
	}
	tab := r.URL.Query().Get("tab")
	if tab == "" {
		tab = "default"
	}

	s.mu.Lock()
	if s.conn != nil {
		// One page at a time; the newest tab wins.
		_ = s.conn.Close()
	}
	s.conn = conn
	s.mu.Unlock()

	s.storeMu.Lock()
	if _, ok := s.stores[tab]; !ok {
		s.stores[tab] = session.NewMemStore()
	}
	s.activeTab = tab
	connected := s.onConnect
	s.storeMu.Unlock()

	if connected != nil {
		connected()
	}

	s.logger.Info("page connected", "remote", conn.RemoteAddr().String(), "tab", tab)
	s.readLoop(conn)

	s.mu.Lock()
	superseded := s.conn != conn
	if !superseded {
		s.conn = nil
		s.sampler.clear()
	}
	s.mu.Unlock()

	// A superseded connection must not flush into the newer tab's store.
	if !superseded {
		s.storeMu.Lock()
		disconnected := s.onDisconnect
		s.storeMu.Unlock()
		if disconnected != nil {
			disconnected()
		}
	}
	s.logger.Info("page disconnected", "tab", tab)
}

func (s *Server) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("bridge read", "error", err)
			}
			return
		}
		var frame clientFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			s.logger.Warn("bridge bad frame", "error", err)
			continue
		}
		switch frame.Type {
		case "pads":
			s.sampler.set(frame.Pads)
		case "surface":
			if frame.Surface != nil {
				s.surf.apply(*frame.Surface)
			}
		default:
			s.logger.Warn("bridge unknown frame type", "type", frame.Type)
		}
	}
}

// Load implements session.Store against the active tab's store.
func (s *Server) Load(key string) ([]byte, bool, error) {
	return s.tabStore().Load(key)
}

// Save implements session.Store against the active tab's store.
func (s *Server) Save(key string, data []byte) error {
	return s.tabStore().Save(key, data)
}

func (s *Server) tabStore() *session.MemStore {
	s.storeMu.Lock()
	defer s.storeMu.Unlock()
	tab := s.activeTab
	if tab == "" {
		tab = "default"
	}
	st, ok := s.stores[tab]
	if !ok {
		st = session.NewMemStore()
		s.stores[tab] = st
	}
	return st
}
