package realtime

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/inamate/canvas-editor/backend-go/internal/document"
	"github.com/inamate/canvas-editor/backend-go/internal/engine"
	"github.com/inamate/canvas-editor/backend-go/internal/typeid"
)

const saveTimeout = 10 * time.Second

// DocumentSaver persists a document snapshot and returns its version.
type DocumentSaver interface {
	Save(ctx context.Context, doc *document.Document) (int, error)
}

type Options struct {
	Engine           engine.Config
	AutosaveInterval time.Duration
	OriginPatterns   []string
	Logger           *slog.Logger
}

// Manager owns the live editing sessions. Registration, removal and autosave all
// run on the Run goroutine.
type Manager struct {
	mu      sync.RWMutex
	clients map[string]*Client // clientID -> client

	register   chan *Client
	unregister chan *Client
	stop       chan struct{}
	done       chan struct{}
	stopOnce   sync.Once
	running    atomic.Bool

	saver DocumentSaver
	opts  Options
	log   *slog.Logger
}

func NewManager(saver DocumentSaver, opts Options) *Manager {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.AutosaveInterval <= 0 {
		opts.AutosaveInterval = 30 * time.Second
	}
	return &Manager{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		saver:      saver,
		opts:       opts,
		log:        opts.Logger.With("component", "realtime"),
	}
}

func (m *Manager) Run() {
	m.running.Store(true)
	defer close(m.done)

	ticker := time.NewTicker(m.opts.AutosaveInterval)
	defer ticker.Stop()

	for {
		select {
		case client := <-m.register:
			m.addClient(client)
		case client := <-m.unregister:
			m.removeClient(client)
		case <-ticker.C:
			m.autosave()
		case <-m.stop:
			return
		}
	}
}

// Stop ends the run loop, saves every dirty session and closes all clients.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
	if m.running.Load() {
		<-m.done
	}

	m.mu.Lock()
	clients := make([]*Client, 0, len(m.clients))
	for id, c := range m.clients {
		clients = append(clients, c)
		delete(m.clients, id)
	}
	m.mu.Unlock()

	for _, c := range clients {
		c.session.Close()
		m.save(c.session)
		c.close()
	}
	m.log.Info("session manager stopped", "sessions", len(clients))
}

// Register hands a client to the run loop. It reports false once the manager is
// stopping.
func (m *Manager) Register(client *Client) bool {
	select {
	case m.register <- client:
		return true
	case <-m.stop:
		return false
	}
}

func (m *Manager) Unregister(client *Client) {
	select {
	case m.unregister <- client:
	case <-m.stop:
	}
}

// SessionCount returns the number of live sessions.
func (m *Manager) SessionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// ServeWS upgrades the request and runs an editing session on doc for userID until
// the connection closes.
func (m *Manager) ServeWS(w http.ResponseWriter, r *http.Request, doc *document.Document, userID string) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: m.opts.OriginPatterns,
	})
	if err != nil {
		m.log.Error("websocket accept", "error", err)
		return
	}

	client := m.NewClient(conn, doc, userID)
	if !m.Register(client) {
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}

// NewClient binds a fresh session on doc to conn.
func (m *Manager) NewClient(conn *websocket.Conn, doc *document.Document, userID string) *Client {
	if userID == "" {
		userID = "anon-" + uuid.New().String()[:8]
	}
	client := newClient(m, conn, userID, doc.ID, typeid.NewSessionID())
	client.session = NewSession(doc, m.opts.Engine, userID, client.ClientID, client, m.log)
	return client
}

func (m *Manager) addClient(client *Client) {
	client.session.Open()

	m.mu.Lock()
	m.clients[client.ClientID] = client
	m.mu.Unlock()

	m.log.Info("client joined", "user", client.UserID, "document", client.DocumentID, "client", client.ClientID)
}

func (m *Manager) removeClient(client *Client) {
	m.mu.Lock()
	_, ok := m.clients[client.ClientID]
	delete(m.clients, client.ClientID)
	m.mu.Unlock()
	if !ok {
		return
	}

	client.session.Close()
	m.save(client.session)
	client.close()

	m.log.Info("client left", "user", client.UserID, "document", client.DocumentID, "client", client.ClientID)
}

func (m *Manager) handleMessage(sender *Client, msg *Message) {
	if msg.Type == TypeDocSave {
		if err := m.saveNow(sender.session); err != nil {
			sender.session.SendError("save failed")
		}
		return
	}

	if err := sender.session.Handle(msg); err != nil {
		if errors.Is(err, ErrUnknownMessage) {
			m.log.Warn("unknown message type", "type", msg.Type, "user", sender.UserID)
		} else {
			m.log.Error("handle message", "type", msg.Type, "error", err)
		}
		sender.session.SendError(err.Error())
	}
}

func (m *Manager) autosave() {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.clients))
	for _, c := range m.clients {
		sessions = append(sessions, c.session)
	}
	m.mu.RUnlock()

	for _, s := range sessions {
		m.save(s)
	}
}

// save persists the session if it has unsaved changes.
func (m *Manager) save(s *Session) {
	doc, generation, dirty := s.Snapshot()
	if !dirty {
		return
	}
	if err := m.persist(s, doc, generation); err != nil {
		m.log.Error("save document", "document", doc.ID, "error", err)
	}
}

// saveNow persists the session if it is dirty and always answers with doc.saved.
func (m *Manager) saveNow(s *Session) error {
	doc, generation, dirty := s.Snapshot()
	if !dirty {
		s.MarkSaved(generation, doc.Version)
		return nil
	}
	if err := m.persist(s, doc, generation); err != nil {
		m.log.Error("save document", "document", doc.ID, "error", err)
		return err
	}
	return nil
}

func (m *Manager) persist(s *Session, doc *document.Document, generation uint64) error {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	version, err := m.saver.Save(ctx, doc)
	if err != nil {
		return err
	}
	s.MarkSaved(generation, version)
	m.log.Debug("document saved", "document", doc.ID, "version", version)
	return nil
}
