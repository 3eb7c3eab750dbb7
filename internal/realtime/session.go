package realtime

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/inamate/canvas-editor/backend-go/internal/document"
	"github.com/inamate/canvas-editor/backend-go/internal/engine"
	"github.com/inamate/canvas-editor/backend-go/internal/scene"
	"github.com/inamate/canvas-editor/backend-go/internal/typeid"
)

var ErrUnknownMessage = errors.New("unknown message type")

// Sender delivers server messages to one connection.
type Sender interface {
	Send(msg *Message)
}

// Session is one editing surface: a document, the engine driving it, and the
// connection it reports to. It is the engine's keyboard source.
type Session struct {
	mu sync.Mutex

	ClientID   string
	UserID     string
	DocumentID string

	doc        *document.Document
	engine     *engine.Engine
	out        Sender
	keyHandler func(engine.KeyEvent)

	// generation counts scene changes; saved is the generation last persisted.
	generation uint64
	saved      uint64
	seq        int64

	lastOverlay string
	log         *slog.Logger
}

// NewSession creates a session editing doc with the given initial configuration.
func NewSession(doc *document.Document, cfg engine.Config, userID, clientID string, out Sender, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("client", clientID, "document", doc.ID)

	s := &Session{
		ClientID:   clientID,
		UserID:     userID,
		DocumentID: doc.ID,
		doc:        doc,
		out:        out,
		log:        log,
	}

	s.engine = engine.NewEngine(doc.Scene(), cfg)
	s.engine.SetLogger(log)
	s.engine.OnSceneChange(func(elements []scene.Element) {
		s.generation++
		s.sendLocked(TypeSceneUpdate, SceneUpdatePayload{Elements: elements})
	})
	s.engine.OnSelectionChange(func(ids []string) {
		if ids == nil {
			ids = []string{}
		}
		s.sendLocked(TypeSelectionUpdate, SelectionPayload{IDs: ids})
	})

	return s
}

// SubscribeKeys implements engine.KeySource. key.down messages are delivered to the
// subscribed handler; without one they are dropped.
func (s *Session) SubscribeKeys(handler func(engine.KeyEvent)) func() {
	s.keyHandler = handler
	return func() {
		s.keyHandler = nil
	}
}

// Open greets the client, sends the document and mounts the engine's keyboard.
func (s *Session) Open() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sendLocked(TypeWelcome, WelcomePayload{
		ClientID:   s.ClientID,
		UserID:     s.UserID,
		DocumentID: s.DocumentID,
	})
	s.sendLocked(TypeDocSync, DocSyncPayload{
		Document: s.documentLocked(),
		Config:   s.engine.Config(),
	})
	s.engine.Mount(s)
}

// Close unmounts the engine's keyboard.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Unmount()
}

// Handle applies one client message to the engine. Malformed payloads are logged
// and ignored; unknown message types return ErrUnknownMessage.
func (s *Session) Handle(msg *Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch msg.Type {
	case TypePointerDown, TypePointerMove, TypePointerUp:
		var p PointerPayload
		if !s.decode(msg, &p) {
			return nil
		}
		s.engine.HandlePointer(engine.PointerEvent{
			Kind:     pointerKinds[msg.Type],
			X:        p.X,
			Y:        p.Y,
			Shift:    p.Shift,
			Additive: p.Additive,
		})

	case TypeKeyDown:
		var p KeyPayload
		if !s.decode(msg, &p) {
			return nil
		}
		key := engine.ParseKey(p.Key)
		if key == engine.KeyUnknown || s.keyHandler == nil {
			return nil
		}
		s.keyHandler(engine.KeyEvent{Key: key, Shift: p.Shift})

	case TypeViewScale:
		var p ViewScalePayload
		if !s.decode(msg, &p) {
			return nil
		}
		s.engine.SetViewScale(p.Scale)

	case TypeConfigUpdate:
		// Fields absent from the payload keep their current values.
		cfg := s.engine.Config()
		if !s.decode(msg, &cfg) {
			return nil
		}
		s.engine.SetConfig(cfg)

	case TypeSelectionSet:
		var p SelectionPayload
		if !s.decode(msg, &p) {
			return nil
		}
		s.engine.SetSelection(p.IDs)

	case TypeElementUpsert:
		var p ElementUpsertPayload
		if !s.decode(msg, &p) {
			return nil
		}
		if p.Element.ID == "" {
			p.Element.ID = typeid.NewElementID()
		}
		s.engine.Upsert(p.Element)

	case TypeElementRemove:
		var p ElementRemovePayload
		if !s.decode(msg, &p) {
			return nil
		}
		if !s.engine.Remove(p.ID) {
			s.log.Warn("remove of unknown element", "element", p.ID)
		}

	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
	}

	s.sendOverlayLocked()
	return nil
}

var pointerKinds = map[string]engine.PointerKind{
	TypePointerDown: engine.PointerDown,
	TypePointerMove: engine.PointerMove,
	TypePointerUp:   engine.PointerUp,
}

func (s *Session) decode(msg *Message, v any) bool {
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		s.log.Warn("invalid payload", "type", msg.Type, "error", err)
		return false
	}
	return true
}

// Snapshot returns the current document and the change generation it reflects.
// dirty reports whether that generation has not been saved yet.
func (s *Session) Snapshot() (doc *document.Document, generation uint64, dirty bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.documentLocked(), s.generation, s.generation != s.saved
}

// MarkSaved records that generation was persisted as version. Changes made while
// the save was in flight keep the session dirty.
func (s *Session) MarkSaved(generation uint64, version int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if generation > s.saved {
		s.saved = generation
	}
	s.doc.Version = version
	s.sendLocked(TypeDocSaved, DocSavedPayload{Version: version})
}

// Dirty reports whether the session has unsaved changes.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation != s.saved
}

// Engine exposes the session's engine for inspection. Callers must not use it
// concurrently with Handle.
func (s *Session) Engine() *engine.Engine {
	return s.engine
}

// SendError reports a failure to the client.
func (s *Session) SendError(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sendLocked(TypeError, ErrorPayload{Message: message})
}

func (s *Session) documentLocked() *document.Document {
	doc := *s.doc
	doc.Elements = s.engine.Scene()
	return &doc
}

func (s *Session) sendOverlayLocked() {
	o := s.engine.Overlay()
	encoded, err := engine.OverlayToJSON(o)
	if err != nil {
		s.log.Error("marshal overlay", "error", err)
		return
	}
	if encoded == s.lastOverlay {
		return
	}
	s.lastOverlay = encoded
	s.sendRawLocked(TypeOverlayUpdate, json.RawMessage(encoded))
}

func (s *Session) sendLocked(typ string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.log.Error("marshal payload", "type", typ, "error", err)
		return
	}
	s.sendRawLocked(typ, data)
}

func (s *Session) sendRawLocked(typ string, payload json.RawMessage) {
	if s.out == nil {
		return
	}
	s.seq++
	s.out.Send(&Message{
		Type:       typ,
		DocumentID: s.DocumentID,
		ClientID:   s.ClientID,
		Seq:        s.seq,
		Payload:    payload,
	})
}
