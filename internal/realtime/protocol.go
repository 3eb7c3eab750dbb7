package realtime

import (
	"encoding/json"

	"github.com/inamate/canvas-editor/backend-go/internal/document"
	"github.com/inamate/canvas-editor/backend-go/internal/engine"
	"github.com/inamate/canvas-editor/backend-go/internal/scene"
)

type Message struct {
	Type       string          `json:"type"`
	DocumentID string          `json:"documentId,omitempty"`
	ClientID   string          `json:"clientId,omitempty"`
	UserID     string          `json:"userId,omitempty"`
	Seq        int64           `json:"seq,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

const (
	// Client -> server
	TypePointerDown   = "pointer.down"
	TypePointerMove   = "pointer.move"
	TypePointerUp     = "pointer.up"
	TypeKeyDown       = "key.down"
	TypeViewScale     = "view.scale"
	TypeConfigUpdate  = "config.update"
	TypeSelectionSet  = "selection.set"
	TypeElementUpsert = "element.upsert"
	TypeElementRemove = "element.remove"
	TypeDocSave       = "doc.save"

	// Server -> client
	TypeWelcome         = "welcome"
	TypeDocSync         = "doc.sync"
	TypeSceneUpdate     = "scene.update"
	TypeSelectionUpdate = "selection.update"
	TypeOverlayUpdate   = "overlay.update"
	TypeDocSaved        = "doc.saved"
	TypeError           = "error"
)

// PointerPayload carries a pointer position in scene units.
type PointerPayload struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Shift    bool    `json:"shift"`
	Additive bool    `json:"additive"`
}

// KeyPayload carries a DOM KeyboardEvent.key name.
type KeyPayload struct {
	Key   string `json:"key"`
	Shift bool   `json:"shift"`
}

type ViewScalePayload struct {
	Scale float64 `json:"scale"`
}

type SelectionPayload struct {
	IDs []string `json:"ids"`
}

type ElementUpsertPayload struct {
	Element scene.Element `json:"element"`
}

type ElementRemovePayload struct {
	ID string `json:"id"`
}

type WelcomePayload struct {
	ClientID   string `json:"clientId"`
	UserID     string `json:"userId"`
	DocumentID string `json:"documentId"`
}

type DocSyncPayload struct {
	Document *document.Document `json:"document"`
	Config   engine.Config      `json:"config"`
}

type SceneUpdatePayload struct {
	Elements []scene.Element `json:"elements"`
}

type DocSavedPayload struct {
	Version int `json:"version"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
