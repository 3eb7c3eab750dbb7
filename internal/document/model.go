package document

import (
	"errors"
	"time"

	"github.com/inamate/canvas-editor/backend-go/internal/scene"
	"github.com/inamate/canvas-editor/backend-go/internal/typeid"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrForbidden = errors.New("forbidden")
)

// US letter in points.
const (
	PageWidth  = 612
	PageHeight = 792
)

type Document struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	OwnerID    string          `json:"ownerId,omitempty"`
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	Background string          `json:"background"`
	Version    int             `json:"version"`
	CreatedAt  string          `json:"createdAt"`
	UpdatedAt  string          `json:"updatedAt"`
	Elements   []scene.Element `json:"elements"`
}

// NewEmptyDocument creates a blank page.
func NewEmptyDocument(id, name string) *Document {
	now := time.Now().UTC().Format(time.RFC3339)
	return &Document{
		ID:         id,
		Name:       name,
		Width:      PageWidth,
		Height:     PageHeight,
		Background: "#ffffff",
		Version:    0,
		CreatedAt:  now,
		UpdatedAt:  now,
		Elements:   []scene.Element{},
	}
}

// Scene builds an editable scene from the document's elements. Elements without an
// ID are given one.
func (d *Document) Scene() *scene.Scene {
	elements := make([]scene.Element, len(d.Elements))
	for i, el := range d.Elements {
		if el.ID == "" {
			el.ID = typeid.NewElementID()
		}
		elements[i] = el
	}
	return scene.New(elements...)
}

// SetElements replaces the document contents and bumps UpdatedAt.
func (d *Document) SetElements(elements []scene.Element) {
	d.Elements = elements
	d.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
}
