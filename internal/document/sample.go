package document

import (
	"encoding/json"

	"github.com/inamate/canvas-editor/backend-go/internal/scene"
	"github.com/inamate/canvas-editor/backend-go/internal/typeid"
)

// NewSampleDocument returns a one-page resume used by the playground.
func NewSampleDocument(id string) *Document {
	doc := NewEmptyDocument(id, "Sample Resume")

	doc.Elements = []scene.Element{
		{
			ID:      typeid.NewElementID(),
			Kind:    scene.KindShape,
			X:       0,
			Y:       0,
			Width:   PageWidth,
			Height:  120,
			Scale:   1,
			ZIndex:  0,
			Locked:  true,
			Visible: true,
			Data:    json.RawMessage(`{"shape":"rect","fill":"#1f3a5f"}`),
		},
		{
			ID:      typeid.NewElementID(),
			Kind:    scene.KindText,
			X:       48,
			Y:       36,
			Width:   360,
			Height:  48,
			Scale:   1,
			ZIndex:  1,
			Visible: true,
			Data:    json.RawMessage(`{"text":"Jordan Rivera","fontSize":32,"color":"#ffffff"}`),
		},
		{
			ID:      typeid.NewElementID(),
			Kind:    scene.KindImage,
			X:       468,
			Y:       20,
			Width:   96,
			Height:  96,
			Scale:   1,
			ZIndex:  1,
			Visible: true,
			Data:    json.RawMessage(`{"src":"/assets/sample/portrait.png","fit":"cover"}`),
		},
		{
			ID:      typeid.NewElementID(),
			Kind:    scene.KindText,
			X:       48,
			Y:       150,
			Width:   516,
			Height:  120,
			Scale:   1,
			ZIndex:  1,
			Visible: true,
			Data:    json.RawMessage(`{"text":"Experience\nSenior Engineer, Acme Corp (2021 - present)","fontSize":12}`),
		},
		{
			ID:      typeid.NewElementID(),
			Kind:    scene.KindShape,
			X:       48,
			Y:       290,
			Width:   516,
			Height:  10,
			Scale:   1,
			ZIndex:  1,
			Visible: true,
			Data:    json.RawMessage(`{"shape":"line","stroke":"#c0c0c0"}`),
		},
		{
			ID:       typeid.NewElementID(),
			Kind:     scene.KindAnnotation,
			X:        420,
			Y:        320,
			Width:    140,
			Height:   60,
			Rotation: 4,
			Scale:    1,
			ZIndex:   2,
			Visible:  true,
			Data:     json.RawMessage(`{"note":"Add metrics here","color":"#ffe066"}`),
		},
		{
			ID:      typeid.NewElementID(),
			Kind:    scene.KindForm,
			X:       48,
			Y:       700,
			Width:   220,
			Height:  40,
			Scale:   1,
			ZIndex:  1,
			Visible: true,
			Data:    json.RawMessage(`{"field":"signature","required":true}`),
		},
	}

	return doc
}
