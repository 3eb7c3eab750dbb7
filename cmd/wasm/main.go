//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/inamate/canvas-editor/backend-go/internal/document"
	"github.com/inamate/canvas-editor/backend-go/internal/engine"
	"github.com/inamate/canvas-editor/backend-go/internal/scene"
)

var (
	eng          *engine.Engine
	canvasEngine js.Value
	textEditing  bool
)

func main() {
	eng = engine.NewEngine(nil, engine.DefaultConfig())
	eng.SetKeyGuard(func() bool { return textEditing })

	// Create the engine API object
	canvasEngine = js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	canvasEngine.Set("loadDocument", js.FuncOf(loadDocument))
	canvasEngine.Set("loadSampleDocument", js.FuncOf(loadSampleDocument))
	canvasEngine.Set("pointerDown", js.FuncOf(pointerHandler(engine.PointerDown)))
	canvasEngine.Set("pointerMove", js.FuncOf(pointerHandler(engine.PointerMove)))
	canvasEngine.Set("pointerUp", js.FuncOf(pointerHandler(engine.PointerUp)))
	canvasEngine.Set("setViewScale", js.FuncOf(setViewScale))
	canvasEngine.Set("setConfig", js.FuncOf(setConfig))
	canvasEngine.Set("setSelection", js.FuncOf(setSelection))
	canvasEngine.Set("mountKeyboard", js.FuncOf(mountKeyboard))
	canvasEngine.Set("unmountKeyboard", js.FuncOf(unmountKeyboard))
	canvasEngine.Set("setTextEditing", js.FuncOf(setTextEditing))

	// --- Queries (frontend ← backend) ---
	canvasEngine.Set("getScene", js.FuncOf(getScene))
	canvasEngine.Set("getSelection", js.FuncOf(getSelection))
	canvasEngine.Set("getSelectionBounds", js.FuncOf(getSelectionBounds))
	canvasEngine.Set("getOverlay", js.FuncOf(getOverlay))
	canvasEngine.Set("getState", js.FuncOf(getState))

	// Change notifications go to optional callbacks on the API object
	eng.OnSceneChange(func(elements []scene.Element) {
		notify("onSceneChange", elements)
	})
	eng.OnSelectionChange(func(ids []string) {
		if ids == nil {
			ids = []string{}
		}
		notify("onSelectionChange", ids)
	})

	// Register on global scope
	js.Global().Set("canvasEngine", canvasEngine)

	// Signal that WASM is ready
	js.Global().Set("canvasWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func notify(name string, v any) {
	fn := canvasEngine.Get(name)
	if fn.Type() != js.TypeFunction {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	fn.Invoke(string(data))
}

func errorResult(msg string) js.Value {
	return js.ValueOf(map[string]interface{}{"error": msg})
}

func okResult() js.Value {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func toJSON(v any) js.Value {
	data, err := json.Marshal(v)
	if err != nil {
		return js.ValueOf("null")
	}
	return js.ValueOf(string(data))
}

// --- Keyboard ---

// windowKeys subscribes to keydown events on window.
type windowKeys struct{}

func (windowKeys) SubscribeKeys(handler func(engine.KeyEvent)) func() {
	listener := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if len(args) < 1 {
			return nil
		}
		ev := args[0]
		key := engine.ParseKey(ev.Get("key").String())
		if key == engine.KeyUnknown {
			return nil
		}
		// Keep arrows and Backspace from scrolling or navigating the page
		if key != engine.KeyEscape && !textEditing {
			ev.Call("preventDefault")
		}
		handler(engine.KeyEvent{Key: key, Shift: ev.Get("shiftKey").Bool()})
		return nil
	})

	window := js.Global().Get("window")
	window.Call("addEventListener", "keydown", listener)

	return func() {
		window.Call("removeEventListener", "keydown", listener)
		listener.Release()
	}
}

func mountKeyboard(this js.Value, args []js.Value) interface{} {
	eng.Mount(windowKeys{})
	return nil
}

func unmountKeyboard(this js.Value, args []js.Value) interface{} {
	eng.Unmount()
	return nil
}

func setTextEditing(this js.Value, args []js.Value) interface{} {
	textEditing = len(args) > 0 && args[0].Truthy()
	return nil
}

// --- Command Handlers ---

func loadDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("missing document JSON")
	}

	var doc document.Document
	if err := json.Unmarshal([]byte(args[0].String()), &doc); err != nil {
		return errorResult(err.Error())
	}

	eng.LoadElements(doc.Scene().All())
	return okResult()
}

func loadSampleDocument(this js.Value, args []js.Value) interface{} {
	documentID := "doc_sample"
	if len(args) > 0 && args[0].Type() == js.TypeString {
		documentID = args[0].String()
	}

	eng.LoadElements(document.NewSampleDocument(documentID).Elements)
	return okResult()
}

func pointerHandler(kind engine.PointerKind) func(js.Value, []js.Value) interface{} {
	return func(this js.Value, args []js.Value) interface{} {
		if len(args) < 2 {
			return nil
		}
		ev := engine.PointerEvent{
			Kind: kind,
			X:    args[0].Float(),
			Y:    args[1].Float(),
		}
		if len(args) > 2 {
			ev.Shift = args[2].Truthy()
		}
		if len(args) > 3 {
			ev.Additive = args[3].Truthy()
		}
		eng.HandlePointer(ev)
		return nil
	}
}

func setViewScale(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	eng.SetViewScale(args[0].Float())
	return nil
}

func setConfig(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("missing config JSON")
	}

	cfg := eng.Config()
	if err := json.Unmarshal([]byte(args[0].String()), &cfg); err != nil {
		return errorResult(err.Error())
	}
	eng.SetConfig(cfg)
	return okResult()
}

func setSelection(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		eng.SetSelection(nil)
		return nil
	}

	arr := args[0]
	if arr.Type() != js.TypeObject {
		eng.SetSelection(nil)
		return nil
	}

	length := arr.Length()
	ids := make([]string, length)
	for i := 0; i < length; i++ {
		ids[i] = arr.Index(i).String()
	}
	eng.SetSelection(ids)
	return nil
}

// --- Query Handlers ---

func getScene(this js.Value, args []js.Value) interface{} {
	return toJSON(eng.Scene())
}

func getSelection(this js.Value, args []js.Value) interface{} {
	ids := eng.Selection()
	if ids == nil {
		ids = []string{}
	}
	return toJSON(ids)
}

func getSelectionBounds(this js.Value, args []js.Value) interface{} {
	b, ok := eng.SelectionBounds()
	if !ok {
		return js.ValueOf("null")
	}
	return toJSON(b)
}

func getOverlay(this js.Value, args []js.Value) interface{} {
	s, err := engine.OverlayToJSON(eng.Overlay())
	if err != nil {
		return js.ValueOf("{}")
	}
	return js.ValueOf(s)
}

func getState(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.State().String())
}
