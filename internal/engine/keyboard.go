package engine

const (
	nudgeStep      = 1.0
	shiftNudgeStep = 10.0
)

// Mount subscribes the engine to src's keyboard events. Mounting again replaces the
// previous subscription.
func (e *Engine) Mount(src KeySource) {
	e.Unmount()
	e.unsubscribeKeys = src.SubscribeKeys(e.HandleKey)
}

// Unmount drops the keyboard subscription, if any.
func (e *Engine) Unmount() {
	if e.unsubscribeKeys != nil {
		e.unsubscribeKeys()
		e.unsubscribeKeys = nil
	}
}

// Mounted reports whether the engine holds a keyboard subscription.
func (e *Engine) Mounted() bool {
	return e.unsubscribeKeys != nil
}

// HandleKey routes a key press through the transition table.
func (e *Engine) HandleKey(ev KeyEvent) {
	if e.keyGuard != nil && e.keyGuard() {
		return
	}

	switch ev.Key {
	case KeyEscape:
		if e.state != StateIdle {
			e.endGesture()
			return
		}
		if e.selection.Clear() {
			e.emitSelection()
		}

	case KeyArrowUp, KeyArrowDown, KeyArrowLeft, KeyArrowRight:
		if e.state != StateIdle || e.selection.IsEmpty() {
			return
		}
		e.nudge(ev)

	case KeyDelete, KeyBackspace:
		if e.state != StateIdle || e.selection.IsEmpty() {
			return
		}
		for _, id := range e.selection.IDs() {
			e.scene.Remove(id)
		}
		e.selection.Clear()
		e.emitScene()
		e.emitSelection()
	}
}

func (e *Engine) nudge(ev KeyEvent) {
	step := nudgeStep
	if ev.Shift {
		step = shiftNudgeStep
	}

	var dx, dy float64
	switch ev.Key {
	case KeyArrowUp:
		dy = -step
	case KeyArrowDown:
		dy = step
	case KeyArrowLeft:
		dx = -step
	case KeyArrowRight:
		dx = step
	}

	for _, el := range e.selection.Elements(e.scene) {
		el.X += dx
		el.Y += dy
		e.scene.Upsert(el)
	}
	e.emitScene()
}
