package lattice

// syntheticPointerEvent represents a single injected pointer event in
// surface pixel coordinates, the same space live input is reported in.
type syntheticPointerEvent struct {
	x, y    float64
	pressed bool
	leave   bool
	button  MouseButton
}

// InjectPress queues a pointer press at (x, y) with the given button. The
// event is consumed on the next Tick.
func (v *Visualization) InjectPress(x, y float64, button MouseButton) {
	if v.destroyed {
		return
	}
	v.input.enqueue(syntheticPointerEvent{x: x, y: y, pressed: true, button: button})
}

// InjectMove queues a pointer move to (x, y). If a button is held from a
// previous InjectPress it stays held.
func (v *Visualization) InjectMove(x, y float64) {
	if v.destroyed {
		return
	}
	held, button := v.input.pointers[0].down, v.input.pointers[0].button
	if n := len(v.input.injectQueue); n > 0 {
		last := v.input.injectQueue[n-1]
		held, button = last.pressed, last.button
	}
	v.input.enqueue(syntheticPointerEvent{x: x, y: y, pressed: held, button: button})
}

// InjectRelease queues a pointer release at (x, y).
func (v *Visualization) InjectRelease(x, y float64) {
	if v.destroyed {
		return
	}
	v.input.enqueue(syntheticPointerEvent{x: x, y: y})
}

// InjectLeave queues the pointer leaving the surface.
func (v *Visualization) InjectLeave() {
	if v.destroyed {
		return
	}
	v.input.enqueue(syntheticPointerEvent{leave: true})
}

// InjectClick is a convenience that queues a primary press followed by a
// release at the same position. Consumes two ticks.
func (v *Visualization) InjectClick(x, y float64) {
	v.InjectPress(x, y, MouseButtonLeft)
	v.InjectRelease(x, y)
}

// InjectDrag queues a press at (fromX, fromY), linearly interpolated moves
// over frames-2 intermediate ticks and a release at (toX, toY). Minimum
// frames is 2 (press + release).
func (v *Visualization) InjectDrag(fromX, fromY, toX, toY float64, frames int, button MouseButton) {
	if frames < 2 {
		frames = 2
	}
	v.InjectPress(fromX, fromY, button)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		v.InjectMove(lerp(fromX, toX, t), lerp(fromY, toY, t))
	}
	v.InjectRelease(toX, toY)
}

func (in *InputController) enqueue(evt syntheticPointerEvent) {
	in.injectQueue = append(in.injectQueue, evt)
}

// pending reports how many injected events are still queued.
func (in *InputController) pending() int {
	return len(in.injectQueue)
}

// processInjectedInput pops one event from the inject queue and feeds it to
// the mouse pointer. Returns true if an event was consumed (live input is
// skipped that frame).
func (in *InputController) processInjectedInput() bool {
	if len(in.injectQueue) == 0 {
		return false
	}
	evt := in.injectQueue[0]
	copy(in.injectQueue, in.injectQueue[1:])
	in.injectQueue = in.injectQueue[:len(in.injectQueue)-1]

	if evt.leave {
		in.leave(0)
		return true
	}
	in.processPointer(0, evt.x, evt.y, evt.pressed, evt.button)
	return true
}
