package lattice

import "github.com/hajimehoshi/ebiten/v2"

// --- Constants ---

const maxPointers = 10 // pointer 0 = mouse, 1-9 = touch

// --- Per-pointer state ---

type pointerState struct {
	inside    bool // over the surface (mouse) or touching (touch)
	down      bool
	x, y      float64
	button    MouseButton // button captured at press time
	pressed   bool        // went down this frame
	released  bool        // went up this frame
	pressNode int         // node hovered when the press started, or -1
}

// InputController turns pointer and touch input into the per-frame pointer
// snapshot, the hovered node and node clicks. Coordinates are surface pixels.
type InputController struct {
	pointers  [maxPointers]pointerState
	touchMap  [maxPointers]ebiten.TouchID
	touchUsed [maxPointers]bool
	touchIDs  []ebiten.TouchID

	injectQueue []syntheticPointerEvent

	hoverRadius float64
	width       float64
	height      float64
	hovered     int
	clicks      []int
	neigh       []int
}

// NewInputController creates a controller for a surface of the given size.
func NewInputController(hoverRadius, width, height float64) *InputController {
	in := &InputController{
		hoverRadius: hoverRadius,
		width:       width,
		height:      height,
		hovered:     -1,
	}
	for i := range in.pointers {
		in.pointers[i].pressNode = -1
	}
	return in
}

// SetSize updates the surface size used to detect the mouse leaving.
func (in *InputController) SetSize(width, height float64) {
	in.width, in.height = width, height
}

// Hovered returns the hovered node index, or -1.
func (in *InputController) Hovered() int { return in.hovered }

// Clicks returns the nodes clicked this frame. The returned slice MUST NOT be
// mutated and is only valid until the next Poll.
func (in *InputController) Clicks() []int { return in.clicks }

// Poll takes this frame's input snapshot. One injected event is consumed per
// frame when queued; otherwise live Ebitengine input is read when live is set.
func (in *InputController) Poll(live bool) {
	for i := range in.pointers {
		in.pointers[i].pressed = false
		in.pointers[i].released = false
	}
	in.clicks = in.clicks[:0]

	if in.processInjectedInput() {
		return
	}
	if !live {
		return
	}
	in.processMousePointer()
	in.processTouchPointers()
}

// processMousePointer handles mouse input (pointer 0).
func (in *InputController) processMousePointer() {
	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)
	inside := x >= 0 && y >= 0 && x < in.width && y < in.height

	// Keep the button captured at press time for the whole interaction.
	var pressed bool
	var button MouseButton
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	if left || right {
		pressed = true
		if right && !left {
			button = MouseButtonRight
		}
	}
	if !inside && !pressed {
		in.leave(0)
		return
	}
	in.processPointer(0, x, y, pressed, button)
}

// processTouchPointers handles touch input (pointers 1-9).
func (in *InputController) processTouchPointers() {
	in.touchIDs = ebiten.AppendTouchIDs(in.touchIDs[:0])

	var activeSlots [maxPointers]bool
	for _, tid := range in.touchIDs {
		slot := in.touchSlot(tid)
		if slot < 0 {
			continue
		}
		activeSlots[slot] = true

		tx, ty := ebiten.TouchPosition(tid)
		in.processPointer(slot, float64(tx), float64(ty), true, MouseButtonLeft)
	}

	// Touch end behaves like the mouse leaving the surface.
	for i := 1; i < maxPointers; i++ {
		if in.touchUsed[i] && !activeSlots[i] {
			in.leave(i)
			in.touchUsed[i] = false
			in.touchMap[i] = 0
		}
	}
}

// touchSlot maps an ebiten.TouchID to a pointer slot (1-9).
// Returns the existing slot or allocates a new one. Returns -1 if full.
func (in *InputController) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if in.touchUsed[i] && in.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !in.touchUsed[i] {
			in.touchUsed[i] = true
			in.touchMap[i] = tid
			return i
		}
	}
	return -1
}

// processPointer runs the press/release state machine for one pointer.
func (in *InputController) processPointer(id int, x, y float64, pressed bool, button MouseButton) {
	ps := &in.pointers[id]
	ps.inside = true
	ps.x, ps.y = x, y

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.pressed = true
		ps.button = button
	case !pressed && ps.down:
		ps.down = false
		ps.released = true
	}
}

// leave clears a pointer that left the surface or lifted its touch. A held
// press is released at the last position so a tap still counts as a click.
func (in *InputController) leave(id int) {
	ps := &in.pointers[id]
	if ps.down {
		ps.down = false
		ps.released = true
	}
	ps.inside = false
}

// primary returns the pointer slot driving this frame: the first active or
// just-lifted touch, else the mouse. Returns -1 when nothing is tracked.
func (in *InputController) primary() int {
	for i := 1; i < maxPointers; i++ {
		if in.pointers[i].inside || in.pointers[i].released {
			return i
		}
	}
	if in.pointers[0].inside || in.pointers[0].released {
		return 0
	}
	return -1
}

// Pointer returns the pointer force input for this frame. A pointer over
// the surface attracts; holding the secondary button repels.
func (in *InputController) Pointer() PointerState {
	id := in.primary()
	if id < 0 || !in.pointers[id].inside {
		return PointerState{}
	}
	ps := &in.pointers[id]
	mode := PointerModeAttract
	if ps.down && ps.button == MouseButtonRight {
		mode = PointerModeRepel
	}
	return PointerState{Active: true, X: ps.x, Y: ps.y, Mode: mode}
}

// Resolve hit-tests the primary pointer against the graph and records
// clicks. grid must have been rebuilt for the current positions.
func (in *InputController) Resolve(g *Graph, grid *SpatialIndex) {
	id := in.primary()
	if id < 0 {
		in.hovered = -1
		return
	}
	ps := &in.pointers[id]
	if ps.inside || ps.released {
		in.hovered = in.hitTest(g, grid, ps.x, ps.y)
	} else {
		in.hovered = -1
	}

	if ps.pressed && ps.button == MouseButtonLeft {
		ps.pressNode = in.hovered
	}
	if ps.released {
		if ps.pressNode >= 0 && ps.pressNode == in.hovered && ps.button == MouseButtonLeft {
			in.clicks = append(in.clicks, ps.pressNode)
		}
		ps.pressNode = -1
	}
}

// hitTest returns the nearest node within the hover radius, or -1. The grid
// query only sees the 3x3 block of cells, so larger radii fall back to a
// full scan.
func (in *InputController) hitTest(g *Graph, grid *SpatialIndex, x, y float64) int {
	r2 := in.hoverRadius * in.hoverRadius
	best, bestD := -1, 0.0
	consider := func(i int) {
		if i < 0 || i >= len(g.X) {
			return
		}
		d := sq(g.X[i]-x) + sq(g.Y[i]-y)
		if d <= r2 && (best < 0 || d < bestD) {
			best, bestD = i, d
		}
	}
	if grid != nil && in.hoverRadius <= grid.CellSize() {
		in.neigh = grid.AppendNeighbors(in.neigh[:0], x, y)
		for _, i := range in.neigh {
			consider(i)
		}
		return best
	}
	for i := range g.X {
		consider(i)
	}
	return best
}

// forget drops hover and press references to nodes at or beyond n.
func (in *InputController) forget(n int) {
	if in.hovered >= n {
		in.hovered = -1
	}
	for i := range in.pointers {
		if in.pointers[i].pressNode >= n {
			in.pointers[i].pressNode = -1
		}
	}
	in.clicks = in.clicks[:0]
}
