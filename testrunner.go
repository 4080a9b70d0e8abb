package lattice

import (
	"encoding/json"
	"errors"
	"fmt"
)

// rawStep is one entry of a script's "steps" array. Which fields matter
// depends on Action.
type rawStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	Mode   string  `json:"mode,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
	Width  int     `json:"width,omitempty"`
	Height int     `json:"height,omitempty"`
}

// scriptAction applies one compiled step. It returns the number of extra
// frames the runner should idle afterwards.
type scriptAction func(v *Visualization) (idle int)

var errNoSteps = errors.New("no steps")

// compileStep turns a raw step into an action, validating its arguments.
func compileStep(st rawStep) (scriptAction, error) {
	switch st.Action {
	case "screenshot":
		label := st.Label
		return func(v *Visualization) int { v.Screenshot(label); return 0 }, nil
	case "click":
		x, y := st.X, st.Y
		return func(v *Visualization) int { v.InjectClick(x, y); return 0 }, nil
	case "move":
		x, y := st.X, st.Y
		return func(v *Visualization) int { v.InjectMove(x, y); return 0 }, nil
	case "leave":
		return func(v *Visualization) int { v.InjectLeave(); return 0 }, nil
	case "drag", "repel":
		button := MouseButtonLeft
		if st.Action == "repel" {
			button = MouseButtonRight
		}
		frames := max(st.Frames, 2)
		return func(v *Visualization) int {
			v.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, frames, button)
			return 0
		}, nil
	case "mode":
		m, err := ParseMode(st.Mode)
		if err != nil {
			return nil, err
		}
		return func(v *Visualization) int { v.SetMode(m); return 0 }, nil
	case "logo":
		return func(v *Visualization) int { v.FormLogo(); return 0 }, nil
	case "resize":
		w, h := st.Width, st.Height
		return func(v *Visualization) int { v.Resize(w, h); return 0 }, nil
	case "wait":
		// The frame the step runs on counts as the first waited frame.
		idle := max(st.Frames-1, 0)
		return func(*Visualization) int { return idle }, nil
	default:
		return nil, fmt.Errorf("unknown action %q", st.Action)
	}
}

// TestRunner plays a JSON script against a Visualization, one step per
// frame, for automated visual testing. Attach with SetTestRunner.
//
// A script looks like:
//
//	{"steps": [
//		{"action": "mode", "mode": "cluster"},
//		{"action": "wait", "frames": 120},
//		{"action": "repel", "fromX": 200, "fromY": 200, "toX": 400, "toY": 200, "frames": 30},
//		{"action": "screenshot", "label": "cluster-repel"}
//	]}
//
// Actions: screenshot, click, move, leave, drag, repel, mode, logo,
// resize, wait. A step never starts while injected input is still queued.
type TestRunner struct {
	actions []scriptAction
	next    int
	idle    int
	done    bool
}

// LoadTestScript parses and validates a JSON test script.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script struct {
		Steps []rawStep `json:"steps"`
	}
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: %w", errNoSteps)
	}
	r := &TestRunner{actions: make([]scriptAction, 0, len(script.Steps))}
	for i, st := range script.Steps {
		act, err := compileStep(st)
		if err != nil {
			return nil, fmt.Errorf("parse test script: step %d: %w", i, err)
		}
		r.actions = append(r.actions, act)
	}
	return r, nil
}

// SetTestRunner attaches a TestRunner. It advances at the start of every
// Tick, before input is polled. Pass nil to detach.
func (v *Visualization) SetTestRunner(runner *TestRunner) {
	v.testRunner = runner
}

// Done reports whether every step has run and its input has drained.
func (r *TestRunner) Done() bool {
	return r.done
}

func (r *TestRunner) step(v *Visualization) {
	switch {
	case r.done, v.input.pending() > 0:
		return
	case r.idle > 0:
		r.idle--
		return
	case r.next >= len(r.actions):
		r.done = true
		return
	}

	r.idle = r.actions[r.next](v)
	r.next++
	r.done = r.next == len(r.actions) && r.idle == 0 && v.input.pending() == 0
}
