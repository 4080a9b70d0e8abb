package lattice

import (
	"strings"
	"testing"
)

func TestLoadTestScript(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		wantErr string
	}{
		{"valid", `{"steps":[{"action":"wait","frames":2},{"action":"mode","mode":"cluster"}]}`, ""},
		{"malformed", `{"steps":[`, "parse test script"},
		{"empty", `{"steps":[]}`, "no steps"},
		{"unknown action", `{"steps":[{"action":"explode"}]}`, `unknown action "explode"`},
		{"unknown mode", `{"steps":[{"action":"mode","mode":"spiral"}]}`, "step 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := LoadTestScript([]byte(tt.script))
			if tt.wantErr == "" {
				if err != nil || r == nil {
					t.Fatalf("LoadTestScript: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestTestRunnerDrivesVisualization(t *testing.T) {
	script := `{"steps":[
		{"action":"mode","mode":"cluster"},
		{"action":"wait","frames":3},
		{"action":"logo"},
		{"action":"move","x":120,"y":80},
		{"action":"resize","width":640,"height":400},
		{"action":"wait","frames":20},
		{"action":"leave"}
	]}`
	r, err := LoadTestScript([]byte(script))
	if err != nil {
		t.Fatal(err)
	}
	v := newTestVisualization(t, testOptions())
	v.SetTestRunner(r)

	v.Tick(fastFrame)
	if v.Mode() != ModeCluster {
		t.Fatalf("after step 1 Mode() = %v, want cluster", v.Mode())
	}
	for i := 0; i < 100 && !r.Done(); i++ {
		v.Tick(fastFrame)
		if v.Mode() == ModeLogo {
			break
		}
	}
	if v.Mode() != ModeLogo {
		t.Fatalf("logo step not applied: Mode() = %v", v.Mode())
	}
	for i := 0; i < 200 && !r.Done(); i++ {
		v.Tick(fastFrame)
	}
	if !r.Done() {
		t.Fatal("script never finished")
	}
	if b := v.Bounds(); b.Width != 640 || b.Height != 400 {
		t.Errorf("Bounds() = %+v, want 640x400", b)
	}
	if v.pointer.Active {
		t.Error("pointer still active after leave")
	}
}

func TestTestRunnerWaitsForInjectedInput(t *testing.T) {
	script := `{"steps":[
		{"action":"drag","fromX":10,"fromY":10,"toX":100,"toY":10,"frames":6},
		{"action":"mode","mode":"cluster"}
	]}`
	r, err := LoadTestScript([]byte(script))
	if err != nil {
		t.Fatal(err)
	}
	v := newTestVisualization(t, testOptions())
	v.SetTestRunner(r)

	// The drag queues 6 events; the mode step waits until they drain.
	for i := 0; i < 6; i++ {
		v.Tick(fastFrame)
		if v.Mode() == ModeCluster {
			t.Fatalf("mode step ran on frame %d while input was pending", i)
		}
	}
	v.Tick(fastFrame)
	if v.Mode() != ModeCluster {
		t.Errorf("Mode() = %v after the drag drained, want cluster", v.Mode())
	}
	if !r.Done() {
		t.Error("runner not done after the last step")
	}
}

func TestTestRunnerRepelUsesSecondaryButton(t *testing.T) {
	r, err := LoadTestScript([]byte(`{"steps":[{"action":"repel","fromX":300,"fromY":300,"toX":320,"toY":300,"frames":4}]}`))
	if err != nil {
		t.Fatal(err)
	}
	v := newTestVisualization(t, testOptions())
	v.SetTestRunner(r)
	v.Tick(fastFrame)
	if v.pointer.Mode != PointerModeRepel {
		t.Errorf("pointer = %+v, want repel", v.pointer)
	}
}
