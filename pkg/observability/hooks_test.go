package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	c := NoopConvergenceHooks{}
	c.OnStep(ctx, "random", 12, false)
	c.OnPhase(ctx, "resolving", "paused")

	i := NoopImageHooks{}
	i.OnOpen(ctx, "in.png", 64, time.Millisecond, nil)
	i.OnSave(ctx, "out.png", time.Millisecond, errors.New("disk full"))
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Convergence().(NoopConvergenceHooks); !ok {
		t.Error("Convergence() should return NoopConvergenceHooks by default")
	}
	if _, ok := Image().(NoopImageHooks); !ok {
		t.Error("Image() should return NoopImageHooks by default")
	}

	customConvergence := &testConvergenceHooks{}
	SetConvergenceHooks(customConvergence)
	if Convergence() != customConvergence {
		t.Error("SetConvergenceHooks should set custom hooks")
	}

	customImage := &testImageHooks{}
	SetImageHooks(customImage)
	if Image() != customImage {
		t.Error("SetImageHooks should set custom hooks")
	}

	Reset()
	if _, ok := Convergence().(NoopConvergenceHooks); !ok {
		t.Error("Reset() should restore NoopConvergenceHooks")
	}
	if _, ok := Image().(NoopImageHooks); !ok {
		t.Error("Reset() should restore NoopImageHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testConvergenceHooks{}
	SetConvergenceHooks(custom)
	SetConvergenceHooks(nil)
	if Convergence() != custom {
		t.Error("SetConvergenceHooks(nil) should keep the registered hooks")
	}

	SetImageHooks(nil)
	if _, ok := Image().(NoopImageHooks); !ok {
		t.Error("SetImageHooks(nil) should keep the default hooks")
	}
}

func TestCustomHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	h := &testConvergenceHooks{}
	SetConvergenceHooks(h)

	ctx := context.Background()
	Convergence().OnStep(ctx, "pair", 3, false)
	Convergence().OnStep(ctx, "pair", 0, true)
	Convergence().OnPhase(ctx, "resolving", "paused")

	if h.steps != 2 {
		t.Errorf("steps = %d, want 2", h.steps)
	}
	if !h.done {
		t.Error("last step should report done")
	}
	if h.lastPhase != "paused" {
		t.Errorf("lastPhase = %q, want paused", h.lastPhase)
	}
}

type testConvergenceHooks struct {
	steps     int
	done      bool
	lastPhase string
}

func (h *testConvergenceHooks) OnStep(_ context.Context, _ string, _ int, done bool) {
	h.steps++
	h.done = done
}

func (h *testConvergenceHooks) OnPhase(_ context.Context, _, to string) {
	h.lastPhase = to
}

type testImageHooks struct{}

func (testImageHooks) OnOpen(context.Context, string, int, time.Duration, error) {}
func (testImageHooks) OnSave(context.Context, string, time.Duration, error)      {}
