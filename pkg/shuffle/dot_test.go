package shuffle

import (
	"context"
	"strings"
	"testing"
)

func TestToDOT(t *testing.T) {
	dot := ToDOT([][]int{{0, 1}, {3, 4, 5}}, nil)

	if !strings.HasPrefix(dot, "digraph Cycles {") {
		t.Error("ToDOT() should start with 'digraph Cycles {'")
	}
	if !strings.HasSuffix(strings.TrimSpace(dot), "}") {
		t.Error("ToDOT() should end with '}'")
	}

	expected := []string{
		"s0 -> s1;",
		"s1 -> s0;",
		"s3 -> s4;",
		"s5 -> s3;",
		"cluster_1",
		"cycle 1 (length 3)",
	}
	for _, exp := range expected {
		if !strings.Contains(dot, exp) {
			t.Errorf("ToDOT() missing %q", exp)
		}
	}
}

func TestToDOTWithLabels(t *testing.T) {
	labels := GridLabels(6, 3)
	dot := ToDOT([][]int{{2, 5}}, labels)

	for _, label := range []string{"2,0", "2,1"} {
		if !strings.Contains(dot, label) {
			t.Errorf("ToDOT() should contain label %q", label)
		}
	}
}

func TestToDOTNoCycles(t *testing.T) {
	dot := ToDOT(nil, nil)
	if strings.Contains(dot, "->") {
		t.Error("ToDOT() of no cycles should have no edges")
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), [][]int{{0, 1}}, nil)
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() should produce an SVG document")
	}
}
