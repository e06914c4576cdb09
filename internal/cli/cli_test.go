package cli

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/blockshuffle/internal/config"
	"github.com/matzehuels/blockshuffle/pkg/errors"
	"github.com/matzehuels/blockshuffle/pkg/observability"
)

// writeImage saves a w×h image with distinct pixel colors to a temp PNG.
func writeImage(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 5), G: uint8(y * 3), B: uint8(x + y), A: 0xff})
		}
	}
	path := filepath.Join(t.TempDir(), "in.png")
	if err := imaging.Save(img, path); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestMain points the config and cache directories at an empty temp dir so
// the user's files never leak into the tests.
func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "blockshuffle-cli")
	if err != nil {
		panic(err)
	}
	os.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	os.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

// execute runs the root command with args.
func execute(t *testing.T, args ...string) error {
	t.Helper()
	t.Cleanup(observability.Reset)

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	return root.ExecuteContext(context.Background())
}

func decode(t *testing.T, path string) image.Image {
	t.Helper()
	img, err := imaging.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	return img
}

func samePixels(a, b image.Image) bool {
	if a.Bounds() != b.Bounds() {
		return false
	}
	r := a.Bounds()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if color.NRGBAModel.Convert(a.At(x, y)) != color.NRGBAModel.Convert(b.At(x, y)) {
				return false
			}
		}
	}
	return true
}

func TestRebuild(t *testing.T) {
	in := writeImage(t, 50, 40)
	out := filepath.Join(t.TempDir(), "out.png")

	if err := execute(t, "rebuild", in, "-o", out, "--cols", "5", "--rows", "4"); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if !samePixels(decode(t, in), decode(t, out)) {
		t.Error("rebuild of a divisible image should reproduce it")
	}
}

func TestRebuildTruncates(t *testing.T) {
	in := writeImage(t, 53, 41)
	out := filepath.Join(t.TempDir(), "out.png")

	if err := execute(t, "rebuild", in, "-o", out, "--cols", "5", "--rows", "4"); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if got := decode(t, out).Bounds().Size(); got != image.Pt(53, 41) {
		t.Errorf("output size = %v, want source size", got)
	}
}

func TestUnscrambleStrategies(t *testing.T) {
	in := writeImage(t, 32, 32)
	want := decode(t, in)

	for _, strategy := range unscrambleStrategies {
		t.Run(strategy, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "out.png")
			err := execute(t, "unscramble", in, "-o", out, "--cols", "4", "--rows", "4", "--seed", "3", "--strategy", strategy)
			if err != nil {
				t.Fatalf("unscramble: %v", err)
			}
			if !samePixels(want, decode(t, out)) {
				t.Error("unscrambled output should match the source")
			}
		})
	}
}

func TestScrambleDiffers(t *testing.T) {
	in := writeImage(t, 32, 32)
	out := filepath.Join(t.TempDir(), "out.png")

	if err := execute(t, "scramble", in, "-o", out, "--seed", "11"); err != nil {
		t.Fatalf("scramble: %v", err)
	}
	got := decode(t, out)
	if got.Bounds() != decode(t, in).Bounds() {
		t.Fatalf("bounds = %v", got.Bounds())
	}
	if samePixels(decode(t, in), got) {
		t.Error("scrambled 8x8 grid should differ from the source")
	}
}

func TestMosaic(t *testing.T) {
	in := writeImage(t, 40, 40)
	out := filepath.Join(t.TempDir(), "out.png")

	if err := execute(t, "mosaic", in, "-o", out, "--cols", "4", "--rows", "4", "--dx", "2", "--dy", "3"); err != nil {
		t.Fatalf("mosaic: %v", err)
	}
	if got := decode(t, out).Bounds().Size(); got != image.Pt(46, 49) {
		t.Errorf("mosaic size = %v, want (46,49)", got)
	}
}

func TestMosaicUsesConfig(t *testing.T) {
	in := writeImage(t, 40, 40)
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(cfg, []byte("[grid]\ncols = 2\nrows = 2\n[mosaic]\ndx = 6\ndy = 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out.png")

	if err := execute(t, "--config", cfg, "mosaic", in, "-o", out); err != nil {
		t.Fatalf("mosaic: %v", err)
	}
	if got := decode(t, out).Bounds().Size(); got != image.Pt(46, 40) {
		t.Errorf("mosaic size = %v, want (46,40)", got)
	}
}

func TestFlagDefaultsFollowConfig(t *testing.T) {
	def := config.Default()
	root := New(io.Discard, LogInfo).RootCommand()

	tests := []struct {
		cmd, flag string
		want      int
	}{
		{"mosaic", "dx", def.Mosaic.DX},
		{"mosaic", "dy", def.Mosaic.DY},
		{"mosaic", "cols", def.Grid.Cols},
		{"rebuild", "rows", def.Grid.Rows},
	}
	for _, tt := range tests {
		t.Run(tt.cmd+"/"+tt.flag, func(t *testing.T) {
			cmd, _, err := root.Find([]string{tt.cmd})
			if err != nil {
				t.Fatalf("Find(%s) error: %v", tt.cmd, err)
			}
			f := cmd.Flags().Lookup(tt.flag)
			if f == nil {
				t.Fatalf("%s has no --%s flag", tt.cmd, tt.flag)
			}
			if f.DefValue != strconv.Itoa(tt.want) {
				t.Errorf("--%s default = %s, want %d", tt.flag, f.DefValue, tt.want)
			}
		})
	}
}

func TestCyclesDOT(t *testing.T) {
	in := writeImage(t, 32, 32)
	out := filepath.Join(t.TempDir(), "cycles.dot")

	if err := execute(t, "cycles", in, "-o", out, "--seed", "5"); err != nil {
		t.Fatalf("cycles: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("digraph Cycles")) {
		t.Errorf("DOT output starts with %q", data[:min(len(data), 20)])
	}
}

func TestCyclesSVG(t *testing.T) {
	in := writeImage(t, 16, 16)
	out := filepath.Join(t.TempDir(), "cycles.svg")

	if err := execute(t, "cycles", in, "-o", out, "--cols", "2", "--rows", "2", "--seed", "5"); err != nil {
		t.Fatalf("cycles: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Error("output should be an SVG document")
	}
}

func TestCyclesSVGCache(t *testing.T) {
	in := writeImage(t, 16, 16)
	cacheHome := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheHome)

	dir := t.TempDir()
	first, second := filepath.Join(dir, "a.svg"), filepath.Join(dir, "b.svg")
	args := []string{"cycles", in, "--cols", "2", "--rows", "2", "--seed", "9", "-o"}
	if err := execute(t, append(args, first)...); err != nil {
		t.Fatalf("first render: %v", err)
	}
	entries, _ := filepath.Glob(filepath.Join(cacheHome, appName, "*", "*.json"))
	if len(entries) != 1 {
		t.Fatalf("cache entries = %d, want 1", len(entries))
	}
	if err := execute(t, append(args, second)...); err != nil {
		t.Fatalf("cached render: %v", err)
	}

	a, _ := os.ReadFile(first)
	b, _ := os.ReadFile(second)
	if !bytes.Equal(a, b) {
		t.Error("cached diagram should match the first rendering")
	}
}

func TestCommandErrors(t *testing.T) {
	in := writeImage(t, 16, 16)
	dir := t.TempDir()
	badConfig := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(badConfig, []byte("[grid]\ncols = -2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"missing image", []string{"rebuild", filepath.Join(dir, "nope.png"), "-o", filepath.Join(dir, "o.png")}, errors.ErrCodeImageOpen},
		{"bad output", []string{"rebuild", in, "-o", filepath.Join(dir, "o.txt")}, errors.ErrCodeInvalidPath},
		{"zero grid", []string{"rebuild", in, "-o", filepath.Join(dir, "o.png"), "--cols", "0"}, errors.ErrCodeInvalidGrid},
		{"tiny blocks", []string{"scramble", in, "-o", filepath.Join(dir, "o.png"), "--cols", "32"}, errors.ErrCodeInvalidGrid},
		{"strategy", []string{"unscramble", in, "-o", filepath.Join(dir, "o.png"), "--strategy", "bogo"}, errors.ErrCodeInvalidInput},
		{"spacing", []string{"mosaic", in, "-o", filepath.Join(dir, "o.png"), "--dx", "-1"}, errors.ErrCodeInvalidGrid},
		{"diagram format", []string{"cycles", in, "-o", filepath.Join(dir, "c.png")}, errors.ErrCodeInvalidPath},
		{"bad config", []string{"--config", badConfig, "rebuild", in, "-o", filepath.Join(dir, "o.png")}, errors.ErrCodeInvalidConfig},
		{"save failure", []string{"rebuild", in, "-o", filepath.Join(dir, "missing", "o.png")}, errors.ErrCodeImageSave},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := execute(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestConfigCommandTOML(t *testing.T) {
	var buf bytes.Buffer
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"config", "--toml"})
	root.SetOut(&buf)
	if err := root.Execute(); err != nil {
		t.Fatalf("config: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"[grid]", "cols = 8", `pause = "5s"`, `resolve = "random"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCompletionSkipsConfig(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("not toml ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := execute(t, "--config", bad, "completion", "bash"); err != nil {
		t.Errorf("completion should not load the config: %v", err)
	}
}

func TestCycleHistogram(t *testing.T) {
	got := cycleHistogram([][]int{{0, 1}, {2, 3, 4}, {5, 6}}, 9)
	want := [][]string{{"3", "1"}, {"2", "2"}, {"1", "2"}}
	if len(got) != len(want) {
		t.Fatalf("cycleHistogram() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i][0] != want[i][0] || got[i][1] != want[i][1] {
			t.Errorf("row %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRenderTable(t *testing.T) {
	out := renderTable([]string{"Strategy", "Calls"}, [][]string{{"pair", "12"}})
	for _, want := range []string{"Strategy", "pair", "12"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}
