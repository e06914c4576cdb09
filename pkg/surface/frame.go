package surface

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/blockshuffle/pkg/blocks"
)

// upperHalf draws the upper pixel in the foreground color and the lower
// pixel in the background color.
const upperHalf = "▀"

// Frame is a pixel canvas for one animation frame.
type Frame struct {
	W, H       int
	Background color.NRGBA
	pix        []color.NRGBA
}

// NewFrame returns a w×h frame filled with bg.
func NewFrame(w, h int, bg color.NRGBA) *Frame {
	f := &Frame{W: max(w, 0), H: max(h, 0), Background: bg}
	f.pix = make([]color.NRGBA, f.W*f.H)
	f.Clear()
	return f
}

// Clear fills the frame with its background color.
func (f *Frame) Clear() {
	for i := range f.pix {
		f.pix[i] = f.Background
	}
}

// At returns the pixel at (x, y).
func (f *Frame) At(x, y int) color.NRGBA { return f.pix[y*f.W+x] }

// Blit paints every slot of t at its placement shifted by off. Slots are
// painted in index order; pixels outside the frame are clipped and
// transparent pixels keep what is underneath.
func (f *Frame) Blit(t *blocks.Table[*Tile], off image.Point) {
	for _, b := range t.Slots {
		f.draw(b.Pixels, b.Left+off.X, b.Top+off.Y)
	}
}

func (f *Frame) draw(tile *Tile, left, top int) {
	for y := max(0, -top); y < tile.H && top+y < f.H; y++ {
		row := (top + y) * f.W
		for x := max(0, -left); x < tile.W && left+x < f.W; x++ {
			if p := tile.At(x, y); p.A >= 0x80 {
				f.pix[row+left+x] = p
			}
		}
	}
}

// Render returns the frame as terminal text, one line per two pixel rows.
// Runs of identical cells share one style to keep escape sequences short.
func (f *Frame) Render() string {
	lines := make([]string, 0, (f.H+1)/2)
	for y := 0; y < f.H; y += 2 {
		var line strings.Builder
		for x := 0; x < f.W; {
			top, bottom := f.cell(x, y)
			run := 1
			for x+run < f.W {
				t, b := f.cell(x+run, y)
				if t != top || b != bottom {
					break
				}
				run++
			}
			style := lipgloss.NewStyle().Foreground(hex(top)).Background(hex(bottom))
			line.WriteString(style.Render(strings.Repeat(upperHalf, run)))
			x += run
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

func (f *Frame) cell(x, y int) (top, bottom color.NRGBA) {
	top = f.At(x, y)
	bottom = f.Background
	if y+1 < f.H {
		bottom = f.At(x, y+1)
	}
	return top, bottom
}

func hex(c color.NRGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}
