package surface

import (
	"image"
	"image/color"

	"github.com/matzehuels/blockshuffle/pkg/blocks"
	"github.com/matzehuels/blockshuffle/pkg/errors"
)

// Tile is a display-ready block: non-premultiplied pixels, row-major.
type Tile struct {
	W, H int
	Pix  []color.NRGBA
}

// At returns the pixel at (x, y) of the tile.
func (t *Tile) At(x, y int) color.NRGBA { return t.Pix[y*t.W+x] }

// bytesPerPixel lists the raw layouts NewTile understands.
var bytesPerPixel = map[string]int{
	"NRGBA": 4,
	"RGBA":  4,
	"RGB":   3,
	"L":     1,
}

// NewTile builds a tile from raw pixel bytes laid out row-major without
// padding. mode is one of NRGBA, RGBA (premultiplied), RGB or L.
func NewTile(raw []byte, w, h int, mode string) (*Tile, error) {
	bpp, ok := bytesPerPixel[mode]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported pixel mode %q", mode)
	}
	if w <= 0 || h <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "tile must not be empty, got %dx%d", w, h)
	}
	if len(raw) != w*h*bpp {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s tile %dx%d needs %d bytes, got %d", mode, w, h, w*h*bpp, len(raw))
	}

	pix := make([]color.NRGBA, w*h)
	for i := range pix {
		p := raw[i*bpp : (i+1)*bpp]
		switch mode {
		case "NRGBA":
			pix[i] = color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
		case "RGBA":
			pix[i] = color.NRGBAModel.Convert(color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}).(color.NRGBA)
		case "RGB":
			pix[i] = color.NRGBA{R: p[0], G: p[1], B: p[2], A: 0xff}
		case "L":
			pix[i] = color.NRGBA{R: p[0], G: p[0], B: p[0], A: 0xff}
		}
	}
	return &Tile{W: w, H: h, Pix: pix}, nil
}

// FromImage exports the raw bytes of img and builds a tile from them.
func FromImage(img *image.NRGBA) (*Tile, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	raw := make([]byte, 0, w*h*4)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		raw = append(raw, img.Pix[off:off+w*4]...)
	}
	return NewTile(raw, w, h, "NRGBA")
}

// NewConverter returns a converter from image tables to tile tables. Use a
// single converter for a canonical table and the tables derived from it.
func NewConverter() *blocks.Converter[*image.NRGBA, *Tile] {
	return blocks.NewConverter(FromImage)
}

// Convert maps every block of t to a tile. Placements and slot order are
// preserved.
func Convert(t *blocks.Table[*image.NRGBA]) (*blocks.Table[*Tile], error) {
	return NewConverter().Table(t)
}
