package blocks

import (
	"image"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"github.com/matzehuels/blockshuffle/pkg/errors"
)

// Reconstruct paints every slot of t at its placement onto a canvas of the
// source image size. Slots are painted in index order, so a later slot wins
// where placements overlap.
func Reconstruct(t *Table[*image.NRGBA]) *image.NRGBA {
	return paint(t, t.Width, t.Height)
}

// ReconstructMosaic paints t onto the expanded canvas given by [MosaicSize].
func ReconstructMosaic(t *Table[*image.NRGBA]) *image.NRGBA {
	size := MosaicSize(t)
	return paint(t, size.X, size.Y)
}

func paint(t *Table[*image.NRGBA], width, height int) *image.NRGBA {
	canvas := image.NewNRGBA(image.Rect(0, 0, width, height))
	for _, b := range t.Slots {
		src := b.Pixels.Bounds()
		dst := image.Rect(b.Left, b.Top, b.Left+src.Dx(), b.Top+src.Dy())
		draw.Draw(canvas, dst, b.Pixels, src.Min, draw.Src)
	}
	return canvas
}

// Save encodes img to path; the format follows the file extension.
func Save(img image.Image, path string) error {
	if err := imaging.Save(img, path, imaging.JPEGQuality(95)); err != nil {
		return errors.Wrap(errors.ErrCodeImageSave, err, "can not save image file: %s", path)
	}
	return nil
}

// MosaicSave reconstructs a mosaic table on its expanded canvas and saves it.
func MosaicSave(t *Table[*image.NRGBA], path string) error {
	return Save(ReconstructMosaic(t), path)
}
