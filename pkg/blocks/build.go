package blocks

import (
	"image"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/blockshuffle/pkg/errors"
)

// Open decodes the image at path and slices it into a cols×rows table.
// Decoding failures are reported as IMAGE_OPEN errors naming the file.
func Open(path string, cols, rows int) (*Table[*image.NRGBA], error) {
	img, err := Decode(path)
	if err != nil {
		return nil, err
	}
	return Build(img, cols, rows)
}

// Decode reads an image file, applying EXIF orientation.
func Decode(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeImageOpen, err, "can not open image file: %s", path)
	}
	return img, nil
}

// Fit scales img down to fit within maxW×maxH, keeping its aspect ratio.
// Images that already fit are returned unchanged.
func Fit(img image.Image, maxW, maxH int) image.Image {
	b := img.Bounds()
	if maxW <= 0 || maxH <= 0 || (b.Dx() <= maxW && b.Dy() <= maxH) {
		return img
	}
	return imaging.Fit(img, maxW, maxH, imaging.Lanczos)
}

// Build slices img into a cols×rows canonical table.
//
// Blocks are cropped walking top to bottom, then left to right, each crop
// owning its own buffer. Remainder pixels beyond cols*BlockW or rows*BlockH
// are dropped.
func Build(img image.Image, cols, rows int) (*Table[*image.NRGBA], error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if err := errors.ValidateGrid(cols, rows, width, height); err != nil {
		return nil, err
	}

	w, h := width/cols, height/rows
	slots := make([]Block[*image.NRGBA], 0, cols*rows)
	for top := 0; top+h <= rows*h; top += h {
		for left := 0; left+w <= cols*w; left += w {
			r := image.Rect(left, top, left+w, top+h).Add(bounds.Min)
			slots = append(slots, Block[*image.NRGBA]{
				Pixels: imaging.Crop(img, r),
				Left:   left,
				Top:    top,
			})
		}
	}

	return &Table[*image.NRGBA]{
		Size:   len(slots),
		Cols:   cols,
		Rows:   rows,
		BlockW: w,
		BlockH: h,
		Width:  width,
		Height: height,
		Mode:   Mode(img),
		Slots:  slots,
		index:  newIndex(slots),
	}, nil
}

// Mode names the pixel format of a decoded image.
func Mode(img image.Image) string {
	switch img.(type) {
	case *image.NRGBA:
		return "NRGBA"
	case *image.NRGBA64:
		return "NRGBA64"
	case *image.RGBA:
		return "RGBA"
	case *image.RGBA64:
		return "RGBA64"
	case *image.Gray:
		return "L"
	case *image.Gray16:
		return "I;16"
	case *image.Paletted:
		return "P"
	case *image.YCbCr:
		return "YCbCr"
	case *image.NYCbCrA:
		return "YCbCrA"
	case *image.CMYK:
		return "CMYK"
	default:
		return "unknown"
	}
}
