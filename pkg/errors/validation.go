package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateGrid checks a grid request against the source image size.
// Both counts must be positive and each block must be at least one pixel
// in either direction; nothing is clamped.
func ValidateGrid(cols, rows, width, height int) error {
	if cols <= 0 || rows <= 0 {
		return New(ErrCodeInvalidGrid, "grid must be positive, got %dx%d", cols, rows)
	}
	if width/cols == 0 || height/rows == 0 {
		return New(ErrCodeInvalidGrid, "grid %dx%d produces zero-sized blocks for a %dx%d image", cols, rows, width, height)
	}
	return nil
}

// ValidateSpacing checks mosaic spacing values.
func ValidateSpacing(dx, dy int) error {
	if dx < 0 || dy < 0 {
		return New(ErrCodeInvalidGrid, "mosaic spacing must not be negative, got (%d,%d)", dx, dy)
	}
	return nil
}

// imageExtensions lists the output formats the codec can write.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// ValidateOutputPath validates an output image path.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
//   - Extension must name a format the encoder supports
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !imageExtensions[ext] {
		return New(ErrCodeInvalidPath, "unsupported output format %q (use png, jpg, gif, bmp or tiff)", ext)
	}
	return nil
}
