package document

import "fmt"

const (
	// maxImageDimension caps the width and height of source images.
	maxImageDimension = 32768
	// maxImagePixels bounds the pixel count (64MP), keeping the NRGBA
	// working copy under 256 MB.
	maxImagePixels int64 = 64 * 1024 * 1024
)

func validateImageBounds(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: bounds invalid (%d x %d)", ErrImageTooLarge, width, height)
	}
	if width > maxImageDimension || height > maxImageDimension {
		return fmt.Errorf("%w: dimension exceeds limit (%d x %d)", ErrImageTooLarge, width, height)
	}
	pixels := int64(width) * int64(height)
	if pixels > maxImagePixels {
		return fmt.Errorf("%w: pixel count %d exceeds limit %d", ErrImageTooLarge, pixels, maxImagePixels)
	}
	return nil
}
