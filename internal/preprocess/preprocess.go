package preprocess

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/nfnt/resize"

	"github.com/ekisa-team/leafsense/internal/tensor"
)

// Channels is the color depth the model was trained with (RGB).
const Channels = 3

// DefaultSize is the spatial resolution used when the model does not
// declare one.
const DefaultSize = 224

// Preprocessor converts an uploaded image file into the exact numeric
// tensor the model expects: shape [1, size, size, 3], RGB channel
// order, float32 values normalized into [0, 1] by dividing by the
// channel maximum. The normalization must match training-time
// preprocessing exactly; a mismatch degrades accuracy silently.
type Preprocessor struct {
	size int
}

// New creates a preprocessor targeting a fixed spatial resolution.
func New(size int) *Preprocessor {
	return &Preprocessor{size: size}
}

// Process decodes the image at path, resizes it to size x size and
// returns the normalized tensor with a leading batch dimension of 1.
// Unreadable or corrupt image data fails with *DecodeError.
func (p *Preprocessor) Process(path string) (*tensor.Tensor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	return p.FromImage(img)
}

// FromImage converts an already decoded image. Lanczos3 keeps the
// resize deterministic across calls and platforms.
func (p *Preprocessor) FromImage(img image.Image) (*tensor.Tensor, error) {
	side := p.size
	resized := resize.Resize(uint(side), uint(side), img, resize.Lanczos3)

	bounds := resized.Bounds()
	data := make([]float32, side*side*Channels)

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := resized.At(x, y).RGBA()

			// RGBA returns 16-bit channels; 65535 maps a full 8-bit
			// 255 to exactly 1.0.
			data[i] = float32(r) / 65535.0
			data[i+1] = float32(g) / 65535.0
			data[i+2] = float32(b) / 65535.0
			i += Channels
		}
	}

	return tensor.New(data, 1, int64(side), int64(side), Channels)
}
