package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"
)

// cannyBlurRadius is the radius of the smoothing pass that precedes
// gradient computation.
const cannyBlurRadius = 1.4

// Canny performs Canny edge detection on an image.
//
// The result is a single-channel image of the same size, rebased to (0,0),
// where edge pixels are 255 and everything else is 0.
//
// Parameters:
//   - img: Source image (color or grayscale).
//   - low: Lower hysteresis threshold (0-255). Gradients below it are discarded.
//   - high: Upper hysteresis threshold (0-255). Gradients at or above it are
//     strong edges; gradients between low and high survive only when they are
//     connected to a strong edge.
//
// # Algorithm
//
//  1. Luminance conversion (0.299*R + 0.587*G + 0.114*B)
//  2. Gaussian smoothing
//  3. Sobel gradients, magnitude = sqrt(Gx² + Gy²), direction = atan2(Gy, Gx)
//  4. Non-maximum suppression along the gradient direction
//  5. Hysteresis: weak edges are kept when 8-connected to a strong edge,
//     following chains of weak pixels of any length
//
// Thresholds are compared against the raw Sobel magnitude of the 8-bit
// luminance, so the usual 100/200 pair behaves like it does in other Canny
// implementations.
func Canny(img image.Image, low, high int) (*image.Gray, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	if low > high {
		low, high = high, low
	}

	smoothed := blur.Gaussian(imaging.Grayscale(img), cannyBlurRadius)
	width := smoothed.Bounds().Dx()
	height := smoothed.Bounds().Dy()

	lum := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := smoothed.PixOffset(x+smoothed.Rect.Min.X, y+smoothed.Rect.Min.Y)
			lum[y*width+x] = float64(smoothed.Pix[i])
		}
	}

	at := func(plane []float64, x, y int) float64 {
		return plane[clamp(y, 0, height-1)*width+clamp(x, 0, width-1)]
	}

	magnitude := make([]float64, width*height)
	direction := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			gx := -at(lum, x-1, y-1) + at(lum, x+1, y-1) +
				-2*at(lum, x-1, y) + 2*at(lum, x+1, y) +
				-at(lum, x-1, y+1) + at(lum, x+1, y+1)
			gy := -at(lum, x-1, y-1) - 2*at(lum, x, y-1) - at(lum, x+1, y-1) +
				at(lum, x-1, y+1) + 2*at(lum, x, y+1) + at(lum, x+1, y+1)
			magnitude[y*width+x] = math.Sqrt(gx*gx + gy*gy)
			direction[y*width+x] = math.Atan2(gy, gx)
		}
	}

	suppressed := make([]float64, width*height)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			dx1, dy1, dx2, dy2 := neighbours(direction[y*width+x])
			mag := magnitude[y*width+x]
			if mag >= at(magnitude, x+dx1, y+dy1) && mag >= at(magnitude, x+dx2, y+dy2) {
				suppressed[y*width+x] = mag
			}
		}
	}

	result := image.NewGray(image.Rect(0, 0, width, height))
	lowThresh, highThresh := float64(low), float64(high)

	var stack []int
	for i, v := range suppressed {
		if v >= highThresh && v > 0 {
			result.Pix[i] = 255
			stack = append(stack, i)
		}
	}

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%width, i/width
		for ky := -1; ky <= 1; ky++ {
			for kx := -1; kx <= 1; kx++ {
				px, py := x+kx, y+ky
				if px < 0 || py < 0 || px >= width || py >= height {
					continue
				}
				j := py*width + px
				if result.Pix[j] == 0 && suppressed[j] >= lowThresh && suppressed[j] > 0 {
					result.Pix[j] = 255
					stack = append(stack, j)
				}
			}
		}
	}

	return result, nil
}

// neighbours returns the two pixel offsets that lie along the gradient
// direction for non-maximum suppression. y grows downward, so a positive
// angle below pi/2 points down and to the right.
func neighbours(angle float64) (dx1, dy1, dx2, dy2 int) {
	switch {
	case (angle >= -math.Pi/8 && angle < math.Pi/8) || angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
		return -1, 0, 1, 0
	case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
		return -1, -1, 1, 1
	case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
		return 0, -1, 0, 1
	default:
		return 1, -1, -1, 1
	}
}

// clamp constrains an integer value to the range [lo, hi].
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
