package alpr

import (
	"image"
	"sort"

	xdraw "golang.org/x/image/draw"
)

// minCropWidth is the smallest plate crop the recognizers handle well.
// Narrower crops are scaled up preserving aspect ratio.
const minCropWidth = 300

// ToGray converts any image to 8-bit grayscale using the Rec. 601 weights.
func ToGray(src image.Image) *image.Gray {
	if g, ok := src.(*image.Gray); ok {
		return g
	}
	b := src.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(g, g.Bounds(), src, b.Min, xdraw.Src)
	return g
}

// CropGray copies the region r out of g into a fresh image anchored at (0,0).
func CropGray(g *image.Gray, r Rect) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, r.Width(), r.Height()))
	for y := 0; y < r.Height(); y++ {
		srcOff := (r.Y1+y-g.Rect.Min.Y)*g.Stride + (r.X1 - g.Rect.Min.X)
		copy(out.Pix[y*out.Stride:y*out.Stride+r.Width()], g.Pix[srcOff:srcOff+r.Width()])
	}
	return out
}

// ScaleGray resizes g to w×h with bilinear interpolation.
func ScaleGray(g *image.Gray, w, h int) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(out, out.Bounds(), g, g.Bounds(), xdraw.Src, nil)
	return out
}

// NormalizeCropWidth upscales crops narrower than minCropWidth, keeping the
// aspect ratio. Wider crops pass through unchanged.
func NormalizeCropWidth(g *image.Gray) *image.Gray {
	w := g.Bounds().Dx()
	h := g.Bounds().Dy()
	if w >= minCropWidth || w == 0 || h == 0 {
		return g
	}
	scale := float64(minCropWidth) / float64(w)
	return ScaleGray(g, minCropWidth, max(1, int(float64(h)*scale)))
}

// PassFunc is one preprocessing variant applied to a plate crop before OCR.
type PassFunc func(*image.Gray) *image.Gray

type Pass struct {
	Name  string
	Apply PassFunc
}

// Passes returns the three enhancement variants tried on every crop. Each
// pass trades differently between noise and stroke contrast, so together
// they cover glare, blur and low-light crops.
func Passes() []Pass {
	return []Pass{
		{Name: "contrast_sharpen", Apply: func(g *image.Gray) *image.Gray {
			return sharpen(stretchContrast(g))
		}},
		{Name: "denoise_threshold", Apply: func(g *image.Gray) *image.Gray {
			return adaptiveThreshold(medianDenoise(g))
		}},
		{Name: "equalize_hist", Apply: equalizeHist},
	}
}

// stretchContrast linearly maps the observed [min,max] range onto [0,255].
func stretchContrast(g *image.Gray) *image.Gray {
	lo, hi := uint8(255), uint8(0)
	for _, p := range g.Pix {
		if p < lo {
			lo = p
		}
		if p > hi {
			hi = p
		}
	}
	if hi <= lo {
		return g
	}
	out := image.NewGray(g.Bounds())
	span := int(hi) - int(lo)
	for i, p := range g.Pix {
		out.Pix[i] = uint8((int(p) - int(lo)) * 255 / span)
	}
	return out
}

// sharpen applies the standard 3×3 sharpening kernel (center 9, neighbors -1).
func sharpen(g *image.Gray) *image.Gray {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(b)
	copy(out.Pix, g.Pix)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			sum := 9 * int(g.Pix[y*g.Stride+x])
			sum -= int(g.Pix[(y-1)*g.Stride+x-1]) + int(g.Pix[(y-1)*g.Stride+x]) + int(g.Pix[(y-1)*g.Stride+x+1])
			sum -= int(g.Pix[y*g.Stride+x-1]) + int(g.Pix[y*g.Stride+x+1])
			sum -= int(g.Pix[(y+1)*g.Stride+x-1]) + int(g.Pix[(y+1)*g.Stride+x]) + int(g.Pix[(y+1)*g.Stride+x+1])
			out.Pix[y*out.Stride+x] = clampByte(sum)
		}
	}
	return out
}

// medianDenoise replaces each interior pixel with the median of its 3×3
// neighborhood, removing salt-and-pepper noise without blurring edges much.
func medianDenoise(g *image.Gray) *image.Gray {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(b)
	copy(out.Pix, g.Pix)
	var win [9]int
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			k := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					win[k] = int(g.Pix[(y+dy)*g.Stride+x+dx])
					k++
				}
			}
			sort.Ints(win[:])
			out.Pix[y*out.Stride+x] = uint8(win[4])
		}
	}
	return out
}

// adaptiveThreshold binarizes against the mean of an 11×11 window minus a
// small constant, which keeps strokes legible under uneven lighting.
func adaptiveThreshold(g *image.Gray) *image.Gray {
	const (
		radius = 5
		bias   = 2
	)
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(b)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum, n := 0, 0
			for dy := -radius; dy <= radius; dy++ {
				yy := y + dy
				if yy < 0 || yy >= h {
					continue
				}
				for dx := -radius; dx <= radius; dx++ {
					xx := x + dx
					if xx < 0 || xx >= w {
						continue
					}
					sum += int(g.Pix[yy*g.Stride+xx])
					n++
				}
			}
			if int(g.Pix[y*g.Stride+x]) > sum/n-bias {
				out.Pix[y*out.Stride+x] = 255
			}
		}
	}
	return out
}

// equalizeHist spreads the intensity histogram over the full range via the
// cumulative distribution.
func equalizeHist(g *image.Gray) *image.Gray {
	var hist [256]int
	for _, p := range g.Pix {
		hist[p]++
	}
	total := len(g.Pix)
	if total == 0 {
		return g
	}

	var cdf [256]int
	run := 0
	for i, c := range hist {
		run += c
		cdf[i] = run
	}
	cdfMin := 0
	for _, c := range cdf {
		if c > 0 {
			cdfMin = c
			break
		}
	}
	if total == cdfMin {
		return g
	}

	var lut [256]uint8
	for i := range lut {
		lut[i] = uint8((cdf[i] - cdfMin) * 255 / (total - cdfMin))
	}
	out := image.NewGray(g.Bounds())
	for i, p := range g.Pix {
		out.Pix[i] = lut[p]
	}
	return out
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
