package alpr

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// JPEG qualities for annotated output. Streaming frames are re-encoded every
// frame, so they get the lower quality.
const (
	JPEGQualityStream  = 85
	JPEGQualityOneShot = 90
)

var (
	boxColor     = color.RGBA{R: 0, G: 220, B: 60, A: 255}
	polygonColor = color.RGBA{R: 255, G: 190, B: 0, A: 255}
	textColor    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	labelBgColor = color.RGBA{R: 0, G: 120, B: 40, A: 255}
	fpsColor     = color.RGBA{R: 0, G: 255, B: 255, A: 255}
)

// Annotate renders the detection over a copy of the frame: the oriented
// polygon, the axis-aligned box, a label with the plate text and confidence,
// and (when fps > 0) an FPS readout in the top-left corner. A nil detection
// still produces a copy so the FPS overlay can be drawn on empty frames.
func Annotate(frame image.Image, det *Detection, label string, fps float64) *image.RGBA {
	b := frame.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), frame, b.Min, draw.Src)

	if det != nil {
		for i := 0; i < 4; i++ {
			p, q := det.Points[i], det.Points[(i+1)%4]
			drawLine(out, p.X, p.Y, q.X, q.Y, polygonColor)
		}
		drawRect(out, det.BBox, boxColor)

		if label == "" {
			label = "License Plate"
		}
		text := fmt.Sprintf("%s %.1f%%", label, det.Confidence*100)
		drawLabel(out, det.BBox.X1, det.BBox.Y1-4, text)
	}

	if fps > 0 {
		drawText(out, 8, 16, fmt.Sprintf("FPS: %.1f", fps), fpsColor)
	}
	return out
}

// EncodeJPEG re-encodes the annotated frame at the given quality.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawRect(img *image.RGBA, r Rect, c color.RGBA) {
	drawLine(img, r.X1, r.Y1, r.X2-1, r.Y1, c)
	drawLine(img, r.X1, r.Y2-1, r.X2-1, r.Y2-1, c)
	drawLine(img, r.X1, r.Y1, r.X1, r.Y2-1, c)
	drawLine(img, r.X2-1, r.Y1, r.X2-1, r.Y2-1, c)
}

// drawLine is a simple DDA rasterizer, enough for box edges and polygons.
func drawLine(img *image.RGBA, x1, y1, x2, y2 int, c color.RGBA) {
	dx, dy := x2-x1, y2-y1
	steps := max(abs(dx), abs(dy))
	if steps == 0 {
		setPixel(img, x1, y1, c)
		return
	}
	for i := 0; i <= steps; i++ {
		setPixel(img, x1+dx*i/steps, y1+dy*i/steps, c)
	}
}

func setPixel(img *image.RGBA, x, y int, c color.RGBA) {
	if (image.Point{X: x, Y: y}).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}

// drawLabel paints a filled background sized to the text, then the text.
func drawLabel(img *image.RGBA, x, y int, text string) {
	face := basicfont.Face7x13
	w := font.MeasureString(face, text).Ceil() + 8
	h := face.Metrics().Height.Ceil() + 4

	top := y - h
	if top < 0 {
		top = y + h
	}
	bg := image.Rect(x, top, x+w, top+h)
	draw.Draw(img, bg.Intersect(img.Bounds()), &image.Uniform{C: labelBgColor}, image.Point{}, draw.Src)
	drawText(img, x+4, top+h-4, text, textColor)
}

func drawText(img *image.RGBA, x, y int, text string, c color.RGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
