package alpr

import "errors"

// ErrInvalidRegion is returned when the best detection collapses to an empty
// rectangle after clipping to the frame bounds.
var ErrInvalidRegion = errors.New("plate region degenerate after clipping")

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// OrientedBox is one oriented bounding box from the plate localizer, four
// corner points plus the model confidence.
type OrientedBox struct {
	Points     [4]Point `json:"points"`
	Confidence float64  `json:"confidence"`
}

// Rect is an axis-aligned box, half-open on the right and bottom edges.
type Rect struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

func (r Rect) Width() int  { return r.X2 - r.X1 }
func (r Rect) Height() int { return r.Y2 - r.Y1 }

// Detection is the selected plate region: the clipped axis-aligned box, the
// original oriented corners and the localizer confidence.
type Detection struct {
	BBox       Rect
	Points     [4]Point
	Confidence float64
}

// SelectBest picks the highest-confidence box (earliest wins ties) and
// derives its axis-aligned bounding box clipped to a width×height frame.
// It returns (nil, nil) when boxes is empty and ErrInvalidRegion when the
// clipped box has no area.
func SelectBest(boxes []OrientedBox, width, height int) (*Detection, error) {
	if len(boxes) == 0 {
		return nil, nil
	}

	best := 0
	for i := 1; i < len(boxes); i++ {
		if boxes[i].Confidence > boxes[best].Confidence {
			best = i
		}
	}
	box := boxes[best]

	x1, y1 := box.Points[0].X, box.Points[0].Y
	x2, y2 := x1, y1
	for _, p := range box.Points[1:] {
		x1 = min(x1, p.X)
		y1 = min(y1, p.Y)
		x2 = max(x2, p.X)
		y2 = max(y2, p.Y)
	}

	x1 = max(x1, 0)
	y1 = max(y1, 0)
	x2 = min(x2, width)
	y2 = min(y2, height)
	if x2 <= x1 || y2 <= y1 {
		return nil, ErrInvalidRegion
	}

	return &Detection{
		BBox:       Rect{X1: x1, Y1: y1, X2: x2, Y2: y2},
		Points:     box.Points,
		Confidence: box.Confidence,
	}, nil
}
