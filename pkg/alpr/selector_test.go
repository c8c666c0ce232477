package alpr

import (
	"errors"
	"testing"
)

func box(conf float64, pts ...int) OrientedBox {
	var b OrientedBox
	b.Confidence = conf
	for i := 0; i < 4; i++ {
		b.Points[i] = Point{X: pts[i*2], Y: pts[i*2+1]}
	}
	return b
}

func TestSelectBestEmpty(t *testing.T) {
	det, err := SelectBest(nil, 100, 100)
	if det != nil || err != nil {
		t.Fatalf("SelectBest(nil) = %v, %v, want nil, nil", det, err)
	}
}

func TestSelectBestPicksMaxConfidence(t *testing.T) {
	boxes := []OrientedBox{
		box(0.4, 10, 10, 20, 10, 20, 20, 10, 20),
		box(0.9, 30, 30, 50, 30, 50, 40, 30, 40),
		box(0.6, 0, 0, 5, 0, 5, 5, 0, 5),
	}
	det, err := SelectBest(boxes, 100, 100)
	if err != nil {
		t.Fatalf("SelectBest: %v", err)
	}
	if det.Confidence != 0.9 {
		t.Errorf("Confidence = %v, want 0.9", det.Confidence)
	}
	want := Rect{X1: 30, Y1: 30, X2: 50, Y2: 40}
	if det.BBox != want {
		t.Errorf("BBox = %+v, want %+v", det.BBox, want)
	}
}

func TestSelectBestEarliestWinsTies(t *testing.T) {
	boxes := []OrientedBox{
		box(0.8, 10, 10, 20, 10, 20, 20, 10, 20),
		box(0.8, 30, 30, 50, 30, 50, 40, 30, 40),
	}
	det, err := SelectBest(boxes, 100, 100)
	if err != nil {
		t.Fatalf("SelectBest: %v", err)
	}
	if det.BBox.X1 != 10 {
		t.Errorf("tie-break picked BBox %+v, want the first box", det.BBox)
	}
}

func TestSelectBestClipsToBounds(t *testing.T) {
	boxes := []OrientedBox{box(0.5, -10, -10, 120, -10, 120, 60, -10, 60)}
	det, err := SelectBest(boxes, 100, 50)
	if err != nil {
		t.Fatalf("SelectBest: %v", err)
	}
	want := Rect{X1: 0, Y1: 0, X2: 100, Y2: 50}
	if det.BBox != want {
		t.Errorf("BBox = %+v, want %+v", det.BBox, want)
	}
}

func TestSelectBestDegenerateRegion(t *testing.T) {
	// Entirely left of the frame, clips to zero width.
	boxes := []OrientedBox{box(0.5, -30, 10, -10, 10, -10, 20, -30, 20)}
	_, err := SelectBest(boxes, 100, 100)
	if !errors.Is(err, ErrInvalidRegion) {
		t.Fatalf("err = %v, want ErrInvalidRegion", err)
	}
}
