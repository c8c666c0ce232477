package alpr

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"
)

type stubLocalizer struct {
	boxes []OrientedBox
	err   error
}

func (s *stubLocalizer) LocatePlates(_ context.Context, _ image.Image, _ float64) ([]OrientedBox, error) {
	return s.boxes, s.err
}

type blockingLocalizer struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingLocalizer) LocatePlates(_ context.Context, _ image.Image, _ float64) ([]OrientedBox, error) {
	b.started <- struct{}{}
	<-b.release
	return nil, nil
}

type fixedRecognizer struct {
	text string
}

func (f *fixedRecognizer) ReadText(_ context.Context, _ *image.Gray) (string, error) {
	return f.text, nil
}

func testFrame() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 120, 60))
}

func TestDetectorValidPlate(t *testing.T) {
	loc := &stubLocalizer{boxes: []OrientedBox{
		box(0.8, 10, 10, 90, 10, 90, 40, 10, 40),
	}}
	d := NewDetector(loc, &fixedRecognizer{text: "59F1 23456"}, quietLogger())
	defer d.Close()

	res, err := d.Process(context.Background(), testFrame())
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !res.Detected || !res.IsValid {
		t.Fatalf("result = %+v, want detected valid plate", res)
	}
	if res.PlateNumber != "59F1-23456" {
		t.Errorf("PlateNumber = %q, want %q", res.PlateNumber, "59F1-23456")
	}

	stats := d.Stats()
	if stats.TotalFrames != 1 || stats.TotalDetections != 1 {
		t.Errorf("stats = %+v, want 1 frame and 1 detection", stats)
	}
}

func TestDetectorNoDetectionIsNotError(t *testing.T) {
	d := NewDetector(&stubLocalizer{}, &fixedRecognizer{}, quietLogger())
	defer d.Close()

	res, err := d.Process(context.Background(), testFrame())
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Detected {
		t.Errorf("result = %+v, want no detection", res)
	}
}

func TestDetectorCountersUnderFailures(t *testing.T) {
	loc := &stubLocalizer{err: errors.New("sidecar unreachable")}
	d := NewDetector(loc, &fixedRecognizer{}, quietLogger())
	defer d.Close()

	for i := 0; i < 5; i++ {
		if _, err := d.Process(context.Background(), testFrame()); err == nil {
			t.Fatal("expected localizer error")
		}
	}

	// A failing frame still counts as processed but never as a detection.
	stats := d.Stats()
	if stats.TotalFrames != 5 {
		t.Errorf("TotalFrames = %d, want 5", stats.TotalFrames)
	}
	if stats.TotalDetections > stats.TotalFrames {
		t.Errorf("TotalDetections %d exceeds TotalFrames %d", stats.TotalDetections, stats.TotalFrames)
	}
}

func TestDetectorBusyBackpressure(t *testing.T) {
	loc := &blockingLocalizer{
		started: make(chan struct{}, requestQueueSize+2),
		release: make(chan struct{}),
	}
	d := NewDetector(loc, &fixedRecognizer{}, quietLogger())

	go d.Process(context.Background(), testFrame())
	select {
	case <-loc.started:
	case <-time.After(2 * time.Second):
		t.Fatal("worker never picked up the first frame")
	}

	// Fill the queue while the worker is pinned inside the localizer. The
	// cancelled context returns immediately but leaves the request queued.
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < requestQueueSize; i++ {
		if _, err := d.Process(cancelled, testFrame()); !errors.Is(err, context.Canceled) {
			t.Fatalf("fill %d: err = %v, want context.Canceled", i, err)
		}
	}

	if _, err := d.Process(context.Background(), testFrame()); !errors.Is(err, ErrDetectorBusy) {
		t.Fatalf("err = %v, want ErrDetectorBusy", err)
	}

	close(loc.release)
	d.Close()
}

func TestDetectorProcessAfterClose(t *testing.T) {
	d := NewDetector(&stubLocalizer{}, &fixedRecognizer{}, quietLogger())
	d.Close()
	d.Close() // idempotent

	if _, err := d.Process(context.Background(), testFrame()); !errors.Is(err, ErrDetectorClosed) {
		t.Fatalf("err = %v, want ErrDetectorClosed", err)
	}
}
