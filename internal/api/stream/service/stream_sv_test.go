package streamService

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/wanghoc/eParking/internal/api/stream"
	"github.com/wanghoc/eParking/pkg/alpr"
	"github.com/wanghoc/eParking/pkg/utils"
)

type stubLocalizer struct {
	boxes []alpr.OrientedBox
}

func (s *stubLocalizer) LocatePlates(_ context.Context, _ image.Image, _ float64) ([]alpr.OrientedBox, error) {
	return s.boxes, nil
}

type stubRecognizer struct {
	text string
}

func (s *stubRecognizer) ReadText(_ context.Context, _ *image.Gray) (string, error) {
	return s.text, nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestService(t *testing.T, boxes []alpr.OrientedBox, text string) (ISessionService, *alpr.Detector) {
	t.Helper()
	detector := alpr.NewDetector(&stubLocalizer{boxes: boxes}, &stubRecognizer{text: text}, quietLogger())
	t.Cleanup(detector.Close)
	return NewSessionService(quietLogger(), detector, utils.New()), detector
}

func frameDataURI(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 120, 60))
	for y := 0; y < 60; y++ {
		for x := 0; x < 120; x++ {
			img.Set(x, y, color.RGBA{R: 120, G: 120, B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode frame: %v", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func plateBoxes() []alpr.OrientedBox {
	return []alpr.OrientedBox{{
		Points: [4]alpr.Point{
			{X: 10, Y: 10}, {X: 110, Y: 10}, {X: 110, Y: 50}, {X: 10, Y: 50},
		},
		Confidence: 0.9,
	}}
}

func TestRegisterCameraBindsConnection(t *testing.T) {
	svc, _ := newTestService(t, nil, "")

	reg := svc.RegisterCamera("conn-1", "cam-entry")
	if reg.Type != stream.TypeCameraRegistered {
		t.Fatalf("type = %q, want %q", reg.Type, stream.TypeCameraRegistered)
	}
	if reg.CameraID != "cam-entry" || reg.Status != "success" {
		t.Fatalf("unexpected registration: %+v", reg)
	}
}

func TestProcessVideoFrameUsesRegisteredCamera(t *testing.T) {
	svc, _ := newTestService(t, plateBoxes(), "59F123456")

	svc.RegisterCamera("conn-a", "cam-a")
	svc.RegisterCamera("conn-b", "cam-b")

	frame := frameDataURI(t)

	resA, err := svc.ProcessVideoFrame(context.Background(), "conn-a", stream.InboundMessage{
		Type: stream.TypeVideoFrame, Frame: frame, Timestamp: 111,
	})
	if err != nil {
		t.Fatalf("ProcessVideoFrame conn-a: %v", err)
	}
	resB, err := svc.ProcessVideoFrame(context.Background(), "conn-b", stream.InboundMessage{
		Type: stream.TypeVideoFrame, Frame: frame, Timestamp: 222,
	})
	if err != nil {
		t.Fatalf("ProcessVideoFrame conn-b: %v", err)
	}

	if resA.CameraID != "cam-a" {
		t.Errorf("conn-a result camera = %q, want cam-a", resA.CameraID)
	}
	if resB.CameraID != "cam-b" {
		t.Errorf("conn-b result camera = %q, want cam-b", resB.CameraID)
	}
	if resA.Timestamp != 111 || resB.Timestamp != 222 {
		t.Errorf("timestamps not echoed: %d, %d", resA.Timestamp, resB.Timestamp)
	}

	if resA.Detection == nil {
		t.Fatal("expected a detection on conn-a")
	}
	if resA.Detection.PlateNumber != "59F1-23456" {
		t.Errorf("plate = %q, want 59F1-23456", resA.Detection.PlateNumber)
	}
	if !strings.HasPrefix(resA.AnnotatedFrame, "data:image/jpeg;base64,") {
		t.Errorf("annotated frame missing data URI prefix")
	}
}

func TestProcessVideoFrameExplicitCameraWins(t *testing.T) {
	svc, _ := newTestService(t, nil, "")

	svc.RegisterCamera("conn-1", "cam-registered")

	res, err := svc.ProcessVideoFrame(context.Background(), "conn-1", stream.InboundMessage{
		Type:     stream.TypeVideoFrame,
		CameraID: "cam-override",
		Frame:    frameDataURI(t),
	})
	if err != nil {
		t.Fatalf("ProcessVideoFrame: %v", err)
	}
	if res.CameraID != "cam-override" {
		t.Errorf("camera = %q, want cam-override", res.CameraID)
	}
	if res.Detection != nil {
		t.Errorf("expected no detection, got %+v", res.Detection)
	}
}

func TestProcessVideoFrameUnregisteredCameraDefaultsUnknown(t *testing.T) {
	svc, _ := newTestService(t, nil, "")

	res, err := svc.ProcessVideoFrame(context.Background(), "conn-stray", stream.InboundMessage{
		Type:  stream.TypeVideoFrame,
		Frame: frameDataURI(t),
	})
	if err != nil {
		t.Fatalf("ProcessVideoFrame: %v", err)
	}
	if res.CameraID != "unknown" {
		t.Errorf("camera = %q, want unknown", res.CameraID)
	}
}

func TestProcessingFPS(t *testing.T) {
	cases := []struct {
		ms   int64
		want float64
	}{
		{0, 0},
		{-3, 0},
		{50, 20},
		{1000, 1},
	}
	for _, c := range cases {
		if got := processingFPS(c.ms); got != c.want {
			t.Errorf("processingFPS(%d) = %v, want %v", c.ms, got, c.want)
		}
	}
}

func TestProcessVideoFrameEmptyFrame(t *testing.T) {
	svc, _ := newTestService(t, nil, "")

	_, err := svc.ProcessVideoFrame(context.Background(), "conn-1", stream.InboundMessage{
		Type: stream.TypeVideoFrame,
	})
	if !errors.Is(err, stream.ErrNoFrameData) {
		t.Fatalf("err = %v, want ErrNoFrameData", err)
	}
}

func TestProcessVideoFrameBadPayload(t *testing.T) {
	svc, _ := newTestService(t, nil, "")

	_, err := svc.ProcessVideoFrame(context.Background(), "conn-1", stream.InboundMessage{
		Type:  stream.TypeVideoFrame,
		Frame: "not base64 at all!!!",
	})
	if !errors.Is(err, stream.ErrDecodeFrame) {
		t.Fatalf("err = %v, want ErrDecodeFrame", err)
	}

	_, err = svc.ProcessVideoFrame(context.Background(), "conn-1", stream.InboundMessage{
		Type:  stream.TypeVideoFrame,
		Frame: base64.StdEncoding.EncodeToString([]byte("not an image")),
	})
	if !errors.Is(err, stream.ErrDecodeFrame) {
		t.Fatalf("err = %v, want ErrDecodeFrame", err)
	}
}

func TestStatsReflectProcessedFrames(t *testing.T) {
	svc, _ := newTestService(t, plateBoxes(), "59F123456")

	frame := frameDataURI(t)
	for i := 0; i < 3; i++ {
		if _, err := svc.ProcessVideoFrame(context.Background(), "conn-1", stream.InboundMessage{
			Type: stream.TypeVideoFrame, Frame: frame,
		}); err != nil {
			t.Fatalf("ProcessVideoFrame: %v", err)
		}
	}

	stats := svc.Stats()
	if stats.Type != stream.TypeStatsResponse {
		t.Errorf("type = %q, want %q", stats.Type, stream.TypeStatsResponse)
	}
	if stats.TotalFrames != 3 {
		t.Errorf("total frames = %d, want 3", stats.TotalFrames)
	}
	if stats.TotalDetections != 3 {
		t.Errorf("total detections = %d, want 3", stats.TotalDetections)
	}
}
