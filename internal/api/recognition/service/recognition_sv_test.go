package recognitionService

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/wanghoc/eParking/internal/api/parking"
	"github.com/wanghoc/eParking/internal/api/recognition"
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

type stubGate struct {
	plate    string
	cameraID string
	status   parking.GateStatus
}

func (s *stubGate) HandleRecognition(_ context.Context, plate string, cameraID string) (parking.GateStatus, error) {
	s.plate = plate
	s.cameraID = cameraID
	return s.status, nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newService(t *testing.T, boxes []alpr.OrientedBox, text string, gate GateService) IRecognitionService {
	t.Helper()
	detector := alpr.NewDetector(&stubLocalizer{boxes: boxes}, &stubRecognizer{text: text}, quietLogger())
	t.Cleanup(detector.Close)
	return NewRecognitionService(quietLogger(), detector, gate, nil, utils.New())
}

func frameBase64(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 120, 60))
	for y := 0; y < 60; y++ {
		for x := 0; x < 120; x++ {
			img.Set(x, y, color.RGBA{R: 100, G: 100, B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode frame: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func plateBoxes() []alpr.OrientedBox {
	return []alpr.OrientedBox{{
		Points: [4]alpr.Point{
			{X: 10, Y: 10}, {X: 110, Y: 10}, {X: 110, Y: 50}, {X: 10, Y: 50},
		},
		Confidence: 0.92,
	}}
}

func TestDetectPlateBadBase64(t *testing.T) {
	svc := newService(t, nil, "", nil)

	res, err := svc.DetectPlate(context.Background(), recognition.DetectPlateRequest{
		ImageBase64: "!!! definitely not base64 !!!",
	})
	if err != nil {
		t.Fatalf("DetectPlate returned transport error: %v", err)
	}
	if res.Success {
		t.Error("expected success=false")
	}
	if res.Error != "failed to decode base64 image" {
		t.Errorf("error = %q", res.Error)
	}
}

func TestDetectPlateNoDetection(t *testing.T) {
	svc := newService(t, nil, "", nil)

	res, err := svc.DetectPlate(context.Background(), recognition.DetectPlateRequest{
		ImageBase64: frameBase64(t),
	})
	if err != nil {
		t.Fatalf("DetectPlate: %v", err)
	}
	if res.Success {
		t.Error("expected success=false when nothing is detected")
	}
	if res.Message != "No license plate detected" {
		t.Errorf("message = %q", res.Message)
	}
	if res.Error != "" {
		t.Errorf("unexpected error field: %q", res.Error)
	}
}

func TestDetectPlateValidWithGateHandOff(t *testing.T) {
	gate := &stubGate{status: parking.GateStatus{
		Registered:    true,
		CameraType:    "Vao",
		StatusMessage: "Entry recorded",
	}}
	svc := newService(t, plateBoxes(), "59F123456", gate)

	res, err := svc.DetectPlate(context.Background(), recognition.DetectPlateRequest{
		ImageBase64: frameBase64(t),
		CameraID:    "cam-1",
	})
	if err != nil {
		t.Fatalf("DetectPlate: %v", err)
	}
	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
	if res.PlateNumber == nil || *res.PlateNumber != "59F1-23456" {
		t.Fatalf("plate = %v, want 59F1-23456", res.PlateNumber)
	}
	if !res.IsValid {
		t.Error("expected is_valid")
	}
	if res.BBox == nil || res.BBox.Width <= 0 || res.BBox.Height <= 0 {
		t.Errorf("bad bbox: %+v", res.BBox)
	}
	if !strings.HasPrefix(res.AnnotatedImageBase64, "data:image/jpeg;base64,") {
		t.Error("annotated image missing data URI prefix")
	}

	if gate.plate != "59F1-23456" || gate.cameraID != "cam-1" {
		t.Errorf("gate called with (%q, %q)", gate.plate, gate.cameraID)
	}
	if res.Database == nil || res.Database.StatusMessage != "Entry recorded" {
		t.Errorf("gate outcome not propagated: %+v", res.Database)
	}
}

func TestStatusReportsModels(t *testing.T) {
	svc := newService(t, nil, "", nil)

	status := svc.Status(context.Background())
	if status.Status != "online" {
		t.Errorf("status = %q", status.Status)
	}
	if status.Models["plate_detector"] != "loaded" || status.Models["character_recognition"] != "loaded" {
		t.Errorf("models = %v", status.Models)
	}
}
