package streamService

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"github.com/wanghoc/eParking/internal/api/stream"
	"github.com/wanghoc/eParking/pkg/alpr"
)

// RegisterCamera binds the connection to a camera. Re-registering simply
// overwrites the binding.
func (s *sessionService) RegisterCamera(connID string, cameraID string) stream.CameraRegistered {
	s.mu.Lock()
	s.sessions[connID] = cameraID
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"conn_id":   connID,
		"camera_id": cameraID,
	}).Info("Camera registered on stream")

	return stream.CameraRegistered{
		Type:     stream.TypeCameraRegistered,
		CameraID: cameraID,
		Status:   "success",
	}
}

func (s *sessionService) UnregisterConnection(connID string) {
	s.mu.Lock()
	cameraID, ok := s.sessions[connID]
	delete(s.sessions, connID)
	s.mu.Unlock()

	if ok {
		s.log.WithFields(logrus.Fields{
			"conn_id":   connID,
			"camera_id": cameraID,
		}).Info("Camera unregistered from stream")
	}
}

// ProcessVideoFrame runs one frame through the detector and builds the
// result addressed to this connection's camera. Errors are per-frame; the
// caller reports them and keeps the connection open.
func (s *sessionService) ProcessVideoFrame(ctx context.Context, connID string, msg stream.InboundMessage) (*stream.DetectionResult, error) {
	cameraID := msg.CameraID
	if cameraID == "" {
		s.mu.RLock()
		cameraID = s.sessions[connID]
		s.mu.RUnlock()
	}
	if cameraID == "" {
		cameraID = "unknown"
	}

	if msg.Frame == "" {
		return nil, stream.ErrNoFrameData
	}

	imgBytes, err := s.utils.DecodeBase64Image(msg.Frame)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"conn_id":   connID,
			"camera_id": cameraID,
			"error":     err.Error(),
		}).Warn("Failed to decode frame payload")
		return nil, stream.ErrDecodeFrame
	}

	frame, _, err := image.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"conn_id":   connID,
			"camera_id": cameraID,
			"error":     err.Error(),
		}).Warn("Failed to decode frame image")
		return nil, stream.ErrDecodeFrame
	}

	res, err := s.detector.Process(ctx, frame)
	if err != nil {
		return nil, err
	}

	fps := processingFPS(res.ProcessingMs)

	result := &stream.DetectionResult{
		Type:      stream.TypeDetectionResult,
		CameraID:  cameraID,
		Timestamp: msg.Timestamp,
		Stats:     s.detector.Stats(),
	}

	var det *alpr.Detection
	if res.Detected {
		det = &alpr.Detection{BBox: res.BBox, Points: res.Points, Confidence: res.Confidence}
		result.Detection = &stream.PlateDetection{
			PlateNumber: res.PlateNumber,
			RawText:     res.RawText,
			Confidence:  res.Confidence,
			IsValid:     res.IsValid,
			BBox:        [4]int{res.BBox.X1, res.BBox.Y1, res.BBox.X2, res.BBox.Y2},
		}
	}

	annotated := alpr.Annotate(frame, det, res.PlateNumber, fps)
	annotatedJPEG, err := alpr.EncodeJPEG(annotated, alpr.JPEGQualityStream)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"conn_id": connID,
			"error":   err.Error(),
		}).Error("Failed to encode annotated frame")
	} else {
		result.AnnotatedFrame = s.utils.JPEGDataURI(annotatedJPEG)
	}

	return result, nil
}

func (s *sessionService) Stats() stream.StatsResponse {
	return stream.StatsResponse{
		Type:  stream.TypeStatsResponse,
		Stats: s.detector.Stats(),
	}
}

// processingFPS derives the overlay frame rate from how long this frame took
// to process, not from the client's send rate.
func processingFPS(processingMs int64) float64 {
	if processingMs <= 0 {
		return 0
	}
	return 1000 / float64(processingMs)
}
