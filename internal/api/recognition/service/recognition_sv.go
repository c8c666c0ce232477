package recognitionService

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"github.com/wanghoc/eParking/internal/api/recognition"
	contextPkg "github.com/wanghoc/eParking/pkg/context"
	"github.com/wanghoc/eParking/pkg/alpr"
)

func (s *recognitionService) DetectPlate(ctx context.Context, req recognition.DetectPlateRequest) (recognition.DetectPlateResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)
	start := time.Now()

	imgBytes, err := s.utils.DecodeBase64Image(req.ImageBase64)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to decode base64 image")
		return recognition.DetectPlateResponse{
			Success:          false,
			Error:            "failed to decode base64 image",
			ProcessingTimeMs: time.Since(start).Milliseconds(),
		}, nil
	}

	frame, _, err := image.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to decode image data")
		return recognition.DetectPlateResponse{
			Success:          false,
			Error:            "failed to decode base64 image",
			ProcessingTimeMs: time.Since(start).Milliseconds(),
		}, nil
	}

	res, err := s.detector.Process(ctx, frame)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Frame processing failed")
		return recognition.DetectPlateResponse{
			Success:          false,
			Error:            err.Error(),
			ProcessingTimeMs: time.Since(start).Milliseconds(),
		}, nil
	}

	if !res.Detected {
		return recognition.DetectPlateResponse{
			Success:          false,
			Message:          "No license plate detected",
			ProcessingTimeMs: res.ProcessingMs,
		}, nil
	}

	resp := recognition.DetectPlateResponse{
		Success:    true,
		Confidence: res.Confidence,
		RawText:    res.RawText,
		IsValid:    res.IsValid,
		BBox: &recognition.BBox{
			X:      res.BBox.X1,
			Y:      res.BBox.Y1,
			Width:  res.BBox.Width(),
			Height: res.BBox.Height(),
		},
		ProcessingTimeMs: res.ProcessingMs,
	}
	if res.IsValid {
		plate := res.PlateNumber
		resp.PlateNumber = &plate
	}

	det := &alpr.Detection{BBox: res.BBox, Points: res.Points, Confidence: res.Confidence}
	annotated := alpr.Annotate(frame, det, res.PlateNumber, 0)
	annotatedJPEG, err := alpr.EncodeJPEG(annotated, alpr.JPEGQualityOneShot)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to encode annotated frame")
	} else {
		resp.AnnotatedImageBase64 = s.utils.JPEGDataURI(annotatedJPEG)
	}

	if res.IsValid && annotatedJPEG != nil && s.s3Client != nil {
		key := fmt.Sprintf("detected_plates/%s_%d.jpg", alpr.Clean(res.PlateNumber), time.Now().UnixMilli())
		url, err := s.s3Client.UploadBytes(key, annotatedJPEG, "image/jpeg")
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
				"key":        key,
			}).Error("Failed to upload detection snapshot")
		} else {
			resp.SnapshotURL = url
		}
	}

	if res.IsValid && req.CameraID != "" && s.gate != nil {
		status, err := s.gate.HandleRecognition(ctx, res.PlateNumber, req.CameraID)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
				"camera_id":  req.CameraID,
				"plate":      res.PlateNumber,
			}).Error("Parking hand-off failed")
		} else {
			resp.Database = &recognition.GateOutcome{
				Registered:    status.Registered,
				CameraType:    status.CameraType,
				StatusMessage: status.StatusMessage,
				PaymentStatus: status.PaymentStatus,
			}
		}
	}

	s.log.WithFields(logrus.Fields{
		"request_id":    requestID,
		"plate":         res.PlateNumber,
		"raw_text":      res.RawText,
		"is_valid":      res.IsValid,
		"confidence":    res.Confidence,
		"processing_ms": res.ProcessingMs,
	}).Info("Plate detection completed")

	return resp, nil
}

func (s *recognitionService) Status(_ context.Context) recognition.StatusResponse {
	return recognition.StatusResponse{
		Status: "online",
		Models: map[string]string{
			"plate_detector":        "loaded",
			"character_recognition": "loaded",
		},
	}
}
