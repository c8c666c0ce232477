package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"github.com/wanghoc/eParking/pkg/alpr"
)

// PlateLocator talks to the YOLO OBB sidecar that finds license plates in
// full frames. Implements alpr.Localizer.
type PlateLocator struct {
	endpoint string
	client   *http.Client
}

type obbDetection struct {
	Points     [][2]int `json:"points"`
	Confidence float64  `json:"confidence"`
}

type obbResult struct {
	Detections      []obbDetection `json:"detections"`
	Count           int            `json:"count"`
	InferenceTimeMs float64        `json:"inference_time_ms"`
}

type sidecarHealth struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

func NewPlateLocator() *PlateLocator {
	endpoint := os.Getenv("PLATE_DETECTOR_URL")
	if endpoint == "" {
		endpoint = "http://localhost:8001"
	}
	return &PlateLocator{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Health probes the sidecar; an error means the model is not servable.
func (l *PlateLocator) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.endpoint+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return fmt.Errorf("plate detector unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("plate detector health returned status %d", resp.StatusCode)
	}
	var health sidecarHealth
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return fmt.Errorf("failed to decode health response: %w", err)
	}
	if !health.ModelLoaded {
		return fmt.Errorf("plate detector model not loaded (status %q)", health.Status)
	}
	return nil
}

// LocatePlates sends the frame as a JPEG and returns the oriented boxes the
// model found above the confidence threshold.
func (l *PlateLocator) LocatePlates(ctx context.Context, frame image.Image, confThreshold float64) ([]alpr.OrientedBox, error) {
	frameJPEG, err := alpr.EncodeJPEG(frame, alpr.JPEGQualityOneShot)
	if err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}

	var b bytes.Buffer
	w := multipart.NewWriter(&b)
	fw, err := w.CreateFormFile("file", "frame.jpg")
	if err != nil {
		return nil, err
	}
	fw.Write(frameJPEG)
	w.WriteField("conf_threshold", fmt.Sprintf("%.3f", confThreshold))
	w.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.endpoint+"/detect", &b)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("plate detection request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("plate detection failed: %s", string(body))
	}

	var result obbResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode detection response: %w", err)
	}

	boxes := make([]alpr.OrientedBox, 0, len(result.Detections))
	for _, det := range result.Detections {
		if len(det.Points) != 4 {
			continue
		}
		var box alpr.OrientedBox
		box.Confidence = det.Confidence
		for i, p := range det.Points {
			box.Points[i] = alpr.Point{X: p[0], Y: p[1]}
		}
		boxes = append(boxes, box)
	}
	return boxes, nil
}
