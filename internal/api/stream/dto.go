package stream

import "github.com/wanghoc/eParking/pkg/alpr"

// Inbound message types.
const (
	TypeRegisterCamera = "register_camera"
	TypeVideoFrame     = "video_frame"
	TypeGetStats       = "get_stats"
)

// Outbound message types.
const (
	TypeCameraRegistered = "camera_registered"
	TypeDetectionResult  = "detection_result"
	TypeDetectionError   = "detection_error"
	TypeStatsResponse    = "stats_response"
)

// InboundMessage is the envelope every client message arrives in; fields
// beyond Type are populated per message type.
type InboundMessage struct {
	Type      string `json:"type"`
	CameraID  string `json:"cameraId"`
	Frame     string `json:"frame"`
	Timestamp int64  `json:"timestamp"`
}

type CameraRegistered struct {
	Type     string `json:"type"`
	CameraID string `json:"cameraId"`
	Status   string `json:"status"`
}

type PlateDetection struct {
	PlateNumber string  `json:"plate_number,omitempty"`
	RawText     string  `json:"raw_text"`
	Confidence  float64 `json:"confidence"`
	IsValid     bool    `json:"is_valid"`
	BBox        [4]int  `json:"bbox"`
}

type DetectionResult struct {
	Type           string          `json:"type"`
	CameraID       string          `json:"cameraId"`
	Timestamp      int64           `json:"timestamp"`
	AnnotatedFrame string          `json:"annotated_frame,omitempty"`
	Detection      *PlateDetection `json:"detection"`
	Stats          alpr.Stats      `json:"stats"`
}

type DetectionError struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

type StatsResponse struct {
	Type string `json:"type"`
	alpr.Stats
}
