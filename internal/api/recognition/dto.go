package recognition

type DetectPlateRequest struct {
	ImageBase64 string `json:"image_base64" validate:"required"`
	CameraID    string `json:"camera_id" validate:"omitempty,max=64"`
}

type BBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

type GateOutcome struct {
	Registered    bool   `json:"registered"`
	CameraType    string `json:"camera_type,omitempty"`
	StatusMessage string `json:"status_message,omitempty"`
	PaymentStatus string `json:"payment_status,omitempty"`
}

type DetectPlateResponse struct {
	Success              bool         `json:"success"`
	PlateNumber          *string      `json:"plate_number"`
	Confidence           float64      `json:"confidence"`
	BBox                 *BBox        `json:"bbox,omitempty"`
	RawText              string       `json:"raw_text,omitempty"`
	IsValid              bool         `json:"is_valid"`
	ProcessingTimeMs     int64        `json:"processing_time_ms"`
	AnnotatedImageBase64 string       `json:"annotated_image_base64,omitempty"`
	SnapshotURL          string       `json:"snapshot_url,omitempty"`
	Database             *GateOutcome `json:"database,omitempty"`
	Message              string       `json:"message,omitempty"`
	Error                string       `json:"error,omitempty"`
}

type StatusResponse struct {
	Status string            `json:"status"`
	Models map[string]string `json:"models"`
}
