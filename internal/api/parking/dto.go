package parking

import "time"

type RegisterVehicleRequest struct {
	LicensePlate string `json:"license_plate" validate:"required,min=7,max=12"`
	Brand        string `json:"brand" validate:"max=100"`
	Model        string `json:"model" validate:"max=100"`
}

type VehicleResponse struct {
	ID           string    `json:"id"`
	LicensePlate string    `json:"license_plate"`
	Brand        string    `json:"brand,omitempty"`
	Model        string    `json:"model,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type VehiclesResponse struct {
	Data []VehicleResponse `json:"data"`
}

type CreateCameraRequest struct {
	Name      string `json:"name" validate:"required,min=3,max=255"`
	Type      string `json:"type" validate:"required,oneof=Vao Ra"`
	Location  string `json:"location" validate:"max=255"`
	StreamURL string `json:"stream_url" validate:"omitempty,url"`
}

type CameraResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Location  string    `json:"location,omitempty"`
	StreamURL string    `json:"stream_url,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type CamerasResponse struct {
	Data []CameraResponse `json:"data"`
}

type SessionResponse struct {
	ID           string     `json:"id"`
	LicensePlate string     `json:"license_plate"`
	EntryTime    time.Time  `json:"entry_time"`
	ExitTime     *time.Time `json:"exit_time,omitempty"`
	Fee          int64      `json:"fee"`
	Status       string     `json:"status"`
}

type SessionsResponse struct {
	Data []SessionResponse `json:"data"`
}

// GateStatus is the outcome of the recognition hand-off: what the gate did
// with a recognized plate.
type GateStatus struct {
	Registered    bool   `json:"registered"`
	CameraType    string `json:"camera_type,omitempty"`
	StatusMessage string `json:"status_message,omitempty"`
	PaymentStatus string `json:"payment_status,omitempty"`
}
