package entity

import "time"

// Camera types follow the gate direction naming used on site.
const (
	CameraTypeEntry = "Vao"
	CameraTypeExit  = "Ra"
)

const (
	SessionStatusOpen   = "Open"
	SessionStatusClosed = "Closed"
)

type Vehicle struct {
	ID           string    `db:"id"`
	UserID       string    `db:"user_id"`
	LicensePlate string    `db:"license_plate"`
	Brand        string    `db:"brand"`
	Model        string    `db:"model"`
	CreatedAt    time.Time `db:"created_at"`
}

type Camera struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Type      string    `db:"type"`
	Location  string    `db:"location"`
	StreamURL string    `db:"stream_url"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
}

type ParkingSession struct {
	ID            string    `db:"id"`
	VehicleID     string    `db:"vehicle_id"`
	EntryCameraID string    `db:"entry_camera_id"`
	ExitCameraID  string    `db:"exit_camera_id"`
	EntryTime     time.Time `db:"entry_time"`
	ExitTime      time.Time `db:"exit_time"`
	Fee           int64     `db:"fee"`
	Status        string    `db:"status"`
}

type Wallet struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Balance   int64     `db:"balance"`
	UpdatedAt time.Time `db:"updated_at"`
}
