package parkingRepository

const (
	queryCreateVehicle = `
INSERT INTO Vehicles (id, user_id, license_plate, brand, model, created_at)
VALUES (:id, :user_id, :license_plate, :brand, :model, :created_at)`

	queryGetVehicleById = `
SELECT id, user_id, license_plate, brand, model, created_at
FROM Vehicles
    WHERE id = :id`

	queryGetVehicleByPlate = `
SELECT id, user_id, license_plate, brand, model, created_at
FROM Vehicles
    WHERE license_plate = :license_plate`

	queryListVehiclesByUser = `
SELECT id, user_id, license_plate, brand, model, created_at
FROM Vehicles
    WHERE user_id = :user_id
ORDER BY created_at DESC`

	queryDeleteVehicle = `
DELETE FROM Vehicles
WHERE id = :id`

	queryCreateCamera = `
INSERT INTO Cameras (id, name, type, location, stream_url, is_active, created_at)
VALUES (:id, :name, :type, :location, :stream_url, :is_active, :created_at)`

	queryGetCameraById = `
SELECT id, name, type, location, stream_url, is_active, created_at
FROM Cameras
    WHERE id = :id`

	queryListCameras = `
SELECT id, name, type, location, stream_url, is_active, created_at
FROM Cameras
ORDER BY created_at DESC`

	queryDeleteCamera = `
DELETE FROM Cameras
WHERE id = :id`

	queryCreateSession = `
INSERT INTO ParkingSessions (id, vehicle_id, entry_camera_id, entry_time, fee, status)
VALUES (:id, :vehicle_id, :entry_camera_id, :entry_time, :fee, :status)`

	queryGetOpenSessionByVehicle = `
SELECT id, vehicle_id, entry_camera_id, exit_camera_id, entry_time, exit_time, fee, status
FROM ParkingSessions
    WHERE vehicle_id = :vehicle_id AND status = 'Open'`

	queryCloseSession = `
UPDATE ParkingSessions
SET exit_camera_id = :exit_camera_id,
    exit_time = :exit_time,
    fee = :fee,
    status = 'Closed'
WHERE id = :id`

	queryListSessionsByUser = `
SELECT s.id, s.vehicle_id, s.entry_camera_id, s.exit_camera_id, s.entry_time, s.exit_time, s.fee, s.status
FROM ParkingSessions s
JOIN Vehicles v ON v.id = s.vehicle_id
    WHERE v.user_id = :user_id
ORDER BY s.entry_time DESC`

	queryGetWalletByUser = `
SELECT id, user_id, balance, updated_at
FROM Wallets
    WHERE user_id = :user_id`

	queryDebitWallet = `
UPDATE Wallets
SET balance = balance - :amount,
    updated_at = :updated_at
WHERE user_id = :user_id AND balance >= :amount`
)
