package parkingService

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"github.com/wanghoc/eParking/internal/api/parking"
	"github.com/wanghoc/eParking/internal/entity"
	"github.com/wanghoc/eParking/pkg/alpr"
	contextPkg "github.com/wanghoc/eParking/pkg/context"
)

func (s *vehicleDomainImpl) RegisterVehicle(c context.Context, user entity.UserLoginData, req parking.RegisterVehicleRequest) (parking.VehicleResponse, error) {
	requestID := contextPkg.GetRequestID(c)

	ok, plate := alpr.Validate(req.LicensePlate)
	if !ok {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"plate":      req.LicensePlate,
		}).Warn("Rejecting malformed license plate")
		return parking.VehicleResponse{}, parking.ErrInvalidPlate
	}
	formatted := alpr.Format(plate)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		return parking.VehicleResponse{}, err
	}

	id, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		return parking.VehicleResponse{}, err
	}

	vehicle := entity.Vehicle{
		ID:           id,
		UserID:       user.ID,
		LicensePlate: formatted,
		Brand:        req.Brand,
		Model:        req.Model,
		CreatedAt:    time.Now(),
	}

	if err := repo.Vehicles.CreateVehicle(c, vehicle); err != nil {
		return parking.VehicleResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"user_id":    user.ID,
		"plate":      formatted,
	}).Info("Vehicle registered")

	return parking.VehicleResponse{
		ID:           vehicle.ID,
		LicensePlate: vehicle.LicensePlate,
		Brand:        vehicle.Brand,
		Model:        vehicle.Model,
		CreatedAt:    vehicle.CreatedAt,
	}, nil
}

func (s *vehicleDomainImpl) ListVehicles(c context.Context, user entity.UserLoginData) (parking.VehiclesResponse, error) {
	repo, err := s.repo.NewClient(false)
	if err != nil {
		return parking.VehiclesResponse{}, err
	}

	vehicles, err := repo.Vehicles.ListByUser(c, user.ID)
	if err != nil {
		return parking.VehiclesResponse{}, err
	}

	resp := parking.VehiclesResponse{Data: make([]parking.VehicleResponse, 0, len(vehicles))}
	for _, v := range vehicles {
		resp.Data = append(resp.Data, parking.VehicleResponse{
			ID:           v.ID,
			LicensePlate: v.LicensePlate,
			Brand:        v.Brand,
			Model:        v.Model,
			CreatedAt:    v.CreatedAt,
		})
	}
	return resp, nil
}

// DeleteVehicle refuses while the vehicle is still inside the lot.
func (s *vehicleDomainImpl) DeleteVehicle(c context.Context, user entity.UserLoginData, id string) error {
	requestID := contextPkg.GetRequestID(c)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		return err
	}

	vehicle, err := repo.Vehicles.GetByID(c, id)
	if err != nil {
		return err
	}
	if vehicle.UserID != user.ID {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"user_id":    user.ID,
			"vehicle_id": id,
		}).Warn("Vehicle delete attempted by non-owner")
		return parking.ErrVehicleNotOwned
	}

	_, err = repo.Sessions.GetOpenByVehicle(c, id)
	if err == nil {
		return parking.ErrVehicleHasOpenSession
	}
	if !errors.Is(err, parking.ErrSessionNotFound) {
		return err
	}

	return repo.Vehicles.DeleteVehicle(c, id)
}

func (s *cameraDomainImpl) CreateCamera(c context.Context, req parking.CreateCameraRequest) (parking.CameraResponse, error) {
	requestID := contextPkg.GetRequestID(c)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		return parking.CameraResponse{}, err
	}

	id, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		return parking.CameraResponse{}, err
	}

	camera := entity.Camera{
		ID:        id,
		Name:      req.Name,
		Type:      req.Type,
		Location:  req.Location,
		StreamURL: req.StreamURL,
		IsActive:  true,
		CreatedAt: time.Now(),
	}

	if err := repo.Cameras.CreateCamera(c, camera); err != nil {
		return parking.CameraResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id":  requestID,
		"camera_id":   camera.ID,
		"camera_type": camera.Type,
	}).Info("Camera created")

	return parking.CameraResponse{
		ID:        camera.ID,
		Name:      camera.Name,
		Type:      camera.Type,
		Location:  camera.Location,
		StreamURL: camera.StreamURL,
		IsActive:  camera.IsActive,
		CreatedAt: camera.CreatedAt,
	}, nil
}

func (s *cameraDomainImpl) ListCameras(c context.Context) (parking.CamerasResponse, error) {
	repo, err := s.repo.NewClient(false)
	if err != nil {
		return parking.CamerasResponse{}, err
	}

	cameras, err := repo.Cameras.ListCameras(c)
	if err != nil {
		return parking.CamerasResponse{}, err
	}

	resp := parking.CamerasResponse{Data: make([]parking.CameraResponse, 0, len(cameras))}
	for _, cam := range cameras {
		resp.Data = append(resp.Data, parking.CameraResponse{
			ID:        cam.ID,
			Name:      cam.Name,
			Type:      cam.Type,
			Location:  cam.Location,
			StreamURL: cam.StreamURL,
			IsActive:  cam.IsActive,
			CreatedAt: cam.CreatedAt,
		})
	}
	return resp, nil
}

func (s *cameraDomainImpl) DeleteCamera(c context.Context, id string) error {
	repo, err := s.repo.NewClient(false)
	if err != nil {
		return err
	}

	if _, err := repo.Cameras.GetByID(c, id); err != nil {
		return err
	}

	return repo.Cameras.DeleteCamera(c, id)
}

func (s *sessionDomainImpl) ListSessions(c context.Context, user entity.UserLoginData) (parking.SessionsResponse, error) {
	repo, err := s.repo.NewClient(false)
	if err != nil {
		return parking.SessionsResponse{}, err
	}

	sessions, err := repo.Sessions.ListByUser(c, user.ID)
	if err != nil {
		return parking.SessionsResponse{}, err
	}

	vehiclePlates := make(map[string]string)
	resp := parking.SessionsResponse{Data: make([]parking.SessionResponse, 0, len(sessions))}
	for _, sess := range sessions {
		plate, ok := vehiclePlates[sess.VehicleID]
		if !ok {
			vehicle, err := repo.Vehicles.GetByID(c, sess.VehicleID)
			if err == nil {
				plate = vehicle.LicensePlate
			}
			vehiclePlates[sess.VehicleID] = plate
		}

		item := parking.SessionResponse{
			ID:           sess.ID,
			LicensePlate: plate,
			EntryTime:    sess.EntryTime,
			Fee:          sess.Fee,
			Status:       sess.Status,
		}
		if sess.Status == entity.SessionStatusClosed {
			exitTime := sess.ExitTime
			item.ExitTime = &exitTime
		}
		resp.Data = append(resp.Data, item)
	}
	return resp, nil
}
