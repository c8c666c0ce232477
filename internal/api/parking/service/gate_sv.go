package parkingService

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"github.com/wanghoc/eParking/internal/api/parking"
	"github.com/wanghoc/eParking/internal/entity"
	"github.com/wanghoc/eParking/pkg/alpr"
	contextPkg "github.com/wanghoc/eParking/pkg/context"
)

// plateCooldown suppresses repeated gate actions while the same vehicle
// sits in front of the same camera.
const plateCooldown = 15 * time.Second

func (s *gateDomainImpl) HandleRecognition(c context.Context, plate string, cameraID string) (parking.GateStatus, error) {
	requestID := contextPkg.GetRequestID(c)
	formatted := alpr.Format(plate)

	cooldownKey := fmt.Sprintf("gate:cooldown:%s:%s", cameraID, alpr.Clean(formatted))
	if s.redisServer != nil {
		seen, err := s.redisServer.InCooldown(c, cooldownKey)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Cooldown lookup failed, continuing without it")
		} else if seen {
			return parking.GateStatus{
				Registered:    true,
				StatusMessage: "Duplicate detection ignored",
			}, nil
		}
	}

	repo, err := s.repo.NewClient(false)
	if err != nil {
		return parking.GateStatus{}, err
	}

	camera, err := repo.Cameras.GetByID(c, cameraID)
	if err != nil {
		return parking.GateStatus{}, err
	}

	vehicle, err := repo.Vehicles.GetByPlate(c, formatted)
	if err != nil {
		if errors.Is(err, parking.ErrVehicleNotFound) {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"plate":      formatted,
				"camera_id":  cameraID,
			}).Info("Unregistered plate at gate")
			return parking.GateStatus{
				Registered:    false,
				CameraType:    camera.Type,
				StatusMessage: "Vehicle not registered",
			}, nil
		}
		return parking.GateStatus{}, err
	}

	var status parking.GateStatus
	switch camera.Type {
	case entity.CameraTypeEntry:
		status, err = s.handleEntry(c, vehicle, camera)
	case entity.CameraTypeExit:
		status, err = s.handleExit(c, vehicle, camera)
	default:
		status = parking.GateStatus{
			Registered:    true,
			CameraType:    camera.Type,
			StatusMessage: "Camera has no gate role",
		}
	}
	if err != nil {
		return parking.GateStatus{}, err
	}

	if s.redisServer != nil {
		if err := s.redisServer.SetCooldown(c, cooldownKey, plateCooldown); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Failed to set gate cooldown")
		}
	}

	return status, nil
}

func (s *gateDomainImpl) handleEntry(c context.Context, vehicle entity.Vehicle, camera entity.Camera) (parking.GateStatus, error) {
	requestID := contextPkg.GetRequestID(c)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		return parking.GateStatus{}, err
	}

	_, err = repo.Sessions.GetOpenByVehicle(c, vehicle.ID)
	if err == nil {
		return parking.GateStatus{
			Registered:    true,
			CameraType:    camera.Type,
			StatusMessage: "Vehicle already inside",
		}, nil
	}
	if !errors.Is(err, parking.ErrSessionNotFound) {
		return parking.GateStatus{}, err
	}

	id, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		return parking.GateStatus{}, err
	}

	session := entity.ParkingSession{
		ID:            id,
		VehicleID:     vehicle.ID,
		EntryCameraID: camera.ID,
		EntryTime:     time.Now(),
		Status:        entity.SessionStatusOpen,
	}
	if err := repo.Sessions.CreateSession(c, session); err != nil {
		return parking.GateStatus{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"vehicle_id": vehicle.ID,
		"plate":      vehicle.LicensePlate,
		"session_id": session.ID,
	}).Info("Vehicle entered parking lot")

	return parking.GateStatus{
		Registered:    true,
		CameraType:    camera.Type,
		StatusMessage: "Entry recorded",
	}, nil
}

// handleExit closes the open session and settles the fee from the owner's
// wallet in one transaction. An uncovered fee leaves the session open.
func (s *gateDomainImpl) handleExit(c context.Context, vehicle entity.Vehicle, camera entity.Camera) (parking.GateStatus, error) {
	requestID := contextPkg.GetRequestID(c)

	repo, err := s.repo.NewClient(true)
	if err != nil {
		return parking.GateStatus{}, err
	}
	defer repo.Rollback()

	session, err := repo.Sessions.GetOpenByVehicle(c, vehicle.ID)
	if err != nil {
		if errors.Is(err, parking.ErrSessionNotFound) {
			return parking.GateStatus{
				Registered:    true,
				CameraType:    camera.Type,
				StatusMessage: "No open parking session",
			}, nil
		}
		return parking.GateStatus{}, err
	}

	exitTime := time.Now()
	fee := s.computeFee(session.EntryTime, exitTime)

	if err := repo.Wallets.Debit(c, vehicle.UserID, fee); err != nil {
		if errors.Is(err, parking.ErrInsufficientBalance) || errors.Is(err, parking.ErrWalletNotFound) {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"vehicle_id": vehicle.ID,
				"fee":        fee,
			}).Warn("Exit blocked, fee not covered")
			return parking.GateStatus{
				Registered:    true,
				CameraType:    camera.Type,
				StatusMessage: "Exit blocked",
				PaymentStatus: "insufficient_balance",
			}, nil
		}
		return parking.GateStatus{}, err
	}

	if err := repo.Sessions.CloseSession(c, session.ID, camera.ID, exitTime, fee); err != nil {
		return parking.GateStatus{}, err
	}

	if err := repo.Commit(); err != nil {
		return parking.GateStatus{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"vehicle_id": vehicle.ID,
		"plate":      vehicle.LicensePlate,
		"session_id": session.ID,
		"fee":        fee,
	}).Info("Vehicle exited, fee settled")

	return parking.GateStatus{
		Registered:    true,
		CameraType:    camera.Type,
		StatusMessage: "Exit recorded",
		PaymentStatus: "paid",
	}, nil
}

// computeFee charges per started hour with a one hour minimum.
func (s *gateDomainImpl) computeFee(entry, exit time.Time) int64 {
	hours := int64(exit.Sub(entry).Hours())
	if exit.Sub(entry) > time.Duration(hours)*time.Hour {
		hours++
	}
	if hours < 1 {
		hours = 1
	}
	return hours * s.ratePerHour
}
