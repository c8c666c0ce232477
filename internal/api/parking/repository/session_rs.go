package parkingRepository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/wanghoc/eParking/internal/api/parking"
	"github.com/wanghoc/eParking/internal/entity"
	contextPkg "github.com/wanghoc/eParking/pkg/context"
)

type ParkingSessionDB struct {
	ID            sql.NullString `db:"id"`
	VehicleID     sql.NullString `db:"vehicle_id"`
	EntryCameraID sql.NullString `db:"entry_camera_id"`
	ExitCameraID  sql.NullString `db:"exit_camera_id"`
	EntryTime     sql.NullTime   `db:"entry_time"`
	ExitTime      sql.NullTime   `db:"exit_time"`
	Fee           sql.NullInt64  `db:"fee"`
	Status        sql.NullString `db:"status"`
}

func (r *sessionRepository) CreateSession(c context.Context, session entity.ParkingSession) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":              session.ID,
		"vehicle_id":      session.VehicleID,
		"entry_camera_id": session.EntryCameraID,
		"entry_time":      session.EntryTime,
		"fee":             session.Fee,
		"status":          session.Status,
	}

	query, args, err := sqlx.Named(queryCreateSession, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateSession")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating parking session")
		return err
	}

	return nil
}

func (r *sessionRepository) GetOpenByVehicle(c context.Context, vehicleID string) (entity.ParkingSession, error) {
	requestID := contextPkg.GetRequestID(c)
	var session ParkingSessionDB

	argsKV := map[string]interface{}{
		"vehicle_id": vehicleID,
	}

	query, args, err := sqlx.Named(queryGetOpenSessionByVehicle, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetOpenByVehicle named query preparation err")
		return entity.ParkingSession{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&session); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.ParkingSession{}, parking.ErrSessionNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetOpenByVehicle execution err")
		return entity.ParkingSession{}, err
	}

	return r.makeSession(session), nil
}

func (r *sessionRepository) CloseSession(c context.Context, id string, exitCameraID string, exitTime time.Time, fee int64) error {
	requestID := contextPkg.GetRequestID(c)

	argsKV := map[string]interface{}{
		"id":             id,
		"exit_camera_id": exitCameraID,
		"exit_time":      exitTime,
		"fee":            fee,
	}

	query, args, err := sqlx.Named(queryCloseSession, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CloseSession named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CloseSession execution err")
		return err
	}

	return nil
}

func (r *sessionRepository) ListByUser(c context.Context, userID string) ([]entity.ParkingSession, error) {
	requestID := contextPkg.GetRequestID(c)

	argsKV := map[string]interface{}{
		"user_id": userID,
	}

	query, args, err := sqlx.Named(queryListSessionsByUser, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("ListByUser named query preparation err")
		return nil, err
	}

	query = r.q.Rebind(query)

	rows, err := r.q.QueryxContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("ListByUser execution err")
		return nil, err
	}
	defer rows.Close()

	var sessions []entity.ParkingSession
	for rows.Next() {
		var session ParkingSessionDB
		if err := rows.StructScan(&session); err != nil {
			return nil, err
		}
		sessions = append(sessions, r.makeSession(session))
	}

	return sessions, rows.Err()
}

func (r *sessionRepository) makeSession(s ParkingSessionDB) entity.ParkingSession {
	return entity.ParkingSession{
		ID:            s.ID.String,
		VehicleID:     s.VehicleID.String,
		EntryCameraID: s.EntryCameraID.String,
		ExitCameraID:  s.ExitCameraID.String,
		EntryTime:     s.EntryTime.Time,
		ExitTime:      s.ExitTime.Time,
		Fee:           s.Fee.Int64,
		Status:        s.Status.String,
	}
}
