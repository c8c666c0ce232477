package parkingRepository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/wanghoc/eParking/internal/api/parking"
	"github.com/wanghoc/eParking/internal/entity"
	contextPkg "github.com/wanghoc/eParking/pkg/context"
)

type VehicleDB struct {
	ID           sql.NullString `db:"id"`
	UserID       sql.NullString `db:"user_id"`
	LicensePlate sql.NullString `db:"license_plate"`
	Brand        sql.NullString `db:"brand"`
	Model        sql.NullString `db:"model"`
	CreatedAt    sql.NullTime   `db:"created_at"`
}

func (r *vehicleRepository) CreateVehicle(c context.Context, vehicle entity.Vehicle) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":            vehicle.ID,
		"user_id":       vehicle.UserID,
		"license_plate": vehicle.LicensePlate,
		"brand":         vehicle.Brand,
		"model":         vehicle.Model,
		"created_at":    vehicle.CreatedAt,
	}

	query, args, err := sqlx.Named(queryCreateVehicle, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateVehicle")
		return err
	}
	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(c, query, args...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505":
				if pqErr.Constraint == "vehicles_license_plate_key" {
					r.log.WithFields(logrus.Fields{
						"request_id": requestID,
						"error":      err.Error(),
					}).Warn("License plate already registered")
					return parking.ErrPlateAlreadyRegistered
				}
			}
		}

		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating vehicle")

		return err
	}

	return nil
}

func (r *vehicleRepository) GetByID(c context.Context, id string) (entity.Vehicle, error) {
	requestID := contextPkg.GetRequestID(c)
	var vehicle VehicleDB

	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryGetVehicleById, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByID named query preparation err")
		return entity.Vehicle{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&vehicle); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Vehicle{}, parking.ErrVehicleNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByID execution err")
		return entity.Vehicle{}, err
	}

	return r.makeVehicle(vehicle), nil
}

func (r *vehicleRepository) GetByPlate(c context.Context, plate string) (entity.Vehicle, error) {
	requestID := contextPkg.GetRequestID(c)
	var vehicle VehicleDB

	argsKV := map[string]interface{}{
		"license_plate": plate,
	}

	query, args, err := sqlx.Named(queryGetVehicleByPlate, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByPlate named query preparation err")
		return entity.Vehicle{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&vehicle); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Vehicle{}, parking.ErrVehicleNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByPlate execution err")
		return entity.Vehicle{}, err
	}

	return r.makeVehicle(vehicle), nil
}

func (r *vehicleRepository) ListByUser(c context.Context, userID string) ([]entity.Vehicle, error) {
	requestID := contextPkg.GetRequestID(c)

	argsKV := map[string]interface{}{
		"user_id": userID,
	}

	query, args, err := sqlx.Named(queryListVehiclesByUser, argsKV)
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

	var vehicles []entity.Vehicle
	for rows.Next() {
		var vehicle VehicleDB
		if err := rows.StructScan(&vehicle); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, r.makeVehicle(vehicle))
	}

	return vehicles, rows.Err()
}

func (r *vehicleRepository) DeleteVehicle(c context.Context, id string) error {
	requestID := contextPkg.GetRequestID(c)

	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryDeleteVehicle, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteVehicle named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteVehicle execution err")
		return err
	}

	return nil
}

func (r *vehicleRepository) makeVehicle(v VehicleDB) entity.Vehicle {
	return entity.Vehicle{
		ID:           v.ID.String,
		UserID:       v.UserID.String,
		LicensePlate: v.LicensePlate.String,
		Brand:        v.Brand.String,
		Model:        v.Model.String,
		CreatedAt:    v.CreatedAt.Time,
	}
}
