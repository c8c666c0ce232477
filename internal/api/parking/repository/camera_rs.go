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

type CameraDB struct {
	ID        sql.NullString `db:"id"`
	Name      sql.NullString `db:"name"`
	Type      sql.NullString `db:"type"`
	Location  sql.NullString `db:"location"`
	StreamURL sql.NullString `db:"stream_url"`
	IsActive  bool           `db:"is_active"`
	CreatedAt sql.NullTime   `db:"created_at"`
}

func (r *cameraRepository) CreateCamera(c context.Context, camera entity.Camera) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":         camera.ID,
		"name":       camera.Name,
		"type":       camera.Type,
		"location":   camera.Location,
		"stream_url": camera.StreamURL,
		"is_active":  camera.IsActive,
		"created_at": camera.CreatedAt,
	}

	query, args, err := sqlx.Named(queryCreateCamera, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateCamera")
		return err
	}
	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(c, query, args...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505":
				if pqErr.Constraint == "cameras_name_key" {
					r.log.WithFields(logrus.Fields{
						"request_id": requestID,
						"error":      err.Error(),
					}).Warn("Camera name already exists")
					return parking.ErrCameraNameAlreadyExists
				}
			}
		}

		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating camera")

		return err
	}

	return nil
}

func (r *cameraRepository) GetByID(c context.Context, id string) (entity.Camera, error) {
	requestID := contextPkg.GetRequestID(c)
	var camera CameraDB

	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryGetCameraById, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByID named query preparation err")
		return entity.Camera{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&camera); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Camera{}, parking.ErrCameraNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByID execution err")
		return entity.Camera{}, err
	}

	return r.makeCamera(camera), nil
}

func (r *cameraRepository) ListCameras(c context.Context) ([]entity.Camera, error) {
	requestID := contextPkg.GetRequestID(c)

	query := r.q.Rebind(queryListCameras)

	rows, err := r.q.QueryxContext(c, query)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("ListCameras execution err")
		return nil, err
	}
	defer rows.Close()

	var cameras []entity.Camera
	for rows.Next() {
		var camera CameraDB
		if err := rows.StructScan(&camera); err != nil {
			return nil, err
		}
		cameras = append(cameras, r.makeCamera(camera))
	}

	return cameras, rows.Err()
}

func (r *cameraRepository) DeleteCamera(c context.Context, id string) error {
	requestID := contextPkg.GetRequestID(c)

	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryDeleteCamera, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteCamera named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteCamera execution err")
		return err
	}

	return nil
}

func (r *cameraRepository) makeCamera(cam CameraDB) entity.Camera {
	return entity.Camera{
		ID:        cam.ID.String,
		Name:      cam.Name.String,
		Type:      cam.Type.String,
		Location:  cam.Location.String,
		StreamURL: cam.StreamURL.String,
		IsActive:  cam.IsActive,
		CreatedAt: cam.CreatedAt.Time,
	}
}
