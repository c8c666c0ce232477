package parkingRepository

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"github.com/wanghoc/eParking/internal/entity"
)

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var db sqlx.ExtContext
	var commitFunc, rollbackFunc func() error

	db = r.DB

	if tx {
		var err error
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		db = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		Vehicles: &vehicleRepository{q: db, log: r.log},
		Cameras:  &cameraRepository{q: db, log: r.log},
		Sessions: &sessionRepository{q: db, log: r.log},
		Wallets:  &walletRepository{q: db, log: r.log},
		Commit:   commitFunc,
		Rollback: rollbackFunc,
	}, nil
}

type Client struct {
	Vehicles interface {
		CreateVehicle(ctx context.Context, vehicle entity.Vehicle) error
		GetByID(ctx context.Context, id string) (entity.Vehicle, error)
		GetByPlate(ctx context.Context, plate string) (entity.Vehicle, error)
		ListByUser(ctx context.Context, userID string) ([]entity.Vehicle, error)
		DeleteVehicle(ctx context.Context, id string) error
	}

	Cameras interface {
		CreateCamera(ctx context.Context, camera entity.Camera) error
		GetByID(ctx context.Context, id string) (entity.Camera, error)
		ListCameras(ctx context.Context) ([]entity.Camera, error)
		DeleteCamera(ctx context.Context, id string) error
	}

	Sessions interface {
		CreateSession(ctx context.Context, session entity.ParkingSession) error
		GetOpenByVehicle(ctx context.Context, vehicleID string) (entity.ParkingSession, error)
		CloseSession(ctx context.Context, id string, exitCameraID string, exitTime time.Time, fee int64) error
		ListByUser(ctx context.Context, userID string) ([]entity.ParkingSession, error)
	}

	Wallets interface {
		GetByUser(ctx context.Context, userID string) (entity.Wallet, error)
		Debit(ctx context.Context, userID string, amount int64) error
	}

	Commit   func() error
	Rollback func() error
}

type vehicleRepository struct {
	q   sqlx.ExtContext
	log *logrus.Logger
}

type cameraRepository struct {
	q   sqlx.ExtContext
	log *logrus.Logger
}

type sessionRepository struct {
	q   sqlx.ExtContext
	log *logrus.Logger
}

type walletRepository struct {
	q   sqlx.ExtContext
	log *logrus.Logger
}
