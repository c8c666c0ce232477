package parkingService

import (
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"github.com/wanghoc/eParking/internal/api/parking"
	parkingRepository "github.com/wanghoc/eParking/internal/api/parking/repository"
	"github.com/wanghoc/eParking/internal/entity"
	"github.com/wanghoc/eParking/pkg/redis"
	"github.com/wanghoc/eParking/pkg/utils"
)

type ParkingService interface {
	Vehicle() VehicleDomain
	Camera() CameraDomain
	Session() SessionDomain
	Gate() GateDomain
}

type VehicleDomain interface {
	RegisterVehicle(c context.Context, user entity.UserLoginData, req parking.RegisterVehicleRequest) (parking.VehicleResponse, error)
	ListVehicles(c context.Context, user entity.UserLoginData) (parking.VehiclesResponse, error)
	DeleteVehicle(c context.Context, user entity.UserLoginData, id string) error
}

type CameraDomain interface {
	CreateCamera(c context.Context, req parking.CreateCameraRequest) (parking.CameraResponse, error)
	ListCameras(c context.Context) (parking.CamerasResponse, error)
	DeleteCamera(c context.Context, id string) error
}

type SessionDomain interface {
	ListSessions(c context.Context, user entity.UserLoginData) (parking.SessionsResponse, error)
}

// GateDomain reacts to recognized plates: entry cameras open parking
// sessions, exit cameras close them and settle the fee.
type GateDomain interface {
	HandleRecognition(c context.Context, plate string, cameraID string) (parking.GateStatus, error)
}

type parkingService struct {
	log               *logrus.Logger
	parkingRepository parkingRepository.Repository
	redisServer       redis.IRedis
	utils             utils.IUtils

	vehicleDomain VehicleDomain
	cameraDomain  CameraDomain
	sessionDomain SessionDomain
	gateDomain    GateDomain
}

func (p *parkingService) Vehicle() VehicleDomain {
	return p.vehicleDomain
}

func (p *parkingService) Camera() CameraDomain {
	return p.cameraDomain
}

func (p *parkingService) Session() SessionDomain {
	return p.sessionDomain
}

func (p *parkingService) Gate() GateDomain {
	return p.gateDomain
}

type vehicleDomainImpl struct {
	log   *logrus.Logger
	repo  parkingRepository.Repository
	utils utils.IUtils
}

type cameraDomainImpl struct {
	log   *logrus.Logger
	repo  parkingRepository.Repository
	utils utils.IUtils
}

type sessionDomainImpl struct {
	log  *logrus.Logger
	repo parkingRepository.Repository
}

type gateDomainImpl struct {
	log         *logrus.Logger
	repo        parkingRepository.Repository
	redisServer redis.IRedis
	utils       utils.IUtils
	ratePerHour int64
}

func New(log *logrus.Logger,
	parkingRepo parkingRepository.Repository,
	redisServer redis.IRedis,
	utils utils.IUtils,
	ratePerHour int64,
) ParkingService {
	return &parkingService{
		log:               log,
		parkingRepository: parkingRepo,
		redisServer:       redisServer,
		utils:             utils,

		vehicleDomain: &vehicleDomainImpl{log: log, repo: parkingRepo, utils: utils},
		cameraDomain:  &cameraDomainImpl{log: log, repo: parkingRepo, utils: utils},
		sessionDomain: &sessionDomainImpl{log: log, repo: parkingRepo},
		gateDomain:    &gateDomainImpl{log: log, repo: parkingRepo, redisServer: redisServer, utils: utils, ratePerHour: ratePerHour},
	}
}
