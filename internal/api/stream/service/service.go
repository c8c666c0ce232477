package streamService

import (
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"github.com/wanghoc/eParking/internal/api/stream"
	"github.com/wanghoc/eParking/pkg/alpr"
	"github.com/wanghoc/eParking/pkg/utils"
)

type ISessionService interface {
	RegisterCamera(connID string, cameraID string) stream.CameraRegistered
	UnregisterConnection(connID string)
	ProcessVideoFrame(ctx context.Context, connID string, msg stream.InboundMessage) (*stream.DetectionResult, error)
	Stats() stream.StatsResponse
}

type sessionService struct {
	log      *logrus.Logger
	detector *alpr.Detector
	utils    utils.IUtils

	mu       sync.RWMutex
	sessions map[string]string // connID -> cameraID
}

func NewSessionService(log *logrus.Logger, detector *alpr.Detector, utils utils.IUtils) ISessionService {
	return &sessionService{
		log:      log,
		detector: detector,
		utils:    utils,
		sessions: make(map[string]string),
	}
}
