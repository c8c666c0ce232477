package recognitionService

import (
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"github.com/wanghoc/eParking/internal/api/parking"
	"github.com/wanghoc/eParking/internal/api/recognition"
	"github.com/wanghoc/eParking/pkg/alpr"
	"github.com/wanghoc/eParking/pkg/s3"
	"github.com/wanghoc/eParking/pkg/utils"
)

type IRecognitionService interface {
	DetectPlate(ctx context.Context, req recognition.DetectPlateRequest) (recognition.DetectPlateResponse, error)
	Status(ctx context.Context) recognition.StatusResponse
}

// GateService is the parking hand-off invoked when a one-shot request names
// a camera and the plate validates.
type GateService interface {
	HandleRecognition(ctx context.Context, plate string, cameraID string) (parking.GateStatus, error)
}

type recognitionService struct {
	log      *logrus.Logger
	detector *alpr.Detector
	gate     GateService
	s3Client s3.ItfS3
	utils    utils.IUtils
}

func NewRecognitionService(
	log *logrus.Logger,
	detector *alpr.Detector,
	gate GateService,
	s3Client s3.ItfS3,
	utils utils.IUtils,
) IRecognitionService {
	return &recognitionService{
		log:      log,
		detector: detector,
		gate:     gate,
		s3Client: s3Client,
		utils:    utils,
	}
}
