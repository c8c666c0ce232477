package recognitionHandler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	recognitionService "github.com/wanghoc/eParking/internal/api/recognition/service"
	"github.com/wanghoc/eParking/internal/middleware"
	"github.com/wanghoc/eParking/pkg/utils"
)

type RecognitionHandler struct {
	log                *logrus.Logger
	validator          *validator.Validate
	middleware         middleware.Middleware
	recognitionService recognitionService.IRecognitionService
	utils              utils.IUtils
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	rs recognitionService.IRecognitionService,
	utils utils.IUtils,
) *RecognitionHandler {
	return &RecognitionHandler{
		log:                log,
		validator:          validator,
		middleware:         middleware,
		recognitionService: rs,
		utils:              utils,
	}
}

func (h *RecognitionHandler) Start(srv fiber.Router) {
	recognition := srv.Group("/recognition")
	recognition.Post("/detect-plate", h.DetectPlate)
	recognition.Get("/status", h.Status)
}
