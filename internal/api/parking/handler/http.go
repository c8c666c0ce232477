package parkingHandler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	parkingService "github.com/wanghoc/eParking/internal/api/parking/service"
	"github.com/wanghoc/eParking/internal/middleware"
)

type ParkingHandler struct {
	log            *logrus.Logger
	validator      *validator.Validate
	middleware     middleware.Middleware
	parkingService parkingService.ParkingService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	ps parkingService.ParkingService,
) *ParkingHandler {
	return &ParkingHandler{
		log:            log,
		validator:      validate,
		middleware:     middleware,
		parkingService: ps,
	}
}

func (h *ParkingHandler) Start(srv fiber.Router) {
	vehicles := srv.Group("/vehicles")
	vehicles.Post("/", h.middleware.NewTokenMiddleware, h.RegisterVehicle)
	vehicles.Get("/", h.middleware.NewTokenMiddleware, h.ListVehicles)
	vehicles.Delete("/:id", h.middleware.NewTokenMiddleware, h.DeleteVehicle)

	cameras := srv.Group("/cameras")
	cameras.Post("/", h.middleware.NewTokenMiddleware, h.CreateCamera)
	cameras.Get("/", h.middleware.NewTokenMiddleware, h.ListCameras)
	cameras.Delete("/:id", h.middleware.NewTokenMiddleware, h.DeleteCamera)

	sessions := srv.Group("/sessions")
	sessions.Get("/", h.middleware.NewTokenMiddleware, h.ListSessions)
}
