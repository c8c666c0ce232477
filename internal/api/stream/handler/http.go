package streamHandler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"

	streamService "github.com/wanghoc/eParking/internal/api/stream/service"
	"github.com/wanghoc/eParking/internal/middleware"
	"github.com/wanghoc/eParking/pkg/utils"
)

type StreamHandler struct {
	log            *logrus.Logger
	middleware     middleware.Middleware
	sessionService streamService.ISessionService
	utils          utils.IUtils
}

func New(
	log *logrus.Logger,
	middleware middleware.Middleware,
	ss streamService.ISessionService,
	utils utils.IUtils,
) *StreamHandler {
	return &StreamHandler{
		log:            log,
		middleware:     middleware,
		sessionService: ss,
		utils:          utils,
	}
}

func (h *StreamHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	stream := srv.Group("/stream")
	stream.Use("/ws", wsMiddleware)
	stream.Get("/ws", websocket.New(h.handleStreamSocket))
}
