package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/wanghoc/eParking/database/postgres"
	authHandler "github.com/wanghoc/eParking/internal/api/auth/handler"
	authRepository "github.com/wanghoc/eParking/internal/api/auth/repository"
	authService "github.com/wanghoc/eParking/internal/api/auth/service"
	parkingHandler "github.com/wanghoc/eParking/internal/api/parking/handler"
	parkingRepository "github.com/wanghoc/eParking/internal/api/parking/repository"
	parkingService "github.com/wanghoc/eParking/internal/api/parking/service"
	recognitionHandler "github.com/wanghoc/eParking/internal/api/recognition/handler"
	recognitionService "github.com/wanghoc/eParking/internal/api/recognition/service"
	streamHandler "github.com/wanghoc/eParking/internal/api/stream/handler"
	streamService "github.com/wanghoc/eParking/internal/api/stream/service"
	"github.com/wanghoc/eParking/internal/middleware"
	"github.com/wanghoc/eParking/pkg/alpr"
	"github.com/wanghoc/eParking/pkg/bcrypt"
	"github.com/wanghoc/eParking/pkg/redis"
	"github.com/wanghoc/eParking/pkg/s3"
	"github.com/wanghoc/eParking/pkg/utils"
)

type ServerOption func(*Server) error

type Server struct {
	engine      *fiber.App
	db          *sqlx.DB
	log         *logrus.Logger
	middleware  middleware.Middleware
	validator   *validator.Validate
	utils       utils.IUtils
	bcryptUtils bcrypt.IBcrypt
	handlers    []handler
	redisServer redis.IRedis
	s3Client    s3.ItfS3
	detector    *alpr.Detector
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.detector == nil {
		return nil, fmt.Errorf("plate detector is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithS3Client() ServerOption {
	return func(s *Server) error {
		client, err := s3.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize S3 client: %v", err)
			}
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		s.s3Client = client
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func WithBcryptUtils() ServerOption {
	return func(s *Server) error {
		s.bcryptUtils = bcrypt.New()
		return nil
	}
}

func WithDetector(detector *alpr.Detector) ServerOption {
	return func(s *Server) error {
		s.detector = detector
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Auth Domain
	authRepo := authRepository.New(s.db, s.log)
	authServices := authService.New(s.log, authRepo, s.bcryptUtils, s.utils)
	authHandlers := authHandler.New(s.log, authServices, s.validator, s.middleware)

	// Parking Domain
	parkingRepo := parkingRepository.New(s.db, s.log)
	parkingServices := parkingService.New(s.log, parkingRepo, s.redisServer, s.utils, ratePerHour())
	parkingHandlers := parkingHandler.New(s.log, s.validator, s.middleware, parkingServices)

	// Plate Recognition
	recognitionServices := recognitionService.NewRecognitionService(s.log, s.detector, parkingServices.Gate(), s.s3Client, s.utils)
	recognitionHandlers := recognitionHandler.New(s.log, s.validator, s.middleware, recognitionServices, s.utils)

	// Video Stream
	streamServices := streamService.NewSessionService(s.log, s.detector, s.utils)
	streamHandlers := streamHandler.New(s.log, s.middleware, streamServices, s.utils)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, authHandlers, parkingHandlers, recognitionHandlers, streamHandlers)
}

func (s *Server) Run() error {
	router := s.engine.Group("/api/v1")
	s.engine.Use(s.middleware.NewRequestIDMiddleware())

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})

	s.engine.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"status":   "healthy",
			"detector": "ready",
			"stats":    s.detector.Stats(),
		})
	})
}

func ratePerHour() int64 {
	if v := os.Getenv("PARKING_RATE_PER_HOUR"); v != "" {
		if rate, err := strconv.ParseInt(v, 10, 64); err == nil && rate > 0 {
			return rate
		}
	}
	return 5000
}
