package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/wanghoc/eParking/internal/config"
	"github.com/wanghoc/eParking/pkg/alpr"
	"github.com/wanghoc/eParking/pkg/log"
	"github.com/wanghoc/eParking/pkg/redis"
	"github.com/wanghoc/eParking/pkg/vision"
)

func main() {
	logger := log.NewLogger()
	if err := godotenv.Load(); err != nil {
		logger.Warnf("No .env file loaded: %v", err)
	}

	fiberApp := config.NewFiber(logger)
	validator := config.NewValidator()
	redisServer := redis.New()

	localizer := vision.NewPlateLocator()

	probeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := localizer.Health(probeCtx); err != nil {
		logger.Fatalf("Plate detector sidecar unavailable: %v", err)
	}

	var recognizer alpr.Recognizer
	if os.Getenv("SEQUENCE_WS_URL") != "" {
		recognizer = vision.NewSequenceRecognizer(alpr.DefaultAlphabet())
	} else {
		reader := vision.NewOCRReader()
		if err := reader.Health(probeCtx); err != nil {
			logger.Fatalf("OCR sidecar unavailable: %v", err)
		}
		recognizer = reader
	}

	detector := alpr.NewDetector(localizer, recognizer, logger)
	defer detector.Close()

	server, err := config.NewServer(
		config.WithFiber(fiberApp),
		config.WithLogger(logger),
		config.WithValidator(validator),
		config.WithDatabase(),
		config.WithRedisServer(redisServer),
		config.WithMiddleware(),
		config.WithS3Client(),
		config.WithBcryptUtils(),
		config.WithUtils(),
		config.WithDetector(detector),
	)
	if err != nil {
		logger.Fatal(err)
	}

	server.RegisterHandler()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Run(); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.Info("Server started successfully")

	<-sigChan
	logger.Info("Shutting down server...")
}
