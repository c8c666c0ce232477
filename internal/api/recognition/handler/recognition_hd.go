package recognitionHandler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"

	"github.com/wanghoc/eParking/internal/api/recognition"
	contextPkg "github.com/wanghoc/eParking/pkg/context"
	"github.com/wanghoc/eParking/pkg/handlerUtil"
	"github.com/wanghoc/eParking/pkg/log"
)

// DetectPlate runs the full pipeline on one uploaded frame. Pipeline
// failures are reported inside the payload with success=false; the HTTP
// status stays 200 so camera clients never have to branch on status codes.
func (h *RecognitionHandler) DetectPlate(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing plate detection request")

	var base64Image string
	var cameraID string

	file, err := ctx.FormFile("image")
	if err == nil {
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"path":       ctx.Path(),
			"file_name":  file.Filename,
			"file_size":  file.Size,
		}).Debug("Processing file upload")

		if err := h.utils.ValidateImageFile(file); err != nil {
			return errHandler.Handle(ctx, requestID, err, ctx.Path(), "validate_image_file")
		}

		fileContent, err := file.Open()
		if err != nil {
			return errHandler.Handle(ctx, requestID, err, ctx.Path(), "open_file")
		}
		defer fileContent.Close()

		base64Image, err = h.utils.ConvertFileToBase64(fileContent)
		if err != nil {
			return errHandler.Handle(ctx, requestID, err, ctx.Path(), "convert_to_base64")
		}
		cameraID = ctx.FormValue("camera_id")
	} else {
		var req recognition.DetectPlateRequest
		if err := ctx.BodyParser(&req); err != nil {
			return errHandler.Handle(ctx, requestID, err, ctx.Path(), "parse_request_body")
		}

		if err := h.validator.Struct(req); err != nil {
			return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
		}

		base64Image = req.ImageBase64
		cameraID = req.CameraID
	}

	result, err := h.recognitionService.DetectPlate(c, recognition.DetectPlateRequest{
		ImageBase64: base64Image,
		CameraID:    cameraID,
	})
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "detect_plate")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
	}
}

func (h *RecognitionHandler) Status(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing model status request")

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, h.recognitionService.Status(contextPkg.FromFiberCtx(ctx)))
}
