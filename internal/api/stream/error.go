package stream

import (
	"github.com/wanghoc/eParking/pkg/response"
	"net/http"
)

var (
	ErrNoFrameData        = response.NewError(http.StatusBadRequest, "no frame data provided")
	ErrDecodeFrame        = response.NewError(http.StatusBadRequest, "failed to decode frame")
	ErrUnknownMessageType = response.NewError(http.StatusBadRequest, "unknown message type")
)
