package recognition

import (
	"github.com/wanghoc/eParking/pkg/response"
	"net/http"
)

var (
	ErrDecodeImage         = response.NewError(http.StatusBadRequest, "failed to decode base64 image")
	ErrInternalServerError = response.NewError(http.StatusInternalServerError, "internal server error")
)
