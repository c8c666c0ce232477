package parking

import (
	"github.com/wanghoc/eParking/pkg/response"
	"net/http"
)

var (
	ErrInvalidPlate            = response.NewError(http.StatusBadRequest, "malformed license plate")
	ErrVehicleNotFound         = response.NewError(http.StatusNotFound, "vehicle not found")
	ErrPlateAlreadyRegistered  = response.NewError(http.StatusConflict, "license plate already registered")
	ErrVehicleHasOpenSession   = response.NewError(http.StatusConflict, "vehicle has an open parking session")
	ErrVehicleNotOwned         = response.NewError(http.StatusForbidden, "vehicle does not belong to user")
	ErrCameraNotFound          = response.NewError(http.StatusNotFound, "camera not found")
	ErrCameraNameAlreadyExists = response.NewError(http.StatusConflict, "camera name already exists")
	ErrSessionNotFound         = response.NewError(http.StatusNotFound, "parking session not found")
	ErrWalletNotFound          = response.NewError(http.StatusNotFound, "wallet not found")
	ErrInsufficientBalance     = response.NewError(http.StatusPaymentRequired, "insufficient wallet balance")
)
