package parkingService

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wanghoc/eParking/internal/api/parking"
	"github.com/wanghoc/eParking/internal/entity"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestRegisterVehicleRejectsMalformedPlate(t *testing.T) {
	svc := &vehicleDomainImpl{log: quietLogger()}

	cases := []string{"", "ABC", "51FFF1234", "5951234", "51F12"}
	for _, plate := range cases {
		_, err := svc.RegisterVehicle(context.Background(), entity.UserLoginData{ID: "user-1"},
			parking.RegisterVehicleRequest{LicensePlate: plate})
		if !errors.Is(err, parking.ErrInvalidPlate) {
			t.Errorf("RegisterVehicle(%q) err = %v, want ErrInvalidPlate", plate, err)
		}
	}
}

func TestComputeFee(t *testing.T) {
	svc := &gateDomainImpl{ratePerHour: 5000}

	entry := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		exit time.Time
		want int64
	}{
		{"under a minute still one hour", entry.Add(30 * time.Second), 5000},
		{"half hour", entry.Add(30 * time.Minute), 5000},
		{"exactly one hour", entry.Add(time.Hour), 5000},
		{"one hour one second starts second hour", entry.Add(time.Hour + time.Second), 10000},
		{"ninety minutes", entry.Add(90 * time.Minute), 10000},
		{"full day", entry.Add(24 * time.Hour), 120000},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := svc.computeFee(entry, tc.exit); got != tc.want {
				t.Errorf("computeFee = %d, want %d", got, tc.want)
			}
		})
	}
}
