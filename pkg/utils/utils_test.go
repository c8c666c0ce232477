package utils

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"
	"time"
)

func TestDecodeBase64Image(t *testing.T) {
	u := New()
	payload := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x01, 0x02}
	encoded := base64.StdEncoding.EncodeToString(payload)

	t.Run("bare base64", func(t *testing.T) {
		decoded, err := u.DecodeBase64Image(encoded)
		if err != nil {
			t.Fatalf("DecodeBase64Image: %v", err)
		}
		if !bytes.Equal(decoded, payload) {
			t.Errorf("decoded = %v, want %v", decoded, payload)
		}
	})

	t.Run("data URI", func(t *testing.T) {
		decoded, err := u.DecodeBase64Image("data:image/jpeg;base64," + encoded)
		if err != nil {
			t.Fatalf("DecodeBase64Image: %v", err)
		}
		if !bytes.Equal(decoded, payload) {
			t.Errorf("decoded = %v, want %v", decoded, payload)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if _, err := u.DecodeBase64Image(""); err == nil {
			t.Error("expected error for empty input")
		}
	})

	t.Run("malformed data URI", func(t *testing.T) {
		if _, err := u.DecodeBase64Image("data:image/jpeg;base64"); err == nil {
			t.Error("expected error for data URI without comma")
		}
	})

	t.Run("invalid base64", func(t *testing.T) {
		if _, err := u.DecodeBase64Image("!!! not base64 !!!"); err == nil {
			t.Error("expected error for invalid base64")
		}
	})
}

func TestJPEGDataURI(t *testing.T) {
	u := New()
	payload := []byte{0xFF, 0xD8, 0xFF}

	uri := u.JPEGDataURI(payload)
	if !strings.HasPrefix(uri, "data:image/jpeg;base64,") {
		t.Fatalf("missing prefix: %q", uri)
	}

	decoded, err := u.DecodeBase64Image(uri)
	if err != nil {
		t.Fatalf("round trip decode: %v", err)
	}
	if !bytes.Equal(decoded, payload) {
		t.Errorf("round trip = %v, want %v", decoded, payload)
	}
}

func TestNewULIDFromTimestamp(t *testing.T) {
	u := New()

	id, err := u.NewULIDFromTimestamp(time.Now())
	if err != nil {
		t.Fatalf("NewULIDFromTimestamp: %v", err)
	}
	if len(id) != 26 {
		t.Errorf("ULID length = %d, want 26", len(id))
	}
}
