package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/wanghoc/eParking/pkg/alpr"
)

// OCRReader talks to the general-purpose OCR engine sidecar. Implements
// alpr.Recognizer; the allowlist restricts output to plate characters.
type OCRReader struct {
	endpoint  string
	client    *http.Client
	allowlist string
}

type ocrResult struct {
	Results []string `json:"results"`
}

func NewOCRReader() *OCRReader {
	endpoint := os.Getenv("OCR_SERVICE_URL")
	if endpoint == "" {
		endpoint = "http://localhost:8002"
	}
	return &OCRReader{
		endpoint:  endpoint,
		client:    &http.Client{Timeout: 15 * time.Second},
		allowlist: alpr.DefaultCharset,
	}
}

func (r *OCRReader) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("OCR service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("OCR health returned status %d", resp.StatusCode)
	}
	return nil
}

// ReadText OCRs the preprocessed crop. PNG keeps the binarized variants
// lossless on the wire.
func (r *OCRReader) ReadText(ctx context.Context, crop *image.Gray) (string, error) {
	var img bytes.Buffer
	if err := png.Encode(&img, crop); err != nil {
		return "", fmt.Errorf("failed to encode crop: %w", err)
	}

	var b bytes.Buffer
	w := multipart.NewWriter(&b)
	fw, err := w.CreateFormFile("file", "crop.png")
	if err != nil {
		return "", err
	}
	fw.Write(img.Bytes())
	w.WriteField("allowlist", r.allowlist)
	w.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint+"/readtext", &b)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("OCR request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("OCR failed: %s", string(body))
	}

	var result ocrResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode OCR response: %w", err)
	}
	return strings.Join(result.Results, ""), nil
}
