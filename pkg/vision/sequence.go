package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wanghoc/eParking/pkg/alpr"
)

// SequenceRecognizer streams plate crops to the CNN-LSTM sequence service
// over a persistent websocket and decodes the returned score matrix locally.
// Implements alpr.Recognizer.
type SequenceRecognizer struct {
	conn         *websocket.Conn
	mu           sync.Mutex
	url          string
	alphabet     *alpr.Alphabet
	pingInterval time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration
}

type sequenceRequest struct {
	Image string `json:"image"`
}

type sequenceResponse struct {
	Scores [][]float64 `json:"scores"`
	Error  string      `json:"error,omitempty"`
}

func NewSequenceRecognizer(alphabet *alpr.Alphabet) *SequenceRecognizer {
	url := os.Getenv("SEQUENCE_WS_URL")
	if url == "" {
		url = "ws://localhost:8003/api/v1/plate/ws"
	}
	r := &SequenceRecognizer{
		url:          url,
		alphabet:     alphabet,
		pingInterval: 30 * time.Second,
		readTimeout:  10 * time.Second,
		writeTimeout: 5 * time.Second,
	}

	go func() {
		if err := r.Reconnect(); err != nil {
			log.Printf("Initial connection to sequence recognizer failed: %v. Will retry on demand.", err)
		} else {
			log.Printf("Connected to sequence recognizer at %s", url)
		}
	}()

	return r
}

func (r *SequenceRecognizer) IsConnected() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.conn != nil
}

func (r *SequenceRecognizer) Reconnect() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conn != nil {
		r.conn.Close()
		r.conn = nil
	}

	dialer := websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, _, err := dialer.Dial(r.url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", r.url, err)
	}

	conn.SetPingHandler(func(appData string) error {
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(r.writeTimeout))
	})

	r.conn = conn
	go r.keepAlive()
	return nil
}

func (r *SequenceRecognizer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conn != nil {
		r.conn.Close()
		r.conn = nil
	}
}

func (r *SequenceRecognizer) keepAlive() {
	ticker := time.NewTicker(r.pingInterval)
	defer ticker.Stop()

	for range ticker.C {
		r.mu.Lock()
		conn := r.conn
		if conn == nil {
			r.mu.Unlock()
			return
		}
		if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(r.writeTimeout)); err != nil {
			log.Printf("Ping to sequence recognizer failed, marking connection as dead: %v", err)
			r.conn = nil
			conn.Close()
			r.mu.Unlock()
			return
		}
		r.mu.Unlock()
	}
}

// ReadText sends the crop as a base64 PNG and greedy-decodes the T×C score
// matrix the model returns. One in-flight request at a time; the connection
// is dropped and redialed on any wire error.
func (r *SequenceRecognizer) ReadText(ctx context.Context, crop *image.Gray) (string, error) {
	r.mu.Lock()
	if r.conn == nil {
		r.mu.Unlock()
		if err := r.Reconnect(); err != nil {
			return "", fmt.Errorf("cannot connect to sequence recognizer: %w", err)
		}
		r.mu.Lock()
	}
	conn := r.conn

	var img bytes.Buffer
	if err := png.Encode(&img, crop); err != nil {
		r.mu.Unlock()
		return "", fmt.Errorf("failed to encode crop: %w", err)
	}

	deadline := time.Now().Add(r.writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	conn.SetWriteDeadline(deadline)

	payload, _ := json.Marshal(sequenceRequest{
		Image: base64.StdEncoding.EncodeToString(img.Bytes()),
	})
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		r.conn = nil
		conn.Close()
		r.mu.Unlock()
		return "", fmt.Errorf("error sending crop: %w", err)
	}

	conn.SetReadDeadline(time.Now().Add(r.readTimeout))
	_, message, err := conn.ReadMessage()
	if err != nil {
		r.conn = nil
		conn.Close()
		r.mu.Unlock()
		return "", fmt.Errorf("error reading score matrix: %w", err)
	}

	conn.SetReadDeadline(time.Time{})
	conn.SetWriteDeadline(time.Time{})
	r.mu.Unlock()

	var result sequenceResponse
	if err := json.Unmarshal(message, &result); err != nil {
		return "", fmt.Errorf("error unmarshaling score matrix: %w", err)
	}
	if result.Error != "" {
		return "", fmt.Errorf("sequence recognizer error: %s", result.Error)
	}

	return alpr.DecodeGreedy(result.Scores, r.alphabet), nil
}
