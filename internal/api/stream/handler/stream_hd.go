package streamHandler

import (
	"time"

	"github.com/gofiber/websocket/v2"
	jsoniter "github.com/json-iterator/go"
	"golang.org/x/net/context"

	"github.com/wanghoc/eParking/internal/api/stream"
)

// handleStreamSocket owns one camera connection: messages are handled in
// order, per-frame failures are answered with detection_error and the
// connection stays open.
func (h *StreamHandler) handleStreamSocket(c *websocket.Conn) {
	connID, err := h.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		h.log.Errorf("Failed to generate connection ID: %v", err)
		return
	}

	h.log.WithField("conn_id", connID).Info("Stream WebSocket client connected")
	defer func() {
		h.sessionService.UnregisterConnection(connID)
		h.log.WithField("conn_id", connID).Info("Stream WebSocket client disconnected")
	}()

	c.SetPingHandler(func(data string) error {
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			h.log.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	maxReadTimeout := 60 * time.Second

	for {
		if err := c.SetReadDeadline(time.Now().Add(maxReadTimeout)); err != nil {
			h.log.Errorf("Error setting read deadline: %v", err)
			break
		}

		_, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Errorf("Stream WebSocket error: %v", err)
			} else {
				h.log.Info("Stream WebSocket connection closed")
			}
			break
		}

		var msg stream.InboundMessage
		if err := jsoniter.Unmarshal(message, &msg); err != nil {
			if !h.writeJSON(c, stream.DetectionError{Type: stream.TypeDetectionError, Error: "invalid message"}) {
				break
			}
			continue
		}

		var payload interface{}
		switch msg.Type {
		case stream.TypeRegisterCamera:
			payload = h.sessionService.RegisterCamera(connID, msg.CameraID)

		case stream.TypeVideoFrame:
			result, err := h.sessionService.ProcessVideoFrame(context.Background(), connID, msg)
			if err != nil {
				payload = stream.DetectionError{Type: stream.TypeDetectionError, Error: err.Error()}
			} else {
				payload = result
			}

		case stream.TypeGetStats:
			payload = h.sessionService.Stats()

		default:
			payload = stream.DetectionError{Type: stream.TypeDetectionError, Error: stream.ErrUnknownMessageType.Error()}
		}

		if !h.writeJSON(c, payload) {
			break
		}
	}
}

func (h *StreamHandler) writeJSON(c *websocket.Conn, payload interface{}) bool {
	if err := c.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
		h.log.Errorf("Error setting write deadline: %v", err)
		return false
	}
	if err := c.WriteJSON(payload); err != nil {
		h.log.Errorf("Error writing JSON response: %v", err)
		return false
	}
	if err := c.SetWriteDeadline(time.Time{}); err != nil {
		h.log.Errorf("Error resetting write deadline: %v", err)
		return false
	}
	return true
}
