package feed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const closeGracePeriod = time.Second

// WebSocket feeds the payloads of text and binary messages read from a
// websocket connection, in arrival order.
type WebSocket struct {
	conn   *websocket.Conn
	logger *zap.Logger

	// MaxMessages stops the drain after that many messages; zero means
	// until the peer closes.
	MaxMessages int
}

func DialWebSocket(ctx context.Context, url string, logger *zap.Logger) (*WebSocket, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to dial %q: %w", url, err)
	}
	return NewWebSocket(conn, logger), nil
}

func NewWebSocket(conn *websocket.Conn, logger *zap.Logger) *WebSocket {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebSocket{
		conn:   conn,
		logger: logger,
	}
}

func (s *WebSocket) Drain(ctx context.Context, w io.Writer) (int64, error) {
	stop := make(chan struct{})
	defer close(stop)

	// unblocks ReadMessage on cancellation
	go func() {
		select {
		case <-ctx.Done():
			_ = s.conn.Close()
		case <-stop:
		}
	}()

	var total int64

	for count := 0; s.MaxMessages <= 0 || count < s.MaxMessages; count++ {
		messageType, message, err := s.conn.ReadMessage()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return total, ctxErr
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("websocket closed by peer", zap.Int("messages", count), zap.Int64("bytes", total))
				return total, nil
			}
			return total, fmt.Errorf("unable to read message: %w", err)
		}

		s.logger.Debug("read", zap.Int("type", messageType), zap.Int("size", len(message)))

		written, err := write(w, message)
		total += int64(written)
		if err != nil {
			return total, fmt.Errorf("unable to write websocket feed: %w", err)
		}
	}

	return total, nil
}

// Close sends a normal closure to the peer and closes the connection.
func (s *WebSocket) Close() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeGracePeriod)); err != nil {
		s.logger.Debug("cannot send close message", zap.Error(err))
	}
	return s.conn.Close()
}
