package genai

import (
	"context"
	"fmt"
	"strings"

	"github.com/coder/websocket"

	"github.com/pathfinder-ai/pathfinder/internal/domain"
)

// LiveRelay dials the provider's bidirectional live-audio endpoint.
// Frame contents are opaque: the relay moves bytes, nothing more.
type LiveRelay struct {
	url    string
	apiKey string
}

// NewLiveRelay builds a relay for the provider at baseURL.
func NewLiveRelay(baseURL, apiKey string) *LiveRelay {
	wsURL := strings.Replace(strings.TrimRight(baseURL, "/"), "http", "ws", 1)
	return &LiveRelay{url: wsURL + "/v1beta/live", apiKey: apiKey}
}

// Connect opens a live connection to the provider.
func (r *LiveRelay) Connect(ctx context.Context) (domain.LiveConn, error) {
	url := r.url
	if r.apiKey != "" {
		url += "?key=" + r.apiKey
	}
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial live endpoint: %w", err)
	}
	return &liveConn{conn: conn}, nil
}

type liveConn struct {
	conn *websocket.Conn
}

func (c *liveConn) Send(ctx context.Context, frame []byte) error {
	return c.conn.Write(ctx, websocket.MessageBinary, frame)
}

func (c *liveConn) Receive(ctx context.Context) ([]byte, error) {
	_, data, err := c.conn.Read(ctx)
	return data, err
}

func (c *liveConn) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "")
}
