package handler

import (
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/pathfinder-ai/pathfinder/internal/domain"
)

// LiveHandler bridges a browser websocket with the provider's live audio
// endpoint. Frames pass through unchanged in both directions; their encoding
// is the client's and provider's business.
type LiveHandler struct {
	relay domain.LiveRelay
}

// NewLiveHandler creates a new LiveHandler.
func NewLiveHandler(relay domain.LiveRelay) *LiveHandler {
	return &LiveHandler{relay: relay}
}

// HandleLive upgrades the request to a websocket and relays frames between
// the client and the provider until either side closes.
// GET /api/live
func (h *LiveHandler) HandleLive(w http.ResponseWriter, r *http.Request) {
	client, err := websocket.Accept(w, r, nil)
	if err != nil {
		slog.Error("accept live websocket", "error", err)
		return
	}
	defer client.Close(websocket.StatusInternalError, "relay closed")

	provider, err := h.relay.Connect(r.Context())
	if err != nil {
		slog.Error("connect live provider", "error", err)
		client.Close(websocket.StatusInternalError, "provider unavailable")
		return
	}
	defer provider.Close()

	g, ctx := errgroup.WithContext(r.Context())

	g.Go(func() error {
		for {
			_, frame, err := client.Read(ctx)
			if err != nil {
				return err
			}
			if err := provider.Send(ctx, frame); err != nil {
				return err
			}
		}
	})

	g.Go(func() error {
		for {
			frame, err := provider.Receive(ctx)
			if err != nil {
				return err
			}
			if err := client.Write(ctx, websocket.MessageBinary, frame); err != nil {
				return err
			}
		}
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil && !isExpectedClose(err) {
		slog.Error("live relay ended", "error", err)
	}
	client.Close(websocket.StatusNormalClosure, "")
}

func isExpectedClose(err error) bool {
	status := websocket.CloseStatus(err)
	return status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway
}
