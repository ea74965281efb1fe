package reviews

import (
	"context"
	"net/http"
	"time"

	"github.com/RateMyJudge/RMJ-Backend/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// LiveReviews upgrades to a websocket and pushes a full Snapshot on connect
// and after every change to the judge's reviews. The subscription lives
// exactly as long as the connection.
func (h handlers) LiveReviews(w http.ResponseWriter, r *http.Request) {
	s := chi.URLParam(r, "judgeSlug")

	ok, err := h.ledger.JudgeExists(r.Context(), s)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to fetch judge")
		return
	}
	if !ok {
		writeJudgeNotFound(w, s)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error.
		return
	}
	defer conn.Close()

	sub := h.hub.Subscribe(s)
	defer sub.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go readUntilClosed(conn, cancel)

	if err := h.push(ctx, conn, s); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.C:
			if err := h.push(ctx, conn, s); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// push sends a fresh snapshot. A failed load is logged and skipped so the
// view keeps its last good state; only a failed write ends the stream.
func (h handlers) push(ctx context.Context, conn *websocket.Conn, s string) error {
	snap, err := h.ledger.Snapshot(ctx, s)
	if err != nil {
		h.log.Warn("live snapshot failed", zap.String("slug", s), zap.Error(err))
		return nil
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(snap)
}

// readUntilClosed drains control frames and cancels once the peer goes away.
func readUntilClosed(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}
