package v1

import (
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/labstack/echo/v5"
	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"
	"golang.org/x/net/websocket"

	"github.com/nikoo-app/assistant/plugin/llm"
)

// wsInbound is the only frame clients send: a user message.
type wsInbound struct {
	Type    string `json:"type"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatSocket upgrades the connection and hands it to the per-connection loop.
// Each open socket is an independent sequential task; turns on one thread are
// never pipelined.
func (s *APIV1Service) chatSocket(c *echo.Context) error {
	uid := c.Param("uid")
	userID := c.Param("userID")
	if uid == "" || userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "thread_id and user_id required")
	}
	websocket.Handler(func(ws *websocket.Conn) {
		s.serveChatSocket(ws, uid, userID)
	}).ServeHTTP(c.Response(), c.Request())
	return nil
}

func (s *APIV1Service) serveChatSocket(ws *websocket.Conn, uid, userID string) {
	defer ws.Close()
	ctx := ws.Request().Context()
	connID := shortuuid.New()
	log := slog.With("conn", connID, "thread", uid, "user", userID)

	emit := func(event map[string]any) {
		if err := websocket.JSON.Send(ws, event); err != nil {
			log.Warn("failed to send event", "type", event["type"], "err", err)
		}
	}

	// Connecting: existence is not required, the thread is created implicitly.
	thread, err := s.Store.UpsertThread(ctx, uid, userID)
	if err != nil {
		emit(map[string]any{"type": "error", "content": "failed to open thread: " + err.Error()})
		return
	}
	emit(map[string]any{"type": "connected", "thread_id": thread.UID, "user_id": userID})
	log.Info("chat socket connected")

	for {
		var in wsInbound
		if err := websocket.JSON.Receive(ws, &in); err != nil {
			if isDisconnect(err) {
				log.Info("chat socket closed")
				return
			}
			emit(map[string]any{"type": "error", "content": "invalid message payload"})
			continue
		}
		if in.Type != "message" || in.Role != llm.RoleUser || strings.TrimSpace(in.Content) == "" {
			emit(map[string]any{"type": "error", "content": `expected {"type": "message", "role": "user", "content": "..."}`})
			continue
		}

		emit(map[string]any{"type": "typing"})

		answer, err := s.runTurn(ctx, thread.UID, in.Content)
		if err != nil {
			// Single-turn failures keep the connection open.
			log.Warn("turn failed", "err", err)
			emit(map[string]any{"type": "error", "content": "Error: " + err.Error()})
			continue
		}
		emit(map[string]any{"type": "response", "content": answer, "success": true})
	}
}

// isDisconnect reports whether the receive error means the peer is gone
// rather than that it sent a malformed frame.
func isDisconnect(err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	var se *json.SyntaxError
	var te *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &te) {
		return false
	}
	// Unknown error class: treat as fatal to avoid spinning on a dead socket.
	return true
}
