package v1

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v5"

	"github.com/nikoo-app/assistant/chat"
	"github.com/nikoo-app/assistant/plugin/llm"
)

type chatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type generateChatRequest struct {
	Messages []chatTurn `json:"messages"`
	UserID   string     `json:"user_id"`
}

type generateChatResponse struct {
	Response string `json:"response"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

// generateChat is the stateless request channel: the supplied message list is
// the entire context. Validation failures are client errors; upstream
// failures come back as a structured body, never a transport fault.
func (s *APIV1Service) generateChat(c *echo.Context) error {
	var req generateChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validateGenerateChat(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if s.Profile.AIAPIKey == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "API key is not configured")
	}

	turns := make([]llm.Message, 0, len(req.Messages)+1)
	turns = append(turns, llm.Message{Role: llm.RoleSystem, Content: chat.SystemInstruction})
	for _, m := range req.Messages {
		turns = append(turns, llm.Message{Role: m.Role, Content: m.Content})
	}

	slog.Info("generating response", "user", req.UserID, "turns", len(turns))
	text, err := s.LLM.Complete(c.Request().Context(), turns)
	if err != nil {
		slog.Error("completion failed", "user", req.UserID, "err", err)
		return c.JSON(http.StatusOK, generateChatResponse{
			Success: false,
			Error:   "Error: " + err.Error(),
		})
	}
	return c.JSON(http.StatusOK, generateChatResponse{Response: text, Success: true})
}

func validateGenerateChat(req *generateChatRequest) error {
	if strings.TrimSpace(req.UserID) == "" {
		return errValidation("user_id cannot be empty")
	}
	if len(req.Messages) == 0 {
		return errValidation("messages list cannot be empty")
	}
	for _, m := range req.Messages {
		if m.Role != llm.RoleUser && m.Role != llm.RoleAssistant {
			return errValidation(`role must be "user" or "assistant"`)
		}
		if strings.TrimSpace(m.Content) == "" {
			return errValidation("content cannot be empty")
		}
	}
	return nil
}

type errValidation string

func (e errValidation) Error() string { return string(e) }

type healthResponse struct {
	Status  string `json:"status"`
	Model   string `json:"model,omitempty"`
	Message string `json:"message,omitempty"`
}

// health reports whether the upstream credential is configured.
func (s *APIV1Service) health(c *echo.Context) error {
	if s.Profile.AIAPIKey == "" {
		return c.JSON(http.StatusOK, healthResponse{Status: "error", Message: "API key not configured"})
	}
	return c.JSON(http.StatusOK, healthResponse{Status: "ok", Model: s.Profile.AIModel})
}
