package v1

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"github.com/nikoo-app/assistant/store"
)

type threadResponse struct {
	ThreadID     string `json:"thread_id"`
	UserID       string `json:"user_id"`
	Title        string `json:"title"`
	MessageCount int32  `json:"message_count"`
	CreatedAt    int64  `json:"created_at"`
	UpdatedAt    int64  `json:"updated_at"`
}

type messageResponse struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"created_at"`
}

type createThreadRequest struct {
	Title string `json:"title"`
}

type postMessageRequest struct {
	Content string `json:"content"`
}

func toThreadResponse(t *store.Thread) threadResponse {
	return threadResponse{
		ThreadID:     t.UID,
		UserID:       t.UserID,
		Title:        t.Title,
		MessageCount: t.MessageCount,
		CreatedAt:    t.CreatedTs,
		UpdatedAt:    t.UpdatedTs,
	}
}

// createThread is the explicit "new chat" action. Threads are otherwise
// created implicitly by the first message on an unknown UID.
func (s *APIV1Service) createThread(c *echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id required")
	}
	var req createThreadRequest
	if err := c.Bind(&req); err != nil || req.Title == "" {
		req.Title = "New Chat"
	}
	thread, err := s.Store.CreateThread(c.Request().Context(), &store.Thread{
		UID:    uuid.New().String(),
		UserID: userID,
		Title:  req.Title,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, toThreadResponse(thread))
}

func (s *APIV1Service) listThreads(c *echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id required")
	}
	threads, err := s.Store.ListThreads(c.Request().Context(), &store.FindThread{UserID: &userID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]threadResponse, 0, len(threads))
	for _, t := range threads {
		resp = append(resp, toThreadResponse(t))
	}
	return c.JSON(http.StatusOK, map[string]any{"threads": resp})
}

// ownedThread loads a thread by UID and verifies the caller owns it.
func (s *APIV1Service) ownedThread(c *echo.Context) (*store.Thread, error) {
	uid := c.Param("id")
	userID := c.Param("userID")
	thread, err := s.Store.GetThread(c.Request().Context(), &store.FindThread{UID: &uid})
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if thread == nil || thread.UserID != userID {
		return nil, echo.NewHTTPError(http.StatusNotFound, "thread not found")
	}
	return thread, nil
}

func (s *APIV1Service) listThreadMessages(c *echo.Context) error {
	thread, err := s.ownedThread(c)
	if err != nil {
		return err
	}
	msgs, err := s.Store.ListMessages(c.Request().Context(), &store.FindMessage{ThreadID: thread.ID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		resp = append(resp, messageResponse{Role: m.Role, Content: m.Content, CreatedAt: m.CreatedTs})
	}
	return c.JSON(http.StatusOK, map[string]any{"messages": resp})
}

// postThreadMessage runs one synchronous conversation turn on a thread,
// creating the thread implicitly when the UID is new.
func (s *APIV1Service) postThreadMessage(c *echo.Context) error {
	uid := c.Param("id")
	userID := c.Param("userID")
	var req postMessageRequest
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "content cannot be empty")
	}

	ctx := c.Request().Context()
	thread, err := s.Store.UpsertThread(ctx, uid, userID)
	if err != nil {
		if errorsIsWrongOwner(err) {
			return echo.NewHTTPError(http.StatusNotFound, "thread not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	answer, err := s.runTurn(ctx, thread.UID, req.Content)
	if err != nil {
		return c.JSON(http.StatusOK, generateChatResponse{
			Success: false,
			Error:   "Error: " + err.Error(),
		})
	}
	return c.JSON(http.StatusOK, generateChatResponse{Response: answer, Success: true})
}

func (s *APIV1Service) deleteThread(c *echo.Context) error {
	thread, err := s.ownedThread(c)
	if err != nil {
		return err
	}
	if err := s.Store.DeleteThread(c.Request().Context(), thread.UID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
