// Package v1 exposes the chat API: the synchronous generate endpoint, the
// thread REST surface, and the WebSocket streaming channel.
package v1

import (
	"github.com/labstack/echo/v5"

	"github.com/nikoo-app/assistant/chat"
	"github.com/nikoo-app/assistant/plugin/llm"
	"github.com/nikoo-app/assistant/server/profile"
	"github.com/nikoo-app/assistant/store"
)

// APIV1Service carries the collaborators every handler needs. No per-request
// state lives here; each connection and request gets its own scope.
type APIV1Service struct {
	Profile   *profile.Profile
	Store     *store.Store
	LLM       llm.Completer
	Assembler *chat.Assembler
}

// NewAPIV1Service wires the handlers to their collaborators.
func NewAPIV1Service(p *profile.Profile, st *store.Store, completer llm.Completer) *APIV1Service {
	return &APIV1Service{
		Profile:   p,
		Store:     st,
		LLM:       completer,
		Assembler: chat.NewAssembler(completer, p.CompactThreshold, p.KeepRecent),
	}
}

// RegisterRoutes attaches all routes to the echo instance.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.health)

	// The :id segment is the user id on two-segment routes and the thread id
	// on three-segment ones, mirroring the original path layout. One name
	// keeps the router's param tree consistent.
	g := e.Group("/api")
	g.POST("/generate_chat", s.generateChat)
	g.POST("/threads/:id", s.createThread)
	g.GET("/threads/:id", s.listThreads)
	g.GET("/threads/:id/:userID/messages", s.listThreadMessages)
	g.POST("/threads/:id/:userID/messages", s.postThreadMessage)
	g.DELETE("/threads/:id/:userID", s.deleteThread)

	e.GET("/ws/chat/:uid/:userID", s.chatSocket)
}
