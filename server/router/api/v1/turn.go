package v1

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pkg/errors"

	"github.com/nikoo-app/assistant/chat"
	"github.com/nikoo-app/assistant/plugin/llm"
	"github.com/nikoo-app/assistant/store"
)

func errorsIsWrongOwner(err error) bool {
	return errors.Is(err, store.ErrWrongOwner)
}

// runTurn executes one full conversation turn on a thread: compact history if
// needed, persist the user message, complete, persist the assistant message.
// Within one thread only one turn runs at a time (REST callers rely on the
// store's append ordering; the socket channel serializes turns itself).
func (s *APIV1Service) runTurn(ctx context.Context, threadUID, content string) (string, error) {
	thread, err := s.Store.GetThread(ctx, &store.FindThread{UID: &threadUID})
	if err != nil {
		return "", errors.Wrap(err, "load thread")
	}
	if thread == nil {
		return "", errors.Errorf("thread %s not found", threadUID)
	}

	msgs, err := s.Store.ListMessages(ctx, &store.FindMessage{ThreadID: thread.ID})
	if err != nil {
		return "", errors.Wrap(err, "load history")
	}
	history := make([]llm.Message, 0, len(msgs))
	for _, m := range msgs {
		if m.Role == llm.RoleUser || m.Role == llm.RoleAssistant {
			history = append(history, llm.Message{Role: m.Role, Content: m.Content})
		}
	}

	turns, newSummary := s.Assembler.BuildContext(ctx, thread.Summary, history, content)
	if newSummary != "" {
		if err := s.compactThread(ctx, thread, msgs, newSummary); err != nil {
			// Non-fatal: the built context is already compacted.
			slog.Warn("failed to persist compaction", "thread", thread.UID, "err", err)
		}
	}

	if _, err := s.Store.CreateMessage(ctx, &store.CreateMessage{
		ThreadID:   thread.ID,
		Role:       llm.RoleUser,
		Content:    content,
		TokenCount: int32(len(content) / 4),
	}); err != nil {
		return "", errors.Wrap(err, "persist user message")
	}

	if len(msgs) == 0 && thread.Title == "New Chat" {
		go s.autoTitleThread(context.Background(), thread.UID, content)
	}

	answer, err := s.LLM.Complete(ctx, turns)
	if err != nil {
		return "", err
	}

	if _, err := s.Store.CreateMessage(ctx, &store.CreateMessage{
		ThreadID:   thread.ID,
		Role:       llm.RoleAssistant,
		Content:    answer,
		TokenCount: int32(len(answer) / 4),
	}); err != nil {
		return "", errors.Wrap(err, "persist assistant message")
	}
	// Bump updated_ts so the thread surfaces first in listings.
	_, _ = s.Store.UpdateThread(ctx, &store.UpdateThread{UID: thread.UID})

	return answer, nil
}

// compactThread persists the rolling summary and replaces the stored history
// with the most recent turns the assembler kept.
func (s *APIV1Service) compactThread(ctx context.Context, thread *store.Thread, msgs []*store.Message, newSummary string) error {
	merged := chat.MergeSummaries(thread.Summary, newSummary)
	if _, err := s.Store.UpdateThread(ctx, &store.UpdateThread{UID: thread.UID, Summary: &merged}); err != nil {
		return err
	}

	cutAt := len(msgs) - s.Assembler.KeepRecent
	if cutAt <= 0 {
		return nil
	}
	recent := msgs[cutAt:]
	if err := s.Store.DeleteMessages(ctx, thread.ID); err != nil {
		return err
	}
	for _, m := range recent {
		_, _ = s.Store.CreateMessage(ctx, &store.CreateMessage{
			ThreadID:   thread.ID,
			Role:       m.Role,
			Content:    m.Content,
			TokenCount: m.TokenCount,
		})
	}
	slog.Info("thread compacted", "thread", thread.UID, "summary_len", len(merged), "kept_messages", len(recent))
	return nil
}

// autoTitleThread asks the model for a short title based on the first
// message. Best-effort; runs detached from the request.
func (s *APIV1Service) autoTitleThread(ctx context.Context, uid, firstMessage string) {
	prompt := fmt.Sprintf(
		"Generate a short (5-7 word) title for a chat that starts with:\n%q\nReturn only the title, no quotes.",
		firstMessage,
	)
	title, err := s.LLM.Complete(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}})
	if err != nil || strings.TrimSpace(title) == "" {
		return
	}
	title = strings.TrimSpace(title)
	_, _ = s.Store.UpdateThread(ctx, &store.UpdateThread{UID: uid, Title: &title})
}
