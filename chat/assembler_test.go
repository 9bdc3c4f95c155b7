package chat

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikoo-app/assistant/plugin/llm"
)

// stubCompleter records calls and replays a scripted reply or error.
type stubCompleter struct {
	reply string
	err   error
	calls [][]llm.Message
}

func (s *stubCompleter) Complete(_ context.Context, turns []llm.Message) (string, error) {
	s.calls = append(s.calls, turns)
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func turnsOf(n int) []llm.Message {
	out := make([]llm.Message, 0, n)
	for i := 0; i < n; i++ {
		role := llm.RoleUser
		if i%2 == 1 {
			role = llm.RoleAssistant
		}
		out = append(out, llm.Message{Role: role, Content: fmt.Sprintf("turn %d", i)})
	}
	return out
}

func TestBuildContextEmptyHistory(t *testing.T) {
	a := NewAssembler(nil, 1000, 5)
	turns, summary := a.BuildContext(context.Background(), "", nil, "hi")

	require.Len(t, turns, 2)
	assert.Equal(t, llm.RoleSystem, turns[0].Role)
	assert.Equal(t, SystemInstruction, turns[0].Content)
	assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "hi"}, turns[1])
	assert.Empty(t, summary)
}

func TestBuildContextPreservesOrder(t *testing.T) {
	stub := &stubCompleter{reply: "unused"}
	a := NewAssembler(stub, 1_000_000, 5)
	history := turnsOf(6)

	turns, summary := a.BuildContext(context.Background(), "", history, "latest question")

	require.Len(t, turns, 8)
	assert.Equal(t, llm.RoleSystem, turns[0].Role)
	for i, h := range history {
		assert.Equal(t, h, turns[i+1])
	}
	assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "latest question"}, turns[7])
	assert.Empty(t, summary)
	assert.Empty(t, stub.calls, "no summarization below threshold")
}

func TestBuildContextCompactsOverThreshold(t *testing.T) {
	stub := &stubCompleter{reply: "Topic: testing\nSummary: older turns condensed"}
	a := NewAssembler(stub, 50, 4)
	history := turnsOf(20)

	turns, summary := a.BuildContext(context.Background(), "", history, "next")

	// system + 4 recent + new user message
	require.Len(t, turns, 6)
	assert.Equal(t, "next", turns[len(turns)-1].Content)
	assert.Equal(t, llm.RoleUser, turns[len(turns)-1].Role)
	assert.Equal(t, history[16:], turns[1:5])
	assert.Contains(t, turns[0].Content, "older turns condensed")
	assert.Equal(t, stub.reply, summary)

	require.Len(t, stub.calls, 1)
	sumCall := stub.calls[0]
	require.Len(t, sumCall, 2)
	assert.Equal(t, SummaryInstruction, sumCall[0].Content)
	assert.Contains(t, sumCall[1].Content, "turn 0")
	assert.NotContains(t, sumCall[1].Content, "turn 16", "recent turns stay out of the summary")
}

func TestBuildContextFallsBackToTruncation(t *testing.T) {
	stub := &stubCompleter{err: errors.New("summarizer down")}
	a := NewAssembler(stub, 50, 4)
	history := turnsOf(20)

	turns, summary := a.BuildContext(context.Background(), "", history, "next")

	require.Len(t, turns, 6)
	assert.Equal(t, SystemInstruction, turns[0].Content, "no summary spliced in")
	assert.Equal(t, history[16:], turns[1:5])
	assert.Equal(t, "next", turns[len(turns)-1].Content)
	assert.Empty(t, summary)
}

func TestBuildContextNilSummarizerTruncates(t *testing.T) {
	a := NewAssembler(nil, 50, 3)
	turns, summary := a.BuildContext(context.Background(), "", turnsOf(12), "go on")

	require.Len(t, turns, 5)
	assert.Empty(t, summary)
}

func TestBuildContextCapNeverExceeded(t *testing.T) {
	stub := &stubCompleter{reply: "summary"}
	a := NewAssembler(stub, 10, 5)
	for _, n := range []int{6, 10, 50, 200} {
		turns, _ := a.BuildContext(context.Background(), "", turnsOf(n), "q")
		assert.LessOrEqual(t, len(turns)-1, a.KeepRecent+1, "history=%d", n)
		assert.Equal(t, "q", turns[len(turns)-1].Content)
	}
}

func TestBuildContextSplicesPriorSummary(t *testing.T) {
	a := NewAssembler(nil, 1000, 5)
	turns, _ := a.BuildContext(context.Background(), "user asked about payouts", turnsOf(2), "and now?")

	require.True(t, strings.HasPrefix(turns[0].Content, SystemInstruction))
	assert.Contains(t, turns[0].Content, "Summary of earlier conversation:")
	assert.Contains(t, turns[0].Content, "user asked about payouts")
}

func TestMergeSummaries(t *testing.T) {
	assert.Equal(t, "", MergeSummaries("", ""))
	assert.Equal(t, "a", MergeSummaries("a", ""))
	assert.Equal(t, "b", MergeSummaries("", "b"))
	assert.Equal(t, "a\n\nb", MergeSummaries("a", "b"))
}
