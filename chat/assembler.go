package chat

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pkg/errors"

	"github.com/nikoo-app/assistant/plugin/llm"
)

var errNoSummarizer = errors.New("no summarizer configured")

// Assembler turns a thread's raw history plus the new user message into the
// ordered turn sequence submitted to the model, compacting older turns when
// the history outgrows the configured threshold.
type Assembler struct {
	// Summarizer performs the condensation call. May be nil, in which case
	// oversized histories are hard-truncated.
	Summarizer llm.Completer
	// CompactThreshold is the total history size, in characters, past which
	// older turns are replaced by a summary. Roughly 4 chars per token.
	CompactThreshold int
	// KeepRecent is the number of most recent turns kept verbatim after
	// compaction.
	KeepRecent int
}

// NewAssembler builds an assembler with the given compaction knobs.
func NewAssembler(summarizer llm.Completer, compactThreshold, keepRecent int) *Assembler {
	return &Assembler{
		Summarizer:       summarizer,
		CompactThreshold: compactThreshold,
		KeepRecent:       keepRecent,
	}
}

// BuildContext produces the turn sequence for one completion call. The first
// turn is always the system instruction (with any prior summary spliced in)
// and the last turn is always the new user message, with surviving history in
// between in chronological order.
//
// When the history exceeds CompactThreshold characters, everything but the
// most recent KeepRecent turns is summarized via the Summarizer and folded
// into the system turn; the fresh summary is returned so the caller can
// persist it. If summarization fails, the older turns are dropped instead and
// the returned summary is empty.
func (a *Assembler) BuildContext(ctx context.Context, priorSummary string, history []llm.Message, userMessage string) ([]llm.Message, string) {
	newSummary := ""
	if a.overThreshold(history) {
		cut := len(history) - a.KeepRecent
		if cut > 0 {
			summary, err := a.summarize(ctx, history[:cut])
			if err != nil {
				slog.Warn("history summarization failed, hard-truncating", "dropped", cut, "err", err)
			} else {
				newSummary = summary
			}
			history = history[cut:]
		}
	}

	turns := make([]llm.Message, 0, len(history)+2)
	turns = append(turns, llm.Message{Role: llm.RoleSystem, Content: systemTurn(priorSummary, newSummary)})
	turns = append(turns, history...)
	turns = append(turns, llm.Message{Role: llm.RoleUser, Content: userMessage})
	return turns, newSummary
}

func (a *Assembler) overThreshold(history []llm.Message) bool {
	if a.CompactThreshold <= 0 {
		return false
	}
	total := 0
	for _, m := range history {
		total += len(m.Content)
	}
	return total > a.CompactThreshold
}

func (a *Assembler) summarize(ctx context.Context, old []llm.Message) (string, error) {
	if a.Summarizer == nil {
		return "", errNoSummarizer
	}
	var sb strings.Builder
	for _, m := range old {
		sb.WriteString(m.Role + ": " + m.Content + "\n")
	}
	text, err := a.Summarizer.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: SummaryInstruction},
		{Role: llm.RoleUser, Content: sb.String()},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func systemTurn(priorSummary, newSummary string) string {
	summary := MergeSummaries(priorSummary, newSummary)
	if summary == "" {
		return SystemInstruction
	}
	return SystemInstruction + "\n\nSummary of earlier conversation:\n" + summary
}

// MergeSummaries appends a fresh summary to the rolling one kept on the
// thread row.
func MergeSummaries(prior, fresh string) string {
	prior, fresh = strings.TrimSpace(prior), strings.TrimSpace(fresh)
	switch {
	case prior == "":
		return fresh
	case fresh == "":
		return prior
	default:
		return prior + "\n\n" + fresh
	}
}
