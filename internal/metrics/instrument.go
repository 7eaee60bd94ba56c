package metrics

import (
	"context"
	"time"

	"github.com/mikey/securelens/internal/core"
)

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// InstrumentedBackend times analysis calls
type InstrumentedBackend struct {
	next     core.AnalysisBackend
	provider string
}

// NewInstrumentedBackend wraps next
func NewInstrumentedBackend(next core.AnalysisBackend, provider string) *InstrumentedBackend {
	return &InstrumentedBackend{next: next, provider: provider}
}

func (b *InstrumentedBackend) GenerateReport(ctx context.Context, req *core.AnalysisRequest) (string, error) {
	start := time.Now()
	out, err := b.next.GenerateReport(ctx, req)
	RecordBackendCall("analyze", b.provider, status(err), time.Since(start))
	return out, err
}

// InstrumentedChat times chat calls
type InstrumentedChat struct {
	next     core.ChatBackend
	provider string
}

// NewInstrumentedChat wraps next
func NewInstrumentedChat(next core.ChatBackend, provider string) *InstrumentedChat {
	return &InstrumentedChat{next: next, provider: provider}
}

func (c *InstrumentedChat) SendMessage(ctx context.Context, systemInstruction string, history []core.ChatTurn, message string) (string, error) {
	start := time.Now()
	out, err := c.next.SendMessage(ctx, systemInstruction, history, message)
	RecordBackendCall("chat", c.provider, status(err), time.Since(start))
	return out, err
}

// InstrumentedInvestigator times grounded searches
type InstrumentedInvestigator struct {
	next     core.DomainInvestigator
	provider string
}

// NewInstrumentedInvestigator wraps next
func NewInstrumentedInvestigator(next core.DomainInvestigator, provider string) *InstrumentedInvestigator {
	return &InstrumentedInvestigator{next: next, provider: provider}
}

func (i *InstrumentedInvestigator) Search(ctx context.Context, prompt string) (*core.GroundedAnswer, error) {
	start := time.Now()
	out, err := i.next.Search(ctx, prompt)
	RecordBackendCall("search", i.provider, status(err), time.Since(start))
	return out, err
}

// InstrumentedSynthesizer times speech synthesis
type InstrumentedSynthesizer struct {
	next     core.SpeechSynthesizer
	provider string
}

// NewInstrumentedSynthesizer wraps next
func NewInstrumentedSynthesizer(next core.SpeechSynthesizer, provider string) *InstrumentedSynthesizer {
	return &InstrumentedSynthesizer{next: next, provider: provider}
}

func (s *InstrumentedSynthesizer) Synthesize(ctx context.Context, text string) (string, error) {
	start := time.Now()
	out, err := s.next.Synthesize(ctx, text)
	RecordBackendCall("speech", s.provider, status(err), time.Since(start))
	return out, err
}
