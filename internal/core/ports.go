package core

import (
	"context"
)

// AnalysisBackend submits an ordered multimodal request to a generative model
type AnalysisBackend interface {
	// GenerateReport returns the raw JSON text of the report
	GenerateReport(ctx context.Context, req *AnalysisRequest) (string, error)
}

// DomainInvestigator runs a search-grounded query about a domain
type DomainInvestigator interface {
	Search(ctx context.Context, prompt string) (*GroundedAnswer, error)
}

// SpeechSynthesizer turns text into base64 encoded 24 kHz 16-bit mono PCM
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) (string, error)
}

// ChatBackend continues a conversation under a system instruction
type ChatBackend interface {
	SendMessage(ctx context.Context, systemInstruction string, history []ChatTurn, message string) (string, error)
}

// IntelCache stores successful domain intelligence results per hostname
type IntelCache interface {
	Get(host string) (*DomainIntel, bool)
	Set(host string, intel *DomainIntel)
}

// SettingsRepository persists small string settings
type SettingsRepository interface {
	// Get returns ErrSettingNotFound when the key is absent
	Get(ctx context.Context, key string) (string, error)

	Set(ctx context.Context, key, value string) error

	Delete(ctx context.Context, key string) error

	Close() error
}
