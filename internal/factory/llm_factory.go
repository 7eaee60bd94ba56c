package factory

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/mikey/securelens/internal/config"
	"github.com/mikey/securelens/internal/core"
	"github.com/mikey/securelens/internal/metrics"
)

// Backend is a provider client that serves both analysis and chat
type Backend interface {
	core.AnalysisBackend
	core.ChatBackend
}

// LLMFactory creates LLM clients
type LLMFactory struct {
	cfg     *config.Config
	logger  *zap.Logger
	gemini  *GeminiFactory
	openai  *OpenAIFactory
	bedrock *BedrockFactory

	once    sync.Once
	backend Backend
	err     error
}

// NewLLMFactory creates a new LLM factory
func NewLLMFactory(cfg *config.Config, logger *zap.Logger, gemini *GeminiFactory, openai *OpenAIFactory, bedrock *BedrockFactory) *LLMFactory {
	return &LLMFactory{
		cfg:     cfg,
		logger:  logger,
		gemini:  gemini,
		openai:  openai,
		bedrock: bedrock,
	}
}

// CreateBackend creates the configured provider client once
func (f *LLMFactory) CreateBackend() (Backend, error) {
	f.once.Do(func() {
		provider := f.cfg.GetLLM().Provider
		switch provider {
		case "gemini":
			f.backend, f.err = f.gemini.CreateLLMClient()
		case "openai":
			f.backend, f.err = f.openai.CreateLLMClient()
		case "bedrock":
			f.backend, f.err = f.bedrock.CreateLLMClient()
		default:
			f.err = fmt.Errorf("unsupported LLM provider: %s", provider)
		}
		if f.err != nil {
			f.backend = nil
			return
		}
		f.logger.Info("LLM backend ready", zap.String("provider", provider))
	})
	return f.backend, f.err
}

// CreateAnalysisBackend returns the instrumented analysis backend
func (f *LLMFactory) CreateAnalysisBackend() (core.AnalysisBackend, error) {
	backend, err := f.CreateBackend()
	if err != nil {
		return nil, err
	}
	return metrics.NewInstrumentedBackend(backend, f.cfg.GetLLM().Provider), nil
}

// CreateChatBackend returns the instrumented chat backend
func (f *LLMFactory) CreateChatBackend() (core.ChatBackend, error) {
	backend, err := f.CreateBackend()
	if err != nil {
		return nil, err
	}
	return metrics.NewInstrumentedChat(backend, f.cfg.GetLLM().Provider), nil
}
