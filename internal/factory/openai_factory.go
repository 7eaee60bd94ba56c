package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mikey/securelens/internal/adapters/openai"
	"github.com/mikey/securelens/internal/config"
)

// OpenAIFactory creates OpenAI clients
type OpenAIFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewOpenAIFactory creates a new OpenAI factory
func NewOpenAIFactory(cfg *config.Config, logger *zap.Logger) *OpenAIFactory {
	return &OpenAIFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateLLMClient creates an OpenAI analysis and chat client
func (f *OpenAIFactory) CreateLLMClient() (*openai.OpenAIClient, error) {
	openaiCfg := f.cfg.GetOpenAI()
	if openaiCfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	return openai.NewOpenAIClient(
		openai.NewAPIClient(openaiCfg.APIKey, openaiCfg.BaseURL),
		openaiCfg.ModelName,
		openaiCfg.MaxTokens,
		openaiCfg.Temperature,
		openaiCfg.TopP,
		f.logger,
	), nil
}

// CreateSpeechClient creates the OpenAI PCM speech client
func (f *OpenAIFactory) CreateSpeechClient() (*openai.SpeechClient, error) {
	openaiCfg := f.cfg.GetOpenAI()
	if openaiCfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	return openai.NewSpeechClient(
		openai.NewAPIClient(openaiCfg.APIKey, openaiCfg.BaseURL),
		openaiCfg.TTSModel,
		openaiCfg.TTSVoice,
		f.logger,
	), nil
}
