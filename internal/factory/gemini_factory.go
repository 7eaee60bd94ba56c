package factory

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	googlegenai "google.golang.org/genai"

	"github.com/mikey/securelens/internal/adapters/gemini"
	"github.com/mikey/securelens/internal/config"
)

// GeminiFactory creates Gemini clients
type GeminiFactory struct {
	cfg    *config.Config
	logger *zap.Logger

	once   sync.Once
	client *googlegenai.Client
	err    error
}

// NewGeminiFactory creates a new Gemini factory
func NewGeminiFactory(cfg *config.Config, logger *zap.Logger) *GeminiFactory {
	return &GeminiFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// Configured reports whether an API key is available
func (f *GeminiFactory) Configured() bool {
	return f.cfg.GetGemini().APIKey != ""
}

// CreateLLMClient creates a Gemini analysis and chat client
func (f *GeminiFactory) CreateLLMClient() (*gemini.GeminiClient, error) {
	geminiCfg := f.cfg.GetGemini()
	if geminiCfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	return gemini.NewGeminiClient(
		geminiCfg.APIKey,
		geminiCfg.ModelName,
		geminiCfg.MaxTokens,
		geminiCfg.Temperature,
		geminiCfg.TopP,
		f.logger,
	)
}

// genaiClient returns the shared client used for grounded search and speech
func (f *GeminiFactory) genaiClient() (*googlegenai.Client, error) {
	f.once.Do(func() {
		apiKey := f.cfg.GetGemini().APIKey
		if apiKey == "" {
			f.err = fmt.Errorf("gemini API key is required")
			return
		}
		f.client, f.err = gemini.NewGenAIClient(context.Background(), apiKey, "")
	})
	return f.client, f.err
}

// CreateSearchClient creates the grounded domain search client
func (f *GeminiFactory) CreateSearchClient() (*gemini.SearchClient, error) {
	client, err := f.genaiClient()
	if err != nil {
		return nil, err
	}
	return gemini.NewSearchClient(client, f.cfg.GetGemini().SearchModel, f.logger), nil
}

// CreateSpeechClient creates the Gemini TTS client
func (f *GeminiFactory) CreateSpeechClient() (*gemini.SpeechClient, error) {
	client, err := f.genaiClient()
	if err != nil {
		return nil, err
	}
	geminiCfg := f.cfg.GetGemini()
	return gemini.NewSpeechClient(client, geminiCfg.TTSModel, geminiCfg.TTSVoice, f.logger), nil
}
