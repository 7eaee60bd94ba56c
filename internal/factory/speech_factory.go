package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mikey/securelens/internal/audio"
	"github.com/mikey/securelens/internal/config"
	"github.com/mikey/securelens/internal/core"
	"github.com/mikey/securelens/internal/metrics"
)

// SpeechFactory creates the spoken summary pipeline
type SpeechFactory struct {
	cfg    *config.Config
	logger *zap.Logger
	gemini *GeminiFactory
	openai *OpenAIFactory
}

// NewSpeechFactory creates a new speech factory
func NewSpeechFactory(cfg *config.Config, logger *zap.Logger, gemini *GeminiFactory, openai *OpenAIFactory) *SpeechFactory {
	return &SpeechFactory{
		cfg:    cfg,
		logger: logger,
		gemini: gemini,
		openai: openai,
	}
}

// CreateSynthesizer returns nil when speech is disabled
func (f *SpeechFactory) CreateSynthesizer() (core.SpeechSynthesizer, error) {
	provider := f.cfg.GetLLM().SpeechProvider
	switch provider {
	case "", "none":
		f.logger.Info("Spoken summaries disabled")
		return nil, nil
	case "gemini":
		if !f.gemini.Configured() {
			f.logger.Warn("Spoken summaries disabled, no Gemini API key")
			return nil, nil
		}
		client, err := f.gemini.CreateSpeechClient()
		if err != nil {
			return nil, err
		}
		return metrics.NewInstrumentedSynthesizer(client, provider), nil
	case "openai":
		client, err := f.openai.CreateSpeechClient()
		if err != nil {
			return nil, err
		}
		return metrics.NewInstrumentedSynthesizer(client, provider), nil
	default:
		return nil, fmt.Errorf("unsupported speech provider: %s", provider)
	}
}

// CreateSpeechService returns nil when speech is disabled
func (f *SpeechFactory) CreateSpeechService() (*core.SpeechService, error) {
	synth, err := f.CreateSynthesizer()
	if err != nil || synth == nil {
		return nil, err
	}
	return core.NewSpeechService(synth, f.logger), nil
}

// CreatePlayer creates a player that renders into WAV files
func (f *SpeechFactory) CreatePlayer() *audio.Player {
	return audio.NewPlayer(audio.NewWAVFileOutput(f.cfg.GetString("audio.output_dir"), f.logger), f.logger)
}
