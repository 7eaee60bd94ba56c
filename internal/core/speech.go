package core

import (
	"context"

	"go.uber.org/zap"
)

// SpeechService produces spoken summaries of reports
type SpeechService struct {
	synth  SpeechSynthesizer
	logger *zap.Logger
}

// NewSpeechService creates a new speech service
func NewSpeechService(synth SpeechSynthesizer, logger *zap.Logger) *SpeechService {
	return &SpeechService{
		synth:  synth,
		logger: logger,
	}
}

// Synthesize returns base64 PCM audio, or false when synthesis was not possible
func (s *SpeechService) Synthesize(ctx context.Context, text string) (string, bool) {
	audio, err := s.synth.Synthesize(ctx, SpeechPrefix+text)
	if err != nil {
		s.logger.Error("TTS error", zap.Error(err))
		return "", false
	}
	if audio == "" {
		s.logger.Warn("TTS returned no audio")
		return "", false
	}
	return audio, true
}

// SynthesizeReport speaks the summary sentence of a report
func (s *SpeechService) SynthesizeReport(ctx context.Context, result *AnalysisResult) (string, bool) {
	return s.Synthesize(ctx, SummaryText(result))
}
