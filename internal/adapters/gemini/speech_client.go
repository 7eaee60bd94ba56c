package gemini

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"go.uber.org/zap"
	googlegenai "google.golang.org/genai"
)

// SpeechClient implements core.SpeechSynthesizer with Gemini text-to-speech
type SpeechClient struct {
	client    *googlegenai.Client
	modelName string
	voice     string
	logger    *zap.Logger
}

// NewSpeechClient creates a new speech client
func NewSpeechClient(client *googlegenai.Client, modelName, voice string, logger *zap.Logger) *SpeechClient {
	return &SpeechClient{
		client:    client,
		modelName: modelName,
		voice:     voice,
		logger:    logger,
	}
}

// Synthesize returns base64 encoded 24 kHz 16-bit mono PCM
func (c *SpeechClient) Synthesize(ctx context.Context, text string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.modelName,
		[]*googlegenai.Content{googlegenai.NewContentFromText(text, googlegenai.RoleUser)},
		&googlegenai.GenerateContentConfig{
			ResponseModalities: []string{string(googlegenai.ModalityAudio)},
			SpeechConfig: &googlegenai.SpeechConfig{
				VoiceConfig: &googlegenai.VoiceConfig{
					PrebuiltVoiceConfig: &googlegenai.PrebuiltVoiceConfig{VoiceName: c.voice},
				},
			},
		})
	if err != nil {
		return "", fmt.Errorf("speech generation failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("speech response has no candidates")
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			c.logger.Debug("Speech generated",
				zap.String("voice", c.voice),
				zap.Int("bytes", len(part.InlineData.Data)))
			return base64.StdEncoding.EncodeToString(part.InlineData.Data), nil
		}
	}
	return "", errors.New("speech response has no audio data")
}
