package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// SpeechClient implements core.SpeechSynthesizer with the OpenAI speech endpoint
type SpeechClient struct {
	client *openai.Client
	model  string
	voice  string
	logger *zap.Logger
}

// NewSpeechClient creates a new speech client
func NewSpeechClient(client *openai.Client, model, voice string, logger *zap.Logger) *SpeechClient {
	return &SpeechClient{
		client: client,
		model:  model,
		voice:  voice,
		logger: logger,
	}
}

// Synthesize requests raw PCM (24 kHz, 16-bit, mono) and returns it base64 encoded
func (c *SpeechClient) Synthesize(ctx context.Context, text string) (string, error) {
	resp, err := c.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(c.model),
		Input:          text,
		Voice:          openai.SpeechVoice(c.voice),
		ResponseFormat: openai.SpeechResponseFormatPcm,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create speech with OpenAI: %w", err)
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return "", fmt.Errorf("failed to read speech response: %w", err)
	}
	if len(data) == 0 {
		return "", errors.New("empty speech response from OpenAI")
	}

	c.logger.Debug("Speech generated", zap.String("voice", c.voice), zap.Int("bytes", len(data)))
	return base64.StdEncoding.EncodeToString(data), nil
}
