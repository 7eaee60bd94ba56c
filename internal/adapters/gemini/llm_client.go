package gemini

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/securelens/internal/core"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// GeminiClient implements core.AnalysisBackend and core.ChatBackend using Google Gemini
type GeminiClient struct {
	client      *genai.Client
	modelName   string
	maxTokens   int
	temperature float32
	topP        float32
	logger      *zap.Logger
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
	opts ...option.ClientOption,
) (*GeminiClient, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	client, err := genai.NewClient(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client:      client,
		modelName:   modelName,
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		logger:      logger,
	}, nil
}

// Close closes the Gemini client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// model returns a freshly configured model; GenerativeModel values are not shared between calls
func (c *GeminiClient) model(systemInstruction string) *genai.GenerativeModel {
	model := c.client.GenerativeModel(c.modelName)
	model.SetTemperature(c.temperature)
	model.SetTopP(c.topP)
	if c.maxTokens > 0 {
		model.SetMaxOutputTokens(int32(c.maxTokens))
	}
	if systemInstruction != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemInstruction)}}
	}
	return model
}

// GenerateReport submits the ordered parts and returns the JSON report text
func (c *GeminiClient) GenerateReport(ctx context.Context, req *core.AnalysisRequest) (string, error) {
	parts, err := toParts(req.Parts)
	if err != nil {
		return "", err
	}

	model := c.model(req.SystemInstruction)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = reportSchema()

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return "", core.ErrEmptyResponse
	}

	c.logger.Debug("Gemini report received",
		zap.String("model", c.modelName),
		zap.Int("parts", len(parts)),
		zap.Int("response_size", len(text)))

	return text, nil
}

// SendMessage continues a chat seeded with history
func (c *GeminiClient) SendMessage(ctx context.Context, systemInstruction string, history []core.ChatTurn, message string) (string, error) {
	cs := c.model(systemInstruction).StartChat()
	cs.History = toHistory(history)

	resp, err := cs.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", fmt.Errorf("failed to send chat message to Gemini: %w", err)
	}
	return responseText(resp), nil
}

func toParts(in []core.Part) ([]genai.Part, error) {
	parts := make([]genai.Part, 0, len(in))
	for i, p := range in {
		if p.IsImage() {
			data, err := decodeImage(p.ImageData)
			if err != nil {
				return nil, fmt.Errorf("part %d: invalid image data: %w", i, err)
			}
			parts = append(parts, genai.Blob{MIMEType: p.MIMEType, Data: data})
			continue
		}
		parts = append(parts, genai.Text(p.Text))
	}
	return parts, nil
}

// decodeImage accepts padded or unpadded base64 with embedded whitespace
func decodeImage(encoded string) ([]byte, error) {
	encoded = strings.Join(strings.Fields(encoded), "")
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(encoded, "="))
	}
	return data, err
}

func toHistory(turns []core.ChatTurn) []*genai.Content {
	history := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		history = append(history, &genai.Content{
			Role:  string(t.Role),
			Parts: []genai.Part{genai.Text(t.Text)},
		})
	}
	return history
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String()
}
