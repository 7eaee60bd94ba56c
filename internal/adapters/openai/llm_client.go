package openai

import (
	"context"
	"fmt"

	"github.com/mikey/securelens/internal/core"
	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"go.uber.org/zap"
)

// OpenAIClient implements core.AnalysisBackend and core.ChatBackend using OpenAI
type OpenAIClient struct {
	client      *openai.Client
	modelName   string
	maxTokens   int
	temperature float32
	topP        float32
	logger      *zap.Logger
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(
	client *openai.Client,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) *OpenAIClient {
	return &OpenAIClient{
		client:      client,
		modelName:   modelName,
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		logger:      logger,
	}
}

// NewAPIClient builds the underlying go-openai client. An empty baseURL keeps the default endpoint.
func NewAPIClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}

// GenerateReport submits the ordered parts with a strict json_schema response format
func (c *OpenAIClient) GenerateReport(ctx context.Context, req *core.AnalysisRequest) (string, error) {
	chatReq := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: req.SystemInstruction,
			},
			{
				Role:         openai.ChatMessageRoleUser,
				MultiContent: toMessageParts(req.Parts),
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "analysis_report",
				Schema: reportSchema(),
				Strict: true,
			},
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", core.ErrEmptyResponse
	}

	c.logger.Debug("OpenAI report received",
		zap.String("model", c.modelName),
		zap.String("id", resp.ID),
		zap.Int("total_tokens", resp.Usage.TotalTokens))

	return resp.Choices[0].Message.Content, nil
}

// SendMessage continues a chat seeded with history
func (c *OpenAIClient) SendMessage(ctx context.Context, systemInstruction string, history []core.ChatTurn, message string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: systemInstruction})
	for _, turn := range history {
		role := openai.ChatMessageRoleUser
		if turn.Role == core.RoleModel {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Text})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: message})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.modelName,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func toMessageParts(parts []core.Part) []openai.ChatMessagePart {
	out := make([]openai.ChatMessagePart, 0, len(parts))
	for _, p := range parts {
		if p.IsImage() {
			out = append(out, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    "data:" + p.MIMEType + ";base64," + p.ImageData,
					Detail: openai.ImageURLDetailAuto,
				},
			})
			continue
		}
		out = append(out, openai.ChatMessagePart{Type: openai.ChatMessagePartTypeText, Text: p.Text})
	}
	return out
}

// reportSchema mirrors the report contract. Strict mode needs every property
// required and no additional properties.
func reportSchema() *jsonschema.Definition {
	str := jsonschema.Definition{Type: jsonschema.String}
	object := func(props map[string]jsonschema.Definition) jsonschema.Definition {
		required := make([]string, 0, len(props))
		for k := range props {
			required = append(required, k)
		}
		return jsonschema.Definition{
			Type:                 jsonschema.Object,
			Properties:           props,
			Required:             required,
			AdditionalProperties: false,
		}
	}

	root := object(map[string]jsonschema.Definition{
		"riskScore":       {Type: jsonschema.Number, Description: "0-100 score where 100 is certain fraud"},
		"riskLevel":       {Type: jsonschema.String, Enum: []string{"Safe", "Low Risk", "Medium Risk", "High Risk", "Critical"}},
		"confidenceScore": {Type: jsonschema.Number, Description: "Confidence in the assessment 0-100"},
		"scamType":        str,
		"isSafe":          {Type: jsonschema.Boolean},
		"summary":         {Type: jsonschema.String, Description: "A plain language summary of the findings"},
		"redFlags": {
			Type: jsonschema.Array,
			Items: ptr(object(map[string]jsonschema.Definition{
				"title":       str,
				"description": str,
				"severity":    {Type: jsonschema.String, Enum: []string{"low", "medium", "high"}},
			})),
		},
		"technicalDetails": object(map[string]jsonschema.Definition{
			"domainAnalysis":  str,
			"sslAnalysis":     str,
			"grammarAnalysis": str,
			"urgencyAnalysis": str,
			"senderAnalysis":  str,
		}),
		"recommendations": {Type: jsonschema.Array, Items: &str},
	})
	return &root
}

func ptr(d jsonschema.Definition) *jsonschema.Definition {
	return &d
}
