package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/securelens/internal/core"
	"go.uber.org/zap"
)

const anthropicVersion = "bedrock-2023-05-31"

// InvokeModelAPI is the subset of the Bedrock runtime client used here
type InvokeModelAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockClient implements core.AnalysisBackend and core.ChatBackend using Amazon Bedrock
type BedrockClient struct {
	client      InvokeModelAPI
	modelID     string
	maxTokens   int
	temperature float32
	topP        float32
	logger      *zap.Logger
}

// NewBedrockClient creates a new Bedrock client
func NewBedrockClient(
	client InvokeModelAPI,
	modelID string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) *BedrockClient {
	return &BedrockClient{
		client:      client,
		modelID:     modelID,
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		logger:      logger,
	}
}

type anthropicSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type anthropicContent struct {
	Type   string           `json:"type"`
	Text   string           `json:"text,omitempty"`
	Source *anthropicSource `json:"source,omitempty"`
}

type anthropicMessage struct {
	Role    string             `json:"role"`
	Content []anthropicContent `json:"content"`
}

type anthropicRequest struct {
	AnthropicVersion string             `json:"anthropic_version"`
	MaxTokens        int                `json:"max_tokens"`
	System           string             `json:"system,omitempty"`
	Messages         []anthropicMessage `json:"messages"`
	Temperature      float32            `json:"temperature"`
	TopP             float32            `json:"top_p"`
}

type anthropicResponse struct {
	Content []anthropicContent `json:"content"`
}

// GenerateReport submits the ordered parts and returns the report text. Bedrock
// has no schema enforcement so the JSON contract is appended to the system prompt.
func (c *BedrockClient) GenerateReport(ctx context.Context, req *core.AnalysisRequest) (string, error) {
	system := req.SystemInstruction + core.ReportFormatInstruction

	var text string
	var err error
	if c.isAmazonTitanModel() {
		text, err = c.invokeTitan(ctx, system, req.Parts)
	} else {
		content := make([]anthropicContent, 0, len(req.Parts))
		for _, p := range req.Parts {
			if p.IsImage() {
				content = append(content, anthropicContent{
					Type:   "image",
					Source: &anthropicSource{Type: "base64", MediaType: p.MIMEType, Data: p.ImageData},
				})
				continue
			}
			content = append(content, anthropicContent{Type: "text", Text: p.Text})
		}
		text, err = c.invokeAnthropic(ctx, system, []anthropicMessage{{Role: "user", Content: content}})
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", core.ErrEmptyResponse
	}
	return text, nil
}

// SendMessage continues a chat seeded with history. Anthropic requires the
// conversation to open with a user turn, so leading model turns are folded
// into the system prompt.
func (c *BedrockClient) SendMessage(ctx context.Context, systemInstruction string, history []core.ChatTurn, message string) (string, error) {
	system := systemInstruction
	messages := make([]anthropicMessage, 0, len(history)+1)
	for _, turn := range history {
		role := "user"
		if turn.Role == core.RoleModel {
			role = "assistant"
		}
		if len(messages) == 0 && role == "assistant" {
			system += "\n\nYou previously said: " + turn.Text
			continue
		}
		if n := len(messages); n > 0 && messages[n-1].Role == role {
			messages[n-1].Content = append(messages[n-1].Content, anthropicContent{Type: "text", Text: turn.Text})
			continue
		}
		messages = append(messages, anthropicMessage{Role: role, Content: []anthropicContent{{Type: "text", Text: turn.Text}}})
	}
	if n := len(messages); n > 0 && messages[n-1].Role == "user" {
		messages[n-1].Content = append(messages[n-1].Content, anthropicContent{Type: "text", Text: message})
	} else {
		messages = append(messages, anthropicMessage{Role: "user", Content: []anthropicContent{{Type: "text", Text: message}}})
	}

	if c.isAmazonTitanModel() {
		return c.invokeTitan(ctx, system, []core.Part{{Text: flatten(messages)}})
	}
	return c.invokeAnthropic(ctx, system, messages)
}

func (c *BedrockClient) invokeAnthropic(ctx context.Context, system string, messages []anthropicMessage) (string, error) {
	payload, err := json.Marshal(anthropicRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        c.maxTokens,
		System:           system,
		Messages:         messages,
		Temperature:      c.temperature,
		TopP:             c.topP,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	body, err := c.invoke(ctx, payload)
	if err != nil {
		return "", err
	}

	var resp anthropicResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
	}
	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}

func (c *BedrockClient) invokeTitan(ctx context.Context, system string, parts []core.Part) (string, error) {
	var sb strings.Builder
	sb.WriteString(system)
	for _, p := range parts {
		if p.IsImage() {
			c.logger.Warn("Titan models do not accept images, dropping image part", zap.String("model", c.modelID))
			continue
		}
		sb.WriteString("\n\n")
		sb.WriteString(p.Text)
	}

	payload, err := json.Marshal(map[string]interface{}{
		"inputText": sb.String(),
		"textGenerationConfig": map[string]interface{}{
			"maxTokenCount": c.maxTokens,
			"temperature":   c.temperature,
			"topP":          c.topP,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	body, err := c.invoke(ctx, payload)
	if err != nil {
		return "", err
	}

	var titanResp struct {
		Results []struct {
			OutputText string `json:"outputText"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &titanResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal Titan response: %w", err)
	}
	if len(titanResp.Results) == 0 {
		return "", fmt.Errorf("empty response from Titan model")
	}
	return titanResp.Results[0].OutputText, nil
}

func (c *BedrockClient) invoke(ctx context.Context, payload []byte) ([]byte, error) {
	resp, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.modelID),
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}
	c.logger.Debug("Bedrock model invoked",
		zap.String("model", c.modelID),
		zap.Int("response_size", len(resp.Body)))
	return resp.Body, nil
}

func flatten(messages []anthropicMessage) string {
	var sb strings.Builder
	for _, m := range messages {
		for _, block := range m.Content {
			sb.WriteString(m.Role)
			sb.WriteString(": ")
			sb.WriteString(block.Text)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// isAmazonTitanModel checks if the model is an Amazon Titan model
func (c *BedrockClient) isAmazonTitanModel() bool {
	return strings.HasPrefix(c.modelID, "amazon.titan")
}
