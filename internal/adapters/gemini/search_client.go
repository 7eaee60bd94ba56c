package gemini

import (
	"context"
	"fmt"

	"github.com/mikey/securelens/internal/core"
	"go.uber.org/zap"
	googlegenai "google.golang.org/genai"
)

// SearchClient implements core.DomainInvestigator with Google Search grounding
type SearchClient struct {
	client    *googlegenai.Client
	modelName string
	logger    *zap.Logger
}

// NewGenAIClient creates a client for the google.golang.org/genai SDK. baseURL
// is only set when pointing at a non-default endpoint.
func NewGenAIClient(ctx context.Context, apiKey, baseURL string) (*googlegenai.Client, error) {
	cc := &googlegenai.ClientConfig{
		APIKey:  apiKey,
		Backend: googlegenai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cc.HTTPOptions = googlegenai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := googlegenai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return client, nil
}

// NewSearchClient creates a new grounded search client
func NewSearchClient(client *googlegenai.Client, modelName string, logger *zap.Logger) *SearchClient {
	return &SearchClient{
		client:    client,
		modelName: modelName,
		logger:    logger,
	}
}

// Search runs the prompt with the googleSearch tool and collects web citations
func (c *SearchClient) Search(ctx context.Context, prompt string) (*core.GroundedAnswer, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.modelName,
		googlegenai.Text(prompt),
		&googlegenai.GenerateContentConfig{
			Tools: []*googlegenai.Tool{{GoogleSearch: &googlegenai.GoogleSearch{}}},
		})
	if err != nil {
		return nil, fmt.Errorf("grounded search failed: %w", err)
	}

	answer := &core.GroundedAnswer{Text: resp.Text()}
	if len(resp.Candidates) > 0 && resp.Candidates[0].GroundingMetadata != nil {
		for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
			if chunk == nil || chunk.Web == nil {
				continue
			}
			answer.Citations = append(answer.Citations, core.ExternalReference{
				Title: chunk.Web.Title,
				URI:   chunk.Web.URI,
			})
		}
	}

	c.logger.Debug("Grounded search completed",
		zap.String("model", c.modelName),
		zap.Int("citations", len(answer.Citations)))

	return answer, nil
}
