package openai

import (
	"context"
	"fmt"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/Rrens/sop-assistant/internal/config"
	"github.com/Rrens/sop-assistant/internal/llm"
)

// Provider implements llm.Provider for OpenAI and compatible gateways
type Provider struct {
	apiKey      string
	textModel   string
	visionModel string
	client      *goopenai.Client
}

// NewProvider creates a new OpenAI provider
func NewProvider(cfg config.OpenAIConfig) *Provider {
	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	textModel := cfg.TextModel
	if textModel == "" {
		textModel = goopenai.GPT4oMini
	}
	visionModel := cfg.VisionModel
	if visionModel == "" {
		visionModel = goopenai.GPT4o
	}

	return &Provider{
		apiKey:      cfg.APIKey,
		textModel:   textModel,
		visionModel: visionModel,
		client:      goopenai.NewClientWithConfig(clientCfg),
	}
}

// Name returns the provider identifier
func (p *Provider) Name() string {
	return "openai"
}

// AvailableModels returns list of supported models
func (p *Provider) AvailableModels() []string {
	return []string{
		goopenai.GPT4o,
		goopenai.GPT4oMini,
		goopenai.GPT4Turbo,
	}
}

// DefaultModel returns the text-only model
func (p *Provider) DefaultModel() string {
	return p.textModel
}

// VisionModel returns the multimodal model
func (p *Provider) VisionModel() string {
	return p.visionModel
}

// IsConfigured checks if provider has valid credentials
func (p *Provider) IsConfigured() bool {
	return p.apiKey != ""
}

// Complete runs one chat completion
func (p *Provider) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	model := req.Model
	if model == "" {
		model = p.textModel
	}

	chatReq := goopenai.ChatCompletionRequest{
		Model:       model,
		Messages:    toChatMessages(req.Messages),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	start := time.Now()
	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("openai completion failed: %w", err)
	}
	latencyMs := time.Since(start).Milliseconds()

	var text string
	if len(resp.Choices) > 0 {
		text = resp.Choices[0].Message.Content
	}

	return &llm.Response{
		Text:       text,
		Model:      model,
		TokensUsed: resp.Usage.TotalTokens,
		LatencyMs:  latencyMs,
	}, nil
}

func toChatMessages(messages []llm.Message) []goopenai.ChatCompletionMessage {
	out := make([]goopenai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		if len(m.Parts) == 0 {
			out = append(out, goopenai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
			continue
		}

		parts := make([]goopenai.ChatMessagePart, 0, len(m.Parts))
		for _, part := range m.Parts {
			switch part.Type {
			case llm.PartImage:
				parts = append(parts, goopenai.ChatMessagePart{
					Type:     goopenai.ChatMessagePartTypeImageURL,
					ImageURL: &goopenai.ChatMessageImageURL{URL: part.DataURL()},
				})
			default:
				parts = append(parts, goopenai.ChatMessagePart{
					Type: goopenai.ChatMessagePartTypeText,
					Text: part.Text,
				})
			}
		}
		out = append(out, goopenai.ChatCompletionMessage{Role: m.Role, MultiContent: parts})
	}
	return out
}
