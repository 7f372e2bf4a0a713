package gemini

import (
	"context"
	"fmt"
	"time"

	"github.com/Rrens/sop-assistant/internal/config"
	"github.com/Rrens/sop-assistant/internal/llm"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type Provider struct {
	apiKey      string
	textModel   string
	visionModel string
}

func NewProvider(cfg config.GeminiConfig) *Provider {
	return &Provider{
		apiKey:      cfg.APIKey,
		textModel:   cfg.TextModel,
		visionModel: cfg.VisionModel,
	}
}

func (p *Provider) Name() string {
	return "gemini"
}

func (p *Provider) AvailableModels() []string {
	return []string{
		"gemini-2.5-flash",
		"gemini-1.5-flash",
		"gemini-1.5-pro",
	}
}

func (p *Provider) DefaultModel() string {
	if p.textModel != "" {
		return p.textModel
	}
	return "gemini-1.5-flash"
}

func (p *Provider) VisionModel() string {
	if p.visionModel != "" {
		return p.visionModel
	}
	return "gemini-1.5-pro"
}

func (p *Provider) IsConfigured() bool {
	return p.apiKey != ""
}

func (p *Provider) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	if !p.IsConfigured() {
		return nil, fmt.Errorf("gemini provider is not configured (missing API key)")
	}

	model := req.Model
	if model == "" {
		model = p.DefaultModel()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	generativeModel := client.GenerativeModel(model)
	generativeModel.SetTemperature(req.Temperature)
	if req.MaxTokens > 0 {
		generativeModel.SetMaxOutputTokens(int32(req.MaxTokens))
	}

	system, history, last := splitConversation(req.Messages)
	if system != "" {
		generativeModel.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}
	if last == nil {
		return nil, fmt.Errorf("gemini request has no user message")
	}

	cs := generativeModel.StartChat()
	cs.History = history

	start := time.Now()
	resp, err := cs.SendMessage(ctx, last.Parts...)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}

	var output string
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if text, ok := part.(genai.Text); ok {
				output += string(text)
			}
		}
	}

	tokensUsed := 0
	if resp.UsageMetadata != nil {
		tokensUsed = int(resp.UsageMetadata.TotalTokenCount)
	}

	return &llm.Response{
		Text:       output,
		Model:      model,
		TokensUsed: tokensUsed,
		LatencyMs:  latency,
	}, nil
}

// splitConversation separates the system prompt, the prior turns and the
// message to send. Gemini names the assistant role "model".
func splitConversation(messages []llm.Message) (string, []*genai.Content, *genai.Content) {
	var system string
	var contents []*genai.Content

	for _, m := range messages {
		if m.Role == llm.RoleSystem {
			system = m.Content
			continue
		}

		role := "user"
		if m.Role == llm.RoleAssistant {
			role = "model"
		}
		contents = append(contents, &genai.Content{Role: role, Parts: toParts(m)})
	}

	if len(contents) == 0 {
		return system, nil, nil
	}
	return system, contents[:len(contents)-1], contents[len(contents)-1]
}

func toParts(m llm.Message) []genai.Part {
	if len(m.Parts) == 0 {
		return []genai.Part{genai.Text(m.Content)}
	}

	parts := make([]genai.Part, 0, len(m.Parts))
	for _, part := range m.Parts {
		if part.Type == llm.PartImage {
			parts = append(parts, genai.Blob{MIMEType: part.MIMEType, Data: part.Data})
			continue
		}
		parts = append(parts, genai.Text(part.Text))
	}
	return parts
}
