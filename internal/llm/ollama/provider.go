package ollama

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Rrens/sop-assistant/internal/config"
	"github.com/Rrens/sop-assistant/internal/llm"
)

// Provider implements llm.Provider for Ollama
type Provider struct {
	host        string
	textModel   string
	visionModel string
	client      *http.Client
}

// NewProvider creates a new Ollama provider
func NewProvider(cfg config.OllamaConfig) *Provider {
	textModel := cfg.TextModel
	if textModel == "" {
		textModel = "llama3.1"
	}
	visionModel := cfg.VisionModel
	if visionModel == "" {
		visionModel = "llava"
	}
	return &Provider{
		host:        strings.TrimRight(cfg.Host, "/"),
		textModel:   textModel,
		visionModel: visionModel,
		client:      &http.Client{Timeout: 300 * time.Second},
	}
}

// Name returns the provider identifier
func (p *Provider) Name() string {
	return "ollama"
}

// AvailableModels returns list of supported models
func (p *Provider) AvailableModels() []string {
	return []string{
		"llama3.1",
		"llama3.2",
		"llama3.2-vision",
		"llava",
		"mistral",
		"qwen2",
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

// IsConfigured checks if provider has a reachable host configured
func (p *Provider) IsConfigured() bool {
	return p.host != ""
}

type chatRequest struct {
	Model    string         `json:"model"`
	Messages []chatMessage  `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  map[string]any `json:"options,omitempty"`
}

type chatMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

type chatResponse struct {
	Message         chatMessage `json:"message"`
	Done            bool        `json:"done"`
	EvalCount       int         `json:"eval_count"`
	PromptEvalCount int         `json:"prompt_eval_count"`
}

// Complete runs one chat completion
func (p *Provider) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	model := req.Model
	if model == "" {
		model = p.textModel
	}

	options := map[string]any{"temperature": req.Temperature}
	if req.MaxTokens > 0 {
		options["num_predict"] = req.MaxTokens
	}

	ollamaReq := chatRequest{
		Model:    model,
		Messages: toChatMessages(req.Messages),
		Stream:   false,
		Options:  options,
	}

	body, err := json.Marshal(ollamaReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	start := time.Now()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.host+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	var ollamaResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &llm.Response{
		Text:       ollamaResp.Message.Content,
		Model:      model,
		TokensUsed: ollamaResp.EvalCount + ollamaResp.PromptEvalCount,
		LatencyMs:  time.Since(start).Milliseconds(),
	}, nil
}

func toChatMessages(messages []llm.Message) []chatMessage {
	out := make([]chatMessage, 0, len(messages))
	for _, m := range messages {
		if len(m.Parts) == 0 {
			out = append(out, chatMessage{Role: m.Role, Content: m.Content})
			continue
		}

		msg := chatMessage{Role: m.Role}
		var texts []string
		for _, part := range m.Parts {
			if part.Type == llm.PartImage {
				msg.Images = append(msg.Images, base64.StdEncoding.EncodeToString(part.Data))
				continue
			}
			texts = append(texts, part.Text)
		}
		msg.Content = strings.Join(texts, "\n")
		out = append(out, msg)
	}
	return out
}
