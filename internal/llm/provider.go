package llm

import (
	"context"
	"encoding/base64"
)

// Message roles understood by every provider
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// PartType distinguishes the pieces of a multi-part message
type PartType string

const (
	PartText  PartType = "text"
	PartImage PartType = "image"
)

// Part is one piece of a multi-part message
type Part struct {
	Type     PartType
	Text     string
	MIMEType string
	Data     []byte
}

// DataURL renders an image part as an inline data reference
func (p Part) DataURL() string {
	return "data:" + p.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(p.Data)
}

// Message is a role-tagged chat message. Parts, when set, take precedence over Content.
type Message struct {
	Role    string
	Content string
	Parts   []Part
}

// HasImage reports whether the message carries an image part
func (m Message) HasImage() bool {
	for _, p := range m.Parts {
		if p.Type == PartImage {
			return true
		}
	}
	return false
}

// Request contains chat completion parameters
type Request struct {
	Model       string
	Messages    []Message
	Temperature float32
	MaxTokens   int
}

// Response contains LLM generation result
type Response struct {
	Text       string
	Model      string
	TokensUsed int
	LatencyMs  int64
}

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// AvailableModels returns list of supported models
	AvailableModels() []string

	// DefaultModel returns the lower-cost text-only model
	DefaultModel() string

	// VisionModel returns the multimodal model used when a screenshot is attached
	VisionModel() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// Complete runs one chat completion
	Complete(ctx context.Context, req Request) (*Response, error)
}
