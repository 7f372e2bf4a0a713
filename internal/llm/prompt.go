package llm

import (
	"path/filepath"
	"strings"

	"github.com/Rrens/sop-assistant/internal/domain"
)

const (
	// Temperature used for every grounded completion
	Temperature float32 = 0.3

	// MaxTokens caps the length of a generated answer
	MaxTokens = 1000

	// WelcomeMessageID marks the synthetic greeting the UI prepends to history
	WelcomeMessageID = "welcome"

	// DefaultImagePrompt is sent alongside a screenshot that came without text
	DefaultImagePrompt = "Please analyze this screenshot."
)

const systemPreamble = `You are a Shopee Return & Refund SOP Assistant.
You can analyze text AND screenshots (images).
When screenshots are provided, extract the visible text, identify the key issue (order ID, return status, refund info, etc.),
and map it against the SOPs below. Always provide clear, step-by-step advice.`

// Image is a screenshot attached to the current turn
type Image struct {
	MIMEType string
	Data     []byte
}

// BuildGroundingText renders the SOP knowledge base in the order given.
// Inactive SOPs never reach the model.
func BuildGroundingText(sops []domain.Sop) string {
	blocks := make([]string, 0, len(sops))
	for _, s := range sops {
		if !s.IsActive {
			continue
		}

		var b strings.Builder
		b.WriteString("Category: ")
		b.WriteString(s.CategoryName)
		b.WriteString("\nTitle: ")
		b.WriteString(s.Title)
		b.WriteString("\nContent: ")
		b.WriteString(s.Content)
		b.WriteString("\nEvidence Requirements: ")
		b.WriteString(strings.Join(s.EvidenceDescriptions(), ", "))
		b.WriteString("\n---")
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n")
}

// SystemPrompt wraps the grounding text with the assistant's role description
func SystemPrompt(grounding string) string {
	return systemPreamble + "\n\nAvailable SOPs:\n" + grounding + "\n---"
}

// BuildMessages assembles the full conversation sent to the completion service:
// system prompt, prior history without the welcome message, then the current turn.
func BuildMessages(sops []domain.Sop, history []domain.HistoryMessage, text string, image *Image) []Message {
	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{
		Role:    RoleSystem,
		Content: SystemPrompt(BuildGroundingText(sops)),
	})

	for _, m := range history {
		if isWelcome(m) {
			continue
		}
		messages = append(messages, Message{Role: string(m.Role), Content: m.Content})
	}

	if image != nil {
		prompt := text
		if prompt == "" {
			prompt = DefaultImagePrompt
		}
		messages = append(messages, Message{
			Role: RoleUser,
			Parts: []Part{
				{Type: PartText, Text: prompt},
				{Type: PartImage, MIMEType: image.MIMEType, Data: image.Data},
			},
		})
		return messages
	}

	messages = append(messages, Message{Role: RoleUser, Content: text})
	return messages
}

func isWelcome(m domain.HistoryMessage) bool {
	return m.Role == domain.RoleAssistant && m.ID == WelcomeMessageID
}

// ImageMIMEType maps a stored image reference to its media type by extension
func ImageMIMEType(ref string) string {
	switch strings.ToLower(filepath.Ext(ref)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

// SelectModel picks the multimodal model when a screenshot is attached and the
// cheaper text model otherwise.
func SelectModel(p Provider, hasImage bool) string {
	if hasImage {
		return p.VisionModel()
	}
	return p.DefaultModel()
}
