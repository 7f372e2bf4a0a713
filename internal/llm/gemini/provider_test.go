package gemini

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/sop-assistant/internal/llm"
)

func TestSplitConversation(t *testing.T) {
	msgs := []llm.Message{
		{Role: llm.RoleSystem, Content: "sys"},
		{Role: llm.RoleUser, Content: "hi"},
		{Role: llm.RoleAssistant, Content: "hello"},
		{Role: llm.RoleUser, Parts: []llm.Part{
			{Type: llm.PartText, Text: "see"},
			{Type: llm.PartImage, MIMEType: "image/png", Data: []byte{1}},
		}},
	}

	system, history, last := splitConversation(msgs)

	assert.Equal(t, "sys", system)
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "model", history[1].Role)
	require.NotNil(t, last)
	require.Len(t, last.Parts, 2)
	assert.Equal(t, genai.Text("see"), last.Parts[0])
	assert.Equal(t, genai.Blob{MIMEType: "image/png", Data: []byte{1}}, last.Parts[1])
}

func TestSplitConversation_OnlySystem(t *testing.T) {
	_, history, last := splitConversation([]llm.Message{{Role: llm.RoleSystem, Content: "sys"}})

	assert.Nil(t, history)
	assert.Nil(t, last)
}
