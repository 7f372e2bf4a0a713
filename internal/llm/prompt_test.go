package llm_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/sop-assistant/internal/domain"
	"github.com/Rrens/sop-assistant/internal/llm"
)

func sop(category, title, content string, active bool, evidence ...string) domain.Sop {
	s := domain.Sop{
		Title:        title,
		Content:      content,
		CategoryName: category,
		IsActive:     active,
		Version:      1,
	}
	for _, e := range evidence {
		s.Evidence = append(s.Evidence, domain.EvidenceTemplate{Description: e})
	}
	return s
}

func TestBuildGroundingText(t *testing.T) {
	sops := []domain.Sop{
		sop("Damaged", "Broken item", "Ask for photos", true, "Unboxing video", "Photo of damage"),
		sop("Wrong", "Wrong item", "Compare SKU", true),
	}

	got := llm.BuildGroundingText(sops)

	want := "Category: Damaged\nTitle: Broken item\nContent: Ask for photos\nEvidence Requirements: Unboxing video, Photo of damage\n---\n" +
		"Category: Wrong\nTitle: Wrong item\nContent: Compare SKU\nEvidence Requirements: \n---"
	assert.Equal(t, want, got)
}

func TestBuildGroundingText_SkipsInactive(t *testing.T) {
	sops := []domain.Sop{
		sop("Damaged", "A", "first", true),
		sop("Damaged", "Retired", "old rule", false),
		sop("Faulty", "B", "second", true),
	}

	got := llm.BuildGroundingText(sops)

	assert.NotContains(t, got, "Retired")
	assert.NotContains(t, got, "old rule")
	assert.Less(t, strings.Index(got, "Title: A"), strings.Index(got, "Title: B"))
}

func TestBuildGroundingText_Empty(t *testing.T) {
	assert.Equal(t, "", llm.BuildGroundingText(nil))
}

func TestSystemPrompt(t *testing.T) {
	p := llm.SystemPrompt("Category: X\n---")

	assert.True(t, strings.HasPrefix(p, "You are a Shopee Return & Refund SOP Assistant."))
	assert.Contains(t, p, "text AND screenshots")
	assert.True(t, strings.HasSuffix(p, "Available SOPs:\nCategory: X\n---\n---"))
}

func TestBuildMessages_TextOnly(t *testing.T) {
	history := []domain.HistoryMessage{
		{ID: "welcome", Role: domain.RoleAssistant, Content: "Hello! I'm your Shopee SOP Assistant."},
		{ID: "1", Role: domain.RoleUser, Content: "hi"},
		{ID: "2", Role: domain.RoleAssistant, Content: "hello"},
	}

	msgs := llm.BuildMessages(nil, history, "where is my refund", nil)

	require.Len(t, msgs, 4)
	assert.Equal(t, llm.RoleSystem, msgs[0].Role)
	assert.Equal(t, "hi", msgs[1].Content)
	assert.Equal(t, "hello", msgs[2].Content)
	assert.Equal(t, llm.RoleUser, msgs[3].Role)
	assert.Equal(t, "where is my refund", msgs[3].Content)
	assert.False(t, msgs[3].HasImage())
}

func TestBuildMessages_WelcomeSkippedAnywhere(t *testing.T) {
	history := []domain.HistoryMessage{
		{ID: "1", Role: domain.RoleUser, Content: "hi"},
		{ID: "welcome", Role: domain.RoleAssistant, Content: "greeting"},
		// a user message that happens to carry the id is kept
		{ID: "welcome", Role: domain.RoleUser, Content: "kept"},
	}

	msgs := llm.BuildMessages(nil, history, "", nil)

	for _, m := range msgs {
		assert.NotEqual(t, "greeting", m.Content)
	}
	require.Len(t, msgs, 4)
	assert.Equal(t, "kept", msgs[2].Content)
	assert.Equal(t, "", msgs[3].Content)
}

func TestBuildMessages_WithImage(t *testing.T) {
	img := &llm.Image{MIMEType: "image/png", Data: []byte{0x89, 0x50}}

	msgs := llm.BuildMessages(nil, nil, "", img)

	require.Len(t, msgs, 2)
	last := msgs[1]
	assert.True(t, last.HasImage())
	require.Len(t, last.Parts, 2)
	assert.Equal(t, llm.DefaultImagePrompt, last.Parts[0].Text)
	assert.Equal(t, "data:image/png;base64,iVA=", last.Parts[1].DataURL())
}

func TestBuildMessages_WithImageAndText(t *testing.T) {
	img := &llm.Image{MIMEType: "image/jpeg", Data: []byte("x")}

	msgs := llm.BuildMessages(nil, nil, "what SOP applies?", img)

	assert.Equal(t, "what SOP applies?", msgs[1].Parts[0].Text)
}

func TestImageMIMEType(t *testing.T) {
	tests := []struct {
		ref  string
		want string
	}{
		{"/uploads/1-a.png", "image/png"},
		{"/uploads/1-a.PNG", "image/png"},
		{"/uploads/1-a.webp", "image/webp"},
		{"/uploads/1-a.jpg", "image/jpeg"},
		{"/uploads/1-a.gif", "image/jpeg"},
		{"/uploads/noext", "image/jpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			assert.Equal(t, tt.want, llm.ImageMIMEType(tt.ref))
		})
	}
}

type stubProvider struct{}

func (stubProvider) Name() string              { return "stub" }
func (stubProvider) AvailableModels() []string { return []string{"text", "vision"} }
func (stubProvider) DefaultModel() string      { return "text" }
func (stubProvider) VisionModel() string       { return "vision" }
func (stubProvider) IsConfigured() bool        { return true }
func (stubProvider) Complete(context.Context, llm.Request) (*llm.Response, error) {
	return &llm.Response{}, nil
}

func TestSelectModel(t *testing.T) {
	assert.Equal(t, "vision", llm.SelectModel(stubProvider{}, true))
	assert.Equal(t, "text", llm.SelectModel(stubProvider{}, false))
}

func TestRouter_GetProvider(t *testing.T) {
	r := llm.NewRouter("stub")
	r.RegisterProvider(stubProvider{})

	p, err := r.GetProvider("")
	require.NoError(t, err)
	assert.Equal(t, "stub", p.Name())

	_, err = r.GetProvider("missing")
	assert.Error(t, err)
	assert.Equal(t, []string{"stub"}, r.ListProviders())
}
