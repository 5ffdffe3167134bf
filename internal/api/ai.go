package api

import (
	"context"

	"github.com/thinkwright/novelflow/internal/novel"
)

type QualityRequest struct {
	ProjectID   string `json:"project_id,omitempty"`
	ContentType string `json:"content_type"`
	EntityID    string `json:"entity_id,omitempty"`
}

type chatRequest struct {
	Message string        `json:"message"`
	Persona novel.Persona `json:"ai_role,omitempty"`
}

type contextRequest struct {
	Context map[string]any `json:"context"`
}

type contentRequest struct {
	Content string         `json:"content"`
	Context map[string]any `json:"context,omitempty"`
}

// Chat sends a one-off message outside any conversation.
func (c *Client) Chat(ctx context.Context, message string, persona novel.Persona) (novel.AIResponse, error) {
	var out novel.AIResponse
	err := c.post(ctx, "/ai/chat", chatRequest{Message: message, Persona: persona}, &out)
	return out, err
}

func (c *Client) GenerateInspirationExpansion(ctx context.Context, input map[string]any) (map[string]any, error) {
	var out map[string]any
	err := c.post(ctx, "/ai/generate/inspiration-expansion", contextRequest{Context: orEmpty(input)}, &out)
	return out, err
}

func (c *Client) GenerateCharacterProfile(ctx context.Context, input map[string]any) (map[string]any, error) {
	var out map[string]any
	err := c.post(ctx, "/ai/generate/character-profile", contextRequest{Context: orEmpty(input)}, &out)
	return out, err
}

func (c *Client) OptimizeShowNotTell(ctx context.Context, content string) (map[string]any, error) {
	var out map[string]any
	err := c.post(ctx, "/ai/optimize/show-not-tell", contentRequest{Content: content}, &out)
	return out, err
}

func (c *Client) OptimizeDialogue(ctx context.Context, content string, input map[string]any) (map[string]any, error) {
	var out map[string]any
	err := c.post(ctx, "/ai/optimize/dialogue", contentRequest{Content: content, Context: orEmpty(input)}, &out)
	return out, err
}

func (c *Client) AnalyzeQuality(ctx context.Context, req QualityRequest) (novel.QualityAnalysis, error) {
	var out novel.QualityAnalysis
	err := c.post(ctx, "/ai/analyze/quality", req, &out)
	return out, err
}

func orEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
