package api

import (
	"context"

	"github.com/thinkwright/novelflow/internal/novel"
)

type CreateInspirationRequest struct {
	ProjectID string                    `json:"project_id"`
	Content   string                    `json:"content"`
	Tags      []string                  `json:"tags,omitempty"`
	Category  novel.InspirationCategory `json:"category,omitempty"`
}

func (c *Client) ListInspirations(ctx context.Context, projectID string) ([]novel.Inspiration, error) {
	var out []novel.Inspiration
	if err := c.get(ctx, "/inspirations/", byProject(projectID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetInspiration(ctx context.Context, id string) (novel.Inspiration, error) {
	var out novel.Inspiration
	err := c.get(ctx, resource("inspirations", id), nil, &out)
	return out, err
}

func (c *Client) CreateInspiration(ctx context.Context, req CreateInspirationRequest) (novel.Inspiration, error) {
	var out novel.Inspiration
	err := c.post(ctx, "/inspirations/", req, &out)
	return out, err
}

func (c *Client) UpdateInspiration(ctx context.Context, id string, patch novel.InspirationPatch) (novel.Inspiration, error) {
	var out novel.Inspiration
	err := c.put(ctx, resource("inspirations", id), patch, &out)
	return out, err
}

func (c *Client) DeleteInspiration(ctx context.Context, id string) error {
	return c.delete(ctx, resource("inspirations", id))
}

// DevelopInspiration asks the backend to expand a raw inspiration.
func (c *Client) DevelopInspiration(ctx context.Context, id string) (novel.ExpandedInspiration, error) {
	var out struct {
		Expanded novel.ExpandedInspiration `json:"expanded"`
	}
	err := c.post(ctx, resource("inspirations", id, "develop"), nil, &out)
	return out.Expanded, err
}
