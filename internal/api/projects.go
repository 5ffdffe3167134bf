package api

import (
	"context"

	"github.com/thinkwright/novelflow/internal/novel"
)

type CreateProjectRequest struct {
	Title           string `json:"title"`
	Genre           string `json:"genre,omitempty"`
	TargetWordCount int    `json:"target_word_count,omitempty"`
}

func (c *Client) ListProjects(ctx context.Context) ([]novel.Project, error) {
	var out []novel.Project
	if err := c.get(ctx, "/projects/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProject(ctx context.Context, id string) (novel.Project, error) {
	var out novel.Project
	err := c.get(ctx, resource("projects", id), nil, &out)
	return out, err
}

func (c *Client) CreateProject(ctx context.Context, req CreateProjectRequest) (novel.Project, error) {
	var out novel.Project
	err := c.post(ctx, "/projects/", req, &out)
	return out, err
}

func (c *Client) UpdateProject(ctx context.Context, id string, patch novel.ProjectPatch) (novel.Project, error) {
	var out novel.Project
	err := c.put(ctx, resource("projects", id), patch, &out)
	return out, err
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.delete(ctx, resource("projects", id))
}

// ProjectOverview returns the backend's free-form summary of a project.
func (c *Client) ProjectOverview(ctx context.Context, id string) (map[string]any, error) {
	var out map[string]any
	err := c.get(ctx, resource("projects", id, "overview"), nil, &out)
	return out, err
}
