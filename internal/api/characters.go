package api

import (
	"context"

	"github.com/thinkwright/novelflow/internal/novel"
)

type CreateCharacterRequest struct {
	ProjectID string         `json:"project_id"`
	Name      string         `json:"name"`
	RoleType  novel.RoleType `json:"role_type"`
}

func (c *Client) ListCharacters(ctx context.Context, projectID string) ([]novel.Character, error) {
	var out []novel.Character
	if err := c.get(ctx, "/characters/", byProject(projectID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetCharacter(ctx context.Context, id string) (novel.Character, error) {
	var out novel.Character
	err := c.get(ctx, resource("characters", id), nil, &out)
	return out, err
}

func (c *Client) CreateCharacter(ctx context.Context, req CreateCharacterRequest) (novel.Character, error) {
	var out novel.Character
	err := c.post(ctx, "/characters/", req, &out)
	return out, err
}

func (c *Client) UpdateCharacter(ctx context.Context, id string, patch novel.CharacterPatch) (novel.Character, error) {
	var out novel.Character
	err := c.put(ctx, resource("characters", id), patch, &out)
	return out, err
}

func (c *Client) DeleteCharacter(ctx context.Context, id string) error {
	return c.delete(ctx, resource("characters", id))
}

// MakeCharacter3D returns the character enriched with a full profile and arc.
func (c *Client) MakeCharacter3D(ctx context.Context, id string) (novel.Character, error) {
	var out novel.Character
	err := c.post(ctx, resource("characters", id, "make-3d"), nil, &out)
	return out, err
}
