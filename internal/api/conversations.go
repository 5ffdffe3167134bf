package api

import (
	"context"

	"github.com/thinkwright/novelflow/internal/novel"
)

type CreateConversationRequest struct {
	ProjectID string        `json:"project_id"`
	Persona   novel.Persona `json:"ai_role,omitempty"`
}

type addMessageRequest struct {
	Message string        `json:"message"`
	Persona novel.Persona `json:"ai_role,omitempty"`
}

type switchRoleRequest struct {
	NewRole novel.Persona `json:"new_role"`
}

func (c *Client) ListConversations(ctx context.Context, projectID string) ([]novel.Conversation, error) {
	var out []novel.Conversation
	if err := c.get(ctx, "/conversations/", byProject(projectID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetConversation(ctx context.Context, id string) (novel.Conversation, error) {
	var out novel.Conversation
	err := c.get(ctx, resource("conversations", id), nil, &out)
	return out, err
}

func (c *Client) CreateConversation(ctx context.Context, req CreateConversationRequest) (novel.Conversation, error) {
	var out novel.Conversation
	err := c.post(ctx, "/conversations/", req, &out)
	return out, err
}

// AddMessage posts a user message and returns the assistant's reply.
func (c *Client) AddMessage(ctx context.Context, conversationID, message string, persona novel.Persona) (novel.MessageReply, error) {
	var out novel.MessageReply
	err := c.post(ctx, resource("conversations", conversationID, "messages"),
		addMessageRequest{Message: message, Persona: persona}, &out)
	return out, err
}

func (c *Client) SwitchRole(ctx context.Context, conversationID string, persona novel.Persona) error {
	return c.post(ctx, resource("conversations", conversationID, "switch-role"),
		switchRoleRequest{NewRole: persona}, nil)
}
