package api

import (
	"context"
	"fmt"

	"github.com/thinkwright/novelflow/internal/novel"
	"golang.org/x/sync/errgroup"
)

// ProjectData is everything fetched when a project is opened.
type ProjectData struct {
	ProjectID     string
	Inspirations  []novel.Inspiration
	Characters    []novel.Character
	Conversations []novel.Conversation
}

// LoadProjectData fetches a project's collections concurrently. The first
// failure cancels the other requests and is returned.
func (c *Client) LoadProjectData(ctx context.Context, projectID string) (ProjectData, error) {
	data := ProjectData{ProjectID: projectID}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		items, err := c.ListInspirations(ctx, projectID)
		if err != nil {
			return fmt.Errorf("inspirations: %w", err)
		}
		data.Inspirations = items
		return nil
	})
	g.Go(func() error {
		items, err := c.ListCharacters(ctx, projectID)
		if err != nil {
			return fmt.Errorf("characters: %w", err)
		}
		data.Characters = items
		return nil
	})
	g.Go(func() error {
		items, err := c.ListConversations(ctx, projectID)
		if err != nil {
			return fmt.Errorf("conversations: %w", err)
		}
		data.Conversations = items
		return nil
	})

	if err := g.Wait(); err != nil {
		return ProjectData{ProjectID: projectID}, err
	}
	return data, nil
}
