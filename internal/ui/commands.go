package ui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/thinkwright/novelflow/internal/api"
	"github.com/thinkwright/novelflow/internal/conversation"
	"github.com/thinkwright/novelflow/internal/novel"
)

var errNoSelection = errors.New("nothing selected")

// Backend is everything the TUI asks of the server. *api.Client satisfies it.
type Backend interface {
	conversation.API
	ListProjects(ctx context.Context) ([]novel.Project, error)
	CreateProject(ctx context.Context, req api.CreateProjectRequest) (novel.Project, error)
	LoadProjectData(ctx context.Context, projectID string) (api.ProjectData, error)
	CreateInspiration(ctx context.Context, req api.CreateInspirationRequest) (novel.Inspiration, error)
	DeleteInspiration(ctx context.Context, id string) error
	DevelopInspiration(ctx context.Context, id string) (novel.ExpandedInspiration, error)
	MakeCharacter3D(ctx context.Context, id string) (novel.Character, error)
}

// Results of background commands. Anything bound to a project carries its
// id so a late result for a project that is no longer open can be dropped.

type projectsLoadedMsg struct {
	projects []novel.Project
	err      error
}

type projectCreatedMsg struct {
	project novel.Project
	err     error
}

type projectDataMsg struct {
	projectID string
	data      api.ProjectData
	err       error
}

type replyMsg struct {
	res conversation.Result
}

type inspirationCreatedMsg struct {
	projectID   string
	inspiration novel.Inspiration
	err         error
}

type inspirationDeletedMsg struct {
	projectID string
	id        string
	err       error
}

type inspirationDevelopedMsg struct {
	projectID string
	id        string
	expanded  novel.ExpandedInspiration
	err       error
}

type characterEnhancedMsg struct {
	projectID string
	character novel.Character
	err       error
}

type personaSwitchedMsg struct {
	persona novel.Persona
	err     error
}

type notificationExpiredMsg struct {
	id string
}

func loadProjectsCmd(b Backend) tea.Cmd {
	return func() tea.Msg {
		projects, err := b.ListProjects(context.Background())
		return projectsLoadedMsg{projects: projects, err: err}
	}
}

func createProjectCmd(b Backend, title string) tea.Cmd {
	return func() tea.Msg {
		p, err := b.CreateProject(context.Background(), api.CreateProjectRequest{Title: title})
		return projectCreatedMsg{project: p, err: err}
	}
}

func loadProjectDataCmd(b Backend, projectID string) tea.Cmd {
	return func() tea.Msg {
		data, err := b.LoadProjectData(context.Background(), projectID)
		return projectDataMsg{projectID: projectID, data: data, err: err}
	}
}

func exchangeCmd(s *conversation.Session, req conversation.Request) tea.Cmd {
	return func() tea.Msg {
		return replyMsg{res: s.Exchange(context.Background(), req)}
	}
}

func createInspirationCmd(b Backend, projectID, content string) tea.Cmd {
	return func() tea.Msg {
		in, err := b.CreateInspiration(context.Background(), api.CreateInspirationRequest{
			ProjectID: projectID,
			Content:   content,
		})
		return inspirationCreatedMsg{projectID: projectID, inspiration: in, err: err}
	}
}

func deleteInspirationCmd(b Backend, projectID, id string) tea.Cmd {
	return func() tea.Msg {
		err := b.DeleteInspiration(context.Background(), id)
		return inspirationDeletedMsg{projectID: projectID, id: id, err: err}
	}
}

func developInspirationCmd(b Backend, projectID, id string) tea.Cmd {
	return func() tea.Msg {
		exp, err := b.DevelopInspiration(context.Background(), id)
		return inspirationDevelopedMsg{projectID: projectID, id: id, expanded: exp, err: err}
	}
}

func makeCharacter3DCmd(b Backend, projectID, id string) tea.Cmd {
	return func() tea.Msg {
		ch, err := b.MakeCharacter3D(context.Background(), id)
		return characterEnhancedMsg{projectID: projectID, character: ch, err: err}
	}
}

func switchPersonaCmd(s *conversation.Session, conversationID string, persona novel.Persona) tea.Cmd {
	return func() tea.Msg {
		err := s.SwitchPersona(context.Background(), conversationID, persona)
		return personaSwitchedMsg{persona: persona, err: err}
	}
}

func expireCmd(id string, ttl time.Duration) tea.Cmd {
	return tea.Tick(ttl, func(time.Time) tea.Msg {
		return notificationExpiredMsg{id: id}
	})
}
