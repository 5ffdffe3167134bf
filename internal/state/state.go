// Package state holds the client's single source of truth: an immutable
// State value, the closed set of actions that change it, and a Store that
// persists the durable slice of it.
package state

import "github.com/thinkwright/novelflow/internal/novel"

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

type ProjectData struct {
	Inspirations []novel.Inspiration `json:"inspirations"`
	Characters   []novel.Character   `json:"characters"`
	Outline      *novel.Outline      `json:"outline"`
	Chapters     []novel.Chapter     `json:"chapters"`
	Scenes       []novel.Scene       `json:"scenes"`
}

type UI struct {
	IsLoading     bool                 `json:"isLoading"`
	ActiveModal   string               `json:"activeModal"`
	Notifications []novel.Notification `json:"notifications"`
	Theme         Theme                `json:"theme"`
}

type State struct {
	User               *novel.User
	CurrentProject     *novel.Project
	CurrentPhase       novel.Phase
	ActiveConversation *novel.Conversation
	SidebarPanel       novel.Panel
	ProjectData        ProjectData
	UI                 UI
}

// Default is the state every session starts from before rehydration.
func Default() State {
	return State{
		CurrentPhase: novel.PhaseInspiration,
		SidebarPanel: novel.PanelProjectInfo,
		ProjectData: ProjectData{
			Inspirations: []novel.Inspiration{},
			Characters:   []novel.Character{},
			Chapters:     []novel.Chapter{},
			Scenes:       []novel.Scene{},
		},
		UI: UI{
			Notifications: []novel.Notification{},
			Theme:         ThemeDark,
		},
	}
}

// Snapshot is the persisted slice of State.
type Snapshot struct {
	User *novel.User `json:"user"`
	UI   UI          `json:"ui"`
}

// Snapshot returns the persisted slice with notifications cleared.
func (s State) Snapshot() Snapshot {
	ui := s.UI
	ui.Notifications = []novel.Notification{}
	return Snapshot{User: cloneUser(s.User), UI: ui}
}

// Persona is the assistant role for the current phase.
func (s State) Persona() novel.Persona {
	return novel.PersonaForPhase(s.CurrentPhase)
}

// ProjectID is the current project's id, or "".
func (s State) ProjectID() string {
	if s.CurrentProject == nil {
		return ""
	}
	return s.CurrentProject.ID
}

func cloneUser(u *novel.User) *novel.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
