package state

import (
	"slices"

	"github.com/thinkwright/novelflow/internal/novel"
)

// Action is a state transition. The set of actions is closed.
type Action interface {
	apply(State) State
}

// Reduce returns the state after a. The input is never modified.
func Reduce(s State, a Action) State {
	if a == nil {
		return s
	}
	return a.apply(s)
}

type SetUser struct{ User *novel.User }

type SetCurrentProject struct{ Project *novel.Project }

type SetCurrentPhase struct{ Phase novel.Phase }

type SetActiveConversation struct{ Conversation *novel.Conversation }

type SetSidebarPanel struct{ Panel novel.Panel }

// SetProjectData replaces the given collections. Nil fields keep their
// current value; the zero outline is expressed with ClearOutline.
type SetProjectData struct {
	Inspirations []novel.Inspiration
	Characters   []novel.Character
	Outline      *novel.Outline
	ClearOutline bool
	Chapters     []novel.Chapter
	Scenes       []novel.Scene
}

// ResetProjectData empties every cached collection.
type ResetProjectData struct{}

type AddInspiration struct{ Inspiration novel.Inspiration }

type UpdateInspiration struct {
	ID    string
	Patch novel.InspirationPatch
}

type RemoveInspiration struct{ ID string }

type AddCharacter struct{ Character novel.Character }

type UpdateCharacter struct {
	ID    string
	Patch novel.CharacterPatch
}

type RemoveCharacter struct{ ID string }

type SetLoading struct{ Loading bool }

type SetActiveModal struct{ Modal string }

// AddNotification appends n as given. Build n with NewNotification so it
// carries an id and timestamp.
type AddNotification struct{ Notification novel.Notification }

type RemoveNotification struct{ ID string }

type SetTheme struct{ Theme Theme }

// Rehydrate restores the persisted slice. The loading flag never survives a
// restart and notifications are always dropped.
type Rehydrate struct{ Snapshot Snapshot }

func (a SetUser) apply(s State) State {
	s.User = cloneUser(a.User)
	return s
}

func (a SetCurrentProject) apply(s State) State {
	if a.Project == nil {
		s.CurrentProject = nil
		return s
	}
	p := *a.Project
	s.CurrentProject = &p
	return s
}

func (a SetCurrentPhase) apply(s State) State {
	s.CurrentPhase = a.Phase
	return s
}

func (a SetActiveConversation) apply(s State) State {
	if a.Conversation == nil {
		s.ActiveConversation = nil
		return s
	}
	c := *a.Conversation
	c.Messages = slices.Clone(c.Messages)
	s.ActiveConversation = &c
	return s
}

func (a SetSidebarPanel) apply(s State) State {
	s.SidebarPanel = a.Panel
	return s
}

func (a SetProjectData) apply(s State) State {
	if a.Inspirations != nil {
		s.ProjectData.Inspirations = slices.Clone(a.Inspirations)
	}
	if a.Characters != nil {
		s.ProjectData.Characters = slices.Clone(a.Characters)
	}
	switch {
	case a.ClearOutline:
		s.ProjectData.Outline = nil
	case a.Outline != nil:
		o := *a.Outline
		o.Acts = slices.Clone(o.Acts)
		s.ProjectData.Outline = &o
	}
	if a.Chapters != nil {
		s.ProjectData.Chapters = slices.Clone(a.Chapters)
	}
	if a.Scenes != nil {
		s.ProjectData.Scenes = slices.Clone(a.Scenes)
	}
	return s
}

func (ResetProjectData) apply(s State) State {
	s.ProjectData = Default().ProjectData
	return s
}

func (a AddInspiration) apply(s State) State {
	s.ProjectData.Inspirations = upsert(s.ProjectData.Inspirations, a.Inspiration,
		func(in novel.Inspiration) string { return in.ID })
	return s
}

func (a UpdateInspiration) apply(s State) State {
	s.ProjectData.Inspirations = update(s.ProjectData.Inspirations, a.ID,
		func(in novel.Inspiration) string { return in.ID }, a.Patch.Apply)
	return s
}

func (a RemoveInspiration) apply(s State) State {
	s.ProjectData.Inspirations = remove(s.ProjectData.Inspirations, a.ID,
		func(in novel.Inspiration) string { return in.ID })
	return s
}

func (a AddCharacter) apply(s State) State {
	s.ProjectData.Characters = upsert(s.ProjectData.Characters, a.Character,
		func(c novel.Character) string { return c.ID })
	return s
}

func (a UpdateCharacter) apply(s State) State {
	s.ProjectData.Characters = update(s.ProjectData.Characters, a.ID,
		func(c novel.Character) string { return c.ID }, a.Patch.Apply)
	return s
}

func (a RemoveCharacter) apply(s State) State {
	s.ProjectData.Characters = remove(s.ProjectData.Characters, a.ID,
		func(c novel.Character) string { return c.ID })
	return s
}

func (a SetLoading) apply(s State) State {
	s.UI.IsLoading = a.Loading
	return s
}

func (a SetActiveModal) apply(s State) State {
	s.UI.ActiveModal = a.Modal
	return s
}

func (a AddNotification) apply(s State) State {
	s.UI.Notifications = append(slices.Clone(s.UI.Notifications), a.Notification)
	return s
}

func (a RemoveNotification) apply(s State) State {
	s.UI.Notifications = remove(s.UI.Notifications, a.ID,
		func(n novel.Notification) string { return n.ID })
	return s
}

func (a SetTheme) apply(s State) State {
	s.UI.Theme = a.Theme
	return s
}

func (a Rehydrate) apply(s State) State {
	s.User = cloneUser(a.Snapshot.User)
	ui := a.Snapshot.UI
	ui.IsLoading = false
	ui.Notifications = []novel.Notification{}
	if ui.Theme != ThemeDark && ui.Theme != ThemeLight {
		ui.Theme = ThemeDark
	}
	s.UI = ui
	return s
}

// upsert appends v, or replaces the entry that already has v's id so ids
// stay unique and nothing moves.
func upsert[T any](list []T, v T, id func(T) string) []T {
	out := slices.Clone(list)
	key := id(v)
	for i := range out {
		if id(out[i]) == key {
			out[i] = v
			return out
		}
	}
	return append(out, v)
}

func update[T any](list []T, key string, id func(T) string, patch func(T) T) []T {
	out := slices.Clone(list)
	for i := range out {
		if id(out[i]) == key {
			out[i] = patch(out[i])
		}
	}
	return out
}

func remove[T any](list []T, key string, id func(T) string) []T {
	out := make([]T, 0, len(list))
	for _, v := range list {
		if id(v) != key {
			out = append(out, v)
		}
	}
	return out
}
