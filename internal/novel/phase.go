package novel

// Phase is a stage of the authoring workflow.
type Phase string

const (
	PhaseInspiration Phase = "inspiration"
	PhaseStructure   Phase = "structure"
	PhaseCharacter   Phase = "character"
	PhasePlot        Phase = "plot"
	PhaseContent     Phase = "content"
	PhaseRhythm      Phase = "rhythm"
	PhaseEditing     Phase = "editing"
)

// Navigation-only entries. They can be the current phase but have no
// persona of their own.
const (
	PhaseDashboard Phase = "dashboard"
	PhaseKnowledge Phase = "knowledge"
)

// Phases lists the seven creation phases in workflow order.
var Phases = []Phase{
	PhaseInspiration,
	PhaseStructure,
	PhaseCharacter,
	PhasePlot,
	PhaseContent,
	PhaseRhythm,
	PhaseEditing,
}

var phaseLabels = map[Phase]string{
	PhaseDashboard:   "Dashboard",
	PhaseInspiration: "Inspiration",
	PhaseStructure:   "Structure",
	PhaseCharacter:   "Characters",
	PhasePlot:        "Scenes",
	PhaseContent:     "Content",
	PhaseRhythm:      "Rhythm",
	PhaseEditing:     "Editing",
	PhaseKnowledge:   "Knowledge",
}

func (p Phase) Label() string {
	if l, ok := phaseLabels[p]; ok {
		return l
	}
	return string(p)
}

// Index returns the position of p in Phases, or -1.
func (p Phase) Index() int {
	for i, ph := range Phases {
		if ph == p {
			return i
		}
	}
	return -1
}

// Persona is the role the assistant adopts.
type Persona string

const (
	PersonaInspirationCollector Persona = "inspiration_collector"
	PersonaStructureArchitect   Persona = "structure_architect"
	PersonaCharacterDesigner    Persona = "character_designer"
	PersonaPlotWeaver           Persona = "plot_weaver"
	PersonaDialogueGenerator    Persona = "dialogue_generator"
	PersonaSceneRenderer        Persona = "scene_renderer"
	PersonaRhythmAdjuster       Persona = "rhythm_adjuster"
	PersonaTextPolisher         Persona = "text_polisher"
	PersonaQualityInspector     Persona = "quality_inspector"
)

// DefaultPersona answers for any phase without an entry of its own.
const DefaultPersona = PersonaInspirationCollector

var phasePersonas = map[Phase]Persona{
	PhaseInspiration: PersonaInspirationCollector,
	PhaseStructure:   PersonaStructureArchitect,
	PhaseCharacter:   PersonaCharacterDesigner,
	PhasePlot:        PersonaPlotWeaver,
	PhaseContent:     PersonaSceneRenderer,
	PhaseRhythm:      PersonaRhythmAdjuster,
	PhaseEditing:     PersonaTextPolisher,
}

// PersonaForPhase is total: unknown phases get DefaultPersona.
func PersonaForPhase(p Phase) Persona {
	if persona, ok := phasePersonas[p]; ok {
		return persona
	}
	return DefaultPersona
}

type PersonaInfo struct {
	Name        string
	Emoji       string
	Description string
}

var personaInfo = map[Persona]PersonaInfo{
	PersonaInspirationCollector: {"Inspiration Collector", "💡", "Captures sparks and turns them into story seeds"},
	PersonaStructureArchitect:   {"Structure Architect", "🏗", "Designs acts, turning points and pacing skeletons"},
	PersonaCharacterDesigner:    {"Character Designer", "👤", "Builds characters people remember"},
	PersonaPlotWeaver:           {"Plot Weaver", "🎬", "Plans scenes and weaves conflict"},
	PersonaDialogueGenerator:    {"Dialogue Generator", "💬", "Writes voices that sound like people"},
	PersonaSceneRenderer:        {"Scene Renderer", "✍", "Drafts prose that shows instead of tells"},
	PersonaRhythmAdjuster:       {"Rhythm Adjuster", "⏱", "Tunes tension and release"},
	PersonaTextPolisher:         {"Text Polisher", "🔧", "Tightens sentences and fixes rough edges"},
	PersonaQualityInspector:     {"Quality Inspector", "🔍", "Scores the manuscript and flags issues"},
}

// Info returns display data for the persona. Unknown personas get their raw
// identifier as the name.
func (p Persona) Info() PersonaInfo {
	if info, ok := personaInfo[p]; ok {
		return info
	}
	return PersonaInfo{Name: string(p), Emoji: "🤖"}
}

// Panel identifies a sidebar panel.
type Panel string

const (
	PanelProjectInfo  Panel = "projectInfo"
	PanelCharacters   Panel = "characters"
	PanelOutline      Panel = "outline"
	PanelInspirations Panel = "inspirations"
	PanelProgress     Panel = "progress"
	PanelSettings     Panel = "settings"
)

// Panels is the cycling order of the sidebar.
var Panels = []Panel{
	PanelProjectInfo,
	PanelInspirations,
	PanelCharacters,
	PanelOutline,
	PanelProgress,
}

func (p Panel) Label() string {
	switch p {
	case PanelProjectInfo:
		return "PROJECT"
	case PanelCharacters:
		return "CHARACTERS"
	case PanelOutline:
		return "OUTLINE"
	case PanelInspirations:
		return "INSPIRATIONS"
	case PanelProgress:
		return "PROGRESS"
	case PanelSettings:
		return "SETTINGS"
	}
	return string(p)
}

// PanelForPhase picks the sidebar panel shown after navigating to p.
func PanelForPhase(p Phase) Panel {
	switch p {
	case PhaseInspiration:
		return PanelInspirations
	case PhaseCharacter:
		return PanelCharacters
	case PhaseStructure:
		return PanelOutline
	default:
		return PanelProjectInfo
	}
}

var placeholders = map[Phase]string{
	PhaseInspiration: "Share a spark: a scene, an image, a line of dialogue...",
	PhaseStructure:   "Describe the story you want to structure...",
	PhaseCharacter:   "Tell me about a character you have in mind...",
	PhasePlot:        "Which scene should we plan next?",
	PhaseContent:     "Paste a passage or ask for a draft...",
	PhaseRhythm:      "Which part feels too fast or too slow?",
	PhaseEditing:     "Paste text to polish...",
}

// Placeholder is the input hint shown for p.
func Placeholder(p Phase) string {
	if s, ok := placeholders[p]; ok {
		return s
	}
	return "Type a message..."
}
