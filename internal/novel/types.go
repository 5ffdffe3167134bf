package novel

type SubscriptionTier string

const (
	TierFree       SubscriptionTier = "free"
	TierPro        SubscriptionTier = "pro"
	TierTeam       SubscriptionTier = "team"
	TierEnterprise SubscriptionTier = "enterprise"
)

type User struct {
	ID               string           `json:"id" yaml:"id"`
	Username         string           `json:"username" yaml:"username"`
	Email            string           `json:"email" yaml:"email"`
	SubscriptionTier SubscriptionTier `json:"subscription_tier" yaml:"subscription_tier"`
	CreatedAt        string           `json:"created_at" yaml:"created_at"`
	LastLogin        string           `json:"last_login,omitempty" yaml:"last_login,omitempty"`
	Preferences      map[string]any   `json:"preferences,omitempty" yaml:"preferences,omitempty"`
}

type ProjectStatus string

const (
	StatusPlanning  ProjectStatus = "planning"
	StatusWriting   ProjectStatus = "writing"
	StatusEditing   ProjectStatus = "editing"
	StatusCompleted ProjectStatus = "completed"
)

type StructureType string

const (
	StructureThreeAct    StructureType = "three_act"
	StructureHeroJourney StructureType = "hero_journey"
	StructureMystery     StructureType = "mystery"
	StructureRomance     StructureType = "romance"
)

type Project struct {
	ID               string         `json:"id" yaml:"id"`
	UserID           string         `json:"user_id" yaml:"user_id"`
	Title            string         `json:"title" yaml:"title"`
	Genre            string         `json:"genre,omitempty" yaml:"genre,omitempty"`
	TargetWordCount  int            `json:"target_word_count,omitempty" yaml:"target_word_count,omitempty"`
	CurrentWordCount int            `json:"current_word_count" yaml:"current_word_count"`
	Status           ProjectStatus  `json:"status" yaml:"status"`
	StructureType    StructureType  `json:"structure_type,omitempty" yaml:"structure_type,omitempty"`
	CreatedAt        string         `json:"created_at" yaml:"created_at"`
	UpdatedAt        string         `json:"updated_at" yaml:"updated_at"`
	Settings         map[string]any `json:"settings,omitempty" yaml:"settings,omitempty"`
}

type InspirationCategory string

const (
	CategoryHeadTail     InspirationCategory = "has_head_tail"
	CategoryTailOnly     InspirationCategory = "has_tail_only"
	CategoryNoHeadNoTail InspirationCategory = "no_head_no_tail"
)

type InspirationStatus string

const (
	InspirationRaw       InspirationStatus = "raw"
	InspirationDeveloped InspirationStatus = "developed"
	InspirationUsed      InspirationStatus = "used"
)

type Inspiration struct {
	ID        string              `json:"id"`
	ProjectID string              `json:"project_id"`
	UserID    string              `json:"user_id"`
	Content   string              `json:"content"`
	Category  InspirationCategory `json:"category"`
	Tags      []string            `json:"tags,omitempty"`
	Status    InspirationStatus   `json:"status"`
	CreatedAt string              `json:"created_at"`
	Metadata  map[string]any      `json:"metadata,omitempty"`
}

type ConflictOption struct {
	Type            string `json:"type"`
	RoutineElement  string `json:"routine_element"`
	AbnormalElement string `json:"abnormal_element"`
	Goal            string `json:"goal"`
	Obstacle        string `json:"obstacle"`
	Inescapable     string `json:"inescapable"`
}

// ExpandedInspiration is the result of developing a raw inspiration.
type ExpandedInspiration struct {
	Analysis struct {
		Classification  InspirationCategory `json:"classification"`
		CoreElements    []string            `json:"core_elements"`
		PotentialGenres []string            `json:"potential_genres"`
	} `json:"analysis"`
	ConflictOptions []ConflictOption `json:"conflict_options"`
	Perspectives    []string         `json:"perspectives"`
	CoreQuestions   struct {
		Theme    string `json:"theme,omitempty"`
		Goal     string `json:"goal,omitempty"`
		Obstacle string `json:"obstacle,omitempty"`
		Stakes   string `json:"stakes,omitempty"`
	} `json:"core_questions"`
	NextSteps struct {
		RecommendedStep string `json:"recommended_step"`
		Reason          string `json:"reason"`
	} `json:"next_steps"`
}

type RoleType string

const (
	RoleProtagonist RoleType = "protagonist"
	RoleAntagonist  RoleType = "antagonist"
	RoleSupporting  RoleType = "supporting"
	RoleMinor       RoleType = "minor"
)

type Character struct {
	ID            string            `json:"id"`
	ProjectID     string            `json:"project_id"`
	Name          string            `json:"name"`
	RoleType      RoleType          `json:"role_type"`
	Profile       *CharacterProfile `json:"profile,omitempty"`
	Relationships map[string]string `json:"relationships,omitempty"`
	Arc           *CharacterArc     `json:"arc_data,omitempty"`
	CreatedAt     string            `json:"created_at"`
	UpdatedAt     string            `json:"updated_at"`
}

// CharacterProfile holds the seven narrative-trait groups. Every group and
// every field inside it is optional.
type CharacterProfile struct {
	RepetitiveBehavior *struct {
		Appearance      string `json:"appearance,omitempty"`
		SignatureAction string `json:"signature_action,omitempty"`
		SpeechPattern   string `json:"speech_pattern,omitempty"`
		FirstImpression string `json:"first_impression,omitempty"`
		MemorableTrait  string `json:"memorable_trait,omitempty"`
	} `json:"repetitive_behavior,omitempty"`
	ContrastDetail *struct {
		OuterImpression string `json:"outer_impression,omitempty"`
		InnerReality    string `json:"inner_reality,omitempty"`
		Manifestations  string `json:"manifestations,omitempty"`
		RevealScene     string `json:"reveal_scene,omitempty"`
	} `json:"contrast_detail,omitempty"`
	GrowthTrajectory *struct {
		StartState            string `json:"start_state,omitempty"`
		FatalFlaw             string `json:"fatal_flaw,omitempty"`
		EndState              string `json:"end_state,omitempty"`
		TransformationProcess string `json:"transformation_process,omitempty"`
		ArcType               string `json:"arc_type,omitempty"`
	} `json:"growth_trajectory,omitempty"`
	UniqueObservation *struct {
		Worldview      string `json:"worldview,omitempty"`
		UniqueAngle    string `json:"unique_angle,omitempty"`
		MonologueStyle string `json:"monologue_style,omitempty"`
		Reactions      string `json:"reactions,omitempty"`
	} `json:"unique_observation,omitempty"`
	SpecialTalent *struct {
		SpecialAbility    string `json:"special_ability,omitempty"`
		PersonalQuirk     string `json:"personal_quirk,omitempty"`
		MemoryEnhancement string `json:"memory_enhancement,omitempty"`
		OthersPerception  string `json:"others_perception,omitempty"`
	} `json:"special_talent,omitempty"`
	RealFlaw *struct {
		CoreFlaw          string `json:"core_flaw,omitempty"`
		HowCreatesTrouble string `json:"how_creates_trouble,omitempty"`
		WhyImportant      string `json:"why_important,omitempty"`
		WillOvercome      string `json:"will_overcome,omitempty"`
	} `json:"real_flaw,omitempty"`
	StrongMotivation *struct {
		SurfaceMotivation string `json:"surface_motivation,omitempty"`
		DeepMotivation    string `json:"deep_motivation,omitempty"`
		WhyStrong         string `json:"why_strong,omitempty"`
		OriginStory       string `json:"origin_story,omitempty"`
	} `json:"strong_motivation,omitempty"`
}

// TraitField is one labelled value inside a profile group.
type TraitField struct {
	Label string
	Value string
}

// TraitGroup is a profile group flattened for display.
type TraitGroup struct {
	Title  string
	Fields []TraitField
}

// Groups flattens the profile into display order, skipping absent groups and
// empty fields.
func (p *CharacterProfile) Groups() []TraitGroup {
	if p == nil {
		return nil
	}
	var out []TraitGroup
	add := func(title string, fields ...TraitField) {
		var kept []TraitField
		for _, f := range fields {
			if f.Value != "" {
				kept = append(kept, f)
			}
		}
		if len(kept) > 0 {
			out = append(out, TraitGroup{Title: title, Fields: kept})
		}
	}
	if g := p.RepetitiveBehavior; g != nil {
		add("Repetitive behavior",
			TraitField{"Appearance", g.Appearance},
			TraitField{"Signature action", g.SignatureAction},
			TraitField{"Speech pattern", g.SpeechPattern},
			TraitField{"First impression", g.FirstImpression},
			TraitField{"Memorable trait", g.MemorableTrait})
	}
	if g := p.ContrastDetail; g != nil {
		add("Contrast detail",
			TraitField{"Outer impression", g.OuterImpression},
			TraitField{"Inner reality", g.InnerReality},
			TraitField{"Manifestations", g.Manifestations},
			TraitField{"Reveal scene", g.RevealScene})
	}
	if g := p.GrowthTrajectory; g != nil {
		add("Growth trajectory",
			TraitField{"Start state", g.StartState},
			TraitField{"Fatal flaw", g.FatalFlaw},
			TraitField{"End state", g.EndState},
			TraitField{"Transformation", g.TransformationProcess},
			TraitField{"Arc type", g.ArcType})
	}
	if g := p.UniqueObservation; g != nil {
		add("Unique observation",
			TraitField{"Worldview", g.Worldview},
			TraitField{"Unique angle", g.UniqueAngle},
			TraitField{"Monologue style", g.MonologueStyle},
			TraitField{"Reactions", g.Reactions})
	}
	if g := p.SpecialTalent; g != nil {
		add("Special talent",
			TraitField{"Ability", g.SpecialAbility},
			TraitField{"Quirk", g.PersonalQuirk},
			TraitField{"Memory hook", g.MemoryEnhancement},
			TraitField{"Others' perception", g.OthersPerception})
	}
	if g := p.RealFlaw; g != nil {
		add("Real flaw",
			TraitField{"Core flaw", g.CoreFlaw},
			TraitField{"Creates trouble", g.HowCreatesTrouble},
			TraitField{"Why it matters", g.WhyImportant},
			TraitField{"Overcome", g.WillOvercome})
	}
	if g := p.StrongMotivation; g != nil {
		add("Strong motivation",
			TraitField{"Surface", g.SurfaceMotivation},
			TraitField{"Deep", g.DeepMotivation},
			TraitField{"Why strong", g.WhyStrong},
			TraitField{"Origin", g.OriginStory})
	}
	return out
}

type CharacterArc struct {
	BehaviorChain string `json:"behavior_chain"`
	GoalSystem    struct {
		BigGoal    string   `json:"big_goal,omitempty"`
		MidGoals   []string `json:"mid_goals,omitempty"`
		ShortGoals []string `json:"short_goals,omitempty"`
	} `json:"goal_system"`
	ObstacleSystem struct {
		External      string `json:"external,omitempty"`
		Internal      string `json:"internal,omitempty"`
		Philosophical string `json:"philosophical,omitempty"`
	} `json:"obstacle_system"`
}

type MessageRole string

const (
	MessageUser      MessageRole = "user"
	MessageAssistant MessageRole = "assistant"
	MessageSystem    MessageRole = "system"
)

type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type MessageMetadata struct {
	Model    string `json:"model,omitempty"`
	Provider string `json:"provider,omitempty"`
	Usage    *Usage `json:"usage,omitempty"`
}

type Message struct {
	Role           MessageRole      `json:"role"`
	Content        string           `json:"content"`
	Persona        Persona          `json:"ai_role,omitempty"`
	Metadata       *MessageMetadata `json:"metadata,omitempty"`
	StructuredData StructuredData   `json:"structured_data,omitempty"`
	Timestamp      string           `json:"timestamp,omitempty"`
}

type Conversation struct {
	ID        string         `json:"id"`
	ProjectID string         `json:"project_id"`
	UserID    string         `json:"user_id"`
	Persona   Persona        `json:"ai_role,omitempty"`
	Messages  []Message      `json:"messages"`
	Context   map[string]any `json:"context,omitempty"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
}

type SuggestedAction struct {
	Type        string         `json:"type"`
	Label       string         `json:"label"`
	Description string         `json:"description,omitempty"`
	Data        map[string]any `json:"data,omitempty"`
}

// MessageReply is the body returned when a message is posted to a
// conversation.
type MessageReply struct {
	Message          Message           `json:"message"`
	SuggestedActions []SuggestedAction `json:"suggested_actions,omitempty"`
}

type AIResponse struct {
	Text             string            `json:"text"`
	StructuredData   StructuredData    `json:"structured_data,omitempty"`
	SuggestedActions []SuggestedAction `json:"suggested_actions,omitempty"`
	Metadata         *MessageMetadata  `json:"metadata,omitempty"`
}

type Severity string

const (
	SeverityCritical  Severity = "critical"
	SeverityImportant Severity = "important"
	SeverityOptional  Severity = "optional"
)

type QualityIssue struct {
	Type        string   `json:"type"`
	Severity    Severity `json:"severity"`
	Location    string   `json:"location,omitempty"`
	Description string   `json:"description"`
	Suggestion  string   `json:"suggestion"`
}

type QualityScore struct {
	Structure float64 `json:"structure"`
	Character float64 `json:"character"`
	Plot      float64 `json:"plot"`
	Writing   float64 `json:"writing"`
	Total     float64 `json:"total"`
}

type QualityAnalysis struct {
	Scores      QualityScore   `json:"scores"`
	Issues      []QualityIssue `json:"issues"`
	Suggestions []string       `json:"suggestions"`
	AnalyzedAt  string         `json:"analyzed_at"`
}

// Outline acts carry caller-supplied percentages; nothing checks that they
// add up to 100.
type Outline struct {
	Acts            []Act `json:"acts"`
	TargetWordCount int   `json:"target_word_count"`
}

type Act struct {
	ActNumber  int      `json:"act_number"`
	Title      string   `json:"title"`
	Percentage float64  `json:"percentage"`
	WordCount  int      `json:"word_count"`
	KeyPoints  []string `json:"key_points"`
}

type ChapterStatus string

const (
	ChapterPlanned   ChapterStatus = "planned"
	ChapterDrafting  ChapterStatus = "drafting"
	ChapterCompleted ChapterStatus = "completed"
)

type Chapter struct {
	ID              string         `json:"id"`
	ProjectID       string         `json:"project_id"`
	ChapterNumber   int            `json:"chapter_number"`
	Title           string         `json:"title,omitempty"`
	Synopsis        string         `json:"synopsis,omitempty"`
	WordCount       int            `json:"word_count"`
	Status          ChapterStatus  `json:"status"`
	TargetWordCount int            `json:"target_word_count,omitempty"`
	ActNumber       int            `json:"act_number,omitempty"`
	SequenceInAct   int            `json:"sequence_in_act,omitempty"`
	Blueprint       map[string]any `json:"blueprint,omitempty"`
}

type Scene struct {
	ID          string         `json:"id"`
	ChapterID   string         `json:"chapter_id"`
	SceneNumber int            `json:"scene_number"`
	Title       string         `json:"title,omitempty"`
	Content     string         `json:"content,omitempty"`
	WordCount   int            `json:"word_count,omitempty"`
	Beats       map[string]any `json:"beats,omitempty"`
	Location    string         `json:"location,omitempty"`
	Characters  []string       `json:"characters,omitempty"`
	Mood        string         `json:"mood,omitempty"`
}

type NotificationType string

const (
	NotifyInfo    NotificationType = "info"
	NotifySuccess NotificationType = "success"
	NotifyWarning NotificationType = "warning"
	NotifyError   NotificationType = "error"
)

type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Timestamp string           `json:"timestamp"`
}
