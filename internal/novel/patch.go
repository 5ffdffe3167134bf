package novel

// Patches are partial updates. A nil field leaves the target unchanged. They
// double as the PUT body sent to the backend.

type ProjectPatch struct {
	Title            *string        `json:"title,omitempty"`
	Genre            *string        `json:"genre,omitempty"`
	TargetWordCount  *int           `json:"target_word_count,omitempty"`
	CurrentWordCount *int           `json:"current_word_count,omitempty"`
	Status           *ProjectStatus `json:"status,omitempty"`
	StructureType    *StructureType `json:"structure_type,omitempty"`
	Settings         map[string]any `json:"settings,omitempty"`
}

func (p ProjectPatch) Apply(pr Project) Project {
	if p.Title != nil {
		pr.Title = *p.Title
	}
	if p.Genre != nil {
		pr.Genre = *p.Genre
	}
	if p.TargetWordCount != nil {
		pr.TargetWordCount = *p.TargetWordCount
	}
	if p.CurrentWordCount != nil {
		pr.CurrentWordCount = *p.CurrentWordCount
	}
	if p.Status != nil {
		pr.Status = *p.Status
	}
	if p.StructureType != nil {
		pr.StructureType = *p.StructureType
	}
	if p.Settings != nil {
		pr.Settings = p.Settings
	}
	return pr
}

type InspirationPatch struct {
	Content  *string              `json:"content,omitempty"`
	Category *InspirationCategory `json:"category,omitempty"`
	Tags     []string             `json:"tags,omitempty"`
	Status   *InspirationStatus   `json:"status,omitempty"`
	Metadata map[string]any       `json:"metadata,omitempty"`
}

func (p InspirationPatch) Apply(in Inspiration) Inspiration {
	if p.Content != nil {
		in.Content = *p.Content
	}
	if p.Category != nil {
		in.Category = *p.Category
	}
	if p.Tags != nil {
		in.Tags = append([]string(nil), p.Tags...)
	}
	if p.Status != nil {
		in.Status = *p.Status
	}
	if p.Metadata != nil {
		in.Metadata = p.Metadata
	}
	return in
}

type CharacterPatch struct {
	Name          *string           `json:"name,omitempty"`
	RoleType      *RoleType         `json:"role_type,omitempty"`
	Profile       *CharacterProfile `json:"profile,omitempty"`
	Relationships map[string]string `json:"relationships,omitempty"`
	Arc           *CharacterArc     `json:"arc_data,omitempty"`
}

func (p CharacterPatch) Apply(c Character) Character {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.RoleType != nil {
		c.RoleType = *p.RoleType
	}
	if p.Profile != nil {
		c.Profile = p.Profile
	}
	if p.Relationships != nil {
		c.Relationships = p.Relationships
	}
	if p.Arc != nil {
		c.Arc = p.Arc
	}
	return c
}

// Ptr returns a pointer to v, for building patches.
func Ptr[T any](v T) *T {
	return &v
}
