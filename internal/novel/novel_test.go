package novel

import (
	"encoding/json"
	"slices"
	"testing"
)

func TestPersonaForPhase(t *testing.T) {
	tests := []struct {
		phase Phase
		want  Persona
	}{
		{PhaseInspiration, PersonaInspirationCollector},
		{PhaseStructure, PersonaStructureArchitect},
		{PhaseCharacter, PersonaCharacterDesigner},
		{PhasePlot, PersonaPlotWeaver},
		{PhaseContent, PersonaSceneRenderer},
		{PhaseRhythm, PersonaRhythmAdjuster},
		{PhaseEditing, PersonaTextPolisher},
		{PhaseDashboard, PersonaInspirationCollector},
		{PhaseKnowledge, PersonaInspirationCollector},
		{Phase("nonsense"), PersonaInspirationCollector},
		{Phase(""), PersonaInspirationCollector},
	}
	for _, tt := range tests {
		if got := PersonaForPhase(tt.phase); got != tt.want {
			t.Errorf("PersonaForPhase(%q) = %q, want %q", tt.phase, got, tt.want)
		}
	}
}

func TestPersonaForPhase_EveryPhaseHasInfo(t *testing.T) {
	for _, p := range Phases {
		info := PersonaForPhase(p).Info()
		if info.Name == "" || info.Emoji == "" || info.Description == "" {
			t.Errorf("persona for %q missing display info: %+v", p, info)
		}
	}
}

func TestPanelForPhase(t *testing.T) {
	tests := []struct {
		phase Phase
		want  Panel
	}{
		{PhaseInspiration, PanelInspirations},
		{PhaseCharacter, PanelCharacters},
		{PhaseStructure, PanelOutline},
		{PhasePlot, PanelProjectInfo},
		{PhaseEditing, PanelProjectInfo},
		{PhaseDashboard, PanelProjectInfo},
	}
	for _, tt := range tests {
		if got := PanelForPhase(tt.phase); got != tt.want {
			t.Errorf("PanelForPhase(%q) = %q, want %q", tt.phase, got, tt.want)
		}
	}
}

func TestWordCountProgress(t *testing.T) {
	tests := []struct {
		name      string
		current   int
		target    int
		hasTarget bool
		pct       int
		denom     string
	}{
		{"half", 50000, 100000, true, 50, "100,000"},
		{"over target clamps", 150, 100, true, 100, "100"},
		{"negative clamps", -10, 100, true, 0, "100"},
		{"rounds", 1, 3, true, 33, "3"},
		{"no target", 50000, 0, false, 0, "∞"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wp := WordCountProgress(tt.current, tt.target)
			if wp.HasTarget != tt.hasTarget {
				t.Errorf("HasTarget = %v, want %v", wp.HasTarget, tt.hasTarget)
			}
			if wp.Percent != tt.pct {
				t.Errorf("Percent = %d, want %d", wp.Percent, tt.pct)
			}
			if got := wp.Denominator(); got != tt.denom {
				t.Errorf("Denominator = %q, want %q", got, tt.denom)
			}
		})
	}
}

func TestPhaseProgress(t *testing.T) {
	tests := []struct {
		phase Phase
		want  int
	}{
		{PhaseInspiration, 14},
		{PhaseStructure, 29},
		{PhaseCharacter, 43},
		{PhaseEditing, 100},
		{PhaseDashboard, 0},
	}
	for _, tt := range tests {
		if got := PhaseProgress(tt.phase); got != tt.want {
			t.Errorf("PhaseProgress(%q) = %d, want %d", tt.phase, got, tt.want)
		}
	}
}

func TestFormatTokens(t *testing.T) {
	tests := []struct {
		input int
		want  string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.0K"},
		{1500, "1.5K"},
		{1_000_000, "1.0M"},
		{2_500_000, "2.5M"},
	}
	for _, tt := range tests {
		if got := FormatTokens(tt.input); got != tt.want {
			t.Errorf("FormatTokens(%d) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		input int
		want  string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{123456, "123,456"},
		{1234567, "1,234,567"},
		{-4200, "-4,200"},
	}
	for _, tt := range tests {
		if got := FormatCount(tt.input); got != tt.want {
			t.Errorf("FormatCount(%d) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 20); got != "short" {
		t.Errorf("Truncate short = %q", got)
	}
	if got := Truncate("abcdefghij", 8); got != "abcde..." {
		t.Errorf("Truncate long = %q, want %q", got, "abcde...")
	}
	if got := Truncate("灵感灵感灵感", 5); got != "灵感..." {
		t.Errorf("Truncate runes = %q, want %q", got, "灵感...")
	}
}

func TestStructuredData_ShapeKeyed(t *testing.T) {
	raw := `{
		"suggested_actions": [{"type":"develop","label":"Develop it"}],
		"outline": {"acts":[{"act_number":1,"title":"Setup","percentage":25,"word_count":20000,"key_points":[]}],"target_word_count":80000},
		"conflict_options": [{"type":"inner","routine_element":"a","abnormal_element":"b","goal":"c","obstacle":"d","inescapable":"e"}],
		"mood": "ignored"
	}`
	var sd StructuredData
	if err := json.Unmarshal([]byte(raw), &sd); err != nil {
		t.Fatal(err)
	}
	if len(sd) != 3 {
		t.Fatalf("expected 3 payloads, got %d", len(sd))
	}
	wantOrder := []PayloadKind{KindConflictOptions, KindOutline, KindSuggestedActions}
	for i, k := range wantOrder {
		if sd[i].Kind() != k {
			t.Errorf("payload %d kind = %q, want %q", i, sd[i].Kind(), k)
		}
	}
	outline := sd[1].(OutlinePayload)
	if outline.Outline.TargetWordCount != 80000 || outline.Outline.Acts[0].Title != "Setup" {
		t.Errorf("outline = %+v", outline.Outline)
	}
	conflicts := sd[0].(ConflictOptionsPayload)
	if conflicts.Options[0].Inescapable != "e" {
		t.Errorf("conflict option = %+v", conflicts.Options[0])
	}
}

func TestStructuredData_Tagged(t *testing.T) {
	raw := `{"kind":"character","character":{"id":"c1","name":"Lin","role_type":"protagonist"},"outline":{"acts":[]}}`
	var sd StructuredData
	if err := json.Unmarshal([]byte(raw), &sd); err != nil {
		t.Fatal(err)
	}
	if len(sd) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(sd))
	}
	cp, ok := sd[0].(CharacterPayload)
	if !ok {
		t.Fatalf("payload type = %T", sd[0])
	}
	if cp.Character.Name != "Lin" || cp.Character.RoleType != RoleProtagonist {
		t.Errorf("character = %+v", cp.Character)
	}
}

func TestStructuredData_TaggedArray(t *testing.T) {
	raw := `[{"kind":"suggested_actions","suggested_actions":[{"type":"a","label":"A"}]},{"kind":"outline","outline":{"acts":[],"target_word_count":10}}]`
	var sd StructuredData
	if err := json.Unmarshal([]byte(raw), &sd); err != nil {
		t.Fatal(err)
	}
	if len(sd) != 2 || sd[0].Kind() != KindSuggestedActions || sd[1].Kind() != KindOutline {
		t.Errorf("payloads = %+v", sd)
	}
}

func TestStructuredData_LenientDecode(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		kinds []PayloadKind
	}{
		{"unknown kind", `{"kind":"analysis"}`, nil},
		{"unknown kind falls back to shape", `{"kind":"analysis","outline":{"acts":[]}}`, []PayloadKind{KindOutline}},
		{"non-string kind", `{"kind":7,"suggested_actions":[{"type":"a","label":"A"}]}`, []PayloadKind{KindSuggestedActions}},
		{"tagged variant missing", `{"kind":"character","outline":{"acts":[]}}`, []PayloadKind{KindOutline}},
		{"malformed outline skipped", `{"outline":{"acts":[{"act_number":1,"word_count":"20000"}]},"suggested_actions":[{"type":"a","label":"A"}]}`, []PayloadKind{KindSuggestedActions}},
		{"string character skipped", `{"character":"Lin","conflict_options":[{"type":"moral","goal":"g"}]}`, []PayloadKind{KindConflictOptions}},
		{"bad list entries skipped", `[{"kind":"spaceship"},"text",{"kind":"outline","outline":{"acts":[]}}]`, []PayloadKind{KindOutline}},
		{"plain string", `"see above"`, nil},
		{"number", `42`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sd StructuredData
			if err := json.Unmarshal([]byte(tt.raw), &sd); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			var got []PayloadKind
			for _, p := range sd {
				got = append(got, p.Kind())
			}
			if !slices.Equal(got, tt.kinds) {
				t.Errorf("kinds = %v, want %v", got, tt.kinds)
			}
		})
	}
}

func TestMessageReply_BadPayloadKeepsMessage(t *testing.T) {
	raw := `{"message":{"role":"assistant","content":"Here is a draft.","structured_data":{"kind":"analysis"}},
		"suggested_actions":[{"type":"next","label":"Go on"}]}`
	var reply MessageReply
	if err := json.Unmarshal([]byte(raw), &reply); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if reply.Message.Content != "Here is a draft." {
		t.Errorf("content = %q", reply.Message.Content)
	}
	if len(reply.Message.StructuredData) != 0 {
		t.Errorf("structured data = %+v, want none", reply.Message.StructuredData)
	}
	if len(reply.SuggestedActions) != 1 {
		t.Errorf("suggested actions = %+v", reply.SuggestedActions)
	}
}

func TestStructuredData_NullAndEmpty(t *testing.T) {
	var msg Message
	if err := json.Unmarshal([]byte(`{"role":"assistant","content":"hi","structured_data":null}`), &msg); err != nil {
		t.Fatal(err)
	}
	if msg.StructuredData != nil {
		t.Errorf("null structured_data = %+v, want nil", msg.StructuredData)
	}

	if err := json.Unmarshal([]byte(`{"role":"assistant","content":"hi","structured_data":{"conflict_options":[]}}`), &msg); err != nil {
		t.Fatal(err)
	}
	if len(msg.StructuredData) != 0 {
		t.Errorf("empty list produced payloads: %+v", msg.StructuredData)
	}
}

func TestStructuredData_MarshalShapeKeyed(t *testing.T) {
	sd := StructuredData{
		SuggestedActionsPayload{Actions: []SuggestedAction{{Type: "x", Label: "X"}}},
	}
	data, err := json.Marshal(sd)
	if err != nil {
		t.Fatal(err)
	}
	var back map[string]json.RawMessage
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if _, ok := back["suggested_actions"]; !ok {
		t.Errorf("marshalled form missing suggested_actions key: %s", data)
	}
}

func TestCharacterProfile_Groups(t *testing.T) {
	raw := `{"repetitive_behavior":{"appearance":"tall","speech_pattern":""},"real_flaw":{"core_flaw":"pride"}}`
	var p CharacterProfile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatal(err)
	}
	groups := p.Groups()
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Title != "Repetitive behavior" || len(groups[0].Fields) != 1 {
		t.Errorf("first group = %+v", groups[0])
	}
	if groups[1].Fields[0].Value != "pride" {
		t.Errorf("real flaw = %+v", groups[1])
	}

	var nilProfile *CharacterProfile
	if nilProfile.Groups() != nil {
		t.Error("nil profile should have no groups")
	}
}
