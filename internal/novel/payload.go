package novel

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

type PayloadKind string

const (
	KindConflictOptions  PayloadKind = "conflict_options"
	KindCharacter        PayloadKind = "character"
	KindOutline          PayloadKind = "outline"
	KindSuggestedActions PayloadKind = "suggested_actions"
)

// payloadOrder is the order variants are decoded from (and rendered in) a
// shape-keyed object.
var payloadOrder = []PayloadKind{
	KindConflictOptions,
	KindCharacter,
	KindOutline,
	KindSuggestedActions,
}

// Payload is machine-readable data attached to an assistant message. The
// set of implementations is closed.
type Payload interface {
	Kind() PayloadKind
	sealed()
}

type ConflictOptionsPayload struct {
	Options []ConflictOption
}

type CharacterPayload struct {
	Character Character
}

type OutlinePayload struct {
	Outline Outline
}

type SuggestedActionsPayload struct {
	Actions []SuggestedAction
}

func (ConflictOptionsPayload) Kind() PayloadKind  { return KindConflictOptions }
func (CharacterPayload) Kind() PayloadKind        { return KindCharacter }
func (OutlinePayload) Kind() PayloadKind          { return KindOutline }
func (SuggestedActionsPayload) Kind() PayloadKind { return KindSuggestedActions }

func (ConflictOptionsPayload) sealed()  {}
func (CharacterPayload) sealed()        {}
func (OutlinePayload) sealed()          {}
func (SuggestedActionsPayload) sealed() {}

// StructuredData is the set of payloads on one message, at most one per kind.
//
// On the wire it is the object the backend sends, keyed by shape:
//
//	{"conflict_options": [...], "outline": {...}}
//
// An object carrying an explicit "kind" holds exactly that variant, and an
// array of such objects holds several. Unknown keys and kinds are ignored,
// and so is a variant that does not decode.
type StructuredData []Payload

// Find returns the payload of kind k, if present.
func (s StructuredData) Find(k PayloadKind) (Payload, bool) {
	for _, p := range s {
		if p.Kind() == k {
			return p, true
		}
	}
	return nil, false
}

func (s StructuredData) MarshalJSON() ([]byte, error) {
	if len(s) == 0 {
		return []byte("null"), nil
	}
	out := make(map[string]any, len(s))
	for _, p := range s {
		switch v := p.(type) {
		case ConflictOptionsPayload:
			out[string(KindConflictOptions)] = v.Options
		case CharacterPayload:
			out[string(KindCharacter)] = v.Character
		case OutlinePayload:
			out[string(KindOutline)] = v.Outline
		case SuggestedActionsPayload:
			out[string(KindSuggestedActions)] = v.Actions
		default:
			return nil, fmt.Errorf("unknown payload %T", p)
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON never fails. The backend fills this field from model output,
// so a payload that does not decode is skipped and the rest of the message
// is kept.
func (s *StructuredData) UnmarshalJSON(data []byte) error {
	*s = nil
	data = bytes.TrimSpace(data)
	if len(data) == 0 || isNull(data) {
		return nil
	}

	if data[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			skipPayload("list", err)
			return nil
		}
		var out StructuredData
		for _, item := range items {
			for _, p := range decodeObject(item) {
				out = out.with(p)
			}
		}
		*s = out
		return nil
	}

	*s = decodeObject(data)
	return nil
}

// decodeObject decodes one wire object. A known "kind" selects that variant;
// anything else is read by shape.
func decodeObject(data []byte) StructuredData {
	fields, err := decodeFields(data)
	if err != nil {
		skipPayload("object", err)
		return nil
	}
	if p, ok := decodeTagged(fields); ok {
		return StructuredData{p}
	}

	var out StructuredData
	for _, k := range payloadOrder {
		raw, ok := fields[string(k)]
		if !ok || isNull(raw) {
			continue
		}
		p, err := decodeVariant(k, raw)
		if err != nil {
			skipPayload(string(k), err)
			continue
		}
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

func skipPayload(what string, err error) {
	zap.L().Debug("skipping structured payload", zap.String("payload", what), zap.Error(err))
}

// with replaces an existing payload of the same kind or appends p.
func (s StructuredData) with(p Payload) StructuredData {
	for i, q := range s {
		if q.Kind() == p.Kind() {
			s[i] = p
			return s
		}
	}
	return append(s, p)
}

func decodeFields(data []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// decodeTagged reports false when fields carry no usable "kind": missing,
// not a string, unknown, or naming a variant that is absent or malformed.
func decodeTagged(fields map[string]json.RawMessage) (Payload, bool) {
	rawKind, ok := fields["kind"]
	if !ok {
		return nil, false
	}
	var kind PayloadKind
	if err := json.Unmarshal(rawKind, &kind); err != nil || !knownKind(kind) {
		return nil, false
	}
	raw, ok := fields[string(kind)]
	if !ok || isNull(raw) {
		return nil, false
	}
	p, err := decodeVariant(kind, raw)
	if err != nil {
		skipPayload(string(kind), err)
		return nil, false
	}
	return p, p != nil
}

func knownKind(k PayloadKind) bool {
	for _, known := range payloadOrder {
		if k == known {
			return true
		}
	}
	return false
}

// decodeVariant returns nil for an unknown kind, or for an empty list.
func decodeVariant(k PayloadKind, raw json.RawMessage) (Payload, error) {
	switch k {
	case KindConflictOptions:
		var v []ConflictOption
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		if len(v) == 0 {
			return nil, nil
		}
		return ConflictOptionsPayload{Options: v}, nil
	case KindCharacter:
		var v Character
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return CharacterPayload{Character: v}, nil
	case KindOutline:
		var v Outline
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return OutlinePayload{Outline: v}, nil
	case KindSuggestedActions:
		var v []SuggestedAction
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		if len(v) == 0 {
			return nil, nil
		}
		return SuggestedActionsPayload{Actions: v}, nil
	}
	return nil, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
