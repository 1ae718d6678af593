package intake

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"

	dErrors "lexscreen/pkg/domain-errors"
)

// Variant names a screening questionnaire.
type Variant string

const (
	VariantWaiver   Variant = "waiver"
	VariantPetition Variant = "petition"
	VariantWork     Variant = "work"
)

// Variants lists every supported variant in display order.
func Variants() []Variant {
	return []Variant{VariantWaiver, VariantPetition, VariantWork}
}

// ParseVariant validates a variant name from an untrusted source.
func ParseVariant(s string) (Variant, error) {
	v := Variant(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := schemas[v]; !ok {
		return "", dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unknown screening variant %q", s))
	}
	return v, nil
}

// FieldKey is the dotted "group.field" name of a fact.
type FieldKey string

// Group returns the sub-record a field belongs to.
func (k FieldKey) Group() string {
	group, _, _ := strings.Cut(string(k), ".")
	return group
}

// Field describes one collectable fact.
type Field struct {
	Key  FieldKey `json:"key"`
	Kind Kind     `json:"-"`
	// Options bounds choice and tag answers. Empty means unbounded.
	Options []string `json:"options,omitempty"`
	// Max caps number answers. Zero means no cap.
	Max float64 `json:"max,omitempty"`
}

// binding ties a field to the typed view member it decodes into.
type binding struct {
	field Field
	ptr   any
}

func tri(key FieldKey, p *Tri) binding {
	return binding{field: Field{Key: key, Kind: KindTri}, ptr: p}
}

func choice(key FieldKey, p *Choice, options ...Choice) binding {
	opts := make([]string, len(options))
	for i, o := range options {
		opts[i] = string(o)
	}
	return binding{field: Field{Key: key, Kind: KindChoice, Options: opts}, ptr: p}
}

func number(key FieldKey, p *Num) binding {
	return binding{field: Field{Key: key, Kind: KindNumber}, ptr: p}
}

func capped(b binding, max float64) binding {
	b.field.Max = max
	return b
}

func text(key FieldKey, p *string) binding {
	return binding{field: Field{Key: key, Kind: KindText}, ptr: p}
}

func tags(key FieldKey, p *TagSet, options ...string) binding {
	return binding{field: Field{Key: key, Kind: KindTags, Options: options}, ptr: p}
}

// Schema is the field catalogue of one variant.
type Schema struct {
	Variant Variant
	Fields  []Field
	byKey   map[FieldKey]Field
}

func newSchema(v Variant, bindings []binding) *Schema {
	s := &Schema{Variant: v, byKey: make(map[FieldKey]Field, len(bindings))}
	for _, b := range bindings {
		if _, dup := s.byKey[b.field.Key]; dup {
			panic(fmt.Sprintf("intake: duplicate field %s in %s schema", b.field.Key, v))
		}
		s.Fields = append(s.Fields, b.field)
		s.byKey[b.field.Key] = b.field
	}
	return s
}

var schemas = map[Variant]*Schema{
	VariantWaiver:   newSchema(VariantWaiver, new(WaiverFacts).bindings()),
	VariantPetition: newSchema(VariantPetition, new(PetitionFacts).bindings()),
	VariantWork:     newSchema(VariantWork, new(WorkFacts).bindings()),
}

// SchemaFor returns the schema of a variant.
func SchemaFor(v Variant) (*Schema, bool) {
	s, ok := schemas[v]
	return s, ok
}

// Field looks up a field by key.
func (s *Schema) Field(key FieldKey) (Field, bool) {
	f, ok := s.byKey[key]
	return f, ok
}

// Keys returns all field keys in sorted order.
func (s *Schema) Keys() []FieldKey {
	keys := make([]FieldKey, 0, len(s.Fields))
	for _, f := range s.Fields {
		keys = append(keys, f.Key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Check validates an answer against the field it targets.
func (s *Schema) Check(key FieldKey, a Answer) error {
	f, ok := s.byKey[key]
	if !ok {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown field %q for %s screening", key, s.Variant))
	}
	if a.Kind != f.Kind {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("field %q expects a %s answer, got %s", key, f.Kind, a.Kind))
	}
	switch f.Kind {
	case KindTri:
		if !a.Tri.Known() {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("field %q must be answered true or false", key))
		}
	case KindChoice:
		if !a.Choice.Known() {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("field %q requires a choice", key))
		}
		if len(f.Options) > 0 && !slices.Contains(f.Options, string(a.Choice)) {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("field %q does not accept %q", key, a.Choice))
		}
	case KindNumber:
		if math.IsNaN(a.Number) || math.IsInf(a.Number, 0) || a.Number < 0 {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("field %q must be a non-negative number", key))
		}
		if f.Max > 0 && a.Number > f.Max {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("field %q must not exceed %g", key, f.Max))
		}
	case KindText:
		if len(a.Text) > maxTextLength {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("field %q exceeds %d characters", key, maxTextLength))
		}
	case KindTags:
		for _, tag := range a.Tags {
			if len(f.Options) > 0 && !slices.Contains(f.Options, tag) {
				return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("field %q does not accept tag %q", key, tag))
			}
		}
	}
	return nil
}

const maxTextLength = 4000

// ParseAnswer decodes the natural JSON form of an answer for key. A JSON null
// yields ok=false: the field stays as it was.
func (s *Schema) ParseAnswer(key FieldKey, raw json.RawMessage) (a Answer, ok bool, err error) {
	f, found := s.byKey[key]
	if !found {
		return Answer{}, false, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown field %q for %s screening", key, s.Variant))
	}
	if len(raw) == 0 || string(raw) == "null" {
		return Answer{}, false, nil
	}
	a.Kind = f.Kind
	switch f.Kind {
	case KindTri:
		var b bool
		err = json.Unmarshal(raw, &b)
		a.Tri = TriOf(b)
	case KindChoice:
		var c string
		err = json.Unmarshal(raw, &c)
		a.Choice = Choice(strings.TrimSpace(c))
	case KindNumber:
		err = json.Unmarshal(raw, &a.Number)
	case KindText:
		err = json.Unmarshal(raw, &a.Text)
		a.Text = strings.TrimSpace(a.Text)
	case KindTags:
		var values []string
		err = json.Unmarshal(raw, &values)
		a.Tags = normalizeTags(values)
	}
	if err != nil {
		return Answer{}, false, dErrors.Wrap(err, dErrors.CodeValidation, fmt.Sprintf("field %q expects a %s answer", key, f.Kind))
	}
	if err := s.Check(key, a); err != nil {
		return Answer{}, false, err
	}
	return a, true, nil
}

// ParseAnswers decodes a JSON object of field answers, skipping nulls.
func (s *Schema) ParseAnswers(raw map[string]json.RawMessage) (map[FieldKey]Answer, error) {
	out := make(map[FieldKey]Answer, len(raw))
	for k, v := range raw {
		a, ok, err := s.ParseAnswer(FieldKey(k), v)
		if err != nil {
			return nil, err
		}
		if ok {
			out[FieldKey(k)] = a
		}
	}
	return out, nil
}

// decode copies answered fields into the typed view members.
func decode(f Facts, bindings []binding) {
	for _, b := range bindings {
		a, ok := f.answers[b.field.Key]
		if !ok {
			continue
		}
		switch p := b.ptr.(type) {
		case *Tri:
			*p = a.Tri
		case *Choice:
			*p = a.Choice
		case *Num:
			*p = NumOf(a.Number)
		case *string:
			*p = a.Text
		case *TagSet:
			*p = TagsOf(slices.Clone(a.Tags)...)
		}
	}
}
