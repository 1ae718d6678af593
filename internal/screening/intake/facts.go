package intake

import (
	"encoding/json"
	"fmt"
	"maps"
	"sort"

	pstrings "lexscreen/pkg/platform/strings"
)

// Facts is the set of answers collected for one screening. Fields absent from
// the set are unknown. Facts is a value: Merge and Only return copies, so a
// Facts handed to the classifier cannot change underneath it.
type Facts struct {
	variant Variant
	answers map[FieldKey]Answer
}

// New returns the empty instance of a variant, every field unknown.
func New(v Variant) Facts {
	return Facts{variant: v, answers: map[FieldKey]Answer{}}
}

func (f Facts) Variant() Variant { return f.variant }

func (f Facts) Schema() *Schema { return schemas[f.variant] }

// Len returns the number of answered fields.
func (f Facts) Len() int { return len(f.answers) }

func (f Facts) Answered(key FieldKey) bool {
	_, ok := f.answers[key]
	return ok
}

func (f Facts) Get(key FieldKey) (Answer, bool) {
	a, ok := f.answers[key]
	if !ok {
		return Answer{}, false
	}
	return a.clone(), true
}

func (f Facts) Tri(key FieldKey) Tri {
	return f.answers[key].Tri
}

func (f Facts) Choice(key FieldKey) Choice {
	return f.answers[key].Choice
}

func (f Facts) Number(key FieldKey) Num {
	a, ok := f.answers[key]
	if !ok || a.Kind != KindNumber {
		return Num{}
	}
	return NumOf(a.Number)
}

func (f Facts) Tags(key FieldKey) TagSet {
	a, ok := f.answers[key]
	if !ok || a.Kind != KindTags {
		return TagSet{}
	}
	return TagsOf(a.Tags...)
}

// Keys returns the answered keys in sorted order.
func (f Facts) Keys() []FieldKey {
	keys := make([]FieldKey, 0, len(f.answers))
	for k := range f.answers {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Merge returns a copy of f with answers applied. Every answer is checked
// against the schema first; on error f is unchanged. Existing answers are
// overwritten but never removed.
func (f Facts) Merge(answers map[FieldKey]Answer) (Facts, error) {
	schema, ok := schemas[f.variant]
	if !ok {
		return f, fmt.Errorf("facts have unknown variant %q", f.variant)
	}
	for key, a := range answers {
		if err := schema.Check(key, a); err != nil {
			return f, err
		}
	}
	out := f.clone()
	for key, a := range answers {
		out.answers[key] = a.clone()
	}
	return out, nil
}

// Only returns a copy holding just the listed keys; the rest become unknown.
func (f Facts) Only(keys []FieldKey) Facts {
	out := Facts{variant: f.variant, answers: make(map[FieldKey]Answer, len(keys))}
	for _, k := range keys {
		if a, ok := f.answers[k]; ok {
			out.answers[k] = a.clone()
		}
	}
	return out
}

// Equal reports whether both fact sets hold identical answers.
func (f Facts) Equal(other Facts) bool {
	if f.variant != other.variant || len(f.answers) != len(other.answers) {
		return false
	}
	for k, a := range f.answers {
		b, ok := other.answers[k]
		if !ok || !a.equal(b) {
			return false
		}
	}
	return true
}

func (f Facts) clone() Facts {
	out := Facts{variant: f.variant, answers: make(map[FieldKey]Answer, len(f.answers))}
	for k, a := range f.answers {
		out.answers[k] = a.clone()
	}
	return out
}

type factsJSON struct {
	Variant Variant                    `json:"variant"`
	Answers map[string]json.RawMessage `json:"answers"`
}

func (f Facts) MarshalJSON() ([]byte, error) {
	out := factsJSON{Variant: f.variant, Answers: make(map[string]json.RawMessage, len(f.answers))}
	for k, a := range f.answers {
		b, err := json.Marshal(a)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", k, err)
		}
		out.Answers[string(k)] = b
	}
	return json.Marshal(out)
}

func (f *Facts) UnmarshalJSON(b []byte) error {
	var in factsJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	v, err := ParseVariant(string(in.Variant))
	if err != nil {
		return err
	}
	answers, err := schemas[v].ParseAnswers(in.Answers)
	if err != nil {
		return err
	}
	*f = Facts{variant: v, answers: answers}
	return nil
}

// Answers exposes a copy of the raw answers, keyed by field.
func (f Facts) Answers() map[FieldKey]Answer {
	out := maps.Clone(f.answers)
	for k, a := range out {
		out[k] = a.clone()
	}
	return out
}

func normalizeTags(values []string) []string {
	if values == nil {
		return []string{}
	}
	return pstrings.DedupeAndTrimLower(values)
}
