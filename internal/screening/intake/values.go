package intake

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// Tri is a three-valued answer. Unknown is the zero value and means the field
// has not been answered; it is never the same as No.
type Tri uint8

const (
	Unknown Tri = iota
	Yes
	No
)

// TriOf converts an explicit boolean answer.
func TriOf(b bool) Tri {
	if b {
		return Yes
	}
	return No
}

func (t Tri) Known() bool { return t == Yes || t == No }
func (t Tri) IsTrue() bool { return t == Yes }
func (t Tri) IsFalse() bool { return t == No }

func (t Tri) String() string {
	switch t {
	case Yes:
		return "yes"
	case No:
		return "no"
	default:
		return "unknown"
	}
}

func (t Tri) MarshalJSON() ([]byte, error) {
	switch t {
	case Yes:
		return []byte("true"), nil
	case No:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

func (t *Tri) UnmarshalJSON(b []byte) error {
	switch string(bytes.TrimSpace(b)) {
	case "true":
		*t = Yes
	case "false":
		*t = No
	case "null":
		*t = Unknown
	default:
		return fmt.Errorf("tri-state value must be true, false or null, got %s", b)
	}
	return nil
}

// Choice is an enumerated answer. The empty choice is unanswered.
type Choice string

func (c Choice) Known() bool { return c != "" }

// Num is a numeric answer.
type Num struct {
	Value float64
	Known bool
}

// NumOf returns a known numeric answer.
func NumOf(v float64) Num { return Num{Value: v, Known: true} }

// AtLeast reports whether the number is answered and >= floor.
func (n Num) AtLeast(floor float64) bool { return n.Known && n.Value >= floor }

// Below reports whether the number is answered and < ceiling.
func (n Num) Below(ceiling float64) bool { return n.Known && n.Value < ceiling }

// TagSet is a set of selected tags. An answered empty set means "none apply",
// which differs from an unanswered set.
type TagSet struct {
	Known  bool
	Values []string
}

// TagsOf returns an answered tag set.
func TagsOf(tags ...string) TagSet {
	return TagSet{Known: true, Values: tags}
}

func (s TagSet) Has(tag string) bool { return s.Known && slices.Contains(s.Values, tag) }

// Count returns the number of selected tags, zero when unanswered.
func (s TagSet) Count() int {
	if !s.Known {
		return 0
	}
	return len(s.Values)
}

// IsEmpty reports an answered set with nothing selected.
func (s TagSet) IsEmpty() bool { return s.Known && len(s.Values) == 0 }

// Kind is the shape of a field's answer.
type Kind uint8

const (
	KindTri Kind = iota + 1
	KindChoice
	KindNumber
	KindText
	KindTags
)

func (k Kind) String() string {
	switch k {
	case KindTri:
		return "tri"
	case KindChoice:
		return "choice"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindTags:
		return "tags"
	default:
		return "invalid"
	}
}

// Answer is one collected value. Only the member matching Kind is meaningful.
type Answer struct {
	Kind   Kind
	Tri    Tri
	Choice Choice
	Number float64
	Text   string
	Tags   []string
}

func Bool(b bool) Answer { return Answer{Kind: KindTri, Tri: TriOf(b)} }
func Pick(c Choice) Answer { return Answer{Kind: KindChoice, Choice: c} }
func Number(v float64) Answer { return Answer{Kind: KindNumber, Number: v} }
func Text(s string) Answer { return Answer{Kind: KindText, Text: s} }
func Tags(tags ...string) Answer { return Answer{Kind: KindTags, Tags: append([]string{}, tags...)} }

// MarshalJSON writes the natural JSON for the answer's kind.
func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case KindTri:
		return a.Tri.MarshalJSON()
	case KindChoice:
		return json.Marshal(string(a.Choice))
	case KindNumber:
		return json.Marshal(a.Number)
	case KindText:
		return json.Marshal(a.Text)
	case KindTags:
		if a.Tags == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(a.Tags)
	default:
		return nil, fmt.Errorf("answer has no kind")
	}
}

func (a Answer) clone() Answer {
	if a.Tags != nil {
		a.Tags = slices.Clone(a.Tags)
	}
	return a
}

func (a Answer) equal(b Answer) bool {
	return a.Kind == b.Kind && a.Tri == b.Tri && a.Choice == b.Choice &&
		a.Number == b.Number && a.Text == b.Text && slices.Equal(a.Tags, b.Tags)
}
