package model

import (
	"encoding/json"
	"fmt"
)

// Answer is one answer slot of an attempt, aligned by index to the exam's
// questions. It is a tagged variant over {absent, single string, ordered
// sequence of strings}: clients send free-form values per question, and the
// variant pins the shape down instead of carrying raw JSON through grading.
type Answer struct {
	Text *string
	List []string
}

// TextAnswer builds a single-string answer.
func TextAnswer(s string) Answer {
	return Answer{Text: &s}
}

// ListAnswer builds an ordered-sequence answer.
func ListAnswer(items ...string) Answer {
	if items == nil {
		items = []string{}
	}
	return Answer{List: items}
}

// IsZero reports whether the slot is still the empty placeholder.
func (a Answer) IsZero() bool {
	return a.Text == nil && a.List == nil
}

// MatchesKind reports whether the variant shape fits the question kind:
// enumeration takes a sequence, every other kind takes a single string.
// The empty placeholder fits any kind.
func (a Answer) MatchesKind(k QuestionKind) bool {
	if a.IsZero() {
		return true
	}
	if k == QuestionEnumeration {
		return a.List != nil
	}
	return a.Text != nil
}

// MarshalJSON encodes the variant as null, a JSON string, or a JSON array.
func (a Answer) MarshalJSON() ([]byte, error) {
	switch {
	case a.Text != nil:
		return json.Marshal(*a.Text)
	case a.List != nil:
		return json.Marshal(a.List)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts null, a JSON string, or a JSON array of strings.
// Any other shape is rejected.
func (a *Answer) UnmarshalJSON(data []byte) error {
	*a = Answer{}

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		a.Text = &v
		return nil
	case []interface{}:
		list := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("answer list entries must be strings, got %T", item)
			}
			list = append(list, s)
		}
		a.List = list
		return nil
	default:
		return fmt.Errorf("answer must be null, a string, or a list of strings, got %T", v)
	}
}

// EmptyAnswers returns one empty placeholder slot per question.
func EmptyAnswers(n int) []Answer {
	return make([]Answer, n)
}
